package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/candy/go/candy/internal/devicestore"
	"github.com/provide-io/candy/go/candy/pkg"
	"github.com/provide-io/candy/go/candy/pkg/candy/crypto"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newDetectCmd() *cobra.Command {
	var (
		ip   string
		name string
		save bool
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect the encryption mode of a device and recover its key",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx, cancel := signalContext()
			defer cancel()

			result, err := pkg.DetectDevice(ctx, ip, logger)
			if err != nil {
				return err
			}

			fmt.Printf("Encryption: %s\n", result.Mode)
			fmt.Printf("Use encryption: %t\n", result.UseEncryption())
			if len(result.Key) > 0 {
				fmt.Printf("Key: %s\n", result.Key)
			}

			if !save {
				return nil
			}
			if name == "" {
				name = ip
			}
			store, err := openStore(logger)
			if err != nil {
				return err
			}
			device := devicestore.DeviceFromResult(name, ip, result)
			if err := store.Update(func(s *devicestore.Store) error { return s.Put(device) }); err != nil {
				return err
			}
			fmt.Printf("Saved %s to %s\n", name, store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&ip, "ip", "", "Device IP address (required)")
	cmd.Flags().StringVar(&name, "name", "", "Name to store the device under (defaults to the IP)")
	cmd.Flags().BoolVar(&save, "save", false, "Store the detected device")
	if err := cmd.MarkFlagRequired("ip"); err != nil {
		panic(err)
	}
	return cmd
}

// target is the device a status command polls.
type target struct {
	name          string
	ip            string
	useEncryption bool
	key           []byte
}

func resolveTarget(cmd *cobra.Command, name, ip string, useEncryption bool, key string, logger hclog.Logger) (target, error) {
	if name == "" && ip == "" {
		return target{}, fmt.Errorf("one of --name or --ip is required")
	}

	explicit := cmd.Flags().Changed("use-encryption") || cmd.Flags().Changed("key")
	if name != "" || !explicit {
		store, err := openStore(logger)
		if err != nil {
			return target{}, err
		}
		var d devicestore.Device
		if name != "" {
			d, err = store.Get(name)
		} else {
			d, err = store.FindByIP(ip)
		}
		if err == nil {
			return target{name: d.Name, ip: d.IP, useEncryption: d.UseEncryption, key: []byte(d.Key)}, nil
		}
		if name != "" {
			return target{}, err
		}
		logger.Debug("Device not stored, using flags", "ip", ip)
	}

	if key != "" && !crypto.IsValidKey([]byte(key)) {
		return target{}, fmt.Errorf("--key must be %d alphanumeric characters", crypto.KeyLen)
	}
	return target{name: ip, ip: ip, useEncryption: useEncryption || key != "", key: []byte(key)}, nil
}

func newStatusCmd() *cobra.Command {
	var (
		name          string
		ip            string
		useEncryption bool
		key           string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Poll a device once and print its status",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			format, err := outputFormat(output)
			if err != nil {
				return err
			}
			t, err := resolveTarget(cmd, name, ip, useEncryption, key, logger)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			s, err := pkg.PollDevice(ctx, t.ip, t.useEncryption, t.key, logger)
			if err != nil {
				return err
			}
			return printStatus(os.Stdout, format, t.name, s)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Stored device name")
	cmd.Flags().StringVar(&ip, "ip", "", "Device IP address")
	cmd.Flags().BoolVar(&useEncryption, "use-encryption", false, "Request the encrypted endpoint")
	cmd.Flags().StringVar(&key, "key", "", "Encryption key")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format: table or json (defaults to table on a terminal)")
	return cmd
}

func newWatchCmd() *cobra.Command {
	var (
		interval time.Duration
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll every stored device until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			store, err := openStore(logger)
			if err != nil {
				return err
			}
			devices := store.List()
			if len(devices) == 0 {
				return fmt.Errorf("no devices stored in %s, run detect --save first", store.Path())
			}

			ctx, cancel := signalContext()
			defer cancel()

			var mu sync.Mutex
			g, ctx := errgroup.WithContext(ctx)
			for _, d := range devices {
				g.Go(func() error {
					return watchDevice(ctx, d, interval, timeout, logger.Named(d.Name), &mu)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 60*time.Second, "Time between polls")
	cmd.Flags().DurationVar(&timeout, "timeout", 40*time.Second, "Timeout for one poll including retries")
	return cmd
}

func watchDevice(ctx context.Context, d devicestore.Device, interval, timeout time.Duration, logger hclog.Logger, mu *sync.Mutex) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		pollCtx, cancel := context.WithTimeout(ctx, timeout)
		s, err := pkg.PollDevice(pollCtx, d.IP, d.UseEncryption, []byte(d.Key), logger)
		cancel()

		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			logger.Error("Poll failed", "ip", d.IP, "error", err)
		default:
			mu.Lock()
			printStatusLine(os.Stdout, time.Now(), d.Name, s)
			mu.Unlock()
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func newCrackCmd() *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "crack",
		Short: "Recover the key from a captured encrypted response",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			result, err := pkg.CrackCapture(ctx, in, newLogger())
			if err != nil {
				return err
			}
			fmt.Printf("Encryption: %s\n", result.Mode)
			if len(result.Key) > 0 {
				fmt.Printf("Key: %s\n", result.Key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Capture file, hex text, optionally .gz or .bz2 (required)")
	if err := cmd.MarkFlagRequired("in"); err != nil {
		panic(err)
	}
	return cmd
}

func newCaptureCmd() *cobra.Command {
	var (
		ip        string
		out       string
		encrypted bool
	)

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Save one raw response from a device",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			n, err := pkg.CaptureResponse(ctx, ip, encrypted, out, newLogger())
			if err != nil {
				return err
			}
			fmt.Printf("Saved %d bytes to %s\n", n, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&ip, "ip", "", "Device IP address (required)")
	cmd.Flags().StringVar(&out, "out", "", "Output file; .gz and .bz2 are compressed (required)")
	cmd.Flags().BoolVar(&encrypted, "encrypted", false, "Request the encrypted endpoint")
	for _, f := range []string{"ip", "out"} {
		if err := cmd.MarkFlagRequired(f); err != nil {
			panic(err)
		}
	}
	return cmd
}

func newDevicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List stored devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(newLogger())
			if err != nil {
				return err
			}
			printDevices(os.Stdout, store.List())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "remove NAME",
		Short: "Forget a stored device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(newLogger())
			if err != nil {
				return err
			}
			return store.Update(func(s *devicestore.Store) error { return s.Remove(args[0]) })
		},
	})
	return cmd
}
