package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/candy/go/candy/internal/devicestore"
	"github.com/provide-io/candy/go/candy/pkg/logging"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

var (
	logLevel    string
	configDir   string
	versionFlag bool
	rootCmd     *cobra.Command
)

func getBuildTimestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func printVersion() {
	fmt.Printf("candy %s\n", version)
	fmt.Printf("Built: %s\n", getBuildTimestamp())
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "candy",
		Short: "Talk to Candy Simply-Fi appliances on the local network",
		Long: `Detect how a Candy appliance encrypts its status endpoint, recover the key,
and poll the appliance status.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				printVersion()
				return nil
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding devices.yaml (defaults to CANDY_CONFIG_DIR or the user config dir)")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	rootCmd.AddCommand(newDetectCmd(), newStatusCmd(), newWatchCmd(), newCrackCmd(), newCaptureCmd(), newDevicesCmd())
}

func newLogger() hclog.Logger {
	return logging.NewLogger("candy", logging.ResolveLevel(logLevel), os.Stderr)
}

func storePath() string {
	if configDir != "" {
		return devicestore.DefaultPathIn(configDir)
	}
	return devicestore.DefaultPath()
}

func openStore(logger hclog.Logger) (*devicestore.Store, error) {
	return devicestore.Open(storePath(), logger)
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion()
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
