package devicestore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"
	candyerrors "github.com/provide-io/candy/go/candy/pkg/candy/errors"
	"gopkg.in/yaml.v3"
)

type document struct {
	Devices []Device `yaml:"devices"`
}

// Store is a YAML file of devices keyed by name.
type Store struct {
	path   string
	logger hclog.Logger

	mu      sync.Mutex
	devices map[string]Device
}

// Open loads the store at path. A missing file is an empty store.
func Open(path string, logger hclog.Logger) (*Store, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Store{path: path, logger: logger, devices: map[string]Device{}}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory devices with the file contents.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("📂 No device store yet", "path", s.path)
		s.devices = map[string]Device{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read device store: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse device store %s: %w", s.path, err)
	}

	devices := make(map[string]Device, len(doc.Devices))
	for _, d := range doc.Devices {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("device store %s: %w", s.path, err)
		}
		if _, dup := devices[d.Name]; dup {
			return fmt.Errorf("%w: duplicate device %q", candyerrors.ErrInvalidDevice, d.Name)
		}
		devices[d.Name] = d
	}
	s.devices = devices
	s.logger.Debug("📂 Loaded device store", "path", s.path, "devices", len(devices))
	return nil
}

// Save writes the store atomically.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(document{Devices: s.sorted()})
	if err != nil {
		return fmt.Errorf("encode device store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".devices-*.yaml")
	if err != nil {
		return fmt.Errorf("write device store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write device store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write device store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write device store: %w", err)
	}
	s.logger.Debug("💾 Saved device store", "path", s.path, "devices", len(s.devices))
	return nil
}

// Put adds or replaces a device. It does not save.
func (s *Store) Put(d Device) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[d.Name] = d
	return nil
}

// Get returns the device called name.
func (s *Store) Get(name string) (Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[name]
	if !ok {
		return Device{}, fmt.Errorf("%w: %q", candyerrors.ErrDeviceNotFound, name)
	}
	return d, nil
}

// FindByIP returns the first device, by name, at ip.
func (s *Store) FindByIP(ip string) (Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.sorted() {
		if d.IP == ip {
			return d, nil
		}
	}
	return Device{}, fmt.Errorf("%w: no device at %s", candyerrors.ErrDeviceNotFound, ip)
}

// List returns all devices sorted by name.
func (s *Store) List() []Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted()
}

// Remove deletes the device called name. It does not save.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.devices[name]; !ok {
		return fmt.Errorf("%w: %q", candyerrors.ErrDeviceNotFound, name)
	}
	delete(s.devices, name)
	return nil
}

// sorted must be called with mu held.
func (s *Store) sorted() []Device {
	out := make([]Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
