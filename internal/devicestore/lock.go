package devicestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	lockPollInterval = 100 * time.Millisecond
	// LockTimeout bounds how long Update waits for another writer.
	LockTimeout = 10 * time.Second
)

// ErrLockTimeout is returned when the store stays locked by a live process.
var ErrLockTimeout = errors.New("❌ timed out waiting for device store lock")

func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 probes for existence on Unix
	return process.Signal(syscall.Signal(0)) == nil
}

// tryLock creates path holding our PID. A lock left by a dead process is removed first.
func tryLock(path string, logger hclog.Logger) (bool, error) {
	if data, err := os.ReadFile(path); err == nil {
		oldPid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		switch {
		case err != nil && lockAge(path) < LockTimeout:
			// the owner may not have written its PID yet
			return false, nil
		case err != nil:
			logger.Info("🧹 Removing invalid lock file", "path", path)
			os.Remove(path)
		case !isProcessRunning(oldPid):
			logger.Info("🧹 Removing stale lock from dead process", "pid", oldPid)
			os.Remove(path)
		default:
			logger.Debug("🔒 Lock held by active process", "pid", oldPid)
			return false, nil
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%d\n", os.Getpid()); err != nil {
		os.Remove(path)
		return false, err
	}
	logger.Debug("🔒 Acquired device store lock", "path", path)
	return true, nil
}

func lockAge(path string) time.Duration {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return time.Since(info.ModTime())
}

func acquireLock(path string, timeout time.Duration, logger hclog.Logger) error {
	deadline := time.Now().Add(timeout)
	for {
		ok, err := tryLock(path, logger)
		if err != nil {
			return fmt.Errorf("device store lock: %w", err)
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrLockTimeout
		}
		time.Sleep(lockPollInterval)
	}
}

func releaseLock(path string, logger hclog.Logger) {
	if err := os.Remove(path); err != nil {
		logger.Debug("⚠️ Failed to remove lock file", "error", err)
		return
	}
	logger.Debug("🔓 Released device store lock")
}

// Update reloads the store under a file lock, applies fn and saves.
func (s *Store) Update(fn func(*Store) error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	lockPath := s.path + ".lock"
	if err := acquireLock(lockPath, LockTimeout, s.logger); err != nil {
		return err
	}
	defer releaseLock(lockPath, s.logger)

	if err := s.Load(); err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return s.Save()
}
