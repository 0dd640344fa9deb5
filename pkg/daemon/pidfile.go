package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// RuntimeDir returns $XDG_RUNTIME_DIR, or a per-user directory under the
// system temp dir when it is unset.
func RuntimeDir() string {
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return v
	}
	return filepath.Join(os.TempDir(), "qqbar-"+strconv.Itoa(unix.Getuid()))
}

// DefaultSocketPath is where the control socket lives unless configured.
func DefaultSocketPath() string {
	return filepath.Join(RuntimeDir(), "qqbar.sock")
}

// DefaultPIDPath is where the single-instance lock lives.
func DefaultPIDPath() string {
	return filepath.Join(RuntimeDir(), "qqbar.pid")
}

// AcquirePID creates a PID file at path with the current process PID.
// It fails if another live process already holds the lock. A PID file
// left behind by a dead process is replaced.
//
// The write is atomic: content is written to a temporary file in the same
// directory, then renamed into place.
func AcquirePID(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create PID directory: %w", err)
	}

	if existing, err := ReadPID(path); err == nil {
		if existing != os.Getpid() && IsProcessAlive(existing) {
			return fmt.Errorf("qqbar already running (PID %d)", existing)
		}
		os.Remove(path)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return fmt.Errorf("write temp PID file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename PID file: %w", err)
	}
	return nil
}

// ReleasePID removes the PID file at the given path.
func ReleasePID(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove PID file: %w", err)
	}
	return nil
}

// ReadPID reads and parses the PID from the given file.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read PID file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse PID file: %w", err)
	}
	return pid, nil
}

// IsProcessAlive probes pid with signal 0. EPERM means the process exists
// but belongs to someone else.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
