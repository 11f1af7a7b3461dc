package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// errAlreadyRunning is returned when another process holds the pidfile lock.
var errAlreadyRunning = errors.New("watch already running")

// pidFile is a pidfile held under an exclusive flock for as long as it is open.
// The lock goes away with the process, so a stale file never blocks a restart.
type pidFile struct {
	f    *os.File
	path string
}

// openPIDFile locks path and writes our pid into it.
func openPIDFile(path string) (*pidFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening pidfile: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		other, _ := io.ReadAll(io.LimitReader(f, 32)) //nolint:errcheck // Only used in the message
		f.Close()                                     //nolint:errcheck // Lock was not taken
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w, pid %s", errAlreadyRunning, strings.TrimSpace(string(other)))
		}
		return nil, fmt.Errorf("locking pidfile: %w", err)
	}

	if err := f.Truncate(0); err != nil {
		f.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("writing pidfile: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		f.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("writing pidfile: %w", err)
	}

	return &pidFile{f: f, path: path}, nil
}

// remove deletes the file and releases the lock.
func (p *pidFile) remove() error {
	err := os.Remove(p.path)
	return errors.Join(err, p.f.Close())
}
