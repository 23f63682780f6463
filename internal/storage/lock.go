package storage

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"soundvault/sound"
)

// Lock guards a library root against concurrent vault instances.
type Lock struct {
	lock *flock.Flock
	path string
}

// NewLock builds the library lock for the given layout.
func NewLock(layout *Layout) *Lock {
	path := layout.LockPath()
	return &Lock{
		lock: flock.New(path),
		path: path,
	}
}

// Acquire takes the lock, failing immediately when another instance holds it.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return sound.Wrap(sound.ErrStorage, "acquire lock", l.path, err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return sound.Wrap(sound.ErrStorage, "acquire lock", l.path, err)
	}
	if !ok {
		return sound.Wrap(sound.ErrStorage, "acquire lock",
			"another soundvault instance is already using this library", nil)
	}
	return nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return sound.Wrap(sound.ErrStorage, "release lock", l.path, err)
	}
	return nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// CheckAccess verifies the process can read, write, and traverse the given
// directory.
func CheckAccess(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sound.Wrap(sound.ErrStorage, "check access", path+" does not exist", err)
		}
		return sound.Wrap(sound.ErrStorage, "check access", path, err)
	}
	if !info.IsDir() {
		return sound.Wrap(sound.ErrStorage, "check access", path+" is not a directory", nil)
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return sound.Wrap(sound.ErrStorage, "check access", path+" insufficient permissions", err)
	}
	return nil
}
