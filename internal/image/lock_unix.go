//go:build unix

package image

import (
	"errors"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

type fder interface {
	Fd() uintptr
}

// lockFile takes an exclusive flock on files backed by a descriptor.
// In-memory files are not shared between processes and are never locked.
func lockFile(f afero.File) (func() error, error) {
	osf, ok := f.(fder)
	if !ok {
		return noUnlock, nil
	}

	fd := int(osf.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrLocked
		}
		return nil, err
	}
	return func() error { return unix.Flock(fd, unix.LOCK_UN) }, nil
}
