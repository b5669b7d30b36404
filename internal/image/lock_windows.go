//go:build windows

package image

import (
	"errors"

	"github.com/spf13/afero"
	"golang.org/x/sys/windows"
)

type fder interface {
	Fd() uintptr
}

func lockFile(f afero.File) (func() error, error) {
	osf, ok := f.(fder)
	if !ok {
		return noUnlock, nil
	}

	h := windows.Handle(osf.Fd())
	ol := new(windows.Overlapped)
	err := windows.LockFileEx(h, windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY, 0, 1, 0, ol)
	if err != nil {
		if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return nil, ErrLocked
		}
		return nil, err
	}
	return func() error { return windows.UnlockFileEx(h, 0, 1, 0, ol) }, nil
}
