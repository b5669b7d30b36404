package cmd

import (
	"errors"
	"io/fs"

	"github.com/ostafen/fatdisk/internal/dos"
	"github.com/ostafen/fatdisk/internal/fat12"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitDuplicate   = 2
	ExitIO          = 3
	ExitInvalidName = 4
	ExitNotFound    = 7
	ExitNoSpace     = 8
)

// ExitCode maps the error returned by a command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, fat12.ErrDuplicateName):
		return ExitDuplicate
	case errors.Is(err, fat12.ErrIO):
		return ExitIO
	case errors.Is(err, dos.ErrEmptyName),
		errors.Is(err, dos.ErrNameTooLong),
		errors.Is(err, dos.ErrInvalidChar):
		return ExitInvalidName
	case errors.Is(err, fat12.ErrPathNotFound), errors.Is(err, fs.ErrNotExist):
		return ExitNotFound
	case errors.Is(err, fat12.ErrInsufficientSpace):
		return ExitNoSpace
	}
	return ExitFailure
}
