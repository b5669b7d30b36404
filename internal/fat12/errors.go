package fat12

import (
	"errors"
	"fmt"
)

var (
	ErrPathNotFound      = errors.New("path not found")
	ErrDuplicateName     = errors.New("a file with the same name already exists in the directory")
	ErrInsufficientSpace = errors.New("not enough free space on the volume")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrCorruptChain      = errors.New("cluster chain does not terminate")
	ErrNotDirectory      = errors.New("not a directory")
	ErrIO                = errors.New("image i/o failed")

	// ErrRootFull reports that the fixed size root directory has no free
	// slot left. It matches ErrInsufficientSpace with errors.Is.
	ErrRootFull = fmt.Errorf("%w: no room left in root directory", ErrInsufficientSpace)
)

// IOError describes a positioned read or write against the image that did
// not complete as requested. It is never retried.
type IOError struct {
	Op   string
	Off  int64
	N    int
	Want int
	Err  error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at offset %d: %d/%d bytes: %v", e.Op, e.Off, e.N, e.Want, e.Err)
	}
	return fmt.Sprintf("%s at offset %d: %d/%d bytes", e.Op, e.Off, e.N, e.Want)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
