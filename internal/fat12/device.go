package fat12

import (
	"errors"
	"io"
)

// Device is the positioned storage a volume lives on. Every access names
// its offset; no cursor is shared between calls.
//
// Generated mock using mockgen:
//
//	mockgen -source=device.go -destination=device_mock_test.go -package fat12
type Device interface {
	io.ReaderAt
	io.WriterAt
}

func readAt(dev io.ReaderAt, buf []byte, off int64) error {
	n, err := dev.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &IOError{Op: "read", Off: off, N: n, Want: len(buf), Err: err}
}

func writeAt(dev io.WriterAt, buf []byte, off int64) error {
	n, err := dev.WriteAt(buf, off)
	if n == len(buf) && err == nil {
		return nil
	}
	if err == nil {
		err = io.ErrShortWrite
	}
	return &IOError{Op: "write", Off: off, N: n, Want: len(buf), Err: err}
}
