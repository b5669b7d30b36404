//go:build unix

package image

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mapped is a read-only memory mapping of a whole image file.
type Mapped struct {
	Data []byte // The memory-mapped byte slice
	File *os.File
}

// OpenMapped maps the image at path into memory for reading.
func OpenMapped(path string) (*Mapped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get file info for %q: %w", path, err)
	}

	size := int(fi.Size())
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("file %q is empty, cannot mmap", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap file %q with length %d: %w", path, size, err)
	}
	return &Mapped{Data: data, File: f}, nil
}

// Close unmaps the memory region and closes the underlying file.
func (m *Mapped) Close() error {
	var err error
	if m.Data != nil {
		err = unix.Munmap(m.Data)
		if err != nil {
			return fmt.Errorf("failed to munmap: %w", err)
		}
		m.Data = nil
	}

	if m.File != nil {
		if closeErr := m.File.Close(); closeErr != nil {
			return fmt.Errorf("failed to close file: %w", closeErr)
		}
		m.File = nil
	}
	return nil
}
