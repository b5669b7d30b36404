//go:build !unix

package image

import (
	"fmt"
	"os"
)

// Mapped holds a copy of the whole image read at open time.
type Mapped struct {
	Data []byte
	File *os.File
}

func OpenMapped(path string) (*Mapped, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file %q is empty", path)
	}
	return &Mapped{Data: data}, nil
}

func (m *Mapped) Close() error {
	m.Data = nil
	return nil
}
