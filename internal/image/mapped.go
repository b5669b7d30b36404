package image

import "io"

func (m *Mapped) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m.Data)) {
		return 0, io.EOF
	}

	n := copy(p, m.Data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt always fails: mappings are read-only.
func (m *Mapped) WriteAt(p []byte, off int64) (int, error) {
	return 0, ErrReadOnly
}

func (m *Mapped) Size() int64 { return int64(len(m.Data)) }
