// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package image opens the disk images and raw floppy volumes a FAT12 file
// system is read from.
package image

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
)

func (m Mode) String() string {
	if m == ReadWrite {
		return "read-write"
	}
	return "read-only"
}

var (
	ErrReadOnly = errors.New("image opened read-only")
	ErrLocked   = errors.New("image is locked by another process")
)

type handle interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
}

// Image is an open disk image. It is released with Close.
type Image struct {
	h      handle
	path   string
	mode   Mode
	size   int64
	unlock func() error
}

// Open opens the image at path on fsys. Raw volume paths such as "A:" are
// opened directly on Windows. Opening for writing takes an exclusive
// advisory lock, so a second writer fails with ErrLocked.
func Open(fsys afero.Fs, path string, mode Mode) (*Image, error) {
	if h, size, ok, err := openVolume(path, mode); ok {
		if err != nil {
			return nil, err
		}
		return &Image{h: h, path: path, mode: mode, size: size, unlock: noUnlock}, nil
	}

	flag := os.O_RDONLY
	if mode == ReadWrite {
		flag = os.O_RDWR
	}

	f, err := fsys.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %q: %w", path, err)
	}
	return newImage(f, path, mode)
}

// Create makes a new image file at path. It fails if the file exists.
func Create(fsys afero.Fs, path string) (*Image, error) {
	f, err := fsys.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create image %q: %w", path, err)
	}
	return newImage(f, path, ReadWrite)
}

func newImage(f afero.File, path string, mode Mode) (*Image, error) {
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get file info for %q: %w", path, err)
	}
	if fi.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%q is a directory", path)
	}

	unlock := noUnlock
	if mode == ReadWrite {
		unlock, err = lockFile(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%q: %w", path, err)
		}
	}

	return &Image{
		h:      f,
		path:   path,
		mode:   mode,
		size:   deviceSize(f, fi),
		unlock: unlock,
	}, nil
}

func noUnlock() error { return nil }

func (img *Image) Path() string { return img.path }
func (img *Image) Mode() Mode   { return img.mode }

// Size returns the size of the image when it was opened.
func (img *Image) Size() int64 { return img.size }

func (img *Image) ReadAt(p []byte, off int64) (int, error) {
	return img.h.ReadAt(p, off)
}

func (img *Image) WriteAt(p []byte, off int64) (int, error) {
	if img.mode != ReadWrite {
		return 0, ErrReadOnly
	}
	return img.h.WriteAt(p, off)
}

// Close releases the lock, if any, and closes the underlying file. Closing
// an already closed image is a no-op.
func (img *Image) Close() error {
	if img.h == nil {
		return nil
	}

	unlockErr := img.unlock()
	err := img.h.Close()
	img.h = nil
	if err != nil {
		return err
	}
	return unlockErr
}
