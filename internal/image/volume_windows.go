//go:build windows
// +build windows

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
package image

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Raw volumes only accept transfers of whole sectors.
const sectorSize = 512

type volumeFile struct {
	handle windows.Handle
}

func openVolume(path string, mode Mode) (handle, int64, bool, error) {
	path = NormalizeVolumePath(path)
	if !isVolumePath(path) {
		return nil, 0, false, nil
	}

	access := uint32(windows.GENERIC_READ)
	if mode == ReadWrite {
		access |= windows.GENERIC_WRITE
	}

	h, err := windows.CreateFile(
		windows.StringToUTF16Ptr(path),
		access,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return nil, 0, true, fmt.Errorf("failed to open %q: %w", path, err)
	}

	vf := &volumeFile{handle: h}
	size, err := vf.size()
	if err != nil {
		vf.Close()
		return nil, 0, true, err
	}
	return vf, size, true, nil
}

func (d *volumeFile) overlapped(off int64) *windows.Overlapped {
	ov := new(windows.Overlapped)
	ov.Offset = uint32(off)
	ov.OffsetHigh = uint32(off >> 32)
	return ov
}

// span returns the sector aligned region covering [off, off+n).
func span(off int64, n int) (int64, int, int) {
	alignedOffset := off / sectorSize * sectorSize
	alignmentDiff := int(off - alignedOffset)
	alignedSize := ((n + alignmentDiff + sectorSize - 1) / sectorSize) * sectorSize
	return alignedOffset, alignmentDiff, alignedSize
}

func (d *volumeFile) readAligned(buf []byte, off int64) error {
	var bytesRead uint32
	ov := d.overlapped(off)

	err := windows.ReadFile(d.handle, buf, &bytesRead, ov)
	if err == syscall.ERROR_IO_PENDING {
		err = windows.GetOverlappedResult(d.handle, ov, &bytesRead, true)
	}
	if err != nil {
		return fmt.Errorf("aligned read failed: %w", err)
	}
	return nil
}

func (d *volumeFile) ReadAt(p []byte, off int64) (int, error) {
	alignedOffset, alignmentDiff, alignedSize := span(off, len(p))

	buf := make([]byte, alignedSize)
	if err := d.readAligned(buf, alignedOffset); err != nil {
		return 0, err
	}
	return copy(p, buf[alignmentDiff:]), nil
}

// WriteAt reads the covering sectors, merges p and writes them back.
func (d *volumeFile) WriteAt(p []byte, off int64) (int, error) {
	alignedOffset, alignmentDiff, alignedSize := span(off, len(p))

	buf := make([]byte, alignedSize)
	if alignmentDiff != 0 || len(p)%sectorSize != 0 {
		if err := d.readAligned(buf, alignedOffset); err != nil {
			return 0, err
		}
	}
	copy(buf[alignmentDiff:], p)

	var written uint32
	ov := d.overlapped(alignedOffset)
	err := windows.WriteFile(d.handle, buf, &written, ov)
	if err == syscall.ERROR_IO_PENDING {
		err = windows.GetOverlappedResult(d.handle, ov, &written, true)
	}
	if err != nil {
		return 0, fmt.Errorf("aligned write failed: %w", err)
	}
	return len(p), nil
}

type diskGeometry struct {
	Cylinders         int64
	MediaType         uint32
	TracksPerCylinder uint32
	SectorsPerTrack   uint32
	BytesPerSector    uint32
}

const ioctlDiskGetDriveGeometry = 0x70000

func (d *volumeFile) size() (int64, error) {
	var geometry diskGeometry
	var bytesReturned uint32

	err := windows.DeviceIoControl(
		d.handle,
		ioctlDiskGetDriveGeometry,
		nil,
		0,
		(*byte)(unsafe.Pointer(&geometry)),
		uint32(unsafe.Sizeof(geometry)),
		&bytesReturned,
		nil,
	)
	if err != nil {
		return 0, fmt.Errorf("DeviceIoControl(IOCTL_DISK_GET_DRIVE_GEOMETRY) failed: %w", err)
	}

	return geometry.Cylinders * int64(geometry.TracksPerCylinder) * int64(geometry.SectorsPerTrack) * int64(geometry.BytesPerSector), nil
}

func (d *volumeFile) Close() error {
	return windows.CloseHandle(d.handle)
}
