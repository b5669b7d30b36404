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

// Package fat12 reads and modifies FAT12 volumes stored in flat disk images.
package fat12

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

type Options struct {
	// Geometry defaults to Floppy144 when left zero.
	Geometry Geometry

	// SyncFATCopies mirrors every table update into all the copies the
	// boot sector declares. Off by default: only the first copy is kept.
	SyncFATCopies bool

	Logger *slog.Logger

	// Location is used to interpret on-disk timestamps. Defaults to time.Local.
	Location *time.Location
}

// Volume is an open FAT12 file system.
type Volume struct {
	dev  Device
	boot *BootSector
	geo  Geometry
	fat  *Table
	log  *slog.Logger
	loc  *time.Location
}

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Open decodes the boot sector of dev and prepares the volume for access.
func Open(dev Device, opts Options) (*Volume, error) {
	buf := make([]byte, BootSectorSize)
	if err := readAt(dev, buf, 0); err != nil {
		return nil, fmt.Errorf("reading boot sector: %w", err)
	}

	boot, err := DecodeBootSector(buf)
	if err != nil {
		return nil, err
	}
	if boot.BytesPerSector < DirEntrySize {
		return nil, fmt.Errorf("%w: invalid sector size %d", ErrMalformedRecord, boot.BytesPerSector)
	}

	geo := opts.Geometry
	if geo == (Geometry{}) {
		geo = Floppy144
	}

	log := opts.Logger
	if log == nil {
		log = nopLogger()
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	fat := NewTable(dev, boot, geo)
	fat.SyncCopies = opts.SyncFATCopies
	fat.log = log

	log.Debug("volume opened",
		"oem", boot.OEMName(),
		"bytesPerSector", boot.BytesPerSector,
		"sectorsPerCluster", boot.SectorsPerCluster,
		"totalSectors", boot.TotalSectors,
		"clusters", geo.ClusterCount(boot),
	)

	return &Volume{
		dev:  dev,
		boot: boot,
		geo:  geo,
		fat:  fat,
		log:  log,
		loc:  loc,
	}, nil
}

func (v *Volume) Boot() *BootSector  { return v.boot }
func (v *Volume) Geometry() Geometry { return v.geo }
func (v *Volume) Table() *Table      { return v.fat }

func (v *Volume) ClusterSize() int {
	return v.boot.ClusterSize()
}

func (v *Volume) clusterOffset(n uint16) int64 {
	return v.geo.ClusterOffset(v.boot, n)
}

func (v *Volume) readCluster(n uint16) ([]byte, error) {
	buf := make([]byte, v.ClusterSize())
	if err := readAt(v.dev, buf, v.clusterOffset(n)); err != nil {
		return nil, err
	}
	return buf, nil
}

// writeCluster stores data at the start of cluster n, padding the rest of
// the cluster with zeros.
func (v *Volume) writeCluster(n uint16, data []byte) error {
	buf := data
	if len(buf) < v.ClusterSize() {
		buf = make([]byte, v.ClusterSize())
		copy(buf, data)
	}
	return writeAt(v.dev, buf[:v.ClusterSize()], v.clusterOffset(n))
}
