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
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-restruct/restruct"
)

const (
	mbrSize      = 512
	mbrSignature = 0xAA55

	// LBA addresses of the partition table count 512 byte sectors.
	lbaSectorSize = 512
)

// Partition type identifiers of FAT12 volumes.
const (
	PartitionTypeEmpty  = 0x00
	PartitionTypeFAT12  = 0x01
	PartitionTypeHidden = 0x11
)

var (
	ErrNoMBR          = errors.New("no master boot record")
	ErrNoPartition    = errors.New("no such partition")
	ErrOutOfPartition = errors.New("access beyond the end of the partition")
)

// PartitionEntry is one 16 byte slot of the MBR partition table.
type PartitionEntry struct {
	BootIndicator uint8
	StartCHS      [3]byte
	Type          uint8
	EndCHS        [3]byte
	StartLBA      uint32
	TotalSectors  uint32
}

func (p *PartitionEntry) Offset() int64 { return int64(p.StartLBA) * lbaSectorSize }
func (p *PartitionEntry) Size() int64   { return int64(p.TotalSectors) * lbaSectorSize }

func (p *PartitionEntry) IsFAT12() bool {
	return p.Type == PartitionTypeFAT12 || p.Type == PartitionTypeHidden
}

// MBR is the master boot record of a partitioned disk.
type MBR struct {
	BootCode      [440]byte
	DiskSignature uint32
	Reserved      uint16
	Partitions    [4]PartitionEntry
	Signature     uint16
}

// ReadMBR decodes the first sector of r as a master boot record.
func ReadMBR(r io.ReaderAt) (*MBR, error) {
	buf := make([]byte, mbrSize)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("reading master boot record: %w", err)
	}

	var mbr MBR
	if err := restruct.Unpack(buf, binary.LittleEndian, &mbr); err != nil {
		return nil, err
	}
	if mbr.Signature != mbrSignature {
		return nil, fmt.Errorf("%w: signature is 0x%04X", ErrNoMBR, mbr.Signature)
	}
	return &mbr, nil
}

// Encode returns the 512 byte on-disk form of m.
func (m *MBR) Encode() ([]byte, error) {
	return restruct.Pack(binary.LittleEndian, m)
}

// WritePartitioned writes a master boot record holding a single FAT12
// partition of size bytes, starting at the second sector, and returns the
// window of rw covered by it.
func WritePartitioned(rw readerWriterAt, size int64) (*Section, error) {
	if size <= 0 || size%lbaSectorSize != 0 {
		return nil, fmt.Errorf("partition size %d is not a multiple of %d", size, lbaSectorSize)
	}

	mbr := MBR{Signature: mbrSignature}
	mbr.Partitions[0] = PartitionEntry{
		Type:         PartitionTypeFAT12,
		StartLBA:     1,
		TotalSectors: uint32(size / lbaSectorSize),
	}

	buf, err := mbr.Encode()
	if err != nil {
		return nil, err
	}
	if _, err := rw.WriteAt(buf, 0); err != nil {
		return nil, fmt.Errorf("writing master boot record: %w", err)
	}

	p := mbr.Partitions[0]
	return NewSection(rw, p.Offset(), p.Size()), nil
}

type readerWriterAt interface {
	io.ReaderAt
	io.WriterAt
}

// Section restricts positioned I/O to a window of an underlying image.
type Section struct {
	rw   readerWriterAt
	off  int64
	size int64
}

func NewSection(rw readerWriterAt, off, size int64) *Section {
	return &Section{rw: rw, off: off, size: size}
}

// OpenPartition returns the n-th (1 to 4) partition of a partitioned image.
func OpenPartition(rw readerWriterAt, n int) (*Section, error) {
	if n < 1 || n > 4 {
		return nil, fmt.Errorf("%w: %d", ErrNoPartition, n)
	}

	mbr, err := ReadMBR(rw)
	if err != nil {
		return nil, err
	}

	p := mbr.Partitions[n-1]
	if p.Type == PartitionTypeEmpty || p.TotalSectors == 0 {
		return nil, fmt.Errorf("%w: %d is empty", ErrNoPartition, n)
	}
	if !p.IsFAT12() {
		return nil, fmt.Errorf("%w: %d has type 0x%02X, not FAT12", ErrNoPartition, n, p.Type)
	}
	return NewSection(rw, p.Offset(), p.Size()), nil
}

func (s *Section) Size() int64 { return s.size }

func (s *Section) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= s.size {
		return 0, io.EOF
	}

	want := min(int64(len(p)), s.size-off)
	n, err := s.rw.ReadAt(p[:want], s.off+off)
	if err == nil && int(want) < len(p) {
		err = io.EOF
	}
	return n, err
}

func (s *Section) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > s.size {
		return 0, ErrOutOfPartition
	}
	return s.rw.WriteAt(p, s.off+off)
}
