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
package fat12

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-restruct/restruct"
	"github.com/ostafen/fatdisk/internal/dos"
)

const (
	BootSectorSize = 64
	DirEntrySize   = 32
)

// File/Directory Attributes (bit flags)
const (
	AttrReadOnly = 0x01
	AttrHidden   = 0x02
	AttrSystem   = 0x04
	AttrVolume   = 0x08 // Volume label entry
	AttrDir      = 0x10
	AttrArchive  = 0x20

	// AttrLongName marks a VFAT long name slot, never a usable entry.
	AttrLongName = AttrReadOnly | AttrHidden | AttrSystem | AttrVolume
)

// First byte markers of a directory entry name.
const (
	EndOfDirMarker = 0x00
	DeletedFlag    = 0xE5
	DeletedFlagAlt = 0xEF
	DotMarker      = '.'
)

// BootSector is the leading record of a FAT12 image. Fields that the tools
// never interpret are kept as opaque bytes so that Encode reproduces the
// original record exactly.
type BootSector struct {
	Preamble          [11]byte // 0x00 Jump instruction and OEM name
	BytesPerSector    uint16   // 0x0B
	SectorsPerCluster uint8    // 0x0D
	ReservedSectors   uint16   // 0x0E
	NumFATs           uint8    // 0x10
	MaxRootEntries    uint16   // 0x11
	TotalSectors      uint16   // 0x13
	Media             uint8    // 0x15 Media descriptor (opaque)
	SectorsPerFAT     uint16   // 0x16
	SectorsPerTrack   uint16   // 0x18
	Heads             uint16   // 0x1A
	Reserved          [10]byte // 0x1C Hidden sectors, 32-bit totals, drive number (opaque)
	BootSignature     uint8    // 0x26
	VolumeID          uint32   // 0x27
	VolumeLabel       [11]byte // 0x2B
	FSType            [8]byte  // 0x36
	Trailer           [2]byte  // 0x3E First bytes of boot code (opaque)
}

// DecodeBootSector unpacks the first BootSectorSize bytes of data.
func DecodeBootSector(data []byte) (*BootSector, error) {
	if len(data) < BootSectorSize {
		return nil, fmt.Errorf("%w: boot sector needs %d bytes, got %d", ErrMalformedRecord, BootSectorSize, len(data))
	}

	var bs BootSector
	if err := restruct.Unpack(data[:BootSectorSize], binary.LittleEndian, &bs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return &bs, nil
}

// Encode packs the boot sector back into its on-disk form.
func (b *BootSector) Encode() ([]byte, error) {
	return restruct.Pack(binary.LittleEndian, b)
}

// OEMName returns the system identifier stored after the jump instruction.
func (b *BootSector) OEMName() string {
	return strings.TrimRight(string(b.Preamble[3:]), " \x00")
}

func (b *BootSector) Label() string {
	return strings.TrimRight(string(b.VolumeLabel[:]), " \x00")
}

func (b *BootSector) FileSystemType() string {
	return strings.TrimRight(string(b.FSType[:]), " \x00")
}

// ClusterSize is the number of bytes in one allocation unit.
func (b *BootSector) ClusterSize() int {
	spc := int(b.SectorsPerCluster)
	if spc == 0 {
		spc = 1
	}
	return int(b.BytesPerSector) * spc
}

// DirEntry is one 32-byte record of a directory region.
type DirEntry struct {
	Name         [8]byte
	Ext          [3]byte
	Attr         uint8
	Reserved0    [2]byte
	CreateTime   uint16
	CreateDate   uint16
	AccessDate   uint16
	Reserved1    [2]byte
	ModTime      uint16
	ModDate      uint16
	FirstCluster uint16
	Size         uint32
}

// DecodeDirEntry unpacks the first DirEntrySize bytes of data. Attribute
// bits and dates are passed through unchanged.
func DecodeDirEntry(data []byte) (*DirEntry, error) {
	if len(data) < DirEntrySize {
		return nil, fmt.Errorf("%w: directory entry needs %d bytes, got %d", ErrMalformedRecord, DirEntrySize, len(data))
	}

	var de DirEntry
	if err := restruct.Unpack(data[:DirEntrySize], binary.LittleEndian, &de); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return &de, nil
}

func (d *DirEntry) Encode() ([]byte, error) {
	return restruct.Pack(binary.LittleEndian, d)
}

func (d *DirEntry) ShortName() dos.Name {
	return dos.MakeName(d.Name, d.Ext)
}

func (d *DirEntry) SetShortName(n dos.Name) {
	d.Name = n.Base()
	d.Ext = n.Ext()
}

func (d *DirEntry) IsDir() bool { return d.Attr&AttrDir != 0 }

// IsEnd reports whether the slot marks the end of the directory: it and all
// the following slots are unused.
func (d *DirEntry) IsEnd() bool { return d.Name[0] == EndOfDirMarker }

func (d *DirEntry) IsDeleted() bool {
	return d.Name[0] == DeletedFlag || d.Name[0] == DeletedFlagAlt
}

// IsFree reports whether the slot can receive a new entry.
func (d *DirEntry) IsFree() bool { return d.IsEnd() || d.IsDeleted() }

// IsVisible reports whether the entry describes a real file or subdirectory.
// Deleted slots, "." and "..", long name slots, volume labels and entries
// without a linked cluster are never listed nor descended into.
func (d *DirEntry) IsVisible() bool {
	switch {
	case d.IsDeleted(), d.Name[0] == DotMarker:
		return false
	case d.Attr == AttrLongName, d.Attr&AttrVolume != 0:
		return false
	}
	return d.FirstCluster > 1
}

// IsVolumeLabel reports whether the entry holds the volume label.
func (d *DirEntry) IsVolumeLabel() bool {
	return d.Attr != AttrLongName && d.Attr&AttrVolume != 0
}
