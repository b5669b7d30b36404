package fat12

import (
	"fmt"
	"strings"
	"time"

	"github.com/ostafen/fatdisk/internal/dos"
)

const (
	FloppySectors    = 2880
	FloppySectorSize = 512
	FloppyImageSize  = FloppySectors * FloppySectorSize
)

type FormatOptions struct {
	OEMName  string // defaults to "MSDOS5.0"
	Label    string // written to the boot sector and, if set, as a root label entry
	VolumeID uint32 // defaults to a value derived from Now
	Now      time.Time
}

// FloppyBootSector returns the boot sector of a blank 1.44 MB floppy.
func FloppyBootSector(opts FormatOptions) *BootSector {
	bs := &BootSector{
		Preamble:          [11]byte{0xEB, 0x3C, 0x90},
		BytesPerSector:    FloppySectorSize,
		SectorsPerCluster: 1,
		ReservedSectors:   1,
		NumFATs:           2,
		MaxRootEntries:    224,
		TotalSectors:      FloppySectors,
		Media:             0xF0,
		SectorsPerFAT:     9,
		SectorsPerTrack:   18,
		Heads:             2,
		BootSignature:     0x29,
		VolumeID:          opts.VolumeID,
	}

	oem := opts.OEMName
	if oem == "" {
		oem = "MSDOS5.0"
	}
	copy(bs.Preamble[3:], padRight(oem, 8))

	label := opts.Label
	if label == "" {
		label = "NO NAME"
	}
	copy(bs.VolumeLabel[:], padRight(strings.ToUpper(label), 11))
	copy(bs.FSType[:], padRight("FAT12", 8))

	if bs.VolumeID == 0 {
		date, clock := dos.EncodeTime(opts.Now)
		bs.VolumeID = uint32(date)<<16 | uint32(clock)
	}
	return bs
}

func padRight(s string, n int) []byte {
	b := []byte(strings.Repeat(" ", n))
	copy(b, s)
	return b
}

// Format writes a blank 1.44 MB FAT12 file system to dev.
func Format(dev Device, opts FormatOptions) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	img := make([]byte, FloppyImageSize)

	bs := FloppyBootSector(opts)
	data, err := bs.Encode()
	if err != nil {
		return err
	}
	copy(img, data)
	img[510], img[511] = 0x55, 0xAA

	geo := Floppy144
	for c := 0; c < int(bs.NumFATs); c++ {
		off := geo.FATOffset(bs, c)
		fat := Packed12(img[off : off+geo.FATSize(bs)])
		fat.Put(0, 0xF00|uint16(bs.Media))
		fat.Put(1, 0xFFF)
	}

	if opts.Label != "" {
		name, err := labelName(opts.Label)
		if err != nil {
			return err
		}

		date, clock := dos.EncodeTime(opts.Now)
		entry := DirEntry{
			Attr:    AttrVolume,
			ModTime: clock,
			ModDate: date,
		}
		entry.SetShortName(name)

		data, err := entry.Encode()
		if err != nil {
			return err
		}
		copy(img[geo.RootDirOffset(bs):], data)
	}

	return writeAt(dev, img, 0)
}

// labelName stores a volume label across the name and extension fields.
func labelName(label string) (dos.Name, error) {
	var n dos.Name
	label = strings.ToUpper(label)
	if len(label) > len(n) {
		return n, fmt.Errorf("%w: volume label %q", dos.ErrNameTooLong, label)
	}
	copy(n[:], padRight(label, len(n)))
	return n, nil
}
