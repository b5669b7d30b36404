package fat12

// Geometry locates the regions of a FAT12 volume in sectors. The classic
// tools never derived these from the boot sector, so they are kept as a
// named configuration rather than computed.
type Geometry struct {
	FATSector     int // first sector of the first FAT copy
	RootDirSector int
	DataSector    int // sector holding FirstCluster
	FirstCluster  int
}

// Floppy144 is the layout of a 1.44 MB floppy: one reserved sector, two
// nine-sector FATs and a fourteen-sector root directory.
var Floppy144 = Geometry{
	FATSector:     1,
	RootDirSector: 19,
	DataSector:    33,
	FirstCluster:  2,
}

func (g Geometry) FATOffset(b *BootSector, copyIdx int) int64 {
	bps := int64(b.BytesPerSector)
	return bps*int64(g.FATSector) + int64(copyIdx)*bps*int64(b.SectorsPerFAT)
}

// FATSize is the size in bytes of one FAT copy.
func (g Geometry) FATSize(b *BootSector) int64 {
	return int64(b.BytesPerSector) * int64(b.SectorsPerFAT)
}

func (g Geometry) RootDirOffset(b *BootSector) int64 {
	return int64(b.BytesPerSector) * int64(g.RootDirSector)
}

// RootDirEntries is the number of slots of the fixed root directory.
func (g Geometry) RootDirEntries(b *BootSector) int {
	return int(b.MaxRootEntries)
}

// ClusterOffset returns the byte offset of cluster n in the data region.
func (g Geometry) ClusterOffset(b *BootSector, n uint16) int64 {
	spc := int64(b.SectorsPerCluster)
	if spc == 0 {
		spc = 1
	}
	sector := int64(g.DataSector) + (int64(n)-int64(g.FirstCluster))*spc
	return int64(b.BytesPerSector) * sector
}

// ClusterCount returns the upper bound of the valid cluster indices: data
// clusters are numbered [FirstCluster, ClusterCount).
func (g Geometry) ClusterCount(b *BootSector) int {
	spc := int(b.SectorsPerCluster)
	if spc == 0 {
		spc = 1
	}
	data := int(b.TotalSectors) - g.DataSector
	if data < 0 {
		data = 0
	}
	n := data/spc + g.FirstCluster

	// the table cannot address more entries than it has room for
	if max := int(g.FATSize(b) * 2 / 3); n > max {
		n = max
	}
	return n
}
