package fat12

import (
	"fmt"
	"log/slog"
)

// Table gives entry level access to the allocation table of a volume.
// Reads always come from the first copy. Writes go to the first copy only,
// unless SyncCopies is set.
type Table struct {
	dev  Device
	boot *BootSector
	geo  Geometry
	log  *slog.Logger

	SyncCopies bool
}

func NewTable(dev Device, boot *BootSector, geo Geometry) *Table {
	return &Table{
		dev:  dev,
		boot: boot,
		geo:  geo,
		log:  nopLogger(),
	}
}

// Len returns the upper bound of the cluster indices the table tracks.
func (t *Table) Len() int {
	return t.geo.ClusterCount(t.boot)
}

func (t *Table) capacity() int {
	return int(t.geo.FATSize(t.boot) * 2 / 3)
}

func (t *Table) entryAt(copyIdx int, i uint16) int64 {
	return t.geo.FATOffset(t.boot, copyIdx) + int64(entryOffset(int(i)))
}

func (t *Table) Get(i uint16) (uint16, error) {
	if int(i) >= t.capacity() {
		return 0, fmt.Errorf("%w: cluster %d is outside the table", ErrCorruptChain, i)
	}

	var buf [2]byte
	if err := readAt(t.dev, buf[:], t.entryAt(0, i)); err != nil {
		return 0, err
	}
	return unpack(int(i), buf[0], buf[1]), nil
}

// Put stores v as the entry of cluster i. The nibble shared with the
// neighbouring entry is read back and preserved.
func (t *Table) Put(i uint16, v uint16) error {
	if int(i) >= t.capacity() {
		return fmt.Errorf("%w: cluster %d is outside the table", ErrCorruptChain, i)
	}

	var buf [2]byte
	if err := readAt(t.dev, buf[:], t.entryAt(0, i)); err != nil {
		return err
	}
	buf[0], buf[1] = pack(int(i), buf[0], buf[1], v)

	copies := 1
	if t.SyncCopies && t.boot.NumFATs > 1 {
		copies = int(t.boot.NumFATs)
	}
	for c := 0; c < copies; c++ {
		if err := writeAt(t.dev, buf[:], t.entryAt(c, i)); err != nil {
			return err
		}
	}

	t.log.Debug("fat entry updated", "cluster", i, "value", fmt.Sprintf("0x%03X", v), "copies", copies)
	return nil
}

// Load reads the whole first copy of the table.
func (t *Table) Load() (Packed12, error) {
	buf := make([]byte, t.geo.FATSize(t.boot))
	if err := readAt(t.dev, buf, t.geo.FATOffset(t.boot, 0)); err != nil {
		return nil, err
	}
	return Packed12(buf), nil
}

// CountFree returns the number of free entries among the data clusters.
func (t *Table) CountFree() (int, error) {
	fat, err := t.Load()
	if err != nil {
		return 0, err
	}

	free := 0
	for i := t.geo.FirstCluster; i < t.Len(); i++ {
		if fat.Get(i) == FreeCluster {
			free++
		}
	}
	return free, nil
}

// FindFree returns the lowest free data cluster. ok is false when the table
// is full.
func (t *Table) FindFree() (cluster uint16, ok bool, err error) {
	fat, err := t.Load()
	if err != nil {
		return 0, false, err
	}

	c, ok := t.nextFree(fat, t.geo.FirstCluster)
	return c, ok, nil
}

// FindFreeN returns the n lowest free data clusters, the same clusters n
// calls to FindFree would return if each result were marked used in turn.
// The table is loaded once.
func (t *Table) FindFreeN(n int) ([]uint16, error) {
	fat, err := t.Load()
	if err != nil {
		return nil, err
	}

	free := make([]uint16, 0, n)
	for from := t.geo.FirstCluster; len(free) < n; {
		c, ok := t.nextFree(fat, from)
		if !ok {
			break
		}
		free = append(free, c)
		from = int(c) + 1
	}

	if len(free) < n {
		return nil, fmt.Errorf("%w: %d free clusters, %d needed", ErrInsufficientSpace, len(free), n)
	}
	return free, nil
}

// nextFree scans fat for the first free entry at or after from.
func (t *Table) nextFree(fat Packed12, from int) (uint16, bool) {
	for i := from; i < t.Len(); i++ {
		if fat.Get(i) == FreeCluster {
			return uint16(i), true
		}
	}
	return 0, false
}
