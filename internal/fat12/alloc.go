package fat12

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ostafen/fatdisk/internal/dos"
)

// insertPlan is the outcome of scanning the parent directory before
// anything is written.
type insertPlan struct {
	dir     dirRef
	slotOff int64 // -1 when the directory must grow
	tail    uint16
}

func (v *Volume) planInsert(dir dirRef, name dos.Name) (*insertPlan, error) {
	plan := &insertPlan{dir: dir, slotOff: -1}

	for s, err := range v.slots(dir) {
		if err != nil {
			return nil, err
		}

		e := s.entry
		if e.IsEnd() {
			if plan.slotOff < 0 {
				plan.slotOff = s.offset
			}
			break
		}
		if e.IsDeleted() {
			if plan.slotOff < 0 {
				plan.slotOff = s.offset
			}
			continue
		}

		// empty files have no cluster and are hidden from walks, but
		// their names are still taken
		if e.Attr != AttrLongName && !e.IsVolumeLabel() && e.ShortName() == name {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}

	if plan.slotOff < 0 && !dir.isRoot() {
		clusters, err := v.fat.Clusters(dir.cluster)
		if err != nil {
			return nil, err
		}
		if len(clusters) == 0 {
			return nil, fmt.Errorf("%w: directory %s has no clusters", ErrCorruptChain, dir.path)
		}
		plan.tail = clusters[len(clusters)-1]
	}
	return plan, nil
}

// fillFunc writes the content of a new entry into the given clusters and
// returns the first one.
type fillFunc func(parent dirRef, clusters []uint16) (uint16, error)

// create adds entry under path once every check passed. The parent is
// resolved, the name checked for duplicates and the free space counted
// before the first write, so a failing check leaves the image untouched.
func (v *Volume) create(path []dos.Name, entry DirEntry, nclusters int, fill fillFunc) (*Record, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: missing file name", ErrPathNotFound)
	}

	name := path[len(path)-1]
	if err := name.Check(); err != nil {
		return nil, err
	}

	dir, err := v.resolveDir(path[:len(path)-1])
	if err != nil {
		return nil, err
	}

	plan, err := v.planInsert(dir, name)
	if err != nil {
		return nil, err
	}

	grow := plan.slotOff < 0
	if grow && dir.isRoot() {
		return nil, ErrRootFull
	}

	needed := nclusters
	if grow {
		needed++
	}

	free, err := v.fat.CountFree()
	if err != nil {
		return nil, err
	}
	if needed > free {
		return nil, fmt.Errorf("%w: %d bytes needed, %d bytes free",
			ErrInsufficientSpace, needed*v.ClusterSize(), free*v.ClusterSize())
	}

	clusters, err := v.fat.FindFreeN(needed)
	if err != nil {
		return nil, err
	}

	v.log.Debug("creating entry",
		"dir", dir.path,
		"name", name.String(),
		"attr", fmt.Sprintf("0x%02X", entry.Attr),
		"clusters", needed,
		"growDir", grow,
	)

	slotOff := plan.slotOff
	if grow {
		c := clusters[0]
		clusters = clusters[1:]

		if err := v.writeCluster(c, nil); err != nil {
			return nil, err
		}
		if err := v.link(plan.tail, c); err != nil {
			return nil, err
		}
		slotOff = v.clusterOffset(c)
	}

	first, err := fill(dir, clusters)
	if err != nil {
		return nil, err
	}

	entry.SetShortName(name)
	entry.FirstCluster = first

	data, err := entry.Encode()
	if err != nil {
		return nil, err
	}
	if err := writeAt(v.dev, data, slotOff); err != nil {
		return nil, err
	}

	return &Record{
		DirEntry: entry,
		Dir:      dir.path,
		Offset:   slotOff,
		loc:      v.loc,
	}, nil
}

func stampedEntry(attr uint8, modTime time.Time) DirEntry {
	date, clock := dos.EncodeTime(modTime)
	return DirEntry{
		Attr:       attr,
		CreateTime: clock,
		CreateDate: date,
		AccessDate: date,
		ModTime:    clock,
		ModDate:    date,
	}
}

// Insert creates a regular file at path with size bytes read from src.
// The parent directory must exist. A full subdirectory is grown by one
// cluster; a full root directory fails with ErrRootFull.
//
// On ErrDuplicateName, ErrPathNotFound or ErrInsufficientSpace the image
// is left untouched.
func (v *Volume) Insert(path []dos.Name, src io.Reader, size int64, modTime time.Time) (*Record, error) {
	if size < 0 || size > int64(^uint32(0)) {
		return nil, fmt.Errorf("invalid file size %d", size)
	}

	entry := stampedEntry(AttrArchive, modTime)
	entry.Size = uint32(size)

	clusterSz := int64(v.ClusterSize())
	nclusters := int((size + clusterSz - 1) / clusterSz)

	return v.create(path, entry, nclusters, func(_ dirRef, clusters []uint16) (uint16, error) {
		return v.writeContent(clusters, src, size)
	})
}

// Mkdir creates an empty subdirectory at path, holding only the "." and
// ".." entries.
func (v *Volume) Mkdir(path []dos.Name, modTime time.Time) (*Record, error) {
	entry := stampedEntry(AttrDir, modTime)

	return v.create(path, entry, 1, func(parent dirRef, clusters []uint16) (uint16, error) {
		c := clusters[0]

		dot := entry
		dot.FirstCluster = c
		dot.SetShortName(dotName("."))

		dotdot := entry
		dotdot.FirstCluster = parent.cluster
		dotdot.SetShortName(dotName(".."))

		buf := make([]byte, 0, 2*DirEntrySize)
		for _, e := range []DirEntry{dot, dotdot} {
			data, err := e.Encode()
			if err != nil {
				return 0, err
			}
			buf = append(buf, data...)
		}

		if err := v.writeCluster(c, buf); err != nil {
			return 0, err
		}
		return c, v.link(0, c)
	})
}

func dotName(s string) dos.Name {
	var n dos.Name
	for i := range n {
		n[i] = ' '
	}
	copy(n[:], s)
	return n
}

// link marks c as the end of a chain, then points prev at it.
func (v *Volume) link(prev, c uint16) error {
	if err := v.fat.Put(c, EndOfChain); err != nil {
		return err
	}
	if prev == 0 {
		return nil
	}
	return v.fat.Put(prev, c)
}

// writeContent copies size bytes from src into clusters, chaining them in
// order, and returns the first cluster (0 for an empty file).
func (v *Volume) writeContent(clusters []uint16, src io.Reader, size int64) (uint16, error) {
	buf := make([]byte, v.ClusterSize())

	var first, prev uint16
	remaining := size
	for _, c := range clusters {
		n := min(remaining, int64(len(buf)))
		if _, err := io.ReadFull(src, buf[:n]); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return 0, fmt.Errorf("reading source content: %w", err)
		}

		if err := v.writeCluster(c, buf[:n]); err != nil {
			return 0, err
		}
		if err := v.link(prev, c); err != nil {
			return 0, err
		}

		if first == 0 {
			first = c
		}
		prev = c
		remaining -= n
	}
	return first, nil
}
