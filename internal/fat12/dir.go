package fat12

import (
	"path"
	"time"

	"github.com/ostafen/fatdisk/internal/dos"
)

// Record is a directory entry together with where it was found.
type Record struct {
	DirEntry

	// Dir is the path of the directory holding the entry ("/" for the root).
	Dir string

	// Offset is the image offset of the 32-byte slot.
	Offset int64

	loc *time.Location
}

// Path returns the absolute path of the entry, e.g. "/DOCS/README.TXT".
func (r *Record) Path() string {
	return path.Join(r.Dir, r.ShortName().String())
}

func (r *Record) Size() int64 { return int64(r.DirEntry.Size) }

func (r *Record) Modified() time.Time {
	return dos.DecodeTime(r.ModDate, r.ModTime, r.location())
}

func (r *Record) Created() time.Time {
	return dos.DecodeTime(r.CreateDate, r.CreateTime, r.location())
}

func (r *Record) location() *time.Location {
	if r.loc == nil {
		return time.Local
	}
	return r.loc
}

// dirRef names a directory to scan. The zero cluster is the root region.
type dirRef struct {
	cluster uint16
	path    string
}

var rootDir = dirRef{path: "/"}

func (d dirRef) isRoot() bool { return d.cluster == 0 }

// slot is a 32-byte directory position and the entry decoded from it.
type slot struct {
	entry  *DirEntry
	offset int64
}

// slots iterates over every slot of a directory in on-disk order: the
// fixed root region, or each cluster of a subdirectory chain. Terminating
// markers are not interpreted here.
func (v *Volume) slots(d dirRef) func(yield func(slot, error) bool) {
	return func(yield func(slot, error) bool) {
		if d.isRoot() {
			n := v.geo.RootDirEntries(v.boot)
			base := v.geo.RootDirOffset(v.boot)
			buf := make([]byte, n*DirEntrySize)
			if err := readAt(v.dev, buf, base); err != nil {
				yield(slot{}, err)
				return
			}
			scanRegion(buf, base, yield)
			return
		}

		for c, err := range v.fat.Chain(d.cluster) {
			if err != nil {
				yield(slot{}, err)
				return
			}

			buf, err := v.readCluster(c)
			if err != nil {
				yield(slot{}, err)
				return
			}
			if !scanRegion(buf, v.clusterOffset(c), yield) {
				return
			}
		}
	}
}

// scanRegion decodes buf as consecutive entries located at base. It returns
// false when yield asked to stop.
func scanRegion(buf []byte, base int64, yield func(slot, error) bool) bool {
	for off := 0; off+DirEntrySize <= len(buf); off += DirEntrySize {
		de, err := DecodeDirEntry(buf[off:])
		if err != nil {
			yield(slot{}, err)
			return false
		}
		if !yield(slot{entry: de, offset: base + int64(off)}, nil) {
			return false
		}
	}
	return true
}

func (v *Volume) record(d dirRef, s slot) *Record {
	return &Record{
		DirEntry: *s.entry,
		Dir:      d.path,
		Offset:   s.offset,
		loc:      v.loc,
	}
}

// entries lists the visible entries of a single directory, stopping at the
// end-of-directory marker.
func (v *Volume) entries(d dirRef) ([]*Record, error) {
	var recs []*Record
	for s, err := range v.slots(d) {
		if err != nil {
			return nil, err
		}
		if s.entry.IsEnd() {
			break
		}
		if s.entry.IsVisible() {
			recs = append(recs, v.record(d, s))
		}
	}
	return recs, nil
}

func (r *Record) subdir() dirRef {
	return dirRef{cluster: r.FirstCluster, path: r.Path()}
}
