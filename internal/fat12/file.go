package fat12

import (
	"fmt"
	"io"

	"github.com/ostafen/fatdisk/pkg/reader"
)

// File is the content of a regular file: a view of its cluster chain
// trimmed to the size recorded in the directory entry.
type File struct {
	*reader.MultiReadSeeker

	rec       *Record
	clusters  []uint16
	truncated bool
}

// Open returns a reader over the content of rec.
func (v *Volume) Open(rec *Record) (*File, error) {
	if rec.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", rec.Path())
	}

	var clusters []uint16
	if rec.DirEntry.Size > 0 {
		var err error
		clusters, err = v.fat.Clusters(rec.FirstCluster)
		if err != nil {
			return nil, fmt.Errorf("reading chain of %s: %w", rec.Path(), err)
		}
	}

	var (
		readers   []io.ReadSeeker
		sizes     []int64
		remaining = rec.Size()
		clusterSz = int64(v.ClusterSize())
	)
	for _, c := range clusters {
		if remaining == 0 {
			break
		}

		n := min(remaining, clusterSz)
		readers = append(readers, io.NewSectionReader(v.dev, v.clusterOffset(c), n))
		sizes = append(sizes, n)
		remaining -= n
	}

	if remaining > 0 {
		v.log.Warn("file content is shorter than its recorded size",
			"path", rec.Path(),
			"size", rec.Size(),
			"missing", remaining,
		)
	}

	return &File{
		MultiReadSeeker: reader.NewMultiReadSeeker(readers, sizes),
		rec:             rec,
		clusters:        clusters,
		truncated:       remaining > 0,
	}, nil
}

func (f *File) Record() *Record { return f.rec }

// Clusters returns the chain backing the file, in order.
func (f *File) Clusters() []uint16 { return f.clusters }

// Truncated reports whether the chain ended before the recorded size was
// reached. Reads then stop at the last available byte.
func (f *File) Truncated() bool { return f.truncated }

// ByteRun is a contiguous extent of file content inside the image.
type ByteRun struct {
	FileOffset int64
	ImgOffset  int64
	Length     int64
}

// Runs returns the extents of the file, merging adjacent clusters.
func (v *Volume) Runs(f *File) []ByteRun {
	var (
		runs      []ByteRun
		fileOff   int64
		clusterSz = int64(v.ClusterSize())
	)

	for _, c := range f.clusters {
		if fileOff >= f.Size() {
			break
		}

		n := min(f.Size()-fileOff, clusterSz)
		imgOff := v.clusterOffset(c)
		if len(runs) > 0 {
			last := &runs[len(runs)-1]
			if last.ImgOffset+last.Length == imgOff {
				last.Length += n
				fileOff += n
				continue
			}
		}

		runs = append(runs, ByteRun{FileOffset: fileOff, ImgOffset: imgOff, Length: n})
		fileOff += n
	}
	return runs
}
