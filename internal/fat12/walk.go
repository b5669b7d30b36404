package fat12

import (
	"fmt"

	"github.com/ostafen/fatdisk/internal/dos"
)

type WalkOptions struct {
	// IncludeDirs delivers directory entries to the visitor as well as files.
	IncludeDirs bool

	// EnterDir, when set, is called with the path of each directory right
	// before its entries are scanned, starting with "/".
	EnterDir func(path string)
}

// Walk visits the tree breadth first: the root directory, then each
// subdirectory in the order it was discovered. Entries of a directory are
// delivered in on-disk order. The walk stops early when visit returns false.
func (v *Volume) Walk(opts WalkOptions, visit func(*Record) bool) error {
	queue := []dirRef{rootDir}

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		if opts.EnterDir != nil {
			opts.EnterDir(dir.path)
		}
		v.log.Debug("scanning directory", "path", dir.path, "cluster", dir.cluster)

		for s, err := range v.slots(dir) {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", dir.path, err)
			}
			if s.entry.IsEnd() {
				break
			}
			if !s.entry.IsVisible() {
				continue
			}

			rec := v.record(dir, s)
			if rec.IsDir() {
				queue = append(queue, rec.subdir())
				if !opts.IncludeDirs {
					continue
				}
			}
			if !visit(rec) {
				return nil
			}
		}
	}
	return nil
}

// ReadDir returns the visible entries of the directory at path, without
// descending into subdirectories.
func (v *Volume) ReadDir(path []dos.Name) ([]*Record, error) {
	dir, err := v.resolveDir(path)
	if err != nil {
		return nil, err
	}
	return v.entries(dir)
}
