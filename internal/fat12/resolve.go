package fat12

import (
	"fmt"

	"github.com/ostafen/fatdisk/internal/dos"
)

// find returns the visible entry called name inside dir, or nil.
func (v *Volume) find(dir dirRef, name dos.Name) (*Record, error) {
	for s, err := range v.slots(dir) {
		if err != nil {
			return nil, err
		}
		if s.entry.IsEnd() {
			break
		}
		if s.entry.IsVisible() && s.entry.ShortName() == name {
			return v.record(dir, s), nil
		}
	}
	return nil, nil
}

// resolveDir descends from the root following path. Every component must
// name a directory.
func (v *Volume) resolveDir(path []dos.Name) (dirRef, error) {
	dir := rootDir
	for _, name := range path {
		rec, err := v.find(dir, name)
		if err != nil {
			return dirRef{}, err
		}
		if rec == nil {
			return dirRef{}, fmt.Errorf("%w: %s", ErrPathNotFound, dos.JoinPath(path))
		}
		if !rec.IsDir() {
			return dirRef{}, fmt.Errorf("%w: %s: %w", ErrPathNotFound, rec.Path(), ErrNotDirectory)
		}
		dir = rec.subdir()
	}
	return dir, nil
}

// Lookup returns the entry at path, which must contain at least one component.
func (v *Volume) Lookup(path []dos.Name) (*Record, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: the root directory has no entry", ErrPathNotFound)
	}

	dir, err := v.resolveDir(path[:len(path)-1])
	if err != nil {
		return nil, err
	}

	rec, err := v.find(dir, path[len(path)-1])
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, dos.JoinPath(path))
	}
	return rec, nil
}

// Find searches the whole tree breadth first and returns the first file
// called name.
func (v *Volume) Find(name dos.Name) (*Record, error) {
	var found *Record
	err := v.Walk(WalkOptions{}, func(rec *Record) bool {
		if rec.ShortName() == name {
			found = rec
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, name)
	}
	return found, nil
}
