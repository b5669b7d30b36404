//go:build linux
// +build linux

package fuse

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"syscall"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/ostafen/fatdisk/internal/dos"
	"github.com/ostafen/fatdisk/internal/fat12"
)

const rootInode = 1

// VolumeFS exposes a FAT12 volume as a read-only file system.
type VolumeFS struct {
	// the volume reads through shared state, so requests are serialized
	mtx sync.Mutex
	vol *fat12.Volume
}

func NewVolumeFS(vol *fat12.Volume) *VolumeFS {
	return &VolumeFS{vol: vol}
}

func (vfs *VolumeFS) Root() (fs.Node, error) {
	return &Dir{fs: vfs}, nil
}

// Dir implements fs.Node, fs.NodeStringLookuper and fs.HandleReadDirAller.
// The root directory has a nil record.
type Dir struct {
	fs   *VolumeFS
	path []dos.Name
	rec  *fat12.Record
}

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0o555
	a.Inode = rootInode
	if d.rec != nil {
		a.Inode = inode(d.rec)
		a.Mtime = d.rec.Modified()
	}
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	n, err := dos.ParseName(name)
	if err != nil {
		return nil, fuse.ENOENT
	}

	path := append(append([]dos.Name(nil), d.path...), n)

	d.fs.mtx.Lock()
	defer d.fs.mtx.Unlock()

	rec, err := d.fs.vol.Lookup(path)
	if err != nil {
		return nil, errno(err)
	}

	if rec.IsDir() {
		return &Dir{fs: d.fs, path: path, rec: rec}, nil
	}

	// the chain is walked once here, reads reuse its cluster list
	content, err := d.fs.vol.Open(rec)
	if err != nil {
		return nil, errno(err)
	}
	return &File{fs: d.fs, rec: rec, content: content}, nil
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	d.fs.mtx.Lock()
	recs, err := d.fs.vol.ReadDir(d.path)
	d.fs.mtx.Unlock()

	if err != nil {
		return nil, errno(err)
	}

	dirents := make([]fuse.Dirent, len(recs))
	for i, rec := range recs {
		typ := fuse.DT_File
		if rec.IsDir() {
			typ = fuse.DT_Dir
		}

		dirents[i] = fuse.Dirent{
			Inode: inode(rec),
			Name:  rec.ShortName().String(),
			Type:  typ,
		}
	}
	return dirents, nil
}

// File implements fs.Node and fs.HandleReader.
type File struct {
	fs      *VolumeFS
	rec     *fat12.Record
	content *fat12.File
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = inode(f.rec)
	a.Mode = 0o444
	a.Size = uint64(f.rec.Size())
	a.Mtime = f.rec.Modified()
	return nil
}

func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	size := f.rec.Size()
	if req.Offset >= size {
		resp.Data = []byte{}
		return nil
	}

	n := int64(req.Size)
	if req.Offset+n > size {
		n = size - req.Offset
	}

	f.fs.mtx.Lock()
	defer f.fs.mtx.Unlock()

	buf := make([]byte, n)
	read, err := f.content.ReadAt(buf, req.Offset)
	if err != nil && err != io.EOF {
		return errno(err)
	}

	resp.Data = buf[:read]
	return nil
}

// inode numbers files by their first cluster, which is unique among visible
// entries since cluster 0 and 1 entries are never listed.
func inode(rec *fat12.Record) uint64 {
	return uint64(rec.FirstCluster)
}

func errno(err error) error {
	switch {
	case errors.Is(err, fat12.ErrNotDirectory):
		return fuse.Errno(syscall.ENOTDIR)
	case errors.Is(err, fat12.ErrPathNotFound):
		return fuse.ENOENT
	}
	return fuse.EIO
}
