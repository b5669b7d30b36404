//go:build linux
// +build linux

package fuse

import (
	"bytes"
	"context"
	"testing"
	"time"

	"bazil.org/fuse"
	"github.com/ostafen/fatdisk/internal/dos"
	"github.com/ostafen/fatdisk/internal/fat12"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var stamp = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func newVolume(t *testing.T) *fat12.Volume {
	t.Helper()

	f, err := afero.NewMemMapFs().Create("floppy.img")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	require.NoError(t, fat12.Format(f, fat12.FormatOptions{Now: stamp}))

	vol, err := fat12.Open(f, fat12.Options{Location: time.UTC})
	require.NoError(t, err)

	docs, err := dos.SplitPath("/DOCS")
	require.NoError(t, err)
	_, err = vol.Mkdir(docs, stamp)
	require.NoError(t, err)

	for path, content := range map[string][]byte{
		"/README.TXT":   []byte("hello"),
		"/DOCS/BIG.BIN": bytes.Repeat([]byte{0xAB}, 1300),
	} {
		p, err := dos.SplitPath(path)
		require.NoError(t, err)
		_, err = vol.Insert(p, bytes.NewReader(content), int64(len(content)), stamp)
		require.NoError(t, err)
	}
	return vol
}

func TestRootListing(t *testing.T) {
	ctx := context.Background()
	root, err := NewVolumeFS(newVolume(t)).Root()
	require.NoError(t, err)

	dirents, err := root.(*Dir).ReadDirAll(ctx)
	require.NoError(t, err)
	require.Len(t, dirents, 2)

	types := map[string]fuse.DirentType{}
	for _, d := range dirents {
		types[d.Name] = d.Type
	}
	require.Equal(t, map[string]fuse.DirentType{
		"DOCS":       fuse.DT_Dir,
		"README.TXT": fuse.DT_File,
	}, types)

	var attr fuse.Attr
	require.NoError(t, root.Attr(ctx, &attr))
	require.True(t, attr.Mode.IsDir())
	require.Equal(t, uint64(rootInode), attr.Inode)

	node, err := root.(*Dir).Lookup(ctx, "DOCS")
	require.NoError(t, err)
	require.NoError(t, node.Attr(ctx, &attr))
	require.True(t, attr.Mode.IsDir())
	require.Equal(t, stamp, attr.Mtime)
}

func TestLookupAndRead(t *testing.T) {
	ctx := context.Background()
	root, err := NewVolumeFS(newVolume(t)).Root()
	require.NoError(t, err)

	node, err := root.(*Dir).Lookup(ctx, "docs")
	require.NoError(t, err)
	docs, ok := node.(*Dir)
	require.True(t, ok)

	node, err = docs.Lookup(ctx, "big.bin")
	require.NoError(t, err)
	file, ok := node.(*File)
	require.True(t, ok)
	require.Len(t, file.content.Clusters(), 3)

	var attr fuse.Attr
	require.NoError(t, file.Attr(ctx, &attr))
	require.Equal(t, uint64(1300), attr.Size)
	require.Equal(t, stamp, attr.Mtime)

	var resp fuse.ReadResponse
	require.NoError(t, file.Read(ctx, &fuse.ReadRequest{Offset: 1000, Size: 4096}, &resp))
	require.Equal(t, bytes.Repeat([]byte{0xAB}, 300), resp.Data)

	require.NoError(t, file.Read(ctx, &fuse.ReadRequest{Offset: 1300, Size: 10}, &resp))
	require.Empty(t, resp.Data)
}

func TestLookupErrors(t *testing.T) {
	ctx := context.Background()
	root, err := NewVolumeFS(newVolume(t)).Root()
	require.NoError(t, err)

	_, err = root.(*Dir).Lookup(ctx, "MISSING.TXT")
	require.Equal(t, fuse.ENOENT, err)

	_, err = root.(*Dir).Lookup(ctx, "not a dos name")
	require.Equal(t, fuse.ENOENT, err)
}
