package fat12

import (
	"bytes"
	"testing"
	"time"

	"github.com/ostafen/fatdisk/internal/dos"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

// newFloppy returns a freshly formatted 1.44 MB image kept in memory.
func newFloppy(t *testing.T, opts FormatOptions) afero.File {
	t.Helper()

	fs := afero.NewMemMapFs()
	f, err := fs.Create("floppy.img")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	if opts.Now.IsZero() {
		opts.Now = testTime
	}
	require.NoError(t, Format(f, opts))
	return f
}

func openFloppy(t *testing.T) (*Volume, afero.File) {
	t.Helper()

	f := newFloppy(t, FormatOptions{})
	v, err := Open(f, Options{Location: time.UTC})
	require.NoError(t, err)
	return v, f
}

func mustPath(t *testing.T, p string) []dos.Name {
	t.Helper()

	names, err := dos.SplitPath(p)
	require.NoError(t, err)
	return names
}

func mustName(t *testing.T, s string) dos.Name {
	t.Helper()

	n, err := dos.ParseName(s)
	require.NoError(t, err)
	return n
}

func putFile(t *testing.T, v *Volume, p string, content []byte) *Record {
	t.Helper()

	rec, err := v.Insert(mustPath(t, p), bytes.NewReader(content), int64(len(content)), testTime)
	require.NoError(t, err)
	return rec
}

func mkdir(t *testing.T, v *Volume, p string) *Record {
	t.Helper()

	rec, err := v.Mkdir(mustPath(t, p), testTime)
	require.NoError(t, err)
	return rec
}

// snapshot returns the whole content of the image.
func snapshot(t *testing.T, f afero.File) []byte {
	t.Helper()

	buf := make([]byte, FloppyImageSize)
	n, err := f.ReadAt(buf, 0)
	require.Equal(t, len(buf), n, "read error: %v", err)
	return buf
}

// rawEntry encodes a directory entry for hand-built directory regions.
func rawEntry(t *testing.T, name string, attr uint8, cluster uint16, size uint32) []byte {
	t.Helper()

	e := DirEntry{Attr: attr, FirstCluster: cluster, Size: size}
	copy(e.Name[:], padRight(name, 8))
	copy(e.Ext[:], "   ")

	if base, ext, ok := cutExt(name); ok {
		copy(e.Name[:], padRight(base, 8))
		copy(e.Ext[:], padRight(ext, 3))
	}

	data, err := e.Encode()
	require.NoError(t, err)
	return data
}

func cutExt(name string) (string, string, bool) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' && i > 0 {
			return name[:i], name[i+1:], true
		}
	}
	return name, "", false
}

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + i/251)
	}
	return b
}
