package fat12

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	v, f := openFloppy(t)

	mkdir(t, v, "/A")
	mkdir(t, v, "/A/B")
	content := pattern(1500)
	putFile(t, v, "/A/B/FILE.TXT", content)

	rec, err := v.Lookup(mustPath(t, "A/B/FILE.TXT"))
	require.NoError(t, err)
	require.Equal(t, "/A/B/FILE.TXT", rec.Path())
	require.Equal(t, "/A/B", rec.Dir)
	require.Equal(t, int64(1500), rec.Size())
	require.Equal(t, testTime, rec.Modified())
	require.Equal(t, testTime, rec.Created())

	// the record points at the slot it was decoded from
	raw := make([]byte, DirEntrySize)
	_, err = f.ReadAt(raw, rec.Offset)
	require.NoError(t, err)
	de, err := DecodeDirEntry(raw)
	require.NoError(t, err)
	require.Equal(t, rec.DirEntry, *de)

	_, err = v.Lookup(mustPath(t, "A/B/MISSING.TXT"))
	require.ErrorIs(t, err, ErrPathNotFound)

	_, err = v.Lookup(mustPath(t, "A/NOPE/FILE.TXT"))
	require.ErrorIs(t, err, ErrPathNotFound)

	_, err = v.Lookup(mustPath(t, "A/B/FILE.TXT/X"))
	require.ErrorIs(t, err, ErrPathNotFound)

	_, err = v.Lookup(nil)
	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	v, _ := openFloppy(t)
	putFile(t, v, "/Readme.md", []byte("hi"))

	rec, err := v.Lookup(mustPath(t, "/README.MD"))
	require.NoError(t, err)
	require.Equal(t, "README.MD", rec.ShortName().String())
}

func TestDuplicateInsertLeavesImageUntouched(t *testing.T) {
	v, f := openFloppy(t)

	mkdir(t, v, "/A")
	mkdir(t, v, "/A/B")
	putFile(t, v, "/A/B/FILE.TXT", []byte("first"))

	before := snapshot(t, f)

	_, err := v.Insert(mustPath(t, "/A/B/file.txt"), bytes.NewReader([]byte("second")), 6, testTime)
	require.ErrorIs(t, err, ErrDuplicateName)

	require.True(t, bytes.Equal(before, snapshot(t, f)), "image modified by a failed insert")
}

func TestDuplicateOfEmptyFile(t *testing.T) {
	v, _ := openFloppy(t)
	putFile(t, v, "/EMPTY.TXT", nil)

	_, err := v.Insert(mustPath(t, "/EMPTY.TXT"), bytes.NewReader(nil), 0, testTime)
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestFind(t *testing.T) {
	v, _ := openFloppy(t)
	buildTree(t, v)
	putFile(t, v, "/C/X.TXT", []byte("other x"))

	// breadth first: /A/X.TXT is reached before /C/X.TXT
	rec, err := v.Find(mustName(t, "x.txt"))
	require.NoError(t, err)
	require.Equal(t, "/A/X.TXT", rec.Path())

	rec, err = v.Find(mustName(t, "z.txt"))
	require.NoError(t, err)
	require.Equal(t, "/A/B/Z.TXT", rec.Path())

	file, err := v.Open(rec)
	require.NoError(t, err)
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	require.Equal(t, "z", string(data))

	// directories are not files
	_, err = v.Find(mustName(t, "B"))
	require.ErrorIs(t, err, ErrPathNotFound)
}
