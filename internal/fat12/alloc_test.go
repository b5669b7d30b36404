package fat12

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/ostafen/fatdisk/internal/dos"
	"github.com/stretchr/testify/require"
)

func TestInsertAndRead(t *testing.T) {
	v, _ := openFloppy(t)

	for _, size := range []int{1, 511, 512, 513, 5000} {
		name := fmt.Sprintf("/F%d.BIN", size)
		content := pattern(size)

		rec := putFile(t, v, name, content)
		require.Equal(t, uint8(AttrArchive), rec.Attr)
		require.Equal(t, rec.ModDate, rec.AccessDate)

		got, err := v.Lookup(mustPath(t, name))
		require.NoError(t, err)
		require.Equal(t, rec.DirEntry, got.DirEntry)

		file, err := v.Open(got)
		require.NoError(t, err)
		require.False(t, file.Truncated())
		require.Len(t, file.Clusters(), (size+511)/512)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, content, data)

		// last cluster ends the chain
		last := file.Clusters()[len(file.Clusters())-1]
		next, err := v.Table().Get(last)
		require.NoError(t, err)
		require.Equal(t, EndOfChain, next)
	}
}

func TestInsertPadsLastCluster(t *testing.T) {
	v, f := openFloppy(t)

	rec := putFile(t, v, "/SHORT.TXT", []byte("abc"))

	buf := make([]byte, v.ClusterSize())
	_, err := f.ReadAt(buf, v.Geometry().ClusterOffset(v.Boot(), rec.FirstCluster))
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), buf[:3])
	require.Equal(t, make([]byte, len(buf)-3), buf[3:])
}

func TestInsertEmptyFile(t *testing.T) {
	v, _ := openFloppy(t)

	freeBefore, err := v.Table().CountFree()
	require.NoError(t, err)

	rec := putFile(t, v, "/EMPTY.TXT", nil)
	require.Zero(t, rec.FirstCluster)
	require.Zero(t, rec.Size())

	freeAfter, err := v.Table().CountFree()
	require.NoError(t, err)
	require.Equal(t, freeBefore, freeAfter)

	// reserved entries are untouched
	e0, err := v.Table().Get(0)
	require.NoError(t, err)
	require.Equal(t, uint16(0xFF0), e0)
}

func TestInsertReusesDeletedSlot(t *testing.T) {
	v, f := openFloppy(t)

	first := putFile(t, v, "/ONE.TXT", []byte("1"))
	putFile(t, v, "/TWO.TXT", []byte("2"))

	_, err := f.WriteAt([]byte{DeletedFlag}, first.Offset)
	require.NoError(t, err)

	rec := putFile(t, v, "/THREE.TXT", []byte("3"))
	require.Equal(t, first.Offset, rec.Offset)
}

func TestInsertMissingParent(t *testing.T) {
	v, f := openFloppy(t)
	before := snapshot(t, f)

	_, err := v.Insert(mustPath(t, "/NODIR/FILE.TXT"), bytes.NewReader([]byte("x")), 1, testTime)
	require.ErrorIs(t, err, ErrPathNotFound)
	require.True(t, bytes.Equal(before, snapshot(t, f)))
}

func TestInsertRejectsFreeSlotMarkerName(t *testing.T) {
	v, f := openFloppy(t)

	_, err := dos.SplitPath("/∩B.TXT")
	require.ErrorIs(t, err, dos.ErrInvalidChar)

	before := snapshot(t, f)
	for _, lead := range []byte{DeletedFlag, DeletedFlagAlt} {
		name := mustName(t, "XB.TXT")
		name[0] = lead

		_, err := v.Insert([]dos.Name{name}, bytes.NewReader([]byte("hello")), 5, testTime)
		require.ErrorIs(t, err, dos.ErrInvalidChar)
	}
	require.True(t, bytes.Equal(before, snapshot(t, f)))

	rec := putFile(t, v, "/OTHER.TXT", []byte("x"))
	found, err := v.Lookup(mustPath(t, "/OTHER.TXT"))
	require.NoError(t, err)
	require.Equal(t, rec.Offset, found.Offset)
}

func TestInsertExtendsDirectory(t *testing.T) {
	v, _ := openFloppy(t)

	dir := mkdir(t, v, "/D")
	tail := dir.FirstCluster

	// "." and ".." plus 14 empty files fill the only cluster
	for i := 0; i < 14; i++ {
		putFile(t, v, fmt.Sprintf("/D/E%d", i), nil)
	}

	next, err := v.Table().Get(tail)
	require.NoError(t, err)
	require.Equal(t, EndOfChain, next)

	free, err := v.Table().FindFreeN(2)
	require.NoError(t, err)

	rec := putFile(t, v, "/D/NEW.TXT", []byte("new"))

	clusters, err := v.Table().Clusters(tail)
	require.NoError(t, err)
	require.Equal(t, []uint16{tail, free[0]}, clusters)

	next, err = v.Table().Get(tail)
	require.NoError(t, err)
	require.Equal(t, free[0], next)

	next, err = v.Table().Get(free[0])
	require.NoError(t, err)
	require.Equal(t, EndOfChain, next)

	require.Equal(t, v.Geometry().ClusterOffset(v.Boot(), free[0]), rec.Offset)
	require.Equal(t, free[1], rec.FirstCluster)

	// the rest of the new cluster reads as end of directory
	recs, err := v.ReadDir(mustPath(t, "/D"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "NEW.TXT", recs[0].ShortName().String())
}

func TestInsertRootFull(t *testing.T) {
	v, f := openFloppy(t)

	for i := 0; i < int(v.Boot().MaxRootEntries); i++ {
		putFile(t, v, fmt.Sprintf("/R%d", i), nil)
	}

	before := snapshot(t, f)
	_, err := v.Insert(mustPath(t, "/LAST"), bytes.NewReader(nil), 0, testTime)
	require.ErrorIs(t, err, ErrRootFull)
	require.ErrorIs(t, err, ErrInsufficientSpace)
	require.True(t, bytes.Equal(before, snapshot(t, f)))
}

// readOnlyDevice serves reads from backing and fails the test on any write.
func readOnlyDevice(t *testing.T, ctrl *gomock.Controller, backing Device) *MockDevice {
	t.Helper()

	dev := NewMockDevice(ctrl)
	dev.EXPECT().
		ReadAt(gomock.Any(), gomock.Any()).
		DoAndReturn(backing.ReadAt).
		AnyTimes()
	return dev
}

func TestInsertInsufficientSpace(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	f := newFloppy(t, FormatOptions{})
	dev := readOnlyDevice(t, mockCtrl, f)

	v, err := Open(dev, Options{})
	require.NoError(t, err)

	free, err := v.Table().CountFree()
	require.NoError(t, err)

	size := int64(free*v.ClusterSize() + 1)
	_, err = v.Insert(mustPath(t, "/HUGE.BIN"), bytes.NewReader(nil), size, testTime)
	require.ErrorIs(t, err, ErrInsufficientSpace)
}

func TestInsertGrowNeedsExtraCluster(t *testing.T) {
	v, f := openFloppy(t)

	mkdir(t, v, "/D")
	for i := 0; i < 14; i++ {
		putFile(t, v, fmt.Sprintf("/D/E%d", i), nil)
	}

	free, err := v.Table().CountFree()
	require.NoError(t, err)

	// the content alone fits, the directory extension does not
	before := snapshot(t, f)
	size := int64(free * v.ClusterSize())
	_, err = v.Insert(mustPath(t, "/D/FULL.BIN"), bytes.NewReader(make([]byte, size)), size, testTime)
	require.ErrorIs(t, err, ErrInsufficientSpace)
	require.True(t, bytes.Equal(before, snapshot(t, f)))
}

func TestInsertShortSource(t *testing.T) {
	v, _ := openFloppy(t)

	_, err := v.Insert(mustPath(t, "/SHORT.BIN"), bytes.NewReader([]byte("abc")), 10, testTime)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestInsertWriteFailure(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	f := newFloppy(t, FormatOptions{})
	dev := readOnlyDevice(t, mockCtrl, f)

	diskErr := errors.New("device not ready")
	dev.EXPECT().
		WriteAt(gomock.Any(), gomock.Any()).
		Return(0, diskErr).
		Times(1)

	v, err := Open(dev, Options{})
	require.NoError(t, err)

	_, err = v.Insert(mustPath(t, "/FILE.TXT"), bytes.NewReader([]byte("data")), 4, testTime)
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, diskErr)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	require.Equal(t, "write", ioErr.Op)
}

func TestMkdir(t *testing.T) {
	v, f := openFloppy(t)

	parent := mkdir(t, v, "/P")
	child := mkdir(t, v, "/P/C")
	require.True(t, child.IsDir())
	require.Zero(t, child.Size())

	buf := make([]byte, 2*DirEntrySize)
	_, err := f.ReadAt(buf, v.Geometry().ClusterOffset(v.Boot(), child.FirstCluster))
	require.NoError(t, err)

	dot, err := DecodeDirEntry(buf)
	require.NoError(t, err)
	require.Equal(t, dotName("."), dot.ShortName())
	require.Equal(t, child.FirstCluster, dot.FirstCluster)

	dotdot, err := DecodeDirEntry(buf[DirEntrySize:])
	require.NoError(t, err)
	require.Equal(t, parent.FirstCluster, dotdot.FirstCluster)

	_, err = v.Mkdir(mustPath(t, "/P/C"), testTime)
	require.ErrorIs(t, err, ErrDuplicateName)
}
