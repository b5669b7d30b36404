package fat12

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStatsBlankFloppy(t *testing.T) {
	v, _ := openFloppy(t)

	st, err := v.Stats()
	require.NoError(t, err)

	want := &Stats{
		OEMName:       "MSDOS5.0",
		Label:         "NO NAME",
		TotalBytes:    1474560,
		FreeBytes:     1457664,
		Files:         0,
		FATCopies:     2,
		SectorsPerFAT: 9,
	}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsCountsFilesAndSpace(t *testing.T) {
	v, _ := openFloppy(t)
	buildTree(t, v)
	putFile(t, v, "/A/B/BIG.BIN", pattern(1025))

	st, err := v.Stats()
	require.NoError(t, err)
	require.Equal(t, 5, st.Files)

	// three directories, four one-cluster files and a three-cluster file
	require.Equal(t, int64(1457664-10*512), st.FreeBytes)
}

func TestStatsLabelFromRootEntry(t *testing.T) {
	f := newFloppy(t, FormatOptions{Label: "work disk", OEMName: "FATDISK"})

	v, err := Open(f, Options{Location: time.UTC})
	require.NoError(t, err)

	st, err := v.Stats()
	require.NoError(t, err)
	require.Equal(t, "WORK DISK", st.Label)
	require.Equal(t, "FATDISK", st.OEMName)

	// the root entry wins over the boot sector
	entry := rawEntry(t, "OTHER", AttrVolume, 0, 0)
	_, err = f.WriteAt(entry, v.Geometry().RootDirOffset(v.Boot()))
	require.NoError(t, err)

	label, err := v.Label()
	require.NoError(t, err)
	require.Equal(t, "OTHER", label)
	require.Equal(t, "WORK DISK", v.Boot().Label())
}

func TestFormatLayout(t *testing.T) {
	f := newFloppy(t, FormatOptions{})
	img := snapshot(t, f)

	require.Equal(t, []byte{0x55, 0xAA}, img[510:512])
	require.Equal(t, []byte{0xF0, 0xFF, 0xFF}, img[512:515])
	require.Equal(t, []byte{0xF0, 0xFF, 0xFF}, img[512+9*512:512+9*512+3])

	// empty root directory
	require.Equal(t, byte(0), img[19*512])
}

func TestGeometry(t *testing.T) {
	boot := FloppyBootSector(FormatOptions{})
	geo := Floppy144

	require.Equal(t, int64(512), geo.FATOffset(boot, 0))
	require.Equal(t, int64(10*512), geo.FATOffset(boot, 1))
	require.Equal(t, int64(19*512), geo.RootDirOffset(boot))
	require.Equal(t, int64(33*512), geo.ClusterOffset(boot, 2))
	require.Equal(t, int64(512*(100+33-2)), geo.ClusterOffset(boot, 100))
	require.Equal(t, 2849, geo.ClusterCount(boot))

	boot.SectorsPerCluster = 2
	require.Equal(t, int64(512*(33+2*(10-2))), geo.ClusterOffset(boot, 10))
	require.Equal(t, (2880-33)/2+2, geo.ClusterCount(boot))
}
