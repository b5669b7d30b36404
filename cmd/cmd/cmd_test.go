package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/ostafen/fatdisk/internal/dos"
	"github.com/ostafen/fatdisk/internal/fat12"
	"github.com/ostafen/fatdisk/internal/image"
	"github.com/ostafen/fatdisk/pkg/dfxml"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// run executes the root command against fs and returns what it printed.
func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()

	saved := appFs
	appFs = fs
	t.Cleanup(func() { appFs = saved })

	root := NewRootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func newImage(t *testing.T, args ...string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	_, err := run(t, fs, append([]string{"mkfs", "floppy.img"}, args...)...)
	require.NoError(t, err)
	return fs
}

func TestMkfsAndInfo(t *testing.T) {
	fs := newImage(t, "--label", "backup", "--oem", "FATDISK")

	out, err := run(t, fs, "info", "floppy.img")
	require.NoError(t, err)

	for _, line := range []string{
		"OS Name: FATDISK",
		"Label of disk: BACKUP",
		"Total size of the disk: 1474560 bytes",
		"Free size of the disk: 1457664 bytes",
		"The number of files in the disk: 0",
		"Number of FAT copies: 2",
		"Sectors per FAT: 9",
	} {
		require.Contains(t, out, line+"\n")
	}

	out, err = run(t, fs, "info", "--human", "floppy.img")
	require.NoError(t, err)
	require.Contains(t, out, "Total size of the disk: 1474560 bytes (1.41MB)\n")
}

func TestMkfsRefusesExistingImage(t *testing.T) {
	fs := newImage(t)

	_, err := run(t, fs, "mkfs", "floppy.img")
	require.ErrorIs(t, err, os.ErrExist)
}

func TestPutListGet(t *testing.T) {
	fs := newImage(t)
	content := bytes.Repeat([]byte("fat12 "), 100)
	require.NoError(t, afero.WriteFile(fs, "NOTES.TXT", content, 0o644))

	_, err := run(t, fs, "mkdir", "floppy.img", "/DOCS")
	require.NoError(t, err)

	_, err = run(t, fs, "put", "floppy.img", "/DOCS/NOTES.TXT")
	require.NoError(t, err)

	out, err := run(t, fs, "list", "floppy.img")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "/\n==================\n"))
	require.Contains(t, out, fmt.Sprintf("D %10d %s ", 0, "DOCS    .   "))
	require.Contains(t, out, "/DOCS\n==================\n")
	require.Contains(t, out, fmt.Sprintf("F %10d %s ", len(content), "NOTES   .TXT"))

	_, err = run(t, fs, "get", "floppy.img", "notes.txt", "--output", "copy.txt")
	require.NoError(t, err)

	got, err := afero.ReadFile(fs, "copy.txt")
	require.NoError(t, err)
	require.Equal(t, content, got)

	require.NoError(t, fs.Remove("NOTES.TXT"))
	_, err = run(t, fs, "get", "floppy.img", "/DOCS/NOTES.TXT")
	require.NoError(t, err)

	got, err = afero.ReadFile(fs, "NOTES.TXT")
	require.NoError(t, err)
	require.Equal(t, content, got)

	_, err = run(t, fs, "get", "floppy.img", "/DOCS/NOTES.TXT", "--no-clobber")
	require.ErrorIs(t, err, os.ErrExist)
}

func TestPutWithExplicitSource(t *testing.T) {
	fs := newImage(t)
	require.NoError(t, afero.WriteFile(fs, "host-file.bin", []byte{1, 2, 3}, 0o644))

	_, err := run(t, fs, "put", "--sync-fats", "floppy.img", "/DATA.BIN", "host-file.bin")
	require.NoError(t, err)

	out, err := run(t, fs, "info", "floppy.img")
	require.NoError(t, err)
	require.Contains(t, out, "The number of files in the disk: 1\n")
	require.Contains(t, out, "Free size of the disk: 1457152 bytes\n")
}

func TestPutErrors(t *testing.T) {
	fs := newImage(t)
	require.NoError(t, afero.WriteFile(fs, "A.TXT", []byte("a"), 0o644))

	_, err := run(t, fs, "put", "floppy.img", "/A.TXT")
	require.NoError(t, err)

	_, err = run(t, fs, "put", "floppy.img", "/A.TXT")
	require.ErrorIs(t, err, fat12.ErrDuplicateName)
	require.Equal(t, ExitDuplicate, ExitCode(err))

	_, err = run(t, fs, "put", "floppy.img", "/NODIR/B.TXT", "A.TXT")
	require.Equal(t, ExitNotFound, ExitCode(err))

	_, err = run(t, fs, "put", "floppy.img", "/TOOLONGNAME.TXT", "A.TXT")
	require.Equal(t, ExitInvalidName, ExitCode(err))

	_, err = run(t, fs, "put", "floppy.img", "/C.TXT")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestGetMissing(t *testing.T) {
	fs := newImage(t)

	_, err := run(t, fs, "get", "floppy.img", "MISSING.TXT")
	require.ErrorIs(t, err, fat12.ErrPathNotFound)
	require.Equal(t, ExitNotFound, ExitCode(err))
}

func TestListReport(t *testing.T) {
	fs := newImage(t)
	require.NoError(t, afero.WriteFile(fs, "A.TXT", make([]byte, 700), 0o644))

	_, err := run(t, fs, "put", "floppy.img", "/A.TXT")
	require.NoError(t, err)

	_, err = run(t, fs, "list", "floppy.img", "--report", "report.xml")
	require.NoError(t, err)

	f, err := fs.Open("report.xml")
	require.NoError(t, err)
	defer f.Close()

	objects, err := dfxml.ReadFileObjects(f)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	require.Equal(t, "/A.TXT", objects[0].Filename)
	require.Equal(t, uint64(700), objects[0].FileSize)
	require.Equal(t, []dfxml.ByteRun{
		{Offset: 0, ImgOffset: uint64(33 * 512), Length: 700},
	}, objects[0].ByteRuns.Runs)
}

func TestPartitionedImage(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := run(t, fs, "mkfs", "--mbr", "--label", "part1", "disk.img")
	require.NoError(t, err)

	_, err = run(t, fs, "info", "disk.img")
	require.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "A.TXT", []byte("inside"), 0o644))
	_, err = run(t, fs, "put", "--partition", "1", "disk.img", "/A.TXT")
	require.NoError(t, err)

	out, err := run(t, fs, "info", "--partition", "1", "disk.img")
	require.NoError(t, err)
	require.Contains(t, out, "Label of disk: PART1\n")
	require.Contains(t, out, "The number of files in the disk: 1\n")

	_, err = run(t, fs, "info", "--partition", "2", "disk.img")
	require.ErrorIs(t, err, image.ErrNoPartition)
}

func TestInvalidLogLevel(t *testing.T) {
	fs := newImage(t)

	_, err := run(t, fs, "info", "--log-level", "loud", "floppy.img")
	require.Error(t, err)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{errors.New("boom"), ExitFailure},
		{fmt.Errorf("put: %w", fat12.ErrDuplicateName), ExitDuplicate},
		{&fat12.IOError{Op: "read", Err: io.ErrUnexpectedEOF}, ExitIO},
		{fmt.Errorf("%w: A.TXT", dos.ErrInvalidChar), ExitInvalidName},
		{fat12.ErrRootFull, ExitNoSpace},
		{fat12.ErrInsufficientSpace, ExitNoSpace},
		{os.ErrNotExist, ExitNotFound},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, ExitCode(tc.err), "error %v", tc.err)
	}
}

func TestGetMountpoint(t *testing.T) {
	require.Equal(t, "floppy", getMountpoint("/images/floppy.img"))
	require.Equal(t, "floppy_mnt", getMountpoint("floppy"))
}
