//go:build linux

package image

import (
	"os"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// deviceSize returns the size of the image. Block devices such as /dev/fd0
// report a zero size through stat and are asked with BLKGETSIZE64 instead.
func deviceSize(f afero.File, fi os.FileInfo) int64 {
	if fi.Mode()&os.ModeDevice == 0 {
		return fi.Size()
	}

	osf, ok := f.(fder)
	if !ok {
		return fi.Size()
	}

	size, err := unix.IoctlGetInt(int(osf.Fd()), unix.BLKGETSIZE64)
	if err != nil {
		return fi.Size()
	}
	return int64(size)
}
