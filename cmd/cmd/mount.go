// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"path/filepath"
	"strings"

	"github.com/ostafen/fatdisk/internal/fuse"
	"github.com/ostafen/fatdisk/internal/image"
	"github.com/spf13/cobra"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <image>",
		Short: "Mount a FAT12 image read-only",
		Long: `The 'mount' command exposes the directory tree of the image through FUSE, read-only.
The file system stays mounted until the process receives an interrupt or termination signal.
Only Linux is supported.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunMount,
	}

	cmd.Flags().AddFlagSet(readFlags())
	cmd.Flags().StringP("mountpoint", "m", "", "directory where the image is mounted. If not specified, one is derived from the image name.")
	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
	vol, closeFn, err := openVolume(cmd, args[0], image.ReadOnly)
	if err != nil {
		return err
	}
	defer closeFn()

	mountpoint, _ := cmd.Flags().GetString("mountpoint")
	if mountpoint == "" {
		mountpoint = getMountpoint(args[0])
	}
	return fuse.Mount(mountpoint, vol, newLogger(cmd))
}

// getMountpoint derives a mountpoint name from the image name by stripping
// its extension. If the extension is empty, "_mnt" is added.
func getMountpoint(imagePath string) string {
	base := filepath.Base(imagePath)
	ext := filepath.Ext(base)

	mountpoint := strings.TrimSuffix(base, ext)
	if ext == "" {
		mountpoint += "_mnt"
	}
	return mountpoint
}
