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
	"fmt"
	pathpkg "path"

	"github.com/ostafen/fatdisk/internal/dos"
	"github.com/ostafen/fatdisk/internal/image"
	"github.com/spf13/cobra"
)

func DefinePutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <image> <path> [source]",
		Short: "Copy a host file into a FAT12 image",
		Long: `The 'put' command stores a host file at the given path of the image, e.g. /DOCS/NOTES.TXT.
The parent directory must exist and the name must be free. When no source is given,
the host file named like the last path component is copied.
The entry is stamped with the modification time of the source.`,
		Args:         cobra.RangeArgs(2, 3),
		SilenceUsage: true,
		RunE:         RunPut,
	}

	cmd.Flags().AddFlagSet(writeFlags())
	return cmd
}

func RunPut(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)

	path, err := dos.SplitPath(args[1])
	if err != nil {
		return err
	}

	source := pathpkg.Base(args[1])
	if len(args) == 3 {
		source = args[2]
	}

	src, err := appFs.Open(source)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	finfo, err := src.Stat()
	if err != nil {
		return err
	}
	if finfo.IsDir() {
		return fmt.Errorf("source %s is a directory", source)
	}

	vol, closeFn, err := openVolume(cmd, args[0], image.ReadWrite)
	if err != nil {
		return err
	}
	defer closeFn()

	rec, err := vol.Insert(path, src, finfo.Size(), finfo.ModTime())
	if err != nil {
		return err
	}

	log.Infof("Copied %s to %s (%d bytes)", source, rec.Path(), rec.Size())
	return closeFn()
}
