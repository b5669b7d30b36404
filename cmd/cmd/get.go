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
	"io"
	"strings"

	"github.com/ostafen/fatdisk/internal/dos"
	"github.com/ostafen/fatdisk/internal/fat12"
	"github.com/ostafen/fatdisk/internal/image"
	osutils "github.com/ostafen/fatdisk/pkg/util/os"
	"github.com/spf13/cobra"
)

func DefineGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <image> <name|path>",
		Short: "Copy a file out of a FAT12 image",
		Long: `The 'get' command extracts a file from the image into the current directory.
A bare name such as README.TXT is searched in the whole tree, breadth first;
a path starting with '/' such as /DOCS/README.TXT must resolve exactly.
The file is written under its own name unless --output is given.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunGet,
	}

	cmd.Flags().AddFlagSet(readFlags())
	cmd.Flags().StringP("output", "o", "", "path of the extracted file on the host")
	cmd.Flags().Bool("no-clobber", false, "fail instead of overwriting an existing host file")
	return cmd
}

func RunGet(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)

	vol, closeFn, err := openVolume(cmd, args[0], image.ReadOnly)
	if err != nil {
		return err
	}
	defer closeFn()

	rec, err := lookupRecord(vol, args[1])
	if err != nil {
		return err
	}

	file, err := vol.Open(rec)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = rec.ShortName().String()
	}

	noClobber, _ := cmd.Flags().GetBool("no-clobber")
	dst, err := osutils.CreateExclusive(appFs, out, !noClobber)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return fmt.Errorf("copying %s: %w", rec.Path(), err)
	}

	if file.Truncated() {
		log.Warnf("%s is corrupted, not all of its clusters could be retrieved", rec.Path())
	}
	log.Infof("File extracted as %s", out)
	return dst.Close()
}

// lookupRecord resolves arg as an absolute path when it contains a slash and
// searches the whole tree for it otherwise.
func lookupRecord(vol *fat12.Volume, arg string) (*fat12.Record, error) {
	if strings.Contains(arg, "/") {
		path, err := dos.SplitPath(arg)
		if err != nil {
			return nil, err
		}
		return vol.Lookup(path)
	}

	name, err := dos.ParseName(arg)
	if err != nil {
		return nil, err
	}
	return vol.Find(name)
}
