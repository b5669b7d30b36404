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
	"time"

	"github.com/ostafen/fatdisk/internal/dos"
	"github.com/ostafen/fatdisk/internal/image"
	"github.com/spf13/cobra"
)

func DefineMkdirCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mkdir <image> <path>",
		Short:        "Create a directory inside a FAT12 image",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunMkdir,
	}

	cmd.Flags().AddFlagSet(writeFlags())
	return cmd
}

func RunMkdir(cmd *cobra.Command, args []string) error {
	path, err := dos.SplitPath(args[1])
	if err != nil {
		return err
	}

	vol, closeFn, err := openVolume(cmd, args[0], image.ReadWrite)
	if err != nil {
		return err
	}
	defer closeFn()

	rec, err := vol.Mkdir(path, time.Now())
	if err != nil {
		return err
	}

	newLogger(cmd).Infof("Created directory %s", rec.Path())
	return closeFn()
}
