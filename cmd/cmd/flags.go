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

	"github.com/ostafen/fatdisk/internal/fat12"
	"github.com/ostafen/fatdisk/internal/image"
	"github.com/ostafen/fatdisk/internal/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	flagLogLevel  = "log-level"
	flagMmap      = "mmap"
	flagPartition = "partition"
	flagSyncFATs  = "sync-fats"
)

// appFs is the host file system seen by every command.
var appFs = afero.NewOsFs()

// readFlags are shared by the commands that never modify the image.
func readFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("read", pflag.ContinueOnError)
	fs.Bool(flagMmap, false, "memory-map the image instead of reading it through the file (unix only)")
	fs.Int(flagPartition, 0, "open the given MBR partition (1-4) instead of the whole image")
	return fs
}

// writeFlags are shared by the commands that modify the image.
func writeFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("write", pflag.ContinueOnError)
	fs.Bool(flagSyncFATs, false, "mirror every FAT update into all the FAT copies")
	fs.Int(flagPartition, 0, "open the given MBR partition (1-4) instead of the whole image")
	return fs
}

func logLevel(cmd *cobra.Command) logger.Level {
	s, _ := cmd.Flags().GetString(flagLogLevel)
	level, err := logger.ParseLevel(s)
	if err != nil {
		return logger.InfoLevel
	}
	return level
}

// newLogger returns the console logger for user-facing progress messages.
func newLogger(cmd *cobra.Command) *logger.Logger {
	return logger.New(cmd.OutOrStdout(), logLevel(cmd))
}

// openVolume opens the image at path and decodes its file system. The
// returned function releases the image.
func openVolume(cmd *cobra.Command, path string, mode image.Mode) (*fat12.Volume, func() error, error) {
	path = image.NormalizeVolumePath(path)

	var (
		dev     fat12.Device
		closeFn func() error
	)

	mapped, _ := cmd.Flags().GetBool(flagMmap)
	if mapped && mode == image.ReadOnly {
		m, err := image.OpenMapped(path)
		if err != nil {
			return nil, nil, err
		}
		dev, closeFn = m, m.Close
	} else {
		img, err := image.Open(appFs, path, mode)
		if err != nil {
			return nil, nil, err
		}
		dev, closeFn = img, img.Close
	}

	if n, _ := cmd.Flags().GetInt(flagPartition); n > 0 {
		part, err := image.OpenPartition(dev, n)
		if err != nil {
			_ = closeFn()
			return nil, nil, err
		}
		dev = part
	}

	sync, _ := cmd.Flags().GetBool(flagSyncFATs)

	vol, err := fat12.Open(dev, fat12.Options{
		SyncFATCopies: sync,
		Logger:        logger.NewSlog(cmd.ErrOrStderr(), logLevel(cmd)),
		Location:      time.Local,
	})
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return vol, closeFn, nil
}
