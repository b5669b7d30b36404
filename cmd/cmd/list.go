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

	"github.com/ostafen/fatdisk/internal/dos"
	"github.com/ostafen/fatdisk/internal/env"
	"github.com/ostafen/fatdisk/internal/fat12"
	"github.com/ostafen/fatdisk/internal/image"
	"github.com/ostafen/fatdisk/pkg/dfxml"
	osutils "github.com/ostafen/fatdisk/pkg/util/os"
	"github.com/spf13/cobra"
)

func DefineListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <image>",
		Short: "List every file and directory of a FAT12 image",
		Long: `The 'list' command walks the directory tree breadth first and prints, for each directory,
its entries with type (D or F), size, name and creation date.
With --report, a DFXML document describing the byte runs of every file is written as well.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunList,
	}

	cmd.Flags().AddFlagSet(readFlags())
	cmd.Flags().StringP("report", "r", "", "write a DFXML report of the volume to the given file")
	return cmd
}

func RunList(cmd *cobra.Command, args []string) error {
	vol, closeFn, err := openVolume(cmd, args[0], image.ReadOnly)
	if err != nil {
		return err
	}
	defer closeFn()

	var report *dfxml.Writer
	if path, _ := cmd.Flags().GetString("report"); path != "" {
		f, err := osutils.CreateExclusive(appFs, path, true)
		if err != nil {
			return err
		}
		defer f.Close()

		report = dfxml.NewWriter(f)
		if err := report.WriteHeader(reportHeader(vol, args[0])); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()

	var visitErr error
	err = vol.Walk(fat12.WalkOptions{
		IncludeDirs: true,
		EnterDir: func(path string) {
			fmt.Fprintf(w, "%s\n==================\n", path)
		},
	}, func(rec *fat12.Record) bool {
		printRecord(w, rec)

		if report != nil {
			visitErr = writeFileObject(report, vol, rec)
		}
		return visitErr == nil
	})
	if err != nil {
		return err
	}
	if visitErr != nil {
		return visitErr
	}

	if report != nil {
		return report.Close()
	}
	return nil
}

func printRecord(w io.Writer, rec *fat12.Record) {
	kind := 'F'
	if rec.IsDir() {
		kind = 'D'
	}

	fmt.Fprintf(w, "%c %10d %s %d-%d-%d %02d:%02d\n",
		kind,
		rec.Size(),
		rec.ShortName().Padded(),
		dos.Year(rec.CreateDate),
		dos.Month(rec.CreateDate),
		dos.Day(rec.CreateDate),
		dos.Hour(rec.CreateTime),
		dos.Minute(rec.CreateTime),
	)
}

func reportHeader(vol *fat12.Volume, imagePath string) dfxml.Header {
	boot := vol.Boot()
	label, _ := vol.Label()

	return dfxml.Header{
		Metadata: dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              env.AppName,
			Version:              env.Version,
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: dfxml.Source{
			ImageFilename: imagePath,
			SectorSize:    int(boot.BytesPerSector),
			ImageSize:     uint64(boot.TotalSectors) * uint64(boot.BytesPerSector),
		},
		Volume: &dfxml.Volume{
			FTypeStr:         boot.FileSystemType(),
			BlockSize:        vol.ClusterSize(),
			BlockCount:       vol.Geometry().ClusterCount(boot),
			VolumeLabel:      label,
			FirstBlockOffset: uint64(vol.Geometry().ClusterOffset(boot, 2)),
		},
	}
}

func writeFileObject(w *dfxml.Writer, vol *fat12.Volume, rec *fat12.Record) error {
	obj := dfxml.FileObject{
		Filename: rec.Path(),
		NameType: "r",
		FileSize: uint64(rec.Size()),
		Mtime:    dfxml.FormatTime(rec.Modified()),
		Crtime:   dfxml.FormatTime(rec.Created()),
	}

	if rec.IsDir() {
		obj.NameType = "d"
		return w.WriteFileObject(obj)
	}

	f, err := vol.Open(rec)
	if err != nil {
		return err
	}

	for _, run := range vol.Runs(f) {
		obj.ByteRuns.Runs = append(obj.ByteRuns.Runs, dfxml.ByteRun{
			Offset:    uint64(run.FileOffset),
			ImgOffset: uint64(run.ImgOffset),
			Length:    uint64(run.Length),
		})
	}
	return w.WriteFileObject(obj)
}
