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
	"github.com/ostafen/fatdisk/internal/fat12"
	"github.com/ostafen/fatdisk/internal/image"
	"github.com/ostafen/fatdisk/pkg/util/format"
	"github.com/spf13/cobra"
)

func DefineMkfsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkfs <image>",
		Short: "Create a blank 1.44 MB FAT12 floppy image",
		Long: `The 'mkfs' command writes a new floppy image holding an empty FAT12 file system:
a boot sector, two allocation tables and an empty root directory. The image file must not exist.
With --mbr the file system is placed in the first partition of a partitioned disk image,
to be opened later with --partition 1.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunMkfs,
	}

	cmd.Flags().StringP("label", "l", "", "volume label, up to 11 characters")
	cmd.Flags().String("oem", "", "OEM name stored in the boot sector, up to 8 characters")
	cmd.Flags().Uint32("volume-id", 0, "volume serial number (derived from the current time when zero)")
	cmd.Flags().Bool("mbr", false, "write a master boot record and format its first partition")
	return cmd
}

func RunMkfs(cmd *cobra.Command, args []string) error {
	label, _ := cmd.Flags().GetString("label")
	oem, _ := cmd.Flags().GetString("oem")
	volumeID, _ := cmd.Flags().GetUint32("volume-id")
	withMBR, _ := cmd.Flags().GetBool("mbr")

	img, err := image.Create(appFs, args[0])
	if err != nil {
		return err
	}
	defer img.Close()

	var dev fat12.Device = img
	if withMBR {
		if dev, err = image.WritePartitioned(img, fat12.FloppyImageSize); err != nil {
			return err
		}
	}

	err = fat12.Format(dev, fat12.FormatOptions{
		OEMName:  oem,
		Label:    label,
		VolumeID: volumeID,
	})
	if err != nil {
		return err
	}

	newLogger(cmd).Infof("Created %s (%s)", args[0], format.FormatBytes(fat12.FloppyImageSize))
	return img.Close()
}
