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

	"github.com/ostafen/fatdisk/internal/image"
	"github.com/ostafen/fatdisk/pkg/util/format"
	"github.com/spf13/cobra"
)

func DefineInfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <image>",
		Short: "Print a summary of a FAT12 image",
		Long: `The 'info' command prints the OEM name and label of the volume, its total and free size,
the number of files it holds and the layout of its allocation tables.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunInfo,
	}

	cmd.Flags().AddFlagSet(readFlags())
	cmd.Flags().BoolP("human", "H", false, "append human readable sizes")
	return cmd
}

func RunInfo(cmd *cobra.Command, args []string) error {
	vol, closeFn, err := openVolume(cmd, args[0], image.ReadOnly)
	if err != nil {
		return err
	}
	defer closeFn()

	st, err := vol.Stats()
	if err != nil {
		return err
	}

	size := func(n int64) string { return fmt.Sprintf("%d bytes", n) }
	if human, _ := cmd.Flags().GetBool("human"); human {
		size = format.FormatSize
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "OS Name: %s\n", st.OEMName)
	fmt.Fprintf(w, "Label of disk: %s\n", st.Label)
	fmt.Fprintf(w, "Total size of the disk: %s\n", size(st.TotalBytes))
	fmt.Fprintf(w, "Free size of the disk: %s\n", size(st.FreeBytes))
	fmt.Fprintln(w, "==================")
	fmt.Fprintf(w, "The number of files in the disk: %d\n\n", st.Files)
	fmt.Fprintln(w, "==================")
	fmt.Fprintf(w, "Number of FAT copies: %d\n", st.FATCopies)
	fmt.Fprintf(w, "Sectors per FAT: %d\n", st.SectorsPerFAT)
	return nil
}
