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
package dfxml

import (
	"encoding/xml"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"time"
)

const XmlOutputVersion = "1.1"

// TimeLayout is the ISO 8601 layout used for every timestamp in a report.
const TimeLayout = "2006-01-02T15:04:05Z07:00"

var DefaultMetadata = Metadata{
	Xmlns:    "http://www.forensicswiki.org/wiki/Category:Digital_Forensics_XML",
	XmlnsXsi: "http://www.w3.org/2001/XMLSchema-instance",
	XmlnsDC:  "http://purl.org/dc/elements/1.1/",
	Type:     "File System Listing",
}

// Header is the preamble of a report, written before any file object.
type Header struct {
	XMLName   xml.Name `xml:"dfxml"`
	XmlOutput string   `xml:"xmloutputversion,attr,omitempty"`
	Metadata  Metadata `xml:"metadata"`
	Creator   Creator  `xml:"creator"`
	Source    Source   `xml:"source"`
	Volume    *Volume  `xml:"volume,omitempty"`
}

type Metadata struct {
	Xmlns    string `xml:"xmlns,attr"`
	XmlnsXsi string `xml:"xmlns:xsi,attr"`
	XmlnsDC  string `xml:"xmlns:dc,attr"`
	Type     string `xml:"dc:type"`
}

// Creator describes the program that wrote the report.
type Creator struct {
	Package              string  `xml:"package"`
	Version              string  `xml:"version"`
	ExecutionEnvironment ExecEnv `xml:"execution_environment"`
}

type ExecEnv struct {
	OS    string `xml:"os_sysname"`
	Host  string `xml:"host"`
	Arch  string `xml:"arch"`
	UID   int    `xml:"uid"`
	Start string `xml:"start_time"`
}

// Source identifies the image the report was produced from.
type Source struct {
	ImageFilename string `xml:"image_filename"`
	SectorSize    int    `xml:"sectorsize"`
	ImageSize     uint64 `xml:"image_size"`
}

// Volume carries the file system parameters of the listed volume.
type Volume struct {
	FTypeStr         string `xml:"ftype_str"`
	BlockSize        int    `xml:"block_size"`
	BlockCount       int    `xml:"block_count"`
	AllocatedBlocks  int    `xml:"allocated_only,omitempty"`
	VolumeLabel      string `xml:"volume_label,omitempty"`
	PartitionOffset  uint64 `xml:"partition_offset"`
	FirstBlockOffset uint64 `xml:"first_block_offset"`
}

// FileObject is a single file or directory of the listed volume.
type FileObject struct {
	XMLName  xml.Name `xml:"fileobject"`
	Filename string   `xml:"filename"`
	NameType string   `xml:"name_type,omitempty"`
	FileSize uint64   `xml:"filesize"`
	Mtime    string   `xml:"mtime,omitempty"`
	Crtime   string   `xml:"crtime,omitempty"`
	ByteRuns ByteRuns `xml:"byte_runs"`
}

type ByteRuns struct {
	Runs []ByteRun `xml:"byte_run"`
}

// ByteRun describes a contiguous extent of a file inside the image.
type ByteRun struct {
	Offset    uint64 `xml:"offset,attr"`     // offset within the file
	ImgOffset uint64 `xml:"img_offset,attr"` // offset within the image
	Length    uint64 `xml:"len,attr"`
}

// FormatTime renders t the way timestamps appear in a report.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// GetExecEnv describes the running process.
func GetExecEnv() ExecEnv {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown_host"
	}

	uid := 0
	if u, err := user.Current(); err == nil {
		if n, err := strconv.Atoi(u.Uid); err == nil {
			uid = n
		}
	}

	return ExecEnv{
		OS:    runtime.GOOS,
		Host:  host,
		Arch:  runtime.GOARCH,
		UID:   uid,
		Start: FormatTime(time.Now().UTC()),
	}
}
