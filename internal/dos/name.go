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

// Package dos handles the MS-DOS conventions a FAT12 volume is built on:
// 8.3 short names stored in code page 437 and packed 16-bit date/time stamps.
package dos

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const (
	NameLen = 8
	ExtLen  = 3
)

var (
	ErrEmptyName   = errors.New("empty name")
	ErrNameTooLong = errors.New("name does not fit the 8.3 format")
	ErrInvalidChar = errors.New("invalid character in name")
)

// First name bytes with a reserved meaning in a directory slot: free slot
// markers and the "." prefix of the dot entries.
const (
	leadEnd      = 0x00
	leadDeleted  = 0xE5
	leadDeleted2 = 0xEF
	leadDot      = '.'
)

// Name is a space padded, upper-cased 8.3 name exactly as it is stored in a
// directory entry: 8 bytes of name followed by 3 bytes of extension.
type Name [NameLen + ExtLen]byte

// MakeName builds a Name from raw on-disk name and extension fields.
func MakeName(name [NameLen]byte, ext [ExtLen]byte) Name {
	var n Name
	copy(n[:NameLen], name[:])
	copy(n[NameLen:], ext[:])
	return n
}

func (n Name) Base() [NameLen]byte {
	var b [NameLen]byte
	copy(b[:], n[:NameLen])
	return b
}

func (n Name) Ext() [ExtLen]byte {
	var e [ExtLen]byte
	copy(e[:], n[NameLen:])
	return e
}

// String returns the name in NAME.EXT form, with padding removed.
func (n Name) String() string {
	base := strings.TrimRight(decode(n[:NameLen]), " ")
	ext := strings.TrimRight(decode(n[NameLen:]), " ")
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// Padded returns the 12 character "NAME    .EXT" form used by listings.
func (n Name) Padded() string {
	return decode(n[:NameLen]) + "." + decode(n[NameLen:])
}

func decode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(charmap.CodePage437.DecodeByte(c))
	}
	return sb.String()
}

// special characters allowed in short names besides letters and digits.
const special = "_-$~!#%&{}()@'^"

func validChar(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r > 0x7F:
		_, ok := charmap.CodePage437.EncodeRune(r)
		return ok
	}
	return strings.ContainsRune(special, r)
}

// ParseName converts a single path component like "readme.txt" into its
// on-disk 8.3 form.
func ParseName(s string) (Name, error) {
	var n Name
	for i := range n {
		n[i] = ' '
	}

	if s == "" {
		return n, ErrEmptyName
	}

	base, ext, _ := strings.Cut(s, ".")
	if base == "" {
		return n, fmt.Errorf("%w: %q", ErrEmptyName, s)
	}
	if strings.Contains(ext, ".") {
		return n, fmt.Errorf("%w: %q", ErrInvalidChar, s)
	}

	if err := encodeField(n[:NameLen], base); err != nil {
		return n, fmt.Errorf("%w: %q", err, s)
	}
	if err := encodeField(n[NameLen:], ext); err != nil {
		return n, fmt.Errorf("%w: %q", err, s)
	}
	if err := n.Check(); err != nil {
		return n, fmt.Errorf("%w: %q", err, s)
	}
	return n, nil
}

// Check reports whether n can be stored in a directory slot. A name whose
// first byte is a free slot marker would be written as a deleted entry.
func (n Name) Check() error {
	switch n[0] {
	case leadEnd, leadDeleted, leadDeleted2, leadDot, ' ':
		return fmt.Errorf("%w: leading byte 0x%02X", ErrInvalidChar, n[0])
	}
	return nil
}

func encodeField(dst []byte, s string) error {
	i := 0
	for _, r := range strings.ToUpper(s) {
		if i >= len(dst) {
			return ErrNameTooLong
		}
		if !validChar(r) {
			return ErrInvalidChar
		}
		b, _ := charmap.CodePage437.EncodeRune(r)
		dst[i] = b
		i++
	}
	return nil
}

// SplitPath tokenizes a slash separated path such as "/docs/notes.txt" into
// its ordered components. Leading, trailing and repeated slashes are ignored.
// The root path yields an empty slice.
func SplitPath(p string) ([]Name, error) {
	var names []Name
	for _, part := range strings.Split(p, "/") {
		if part == "" {
			continue
		}
		n, err := ParseName(part)
		if err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, nil
}

// JoinPath formats components back to "/A/B.TXT" form.
func JoinPath(names []Name) string {
	if len(names) == 0 {
		return "/"
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.String()
	}
	return "/" + strings.Join(parts, "/")
}
