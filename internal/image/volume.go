package image

import (
	"runtime"
	"strings"
	"unicode"
)

// NormalizeVolumePath checks if a given path is a Windows volume path
// and normalizes it to \\.\A: format if running on Windows.
// Otherwise, returns the path unchanged.
func NormalizeVolumePath(path string) string {
	if runtime.GOOS != "windows" {
		return path // Only normalize on Windows
	}
	return normalizeVolumePath(path)
}

func normalizeVolumePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.ReplaceAll(path, "/", `\`)
	upper := strings.ToUpper(path)

	// Already a raw volume path like \\.\A:
	if strings.HasPrefix(upper, `\\.\`) {
		return upper
	}

	// "A:" or "A:\", but not "A:\floppy.img"
	if len(upper) >= 2 && upper[1] == ':' && unicode.IsLetter(rune(upper[0])) && (len(upper) == 2 || upper[2:] == `\`) {
		return `\\.\` + upper[:2]
	}

	return path // Not a volume path
}

func isVolumePath(path string) bool {
	return strings.HasPrefix(path, `\\.\`)
}
