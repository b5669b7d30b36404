//go:build !unix && !windows

package image

import "github.com/spf13/afero"

func lockFile(f afero.File) (func() error, error) {
	return noUnlock, nil
}
