//go:build !linux
// +build !linux

package fuse

import (
	"errors"

	"github.com/ostafen/fatdisk/internal/fat12"
	"github.com/ostafen/fatdisk/internal/logger"
)

func Mount(mountpoint string, vol *fat12.Volume, log *logger.Logger) error {
	return errors.New("FUSE mount is only supported on Linux")
}
