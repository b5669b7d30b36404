//go:build linux
// +build linux

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
package fuse

import (
	"os"
	"os/signal"
	"syscall"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	"github.com/ostafen/fatdisk/internal/env"
	"github.com/ostafen/fatdisk/internal/fat12"
	"github.com/ostafen/fatdisk/internal/logger"
	osutils "github.com/ostafen/fatdisk/pkg/util/os"
	"github.com/spf13/afero"
)

const maxUnmountRetries = 3

// Mount serves vol read-only at mountpoint until a termination signal
// unmounts it. A missing mountpoint is created and removed afterwards.
func Mount(mountpoint string, vol *fat12.Volume, log *logger.Logger) error {
	created, err := osutils.EnsureDir(afero.NewOsFs(), mountpoint, true)
	if err != nil {
		return err
	}
	if created {
		defer os.Remove(mountpoint)
	}

	c, err := fuse.Mount(
		mountpoint,
		fuse.ReadOnly(),
		fuse.FSName(env.AppName),
		fuse.Subtype("fat12"),
	)
	if err != nil {
		return err
	}
	defer c.Close()

	errc := make(chan error, 1)
	go func() {
		errc <- fusefs.Serve(c, NewVolumeFS(vol))
	}()

	log.Infof("Volume mounted at %s, waiting for termination signal...", mountpoint)
	return waitForUnmount(mountpoint, errc, log)
}

func waitForUnmount(mountpoint string, errc <-chan error, log *logger.Logger) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	attempts := 0
	for {
		select {
		case err := <-errc:
			// unmounted from outside, e.g. with fusermount -u
			return err
		case sig := <-sigc:
			log.Infof("Signal received: %v.", sig)

			attempts++
			if err := fuse.Unmount(mountpoint); err != nil {
				if attempts >= maxUnmountRetries {
					log.Errorf("unable to unmount %s after %d attempts: %s", mountpoint, attempts, err)
					return err
				}
				log.Warnf("Unmount failed: %v. Remaining retries: %d.", err, maxUnmountRetries-attempts)
				continue
			}
			log.Info("Unmounted successfully, exiting.")
			return <-errc
		}
	}
}
