// Package env holds build information, set at link time with
//
//	go build -ldflags "-X github.com/ostafen/fatdisk/internal/env.Version=v1.0.0"
package env

const AppName = "fatdisk"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
