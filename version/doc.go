// Package version reports the build version of a poolfetch binary.
//
// Values are set at link time and fall back to the module build info:
//
//	go build -ldflags "-X github.com/kbukum/poolfetch/version.Version=1.4.0"
package version
