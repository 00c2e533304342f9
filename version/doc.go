// Package version reports build information of the signup binary.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/signup/version.Version=1.2.0" ./cmd/signup
//
// Missing values fall back to the VCS stamp embedded by the Go toolchain.
package version
