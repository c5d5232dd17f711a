//go:build !linux

package facts

import "runtime"

// kernelVersion has no portable cross-platform probe; non-Linux builds
// report the Go runtime's OS name instead.
func kernelVersion() string {
	return runtime.GOOS
}
