//go:build linux

package facts

import "golang.org/x/sys/unix"

// kernelVersion reads the running kernel release via uname(2).
func kernelVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uts.Release[:])
}
