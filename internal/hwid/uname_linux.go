//go:build linux

package hwid

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// unameString returns "sysname release" from uname(2).
func unameString() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return runtime.GOOS
	}
	return unix.ByteSliceToString(u.Sysname[:]) + " " + unix.ByteSliceToString(u.Release[:])
}
