//go:build !linux

package hwid

import "runtime"

// unameString approximates uname on platforms without uname(2).
func unameString() string {
	return runtime.GOOS + " " + runtime.GOARCH
}
