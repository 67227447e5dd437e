//go:build windows
// +build windows

package hostquery

import "os"

// fileOwner is not derivable from os.FileInfo on Windows; ownership checks
// there use icacls output via Run instead.
func fileOwner(fi os.FileInfo) string {
	return ""
}
