//go:build !windows
// +build !windows

package hostquery

import (
	"os"
	"os/user"
	"strconv"
	"syscall"
)

// fileOwner resolves the owning user of a file, falling back to the numeric
// uid when the account cannot be resolved.
func fileOwner(fi os.FileInfo) string {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return ""
	}
	uid := strconv.FormatUint(uint64(st.Uid), 10)
	if u, err := user.LookupId(uid); err == nil {
		return u.Username
	}
	return uid
}
