//go:build linux && (amd64 || arm64)

package mailbox

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// ftok derives a System V key from an existing path and a project id the same
// way the C library does, so keys agree with other programs using ftok(3).
func ftok(path string, projID int) (int, error) {
	if projID&0xff == 0 {
		return -1, fmt.Errorf("project id %#x has no low byte", projID)
	}
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return -1, err
	}
	key := uint32(projID&0xff)<<24 | uint32(st.Dev&0xff)<<16 | uint32(st.Ino&0xffff)
	return int(int32(key)), nil
}
