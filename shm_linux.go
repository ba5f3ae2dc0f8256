//go:build linux && (amd64 || arm64)

package mailbox

import (
	"os"

	"golang.org/x/sys/unix"
)

func shmGet(key, size int, perm os.FileMode, create bool) (int, error) {
	flags := int(perm.Perm())
	if create {
		flags |= unix.IPC_CREAT
	}
	return unix.SysvShmGet(key, size, flags)
}

func shmAttach(id int) ([]byte, error) {
	return unix.SysvShmAttach(id, 0, 0)
}

func shmDetach(data []byte) error {
	return unix.SysvShmDetach(data)
}

func shmRemove(id int) error {
	_, err := unix.SysvShmCtl(id, unix.IPC_RMID, nil)
	switch err {
	case nil, unix.EINVAL, unix.EIDRM:
		return nil
	default:
		return err
	}
}
