//go:build linux && (amd64 || arm64)

package mailbox

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// x/sys/unix has no wrappers for the message queue calls; they are issued
// directly. Syscall (not RawSyscall) lets the runtime hand the P to another
// thread while msgsnd/msgrcv block.

func msgGet(key int, perm os.FileMode, create bool) (int, error) {
	flags := int(perm.Perm())
	if create {
		flags |= unix.IPC_CREAT
	}
	id, _, errno := unix.Syscall(unix.SYS_MSGGET, uintptr(key), uintptr(flags), 0)
	if errno != 0 {
		return -1, errno
	}
	return int(id), nil
}

// msgSend enqueues buf, a native struct msgbuf: an 8-byte type followed by the
// text. It blocks while the queue is full.
func msgSend(id int, buf []byte) error {
	for {
		_, _, errno := unix.Syscall6(unix.SYS_MSGSND,
			uintptr(id),
			uintptr(unsafe.Pointer(&buf[0])),
			uintptr(len(buf)-msgTypeSize),
			0, 0, 0)
		switch errno {
		case 0:
			return nil
		case unix.EINTR:
			continue
		default:
			return errno
		}
	}
}

// msgReceive dequeues the first message of any type into buf and returns the
// length of its text. It blocks while the queue is empty.
func msgReceive(id int, buf []byte) (int, error) {
	for {
		n, _, errno := unix.Syscall6(unix.SYS_MSGRCV,
			uintptr(id),
			uintptr(unsafe.Pointer(&buf[0])),
			uintptr(len(buf)-msgTypeSize),
			0, // msgtyp 0: first message in the queue
			0, 0)
		switch errno {
		case 0:
			return int(n), nil
		case unix.EINTR:
			continue
		default:
			return 0, errno
		}
	}
}

// msgRemove destroys the queue. A queue already removed by the peer is not an
// error.
func msgRemove(id int) error {
	_, _, errno := unix.Syscall(unix.SYS_MSGCTL, uintptr(id), uintptr(unix.IPC_RMID), 0)
	switch errno {
	case 0, unix.EINVAL, unix.EIDRM:
		return nil
	default:
		return errno
	}
}
