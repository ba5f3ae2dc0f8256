//go:build !linux || !(amd64 || arm64)

package mailbox

import "os"

// Every IPC primitive reports ErrUnsupported here; the portable parts of the
// package (messages, stats, reports) keep working.

func ftok(path string, projID int) (int, error) {
	return -1, ErrUnsupported
}

func msgGet(key int, perm os.FileMode, create bool) (int, error) {
	return -1, ErrUnsupported
}

func msgSend(id int, buf []byte) error {
	return ErrUnsupported
}

func msgReceive(id int, buf []byte) (int, error) {
	return 0, ErrUnsupported
}

func msgRemove(id int) error {
	return ErrUnsupported
}

func shmGet(key, size int, perm os.FileMode, create bool) (int, error) {
	return -1, ErrUnsupported
}

func shmAttach(id int) ([]byte, error) {
	return nil, ErrUnsupported
}

func shmDetach(data []byte) error {
	return ErrUnsupported
}

func shmRemove(id int) error {
	return ErrUnsupported
}

// OpenSemaphore is not available on this platform.
func OpenSemaphore(name string, perm os.FileMode, initial uint32) (Semaphore, error) {
	return nil, ErrUnsupported
}

// UnlinkSemaphore is not available on this platform.
func UnlinkSemaphore(name string) error {
	return ErrUnsupported
}
