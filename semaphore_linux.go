//go:build linux && (amd64 || arm64)

package mailbox

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// A named semaphore is a small file under /dev/shm mapped MAP_SHARED into
// every process that opens it, laid out like glibc's 64-bit sem_t: the count
// at offset 0, the number of sleeping waiters at offset 4 and the futex
// sharing mode at offset 8. Waiters sleep on the count with a shared
// (non-private) futex so that wakeups cross process boundaries, and a C peer
// using sem_open on the same name does the same.
const (
	semFileSize = 32

	// semSharedMode is glibc's private-word value for a process-shared
	// semaphore. Left at zero, glibc would wait on a private futex.
	semSharedMode = 128

	futexWaitShared = 0 // FUTEX_WAIT without FUTEX_PRIVATE_FLAG
	futexWakeShared = 1 // FUTEX_WAKE without FUTEX_PRIVATE_FLAG
)

type namedSemaphore struct {
	name    string
	mem     []byte
	value   *uint32
	waiters *uint32
}

// OpenSemaphore opens the semaphore called name, creating it with the given
// initial value and permissions if it does not exist yet. Names follow the
// POSIX convention of a single leading slash.
func OpenSemaphore(name string, perm os.FileMode, initial uint32) (Semaphore, error) {
	path, err := semaphorePath(name)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if errors.Is(err, os.ErrNotExist) {
		f, err = createSemaphoreFile(path, perm, initial)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < semFileSize {
		return nil, fmt.Errorf("semaphore %s: file too small (%d bytes)", name, info.Size())
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, semFileSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("semaphore %s: mmap: %w", name, err)
	}

	return &namedSemaphore{
		name:    name,
		mem:     mem,
		value:   (*uint32)(unsafe.Pointer(&mem[0])),
		waiters: (*uint32)(unsafe.Pointer(&mem[4])),
	}, nil
}

// UnlinkSemaphore removes the name of a semaphore. Processes that still have
// it open keep working on their mapping; later opens create a fresh one.
func UnlinkSemaphore(name string) error {
	path, err := semaphorePath(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// createSemaphoreFile initializes the semaphore under a temporary name and
// publishes it with link(2), so a concurrent opener finds either no file or a
// fully initialized one. When another process wins the race its semaphore is
// opened instead.
func createSemaphoreFile(path string, perm os.FileMode, initial uint32) (*os.File, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sem-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	var buf [semFileSize]byte
	binary.NativeEndian.PutUint32(buf[0:4], initial)
	binary.NativeEndian.PutUint32(buf[8:12], semSharedMode)
	if _, err := tmp.Write(buf[:]); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Chmod(perm.Perm()); err != nil {
		tmp.Close()
		return nil, err
	}

	err = unix.Link(tmp.Name(), path)
	if err == nil {
		return tmp, nil
	}
	tmp.Close()
	if !errors.Is(err, unix.EEXIST) {
		return nil, err
	}
	return os.OpenFile(path, os.O_RDWR, 0)
}

func semaphorePath(name string) (string, error) {
	base := strings.TrimPrefix(name, "/")
	if base == "" || strings.ContainsRune(base, '/') {
		return "", fmt.Errorf("%w: %q", ErrInvalidSemaphoreName, name)
	}
	return filepath.Join(semaphoreDir(), "sem."+base), nil
}

// semaphoreDir prefers /dev/shm and falls back to the temporary directory.
func semaphoreDir() string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

func (s *namedSemaphore) Acquire() error {
	_, err := s.acquire(-1)
	return err
}

func (s *namedSemaphore) TryAcquire() (bool, error) {
	if s.mem == nil {
		return false, ErrClosed
	}
	return s.tryDecrement(), nil
}

func (s *namedSemaphore) AcquireTimeout(timeoutMs int) (bool, error) {
	if timeoutMs < 0 {
		timeoutMs = 0
	}
	return s.acquire(time.Duration(timeoutMs) * time.Millisecond)
}

// acquire waits for a positive count. A negative timeout waits forever.
func (s *namedSemaphore) acquire(timeout time.Duration) (bool, error) {
	if s.mem == nil {
		return false, ErrClosed
	}
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		if s.tryDecrement() {
			return true, nil
		}
		remaining := time.Duration(-1)
		if timeout >= 0 {
			remaining = time.Until(deadline)
			if remaining <= 0 {
				return false, nil
			}
		}

		// Registering before the wait closes the lost-wakeup window: a
		// Release that misses the waiter count has already made the count
		// non-zero, and the futex refuses to sleep on a changed value.
		atomic.AddUint32(s.waiters, 1)
		err := futexWait(s.value, 0, remaining)
		atomic.AddUint32(s.waiters, ^uint32(0))
		if err != nil && !errors.Is(err, unix.ETIMEDOUT) {
			return false, fmt.Errorf("semaphore %s: %w", s.name, err)
		}
	}
}

func (s *namedSemaphore) tryDecrement() bool {
	for {
		v := atomic.LoadUint32(s.value)
		if v == 0 {
			return false
		}
		if atomic.CompareAndSwapUint32(s.value, v, v-1) {
			return true
		}
	}
}

func (s *namedSemaphore) Release() error {
	if s.mem == nil {
		return ErrClosed
	}
	atomic.AddUint32(s.value, 1)
	if atomic.LoadUint32(s.waiters) > 0 {
		if err := futexWake(s.value, 1); err != nil {
			return fmt.Errorf("semaphore %s: %w", s.name, err)
		}
	}
	return nil
}

func (s *namedSemaphore) Value() int {
	if s.mem == nil {
		return 0
	}
	return int(atomic.LoadUint32(s.value))
}

func (s *namedSemaphore) Close() error {
	if s.mem == nil {
		return nil
	}
	err := unix.Munmap(s.mem)
	s.mem, s.value, s.waiters = nil, nil, nil
	return err
}

// futexWait sleeps while *addr == val. Spurious returns (value changed,
// interrupted by a signal) report nil; callers re-check their condition. A
// negative timeout sleeps until woken.
func futexWait(addr *uint32, val uint32, timeout time.Duration) error {
	var ts *unix.Timespec
	if timeout >= 0 {
		t := unix.NsecToTimespec(int64(timeout))
		ts = &t
	}
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWaitShared,
		uintptr(val),
		uintptr(unsafe.Pointer(ts)),
		0, 0)
	switch errno {
	case 0, unix.EAGAIN, unix.EINTR:
		return nil
	case unix.ETIMEDOUT:
		return errno
	default:
		return fmt.Errorf("futex wait: %w", errno)
	}
}

func futexWake(addr *uint32, n int) error {
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWakeShared,
		uintptr(n),
		0, 0, 0)
	if errno != 0 {
		return fmt.Errorf("futex wake: %w", errno)
	}
	return nil
}
