package mailbox

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned by every IPC operation on platforms without
	// System V IPC and futex support.
	ErrUnsupported = errors.New("mailbox: System V IPC is not supported on this platform")

	// ErrClosed is returned when a mailbox or semaphore is used after Close.
	ErrClosed = errors.New("mailbox: use of closed mailbox")

	// ErrUnknownKind is returned for a backend selector that names neither the
	// message queue nor the shared-memory backend.
	ErrUnknownKind = errors.New("mailbox: unknown backend kind")

	// ErrInvalidSemaphoreName is returned for semaphore names that are empty or
	// contain a path separator after the leading slash.
	ErrInvalidSemaphoreName = errors.New("mailbox: invalid semaphore name")
)

// OpError describes a failed IPC operation. Op names the operation in the
// vocabulary of the underlying system call ("msgget", "shmat", "sem_wait", ...)
// so a diagnostic points at the primitive that failed.
type OpError struct {
	// Op is the failing operation.
	Op string

	// Kind is the backend the operation ran against.
	Kind Kind

	// Err is the underlying error, usually a unix.Errno.
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Kind: kind, Err: err}
}
