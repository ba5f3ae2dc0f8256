package mailbox

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// resource is the backend-specific half of a Mailbox. Exactly two types
// implement it, *QueueRef and *SharedMemoryRef; the unexported method keeps
// the set closed.
type resource interface {
	isResource()
}

// Mailbox is one end of an IPC channel bound to a single backend for its
// whole lifetime. Producer and consumer each open their own Mailbox from the
// same Config; the OS resource behind it is shared.
//
// A Mailbox is not safe for concurrent use.
type Mailbox struct {
	kind   Kind
	role   Role
	cfg    Config
	res    resource
	bufs   *bufferPool
	closed bool
}

// Open creates or attaches the resources of the chosen backend. Creation is
// race tolerant: whichever process opens first creates, the other attaches.
func Open(cfg Config, kind Kind, role Role) (*Mailbox, error) {
	m := &Mailbox{kind: kind, role: role, cfg: cfg}

	switch kind {
	case KindQueue:
		q, err := openQueue(cfg)
		if err != nil {
			return nil, err
		}
		m.res = q
		m.bufs = newBufferPool(msgBufSize, 2)
	case KindSharedMemory:
		r, err := openSharedMemory(cfg)
		if err != nil {
			return nil, err
		}
		m.res = r
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	return m, nil
}

// Kind returns the backend the mailbox is bound to.
func (m *Mailbox) Kind() Kind {
	return m.kind
}

// Role returns the side of the transfer this mailbox serves.
func (m *Mailbox) Role() Role {
	return m.role
}

// Queue returns the queue resource when the mailbox uses the queue backend.
func (m *Mailbox) Queue() (*QueueRef, bool) {
	q, ok := m.res.(*QueueRef)
	return q, ok
}

// SharedMemory returns the segment resource when the mailbox uses the
// shared-memory backend.
func (m *Mailbox) SharedMemory() (*SharedMemoryRef, bool) {
	r, ok := m.res.(*SharedMemoryRef)
	return r, ok
}

// Send transfers one message, blocking while the backend has no room for it.
// The returned duration covers the IPC portion of the call only.
func (m *Mailbox) Send(msg Message) (time.Duration, error) {
	if m.closed {
		return 0, ErrClosed
	}
	msg.Text = truncateText(msg.Text)
	if msg.Type < 1 {
		msg.Type = MessageType
	}

	switch r := m.res.(type) {
	case *QueueRef:
		return m.sendQueue(r, msg)
	case *SharedMemoryRef:
		return m.sendSharedMemory(r, msg)
	}
	return 0, ErrUnknownKind
}

// Receive blocks until a message is available and returns it with the time
// spent in the IPC portion of the call. There is no timeout.
func (m *Mailbox) Receive() (Message, time.Duration, error) {
	if m.closed {
		return Message{}, 0, ErrClosed
	}

	switch r := m.res.(type) {
	case *QueueRef:
		return m.receiveQueue(r)
	case *SharedMemoryRef:
		return m.receiveSharedMemory(r)
	}
	return Message{}, 0, ErrUnknownKind
}

// Close releases the mailbox. Both roles detach their own segment mapping;
// only the consumer destroys the queue, the segment and the semaphore names,
// since a producer that removed them could strand undelivered messages.
// Calling Close more than once is a no-op.
func (m *Mailbox) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	switch r := m.res.(type) {
	case *QueueRef:
		if m.role != RoleConsumer {
			return nil
		}
		return opError("msgctl", KindQueue, msgRemove(r.ID))
	case *SharedMemoryRef:
		errs := []error{r.Close()}
		if m.role == RoleConsumer {
			errs = append(errs,
				r.Remove(),
				unlinkSemaphore(m.cfg.SemEmptyName),
				unlinkSemaphore(m.cfg.SemFullName),
			)
		}
		return errors.Join(errs...)
	}
	return nil
}

// Remove destroys the resources of a backend without going through a
// producer/consumer run, for cleaning up after a process that died before
// its teardown. Resources that do not exist are skipped.
func Remove(cfg Config, kind Kind) error {
	key, err := ftok(cfg.KeyPath, cfg.projID(kind))
	if err != nil {
		return opError("ftok", kind, err)
	}

	switch kind {
	case KindQueue:
		id, err := msgGet(key, cfg.Perm, false)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return opError("msgget", kind, err)
		}
		return opError("msgctl", kind, msgRemove(id))
	case KindSharedMemory:
		var errs []error
		id, err := shmGet(key, 0, cfg.Perm, false)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			errs = append(errs, opError("shmget", kind, err))
		default:
			errs = append(errs, opError("shmctl", kind, shmRemove(id)))
		}
		errs = append(errs,
			unlinkSemaphore(cfg.SemEmptyName),
			unlinkSemaphore(cfg.SemFullName),
		)
		return errors.Join(errs...)
	}
	return fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
}

func unlinkSemaphore(name string) error {
	if err := UnlinkSemaphore(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return opError("sem_unlink", KindSharedMemory, err)
	}
	return nil
}
