package mailbox

import (
	"errors"
	"time"
)

// SharedMemoryRef is an attached SegmentSize segment. Access to it is
// serialized by the empty/full semaphore pair named in the Config.
type SharedMemoryRef struct {
	*SharedMemory
}

func (*SharedMemoryRef) isResource() {}

func openSharedMemory(cfg Config) (*SharedMemoryRef, error) {
	key, err := ftok(cfg.KeyPath, cfg.SharedMemoryProjID)
	if err != nil {
		return nil, opError("ftok", KindSharedMemory, err)
	}
	seg, err := AttachSharedMemory(key, SegmentSize, cfg.Perm)
	if err != nil {
		return nil, err
	}
	return &SharedMemoryRef{SharedMemory: seg}, nil
}

// openSemaphores opens the pair by name for a single transfer. Opening fresh
// each time lets either process start first: whichever opens first creates
// the pair with empty=1, full=0.
func (m *Mailbox) openSemaphores() (empty, full Semaphore, err error) {
	empty, err = OpenSemaphore(m.cfg.SemEmptyName, m.cfg.Perm, 1)
	if err != nil {
		return nil, nil, opError("sem_open", KindSharedMemory, err)
	}
	full, err = OpenSemaphore(m.cfg.SemFullName, m.cfg.Perm, 0)
	if err != nil {
		empty.Close()
		return nil, nil, opError("sem_open", KindSharedMemory, err)
	}
	return empty, full, nil
}

func closeSemaphores(empty, full Semaphore) error {
	return errors.Join(
		opError("sem_close", KindSharedMemory, empty.Close()),
		opError("sem_close", KindSharedMemory, full.Close()),
	)
}

// sendSharedMemory waits for the slot to be free, writes the text and marks
// the slot full.
func (m *Mailbox) sendSharedMemory(r *SharedMemoryRef, msg Message) (elapsed time.Duration, err error) {
	empty, full, err := m.openSemaphores()
	if err != nil {
		return 0, err
	}
	defer func() {
		err = errors.Join(err, closeSemaphores(empty, full))
	}()

	start := time.Now()
	if err := empty.Acquire(); err != nil {
		return time.Since(start), opError("sem_wait", KindSharedMemory, err)
	}
	putText(r.Bytes(), msg.Text)
	if err := full.Release(); err != nil {
		return time.Since(start), opError("sem_post", KindSharedMemory, err)
	}
	return time.Since(start), nil
}

// receiveSharedMemory waits for a pending message, copies it out and marks
// the slot empty.
func (m *Mailbox) receiveSharedMemory(r *SharedMemoryRef) (msg Message, elapsed time.Duration, err error) {
	empty, full, err := m.openSemaphores()
	if err != nil {
		return Message{}, 0, err
	}
	defer func() {
		err = errors.Join(err, closeSemaphores(empty, full))
	}()

	start := time.Now()
	if err := full.Acquire(); err != nil {
		return Message{}, time.Since(start), opError("sem_wait", KindSharedMemory, err)
	}
	msg = Message{Type: MessageType, Text: getText(r.Bytes())}
	if err := empty.Release(); err != nil {
		return Message{}, time.Since(start), opError("sem_post", KindSharedMemory, err)
	}
	return msg, time.Since(start), nil
}
