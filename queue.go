package mailbox

import (
	"encoding/binary"
	"time"
)

// A queue message travels as the native struct msgbuf: a C long type tag
// followed by a SegmentSize text buffer.
const (
	msgTypeSize = 8
	msgBufSize  = msgTypeSize + SegmentSize
)

// QueueRef identifies a System V message queue.
type QueueRef struct {
	// Key is the System V key derived from the config.
	Key int

	// ID is the kernel identifier returned by msgget.
	ID int
}

func (*QueueRef) isResource() {}

func openQueue(cfg Config) (*QueueRef, error) {
	key, err := ftok(cfg.KeyPath, cfg.QueueProjID)
	if err != nil {
		return nil, opError("ftok", KindQueue, err)
	}
	id, err := msgGet(key, cfg.Perm, true)
	if err != nil {
		return nil, opError("msgget", KindQueue, err)
	}
	return &QueueRef{Key: key, ID: id}, nil
}

func (m *Mailbox) sendQueue(q *QueueRef, msg Message) (time.Duration, error) {
	buf := m.bufs.get()
	defer m.bufs.put(buf)

	binary.NativeEndian.PutUint64(buf[:msgTypeSize], uint64(msg.Type))
	putText(buf[msgTypeSize:], msg.Text)

	start := time.Now()
	err := msgSend(q.ID, buf)
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, opError("msgsnd", KindQueue, err)
	}
	return elapsed, nil
}

func (m *Mailbox) receiveQueue(q *QueueRef) (Message, time.Duration, error) {
	buf := m.bufs.get()
	defer m.bufs.put(buf)

	start := time.Now()
	n, err := msgReceive(q.ID, buf)
	elapsed := time.Since(start)
	if err != nil {
		return Message{}, elapsed, opError("msgrcv", KindQueue, err)
	}

	msg := Message{
		Type: int64(binary.NativeEndian.Uint64(buf[:msgTypeSize])),
		Text: getText(buf[msgTypeSize : msgTypeSize+n]),
	}
	return msg, elapsed, nil
}
