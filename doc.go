// Package mailbox transfers text lines between two processes through one of
// two interchangeable System V IPC backends, timing the IPC portion of every
// transfer.
//
// # Backends
//
// A Mailbox is bound to exactly one backend for its lifetime:
//
//   - KindQueue: a System V message queue. Every Send is one msgsnd of a
//     fixed-size text buffer, every Receive one msgrcv. Delivery is FIFO.
//
//   - KindSharedMemory: a SegmentSize System V shared-memory segment used as a
//     single slot. Two named counting semaphores, empty (initially 1) and full
//     (initially 0), hand the slot back and forth: Send waits on empty, writes
//     and posts full; Receive waits on full, reads and posts empty. At most one
//     unread message exists at any time.
//
// Both processes derive the same System V keys from a Config (a path plus a
// project identifier per backend, as ftok(3) does) and name the same
// semaphores, so they must be started from the same directory with the same
// configuration.
//
// # Lifecycle
//
//	cfg := mailbox.DefaultConfig()
//
//	// producer
//	mb, err := mailbox.Open(cfg, mailbox.KindSharedMemory, mailbox.RoleProducer)
//	var stats mailbox.Stats
//	err = mailbox.SendLines(mb, file, &stats, nil)
//	mb.Close() // detaches
//
//	// consumer
//	mb, err := mailbox.Open(cfg, mailbox.KindSharedMemory, mailbox.RoleConsumer)
//	err = mailbox.ReceiveUntilSentinel(mb, &stats, nil)
//	mb.Close() // detaches, removes the segment, unlinks the semaphores
//
// The consumer owns final teardown. A run that dies before Close leaves its
// resources behind; Remove destroys them.
//
// # Messages
//
// Text longer than MaxText bytes is truncated, never rejected. The Sentinel
// text ends a consumer loop; a payload line equal to it is indistinguishable
// from a deliberate end of stream.
//
// # Errors
//
// Nothing in the package terminates the process. Failures come back as
// *OpError values naming the failing primitive and wrapping the errno.
//
// # Platform Support
//
// Linux on amd64 and arm64. Elsewhere every IPC call returns ErrUnsupported.
package mailbox
