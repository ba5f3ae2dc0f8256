package mailbox

import (
	"fmt"
	"strings"
)

// Kind selects the IPC backend a Mailbox is bound to. The numeric values are
// the mechanism selectors accepted on the command line.
type Kind int

const (
	// KindQueue is the System V message queue backend.
	KindQueue Kind = 1

	// KindSharedMemory is the System V shared-memory backend guarded by the
	// empty/full semaphore pair.
	KindSharedMemory Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindQueue:
		return "queue"
	case KindSharedMemory:
		return "shm"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts "1"/"2" as well as the names "queue", "msg", "shm" and
// "shared-memory".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "queue", "msg", "message-queue":
		return KindQueue, nil
	case "2", "shm", "shared-memory", "sharedmemory":
		return KindSharedMemory, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Role decides which side of a transfer a Mailbox serves. The consumer is
// authoritative for destroying shared resources.
type Role int

const (
	RoleProducer Role = iota
	RoleConsumer
)

func (r Role) String() string {
	if r == RoleConsumer {
		return "consumer"
	}
	return "producer"
}
