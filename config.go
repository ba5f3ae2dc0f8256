package mailbox

import "os"

// Config is the contract both processes of a transfer must agree on: the key
// path and project identifiers that derive the System V keys, and the names
// of the two semaphores. A producer and a consumer built from the same Config
// and launched from the same directory reach the same resources.
type Config struct {
	// KeyPath is the existing path combined with a project identifier to
	// derive a key. Relative paths resolve against the working directory.
	KeyPath string

	// QueueProjID derives the message queue key. Only the low 8 bits are used
	// and they must not be zero.
	QueueProjID int

	// SharedMemoryProjID derives the shared-memory segment key.
	SharedMemoryProjID int

	// SemEmptyName names the semaphore counting free slots (initial value 1).
	SemEmptyName string

	// SemFullName names the semaphore counting pending messages (initial value 0).
	SemFullName string

	// Perm is the permission mode of every created resource.
	Perm os.FileMode
}

// DefaultConfig returns the well-known keys and names.
func DefaultConfig() Config {
	return Config{
		KeyPath:            ".",
		QueueProjID:        0x51,
		SharedMemoryProjID: 0x52,
		SemEmptyName:       "/lab1_sem_empty",
		SemFullName:        "/lab1_sem_full",
		Perm:               0666,
	}
}

func (c Config) projID(kind Kind) int {
	if kind == KindSharedMemory {
		return c.SharedMemoryProjID
	}
	return c.QueueProjID
}
