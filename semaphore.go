package mailbox

// Semaphore is a named counting semaphore shared between processes.
//
// Open one with OpenSemaphore; every process must use the same name. The
// first opener creates it with the given initial value, later openers see
// the current count. A semaphore lives until UnlinkSemaphore removes its name.
//
// Example:
//
//	sem, _ := mailbox.OpenSemaphore("/my_sem", 0666, 1)
//	defer sem.Close()
//
//	sem.Acquire()
//	// critical section
//	sem.Release()
type Semaphore interface {
	// Acquire blocks until the semaphore can be decremented.
	Acquire() error

	// Release increments the semaphore, waking one waiter if any.
	Release() error

	// TryAcquire decrements the semaphore if it is positive and reports
	// whether it did.
	TryAcquire() (bool, error)

	// AcquireTimeout is Acquire bounded by timeoutMs milliseconds. It returns
	// false when the timeout elapsed.
	AcquireTimeout(timeoutMs int) (bool, error)

	// Value returns the current count.
	Value() int

	// Close releases the local reference. The named semaphore persists.
	Close() error
}
