package mailbox

import "time"

// Stats accumulates the IPC-only time of a sequence of transfers. The caller
// owns it; nothing in the package keeps a process-wide total.
//
// Stats is not safe for concurrent use.
type Stats struct {
	total time.Duration
	count int
	bytes int

	// Observe, when set, is called for every recorded transfer with its
	// elapsed time and text length.
	Observe func(elapsed time.Duration, size int)
}

// Add records one transfer. Negative durations are clamped to zero so the
// total never decreases.
func (s *Stats) Add(elapsed time.Duration, size int) {
	if elapsed < 0 {
		elapsed = 0
	}
	s.total += elapsed
	s.count++
	s.bytes += size
	if s.Observe != nil {
		s.Observe(elapsed, size)
	}
}

// Total returns the cumulative IPC time.
func (s *Stats) Total() time.Duration {
	return s.total
}

// Seconds returns Total in seconds.
func (s *Stats) Seconds() float64 {
	return s.total.Seconds()
}

// Count returns the number of recorded transfers, sentinel included.
func (s *Stats) Count() int {
	return s.count
}

// Bytes returns the sum of the recorded text lengths.
func (s *Stats) Bytes() int {
	return s.bytes
}
