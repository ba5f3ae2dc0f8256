package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsAccumulates(t *testing.T) {
	var s Stats
	assert.Zero(t, s.Total())
	assert.Zero(t, s.Count())

	prev := s.Total()
	for _, d := range []time.Duration{time.Millisecond, 0, 3 * time.Microsecond, -time.Second} {
		s.Add(d, 4)
		assert.GreaterOrEqual(t, s.Total(), prev)
		prev = s.Total()
	}

	assert.Equal(t, time.Millisecond+3*time.Microsecond, s.Total())
	assert.Equal(t, 4, s.Count())
	assert.Equal(t, 16, s.Bytes())
	assert.InDelta(t, 0.001003, s.Seconds(), 1e-9)
}

func TestStatsObserve(t *testing.T) {
	var seen []time.Duration
	var sizes []int
	s := Stats{Observe: func(d time.Duration, n int) {
		seen = append(seen, d)
		sizes = append(sizes, n)
	}}

	s.Add(2*time.Millisecond, 5)
	s.Add(-time.Millisecond, 8)

	assert.Equal(t, []time.Duration{2 * time.Millisecond, 0}, seen)
	assert.Equal(t, []int{5, 8}, sizes)
}
