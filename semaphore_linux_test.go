//go:build linux && (amd64 || arm64)

package mailbox

import (
	"encoding/binary"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSemaphore(t *testing.T, name string, initial uint32) Semaphore {
	t.Helper()
	sem, err := OpenSemaphore(name, 0600, initial)
	require.NoError(t, err)
	t.Cleanup(func() {
		sem.Close()
		_ = UnlinkSemaphore(name)
	})
	return sem
}

func TestSemaphoreInitialValue(t *testing.T) {
	sem := openTestSemaphore(t, uniqueName("init"), 1)
	assert.Equal(t, 1, sem.Value())

	ok, err := sem.TryAcquire()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sem.TryAcquire()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, sem.Release())
	assert.Equal(t, 1, sem.Value())
}

func TestSemaphoreOpenExistingKeepsCount(t *testing.T) {
	name := uniqueName("existing")
	first := openTestSemaphore(t, name, 0)
	require.NoError(t, first.Release())
	require.NoError(t, first.Release())

	second := openTestSemaphore(t, name, 5)
	assert.Equal(t, 2, second.Value(), "initial value only applies on creation")
}

func TestSemaphoreUnlinkStartsFresh(t *testing.T) {
	name := uniqueName("unlink")
	sem := openTestSemaphore(t, name, 0)
	require.NoError(t, sem.Release())

	require.NoError(t, UnlinkSemaphore(name))
	require.NoError(t, sem.Release(), "an unlinked semaphore stays usable through open handles")

	fresh := openTestSemaphore(t, name, 3)
	assert.Equal(t, 3, fresh.Value())
	assert.Equal(t, 2, sem.Value())
}

func TestSemaphoreAcquireTimeout(t *testing.T) {
	sem := openTestSemaphore(t, uniqueName("timeout"), 0)

	start := time.Now()
	ok, err := sem.AcquireTimeout(50)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)

	require.NoError(t, sem.Release())
	ok, err = sem.AcquireTimeout(50)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSemaphoreReleaseWakesWaiter(t *testing.T) {
	name := uniqueName("wake")
	waiter := openTestSemaphore(t, name, 0)
	poster := openTestSemaphore(t, name, 0)

	acquired := make(chan error, 1)
	go func() {
		acquired <- waiter.Acquire()
	}()

	select {
	case <-acquired:
		t.Fatal("acquire returned on a zero semaphore")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, poster.Release())
	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter was not woken by release through another handle")
	}
	assert.Equal(t, 0, poster.Value())
}

// TestSemaphorePairAlternates runs the empty/full handshake between two
// goroutines with separate handles and checks the pair never holds more than
// one token.
func TestSemaphorePairAlternates(t *testing.T) {
	emptyName, fullName := uniqueName("pair_empty"), uniqueName("pair_full")
	pEmpty := openTestSemaphore(t, emptyName, 1)
	pFull := openTestSemaphore(t, fullName, 0)
	cEmpty := openTestSemaphore(t, emptyName, 1)
	cFull := openTestSemaphore(t, fullName, 0)

	const rounds = 500
	// The handshake runs through two separate mappings of each semaphore,
	// which the race detector cannot relate, so the slot itself is atomic.
	var slot atomic.Int64
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 1; i <= rounds; i++ {
			if err := pEmpty.Acquire(); err != nil {
				t.Error(err)
				return
			}
			slot.Store(int64(i))
			if err := pFull.Release(); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	var got []int
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := cFull.Acquire(); err != nil {
				t.Error(err)
				return
			}
			got = append(got, int(slot.Load()))
			if sum := cEmpty.Value() + cFull.Value(); sum > 1 {
				t.Errorf("empty+full = %d, want at most 1", sum)
			}
			if err := cEmpty.Release(); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	wg.Wait()
	require.Len(t, got, rounds)
	for i, v := range got {
		assert.Equal(t, i+1, v)
	}
}

func TestSemaphoreClosed(t *testing.T) {
	name := uniqueName("closed")
	sem, err := OpenSemaphore(name, 0600, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = UnlinkSemaphore(name) })

	require.NoError(t, sem.Close())
	require.NoError(t, sem.Close())

	assert.ErrorIs(t, sem.Acquire(), ErrClosed)
	assert.ErrorIs(t, sem.Release(), ErrClosed)
	_, err = sem.TryAcquire()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSemaphoreInvalidNames(t *testing.T) {
	for _, name := range []string{"", "/", "/a/b"} {
		_, err := OpenSemaphore(name, 0600, 0)
		assert.ErrorIs(t, err, ErrInvalidSemaphoreName, "name %q", name)
	}
}

func TestSemaphoreFileLayout(t *testing.T) {
	name := uniqueName("layout")
	sem := openTestSemaphore(t, name, 3)
	require.NoError(t, sem.Release())

	path, err := semaphorePath(name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Len(t, data, semFileSize)
	assert.Equal(t, uint32(4), binary.NativeEndian.Uint32(data[0:4]), "count")
	assert.Equal(t, uint32(0), binary.NativeEndian.Uint32(data[4:8]), "waiters")
	assert.Equal(t, uint32(semSharedMode), binary.NativeEndian.Uint32(data[8:12]), "sharing mode")
}
