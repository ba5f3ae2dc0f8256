//go:build linux && (amd64 || arm64)

package mailbox

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

var testSeq atomic.Int64

// uniqueName returns a semaphore name no other test in this run uses.
func uniqueName(prefix string) string {
	return fmt.Sprintf("/mailbox_test_%s_%d_%d", prefix, os.Getpid(), testSeq.Add(1))
}

// testConfig derives keys from a private directory so tests never meet each
// other's queues or segments, and removes whatever the test left behind.
func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.KeyPath = t.TempDir()
	cfg.SemEmptyName = uniqueName("empty")
	cfg.SemFullName = uniqueName("full")
	cfg.Perm = 0600
	t.Cleanup(func() {
		_ = Remove(cfg, KindQueue)
		_ = Remove(cfg, KindSharedMemory)
	})
	return cfg
}

func skipIfUnavailable(t *testing.T, err error) {
	t.Helper()
	if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
		t.Skipf("System V IPC unavailable: %v", err)
	}
}

func openPair(t *testing.T, cfg Config, kind Kind) (producer, consumer *Mailbox) {
	t.Helper()
	producer, err := Open(cfg, kind, RoleProducer)
	skipIfUnavailable(t, err)
	require.NoError(t, err)

	consumer, err = Open(cfg, kind, RoleConsumer)
	require.NoError(t, err)

	t.Cleanup(func() {
		producer.Close()
		consumer.Close()
	})
	return producer, consumer
}

var kinds = []Kind{KindQueue, KindSharedMemory}
