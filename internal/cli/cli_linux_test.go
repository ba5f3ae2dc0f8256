//go:build linux && (amd64 || arm64)

package cli

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/richinsley/mailbox"
	"github.com/richinsley/mailbox/internal/config"
)

// queueConfig points MAILBOX_KEY_PATH at a private directory and returns the
// matching mailbox configuration. The queue is removed when the test ends.
func queueConfig(t *testing.T) mailbox.Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MAILBOX_KEY_PATH", dir)

	cfg := config.Default()
	cfg.IPC.KeyPath = dir
	mcfg := cfg.Mailbox()

	mb, err := mailbox.Open(mcfg, mailbox.KindQueue, mailbox.RoleProducer)
	if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
		t.Skipf("System V IPC unavailable: %v", err)
	}
	require.NoError(t, err)
	require.NoError(t, mb.Close())

	t.Cleanup(func() { _ = mailbox.Remove(mcfg, mailbox.KindQueue) })
	return mcfg
}

func queueID(t *testing.T, cfg mailbox.Config) int {
	t.Helper()
	mb, err := mailbox.Open(cfg, mailbox.KindQueue, mailbox.RoleProducer)
	require.NoError(t, err)
	defer mb.Close()
	q, _ := mb.Queue()
	return q.ID
}

func TestSendThenReceiveOverQueue(t *testing.T) {
	cfg := queueConfig(t)
	before := queueID(t, cfg)

	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("hello\r\nworld\n"), 0o600))
	sendReport := filepath.Join(dir, "send.report")
	recvMetrics := filepath.Join(dir, "receive.prom")

	out, err := run(t, "--verbose", "--report", sendReport, "send", "1", input)
	require.NoError(t, err)
	assert.Contains(t, out, "[sender] hello\n[sender] world\n")
	assert.NotContains(t, out, mailbox.Sentinel)
	assert.Regexp(t, regexp.MustCompile(`Total sending time \(mechanism=1\): \d+\.\d{6} sec`), out)

	f, err := os.Open(sendReport)
	require.NoError(t, err)
	report, err := mailbox.ReadReport(f, nil)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, "producer", report.Role)
	assert.Equal(t, 1, report.Mechanism)
	assert.Equal(t, 3, report.Transfers)

	out, err = run(t, "-v", "--metrics-file", recvMetrics, "receive", "queue")
	require.NoError(t, err)
	assert.Contains(t, out, "[receiver] hello\n[receiver] world\n")
	assert.Regexp(t, regexp.MustCompile(`Total receiving time \(mechanism=1\): \d+\.\d{6} sec`), out)

	metrics, err := os.ReadFile(recvMetrics)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `mailbox_transfers_total{backend="queue",role="consumer"} 3`)

	// The receiver destroyed the queue, so opening again creates a new one.
	assert.NotEqual(t, before, queueID(t, cfg))
}

func TestSendUnreadableInput(t *testing.T) {
	queueConfig(t)

	_, err := run(t, "send", "1", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 2, exitCode(err))
}

func TestCleanRemovesQueue(t *testing.T) {
	cfg := queueConfig(t)
	before := queueID(t, cfg)

	_, err := run(t, "clean", "1")
	require.NoError(t, err)
	assert.NotEqual(t, before, queueID(t, cfg))
}
