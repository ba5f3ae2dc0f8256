package mailbox

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRoundTrip(t *testing.T) {
	var stats Stats
	stats.Add(1500*time.Microsecond, 5)
	stats.Add(500*time.Microsecond, 8)

	started := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	finished := started.Add(3 * time.Second)
	want := NewReport(RoleConsumer, KindSharedMemory, &stats, started, finished)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, want, nil))

	got, err := ReadReport(&buf, MsgpackSerializer{})
	require.NoError(t, err)

	assert.Equal(t, "consumer", got.Role)
	assert.Equal(t, "shm", got.Backend)
	assert.Equal(t, 2, got.Mechanism)
	assert.Equal(t, 2, got.Transfers)
	assert.Equal(t, 13, got.Bytes)
	assert.Equal(t, 2*time.Millisecond, got.IPCTime)
	assert.True(t, started.Equal(got.StartedAt))
	assert.True(t, finished.Equal(got.FinishedAt))
}

func TestReadReportRejectsGarbage(t *testing.T) {
	_, err := ReadReport(bytes.NewReader([]byte{0xc1}), nil)
	assert.Error(t, err)
}
