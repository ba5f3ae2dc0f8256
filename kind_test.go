package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"1", KindQueue},
		{"queue", KindQueue},
		{"MSG", KindQueue},
		{"2", KindSharedMemory},
		{" shm ", KindSharedMemory},
		{"shared-memory", KindSharedMemory},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseKind("3")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestKindAndRoleStrings(t *testing.T) {
	assert.Equal(t, "queue", KindQueue.String())
	assert.Equal(t, "shm", KindSharedMemory.String())
	assert.Equal(t, "kind(7)", Kind(7).String())
	assert.Equal(t, "producer", RoleProducer.String())
	assert.Equal(t, "consumer", RoleConsumer.String())
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := Open(DefaultConfig(), Kind(9), RoleProducer)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestOpErrorUnwraps(t *testing.T) {
	base := assert.AnError
	err := opError("msgsnd", KindQueue, base)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "msgsnd", opErr.Op)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "msgsnd (queue)")
	assert.NoError(t, opError("msgsnd", KindQueue, nil))
}
