package mailbox

import (
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Serializer converts between Go values and bytes.
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// MsgpackSerializer is the Serializer used for run reports.
type MsgpackSerializer struct{}

func (MsgpackSerializer) Marshal(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (MsgpackSerializer) Unmarshal(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

// Report summarizes one producer or consumer run.
type Report struct {
	Role       string        `msgpack:"role"`
	Backend    string        `msgpack:"backend"`
	Mechanism  int           `msgpack:"mechanism"`
	Transfers  int           `msgpack:"transfers"`
	Bytes      int           `msgpack:"bytes"`
	IPCTime    time.Duration `msgpack:"ipc_time_ns"`
	StartedAt  time.Time     `msgpack:"started_at"`
	FinishedAt time.Time     `msgpack:"finished_at"`
}

// NewReport captures stats of a finished run.
func NewReport(role Role, kind Kind, stats *Stats, started, finished time.Time) Report {
	return Report{
		Role:       role.String(),
		Backend:    kind.String(),
		Mechanism:  int(kind),
		Transfers:  stats.Count(),
		Bytes:      stats.Bytes(),
		IPCTime:    stats.Total(),
		StartedAt:  started,
		FinishedAt: finished,
	}
}

// WriteReport encodes r to w with s, MessagePack when s is nil.
func WriteReport(w io.Writer, r Report, s Serializer) error {
	if s == nil {
		s = MsgpackSerializer{}
	}
	data, err := s.Marshal(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadReport decodes a report written by WriteReport.
func ReadReport(rd io.Reader, s Serializer) (Report, error) {
	if s == nil {
		s = MsgpackSerializer{}
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return Report{}, err
	}
	var r Report
	if err := s.Unmarshal(data, &r); err != nil {
		return Report{}, err
	}
	return r, nil
}
