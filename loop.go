package mailbox

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// SendLines sends one message per line of r followed by the sentinel. A line
// ends at its first '\r' or '\n'; text beyond MaxText bytes is dropped, so
// lines of any length are accepted. Each transfer's IPC time is added to
// stats. sent, if non-nil, is called after every transfer outside the timed
// region.
func SendLines(mb *Mailbox, r io.Reader, stats *Stats, sent func(Message)) error {
	br := bufio.NewReader(r)

	send := func(msg Message) error {
		elapsed, err := mb.Send(msg)
		if err != nil {
			return err
		}
		stats.Add(elapsed, len(msg.Text))
		if sent != nil {
			sent(msg)
		}
		return nil
	}

	for {
		line, ok, err := readLine(br)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if !ok {
			break
		}
		if err := send(NewMessage(line)); err != nil {
			return err
		}
	}
	return send(SentinelMessage())
}

// readLine returns the next line of br cut at its first '\r' or '\n', keeping
// at most MaxText bytes and discarding the rest. ok is false at end of input.
func readLine(br *bufio.Reader) (line string, ok bool, err error) {
	var kept []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if len(chunk) > 0 {
			ok = true
			if room := MaxText - len(kept); room > 0 {
				kept = append(kept, chunk[:min(room, len(chunk))]...)
			}
		}
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err != nil && !errors.Is(err, io.EOF):
			return "", false, err
		}
		if i := bytes.IndexAny(kept, "\r\n"); i >= 0 {
			kept = kept[:i]
		}
		return string(kept), ok, nil
	}
}

// ReceiveUntilSentinel receives until the sentinel arrives and returns after
// exactly that receive. received, if non-nil, sees every message including
// the sentinel.
func ReceiveUntilSentinel(mb *Mailbox, stats *Stats, received func(Message)) error {
	for {
		msg, elapsed, err := mb.Receive()
		if err != nil {
			return err
		}
		stats.Add(elapsed, len(msg.Text))
		if received != nil {
			received(msg)
		}
		if msg.IsSentinel() {
			return nil
		}
	}
}
