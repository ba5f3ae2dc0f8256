package mailbox

import "bytes"

const (
	// SegmentSize is the size of the shared-memory segment and of the text
	// buffer carried by every queue message.
	SegmentSize = 1024

	// MaxText is the longest text a message can carry; one byte of the buffer
	// is reserved for the terminating NUL.
	MaxText = SegmentSize - 1

	// MessageType is the queue type discriminator stamped on every message.
	MessageType int64 = 1

	// Sentinel is the text that ends a consumer's receive loop.
	Sentinel = "__EXIT__"
)

// Message is one transfer unit. Text never exceeds MaxText bytes.
type Message struct {
	Type int64
	Text string
}

// NewMessage builds a message of MessageType, truncating text to MaxText bytes.
func NewMessage(text string) Message {
	return Message{Type: MessageType, Text: truncateText(text)}
}

// SentinelMessage returns the end-of-stream message.
func SentinelMessage() Message {
	return NewMessage(Sentinel)
}

// IsSentinel reports whether the message carries the end-of-stream text. A
// payload line equal to Sentinel is indistinguishable from a real shutdown.
func (m Message) IsSentinel() bool {
	return m.Text == Sentinel
}

func truncateText(s string) string {
	if len(s) > MaxText {
		return s[:MaxText]
	}
	return s
}

// putText zeroes dst and copies at most MaxText bytes of s into it, leaving
// the remainder NUL.
func putText(dst []byte, s string) {
	clear(dst)
	n := min(len(dst)-1, MaxText)
	if n < 0 {
		return
	}
	copy(dst[:n], s)
}

// getText reads a NUL-terminated string of at most MaxText bytes from src.
func getText(src []byte) string {
	n := min(len(src), MaxText)
	if i := bytes.IndexByte(src[:n], 0); i >= 0 {
		n = i
	}
	return string(src[:n])
}
