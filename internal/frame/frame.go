// Package frame builds the single outgoing buffer: the message bytes
// followed by one end-of-transmission byte.
package frame

import (
	"fmt"

	ncerr "github.com/spephton/sockyc/internal/errors"
)

const (
	// MaxSize bounds the whole frame, terminator included.
	MaxSize = 1024

	// MaxPayload is the largest message that fits alongside the terminator.
	MaxPayload = MaxSize - 1

	// Terminator is ASCII EOT, appended after the payload.
	Terminator byte = 0x04
)

// Frame is a length-checked message followed by [Terminator].  The only
// way to get a non-empty Frame is [New].
type Frame []byte

// New copies msg and appends the terminator.  It fails with an
// [ncerr.ArgError] wrapping [ncerr.ErrMessageTooLarge] when the result
// would not fit in [MaxSize] bytes.
func New(msg []byte) (Frame, error) {
	if len(msg)+1 > MaxSize {
		return nil, &ncerr.ArgError{
			Field:   "MESSAGE",
			Value:   fmt.Sprintf("<%d bytes>", len(msg)),
			Message: fmt.Sprintf("data to transmit too large, aborting (max size %d bytes)", MaxSize),
			Hint:    fmt.Sprintf("keep the message at or under %d bytes", MaxPayload),
			Err:     ncerr.ErrMessageTooLarge,
		}
	}
	f := make(Frame, len(msg)+1)
	copy(f, msg)
	f[len(msg)] = Terminator
	return f, nil
}

// Payload returns the message bytes without the terminator.
func (f Frame) Payload() []byte {
	if len(f) == 0 {
		return nil
	}
	return f[:len(f)-1]
}

// Len is the number of bytes that go on the wire.
func (f Frame) Len() int { return len(f) }
