// Package errors provides domain-specific error types for sockyc.
//
// Every failure the sender can produce falls into one of four kinds
// (invalid argument, resolution, connection, transmission), plus SSH
// gateway failures when a tunnel is in use.  The types carry enough
// context (operation, address, bytes already written) for the CLI to
// print a useful one-line message and pick an exit status.
package errors

import (
	"errors"
	"fmt"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrMessageTooLarge = errors.New("data to transmit too large")
	ErrNoCandidates    = errors.New("no IPv4 address")
	ErrDNSDisabled     = errors.New("DNS disabled with -n")
	ErrNotConnected    = errors.New("not connected")
	ErrUsage           = errors.New("usage")
)

// ── Kinds ────────────────────────────────────────────────────────────

// Kind classifies an error for reporting and exit-status selection.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindResolution
	KindConnection
	KindTransmission
	KindGateway
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindResolution:
		return "resolution"
	case KindConnection:
		return "connection"
	case KindTransmission:
		return "transmission"
	case KindGateway:
		return "gateway"
	default:
		return "unknown"
	}
}

// ── Structured error types ───────────────────────────────────────────

// ArgError represents an invalid command-line argument or input value.
type ArgError struct {
	Field   string      // "--port", "HOST", "MESSAGE", ...
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
	Err     error       // optional sentinel, e.g. ErrMessageTooLarge
}

func (e *ArgError) Error() string {
	msg := e.Field
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

func (e *ArgError) Unwrap() error { return e.Err }

// ResolveError is a name-lookup failure.  No socket has been opened
// when one of these is returned.
type ResolveError struct {
	Host string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Host, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// NetworkError represents a failure on the connect or send path.
type NetworkError struct {
	Op   string // "connect" or "send"
	Addr string // network address involved
	Err  error  // underlying error
	Sent int    // bytes written before a send failure
}

func (e *NetworkError) Error() string {
	s := fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	if e.Op == "send" && e.Sent > 0 {
		s += fmt.Sprintf(" (%d bytes sent)", e.Sent)
	}
	return s
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SSHError represents an SSH gateway failure with host context.
type SSHError struct {
	Op   string // "auth", "hostkey", "dial", "handshake"
	Host string
	Port int
	Err  error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("ssh %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *SSHError) Unwrap() error { return e.Err }

// ── Constructors ─────────────────────────────────────────────────────

// Connect wraps a failure to connect to addr.
func Connect(addr string, err error) *NetworkError {
	return &NetworkError{Op: "connect", Addr: addr, Err: err}
}

// Send wraps a write failure on an established connection after sent
// bytes had already gone out.
func Send(addr string, sent int, err error) *NetworkError {
	return &NetworkError{Op: "send", Addr: addr, Err: err, Sent: sent}
}

// WrapSSH creates an SSHError.
func WrapSSH(op, host string, port int, err error) *SSHError {
	return &SSHError{Op: op, Host: host, Port: port, Err: err}
}

// Usage returns an ArgError for a malformed command line.
func Usage(msg string) *ArgError {
	return &ArgError{Field: "usage", Message: msg, Err: ErrUsage}
}

// ── Classification helpers ───────────────────────────────────────────

// KindOf reports which kind err belongs to.  SSH failures are checked
// first because they surface through the connect path.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var sshErr *SSHError
	if errors.As(err, &sshErr) {
		return KindGateway
	}
	var argErr *ArgError
	if errors.As(err, &argErr) {
		return KindInvalidArgument
	}
	var resErr *ResolveError
	if errors.As(err, &resErr) {
		return KindResolution
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		switch netErr.Op {
		case "connect":
			return KindConnection
		case "send":
			return KindTransmission
		}
	}
	return KindUnknown
}

// IsGateway reports whether err came from the SSH gateway rather than
// the destination.
func IsGateway(err error) bool {
	var sshErr *SSHError
	return errors.As(err, &sshErr) || errors.Is(err, ErrNotConnected)
}

// SentBytes returns the partial byte count carried by a send failure,
// or 0.
func SentBytes(err error) int {
	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr.Op == "send" {
		return netErr.Sent
	}
	return 0
}
