// Package config defines the parsed command-line arguments for sockyc
// and the helpers that validate them.
package config

import (
	"fmt"
	"regexp"
	"strconv"

	ncerr "github.com/spephton/sockyc/internal/errors"
)

// Arguments is the value the CLI front end produces and the sender
// consumes.  Nothing else carries parser state.
type Arguments struct {
	// ── Target ───────────────────────────────────────────────────────
	Host    string
	Port    int
	Message string
	NoDNS   bool

	// ── SSH gateway ──────────────────────────────────────────────────
	TunnelSpec     string // raw [user@]host[:port] from -T
	TunnelEnabled  bool
	TunnelUser     string
	TunnelHost     string
	TunnelPort     int
	SSHKeyPath     string
	SSHPassword    bool // true → prompt interactively
	UseSSHAgent    bool
	StrictHostKey  bool
	KnownHostsPath string

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
	Stats   bool
}

// Default returns Arguments populated with the built-in defaults.
func Default() *Arguments {
	return &Arguments{
		Port:    DefaultPort,
		Message: DefaultMessage,
	}
}

// ── Port helpers ─────────────────────────────────────────────────────

// ParsePort accepts a decimal string made only of digits whose value is
// in 1–65535.  Signs, whitespace, and hex/octal prefixes are rejected;
// leading zeros are read as decimal.
func ParsePort(s string) (int, error) {
	invalid := &ncerr.ArgError{
		Field:   "--port",
		Value:   s,
		Message: "invalid port",
		Hint:    fmt.Sprintf("use a decimal port between 1 and %d", MaxPort),
	}
	if s == "" {
		return 0, invalid
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, invalid
		}
	}
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > MaxPort {
		return 0, invalid
	}
	return port, nil
}

// ── Tunnel-spec parser ───────────────────────────────────────────────

// tunnelRe matches [user@]host[:port].
var tunnelRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:@]+)(?::(\d+))?$`)

// ParseTunnelSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseTunnelSpec(spec string) (user, host string, port int, err error) {
	m := tunnelRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, &ncerr.ArgError{
			Field:   "--tunnel",
			Value:   spec,
			Message: "invalid gateway",
			Hint:    "expected [user@]host[:port]",
		}
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > MaxPort {
			return "", "", 0, &ncerr.ArgError{
				Field:   "--tunnel",
				Value:   spec,
				Message: fmt.Sprintf("invalid gateway port %q", m[3]),
			}
		}
	}
	return user, host, port, nil
}

// ApplyTunnelSpec parses TunnelSpec (when set) into the Tunnel* fields.
func (a *Arguments) ApplyTunnelSpec() error {
	if a.TunnelSpec == "" {
		return nil
	}
	user, host, port, err := ParseTunnelSpec(a.TunnelSpec)
	if err != nil {
		return err
	}
	a.TunnelEnabled = true
	a.TunnelUser = user
	a.TunnelHost = host
	a.TunnelPort = port
	return nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the arguments are complete and consistent.  The
// message length is checked when the frame is built.
func (a *Arguments) Validate() error {
	if a.Host == "" {
		return &ncerr.ArgError{
			Field:   "HOST",
			Message: "required",
			Hint:    "use --help for usage",
			Err:     ncerr.ErrUsage,
		}
	}
	if a.Port < 1 || a.Port > MaxPort {
		return &ncerr.ArgError{
			Field:   "--port",
			Value:   a.Port,
			Message: "invalid port",
			Hint:    fmt.Sprintf("use a decimal port between 1 and %d", MaxPort),
		}
	}
	if a.TunnelEnabled && a.TunnelHost == "" {
		return &ncerr.ArgError{Field: "--tunnel", Message: "gateway host is required"}
	}
	return nil
}
