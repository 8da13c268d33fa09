// Package tunnel provides an SSH gateway through which the sender's one
// TCP connection can be forwarded, backed by golang.org/x/crypto/ssh.
package tunnel

import (
	"context"
	"net"
)

// Tunnel abstracts a gateway through which TCP connections can be
// forwarded.
type Tunnel interface {
	// Connect establishes the session with the gateway.
	Connect(ctx context.Context) error

	// Dial opens a connection to address through the gateway.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close tears down the gateway session.
	Close() error

	// IsAlive reports whether the gateway session is still up.
	IsAlive() bool
}
