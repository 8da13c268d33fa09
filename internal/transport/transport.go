// Package transport provides the two network primitives the sender is
// built from: resolving a host into IPv4 candidates, and opening one
// connection to a candidate.  Dialers handle the "how" of reaching the
// destination (directly, or through an SSH gateway) independent of what
// is written once connected.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.  Implementations include
// a plain TCP dialer and an SSH-tunnelled dialer that routes traffic
// through a gateway.
type Dialer interface {
	// Dial establishes a connection to the given network address.  A
	// failed Dial leaves no socket open.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH session).  Stateless dialers return nil.
	Close() error
}

// Resolver turns a host name or literal into an ordered list of IPv4
// candidate addresses.
type Resolver interface {
	LookupIPv4(ctx context.Context, host string) ([]net.IP, error)
}
