package transport

import (
	"context"
	"net"
)

// TCPDialer establishes plain TCP connections.  There is no dial
// timeout: a connect blocks until the network stack gives up or ctx is
// cancelled.
type TCPDialer struct{}

// Dial connects to address.  network is normally "tcp4".
func (d *TCPDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	var dialer net.Dialer
	return dialer.DialContext(ctx, network, address)
}

// Close is a no-op for stateless TCP dialers.
func (d *TCPDialer) Close() error { return nil }
