package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	ncerr "github.com/spephton/sockyc/internal/errors"
	"github.com/spephton/sockyc/tunnel"
	"github.com/spephton/sockyc/util"
)

// SSHDialer routes connections through an SSH gateway.  The gateway
// session is opened lazily on the first Dial and torn down on Close.
// A failed gateway connect is remembered so later candidates do not
// re-authenticate.
type SSHDialer struct {
	tunnel    tunnel.Tunnel
	config    *tunnel.SSHConfig
	logger    *util.Logger
	mu        sync.Mutex
	connected bool
	connErr   error
}

// NewSSHDialer creates a dialer that forwards connections through an
// SSH gateway.  The gateway is not contacted until the first Dial.
func NewSSHDialer(cfg *tunnel.SSHConfig, logger *util.Logger) *SSHDialer {
	return &SSHDialer{
		tunnel: tunnel.NewSSHTunnel(cfg, logger),
		config: cfg,
		logger: logger,
	}
}

func (d *SSHDialer) connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return nil
	}
	if d.connErr != nil {
		return d.connErr
	}

	d.logger.Info("Opening SSH gateway %s@%s:%d",
		d.config.User, d.config.Host, d.config.Port)

	if err := d.tunnel.Connect(ctx); err != nil {
		d.connErr = fmt.Errorf("gateway: %w", err)
		return d.connErr
	}

	d.connected = true
	d.logger.Debug("SSH gateway established")
	return nil
}

// Dial connects to address through the gateway, opening the gateway
// on the first call.  A session that has since dropped is reported as a
// gateway error so the candidate walk stops.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	if err := d.connect(ctx); err != nil {
		return nil, err
	}
	if !d.tunnel.IsAlive() {
		d.logger.Warn("SSH gateway %s is no longer connected", d.config.Addr())
		return nil, fmt.Errorf("gateway %s: %w", d.config.Addr(), ncerr.ErrNotConnected)
	}
	return d.tunnel.Dial(ctx, network, address)
}

// Close tears down the gateway session.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		d.connected = false
		return d.tunnel.Close()
	}
	return nil
}
