package core

import (
	"context"
	"io"
	"net"

	ncerr "github.com/spephton/sockyc/internal/errors"
	"github.com/spephton/sockyc/internal/frame"
	"github.com/spephton/sockyc/internal/metrics"
	"github.com/spephton/sockyc/internal/transport"
	"github.com/spephton/sockyc/util"
)

// SendMode resolves Host, connects to the first IPv4 candidate that
// accepts, writes Message followed by the terminator byte, and closes.
// Nothing is read back.  A SendMode is used for exactly one Send.
type SendMode struct {
	Resolver transport.Resolver
	Dialer   transport.Dialer
	Host     string
	Port     int
	Message  []byte
	Logger   *util.Logger
	Metrics  *metrics.Collector // may be nil
}

// Run performs the send and discards the byte count.
func (m *SendMode) Run(ctx context.Context) error {
	_, err := m.Send(ctx)
	return err
}

// Send returns the number of bytes written, terminator included.  On a
// transmission error the count is the partial number written before the
// failure.  The connection, once established, is closed on every path.
func (m *SendMode) Send(ctx context.Context) (int, error) {
	defer m.Dialer.Close()

	f, err := frame.New(m.Message)
	if err != nil {
		return 0, m.fail(err)
	}
	m.Logger.Debug("send %s: %d-byte message, %d-byte frame for %s",
		m.Metrics.SendID(), len(f.Payload()), f.Len(), util.FormatAddr(m.Host, m.Port))

	ips, err := m.Resolver.LookupIPv4(ctx, m.Host)
	if err != nil {
		return 0, m.fail(err)
	}
	m.Metrics.Resolved(len(ips))

	conn, addr, err := m.connect(ctx, ips)
	if err != nil {
		return 0, m.fail(err)
	}
	defer conn.Close()
	m.Metrics.Connected()

	n, err := writeFull(conn, f)
	m.Metrics.BytesSent(n)
	if err != nil {
		return n, m.fail(ncerr.Send(addr, n, err))
	}

	m.Logger.Info("successfully sent %d bytes!", n)
	return n, nil
}

// connect tries each candidate in order and returns the first
// connection that succeeds.  A gateway failure stops the walk since no
// other candidate can do better.
func (m *SendMode) connect(ctx context.Context, ips []net.IP) (net.Conn, string, error) {
	target := util.FormatAddr(m.Host, m.Port)
	lastErr := ncerr.ErrNoCandidates

	for _, ip := range ips {
		addr := util.FormatAddr(ip.String(), m.Port)
		m.Logger.Info("Connecting to %s", ip)
		m.Metrics.ConnectAttempt()

		conn, err := m.Dialer.Dial(ctx, "tcp4", addr)
		if err == nil {
			if m.Logger.Enabled(util.LogDebug) {
				m.Logger.Debug("connected %s -> %s", conn.LocalAddr(), conn.RemoteAddr())
			}
			return conn, addr, nil
		}

		m.Metrics.ConnectFailed()
		m.Logger.Debug("connect %s: %v", addr, err)
		if ncerr.IsGateway(err) {
			return nil, addr, err
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, target, ncerr.Connect(target, lastErr)
}

func (m *SendMode) fail(err error) error {
	m.Metrics.RecordError(ncerr.KindOf(err).String(), err.Error())
	return err
}

// writeFull writes all of p, looping over short writes.
func writeFull(w io.Writer, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := w.Write(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}
