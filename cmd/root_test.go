package cmd

import (
	"bytes"
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ncerr "github.com/spephton/sockyc/internal/errors"
	"github.com/spephton/sockyc/internal/metrics"
	"github.com/spephton/sockyc/util"
)

func runCapture(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

// listen starts a one-shot sink and returns its port and what it read.
func listen(t *testing.T) (string, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	ch := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		ch <- data
	}()
	return strconv.Itoa(ln.Addr().(*net.TCPAddr).Port), ch
}

func received(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case got := <-ch:
		return got
	case <-time.After(3 * time.Second):
		require.FailNow(t, "timeout waiting for data")
		return nil
	}
}

// ── help / version ───────────────────────────────────────────────────

func TestRun_Version(t *testing.T) {
	for _, flag := range []string{"--version", "-V"} {
		t.Run(flag, func(t *testing.T) {
			out, _, err := runCapture(t, flag)
			require.NoError(t, err)
			assert.Equal(t, "sockyc v"+version+"\n", out)
		})
	}
}

func TestRun_Help(t *testing.T) {
	for _, flag := range []string{"--help", "-?", "-h"} {
		t.Run(flag, func(t *testing.T) {
			out, errOut, err := runCapture(t, flag)
			require.NoError(t, err)
			assert.Empty(t, errOut)
			assert.True(t, strings.HasPrefix(out, usageLine), "help starts with the usage line")
			assert.Contains(t, out, "--port")
			assert.Contains(t, out, `"test message"`)
			assert.Contains(t, out, "Report bugs to ")
		})
	}
}

// ── parsing ──────────────────────────────────────────────────────────

func TestParse_Defaults(t *testing.T) {
	args, act, _, err := parse([]string{"example.com"})
	require.NoError(t, err)
	assert.Equal(t, actionSend, act)
	assert.Equal(t, "example.com", args.Host)
	assert.Equal(t, 1024, args.Port)
	assert.Equal(t, "test message", args.Message)
	assert.Zero(t, args.Verbose)
	assert.False(t, args.TunnelEnabled)
}

func TestParse_AllFlags(t *testing.T) {
	args, _, _, err := parse([]string{
		"-vv", "--port", "8080", "-n", "--stats",
		"-T", "ops@gw:2200", "--ssh-key", "/tmp/k", "--strict-hostkey",
		"10.0.0.1", "payload",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, args.Verbose)
	assert.Equal(t, 8080, args.Port)
	assert.True(t, args.NoDNS)
	assert.True(t, args.Stats)
	assert.True(t, args.TunnelEnabled)
	assert.Equal(t, "ops", args.TunnelUser)
	assert.Equal(t, "gw", args.TunnelHost)
	assert.Equal(t, 2200, args.TunnelPort)
	assert.Equal(t, "/tmp/k", args.SSHKeyPath)
	assert.True(t, args.StrictHostKey)
	assert.Equal(t, "10.0.0.1", args.Host)
	assert.Equal(t, "payload", args.Message)
}

func TestParse_FlagsAfterPositionals(t *testing.T) {
	args, _, _, err := parse([]string{"host", "msg", "-p", "99"})
	require.NoError(t, err)
	assert.Equal(t, 99, args.Port)
	assert.Equal(t, "msg", args.Message)
}

func TestParse_EnvOverlay(t *testing.T) {
	t.Setenv("SOCKYC_PORT", "7000")
	t.Setenv("SOCKYC_VERBOSE", "1")

	args, _, _, err := parse([]string{"host"})
	require.NoError(t, err)
	assert.Equal(t, 7000, args.Port)
	assert.Equal(t, 1, args.Verbose)

	args, _, _, err = parse([]string{"-p", "7001", "host"})
	require.NoError(t, err)
	assert.Equal(t, 7001, args.Port, "flags win over the environment")
}

func TestRun_BadEnvPortDoesNotBlockHelp(t *testing.T) {
	t.Setenv("SOCKYC_PORT", "abc")

	out, _, err := runCapture(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, usageLine)

	out, _, err = runCapture(t, "-V")
	require.NoError(t, err)
	assert.Equal(t, "sockyc v"+version+"\n", out)
}

func TestParse_BadEnvPort(t *testing.T) {
	t.Setenv("SOCKYC_PORT", "abc")

	_, _, _, err := parse([]string{"host"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOCKYC_PORT=abc")
	assert.Equal(t, 2, ExitCode(err))

	args, _, _, err := parse([]string{"-p", "80", "host"})
	require.NoError(t, err, "--port overrides a bad environment value")
	assert.Equal(t, 80, args.Port)
}

// ── usage errors: non-zero exit, no network ──────────────────────────

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantSub string
	}{
		{"no args", nil, "HOST is required"},
		{"flags only", []string{"-v"}, "HOST is required"},
		{"too many", []string{"host", "msg", "extra"}, "too many arguments"},
		{"unknown flag", []string{"--nonexistent-flag", "host"}, "unknown flag"},
		{"port zero", []string{"-p", "0", "host"}, "invalid port"},
		{"port too large", []string{"-p", "65536", "host"}, "invalid port"},
		{"port not digits", []string{"-p", "80a", "host"}, "invalid port"},
		{"port negative", []string{"--port=-1", "host"}, "invalid port"},
		{"port hex", []string{"-p", "0x50", "host"}, "invalid port"},
		{"bad tunnel", []string{"-T", "user@host:999999", "host"}, "invalid gateway port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCapture(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantSub)
			assert.Equal(t, 2, ExitCode(err))
		})
	}
}

func TestRun_MissingHostPrintsUsage(t *testing.T) {
	out, errOut, err := runCapture(t)
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, usageLine)
}

func TestRun_OversizeMessage(t *testing.T) {
	port := closedPort(t)

	_, _, err := runCapture(t, "-p", strconv.Itoa(port), "127.0.0.1", strings.Repeat("x", 1024))
	require.ErrorIs(t, err, ncerr.ErrMessageTooLarge)
	assert.Equal(t, 2, ExitCode(err))
}

// ── end-to-end ───────────────────────────────────────────────────────

func TestRun_SendHello(t *testing.T) {
	port, ch := listen(t)

	out, _, err := runCapture(t, "-v", "-p", port, "127.0.0.1", "hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello\x04"), received(t, ch))
	assert.Contains(t, out, "Connecting to 127.0.0.1")
	assert.Contains(t, out, "successfully sent 6 bytes!")
	assert.Equal(t, 0, ExitCode(err))
}

func TestRun_DefaultMessage(t *testing.T) {
	port, ch := listen(t)

	out, _, err := runCapture(t, "-p", port, "127.0.0.1")
	require.NoError(t, err)
	assert.Empty(t, out, "quiet without -v")

	got := received(t, ch)
	assert.Len(t, got, 13)
	assert.Equal(t, "test message\x04", string(got))
}

func TestRun_ConnectionRefused(t *testing.T) {
	port := closedPort(t)

	_, _, err := runCapture(t, "-p", strconv.Itoa(port), "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, ncerr.KindConnection, ncerr.KindOf(err))
	assert.Equal(t, 1, ExitCode(err))
}

func TestRun_NoDNSRejectsHostname(t *testing.T) {
	_, _, err := runCapture(t, "-n", "example.com")
	require.ErrorIs(t, err, ncerr.ErrDNSDisabled)
	assert.Equal(t, 1, ExitCode(err))
}

func TestRun_Stats(t *testing.T) {
	port, ch := listen(t)

	_, errOut, err := runCapture(t, "--stats", "-p", port, "127.0.0.1", "hello")
	require.NoError(t, err)
	received(t, ch)

	var snap metrics.Snapshot
	require.NoError(t, json.Unmarshal([]byte(errOut), &snap))
	assert.EqualValues(t, 6, snap.BytesSent)
	assert.EqualValues(t, 1, snap.Connections)
	assert.NotEmpty(t, snap.SendID)
}

func TestWarnPartialSend(t *testing.T) {
	var out bytes.Buffer
	logger := util.NewLogger(1)
	logger.SetOutput(&out)

	warnPartialSend(logger, ncerr.Send("10.0.0.1:1024", 0, io.ErrShortWrite))
	warnPartialSend(logger, ncerr.Connect("10.0.0.1:1024", io.EOF))
	assert.Empty(t, out.String())

	warnPartialSend(logger, ncerr.Send("10.0.0.1:1024", 4, io.ErrShortWrite))
	assert.Equal(t, "[WRN] 4 bytes were sent before the connection failed\n", out.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(ncerr.Usage("x")))
	assert.Equal(t, 1, ExitCode(&ncerr.ResolveError{Host: "h", Err: ncerr.ErrNoCandidates}))
	assert.Equal(t, 1, ExitCode(ncerr.Send("a", 1, io.ErrShortWrite)))
}

// closedPort returns a loopback port that had no listener a moment ago.
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
