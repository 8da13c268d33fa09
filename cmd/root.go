// Package cmd wires up the CLI flags and dispatches to the sender.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/spephton/sockyc/config"
	"github.com/spephton/sockyc/internal/core"
	ncerr "github.com/spephton/sockyc/internal/errors"
	"github.com/spephton/sockyc/internal/metrics"
	"github.com/spephton/sockyc/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X github.com/spephton/sockyc/cmd.version=1.01"
var version = "1.00" //nolint:gochecknoglobals

const usageLine = "Usage: " + config.ProgramName + " [OPTION...] HOST [MESSAGE]"

// action is what the command line asked for.
type action int

const (
	actionSend action = iota
	actionHelp
	actionVersion
)

// Execute parses args and sends one message, writing progress to
// stdout and diagnostics to stderr.
func Execute(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

// ExitCode maps an Execute error to a process exit status: 0 for
// success, 2 for usage and validation errors, 1 for everything that
// failed on the network.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case ncerr.KindOf(err) == ncerr.KindInvalidArgument:
		return 2
	default:
		return 1
	}
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
	args, act, fs, err := parse(argv)
	if err != nil {
		if errors.Is(err, ncerr.ErrUsage) {
			fmt.Fprintln(stderr, usageLine)
			fmt.Fprintf(stderr, "Try '%s --help' for more information.\n", config.ProgramName)
		}
		return err
	}

	switch act {
	case actionHelp:
		printHelp(stdout, fs)
		return nil
	case actionVersion:
		fmt.Fprintf(stdout, "%s v%s\n", config.ProgramName, version)
		return nil
	}

	logger := util.NewLogger(args.Verbose)
	logger.SetOutput(stdout)

	var collector *metrics.Collector
	if args.Stats {
		collector = metrics.New()
		defer func() { fmt.Fprintln(stderr, collector.JSON()) }()
	}

	mode, err := core.Build(args, logger, collector)
	if err != nil {
		return err
	}
	if err := mode.Run(ctx); err != nil {
		warnPartialSend(logger, err)
		return err
	}
	return nil
}

// warnPartialSend notes how much of the frame reached the peer before a
// transmission failure.
func warnPartialSend(logger *util.Logger, err error) {
	if n := ncerr.SentBytes(err); n > 0 {
		logger.Warn("%d bytes were sent before the connection failed", n)
	}
}

// parse turns argv into Arguments.  Environment variables are applied
// first so that flags override them.  A bad SOCKYC_PORT is only an
// error when a send is requested without --port.
func parse(argv []string) (*config.Arguments, action, *flag.FlagSet, error) {
	args := config.Default()
	envErr := config.LoadFromEnv(args)
	envVerbose := args.Verbose

	fs := flag.NewFlagSet(config.ProgramName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false

	// ── target ───────────────────────────────────────────────────
	var port string
	fs.StringVarP(&port, "port", "p", strconv.Itoa(args.Port),
		"Destination port on server")
	fs.BoolVarP(&args.NoDNS, "no-dns", "n", args.NoDNS,
		"Numeric IPv4 host only, no DNS resolution")

	// ── SSH gateway ──────────────────────────────────────────────
	fs.StringVarP(&args.TunnelSpec, "tunnel", "T", args.TunnelSpec,
		"Send through an SSH gateway [user@]host[:port]")
	fs.StringVar(&args.SSHKeyPath, "ssh-key", args.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&args.SSHPassword, "ssh-password", false, "Prompt for SSH password")
	fs.BoolVar(&args.UseSSHAgent, "ssh-agent", args.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&args.StrictHostKey, "strict-hostkey", args.StrictHostKey, "Verify the gateway host key")
	fs.StringVar(&args.KnownHostsPath, "known-hosts", args.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&args.Verbose, "verbose", "v", "Log progress to stdout (-vv for debug)")
	fs.BoolVar(&args.Stats, "stats", args.Stats, "Print a JSON metrics summary to stderr")

	var showHelp, showVersion bool
	fs.BoolVarP(&showHelp, "help", "?", false, "Show this help and exit")
	fs.BoolVarP(&showVersion, "version", "V", false, "Show program version and exit")

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return args, actionHelp, fs, nil
		}
		return nil, actionSend, fs, ncerr.Usage(err.Error())
	}

	if showHelp {
		return args, actionHelp, fs, nil
	}
	if showVersion {
		return args, actionVersion, fs, nil
	}
	if envErr != nil && !fs.Changed("port") {
		return nil, actionSend, fs, envErr
	}
	if !fs.Changed("verbose") {
		args.Verbose = envVerbose
	}

	p, err := config.ParsePort(port)
	if err != nil {
		return nil, actionSend, fs, err
	}
	args.Port = p

	// ── positional arguments ─────────────────────────────────────
	rest := fs.Args()
	switch len(rest) {
	case 0:
		return nil, actionSend, fs, ncerr.Usage("HOST is required")
	case 1:
		args.Host = rest[0]
	case 2:
		args.Host = rest[0]
		args.Message = rest[1]
	default:
		return nil, actionSend, fs, ncerr.Usage(
			fmt.Sprintf("too many arguments (%d), expected HOST [MESSAGE]", len(rest)))
	}

	if err := args.ApplyTunnelSpec(); err != nil {
		return nil, actionSend, fs, err
	}
	return args, actionSend, fs, nil
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, `%s
TCP socket message client, v%s

Sends MESSAGE followed by an end-of-transmission byte (0x04) to HOST
over a single TCP/IPv4 connection, then exits.  Nothing is read back.
Default message, if MESSAGE is not specified, is %q.

Options:
`, usageLine, version, config.DefaultMessage)
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintf(w, `
Environment (overridden by flags):
  SOCKYC_PORT, SOCKYC_VERBOSE, SOCKYC_NO_DNS, SOCKYC_STATS,
  SOCKYC_TUNNEL, SOCKYC_SSH_KEY, SOCKYC_SSH_AGENT,
  SOCKYC_STRICT_HOSTKEY, SOCKYC_KNOWN_HOSTS

Examples:
  %[1]s example.com                       Send %[2]q to port %[3]d
  %[1]s -v -p 9000 10.0.0.5 "hello"       Send "hello" with progress
  %[1]s -T admin@bastion db-internal hi   Send through an SSH gateway

Report bugs to %[4]s.
`, config.ProgramName, config.DefaultMessage, config.DefaultPort, config.BugReportURL)
}
