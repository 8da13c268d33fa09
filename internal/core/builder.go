package core

import (
	"github.com/spephton/sockyc/config"
	"github.com/spephton/sockyc/internal/metrics"
	"github.com/spephton/sockyc/internal/transport"
	"github.com/spephton/sockyc/tunnel"
	"github.com/spephton/sockyc/util"
)

// Build constructs the send mode from validated arguments.  It performs
// no network activity.
func Build(args *config.Arguments, logger *util.Logger, collector *metrics.Collector) (Mode, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}

	return &SendMode{
		Resolver: &transport.NetResolver{NoDNS: args.NoDNS},
		Dialer:   buildDialer(args, logger),
		Host:     args.Host,
		Port:     args.Port,
		Message:  []byte(args.Message),
		Logger:   logger,
		Metrics:  collector,
	}, nil
}

// buildDialer creates the right transport.Dialer for the arguments.
func buildDialer(args *config.Arguments, logger *util.Logger) transport.Dialer {
	if args.TunnelEnabled {
		return transport.NewSSHDialer(&tunnel.SSHConfig{
			User:          args.TunnelUser,
			Host:          args.TunnelHost,
			Port:          args.TunnelPort,
			KeyPath:       args.SSHKeyPath,
			PromptPass:    args.SSHPassword,
			UseAgent:      args.UseSSHAgent,
			StrictHostKey: args.StrictHostKey,
			KnownHosts:    args.KnownHostsPath,
		}, logger)
	}
	return &transport.TCPDialer{}
}
