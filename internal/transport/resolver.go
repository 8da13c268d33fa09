package transport

import (
	"context"
	"net"

	ncerr "github.com/spephton/sockyc/internal/errors"
	"github.com/spephton/sockyc/util"
)

// LookupFunc matches [net.Resolver.LookupIP].
type LookupFunc func(ctx context.Context, network, host string) ([]net.IP, error)

// NetResolver resolves through the system resolver, asking for A
// records only.
type NetResolver struct {
	// NoDNS restricts hosts to literal IPv4 addresses (-n).
	NoDNS bool

	// Lookup defaults to net.DefaultResolver.LookupIP.
	Lookup LookupFunc
}

// LookupIPv4 returns the IPv4 candidates for host in resolver order.
// Literal IPv4 addresses are returned as-is without a lookup.  Every
// failure is a *ncerr.ResolveError.
func (r *NetResolver) LookupIPv4(ctx context.Context, host string) ([]net.IP, error) {
	if ip := util.ParseIPv4(host); ip != nil {
		return []net.IP{ip}, nil
	}
	if host == "" || net.ParseIP(host) != nil {
		// empty, or an IPv6 literal
		return nil, &ncerr.ResolveError{Host: host, Err: ncerr.ErrNoCandidates}
	}
	if r.NoDNS {
		return nil, &ncerr.ResolveError{Host: host, Err: ncerr.ErrDNSDisabled}
	}

	lookup := r.Lookup
	if lookup == nil {
		lookup = net.DefaultResolver.LookupIP
	}
	ips, err := lookup(ctx, "ip4", host)
	if err != nil {
		return nil, &ncerr.ResolveError{Host: host, Err: err}
	}

	out := make([]net.IP, 0, len(ips))
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			out = append(out, v4)
		}
	}
	if len(out) == 0 {
		return nil, &ncerr.ResolveError{Host: host, Err: ncerr.ErrNoCandidates}
	}
	return out, nil
}
