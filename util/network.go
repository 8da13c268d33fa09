package util

import (
	"net"
	"strconv"
)

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// ParseIPv4 returns the 4-byte form of s when s is a literal IPv4
// address, or nil otherwise.  IPv4-mapped IPv6 literals ("::ffff:a.b.c.d")
// are not accepted.
func ParseIPv4(s string) net.IP {
	ip := net.ParseIP(s)
	if ip == nil || !isDotted(s) {
		return nil
	}
	return ip.To4()
}

func isDotted(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return false
		}
	}
	return true
}
