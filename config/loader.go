package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"errors"
	"os"
	"strconv"
	"strings"

	ncerr "github.com/spephton/sockyc/internal/errors"
)

// LoadFromEnv overlays SOCKYC_* environment variables onto a.  Only
// non-empty variables override the existing value.  Call it BEFORE
// binding CLI flags so that flags take precedence.  Boolean values
// accept "1", "true", "yes" (case-insensitive).
//
// An invalid SOCKYC_PORT leaves a.Port unchanged and is returned after
// the remaining variables have been applied, so the caller can decide
// whether a --port flag makes it moot.
func LoadFromEnv(a *Arguments) error {
	var portErr error
	if v := os.Getenv(EnvPrefix + "PORT"); v != "" {
		port, err := ParsePort(v)
		if err != nil {
			var argErr *ncerr.ArgError
			if errors.As(err, &argErr) {
				argErr.Field = EnvPrefix + "PORT"
			}
			portErr = err
		} else {
			a.Port = port
		}
	}
	if v := envInt(EnvPrefix + "VERBOSE"); v > 0 {
		a.Verbose = v
	}
	if envBool(EnvPrefix + "NO_DNS") {
		a.NoDNS = true
	}
	if envBool(EnvPrefix + "STATS") {
		a.Stats = true
	}

	// SSH gateway
	if v := os.Getenv(EnvPrefix + "TUNNEL"); v != "" {
		a.TunnelSpec = v
	}
	if v := os.Getenv(EnvPrefix + "SSH_KEY"); v != "" {
		a.SSHKeyPath = v
	}
	if envBool(EnvPrefix + "SSH_AGENT") {
		a.UseSSHAgent = true
	}
	if envBool(EnvPrefix + "STRICT_HOSTKEY") {
		a.StrictHostKey = true
	}
	if v := os.Getenv(EnvPrefix + "KNOWN_HOSTS"); v != "" {
		a.KnownHostsPath = v
	}
	return portErr
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}
