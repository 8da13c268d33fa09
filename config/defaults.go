package config

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// ProgramName is used in usage and version output.
	ProgramName = "sockyc"

	// DefaultPort is the destination port when -p is not given.
	DefaultPort = 1024

	// DefaultMessage is sent when MESSAGE is not given.
	DefaultMessage = "test message"

	// MaxPort is the largest valid TCP port.
	MaxPort = 65535

	// DefaultSSHPort is the gateway port when -T omits one.
	DefaultSSHPort = 22

	// EnvPrefix prefixes every supported environment variable.
	EnvPrefix = "SOCKYC_"

	// BugReportURL closes the --help text.
	BugReportURL = "<https://github.com/spephton/sockyc/issues>"
)
