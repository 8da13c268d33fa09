// Package core is the orchestration layer.  It composes a resolver, a
// dialer and a frame into the send operation and provides a builder
// that assembles it from parsed Arguments.
//
// Architecture layers (bottom → top):
//
//	frame, transport  →  core  →  cmd (CLI)
package core

import "context"

// Mode is a complete run of the program, from resolution to teardown.
type Mode interface {
	Run(ctx context.Context) error
}
