// Package wavlog provides the package-wide zerolog logger used to report
// non-fatal conditions the engine recovers from on its own; the one such
// report is riff.Scan's warning when a 32-bit size field and the
// ds64 override disagree. Grounded on
// jasonlaguidice-imessage/pkg/connector's zerolog.Ctx/zerolog.Logger usage.
//
// Callers never see a logger forced on them: the default is silent
// (zerolog.Nop), and SetLogger lets a host application opt in.
package wavlog

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var current atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	current.Store(&nop)
}

// SetLogger replaces the package logger, e.g. with
// zerolog.New(os.Stderr).With().Timestamp().Logger() for diagnostics.
func SetLogger(l zerolog.Logger) { current.Store(&l) }

// L returns the active logger.
func L() *zerolog.Logger { return current.Load() }

// NewStderr builds a human-readable console logger, for callers that want
// visible warnings without constructing zerolog options themselves.
func NewStderr() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
