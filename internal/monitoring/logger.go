// Package monitoring holds the process-wide diagnostic logging hooks used by
// the analysis shell (scenario runner, store, report, CLI). The geometry
// packages never log.
package monitoring

import (
	"log"
	"sync/atomic"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

var verbose atomic.Bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose enables or disables Verbosef output.
func SetVerbose(on bool) { verbose.Store(on) }

// IsVerbose reports whether Verbosef output is enabled.
func IsVerbose() bool { return verbose.Load() }

// Verbosef logs high-frequency per-item detail (one line per ego vehicle or
// curvature sample) through Logf, only when verbose output is enabled.
func Verbosef(format string, v ...interface{}) {
	if !verbose.Load() {
		return
	}
	Logf("[verbose] "+format, v...)
}
