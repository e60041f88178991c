// Package debug provides opt-in diagnostic output controlled by FCON_DEBUG.
package debug

import (
	"fmt"
	"os"
	"sync/atomic"
)

var (
	enabled atomic.Bool
	quiet   atomic.Bool
)

func init() {
	if os.Getenv("FCON_DEBUG") != "" {
		enabled.Store(true)
	}
}

// Enabled reports whether debug output is on.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled turns debug output on or off (used by --verbose).
func SetEnabled(on bool) {
	enabled.Store(on)
}

// SetQuiet suppresses non-essential output.
func SetQuiet(on bool) {
	quiet.Store(on)
}

// IsQuiet reports whether non-essential output is suppressed.
func IsQuiet() bool {
	return quiet.Load()
}

// Logf writes a formatted line to stderr when debug output is enabled.
func Logf(format string, args ...interface{}) {
	if !enabled.Load() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	fmt.Fprint(os.Stderr, "[debug] "+msg)
}
