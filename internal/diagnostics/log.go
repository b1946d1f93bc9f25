package diagnostics

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Channels holds the two leveled debug channels mlox.py calls Dbg and
// ParseDbg. Both are ordinary logr.Logger values gated by verbosity:
// -d/--debug raises Debug to V(1), -p/--parsedebug raises Parse to
// V(1); when a flag is off, the corresponding logger's verbosity stays
// at 0 and V(1).Info calls become no-ops, exactly mirroring mlox.py's
// "if Opt.DBG: print" gates without a manual conditional at every call
// site.
type Channels struct {
	Debug logr.Logger
	Parse logr.Logger
}

// NewChannels builds the debug channels, writing enabled messages to w
// with a "DBG: " prefix (mlox.py's own convention).
func NewChannels(w io.Writer, debugEnabled, parseDebugEnabled bool) *Channels {
	write := func(prefix, args string) {
		fmt.Fprintf(w, "DBG: %s%s\n", prefix, args)
	}
	return &Channels{
		Debug: funcr.New(write, funcr.Options{Verbosity: verbosity(debugEnabled)}),
		Parse: funcr.New(write, funcr.Options{Verbosity: verbosity(parseDebugEnabled)}),
	}
}

func verbosity(enabled bool) int {
	if enabled {
		return 1
	}
	return 0
}
