package triviaiq

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

var (
	verboseMode   atomic.Bool
	verboseLogger = log.New(os.Stderr, "[verbose] ", log.LstdFlags)
)

// SetVerbose sets the global verbose mode
func SetVerbose(verbose bool) {
	verboseMode.Store(verbose)
}

// SetVerboseOutput redirects verbose logging, e.g. away from a terminal UI
func SetVerboseOutput(w io.Writer) {
	verboseLogger.SetOutput(w)
}

// VerboseLog logs only when verbose mode is enabled
func VerboseLog(format string, v ...interface{}) {
	if verboseMode.Load() {
		verboseLogger.Printf(format, v...)
	}
}
