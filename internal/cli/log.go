// Package cli implements the museummap command-line interface.
//
// The CLI renders the museum map to files, serves it over HTTP, lets you
// browse it in the terminal, and manages the artifact store and caches.
// Commands are built with cobra; logging uses charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Write the map as SVG, JSON, DOT, PNG or PDF
//   - serve: Run the HTTP API
//   - browse: Explore the map in the terminal with mouse and keyboard
//   - artifacts: List or import artifact documents
//   - describe: Send label text to the enrichment webhook
//   - cache: Manage the snapshot and scene cache
//   - config: Show or initialize the config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/museummap/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// parseLogLevel reads the [log] level setting. An empty string is info.
func parseLogLevel(s string) (log.Level, error) {
	if s == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// progress times one step of a command, such as loading the snapshot or
// writing one output format. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the time since the last mark, then starts
// the next step.
func (p *progress) done(msg string, keyvals ...any) {
	now := time.Now()
	keyvals = append(keyvals, "elapsed", now.Sub(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
	p.start = now
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
