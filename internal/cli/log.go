// Package cli implements the lamina command-line interface.
//
// Every command takes a surface file first, then laminations and mapping
// class words on it, given by name or as literals:
//
//	lamina shorten torus.toml "[6,1,5]"
//	lamina twist torus.toml "a B" b
//	lamina classify torus.toml "a B"
//	lamina intersect torus.toml a b
//	lamina components torus.toml "[2,-1,2]"
//	lamina dot torus.toml a -f svg -o torus.svg
//
// Results are cached by the pipeline package; "lamina cache" manages the
// cache. With --verbose each computation is logged with its run ID and
// timing.
package cli

import (
	"context"
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

// progress times one kernel computation. done logs at debug level, so only
// verbose runs see lines like "Shortening [6,1,5]... (12ms)".
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for the command tree run under it.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default when a command is run without one, as in tests.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
