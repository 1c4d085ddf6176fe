// Package cli implements the nmanet command-line interface.
//
// The CLI is built with cobra and logs through charmbracelet/log. Console
// output (tables, status lines) is styled with lipgloss.
//
// # Commands
//
//   - network: build and render the treatment network of a trial table
//   - summary: print the edge and node summaries without rendering
//   - models: list the dose-response configurations, rank fitted models
//   - variants: list the configured schema variants
//   - cache: manage the rendered-artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports per-stage timings of the pipeline.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
// It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond.
// Example output: "Built network (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
