// Package rfd generates renewable fuel declarations from an allocation
// workbook: one populated template and one PDF per qualifying customer row.
package rfd

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/rfdgen/pkg/rfd/export"
	"github.com/ukaji3/rfdgen/pkg/rfd/models"
)

// Ledger receives the outcome of every record. *ledger.Store implements it.
type Ledger interface {
	BeginRun(ctx context.Context, source, template, outputDir string) (int64, error)
	Record(ctx context.Context, runID int64, o models.Outcome) error
	FinishRun(ctx context.Context, runID int64, sum models.Summary) error
}

// Option configures a Generator.
type Option func(*Generator)

// WithExporter sets the PDF exporter. Without it New picks one from the
// export configuration.
func WithExporter(e export.Exporter) Option {
	return func(g *Generator) { g.exporter = e }
}

// WithLedger records outcomes in l.
func WithLedger(l Ledger) Option {
	return func(g *Generator) { g.ledger = l }
}

// WithLogger sets the progress logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Generator) { g.log = l }
}

// WithClock sets the clock used for the issue date.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithCleanup sets how many times, and how far apart, removal of a working
// copy is attempted.
func WithCleanup(attempts int, pause time.Duration) Option {
	return func(g *Generator) {
		g.cleanupAttempts = attempts
		g.cleanupPause = pause
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
