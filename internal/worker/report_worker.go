package worker

import (
	"context"
	"time"

	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

var _ domain.ReportScheduler = (*ReportWorker)(nil)

// ReportBuilder produces the bookings report file.
type ReportBuilder interface {
	WriteBookingsReport(ctx context.Context) (string, error)
}

// ReportWorker rebuilds the bookings report after booking changes. Signals
// arriving while a rebuild is pending collapse into one run; failed builds
// retry with exponential backoff.
type ReportWorker struct {
	builder  ReportBuilder
	logger   *zerolog.Logger
	retry    RetryPolicy
	signals  chan struct{}
	debounce time.Duration
}

func NewReportWorker(builder ReportBuilder, logger *zerolog.Logger, retry RetryPolicy) *ReportWorker {
	return &ReportWorker{
		builder:  builder,
		logger:   logger,
		retry:    retry.normalized(),
		signals:  make(chan struct{}, 1),
		debounce: time.Second,
	}
}

// Schedule requests a report rebuild. It never blocks; a request made while
// one is already queued is absorbed into it.
func (w *ReportWorker) Schedule() {
	select {
	case w.signals <- struct{}{}:
	default:
	}
}

// Start runs the rebuild loop until ctx is canceled.
func (w *ReportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("report worker started")
	defer w.logger.Info().Msg("report worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.signals:
		}

		// Let a burst of changes settle before building once.
		if !w.sleep(ctx, w.debounce) {
			return
		}
		w.drain()

		w.build(ctx)
	}
}

func (w *ReportWorker) build(ctx context.Context) {
	for attempt := 1; attempt <= w.retry.MaxRetries; attempt++ {
		path, err := w.builder.WriteBookingsReport(ctx)
		if err == nil {
			w.logger.Debug().Str("file_path", path).Msg("bookings report rebuilt")
			return
		}
		if ctx.Err() != nil {
			return
		}

		w.logger.Error().Err(err).Int("attempt", attempt).Msg("report build failed")
		if attempt == w.retry.MaxRetries {
			return
		}
		if !w.sleep(ctx, w.retry.NextDelay(attempt)) {
			return
		}
	}
}

func (w *ReportWorker) drain() {
	select {
	case <-w.signals:
	default:
	}
}

func (w *ReportWorker) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
