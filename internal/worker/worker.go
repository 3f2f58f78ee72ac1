// Package worker keeps the monthly CSV export current as attendance is
// submitted.
package worker

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"rollbook/internal/attendance"
	"rollbook/internal/cloudinary"
	"rollbook/internal/export"
	"rollbook/internal/metrics"
	"rollbook/internal/observability"
	"rollbook/internal/queue"
)

// Uploader publishes a finished export somewhere outside the export dir.
type Uploader interface {
	UploadRaw(ctx context.Context, r io.Reader, filename string) (*cloudinary.UploadResult, error)
}

type Worker struct {
	queue     queue.Queue
	records   *attendance.Service
	exportDir string
	uploader  Uploader
	log       *zap.Logger
}

// New creates a worker. uploader may be nil.
func New(q queue.Queue, records *attendance.Service, exportDir string, uploader Uploader, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{queue: q, records: records, exportDir: exportDir, uploader: uploader, log: log}
}

// Path is where the monthly export is written.
func (w *Worker) Path() string {
	return filepath.Join(w.exportDir, export.MonthlyFile)
}

// Run handles messages until ctx is done or the queue closes.
func (w *Worker) Run(ctx context.Context) error {
	messages, err := w.queue.Consume(ctx)
	if err != nil {
		return err
	}
	w.log.Info("worker started", zap.String("export", w.Path()))
	for msg := range messages {
		result := "ok"
		if err := w.Handle(ctx, msg); err != nil {
			result = "error"
			if errors.Is(err, errIgnored) {
				result = "ignored"
			} else {
				w.log.Error("handle message failed", zap.String("type", msg.Type), zap.Error(err))
				observability.CaptureErr(err)
			}
		}
		metrics.WorkerEvents.WithLabelValues(msg.Type, result).Inc()
	}
	w.log.Info("worker stopped")
	return ctx.Err()
}

var errIgnored = errors.New("message type not handled")

// Handle processes one message.
func (w *Worker) Handle(ctx context.Context, msg queue.Message) error {
	if msg.Type != queue.TypeAttendanceSubmitted {
		return errIgnored
	}
	var evt queue.SubmittedEvent
	if err := msg.Decode(&evt); err != nil {
		return err
	}
	w.log.Info("attendance submitted",
		zap.String("date", evt.Date), zap.String("subject", evt.Subject), zap.String("by", evt.By))
	return w.Refresh(ctx)
}

// Refresh rewrites the monthly export from the full ledger and uploads it
// when an uploader is configured.
func (w *Worker) Refresh(ctx context.Context) error {
	records, err := w.records.Records(ctx)
	if err != nil {
		return err
	}
	n, err := export.WriteFile(w.Path(), records)
	if errors.Is(err, export.ErrNoRecords) {
		w.log.Info("nothing to export")
		return nil
	}
	if err != nil {
		return err
	}
	w.log.Info("export refreshed", zap.Int("rows", n))

	if w.uploader == nil {
		return nil
	}
	f, err := os.Open(w.Path())
	if err != nil {
		return err
	}
	defer f.Close()
	res, err := w.uploader.UploadRaw(ctx, f, export.MonthlyFile)
	if err != nil {
		return err
	}
	w.log.Info("export uploaded", zap.String("url", res.SecureURL))
	return nil
}
