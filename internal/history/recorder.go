package history

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("history")

type job struct {
	username string
	record   Record
}

// Recorder decouples gameplay from the history store: Append enqueues
// onto a buffered channel consumed by a worker goroutine, so a slow or
// failing store never blocks or delays a game-over broadcast. Failures
// are logged and swallowed.
type Recorder struct {
	store  Store
	queue  chan job
	logger *slog.Logger
	done   chan struct{}
}

// NewRecorder creates a recorder with the given queue capacity.
func NewRecorder(store Store, queueSize int, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		queue:  make(chan job, queueSize),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Run consumes the queue until Close is called. Call it in its own
// goroutine.
func (r *Recorder) Run(ctx context.Context) {
	defer close(r.done)

	for j := range r.queue {
		jobCtx, span := tracer.Start(ctx, "history.persistRecord", trace.WithAttributes(
			attribute.String("player.id", j.username),
			attribute.String("game.result", j.record.Result),
		))
		if err := r.store.Append(jobCtx, j.username, j.record); err != nil {
			r.logger.Error("failed to persist game record", "player.id", j.username, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to persist game record")
		}
		span.End()
	}
}

// Append enqueues a record without blocking. When the queue is full the
// record is dropped with a log entry; history is best-effort.
func (r *Recorder) Append(username string, rec Record) {
	select {
	case r.queue <- job{username: username, record: rec}:
	default:
		r.logger.Warn("history queue full, dropping record", "player.id", username)
	}
}

// Read returns a user's past records, oldest first.
func (r *Recorder) Read(ctx context.Context, username string) ([]Record, error) {
	return r.store.Read(ctx, username)
}

// Close stops accepting records and waits for the worker to drain the
// queue.
func (r *Recorder) Close() {
	close(r.queue)
	<-r.done
}
