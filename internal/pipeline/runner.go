package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/menulens/menulens-api/internal/config"
	"github.com/menulens/menulens-api/internal/domain"
)

// ErrQueueFull is returned by Submit when the session queue has no room.
var ErrQueueFull = errors.New("session queue is full, try again later")

// Runner executes sessions on a bounded worker pool. Sessions are
// fire-and-forget: Submit acknowledges immediately and the orchestrator
// reports all outcomes through the events emitter. Sessions are never
// persisted; whatever is queued when the process stops is simply lost.
type Runner struct {
	orchestrator *Orchestrator
	sessions     chan *domain.Session
	ctx          context.Context
	cancelFunc   context.CancelFunc
	wg           sync.WaitGroup
	workerCount  int
	logger       *slog.Logger
}

// NewRunner creates a Runner sized from the pipeline configuration.
func NewRunner(orchestrator *Orchestrator, cfg config.PipelineConfig, logger *slog.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		orchestrator: orchestrator,
		sessions:     make(chan *domain.Session, cfg.QueueSize),
		ctx:          ctx,
		cancelFunc:   cancel,
		workerCount:  cfg.WorkerCount,
		logger:       logger.With("component", "session_runner"),
	}
}

// Submit enqueues a session for processing. Returns ErrQueueFull when the
// queue is at capacity.
func (r *Runner) Submit(session *domain.Session) error {
	select {
	case r.sessions <- session:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the worker pool.
func (r *Runner) Start() {
	for i := 0; i < r.workerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
}

// Stop shuts the pool down and waits for in-flight sessions to finish
// their current stage boundaries.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
}

// worker processes sessions from the queue.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case session, ok := <-r.sessions:
			if !ok {
				return
			}
			logger := r.logger.With("session_id", session.ID, "worker_id", id)
			logger.Info("processing session",
				"target_language", session.TargetLanguage,
				"generate_images", session.GenerateImages)
			r.orchestrator.Run(r.ctx, session)
		}
	}
}
