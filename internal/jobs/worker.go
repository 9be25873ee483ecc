package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/testoloji/akademi-backend/internal/logger"
	"github.com/testoloji/akademi-backend/internal/repos"
	"github.com/testoloji/akademi-backend/internal/services"
	"github.com/testoloji/akademi-backend/internal/types"
	"github.com/testoloji/akademi-backend/internal/utils"
)

// genericFailureMessage is what clients see for unexpected failures. Quota
// errors keep their own message since the user can act on it.
const genericFailureMessage = "Analiz sırasında bir hata oluştu. Lütfen daha sonra tekrar dene."

// Handler processes one claimed job and returns the payload pushed to the
// waiting client.
type Handler func(ctx context.Context, job *types.CoachingJob) (map[string]any, error)

// Worker polls the queue table and runs claimed jobs through registered
// handlers. Several workers may run across instances; SKIP LOCKED claiming
// keeps them from colliding.
type Worker struct {
	log          *logger.Logger
	jobs         repos.CoachingJobRepo
	notifier     services.CoachingNotifier
	handlers     map[string]Handler
	concurrency  int
	pollInterval time.Duration
	jobTimeout   time.Duration
	staleRunning time.Duration

	wg sync.WaitGroup
}

func NewWorker(baseLog *logger.Logger, jobRepo repos.CoachingJobRepo, notifier services.CoachingNotifier) *Worker {
	log := baseLog.With("component", "JobWorker")
	return &Worker{
		log:          log,
		jobs:         jobRepo,
		notifier:     notifier,
		handlers:     make(map[string]Handler),
		concurrency:  utils.GetEnvAsInt("WORKER_CONCURRENCY", 4, log),
		pollInterval: time.Second,
		jobTimeout:   time.Duration(utils.GetEnvAsInt("JOB_TIMEOUT_SECONDS", 300, log)) * time.Second,
		staleRunning: time.Duration(utils.GetEnvAsInt("JOB_STALE_RUNNING_SECONDS", 600, log)) * time.Second,
	}
}

func (w *Worker) Register(jobType string, handler Handler) {
	w.handlers[jobType] = handler
}

// Start launches the polling goroutines. They stop when ctx is cancelled;
// Wait blocks until all of them have drained.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("Starting job workers", "concurrency", w.concurrency)
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.run(ctx, i)
	}
}

func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, id int) {
	defer w.wg.Done()
	log := w.log.With("worker", id)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Job worker stopping")
			return
		case <-ticker.C:
			for {
				job, err := w.jobs.ClaimNextRunnable(ctx, nil, w.staleRunning)
				if err != nil {
					if ctx.Err() == nil {
						log.Error("Job claim failed", "error", err)
					}
					break
				}
				if job == nil {
					break
				}
				w.process(ctx, log, job)
			}
		}
	}
}

func (w *Worker) process(ctx context.Context, log *logger.Logger, job *types.CoachingJob) {
	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	started := time.Now()
	log.Info("Processing job", "job_id", job.ID, "job_type", job.JobType, "attempt", job.Attempts+1)

	result, err := w.dispatch(jobCtx, job)
	now := time.Now()

	if err != nil {
		log.Error("Job failed", "job_id", job.ID, "job_type", job.JobType, "error", err, "duration", now.Sub(started))
		updateErr := w.jobs.UpdateFields(ctx, nil, job.ID, map[string]interface{}{
			"status":        types.JobStatusFailed,
			"last_error":    err.Error(),
			"last_error_at": now,
			"finished_at":   now,
		})
		if updateErr != nil {
			log.Error("Job status update failed", "job_id", job.ID, "error", updateErr)
		}
		w.notifier.AnalysisFailed(ctx, job.UserID, job.ID, job.JobType, failureMessage(err))
		return
	}

	log.Info("Job done", "job_id", job.ID, "job_type", job.JobType, "duration", now.Sub(started))
	if updateErr := w.jobs.UpdateFields(ctx, nil, job.ID, map[string]interface{}{
		"status":      types.JobStatusDone,
		"last_error":  "",
		"finished_at": now,
	}); updateErr != nil {
		log.Error("Job status update failed", "job_id", job.ID, "error", updateErr)
	}
	w.notifier.AnalysisComplete(ctx, job.UserID, job.ID, job.JobType, result)
}

// dispatch runs the handler with panic recovery so one bad job never takes a
// worker down.
func (w *Worker) dispatch(ctx context.Context, job *types.CoachingJob) (result map[string]any, err error) {
	handler, ok := w.handlers[job.JobType]
	if !ok {
		return nil, fmt.Errorf("no handler registered for job type %q", job.JobType)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job handler panic: %v", r)
		}
	}()
	return handler(ctx, job)
}

func failureMessage(err error) string {
	if errors.Is(err, services.ErrQuotaExceeded) {
		return services.ErrQuotaExceeded.Error()
	}
	return genericFailureMessage
}
