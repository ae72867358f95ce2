package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nextclass/nextclass-backend/internal/logger"
	"github.com/nextclass/nextclass-backend/internal/repos"
	"github.com/nextclass/nextclass-backend/internal/services"
)

// Worker polls teacher_jobs for PENDING rows and runs them. Dispatch is
// fire-and-forget: the HTTP layer only inserts the row, and this loop is the
// sole background consumer. One job is in flight per worker; claiming uses
// SKIP LOCKED on postgres so replicas do not double-claim.
type Worker struct {
	log      *logger.Logger
	repo     repos.JobRepo
	jobs     services.JobService
	interval time.Duration
}

func NewWorker(baseLog *logger.Logger, repo repos.JobRepo, jobService services.JobService, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Worker{
		log:      baseLog.With("component", "JobWorker"),
		repo:     repo,
		jobs:     jobService,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled. Errors from individual jobs are already
// persisted on their rows by the job service; the loop only logs and moves
// on.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick drains every claimable job before going back to sleep.
func (w *Worker) tick(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		job, err := w.repo.ClaimNextPending(ctx, nil)
		if err != nil {
			w.log.Warn("ClaimNextPending failed", "error", err)
			return
		}
		if job == nil {
			return
		}
		w.runOne(ctx, job.ID)
	}
}

// runOne executes a single claimed job. A panicking handler must not take
// the worker loop down, and must not leave the row stuck in PROCESSING.
func (w *Worker) runOne(ctx context.Context, jobID uuid.UUID) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Job handler panic", "job_id", jobID, "panic", r)
			if _, err := w.repo.Fail(ctx, nil, jobID, fmt.Sprintf("internal error: %v", r)); err != nil {
				w.log.Error("Failed to mark panicked job as failed", "job_id", jobID, "error", err)
			}
		}
	}()
	if err := w.jobs.Run(ctx, jobID); err != nil {
		w.log.Warn("Job run failed", "job_id", jobID, "error", err)
	}
}
