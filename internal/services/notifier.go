package services

import (
	"context"

	"github.com/nextclass/nextclass-backend/internal/clients/redis"
	"github.com/nextclass/nextclass-backend/internal/logger"
	"github.com/nextclass/nextclass-backend/internal/sse"
	"github.com/nextclass/nextclass-backend/internal/types"
)

// JobNotifier announces job status changes to whoever is watching. Delivery
// is best-effort: the job row is the source of truth and the UI can always
// fall back to polling it.
type JobNotifier interface {
	JobStatusChanged(ctx context.Context, job *types.TeacherJob)
}

type hubNotifier struct {
	log *logger.Logger
	hub *sse.Hub
	bus redis.Bus
}

// NewJobNotifier publishes through the redis bus when one is configured
// (the forwarder then feeds every replica's hub, this one included), and
// straight into the local hub otherwise.
func NewJobNotifier(log *logger.Logger, hub *sse.Hub, bus redis.Bus) JobNotifier {
	return &hubNotifier{
		log: log.With("service", "JobNotifier"),
		hub: hub,
		bus: bus,
	}
}

func (n *hubNotifier) JobStatusChanged(ctx context.Context, job *types.TeacherJob) {
	if job == nil {
		return
	}
	msg := sse.Message{
		Channel: sse.JobChannel(job.TeacherID),
		Event:   sse.EventJobStatusChanged,
		Data:    job,
	}
	if n.bus != nil {
		if err := n.bus.Publish(ctx, msg); err != nil {
			n.log.Warn("Failed to publish job status to bus", "job_id", job.ID, "error", err)
		}
		return
	}
	n.hub.Publish(msg)
}
