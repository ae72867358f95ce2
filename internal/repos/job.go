package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nextclass/nextclass-backend/internal/logger"
	"github.com/nextclass/nextclass-backend/internal/types"
)

// JobRepo persists teacher_jobs rows. Status writes are guarded so a job can
// only move forward: a COMPLETED or FAILED row is never overwritten, and a
// job never returns to PENDING.
type JobRepo interface {
	Create(ctx context.Context, tx *gorm.DB, job *types.TeacherJob) (*types.TeacherJob, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TeacherJob, error)
	ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID, limit int) ([]*types.TeacherJob, error)
	// ClaimNextPending picks the oldest PENDING job and marks it PROCESSING
	// in one transaction (SKIP LOCKED on postgres). Returns nil when no job
	// is runnable.
	ClaimNextPending(ctx context.Context, tx *gorm.DB) (*types.TeacherJob, error)
	// MarkProcessing transitions a specific job to PROCESSING. Returns false
	// when the job is already terminal.
	MarkProcessing(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
	// Complete records the result and transitions to COMPLETED. Returns false
	// when the job was already terminal (first result wins).
	Complete(ctx context.Context, tx *gorm.DB, id uuid.UUID, result datatypes.JSON) (bool, error)
	// Fail records the error message and transitions to FAILED. Returns false
	// when the job was already terminal.
	Fail(ctx context.Context, tx *gorm.DB, id uuid.UUID, message string) (bool, error)
}

type jobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	return &jobRepo{
		db:  db,
		log: baseLog.With("repo", "JobRepo"),
	}
}

func (r *jobRepo) Create(ctx context.Context, tx *gorm.DB, job *types.TeacherJob) (*types.TeacherJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if job == nil {
		return nil, nil
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = types.JobStatusPending
	}
	if err := transaction.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *jobRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TeacherJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var job types.TeacherJob
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&job).Error
	if err != nil {
		return nil, err
	}
	if job.ID == uuid.Nil {
		return nil, nil
	}
	return &job, nil
}

func (r *jobRepo) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID, limit int) ([]*types.TeacherJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if teacherID == uuid.Nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	var out []*types.TeacherJob
	err := transaction.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *jobRepo) ClaimNextPending(ctx context.Context, tx *gorm.DB) (*types.TeacherJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var claimed *types.TeacherJob
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		var job types.TeacherJob
		q := txx.Where("status = ?", types.JobStatusPending).Order("created_at ASC")
		if txx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		qErr := q.First(&job).Error
		if errors.Is(qErr, gorm.ErrRecordNotFound) {
			return nil
		}
		if qErr != nil {
			return qErr
		}
		uErr := txx.Model(&types.TeacherJob{}).
			Where("id = ? AND status = ?", job.ID, types.JobStatusPending).
			Updates(map[string]interface{}{
				"status":     types.JobStatusProcessing,
				"updated_at": time.Now(),
			}).Error
		if uErr != nil {
			return uErr
		}
		job.Status = types.JobStatusProcessing
		claimed = &job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *jobRepo) MarkProcessing(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	return r.transition(ctx, tx, id, map[string]interface{}{
		"status": types.JobStatusProcessing,
	})
}

func (r *jobRepo) Complete(ctx context.Context, tx *gorm.DB, id uuid.UUID, result datatypes.JSON) (bool, error) {
	return r.transition(ctx, tx, id, map[string]interface{}{
		"status":         types.JobStatusCompleted,
		"result_payload": result,
	})
}

func (r *jobRepo) Fail(ctx context.Context, tx *gorm.DB, id uuid.UUID, message string) (bool, error) {
	return r.transition(ctx, tx, id, map[string]interface{}{
		"status":        types.JobStatusFailed,
		"error_message": message,
	})
}

// transition applies a status update only while the job is still live. The
// WHERE guard is what makes terminal states absorbing.
func (r *jobRepo) transition(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	updates["updated_at"] = time.Now()
	res := transaction.WithContext(ctx).
		Model(&types.TeacherJob{}).
		Where("id = ? AND status IN ?", id, []types.JobStatus{types.JobStatusPending, types.JobStatusProcessing}).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
