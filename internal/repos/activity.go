package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nextclass/nextclass-backend/internal/logger"
	"github.com/nextclass/nextclass-backend/internal/types"
)

type ActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, activity *types.Activity) (*types.Activity, error)
	ListByLecture(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) ([]*types.Activity, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{
		db:  db,
		log: baseLog.With("repo", "ActivityRepo"),
	}
}

func (r *activityRepo) Create(ctx context.Context, tx *gorm.DB, activity *types.Activity) (*types.Activity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if activity == nil {
		return nil, nil
	}
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

func (r *activityRepo) ListByLecture(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) ([]*types.Activity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if lectureID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Activity
	err := transaction.WithContext(ctx).
		Where("lecture_id = ?", lectureID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
