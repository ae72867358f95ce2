package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nextclass/nextclass-backend/internal/logger"
	"github.com/nextclass/nextclass-backend/internal/types"
)

type LessonPlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plan *types.LessonPlan) (*types.LessonPlan, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LessonPlan, error)
	ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]*types.LessonPlan, error)
}

type lessonPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonPlanRepo(db *gorm.DB, baseLog *logger.Logger) LessonPlanRepo {
	return &lessonPlanRepo{
		db:  db,
		log: baseLog.With("repo", "LessonPlanRepo"),
	}
}

func (r *lessonPlanRepo) Create(ctx context.Context, tx *gorm.DB, plan *types.LessonPlan) (*types.LessonPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if plan == nil {
		return nil, nil
	}
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *lessonPlanRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LessonPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var plan types.LessonPlan
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == uuid.Nil {
		return nil, nil
	}
	return &plan, nil
}

func (r *lessonPlanRepo) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]*types.LessonPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if teacherID == uuid.Nil {
		return nil, nil
	}
	var out []*types.LessonPlan
	err := transaction.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
