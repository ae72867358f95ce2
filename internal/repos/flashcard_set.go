package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nextclass/nextclass-backend/internal/logger"
	"github.com/nextclass/nextclass-backend/internal/types"
)

type FlashcardSetRepo interface {
	GetByLecture(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) (*types.FlashcardSet, error)
	ReplaceForLecture(ctx context.Context, tx *gorm.DB, set *types.FlashcardSet) (*types.FlashcardSet, error)
}

type flashcardSetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFlashcardSetRepo(db *gorm.DB, baseLog *logger.Logger) FlashcardSetRepo {
	return &flashcardSetRepo{
		db:  db,
		log: baseLog.With("repo", "FlashcardSetRepo"),
	}
}

func (r *flashcardSetRepo) GetByLecture(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) (*types.FlashcardSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if lectureID == uuid.Nil {
		return nil, nil
	}
	var set types.FlashcardSet
	err := transaction.WithContext(ctx).
		Where("lecture_id = ?", lectureID).
		Limit(1).
		Find(&set).Error
	if err != nil {
		return nil, err
	}
	if set.ID == uuid.Nil {
		return nil, nil
	}
	return &set, nil
}

func (r *flashcardSetRepo) ReplaceForLecture(ctx context.Context, tx *gorm.DB, set *types.FlashcardSet) (*types.FlashcardSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if set == nil || set.LectureID == uuid.Nil {
		return nil, nil
	}
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		if err := lockLectureRow(txx, set.LectureID); err != nil {
			return err
		}
		if err := txx.Where("lecture_id = ?", set.LectureID).Delete(&types.FlashcardSet{}).Error; err != nil {
			return err
		}
		return txx.Create(set).Error
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}
