package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nextclass/nextclass-backend/internal/logger"
	"github.com/nextclass/nextclass-backend/internal/types"
)

type QuizRepo interface {
	GetByLecture(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) (*types.Quiz, error)
	// ReplaceForLecture deletes any existing quiz for the lecture and inserts
	// the new one, inside a single transaction. On postgres a per-lecture
	// advisory lock serializes concurrent replacements.
	ReplaceForLecture(ctx context.Context, tx *gorm.DB, quiz *types.Quiz) (*types.Quiz, error)
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{
		db:  db,
		log: baseLog.With("repo", "QuizRepo"),
	}
}

func (r *quizRepo) GetByLecture(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) (*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if lectureID == uuid.Nil {
		return nil, nil
	}
	var quiz types.Quiz
	err := transaction.WithContext(ctx).
		Where("lecture_id = ?", lectureID).
		Limit(1).
		Find(&quiz).Error
	if err != nil {
		return nil, err
	}
	if quiz.ID == uuid.Nil {
		return nil, nil
	}
	return &quiz, nil
}

func (r *quizRepo) ReplaceForLecture(ctx context.Context, tx *gorm.DB, quiz *types.Quiz) (*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if quiz == nil || quiz.LectureID == uuid.Nil {
		return nil, nil
	}
	if quiz.ID == uuid.Nil {
		quiz.ID = uuid.New()
	}
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		if err := lockLectureRow(txx, quiz.LectureID); err != nil {
			return err
		}
		if err := txx.Where("lecture_id = ?", quiz.LectureID).Delete(&types.Quiz{}).Error; err != nil {
			return err
		}
		return txx.Create(quiz).Error
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// lockLectureRow takes a transaction-scoped advisory lock keyed by lecture id
// so two regeneration jobs for the same lecture cannot interleave their
// delete-then-insert. No-op on dialects without advisory locks.
func lockLectureRow(tx *gorm.DB, lectureID uuid.UUID) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec(`SELECT pg_advisory_xact_lock(hashtext(?))`, lectureID.String()).Error
}
