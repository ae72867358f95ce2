package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FlashcardSet is the published flashcard deck for a lecture. Same
// replacement policy as Quiz: one live row per lecture.
type FlashcardSet struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LectureID uuid.UUID      `gorm:"type:uuid;not null;index" json:"lecture_id"`
	TeacherID uuid.UUID      `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Title     string         `gorm:"column:title" json:"title"`
	Cards     datatypes.JSON `gorm:"column:cards;type:jsonb" json:"cards"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (FlashcardSet) TableName() string { return "flashcard_sets" }
