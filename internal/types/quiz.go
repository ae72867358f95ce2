package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Quiz is the published quiz for a lecture. At most one live row per lecture;
// regeneration replaces the row (delete then insert).
type Quiz struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LectureID uuid.UUID      `gorm:"type:uuid;not null;index" json:"lecture_id"`
	TeacherID uuid.UUID      `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Title     string         `gorm:"column:title" json:"title"`
	Questions datatypes.JSON `gorm:"column:questions;type:jsonb" json:"questions"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Quiz) TableName() string { return "quizzes" }
