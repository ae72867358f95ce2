package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonPlan struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID uuid.UUID      `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Topic     string         `gorm:"column:topic;not null" json:"topic"`
	// Content is didactic markdown, stored post-sanitization.
	Content   string         `gorm:"column:content;type:text" json:"content"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LessonPlan) TableName() string { return "lesson_plans" }
