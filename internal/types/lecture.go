package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lecture struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	Subject    string         `gorm:"column:subject" json:"subject,omitempty"`
	Transcript string         `gorm:"column:transcript;type:text" json:"transcript,omitempty"`
	// Content is didactic markdown (prose, $...$/$$...$$ formulas, fenced
	// mermaid blocks). Always stored post-sanitization.
	Content   string         `gorm:"column:content;type:text" json:"content,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lecture) TableName() string { return "lectures" }
