package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityKind string

const (
	ActivityKindMultipleChoice ActivityKind = "multiple_choice"
	ActivityKindOpenEnded      ActivityKind = "open_ended"
)

type Activity struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LectureID uuid.UUID      `gorm:"type:uuid;not null;index" json:"lecture_id"`
	TeacherID uuid.UUID      `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Kind      ActivityKind   `gorm:"column:kind;not null;index" json:"kind"`
	Title     string         `gorm:"column:title" json:"title"`
	Items     datatypes.JSON `gorm:"column:items;type:jsonb" json:"items"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Activity) TableName() string { return "activities" }
