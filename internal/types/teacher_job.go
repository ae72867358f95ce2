package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// Terminal reports whether the status is absorbing. A job in a terminal
// status is never mutated again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

type JobType string

const (
	JobTypeGenerateQuiz              JobType = "GENERATE_QUIZ"
	JobTypeGenerateFlashcards        JobType = "GENERATE_FLASHCARDS"
	JobTypeGenerateLessonPlan        JobType = "GENERATE_LESSON_PLAN"
	JobTypeGenerateMultipleChoice    JobType = "GENERATE_MULTIPLE_CHOICE_ACTIVITY"
	JobTypeGenerateOpenEndedActivity JobType = "GENERATE_OPEN_ENDED_ACTIVITY"
	JobTypeGenerateSuggestions       JobType = "GENERATE_SUGGESTIONS"
)

func ParseJobType(s string) (JobType, error) {
	switch JobType(s) {
	case JobTypeGenerateQuiz,
		JobTypeGenerateFlashcards,
		JobTypeGenerateLessonPlan,
		JobTypeGenerateMultipleChoice,
		JobTypeGenerateOpenEndedActivity,
		JobTypeGenerateSuggestions:
		return JobType(s), nil
	default:
		return "", fmt.Errorf("unknown job type %q", s)
	}
}

type TeacherJob struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"teacher_id"`
	LectureID     *uuid.UUID     `gorm:"type:uuid;column:lecture_id;index" json:"lecture_id,omitempty"`
	JobType       JobType        `gorm:"column:job_type;not null;index" json:"job_type"`
	Status        JobStatus      `gorm:"column:status;not null;index" json:"status"`
	InputPayload  datatypes.JSON `gorm:"column:input_payload;type:jsonb" json:"input_payload"`
	ResultPayload datatypes.JSON `gorm:"column:result_payload;type:jsonb" json:"result_payload,omitempty"`
	ErrorMessage  string         `gorm:"column:error_message" json:"error_message,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;index" json:"updated_at"`
}

func (TeacherJob) TableName() string { return "teacher_jobs" }
