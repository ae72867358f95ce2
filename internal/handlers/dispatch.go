package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nextclass/nextclass-backend/internal/prompts"
	"github.com/nextclass/nextclass-backend/internal/requestdata"
	"github.com/nextclass/nextclass-backend/internal/services"
	"github.com/nextclass/nextclass-backend/internal/types"
)

// DispatchHandler exposes the fire-and-forget generation endpoints. Each
// handler validates ownership, inserts a PENDING job and returns its id; the
// worker picks the row up on its own schedule.
type DispatchHandler struct {
	jobs services.JobService
}

func NewDispatchHandler(jobs services.JobService) *DispatchHandler {
	return &DispatchHandler{jobs: jobs}
}

// POST /api/lectures/:id/quiz
func (h *DispatchHandler) GenerateQuiz(c *gin.Context) {
	h.dispatchForLecture(c, types.JobTypeGenerateQuiz)
}

// POST /api/lectures/:id/flashcards
func (h *DispatchHandler) GenerateFlashcards(c *gin.Context) {
	h.dispatchForLecture(c, types.JobTypeGenerateFlashcards)
}

// POST /api/lectures/:id/activities/multiple-choice
func (h *DispatchHandler) GenerateMultipleChoiceActivity(c *gin.Context) {
	h.dispatchForLecture(c, types.JobTypeGenerateMultipleChoice)
}

// POST /api/lectures/:id/activities/open-ended
func (h *DispatchHandler) GenerateOpenEndedActivity(c *gin.Context) {
	h.dispatchForLecture(c, types.JobTypeGenerateOpenEndedActivity)
}

// POST /api/lectures/:id/suggestions
func (h *DispatchHandler) GenerateSuggestions(c *gin.Context) {
	h.dispatchForLecture(c, types.JobTypeGenerateSuggestions)
}

// POST /api/lesson-plans
func (h *DispatchHandler) GenerateLessonPlan(c *gin.Context) {
	var body struct {
		Topic   string `json:"topic"`
		Context string `json:"context"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if body.Topic == "" {
		RespondError(c, http.StatusBadRequest, "missing_topic", errors.New("topic is required"))
		return
	}

	teacherID := requestdata.TeacherID(c.Request.Context())
	job, err := h.jobs.Dispatch(c.Request.Context(), teacherID, types.JobTypeGenerateLessonPlan, nil, prompts.Input{
		Topic:   body.Topic,
		Context: body.Context,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "dispatch_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true, "job_id": job.ID})
}

func (h *DispatchHandler) dispatchForLecture(c *gin.Context, jobType types.JobType) {
	lectureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_lecture_id", err)
		return
	}

	teacherID := requestdata.TeacherID(c.Request.Context())
	job, err := h.jobs.Dispatch(c.Request.Context(), teacherID, jobType, &lectureID, prompts.Input{})
	switch {
	case errors.Is(err, services.ErrLectureNotFound):
		RespondError(c, http.StatusNotFound, "lecture_not_found", err)
		return
	case errors.Is(err, services.ErrNotLectureOwner):
		RespondError(c, http.StatusForbidden, "not_lecture_owner", err)
		return
	case err != nil:
		RespondError(c, http.StatusInternalServerError, "dispatch_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true, "job_id": job.ID})
}
