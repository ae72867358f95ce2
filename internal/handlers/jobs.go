package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nextclass/nextclass-backend/internal/requestdata"
	"github.com/nextclass/nextclass-backend/internal/services"
)

type JobsHandler struct {
	jobs services.JobService
}

func NewJobsHandler(jobs services.JobService) *JobsHandler {
	return &JobsHandler{jobs: jobs}
}

// GET /api/jobs/:id
func (h *JobsHandler) GetJobByID(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	teacherID := requestdata.TeacherID(c.Request.Context())
	job, err := h.jobs.GetForTeacher(c.Request.Context(), teacherID, jobID)
	if errors.Is(err, services.ErrJobNotFound) {
		RespondError(c, http.StatusNotFound, "job_not_found", err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "job_lookup_failed", err)
		return
	}

	RespondOK(c, gin.H{"job": job})
}

// GET /api/jobs
func (h *JobsHandler) ListJobs(c *gin.Context) {
	teacherID := requestdata.TeacherID(c.Request.Context())
	jobs, err := h.jobs.ListForTeacher(c.Request.Context(), teacherID, 50)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "job_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"jobs": jobs})
}

// POST /api/jobs/run
//
// Synchronous runner invocation: runs the job to a terminal state before
// responding. Unknown ids are 404; a failed run responds 500 only after the
// FAILED status is already persisted on the row.
func (h *JobsHandler) RunJob(c *gin.Context) {
	var body struct {
		JobID uuid.UUID `json:"job_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if body.JobID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_job_id", errors.New("missing job_id"))
		return
	}

	runErr := h.jobs.Run(c.Request.Context(), body.JobID)
	if errors.Is(runErr, services.ErrJobNotFound) {
		RespondError(c, http.StatusNotFound, "job_not_found", runErr)
		return
	}
	if runErr != nil {
		RespondError(c, http.StatusInternalServerError, "job_failed", runErr)
		return
	}

	teacherID := requestdata.TeacherID(c.Request.Context())
	job, err := h.jobs.GetForTeacher(c.Request.Context(), teacherID, body.JobID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "job_lookup_failed", err)
		return
	}
	RespondOK(c, gin.H{"job": job})
}
