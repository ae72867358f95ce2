package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nextclass/nextclass-backend/internal/prompts"
	"github.com/nextclass/nextclass-backend/internal/requestdata"
	"github.com/nextclass/nextclass-backend/internal/services"
	"github.com/nextclass/nextclass-backend/internal/types"
)

type fakeJobService struct {
	jobs        map[uuid.UUID]*types.TeacherJob
	runErr      error
	dispatched  []*types.TeacherJob
	dispatchErr error
}

func (f *fakeJobService) Dispatch(ctx context.Context, teacherID uuid.UUID, jobType types.JobType, lectureID *uuid.UUID, input prompts.Input) (*types.TeacherJob, error) {
	if f.dispatchErr != nil {
		return nil, f.dispatchErr
	}
	job := &types.TeacherJob{
		ID:        uuid.New(),
		TeacherID: teacherID,
		LectureID: lectureID,
		JobType:   jobType,
		Status:    types.JobStatusPending,
	}
	f.dispatched = append(f.dispatched, job)
	if f.jobs == nil {
		f.jobs = map[uuid.UUID]*types.TeacherJob{}
	}
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeJobService) Run(ctx context.Context, jobID uuid.UUID) error {
	if _, ok := f.jobs[jobID]; !ok {
		return services.ErrJobNotFound
	}
	return f.runErr
}

func (f *fakeJobService) GetForTeacher(ctx context.Context, teacherID, jobID uuid.UUID) (*types.TeacherJob, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.TeacherID != teacherID {
		return nil, services.ErrJobNotFound
	}
	return job, nil
}

func (f *fakeJobService) ListForTeacher(ctx context.Context, teacherID uuid.UUID, limit int) ([]*types.TeacherJob, error) {
	var out []*types.TeacherJob
	for _, job := range f.jobs {
		if job.TeacherID == teacherID {
			out = append(out, job)
		}
	}
	return out, nil
}

func asTeacher(teacherID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := &requestdata.RequestData{TeacherID: teacherID}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

func newJobsRouter(teacherID uuid.UUID, svc services.JobService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewJobsHandler(svc)
	d := NewDispatchHandler(svc)
	api := router.Group("/api", asTeacher(teacherID))
	api.GET("/jobs/:id", h.GetJobByID)
	api.POST("/jobs/run", h.RunJob)
	api.POST("/lectures/:id/quiz", d.GenerateQuiz)
	api.POST("/lesson-plans", d.GenerateLessonPlan)
	return router
}

func TestGetJobByID_NotFound(t *testing.T) {
	teacherID := uuid.New()
	router := newJobsRouter(teacherID, &fakeJobService{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetJobByID_HidesOtherTeachersJobs(t *testing.T) {
	teacherID := uuid.New()
	otherJob := &types.TeacherJob{ID: uuid.New(), TeacherID: uuid.New(), Status: types.JobStatusPending}
	svc := &fakeJobService{jobs: map[uuid.UUID]*types.TeacherJob{otherJob.ID: otherJob}}
	router := newJobsRouter(teacherID, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+otherJob.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign job, got %d", rec.Code)
	}
}

func TestRunJob_UnknownID(t *testing.T) {
	router := newJobsRouter(uuid.New(), &fakeJobService{})

	body := strings.NewReader(`{"job_id":"` + uuid.NewString() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/run", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRunJob_FailureIsInternalError(t *testing.T) {
	teacherID := uuid.New()
	job := &types.TeacherJob{ID: uuid.New(), TeacherID: teacherID, Status: types.JobStatusPending}
	svc := &fakeJobService{
		jobs:   map[uuid.UUID]*types.TeacherJob{job.ID: job},
		runErr: services.ErrCompletionTimeout,
	}
	router := newJobsRouter(teacherID, svc)

	body := strings.NewReader(`{"job_id":"` + job.ID.String() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/run", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if !strings.Contains(envelope.Error.Message, "timeout") {
		t.Fatalf("error message should carry the cause: %q", envelope.Error.Message)
	}
}

func TestGenerateQuiz_ReturnsJobID(t *testing.T) {
	teacherID := uuid.New()
	svc := &fakeJobService{}
	router := newJobsRouter(teacherID, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/lectures/"+uuid.NewString()+"/quiz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool      `json:"success"`
		JobID   uuid.UUID `json:"job_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.JobID == uuid.Nil {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
	if len(svc.dispatched) != 1 || svc.dispatched[0].JobType != types.JobTypeGenerateQuiz {
		t.Fatalf("dispatch not recorded: %+v", svc.dispatched)
	}
}

func TestGenerateQuiz_ForeignLectureIsForbidden(t *testing.T) {
	svc := &fakeJobService{dispatchErr: services.ErrNotLectureOwner}
	router := newJobsRouter(uuid.New(), svc)

	req := httptest.NewRequest(http.MethodPost, "/api/lectures/"+uuid.NewString()+"/quiz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestGenerateLessonPlan_RequiresTopic(t *testing.T) {
	router := newJobsRouter(uuid.New(), &fakeJobService{})

	req := httptest.NewRequest(http.MethodPost, "/api/lesson-plans", strings.NewReader(`{"context":"sem tema"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
