package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/nextclass/nextclass-backend/internal/content"
	"github.com/nextclass/nextclass-backend/internal/logger"
	"github.com/nextclass/nextclass-backend/internal/prompts"
	"github.com/nextclass/nextclass-backend/internal/repos"
	"github.com/nextclass/nextclass-backend/internal/types"
)

// JobService owns the teacher-job lifecycle: PENDING -> PROCESSING ->
// {COMPLETED, FAILED}, terminal states absorbing. Dispatch creates the row;
// Run executes it. The row itself is the only synchronization point between
// the two.
type JobService interface {
	Dispatch(ctx context.Context, teacherID uuid.UUID, jobType types.JobType, lectureID *uuid.UUID, input prompts.Input) (*types.TeacherJob, error)
	// Run executes one job to a terminal state. Failures are persisted on
	// the job row before they are returned; ErrJobNotFound is returned when
	// the id is unknown; a job already terminal is a no-op.
	Run(ctx context.Context, jobID uuid.UUID) error
	GetForTeacher(ctx context.Context, teacherID, jobID uuid.UUID) (*types.TeacherJob, error)
	ListForTeacher(ctx context.Context, teacherID uuid.UUID, limit int) ([]*types.TeacherJob, error)
}

type jobService struct {
	db             *gorm.DB
	log            *logger.Logger
	jobRepo        repos.JobRepo
	lectureRepo    repos.LectureRepo
	quizRepo       repos.QuizRepo
	flashcardRepo  repos.FlashcardSetRepo
	lessonPlanRepo repos.LessonPlanRepo
	activityRepo   repos.ActivityRepo
	completion     CompletionClient
	notifier       JobNotifier
	style          prompts.Style
	timeout        time.Duration
}

func NewJobService(
	db *gorm.DB,
	log *logger.Logger,
	jobRepo repos.JobRepo,
	lectureRepo repos.LectureRepo,
	quizRepo repos.QuizRepo,
	flashcardRepo repos.FlashcardSetRepo,
	lessonPlanRepo repos.LessonPlanRepo,
	activityRepo repos.ActivityRepo,
	completion CompletionClient,
	notifier JobNotifier,
	style prompts.Style,
	timeout time.Duration,
) JobService {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &jobService{
		db:             db,
		log:            log.With("service", "JobService"),
		jobRepo:        jobRepo,
		lectureRepo:    lectureRepo,
		quizRepo:       quizRepo,
		flashcardRepo:  flashcardRepo,
		lessonPlanRepo: lessonPlanRepo,
		activityRepo:   activityRepo,
		completion:     completion,
		notifier:       notifier,
		style:          style,
		timeout:        timeout,
	}
}

func (s *jobService) Dispatch(ctx context.Context, teacherID uuid.UUID, jobType types.JobType, lectureID *uuid.UUID, input prompts.Input) (*types.TeacherJob, error) {
	if lectureID != nil {
		lecture, err := s.lectureRepo.GetByID(ctx, nil, *lectureID)
		if err != nil {
			return nil, err
		}
		if lecture == nil {
			return nil, ErrLectureNotFound
		}
		if lecture.TeacherID != teacherID {
			return nil, ErrNotLectureOwner
		}
		if input.Title == "" {
			input.Title = lecture.Title
		}
		if input.Transcript == "" {
			input.Transcript = lecture.Transcript
		}
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal job input: %w", err)
	}
	job := &types.TeacherJob{
		TeacherID:    teacherID,
		LectureID:    lectureID,
		JobType:      jobType,
		Status:       types.JobStatusPending,
		InputPayload: datatypes.JSON(payload),
	}
	job, err = s.jobRepo.Create(ctx, nil, job)
	if err != nil {
		return nil, err
	}
	s.log.Info("Job dispatched", "job_id", job.ID, "job_type", job.JobType, "teacher_id", teacherID)
	s.notifier.JobStatusChanged(ctx, job)
	return job, nil
}

func (s *jobService) GetForTeacher(ctx context.Context, teacherID, jobID uuid.UUID) (*types.TeacherJob, error) {
	job, err := s.jobRepo.GetByID(ctx, nil, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.TeacherID != teacherID {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (s *jobService) ListForTeacher(ctx context.Context, teacherID uuid.UUID, limit int) ([]*types.TeacherJob, error) {
	return s.jobRepo.ListByTeacher(ctx, nil, teacherID, limit)
}

func (s *jobService) Run(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobRepo.GetByID(ctx, nil, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return ErrJobNotFound
	}
	if job.Status.Terminal() {
		// Re-invocation of a finished job is a no-op: the first terminal
		// result wins and is never overwritten.
		s.log.Debug("Job already terminal, skipping", "job_id", job.ID, "status", job.Status)
		return nil
	}

	// Persist PROCESSING immediately so a concurrent duplicate invocation
	// sees it. This is a best-effort guard, not a lock.
	if ok, err := s.jobRepo.MarkProcessing(ctx, nil, job.ID); err != nil {
		return err
	} else if !ok {
		return nil
	}
	job.Status = types.JobStatusProcessing
	s.notifier.JobStatusChanged(ctx, job)

	if runErr := s.execute(ctx, job); runErr != nil {
		s.fail(ctx, job, runErr)
		return runErr
	}
	return nil
}

func (s *jobService) execute(ctx context.Context, job *types.TeacherJob) error {
	var input prompts.Input
	if len(job.InputPayload) > 0 {
		if err := json.Unmarshal(job.InputPayload, &input); err != nil {
			return fmt.Errorf("%w: bad input payload: %v", ErrMalformedResult, err)
		}
	}
	system, user, err := prompts.Build(job.JobType, input, s.style)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	raw, err := s.completion.Complete(callCtx, system, user)
	if err != nil {
		return err
	}

	result, err := s.persistResult(ctx, job, raw)
	if err != nil {
		return err
	}

	ok, err := s.jobRepo.Complete(ctx, nil, job.ID, result)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Warn("Job reached terminal state elsewhere, result discarded", "job_id", job.ID)
		return nil
	}
	job.Status = types.JobStatusCompleted
	job.ResultPayload = result
	s.log.Info("Job completed", "job_id", job.ID, "job_type", job.JobType)
	s.notifier.JobStatusChanged(ctx, job)
	return nil
}

// persistResult parses the model output for the job type, writes any derived
// records (published quiz, flashcard set, lesson plan, activity) and returns
// the result payload to store on the job row.
func (s *jobService) persistResult(ctx context.Context, job *types.TeacherJob, raw string) (datatypes.JSON, error) {
	switch job.JobType {
	case types.JobTypeGenerateQuiz:
		return s.persistQuiz(ctx, job, raw)
	case types.JobTypeGenerateFlashcards:
		return s.persistFlashcards(ctx, job, raw)
	case types.JobTypeGenerateLessonPlan:
		return s.persistLessonPlan(ctx, job, raw)
	case types.JobTypeGenerateMultipleChoice:
		return s.persistActivity(ctx, job, raw, types.ActivityKindMultipleChoice)
	case types.JobTypeGenerateOpenEndedActivity:
		return s.persistActivity(ctx, job, raw, types.ActivityKindOpenEnded)
	case types.JobTypeGenerateSuggestions:
		return s.persistSuggestions(raw)
	default:
		return nil, fmt.Errorf("no result handler for job type %q", job.JobType)
	}
}

func (s *jobService) persistQuiz(ctx context.Context, job *types.TeacherJob, raw string) (datatypes.JSON, error) {
	var parsed struct {
		Title     string            `json:"title"`
		Questions []json.RawMessage `json:"questions"`
	}
	if err := decodeModelJSON(raw, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("%w: missing questions array", ErrMalformedResult)
	}
	if job.LectureID == nil {
		return nil, fmt.Errorf("%w: quiz job without lecture", ErrMalformedResult)
	}

	questions, err := json.Marshal(parsed.Questions)
	if err != nil {
		return nil, err
	}
	quiz := &types.Quiz{
		LectureID: *job.LectureID,
		TeacherID: job.TeacherID,
		Title:     parsed.Title,
		Questions: datatypes.JSON(questions),
	}
	quiz, err = s.quizRepo.ReplaceForLecture(ctx, nil, quiz)
	if err != nil {
		return nil, err
	}
	return marshalResult(map[string]any{
		"quiz_id":   quiz.ID,
		"title":     parsed.Title,
		"questions": parsed.Questions,
	})
}

func (s *jobService) persistFlashcards(ctx context.Context, job *types.TeacherJob, raw string) (datatypes.JSON, error) {
	var parsed struct {
		Title string            `json:"title"`
		Cards []json.RawMessage `json:"cards"`
	}
	if err := decodeModelJSON(raw, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Cards) == 0 {
		return nil, fmt.Errorf("%w: missing cards array", ErrMalformedResult)
	}
	if job.LectureID == nil {
		return nil, fmt.Errorf("%w: flashcard job without lecture", ErrMalformedResult)
	}

	cards, err := json.Marshal(parsed.Cards)
	if err != nil {
		return nil, err
	}
	set := &types.FlashcardSet{
		LectureID: *job.LectureID,
		TeacherID: job.TeacherID,
		Title:     parsed.Title,
		Cards:     datatypes.JSON(cards),
	}
	set, err = s.flashcardRepo.ReplaceForLecture(ctx, nil, set)
	if err != nil {
		return nil, err
	}
	return marshalResult(map[string]any{
		"flashcard_set_id": set.ID,
		"title":            parsed.Title,
		"cards":            parsed.Cards,
	})
}

func (s *jobService) persistLessonPlan(ctx context.Context, job *types.TeacherJob, raw string) (datatypes.JSON, error) {
	var parsed struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := decodeModelJSON(raw, &parsed); err != nil {
		return nil, err
	}
	if parsed.Content == "" {
		return nil, fmt.Errorf("%w: missing content field", ErrMalformedResult)
	}

	var input prompts.Input
	_ = json.Unmarshal(job.InputPayload, &input)
	topic := input.Topic
	if topic == "" {
		topic = parsed.Title
	}
	plan := &types.LessonPlan{
		TeacherID: job.TeacherID,
		Topic:     topic,
		Content:   content.SanitizeGeneratedMarkdown(parsed.Content),
	}
	plan, err := s.lessonPlanRepo.Create(ctx, nil, plan)
	if err != nil {
		return nil, err
	}
	return marshalResult(map[string]any{
		"lesson_plan_id": plan.ID,
		"title":          parsed.Title,
	})
}

func (s *jobService) persistActivity(ctx context.Context, job *types.TeacherJob, raw string, kind types.ActivityKind) (datatypes.JSON, error) {
	var parsed struct {
		Title string            `json:"title"`
		Items []json.RawMessage `json:"items"`
	}
	if err := decodeModelJSON(raw, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("%w: missing items array", ErrMalformedResult)
	}
	if job.LectureID == nil {
		return nil, fmt.Errorf("%w: activity job without lecture", ErrMalformedResult)
	}

	items, err := json.Marshal(parsed.Items)
	if err != nil {
		return nil, err
	}
	activity := &types.Activity{
		LectureID: *job.LectureID,
		TeacherID: job.TeacherID,
		Kind:      kind,
		Title:     parsed.Title,
		Items:     datatypes.JSON(items),
	}
	activity, err = s.activityRepo.Create(ctx, nil, activity)
	if err != nil {
		return nil, err
	}
	return marshalResult(map[string]any{
		"activity_id": activity.ID,
		"title":       parsed.Title,
		"items":       parsed.Items,
	})
}

func (s *jobService) persistSuggestions(raw string) (datatypes.JSON, error) {
	var parsed struct {
		Suggestions []json.RawMessage `json:"suggestions"`
	}
	if err := decodeModelJSON(raw, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Suggestions) == 0 {
		return nil, fmt.Errorf("%w: missing suggestions array", ErrMalformedResult)
	}
	return marshalResult(map[string]any{
		"suggestions": parsed.Suggestions,
	})
}

// fail persists the FAILED state. The guarded update means a job that is
// somehow already terminal keeps its first outcome.
func (s *jobService) fail(ctx context.Context, job *types.TeacherJob, cause error) {
	msg := cause.Error()
	ok, err := s.jobRepo.Fail(ctx, nil, job.ID, msg)
	if err != nil {
		s.log.Error("Failed to persist job failure", "job_id", job.ID, "error", err, "cause", msg)
		return
	}
	if !ok {
		return
	}
	job.Status = types.JobStatusFailed
	job.ErrorMessage = msg
	s.log.Warn("Job failed", "job_id", job.ID, "job_type", job.JobType, "error", msg)
	s.notifier.JobStatusChanged(ctx, job)
}

func decodeModelJSON(raw string, out any) error {
	cleaned := content.SanitizeModelJSON(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	return nil
}

func marshalResult(payload map[string]any) (datatypes.JSON, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
