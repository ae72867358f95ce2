package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nextclass/nextclass-backend/internal/logger"
	"github.com/nextclass/nextclass-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.Lecture{},
		&types.TeacherJob{},
		&types.Quiz{},
		&types.FlashcardSet{},
		&types.LessonPlan{},
		&types.Activity{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestJobRepo_ClaimNextPendingPicksOldest(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepo(db, newTestLogger(t))
	ctx := context.Background()

	teacherID := uuid.New()
	first, err := repo.Create(ctx, nil, &types.TeacherJob{
		TeacherID: teacherID,
		JobType:   types.JobTypeGenerateQuiz,
		CreatedAt: time.Now().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := repo.Create(ctx, nil, &types.TeacherJob{
		TeacherID: teacherID,
		JobType:   types.JobTypeGenerateFlashcards,
	}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	claimed, err := repo.ClaimNextPending(ctx, nil)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil || claimed.ID != first.ID {
		t.Fatalf("expected oldest job %s claimed, got %+v", first.ID, claimed)
	}
	if claimed.Status != types.JobStatusProcessing {
		t.Fatalf("claimed job should be PROCESSING, got %s", claimed.Status)
	}

	stored, err := repo.GetByID(ctx, nil, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != types.JobStatusProcessing {
		t.Fatalf("claim not persisted, status=%s", stored.Status)
	}
}

func TestJobRepo_ClaimNextPendingEmptyQueue(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepo(db, newTestLogger(t))

	claimed, err := repo.ClaimNextPending(context.Background(), nil)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed != nil {
		t.Fatalf("expected nil on empty queue, got %+v", claimed)
	}
}

func TestJobRepo_TerminalStatesAreAbsorbing(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepo(db, newTestLogger(t))
	ctx := context.Background()

	job, err := repo.Create(ctx, nil, &types.TeacherJob{
		TeacherID: uuid.New(),
		JobType:   types.JobTypeGenerateQuiz,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := repo.Complete(ctx, nil, job.ID, []byte(`{"quiz_id":"x"}`))
	if err != nil || !ok {
		t.Fatalf("complete: ok=%v err=%v", ok, err)
	}

	ok, err = repo.Fail(ctx, nil, job.ID, "should not overwrite")
	if err != nil {
		t.Fatalf("fail: %v", err)
	}
	if ok {
		t.Fatalf("Fail overwrote a COMPLETED job")
	}
	ok, err = repo.MarkProcessing(ctx, nil, job.ID)
	if err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	if ok {
		t.Fatalf("MarkProcessing resurrected a COMPLETED job")
	}

	stored, err := repo.GetByID(ctx, nil, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != types.JobStatusCompleted {
		t.Fatalf("status regressed to %s", stored.Status)
	}
	if stored.ErrorMessage != "" {
		t.Fatalf("error message written on a COMPLETED job: %q", stored.ErrorMessage)
	}
}

func TestJobRepo_GetByIDUnknownReturnsNil(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepo(db, newTestLogger(t))

	job, err := repo.GetByID(context.Background(), nil, uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job != nil {
		t.Fatalf("expected nil for unknown id, got %+v", job)
	}
}

func TestQuizRepo_ReplaceForLectureKeepsOneRow(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	repo := NewQuizRepo(db, log)
	ctx := context.Background()

	lectureID := uuid.New()
	teacherID := uuid.New()
	firstQuiz, err := repo.ReplaceForLecture(ctx, nil, &types.Quiz{
		LectureID: lectureID,
		TeacherID: teacherID,
		Title:     "Primeira versão",
		Questions: []byte(`[{"question":"q1"}]`),
	})
	if err != nil {
		t.Fatalf("first replace: %v", err)
	}
	secondQuiz, err := repo.ReplaceForLecture(ctx, nil, &types.Quiz{
		LectureID: lectureID,
		TeacherID: teacherID,
		Title:     "Segunda versão",
		Questions: []byte(`[{"question":"q2"}]`),
	})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if firstQuiz.ID == secondQuiz.ID {
		t.Fatalf("replacement should insert a new row")
	}

	var count int64
	if err := db.Model(&types.Quiz{}).Where("lecture_id = ?", lectureID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one live quiz, got %d", count)
	}
	live, err := repo.GetByLecture(ctx, nil, lectureID)
	if err != nil {
		t.Fatalf("get by lecture: %v", err)
	}
	if live == nil || live.Title != "Segunda versão" {
		t.Fatalf("live quiz is not the replacement: %+v", live)
	}
}
