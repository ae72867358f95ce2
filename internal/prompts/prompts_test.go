package prompts

import (
	"strings"
	"testing"

	"github.com/nextclass/nextclass-backend/internal/types"
)

func TestBuild_QuizPromptCarriesStyleAndTranscript(t *testing.T) {
	style := DefaultStyle()
	style.QuestionCount = 7
	in := Input{Title: "Leis de Newton", Transcript: "A primeira lei diz que..."}

	system, user, err := Build(types.JobTypeGenerateQuiz, in, style)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(system, style.Language) {
		t.Fatalf("system prompt missing language: %q", system)
	}
	if !strings.Contains(user, "7 questões") {
		t.Fatalf("question count not applied: %q", user)
	}
	if !strings.Contains(user, "Leis de Newton") || !strings.Contains(user, "A primeira lei diz que...") {
		t.Fatalf("lecture source missing: %q", user)
	}
	if !strings.Contains(user, `"questions"`) {
		t.Fatalf("JSON contract missing: %q", user)
	}
}

func TestBuild_EveryJobTypeHasAPrompt(t *testing.T) {
	jobTypes := []types.JobType{
		types.JobTypeGenerateQuiz,
		types.JobTypeGenerateFlashcards,
		types.JobTypeGenerateLessonPlan,
		types.JobTypeGenerateMultipleChoice,
		types.JobTypeGenerateOpenEndedActivity,
		types.JobTypeGenerateSuggestions,
	}
	for _, jt := range jobTypes {
		system, user, err := Build(jt, Input{Title: "Aula", Topic: "Tema"}, DefaultStyle())
		if err != nil {
			t.Fatalf("build %s: %v", jt, err)
		}
		if system == "" || user == "" {
			t.Fatalf("empty prompt for %s", jt)
		}
	}
}

func TestBuild_UnknownTypeIsAnError(t *testing.T) {
	if _, _, err := Build(types.JobType("GENERATE_SOMETHING"), Input{}, DefaultStyle()); err == nil {
		t.Fatalf("expected error for unknown job type")
	}
}

func TestLoadStyle_EmptyPathReturnsDefaults(t *testing.T) {
	style, err := LoadStyle("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if style != DefaultStyle() {
		t.Fatalf("expected defaults, got %+v", style)
	}
}
