package types

import "testing"

func TestParseJobType(t *testing.T) {
	for _, raw := range []string{
		"GENERATE_QUIZ",
		"GENERATE_FLASHCARDS",
		"GENERATE_LESSON_PLAN",
		"GENERATE_MULTIPLE_CHOICE_ACTIVITY",
		"GENERATE_OPEN_ENDED_ACTIVITY",
		"GENERATE_SUGGESTIONS",
	} {
		jt, err := ParseJobType(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if string(jt) != raw {
			t.Fatalf("parse %q returned %q", raw, jt)
		}
	}
	if _, err := ParseJobType("GENERATE_ANYTHING"); err == nil {
		t.Fatalf("expected error for unknown job type")
	}
	if _, err := ParseJobType("generate_quiz"); err == nil {
		t.Fatalf("job types are case-sensitive")
	}
}

func TestJobStatusTerminal(t *testing.T) {
	if JobStatusPending.Terminal() || JobStatusProcessing.Terminal() {
		t.Fatalf("live statuses must not be terminal")
	}
	if !JobStatusCompleted.Terminal() || !JobStatusFailed.Terminal() {
		t.Fatalf("COMPLETED and FAILED must be terminal")
	}
}
