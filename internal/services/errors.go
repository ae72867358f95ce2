package services

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrJobNotFound means the referenced job id does not exist. Surfaced as
	// HTTP 404, never retried.
	ErrJobNotFound = errors.New("job not found")

	// ErrCompletionTimeout means the completion-service call exceeded its
	// bound. The job is FAILED; retry is a manual re-dispatch.
	ErrCompletionTimeout = errors.New("completion service call exceeded timeout")

	// ErrMalformedResult means the completion service returned text that is
	// not parseable JSON or lacks the fields the job type requires. The raw
	// text is not persisted.
	ErrMalformedResult = errors.New("completion service returned a malformed result")

	ErrLectureNotFound    = errors.New("lecture not found")
	ErrNotLectureOwner    = errors.New("lecture does not belong to the requesting teacher")
	ErrLessonPlanNotFound = errors.New("lesson plan not found")
)

// CompletionError is a non-2xx response from the completion service. The
// rate-limit and billing variants carry distinguishable messages; none are
// retried automatically.
type CompletionError struct {
	Status int
	Body   string
}

func (e *CompletionError) Error() string {
	switch e.Status {
	case http.StatusTooManyRequests:
		return "completion service rate limited (429)"
	case http.StatusPaymentRequired:
		return "completion service billing limit reached (402)"
	default:
		return fmt.Sprintf("completion service error (status %d)", e.Status)
	}
}
