package assessments

import (
	"errors"
	"fmt"

	"mindhub-service/internal/app/models"
)

// ErrUnknownTemplate is returned by Create when the requested template id is
// not in the catalog.
var ErrUnknownTemplate = errors.New("unknown template id")

// ErrFinalized is returned when a mutation reaches an assessment already in a
// terminal state.
var ErrFinalized = errors.New("assessment already finalized")

// InvalidTransitionError reports a state-machine guard failure. Callers can
// branch on it to distinguish double-submission bugs from other failures.
type InvalidTransitionError struct {
	From models.AssessmentStatus
	To   models.AssessmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid assessment transition from %q to %q", e.From, e.To)
}

// guardTransition validates a requested transition against the current
// status before any mutation happens. Terminal states report ErrFinalized so
// callers see "already completed" rather than a generic guard failure.
func guardTransition(current, next models.AssessmentStatus) error {
	if current.Terminal() {
		return fmt.Errorf("%w: %s", ErrFinalized, current)
	}

	switch next {
	case models.AssessmentStatusInProgress:
		if current == models.AssessmentStatusPending {
			return nil
		}
	case models.AssessmentStatusCompleted:
		if current == models.AssessmentStatusInProgress {
			return nil
		}
	case models.AssessmentStatusCancelled:
		if current == models.AssessmentStatusPending || current == models.AssessmentStatusInProgress {
			return nil
		}
	}
	return &InvalidTransitionError{From: current, To: next}
}
