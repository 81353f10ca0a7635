package domain

// CreationState is the phase of the lesson creation flow.
type CreationState int

const (
	CreationIdle CreationState = iota
	CreationFormOpen
	CreationSubmitting
)

func (s CreationState) String() string {
	switch s {
	case CreationIdle:
		return "idle"
	case CreationFormOpen:
		return "form_open"
	case CreationSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// CreationOutcome records how the most recent submission ended.
type CreationOutcome int

const (
	OutcomeNone CreationOutcome = iota
	OutcomeSuccess
	OutcomeFailure
	OutcomeAborted
)

func (o CreationOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeAborted:
		return "aborted"
	default:
		return "none"
	}
}

// PendingCreation exists only while a submission is in flight.
type PendingCreation struct {
	LessonName string
	IsWaiting  bool
}
