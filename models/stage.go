package models

import "fmt"

// Stage is the application's position in the hiring pipeline.
//
// Forward order:
//
//	shortlisting → screening → assignment-sent → assignment-submitted
//	    → interview → offer-sent → offer-accepted → hired
//
// rejected is a separate terminal state reachable from any non-terminal
// stage and has no position in the forward order.
type Stage string

const (
	StageShortlisting        Stage = "shortlisting"
	StageScreening           Stage = "screening"
	StageAssignmentSent      Stage = "assignment-sent"
	StageAssignmentSubmitted Stage = "assignment-submitted"
	StageInterview           Stage = "interview"
	StageOfferSent           Stage = "offer-sent"
	StageOfferAccepted       Stage = "offer-accepted"
	StageHired               Stage = "hired"
	StageRejected            Stage = "rejected"
)

// StageOrder is the canonical forward progression. rejected is excluded and
// must never be compared by position.
var StageOrder = []Stage{
	StageShortlisting,
	StageScreening,
	StageAssignmentSent,
	StageAssignmentSubmitted,
	StageInterview,
	StageOfferSent,
	StageOfferAccepted,
	StageHired,
}

var stageRank = func() map[Stage]int {
	ranks := make(map[Stage]int, len(StageOrder))
	for i, s := range StageOrder {
		ranks[s] = i
	}
	return ranks
}()

// ParseStage converts a raw string to a Stage, returning an error for
// unknown values.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if _, ok := stageRank[st]; ok {
		return st, nil
	}
	if st == StageRejected {
		return st, nil
	}
	return "", fmt.Errorf("unknown pipeline stage %q", s)
}

// IsValid reports whether s is one of the nine enumerated stages.
func (s Stage) IsValid() bool {
	_, err := ParseStage(string(s))
	return err == nil
}

// IsTerminal reports whether s is an absorbing state.
func (s Stage) IsTerminal() bool {
	return s == StageHired || s == StageRejected
}

// Before reports whether s comes strictly earlier than other in the
// canonical order. Either side being rejected yields false: rejected has no
// order position.
func (s Stage) Before(other Stage) bool {
	a, okA := stageRank[s]
	b, okB := stageRank[other]
	return okA && okB && a < b
}

// Label returns the stage name shown in task lists and emails.
func (s Stage) Label() string {
	switch s {
	case StageShortlisting:
		return "Shortlisting"
	case StageScreening:
		return "Screening"
	case StageAssignmentSent:
		return "Assignment Sent"
	case StageAssignmentSubmitted:
		return "Assignment Submitted"
	case StageInterview:
		return "Interview"
	case StageOfferSent:
		return "Offer Sent"
	case StageOfferAccepted:
		return "Offer Accepted"
	case StageHired:
		return "Hired"
	case StageRejected:
		return "Rejected"
	}
	return string(s)
}
