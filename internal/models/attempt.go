package models

import "time"

// ActivityKind tells plugged (computer-based) and unplugged activities apart
type ActivityKind string

const (
	ActivityPlugged   ActivityKind = "plugged"
	ActivityUnplugged ActivityKind = "unplugged"
)

// GradedResponse is a student's submission for an unplugged activity
type GradedResponse struct {
	ID          int64
	StudentID   int64
	ActivityID  int64
	Answer      string
	Score       *float64 // nil until a teacher grades it
	OptionID    *int64   // chosen multiple-choice option, if any
	Feedback    *string
	SubmittedAt time.Time
}

// ActivityOption is one multiple-choice option of an activity
type ActivityOption struct {
	ID         int64
	ActivityID int64
	Label      string
	IsCorrect  bool
}

// PluggedAttempt is one generated counting-game puzzle and the student's answer.
// CorrectValue and SelectedValue come back from storage as whatever the driver
// produced (int64, float64, string or []byte) and must be compared through
// scoring.ValuesMatch.
type PluggedAttempt struct {
	ID            int64
	StudentID     int64
	ActivityID    int64
	ClassID       *int64
	CorrectValue  any
	SelectedValue any
	Score         *float64
	CreatedAt     time.Time
}

// Answered reports whether the student submitted a selection
func (a *PluggedAttempt) Answered() bool {
	return a.SelectedValue != nil
}
