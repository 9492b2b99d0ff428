package models

// StatsFilter scopes a statistics computation to one student and,
// optionally, one activity and one class.
type StatsFilter struct {
	StudentID  int64  `json:"studentId" validate:"required,gt=0"`
	ActivityID *int64 `json:"activityId,omitempty" validate:"omitempty,gt=0"`
	ClassID    *int64 `json:"classId,omitempty" validate:"omitempty,gt=0"`
}

// Graded narrows the filter to the fields graded responses can be scoped by.
// Graded responses carry no class, so ClassID is dropped.
func (f StatsFilter) Graded(correctOnly bool) GradedFilter {
	return GradedFilter{
		StudentID:   f.StudentID,
		ActivityID:  f.ActivityID,
		CorrectOnly: correctOnly,
	}
}

// Plugged narrows the filter for plugged attempts
func (f StatsFilter) Plugged(positiveScoreOnly bool) PluggedFilter {
	return PluggedFilter{
		StudentID:         f.StudentID,
		ActivityID:        f.ActivityID,
		ClassID:           f.ClassID,
		PositiveScoreOnly: positiveScoreOnly,
	}
}

// GradedFilter selects graded responses
type GradedFilter struct {
	StudentID  int64
	ActivityID *int64
	// CorrectOnly keeps responses with score > 0 or a correct linked option
	CorrectOnly bool
}

// PluggedFilter selects plugged attempts
type PluggedFilter struct {
	StudentID  int64
	ActivityID *int64
	ClassID    *int64
	// PositiveScoreOnly keeps attempts whose score is strictly positive
	PositiveScoreOnly bool
}

// PluggedCandidate is the minimal projection of a plugged attempt whose
// correctness has to be decided by comparing values.
type PluggedCandidate struct {
	SelectedValue any
	CorrectValue  any
	Score         *float64
}

// AggregateResult is a point-in-time snapshot of a student's attempts
type AggregateResult struct {
	TotalAttempts int64 `json:"totalAttempts"`
	Correct       int64 `json:"correct"`
}

// Add merges another partial result into r
func (r *AggregateResult) Add(other AggregateResult) {
	r.TotalAttempts += other.TotalAttempts
	r.Correct += other.Correct
}

// Accuracy returns correct/total as a percentage, 0 when there are no attempts
func (r AggregateResult) Accuracy() float64 {
	if r.TotalAttempts == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.TotalAttempts) * 100
}
