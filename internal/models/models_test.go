package models

import "testing"

func TestAggregateResultAdd(t *testing.T) {
	result := AggregateResult{}
	result.Add(AggregateResult{TotalAttempts: 2, Correct: 1})
	result.Add(AggregateResult{TotalAttempts: 3, Correct: 2})

	if result.TotalAttempts != 5 || result.Correct != 3 {
		t.Errorf("Add() = %+v, want {5 3}", result)
	}
}

func TestAggregateResultAccuracy(t *testing.T) {
	tests := []struct {
		name   string
		result AggregateResult
		want   float64
	}{
		{
			name:   "no attempts",
			result: AggregateResult{},
			want:   0,
		},
		{
			name:   "all correct",
			result: AggregateResult{TotalAttempts: 4, Correct: 4},
			want:   100,
		},
		{
			name:   "partial",
			result: AggregateResult{TotalAttempts: 5, Correct: 3},
			want:   60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Accuracy(); got != tt.want {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatsFilterNarrowing(t *testing.T) {
	activity := int64(7)
	class := int64(3)
	filter := StatsFilter{StudentID: 42, ActivityID: &activity, ClassID: &class}

	graded := filter.Graded(true)
	if graded.StudentID != 42 || graded.ActivityID != &activity || !graded.CorrectOnly {
		t.Errorf("Graded(true) = %+v", graded)
	}

	plugged := filter.Plugged(false)
	if plugged.StudentID != 42 || plugged.ActivityID != &activity || plugged.ClassID != &class {
		t.Errorf("Plugged(false) = %+v", plugged)
	}
	if plugged.PositiveScoreOnly {
		t.Error("Plugged(false) should not restrict to positive scores")
	}
}

func TestPluggedAttemptAnswered(t *testing.T) {
	attempt := PluggedAttempt{CorrectValue: int64(5)}
	if attempt.Answered() {
		t.Error("new attempt should not be answered")
	}

	attempt.SelectedValue = "5"
	if !attempt.Answered() {
		t.Error("attempt with a selection should be answered")
	}
}
