package main

import (
	"context"

	"activityhub/internal/models"
	"activityhub/internal/repository"
)

type demoIDs struct {
	StudentID  int64
	ActivityID int64
}

// seedDemo inserts one student with two graded responses and three plugged
// attempts on a single activity. Statistics for the pair are 5 attempts,
// 3 correct.
func seedDemo(ctx context.Context, responses *repository.ResponseRepository, roster *repository.RosterRepository) (demoIDs, error) {
	var ids demoIDs
	var err error

	if ids.StudentID, err = roster.CreateStudent(ctx, "Demo student"); err != nil {
		return ids, err
	}
	if ids.ActivityID, err = roster.CreateActivity(ctx, "Binary cards", models.ActivityPlugged); err != nil {
		return ids, err
	}

	score := func(v float64) *float64 { return &v }

	graded := []models.GradedResponse{
		{Answer: "drew the pixel grid", Score: score(8)},
		{Answer: "sorted the cards", Score: score(0)},
	}
	for i := range graded {
		graded[i].StudentID = ids.StudentID
		graded[i].ActivityID = ids.ActivityID
		if _, err := responses.CreateGradedResponse(ctx, &graded[i]); err != nil {
			return ids, err
		}
	}

	plugged := []models.PluggedAttempt{
		// scored: correct regardless of the selection
		{CorrectValue: int64(3), SelectedValue: int64(1), Score: score(6)},
		// unscored: number matches numeric string
		{CorrectValue: "12", SelectedValue: int64(12)},
		// never answered
		{CorrectValue: "5"},
	}
	for i := range plugged {
		plugged[i].StudentID = ids.StudentID
		plugged[i].ActivityID = ids.ActivityID
		if _, err := responses.CreatePluggedAttempt(ctx, &plugged[i]); err != nil {
			return ids, err
		}
	}

	return ids, nil
}
