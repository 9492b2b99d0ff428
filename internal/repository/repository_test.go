package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activityhub/internal/database"
	"activityhub/internal/models"
)

func ptr[T any](v T) *T { return &v }

// asText normalises driver text values, which may arrive as string or []byte
func asText(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	s, _ := v.(string)
	return s
}

type fixture struct {
	db        *database.DB
	responses *ResponseRepository
	roster    *RosterRepository

	studentID int64
	otherID   int64
	plugged   int64
	unplugged int64
	classID   int64
	rightOpt  int64
	wrongOpt  int64
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.Initialize(ctx, filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:        db,
		responses: NewResponseRepository(db),
		roster:    NewRosterRepository(db),
	}

	f.studentID, err = f.roster.CreateStudent(ctx, "Ana")
	require.NoError(t, err)
	f.otherID, err = f.roster.CreateStudent(ctx, "Bruno")
	require.NoError(t, err)
	f.plugged, err = f.roster.CreateActivity(ctx, "Binary cards", models.ActivityPlugged)
	require.NoError(t, err)
	f.unplugged, err = f.roster.CreateActivity(ctx, "Pixel drawing", models.ActivityUnplugged)
	require.NoError(t, err)
	f.classID, err = f.roster.CreateClass(ctx, "5A")
	require.NoError(t, err)
	f.rightOpt, err = f.roster.CreateActivityOption(ctx, &models.ActivityOption{ActivityID: f.unplugged, Label: "B", IsCorrect: true})
	require.NoError(t, err)
	f.wrongOpt, err = f.roster.CreateActivityOption(ctx, &models.ActivityOption{ActivityID: f.unplugged, Label: "C"})
	require.NoError(t, err)

	return f
}

func (f *fixture) graded(t *testing.T, studentID, activityID int64, score *float64, optionID *int64) {
	t.Helper()
	_, err := f.responses.CreateGradedResponse(context.Background(), &models.GradedResponse{
		StudentID:  studentID,
		ActivityID: activityID,
		Answer:     "answer",
		Score:      score,
		OptionID:   optionID,
	})
	require.NoError(t, err)
}

func (f *fixture) attempt(t *testing.T, a models.PluggedAttempt) int64 {
	t.Helper()
	if a.StudentID == 0 {
		a.StudentID = f.studentID
	}
	if a.ActivityID == 0 {
		a.ActivityID = f.plugged
	}
	id, err := f.responses.CreatePluggedAttempt(context.Background(), &a)
	require.NoError(t, err)
	return id
}

func TestCountGraded(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.graded(t, f.studentID, f.unplugged, ptr(8.0), nil)
	f.graded(t, f.studentID, f.unplugged, ptr(0.0), nil)
	f.graded(t, f.studentID, f.unplugged, nil, ptr(f.rightOpt))
	f.graded(t, f.studentID, f.unplugged, ptr(0.0), ptr(f.wrongOpt))
	// other activity, other student
	f.graded(t, f.studentID, f.plugged, ptr(2.0), nil)
	f.graded(t, f.otherID, f.unplugged, ptr(9.0), nil)

	total, err := f.responses.CountGraded(ctx, models.GradedFilter{StudentID: f.studentID})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	correct, err := f.responses.CountGraded(ctx, models.GradedFilter{StudentID: f.studentID, CorrectOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), correct)

	scoped, err := f.responses.CountGraded(ctx, models.GradedFilter{StudentID: f.studentID, ActivityID: ptr(f.unplugged), CorrectOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), scoped)
}

func TestCountPlugged(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.attempt(t, models.PluggedAttempt{CorrectValue: int64(6), SelectedValue: int64(1), Score: ptr(6.0)})
	f.attempt(t, models.PluggedAttempt{CorrectValue: "12", SelectedValue: int64(12), ClassID: ptr(f.classID)})
	f.attempt(t, models.PluggedAttempt{CorrectValue: "3", Score: ptr(0.0), ClassID: ptr(f.classID)})
	f.attempt(t, models.PluggedAttempt{StudentID: f.otherID, CorrectValue: "3", Score: ptr(4.0)})

	total, err := f.responses.CountPlugged(ctx, models.PluggedFilter{StudentID: f.studentID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	scored, err := f.responses.CountPlugged(ctx, models.PluggedFilter{StudentID: f.studentID, PositiveScoreOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), scored)

	inClass, err := f.responses.CountPlugged(ctx, models.PluggedFilter{StudentID: f.studentID, ClassID: ptr(f.classID)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), inClass)
}

func TestScanPluggedCandidatesProjection(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// scored and unanswered attempts are not candidates
	f.attempt(t, models.PluggedAttempt{CorrectValue: int64(6), SelectedValue: int64(1), Score: ptr(6.0)})
	f.attempt(t, models.PluggedAttempt{CorrectValue: "12", SelectedValue: int64(12)})
	f.attempt(t, models.PluggedAttempt{CorrectValue: "3"})
	f.attempt(t, models.PluggedAttempt{CorrectValue: int64(9), SelectedValue: "8", Score: ptr(0.0)})

	page, err := f.responses.ScanPluggedCandidates(ctx, models.PluggedFilter{StudentID: f.studentID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)

	assert.EqualValues(t, 12, page[0].SelectedValue)
	assert.Equal(t, "12", asText(page[0].CorrectValue))
	assert.Nil(t, page[0].Score)

	assert.Equal(t, "8", asText(page[1].SelectedValue))
	assert.EqualValues(t, 9, page[1].CorrectValue)
	require.NotNil(t, page[1].Score)
	assert.Equal(t, 0.0, *page[1].Score)
}

func TestScanPluggedCandidatesPagination(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		f.attempt(t, models.PluggedAttempt{CorrectValue: int64(i), SelectedValue: int64(i)})
	}

	filter := models.PluggedFilter{StudentID: f.studentID}
	var seen []any
	for offset := 0; ; offset += 3 {
		page, err := f.responses.ScanPluggedCandidates(ctx, filter, offset, 3)
		require.NoError(t, err)
		for _, c := range page {
			seen = append(seen, c.SelectedValue)
		}
		if len(page) < 3 {
			break
		}
	}

	assert.Equal(t, []any{int64(0), int64(1), int64(2), int64(3), int64(4), int64(5), int64(6)}, seen)
}

func TestRecordPluggedAnswer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id := f.attempt(t, models.PluggedAttempt{CorrectValue: int64(21), ClassID: ptr(f.classID)})

	require.NoError(t, f.responses.RecordPluggedAnswer(ctx, id, int64(21)))

	attempt, err := f.responses.GetPluggedAttempt(ctx, id)
	require.NoError(t, err)
	assert.True(t, attempt.Answered())
	assert.EqualValues(t, 21, attempt.SelectedValue)
	require.NotNil(t, attempt.ClassID)
	assert.Equal(t, f.classID, *attempt.ClassID)

	err = f.responses.RecordPluggedAnswer(ctx, id, int64(20))
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	err = f.responses.RecordPluggedAnswer(ctx, id+100, int64(1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRosterLookups(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	exists, err := f.roster.StudentExists(ctx, f.studentID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = f.roster.StudentExists(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, exists)

	kind, err := f.roster.ActivityKind(ctx, f.plugged)
	require.NoError(t, err)
	assert.Equal(t, models.ActivityPlugged, kind)

	_, err = f.roster.ActivityKind(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
