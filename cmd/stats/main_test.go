package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activityhub/internal/models"
)

func useTempDatabase(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_DIR", "")
}

func TestSeedDemoThenStats(t *testing.T) {
	useTempDatabase(t)

	var stdout, stderr bytes.Buffer
	require.Equal(t, exitOK, run([]string{"seed-demo"}, &stdout, &stderr), stderr.String())

	var studentID, activityID int64
	_, err := fmt.Sscanf(strings.TrimSpace(stdout.String()), "stats -student %d -activity %d", &studentID, &activityID)
	require.NoError(t, err)

	stdout.Reset()
	code := run([]string{"-student", fmt.Sprint(studentID), "-activity", fmt.Sprint(activityID)}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	var result models.AggregateResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, models.AggregateResult{TotalAttempts: 5, Correct: 3}, result)
}

func TestStatsInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing student", args: nil},
		{name: "negative student", args: []string{"-student", "-1"}},
		{name: "explicit zero activity", args: []string{"-student", "1", "-activity", "0"}},
		{name: "unknown flag", args: []string{"-student", "1", "-verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useTempDatabase(t)

			var stdout, stderr bytes.Buffer
			assert.Equal(t, exitUsage, run(tt.args, &stdout, &stderr))
			assert.Empty(t, stdout.String())
		})
	}
}

func TestStatsUnknownStudentIsZero(t *testing.T) {
	useTempDatabase(t)

	var stdout, stderr bytes.Buffer
	require.Equal(t, exitOK, run([]string{"-student", "77"}, &stdout, &stderr), stderr.String())
	assert.JSONEq(t, `{"totalAttempts":0,"correct":0}`, stdout.String())
}
