package handlers

const (
	RequestIDHeader = "X-Request-ID"

	ErrInvalidJSON        = "invalid JSON body"
	ErrStatsFailed        = "failed to compute statistics"
	ErrAttemptNotFound    = "attempt not found"
	ErrAttemptAnswered    = "attempt already answered"
	ErrPuzzleStartFailed  = "failed to start puzzle"
	ErrPuzzleAnswerFailed = "failed to record answer"
)
