package route

// AttemptState holds the per-run retry counters. It is created at the start
// of a question-answering run, mutated only by the run's owner, and discarded
// at run end; it is never shared across concurrent runs or persisted.
type AttemptState struct {
	// RetryCount starts at 0 and increments only on a validation or
	// execution failure.
	RetryCount int

	// FallbackAttempted is set exactly once, when the run switches to the
	// simplified raw-rows generation strategy.
	FallbackAttempted bool

	// LastError is the most recent human-readable failure message.
	LastError string
}

// NewAttemptState returns a fresh state for one run.
func NewAttemptState() *AttemptState {
	return &AttemptState{}
}

// RecordFailure increments the retry counter and remembers the error.
func (s *AttemptState) RecordFailure(msg string) {
	s.RetryCount++
	s.LastError = msg
}

// EnterFallback marks the single fallback attempt: the retry budget resets
// and the prior error is cleared so fallback generation starts clean.
func (s *AttemptState) EnterFallback() {
	s.FallbackAttempted = true
	s.RetryCount = 0
	s.LastError = ""
}
