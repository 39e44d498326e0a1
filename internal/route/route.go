// Package route holds the retry/fallback decision logic for a
// question-answering run.
//
// Decide is a pure function of the attempt state and the latest outcome; the
// caller applies the transition it names (increment the retry counter, enter
// fallback mode, accept, or give up). Counters are explicit fields, never
// derived from conversational history, which bounds memory growth no matter
// how many turns a conversation has had.
package route

// Decision is the next workflow action after an execution attempt.
type Decision int

// Route decisions.
const (
	// Retry regenerates the query with targeted feedback attached.
	Retry Decision = iota
	// Accept proceeds with the successful result.
	Accept
	// Fallback switches generation to the simplified raw-rows strategy.
	Fallback
	// GiveUp surfaces the last error as the final answer.
	GiveUp
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Retry:
		return "retry"
	case Accept:
		return "accept"
	case Fallback:
		return "fallback"
	case GiveUp:
		return "give_up"
	default:
		return "unknown"
	}
}

// Outcome is the minimal view of a validation or execution result the router
// needs. A nil Outcome means no result has been produced yet.
type Outcome interface {
	Failed() bool
}

// Decide returns the next action for the given attempt state and latest
// outcome. It has no side effects.
func Decide(state *AttemptState, latest Outcome, maxRetries int) Decision {
	if latest == nil {
		return Retry
	}

	if latest.Failed() {
		if state.RetryCount < maxRetries {
			return Retry
		}
		if !state.FallbackAttempted {
			return Fallback
		}
		return GiveUp
	}

	return Accept
}
