// Package budget provides the operation-count and wall-clock budget that
// bounds worst-case latency of the move-detection phases. The budget exists
// for latency governance, not cooperative cancellation: when it is exhausted
// the detector returns whatever it has already confirmed, tagged partial.
package budget

import "time"

// Default budget limits for one diff invocation.
const (
	// DefaultMaxOperations is the default operation budget for move detection.
	DefaultMaxOperations = 100000

	// DefaultTimeout is the default wall-clock budget for move detection.
	DefaultTimeout = 5000 * time.Millisecond

	// clockCheckInterval is how many Spend calls elapse between wall-clock
	// reads. time.Since is cheap but not free on the growth hot path.
	clockCheckInterval = 256
)

// Cause identifies which limit exhausted a budget.
type Cause int

const (
	// CauseNone means the budget is not exhausted.
	CauseNone Cause = iota

	// CauseOperations means the operation counter hit its limit.
	CauseOperations

	// CauseDeadline means the wall-clock limit elapsed.
	CauseDeadline
)

// String returns the human-readable reason for the cause.
func (c Cause) String() string {
	switch c {
	case CauseOperations:
		return "operation limit exceeded"
	case CauseDeadline:
		return "time limit exceeded"
	default:
		return ""
	}
}

// Tracker counts operations against a fixed budget and deadline.
// A Tracker is scoped to one diff invocation and is not safe for
// concurrent use; each invocation gets its own.
type Tracker struct {
	maxOps     int64
	ops        int64
	deadline   time.Time
	hasLimits  bool
	sinceCheck int
	expired    bool
}

// NewTracker creates a tracker with the given limits. Non-positive maxOps or
// timeout disables the corresponding limit; with both disabled the tracker
// never exhausts.
func NewTracker(maxOps int64, timeout time.Duration) *Tracker {
	t := &Tracker{maxOps: maxOps}

	if timeout > 0 {
		t.deadline = time.Now().Add(timeout)
		t.hasLimits = true
	}

	if maxOps > 0 {
		t.hasLimits = true
	}

	return t
}

// Spend charges n operations against the budget.
func (t *Tracker) Spend(n int64) {
	t.ops += n
	t.sinceCheck += int(n)
}

// Operations returns the number of operations charged so far.
func (t *Tracker) Operations() int64 {
	return t.ops
}

// Exhausted reports whether a limit has been hit and which one. The wall
// clock is only consulted every clockCheckInterval spent operations; once a
// limit trips the tracker stays exhausted.
func (t *Tracker) Exhausted() (bool, Cause) {
	if !t.hasLimits {
		return false, CauseNone
	}

	if t.expired {
		return true, t.cause()
	}

	if t.maxOps > 0 && t.ops > t.maxOps {
		t.expired = true

		return true, CauseOperations
	}

	if !t.deadline.IsZero() && t.sinceCheck >= clockCheckInterval {
		t.sinceCheck = 0

		if time.Now().After(t.deadline) {
			t.expired = true

			return true, CauseDeadline
		}
	}

	return false, CauseNone
}

// cause recomputes which limit tripped for repeated Exhausted calls.
func (t *Tracker) cause() Cause {
	if t.maxOps > 0 && t.ops > t.maxOps {
		return CauseOperations
	}

	return CauseDeadline
}
