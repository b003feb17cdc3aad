// Package retry encodes the backoff decision applied to translation
// provider failures.
package retry

import "time"

// Classification buckets a provider failure for the retry decision.
type Classification int

const (
	// ClassRateLimited marks provider-side throttling. This is the only
	// failure mode assumed recoverable.
	ClassRateLimited Classification = iota

	// ClassOther marks every other provider failure. These usually indicate
	// bad input or a permanent rejection and are not retried.
	ClassOther
)

// Decision is the outcome of a policy evaluation.
type Decision struct {
	Retry bool
	After time.Duration
}

// GiveUp is the terminal decision.
var GiveUp = Decision{}

// Policy decides whether a failed attempt should be retried and how long to
// wait. Attempts are counted from 1.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultPolicy matches the production backoff schedule: three attempts,
// delays doubling from ten minutes (10m, 20m, 40m).
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Minute,
	}
}

// Decide evaluates the policy for a failure on the given attempt number.
// Rate-limited failures retry with exponential backoff until MaxAttempts is
// reached; all other failures give up immediately.
func (p Policy) Decide(class Classification, attempt int) Decision {
	if class != ClassRateLimited {
		return GiveUp
	}

	if attempt >= p.MaxAttempts {
		return GiveUp
	}

	return Decision{
		Retry: true,
		After: p.DelayFor(attempt),
	}
}

// DelayFor returns the backoff delay after a failure on the given attempt:
// BaseDelay doubled attempt-1 times.
func (p Policy) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay * time.Duration(1<<uint(attempt-1))
}
