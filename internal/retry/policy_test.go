package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Decide_RateLimited(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name      string
		attempt   int
		wantRetry bool
		wantAfter time.Duration
	}{
		{name: "first attempt retries after base delay", attempt: 1, wantRetry: true, wantAfter: 10 * time.Minute},
		{name: "second attempt doubles", attempt: 2, wantRetry: true, wantAfter: 20 * time.Minute},
		{name: "third attempt gives up", attempt: 3, wantRetry: false},
		{name: "beyond max gives up", attempt: 7, wantRetry: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := policy.Decide(ClassRateLimited, tt.attempt)
			assert.Equal(t, tt.wantRetry, decision.Retry)
			if tt.wantRetry {
				assert.Equal(t, tt.wantAfter, decision.After)
			}
		})
	}
}

func TestPolicy_Decide_OtherNeverRetries(t *testing.T) {
	policy := DefaultPolicy()

	for attempt := 1; attempt <= 3; attempt++ {
		decision := policy.Decide(ClassOther, attempt)
		assert.False(t, decision.Retry, "attempt %d", attempt)
	}
}

func TestPolicy_DelayDoublesEachAttempt(t *testing.T) {
	policy := Policy{MaxAttempts: 5, BaseDelay: time.Minute}

	previous := time.Duration(0)
	for attempt := 1; attempt < policy.MaxAttempts; attempt++ {
		decision := policy.Decide(ClassRateLimited, attempt)
		assert.True(t, decision.Retry)
		assert.GreaterOrEqual(t, decision.After, 2*previous, "delay must at least double")
		previous = decision.After
	}
}

func TestPolicy_DelayFor_ClampsAttempt(t *testing.T) {
	policy := Policy{MaxAttempts: 3, BaseDelay: time.Minute}
	assert.Equal(t, time.Minute, policy.DelayFor(0))
	assert.Equal(t, time.Minute, policy.DelayFor(1))
	assert.Equal(t, 4*time.Minute, policy.DelayFor(3))
}
