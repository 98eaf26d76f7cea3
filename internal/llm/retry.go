package llm

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// Outcome classifies the result of one adapter invocation.
type Outcome int

// Outcome values cover the three ways a batch call can land.
const (
	// OutcomeSuccess means a 2xx response whose payload passed validation.
	OutcomeSuccess Outcome = iota
	// OutcomeRateLimited means the server answered 429.
	OutcomeRateLimited
	// OutcomeTransient covers every other failure: non-2xx status, transport
	// error, timeout, or a payload that failed parsing/validation.
	OutcomeTransient
)

// State is a node in the per-batch retry state machine.
type State string

// Retry states. A batch starts at StateAttempting; WAITING states loop back
// to ATTEMPTING until success or exhaustion.
const (
	StateAttempting State = "attempting"
	StateWaiting    State = "waiting"
	StateSuccess    State = "success"
	StateExhausted  State = "exhausted"
)

// Decision is the output of one state-machine step: where the batch goes next
// and how long to wait before re-attempting.
type Decision struct {
	State State
	Wait  time.Duration
}

// RetryPolicy holds the per-batch retry limits.
type RetryPolicy struct {
	// MaxAttempts is the total number of adapter invocations allowed per batch.
	MaxAttempts int
	// DefaultRateLimitDelay is the 429 wait used when the server supplies no
	// usable retry-delay hint.
	DefaultRateLimitDelay time.Duration
}

// Step is the pure transition function. attempt is the zero-indexed attempt
// that just finished; hint is the server-supplied retry delay (zero when
// absent). Rate-limited waits use the hint or the policy default and are not
// exponential-backoff steps; transient failures wait 2^(attempt+1) seconds.
func (p RetryPolicy) Step(attempt int, outcome Outcome, hint time.Duration) Decision {
	if outcome == OutcomeSuccess {
		return Decision{State: StateSuccess}
	}
	if attempt+1 >= p.MaxAttempts {
		return Decision{State: StateExhausted}
	}

	switch outcome {
	case OutcomeRateLimited:
		wait := hint
		if wait <= 0 {
			wait = p.DefaultRateLimitDelay
		}
		return Decision{State: StateWaiting, Wait: wait}
	default:
		return Decision{State: StateWaiting, Wait: (1 << (attempt + 1)) * time.Second}
	}
}

// Sleeper abstracts waiting so retry logic is testable without real sleeps.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}

// RealSleeper sleeps on the wall clock, waking early if the context ends.
type RealSleeper struct{}

// Sleep waits for d or until ctx is done.
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

var retryDelayPattern = regexp.MustCompile(`^(\d+)s$`)

// ParseRetryDelay extracts the server's retry-delay hint from a 429 error
// payload (error.details[].metadata.retryDelay, format "<seconds>s").
// Returns false when the field is absent or unparsable.
func ParseRetryDelay(body []byte) (time.Duration, bool) {
	details := gjson.GetBytes(body, "error.details")
	for _, detail := range details.Array() {
		raw := detail.Get("metadata.retryDelay").String()
		m := retryDelayPattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		secs, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return time.Duration(secs) * time.Second, true
	}
	return 0, false
}
