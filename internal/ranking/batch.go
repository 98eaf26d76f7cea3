package ranking

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/sanitize"
	"github.com/jonathan/candidate-ranker/internal/schemas"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Generator is the single-call adapter contract. Implementations issue exactly
// one network request per Generate; this package owns retries.
type Generator interface {
	Generate(ctx context.Context, prompt string, params llm.GenerationParams) (*llm.RawResponse, error)
}

// batchParams are the generation knobs used for every ranking call.
var batchParams = llm.GenerationParams{
	Temperature:      0.2,
	MaxOutputTokens:  8192,
	ResponseMIMEType: "application/json",
}

// runBatch drives one batch through the retry state machine until success or
// exhaustion. It never fails: an exhausted batch yields fallback records, so
// every input candidate produces exactly one output record.
func (r *Ranker) runBatch(ctx context.Context, jobDescription string, batch Batch) []types.RankedCandidate {
	prompt := buildBatchPrompt(jobDescription, batch)

	for attempt := 0; ; attempt++ {
		records, outcome, hint := r.attemptBatch(ctx, prompt, batch, attempt)

		decision := r.policy.Step(attempt, outcome, hint)
		switch decision.State {
		case llm.StateSuccess:
			return records
		case llm.StateExhausted:
			log.Printf("[rank] batch %d exhausted after %d attempts, substituting fallbacks", batch.Number, attempt+1)
			return fallbackBatch(batch)
		default:
			log.Printf("[rank] batch %d attempt %d failed, retrying in %s", batch.Number, attempt+1, decision.Wait)
			r.sleeper.Sleep(ctx, decision.Wait)
		}
	}
}

// attemptBatch makes a single adapter call and classifies the result. A 2xx
// response whose payload fails fence-stripping, schema validation or yields
// zero usable entries is a logical failure and takes the same retry path as a
// transport error.
func (r *Ranker) attemptBatch(ctx context.Context, prompt string, batch Batch, attempt int) ([]types.RankedCandidate, llm.Outcome, time.Duration) {
	resp, err := r.gen.Generate(ctx, prompt, batchParams)
	if err != nil {
		log.Printf("[rank] batch %d attempt %d: request error: %v", batch.Number, attempt+1, err)
		return nil, llm.OutcomeTransient, 0
	}

	if resp.RateLimited() {
		hint, ok := llm.ParseRetryDelay(resp.Body)
		if !ok {
			hint = 0
		}
		log.Printf("[rank] batch %d attempt %d: rate limited (hint %s)", batch.Number, attempt+1, hint)
		return nil, llm.OutcomeRateLimited, hint
	}

	if !resp.OK() {
		log.Printf("[rank] batch %d attempt %d: HTTP %d", batch.Number, attempt+1, resp.StatusCode)
		return nil, llm.OutcomeTransient, 0
	}

	document := sanitize.JSONDocument(resp.Text())
	if document == "" {
		log.Printf("[rank] batch %d attempt %d: unparsable model output", batch.Number, attempt+1)
		return nil, llm.OutcomeTransient, 0
	}

	if err := schemas.ValidateRankedBatch(document); err != nil {
		log.Printf("[rank] batch %d attempt %d: malformed ranking document: %v", batch.Number, attempt+1, err)
		return nil, llm.OutcomeTransient, 0
	}

	records, err := parseBatchDocument(document, batch)
	if err != nil {
		log.Printf("[rank] batch %d attempt %d: %v", batch.Number, attempt+1, err)
		return nil, llm.OutcomeTransient, 0
	}

	return records, llm.OutcomeSuccess, 0
}
