package ranking

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// runBatches executes all batches under the configured scheduling policy and
// returns every batch's records concatenated in completion order. Wave N+1
// does not start until all of wave N's batches have settled, which caps
// in-flight requests at the wave width. The sequential policy is the same
// code path with a wave width of one plus an inter-batch delay.
func (r *Ranker) runBatches(ctx context.Context, jobDescription string, batches []Batch) []types.RankedCandidate {
	width := r.cfg.WaveWidth
	if r.cfg.Sequential {
		width = 1
	}

	var (
		mu      sync.Mutex
		results []types.RankedCandidate
	)

	for start := 0; start < len(batches); start += width {
		end := min(start+width, len(batches))
		wave := batches[start:end]

		g, gCtx := errgroup.WithContext(ctx)
		for _, batch := range wave {
			g.Go(func() error {
				records := r.runBatchIsolated(gCtx, jobDescription, batch)
				mu.Lock()
				results = append(results, records...)
				mu.Unlock()
				return nil
			})
		}
		// Batches never return errors: failures become fallback records, so a
		// bad batch cannot abort its siblings or halt later waves.
		_ = g.Wait()

		if r.cfg.Sequential && end < len(batches) {
			r.sleeper.Sleep(ctx, r.cfg.InterBatchDelay())
		}
	}

	return results
}

// runBatchIsolated guards a batch against panics so one batch's failure stays
// inside its own boundary.
func (r *Ranker) runBatchIsolated(ctx context.Context, jobDescription string, batch Batch) (records []types.RankedCandidate) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[rank] batch %d panicked: %v, substituting fallbacks", batch.Number, rec)
			records = fallbackBatch(batch)
		}
	}()
	return r.runBatch(ctx, jobDescription, batch)
}
