// Package ranking implements the candidate-ranking orchestrator: it batches a
// candidate pool, drives rate-limited model calls per batch, substitutes
// deterministic fallbacks for unrecoverable batches and reconciles everything
// into one globally sorted ranking.
package ranking

import (
	"github.com/jonathan/candidate-ranker/internal/sanitize"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Batch is a fixed-size group of candidate summaries submitted together in a
// single model request.
type Batch struct {
	Number    int
	Summaries []types.CandidateSummary
}

// Partition splits the pool snapshot into batches of batchSize. Each
// candidate's resume text is truncated to snippetLen bytes on a rune boundary
// to bound prompt size; the candidate's index is its position in the pool and
// stays stable for the whole run. A batchSize below 1 is treated as 1.
func Partition(pool []types.CandidateProfile, batchSize, snippetLen int) []Batch {
	if batchSize < 1 {
		batchSize = 1
	}

	var batches []Batch
	for start := 0; start < len(pool); start += batchSize {
		end := min(start+batchSize, len(pool))

		summaries := make([]types.CandidateSummary, 0, end-start)
		for i := start; i < end; i++ {
			summaries = append(summaries, types.CandidateSummary{
				Index:         i,
				ResumeSnippet: sanitize.Truncate(pool[i].ResumeText, snippetLen),
			})
		}
		batches = append(batches, Batch{
			Number:    len(batches),
			Summaries: summaries,
		})
	}
	return batches
}
