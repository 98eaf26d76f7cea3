package ranking

import (
	"fmt"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Fallback record constants. The shape is deterministic so that a total AI
// outage still yields exactly one record per input candidate.
const (
	fallbackReasoning = "Analysis failed - manual review needed"
	fallbackConcern   = "Automated analysis unavailable"
)

// fallbackRecord synthesizes the zero-score ranking entry for a candidate
// whose batch exhausted its retries.
func fallbackRecord(index int) types.RankedCandidate {
	name := fmt.Sprintf("Candidate %d", index+1)
	return types.RankedCandidate{
		CandidateIndex: index,
		FullName:       &name,
		MatchScore:     0,
		Reasoning:      fallbackReasoning,
		Concerns:       []string{fallbackConcern},
		IsFallback:     true,
	}
}

// fallbackBatch substitutes a fallback record for every candidate in a batch.
func fallbackBatch(batch Batch) []types.RankedCandidate {
	records := make([]types.RankedCandidate, 0, len(batch.Summaries))
	for _, summary := range batch.Summaries {
		records = append(records, fallbackRecord(summary.Index))
	}
	return records
}
