package ranking

import (
	"fmt"
	"log"

	"github.com/tidwall/gjson"

	"github.com/jonathan/candidate-ranker/internal/sanitize"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Field budgets applied to model output before it enters typed records.
const (
	maxNameLen      = 120
	maxContactLen   = 120
	maxReasoningLen = 150
	maxListItems    = 5
)

// parseBatchDocument converts a schema-valid ranking document into one
// RankedCandidate per batch member. The model's entries are matched to batch
// members by index; duplicate or out-of-batch indexes are dropped, and any
// batch member the model omitted gets a fallback record so coverage holds.
// Returns an error when the document contributes no usable entry at all; the
// caller treats that as a logical failure of the whole call.
func parseBatchDocument(document string, batch Batch) ([]types.RankedCandidate, error) {
	inBatch := make(map[int]bool, len(batch.Summaries))
	for _, summary := range batch.Summaries {
		inBatch[summary.Index] = true
	}

	parsed := make(map[int]types.RankedCandidate, len(batch.Summaries))
	for _, entry := range gjson.Get(document, "candidates").Array() {
		idx := sanitize.Int(entry.Get("index").Value())
		if idx == nil || !inBatch[*idx] {
			log.Printf("[rank] dropping entry with unknown index %v (batch %d)", entry.Get("index").Value(), batch.Number)
			continue
		}
		if _, dup := parsed[*idx]; dup {
			log.Printf("[rank] dropping duplicate entry for index %d (batch %d)", *idx, batch.Number)
			continue
		}
		parsed[*idx] = rankedFromEntry(*idx, entry)
	}

	if len(parsed) == 0 {
		return nil, fmt.Errorf("document contains no usable candidate entries")
	}

	records := make([]types.RankedCandidate, 0, len(batch.Summaries))
	for _, summary := range batch.Summaries {
		if rec, ok := parsed[summary.Index]; ok {
			records = append(records, rec)
		} else {
			log.Printf("[rank] model omitted index %d (batch %d), substituting fallback", summary.Index, batch.Number)
			records = append(records, fallbackRecord(summary.Index))
		}
	}
	return records, nil
}

// rankedFromEntry builds a typed record from one untyped model entry. Every
// field goes through the sanitizer; nothing about presence or type is trusted.
func rankedFromEntry(index int, entry gjson.Result) types.RankedCandidate {
	rec := types.RankedCandidate{
		CandidateIndex:    index,
		FullName:          sanitize.String(entry.Get("full_name").Value(), maxNameLen),
		Email:             sanitize.String(entry.Get("email").Value(), maxContactLen),
		Phone:             sanitize.String(entry.Get("phone").Value(), maxContactLen),
		Location:          sanitize.String(entry.Get("location").Value(), maxContactLen),
		JobTitle:          sanitize.String(entry.Get("job_title").Value(), maxContactLen),
		YearsOfExperience: sanitize.Int(entry.Get("years_of_experience").Value()),
		Strengths:         sanitize.StringArray(entry.Get("strengths").Value(), maxListItems),
		Concerns:          sanitize.StringArray(entry.Get("concerns").Value(), maxListItems),
	}

	if reasoning := sanitize.String(entry.Get("reasoning").Value(), maxReasoningLen); reasoning != nil {
		rec.Reasoning = *reasoning
	}

	if score := sanitize.Int(entry.Get("match_score").Value()); score != nil {
		rec.MatchScore = clampScore(*score)
	}

	if years := rec.YearsOfExperience; years != nil && *years < 0 {
		rec.YearsOfExperience = nil
	}

	return rec
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
