package ranking

import (
	"log"
	"sort"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// ProfileUpdate is a staged partial update for one candidate's extracted
// fields, applied best-effort after reconciliation.
type ProfileUpdate struct {
	ID     uuid.UUID
	Fields types.ExtractedFields
}

// Aggregate holds the run-level counts reported alongside the ranking.
type Aggregate struct {
	Total     int // pool size
	Matched   int // non-fallback records
	Unmatched int // fallback records
}

// Reconcile merges ranked records back onto the pool snapshot by positional
// index, sorts descending by score (stable, so equal scores keep their order
// of first appearance in the concatenated pre-sort sequence) and stages
// profile updates for non-fallback matches with a usable extracted name.
// Fallback entries are excluded from the returned matches but counted in the
// aggregate.
func Reconcile(pool []types.CandidateProfile, ranked []types.RankedCandidate) ([]types.Match, []ProfileUpdate, Aggregate) {
	sorted := make([]types.RankedCandidate, len(ranked))
	copy(sorted, ranked)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MatchScore > sorted[j].MatchScore
	})

	agg := Aggregate{Total: len(pool)}
	var matches []types.Match
	var updates []ProfileUpdate

	for _, rec := range sorted {
		if rec.CandidateIndex < 0 || rec.CandidateIndex >= len(pool) {
			log.Printf("[rank] no pool entry for candidate index %d, dropping record", rec.CandidateIndex)
			continue
		}
		profile := pool[rec.CandidateIndex]

		if rec.IsFallback {
			agg.Unmatched++
			continue
		}
		agg.Matched++
		matches = append(matches, mergeMatch(profile, rec))

		if rec.FullName != nil {
			updates = append(updates, ProfileUpdate{
				ID: profile.ID,
				Fields: types.ExtractedFields{
					FullName:          rec.FullName,
					Email:             rec.Email,
					PhoneNumber:       rec.Phone,
					Location:          rec.Location,
					JobTitle:          rec.JobTitle,
					YearsOfExperience: rec.YearsOfExperience,
				},
			})
		}
	}

	return matches, updates, agg
}

// mergeMatch combines canonical profile data with a ranking record. Stored
// profile fields win; freshly extracted values only fill gaps.
func mergeMatch(profile types.CandidateProfile, rec types.RankedCandidate) types.Match {
	return types.Match{
		ID:                profile.ID,
		CreatedAt:         profile.CreatedAt,
		ResumeFileURL:     profile.ResumeFileURL,
		FullName:          coalesce(profile.FullName, rec.FullName),
		Email:             coalesce(profile.Email, rec.Email),
		PhoneNumber:       coalesce(profile.PhoneNumber, rec.Phone),
		Location:          coalesce(profile.Location, rec.Location),
		JobTitle:          coalesce(profile.JobTitle, rec.JobTitle),
		YearsOfExperience: coalesceInt(profile.YearsOfExperience, rec.YearsOfExperience),
		MatchScore:        rec.MatchScore,
		Reasoning:         rec.Reasoning,
		Strengths:         rec.Strengths,
		Concerns:          rec.Concerns,
		IsFallback:        rec.IsFallback,
	}
}

func coalesce(a, b *string) *string {
	if a != nil && *a != "" {
		return a
	}
	return b
}

func coalesceInt(a, b *int) *int {
	if a != nil {
		return a
	}
	return b
}
