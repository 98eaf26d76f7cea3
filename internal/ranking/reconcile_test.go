package ranking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-ranker/internal/types"
)

func namedPool(n int) []types.CandidateProfile {
	pool := make([]types.CandidateProfile, n)
	for i := range pool {
		pool[i].ID = uuid.New()
		pool[i].CreatedAt = time.Now()
		pool[i].ResumeText = "resume"
	}
	return pool
}

func scored(index, score int, name string) types.RankedCandidate {
	rec := types.RankedCandidate{CandidateIndex: index, MatchScore: score, Reasoning: "r"}
	if name != "" {
		rec.FullName = &name
	}
	return rec
}

func TestReconcile_SortsDescendingByScore(t *testing.T) {
	pool := namedPool(3)
	ranked := []types.RankedCandidate{
		scored(0, 40, "A"),
		scored(1, 90, "B"),
		scored(2, 70, "C"),
	}

	matches, _, agg := Reconcile(pool, ranked)
	require.Len(t, matches, 3)
	assert.Equal(t, 90, matches[0].MatchScore)
	assert.Equal(t, 70, matches[1].MatchScore)
	assert.Equal(t, 40, matches[2].MatchScore)
	assert.Equal(t, Aggregate{Total: 3, Matched: 3, Unmatched: 0}, agg)
}

func TestReconcile_StableTieBreak(t *testing.T) {
	pool := namedPool(3)
	ranked := []types.RankedCandidate{
		scored(2, 50, "first-appearing"),
		scored(0, 50, "second-appearing"),
		scored(1, 50, "third-appearing"),
	}

	matches, _, _ := Reconcile(pool, ranked)
	require.Len(t, matches, 3)
	// Equal scores keep their order of first appearance in the pre-sort sequence
	assert.Equal(t, pool[2].ID, matches[0].ID)
	assert.Equal(t, pool[0].ID, matches[1].ID)
	assert.Equal(t, pool[1].ID, matches[2].ID)
}

func TestReconcile_FallbacksExcludedButCounted(t *testing.T) {
	pool := namedPool(3)
	ranked := []types.RankedCandidate{
		scored(0, 80, "A"),
		fallbackRecord(1),
		fallbackRecord(2),
	}

	matches, _, agg := Reconcile(pool, ranked)
	require.Len(t, matches, 1)
	assert.Equal(t, Aggregate{Total: 3, Matched: 1, Unmatched: 2}, agg)
}

func TestReconcile_UnknownIndexDroppedNotFatal(t *testing.T) {
	pool := namedPool(2)
	ranked := []types.RankedCandidate{
		scored(0, 80, "A"),
		scored(9, 95, "ghost"),
		scored(1, 60, "B"),
	}

	matches, _, agg := Reconcile(pool, ranked)
	require.Len(t, matches, 2)
	assert.Equal(t, 2, agg.Matched)
}

func TestReconcile_StagesUpdatesOnlyWithUsableName(t *testing.T) {
	pool := namedPool(3)
	email := "a@example.com"
	withEmail := scored(0, 80, "A")
	withEmail.Email = &email

	ranked := []types.RankedCandidate{
		withEmail,
		scored(1, 70, ""), // no extracted name: no update staged
		fallbackRecord(2), // fallback: never staged
	}

	matches, updates, _ := Reconcile(pool, ranked)
	require.Len(t, matches, 2)
	require.Len(t, updates, 1)
	assert.Equal(t, pool[0].ID, updates[0].ID)
	require.NotNil(t, updates[0].Fields.Email)
	assert.Equal(t, email, *updates[0].Fields.Email)
}

func TestMergeMatch_ProfileFieldsWin(t *testing.T) {
	stored := "Stored Name"
	extracted := "Extracted Name"
	location := "Berlin"

	profile := types.CandidateProfile{ID: uuid.New(), FullName: &stored}
	rec := types.RankedCandidate{FullName: &extracted, Location: &location, MatchScore: 55}

	match := mergeMatch(profile, rec)
	require.NotNil(t, match.FullName)
	assert.Equal(t, "Stored Name", *match.FullName)
	// Extraction fills gaps the profile does not have
	require.NotNil(t, match.Location)
	assert.Equal(t, "Berlin", *match.Location)
}
