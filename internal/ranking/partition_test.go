package ranking

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-ranker/internal/types"
)

func poolOf(n int) []types.CandidateProfile {
	pool := make([]types.CandidateProfile, n)
	for i := range pool {
		pool[i].ResumeText = strings.Repeat("resume text ", 200)
	}
	return pool
}

func TestPartition_TwentyFiveBySize10(t *testing.T) {
	batches := Partition(poolOf(25), 10, 1200)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0].Summaries, 10)
	assert.Len(t, batches[1].Summaries, 10)
	assert.Len(t, batches[2].Summaries, 5)
}

func TestPartition_IndexesAreStablePoolPositions(t *testing.T) {
	batches := Partition(poolOf(25), 10, 1200)

	seen := make(map[int]bool)
	for _, batch := range batches {
		for _, summary := range batch.Summaries {
			assert.False(t, seen[summary.Index], "duplicate index %d", summary.Index)
			seen[summary.Index] = true
		}
	}
	require.Len(t, seen, 25)
	assert.Equal(t, 0, batches[0].Summaries[0].Index)
	assert.Equal(t, 24, batches[2].Summaries[4].Index)
}

func TestPartition_TruncatesSnippets(t *testing.T) {
	batches := Partition(poolOf(3), 10, 100)
	require.Len(t, batches, 1)
	for _, summary := range batches[0].Summaries {
		assert.Len(t, summary.ResumeSnippet, 100)
	}
}

func TestPartition_ShortResumeKeptWhole(t *testing.T) {
	pool := []types.CandidateProfile{{ResumeText: "short"}}
	batches := Partition(pool, 10, 1200)
	require.Len(t, batches, 1)
	assert.Equal(t, "short", batches[0].Summaries[0].ResumeSnippet)
}

func TestPartition_EmptyPool(t *testing.T) {
	assert.Empty(t, Partition(nil, 10, 1200))
}

func TestPartition_NonPositiveBatchSizeClampsToOne(t *testing.T) {
	for _, size := range []int{0, -1} {
		batches := Partition(poolOf(3), size, 1200)
		require.Len(t, batches, 3, "batch size %d", size)
		for _, batch := range batches {
			assert.Len(t, batch.Summaries, 1)
		}
	}
}

func TestPartition_SnippetTruncationKeepsValidUTF8(t *testing.T) {
	// A cap of 103 lands on the trailing byte of an "é" and must back off.
	pool := []types.CandidateProfile{{ResumeText: strings.Repeat("résumé", 50)}}
	batches := Partition(pool, 10, 103)
	require.Len(t, batches, 1)
	snippet := batches[0].Summaries[0].ResumeSnippet
	assert.True(t, utf8.ValidString(snippet))
	assert.Equal(t, 102, len(snippet))
}

func TestBuildBatchPrompt_ContainsJobAndIndexes(t *testing.T) {
	batch := Batch{Summaries: []types.CandidateSummary{
		{Index: 3, ResumeSnippet: "Go developer, 5 years"},
		{Index: 4, ResumeSnippet: "Data analyst"},
	}}

	prompt := buildBatchPrompt("Senior Go engineer", batch)
	assert.Contains(t, prompt, "Senior Go engineer")
	assert.Contains(t, prompt, "[3]\nGo developer, 5 years")
	assert.Contains(t, prompt, "[4]\nData analyst")
	assert.Contains(t, prompt, "match_score")
}
