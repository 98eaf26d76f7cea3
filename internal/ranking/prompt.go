package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/prompts"
)

// buildBatchPrompt renders the ranking prompt for one batch.
func buildBatchPrompt(jobDescription string, batch Batch) string {
	var sb strings.Builder
	for _, summary := range batch.Summaries {
		sb.WriteString(fmt.Sprintf("[%d]\n%s\n\n", summary.Index, summary.ResumeSnippet))
	}

	template := prompts.MustGet("ranking.json", "rank-candidate-batch")
	return prompts.Format(template, map[string]string{
		"JobDescription": jobDescription,
		"Candidates":     strings.TrimSpace(sb.String()),
	})
}
