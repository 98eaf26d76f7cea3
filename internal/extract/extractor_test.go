package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-ranker/internal/llm"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
	tiers    []llm.ModelTier
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(CandidateFieldsSchema(), "Jane Doe, SRE at Acme")

	assert.Contains(t, prompt, "expert resume parser")
	assert.Contains(t, prompt, `"full_name": <string or null>`)
	assert.Contains(t, prompt, `"years_of_experience": <integer or null>`)
	assert.Contains(t, prompt, "Jane Doe, SRE at Acme")
}

func TestBuildPrompt_TruncatesLongResumes(t *testing.T) {
	long := make([]byte, maxResumeChars*2)
	for i := range long {
		long[i] = 'x'
	}

	prompt := BuildPrompt(CandidateFieldsSchema(), string(long))
	assert.Less(t, len(prompt), maxResumeChars+2000)
}

func TestExtract(t *testing.T) {
	client := &fakeClient{
		response: "```json\n{\"full_name\": \"Jane Doe\", \"email\": \"jane@example.com\", \"phone_number\": null, \"location\": \"Lisbon, Portugal\", \"job_title\": \"Site Reliability Engineer\", \"years_of_experience\": 7.0}\n```",
	}

	fields, err := NewExtractor(client).Extract(context.Background(), "Jane Doe resume text")
	require.NoError(t, err)

	require.NotNil(t, fields.FullName)
	assert.Equal(t, "Jane Doe", *fields.FullName)
	require.NotNil(t, fields.Email)
	assert.Equal(t, "jane@example.com", *fields.Email)
	assert.Nil(t, fields.PhoneNumber)
	require.NotNil(t, fields.YearsOfExperience)
	assert.Equal(t, 7, *fields.YearsOfExperience)

	require.Len(t, client.tiers, 1)
	assert.Equal(t, llm.TierLite, client.tiers[0])
}

func TestExtract_EmptyResume(t *testing.T) {
	client := &fakeClient{response: "{}"}

	_, err := NewExtractor(client).Extract(context.Background(), "   \n ")
	assert.Error(t, err)
	assert.Empty(t, client.prompts)
}

func TestExtract_GenerationError(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}

	_, err := NewExtractor(client).Extract(context.Background(), "resume")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestExtract_UnparseableResponse(t *testing.T) {
	client := &fakeClient{response: "I could not find any fields."}

	_, err := NewExtractor(client).Extract(context.Background(), "resume")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestExtract_RejectsImplausibleYears(t *testing.T) {
	client := &fakeClient{response: `{"full_name": "Old Timer", "years_of_experience": 250}`}

	fields, err := NewExtractor(client).Extract(context.Background(), "resume")
	require.NoError(t, err)
	assert.Nil(t, fields.YearsOfExperience)
}
