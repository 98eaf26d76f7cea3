// Package extract pulls structured candidate fields out of raw resume text.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/sanitize"
	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// requestTimeout bounds each extraction call's wall clock.
	requestTimeout = 30 * time.Second
	// maxResumeChars bounds the resume text included in the prompt.
	maxResumeChars = 6000
)

// Schema defines the structure for LLM-based field extraction.
type Schema struct {
	Description string        // System prompt preamble describing the task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "integer"
	Description string // Description for the LLM
}

// CandidateFieldsSchema returns the extraction schema for resumes.
func CandidateFieldsSchema() Schema {
	return Schema{
		Description: `You are an expert resume parser. Extract the candidate's contact and career fields from the resume text below.
Use null for any field the text does not state. Do not invent or infer values.`,
		Fields: []SchemaField{
			{Name: "full_name", Type: "string", Description: "the candidate's full name"},
			{Name: "email", Type: "string", Description: "primary email address"},
			{Name: "phone_number", Type: "string", Description: "primary phone number"},
			{Name: "location", Type: "string", Description: "city and country or region"},
			{Name: "job_title", Type: "string", Description: "current or most recent job title"},
			{Name: "years_of_experience", Type: "integer", Description: "total years of professional experience"},
		},
	}
}

// BuildPrompt constructs the extraction prompt from the schema and resume text.
func BuildPrompt(schema Schema, resumeText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": <%s or null>", field.Name, typeHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("Resume text:\n\"\"\"\n")
	sb.WriteString(sanitize.Truncate(resumeText, maxResumeChars))
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// Extractor runs resume field extraction through an LLM client.
type Extractor struct {
	client llm.Client
}

// NewExtractor creates an Extractor.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract parses candidate fields from resume text. Every value passes
// through the sanitizer; the model's JSON is never trusted directly.
func (e *Extractor) Extract(ctx context.Context, resumeText string) (*types.ExtractedFields, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("resume text is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	prompt := BuildPrompt(CandidateFieldsSchema(), resumeText)
	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("extraction generation failed: %w", err)
	}

	document := sanitize.JSONDocument(raw)
	if document == "" {
		return nil, fmt.Errorf("failed to parse extraction response (content: %.200s)", raw)
	}

	return fieldsFromDocument(document), nil
}

// fieldsFromDocument sanitizes an untyped extraction document into typed fields.
func fieldsFromDocument(document string) *types.ExtractedFields {
	get := func(key string) any {
		return gjson.Get(document, key).Value()
	}

	fields := &types.ExtractedFields{
		FullName:          sanitize.String(get("full_name"), 120),
		Email:             sanitize.String(get("email"), 120),
		PhoneNumber:       sanitize.String(get("phone_number"), 40),
		Location:          sanitize.String(get("location"), 120),
		JobTitle:          sanitize.String(get("job_title"), 120),
		YearsOfExperience: sanitize.Int(get("years_of_experience")),
	}

	if years := fields.YearsOfExperience; years != nil && (*years < 0 || *years > 80) {
		fields.YearsOfExperience = nil
	}

	return fields
}
