// Package types defines the shared data structures for the candidate ranker.
package types

import (
	"time"

	"github.com/google/uuid"
)

// CandidateProfile is a stored candidate record. Identity fields are set once at
// resume upload; extracted fields are filled in later by the extraction pass or
// by a successful ranking run.
type CandidateProfile struct {
	ID            uuid.UUID  `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	ResumeFileURL *string    `json:"resume_file_url,omitempty"`
	ResumeText    string     `json:"resume_text"`

	FullName          *string `json:"full_name,omitempty"`
	Email             *string `json:"email,omitempty"`
	PhoneNumber       *string `json:"phone_number,omitempty"`
	Location          *string `json:"location,omitempty"`
	JobTitle          *string `json:"job_title,omitempty"`
	YearsOfExperience *int    `json:"years_of_experience,omitempty"`
}

// CandidateSummary is the per-batch prompt unit: the candidate's stable position
// in the pool snapshot plus a truncated slice of resume text.
type CandidateSummary struct {
	Index         int    `json:"index"`
	ResumeSnippet string `json:"resume_snippet"`
}

// RankedCandidate is one ranking result produced from model output, or
// synthesized by the fallback path when a batch exhausts its retries.
type RankedCandidate struct {
	CandidateIndex    int      `json:"candidate_index"`
	FullName          *string  `json:"full_name"`
	Email             *string  `json:"email"`
	Phone             *string  `json:"phone"`
	Location          *string  `json:"location"`
	JobTitle          *string  `json:"job_title"`
	YearsOfExperience *int     `json:"years_of_experience"`
	MatchScore        int      `json:"match_score"`
	Reasoning         string   `json:"reasoning"`
	Strengths         []string `json:"strengths,omitempty"`
	Concerns          []string `json:"concerns,omitempty"`
	IsFallback        bool     `json:"is_fallback"`
}

// Match merges a stored profile with its ranking result. This is the externally
// returned unit.
type Match struct {
	ID                uuid.UUID `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	ResumeFileURL     *string   `json:"resume_file_url,omitempty"`
	FullName          *string   `json:"full_name"`
	Email             *string   `json:"email"`
	PhoneNumber       *string   `json:"phone_number"`
	Location          *string   `json:"location"`
	JobTitle          *string   `json:"job_title"`
	YearsOfExperience *int      `json:"years_of_experience"`
	MatchScore        int       `json:"match_score"`
	Reasoning         string    `json:"reasoning"`
	Strengths         []string  `json:"strengths,omitempty"`
	Concerns          []string  `json:"concerns,omitempty"`
	IsFallback        bool      `json:"is_fallback"`
}

// ExtractedFields holds candidate fields pulled out of resume text. Nil fields
// were absent or unusable in the source; they are never written over existing
// profile values.
type ExtractedFields struct {
	FullName          *string `json:"full_name"`
	Email             *string `json:"email"`
	PhoneNumber       *string `json:"phone_number"`
	Location          *string `json:"location"`
	JobTitle          *string `json:"job_title"`
	YearsOfExperience *int    `json:"years_of_experience"`
}

// Empty reports whether no field was extracted.
func (f *ExtractedFields) Empty() bool {
	return f.FullName == nil && f.Email == nil && f.PhoneNumber == nil &&
		f.Location == nil && f.JobTitle == nil && f.YearsOfExperience == nil
}
