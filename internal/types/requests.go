package types

import (
	"github.com/go-playground/validator/v10"
)

// RankRequest is the caller-facing request for the ranking endpoint. Exactly one
// of JobDescription or JobDescriptionURL must be set.
type RankRequest struct {
	JobDescription    string `json:"job_description" validate:"required_without=JobDescriptionURL"`
	JobDescriptionURL string `json:"job_description_url" validate:"omitempty,url"`
}

// Validate validates the RankRequest using the validator.
func (r *RankRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// RankResponse is the successful ranking response: the non-fallback matches in
// descending score order, the pool size, and a human-readable summary.
type RankResponse struct {
	Matches []Match `json:"matches"`
	Total   int     `json:"total"`
	Message string  `json:"message"`
}

// CreateCandidateRequest registers a candidate from already-extracted resume text.
type CreateCandidateRequest struct {
	ResumeText    string `json:"resume_text" validate:"required,min=20"`
	ResumeFileURL string `json:"resume_file_url" validate:"omitempty,url"`
}

// Validate validates the CreateCandidateRequest using the validator.
func (r *CreateCandidateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
