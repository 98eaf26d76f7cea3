package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-ranker/internal/types"
)

const profileColumns = `id, created_at, resume_file_url, resume_text,
	full_name, email, phone_number, location, job_title, years_of_experience`

// ListProfiles retrieves up to limit candidate profiles, newest first. This is
// the pool snapshot a ranking run operates on; it is fetched once per run and
// never mutated during the run.
func (s *Store) ListProfiles(ctx context.Context, limit int) ([]types.CandidateProfile, error) {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM candidate_profiles ORDER BY created_at DESC LIMIT $1`, profileColumns),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []types.CandidateProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// GetProfile retrieves a single profile by ID. Returns nil when not found.
func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error) {
	row := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM candidate_profiles WHERE id = $1`, profileColumns),
		id,
	)
	p, err := scanProfile(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CreateProfile inserts a new candidate profile from resume text and returns
// its ID.
func (s *Store) CreateProfile(ctx context.Context, resumeText string, resumeFileURL *string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO candidate_profiles (resume_text, resume_file_url)
		 VALUES ($1, $2)
		 RETURNING id`,
		resumeText, resumeFileURL,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return id, nil
}

// UpdateExtractedFields applies a partial update to a profile: only non-nil
// fields are written, so an absent extraction never nulls an existing value.
// A no-op update (all fields nil) returns without touching the database.
func (s *Store) UpdateExtractedFields(ctx context.Context, id uuid.UUID, fields types.ExtractedFields) error {
	set := []string{}
	args := []any{}
	argNum := 1

	add := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if fields.FullName != nil {
		add("full_name", *fields.FullName)
	}
	if fields.Email != nil {
		add("email", *fields.Email)
	}
	if fields.PhoneNumber != nil {
		add("phone_number", *fields.PhoneNumber)
	}
	if fields.Location != nil {
		add("location", *fields.Location)
	}
	if fields.JobTitle != nil {
		add("job_title", *fields.JobTitle)
	}
	if fields.YearsOfExperience != nil {
		add("years_of_experience", *fields.YearsOfExperience)
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE candidate_profiles SET %s WHERE id = $%d`,
		strings.Join(set, ", "), argNum)
	args = append(args, id)

	result, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// scanProfile reads one profile row from either a pgx.Row or pgx.Rows.
func scanProfile(row pgx.Row) (types.CandidateProfile, error) {
	var p types.CandidateProfile
	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.ResumeFileURL, &p.ResumeText,
		&p.FullName, &p.Email, &p.PhoneNumber, &p.Location, &p.JobTitle, &p.YearsOfExperience,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return p, err
		}
		return p, fmt.Errorf("failed to scan profile: %w", err)
	}
	return p, nil
}
