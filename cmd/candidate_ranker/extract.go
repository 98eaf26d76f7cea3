package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/extract"
	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured fields from a stored candidate's resume",
	Long:  "Runs LLM field extraction for one candidate profile and persists the extracted contact and career fields.",
	RunE:  runExtract,
}

var (
	extractID     string
	extractConfig string
)

func init() {
	extractCmd.Flags().StringVar(&extractID, "id", "", "Candidate profile ID (required)")
	extractCmd.Flags().StringVar(&extractConfig, "config", "", "Path to JSON config file")

	if err := extractCmd.MarkFlagRequired("id"); err != nil {
		panic(fmt.Sprintf("failed to mark id flag as required: %v", err))
	}

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	id, err := uuid.Parse(extractID)
	if err != nil {
		return fmt.Errorf("invalid candidate ID %s: %w", extractID, err)
	}

	cfg, err := buildConfig(extractConfig)
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	profile, err := db.GetProfile(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load candidate: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("candidate not found: %s", id)
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	fields, err := extract.NewExtractor(client).Extract(ctx, profile.ResumeText)
	if err != nil {
		return fmt.Errorf("field extraction failed: %w", err)
	}

	if err := db.UpdateExtractedFields(ctx, id, *fields); err != nil {
		return fmt.Errorf("failed to persist extracted fields: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintExtractedFields(fields)
	if fields.Empty() {
		fmt.Fprintln(os.Stdout, "No fields could be extracted")
	}
	return nil
}
