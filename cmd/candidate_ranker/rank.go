package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/config"
	"github.com/jonathan/candidate-ranker/internal/ingest"
	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/ranking"
	"github.com/jonathan/candidate-ranker/internal/store"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the stored candidate pool against a job description",
	Long:  "Runs one full ranking pass: partitions the candidate pool into batches, scores each batch with retry and rate-limit handling, and prints the reconciled results sorted by match score.",
	RunE:  runRank,
}

var (
	rankJobPath    string
	rankJobURL     string
	rankConfig     string
	rankOutput     string
	rankSequential bool
	rankVerbose    bool
)

func init() {
	rankCmd.Flags().StringVarP(&rankJobPath, "job", "j", "", "Path to a job description text file")
	rankCmd.Flags().StringVarP(&rankJobURL, "job-url", "u", "", "URL of a job posting to fetch")
	rankCmd.Flags().StringVar(&rankConfig, "config", "", "Path to JSON config file")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Path to write the ranking result JSON (default: stdout summary)")
	rankCmd.Flags().BoolVar(&rankSequential, "sequential", false, "Run one batch at a time with a pause between batches")
	rankCmd.Flags().BoolVarP(&rankVerbose, "verbose", "v", false, "Print formatted progress boxes")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	if rankJobPath == "" && rankJobURL == "" {
		return fmt.Errorf("either --job or --job-url is required")
	}

	cfg, err := buildConfig(rankConfig)
	if err != nil {
		return err
	}
	if rankSequential {
		cfg.Sequential = true
	}
	if rankVerbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	jobDescription, err := loadJobDescription(ctx, cfg)
	if err != nil {
		return err
	}

	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	gen := llm.NewRawClient(cfg.Endpoint, cfg.Model, cfg.APIKey, cfg.RequestTimeout())
	ranker := ranking.New(cfg, gen, db, db)

	printer := observability.NewPrinter(os.Stdout)
	resp, err := ranker.Rank(ctx, jobDescription)
	if err != nil {
		return fmt.Errorf("ranking run failed: %w", err)
	}

	if cfg.Verbose {
		printer.PrintRankingPlan(resp.Total, cfg.BatchSize, cfg.WaveWidth, cfg.Sequential)
		printer.PrintMatches(resp.Matches)
		printer.PrintAggregate(ranking.Aggregate{
			Total:     resp.Total,
			Matched:   len(resp.Matches),
			Unmatched: resp.Total - len(resp.Matches),
		}, ranking.UpdateReport{})
	}

	if rankOutput != "" {
		return writeResult(rankOutput, resp)
	}

	fmt.Fprintln(os.Stdout, resp.Message)
	return nil
}

// loadJobDescription resolves the job description from a file or a URL.
func loadJobDescription(ctx context.Context, cfg config.Config) (string, error) {
	if rankJobPath != "" {
		content, err := os.ReadFile(rankJobPath)
		if err != nil {
			return "", fmt.Errorf("failed to read job description file %s: %w", rankJobPath, err)
		}
		text := strings.TrimSpace(string(content))
		if text == "" {
			return "", fmt.Errorf("job description file %s is empty", rankJobPath)
		}
		return text, nil
	}

	text, err := ingest.NewFetcher(cfg.RequestTimeout()).JobDescription(ctx, rankJobURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch job description: %w", err)
	}
	return text, nil
}

// writeResult marshals the ranking response to a JSON file.
func writeResult(path string, result any) error {
	jsonOutput, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}

	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write result to %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Wrote ranking result to %s\n", path)
	return nil
}
