// Package main provides the entry point for the Candidate Ranker HTTP API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "candidate_ranker",
	Short: "Candidate Ranker HTTP API Server",
	Long:  "Candidate Ranker scores a stored candidate pool against a job description using batched, rate-limit-aware LLM calls, via REST API or one-shot CLI runs.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
