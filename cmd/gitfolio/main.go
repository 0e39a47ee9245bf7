// Package main provides the gitfolio CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagJSONLogs bool
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:   "gitfolio",
	Short: "Resume generator backed by GitHub, LeetCode, and Gemini",
	Long:  "gitfolio assembles a resume document from a user's public repositories and coding-judge stats, synthesizing prose locally whenever the AI provider is unavailable.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&flagJSONLogs, "json-logs", false, "emit JSON logs")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
