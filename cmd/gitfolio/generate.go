package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/gitfolio/internal/config"
	"github.com/jonathan/gitfolio/internal/logger"
	"github.com/jonathan/gitfolio/internal/types"
)

var (
	flagHandle      string
	flagJudgeHandle string
	flagInput       string
	flagOutput      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a resume document for a GitHub handle",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&flagHandle, "handle", "", "GitHub username (required unless --input is given)")
	generateCmd.Flags().StringVar(&flagJudgeHandle, "judge-handle", "", "LeetCode username")
	generateCmd.Flags().StringVar(&flagInput, "input", "", "path to a JSON request file")
	generateCmd.Flags().StringVar(&flagOutput, "output", "", "write the document to this file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	log, err := logger.New(flagJSONLogs, flagDebug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	req, err := loadRequest()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	assembler, cleanup, err := buildAssembler(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	doc, err := assembler.Assemble(ctx, req)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if flagOutput != "" {
		return os.WriteFile(flagOutput, append(encoded, '\n'), 0o644)
	}
	fmt.Println(string(encoded))
	return nil
}

// loadRequest builds the request from --input or from flags.
func loadRequest() (types.ResumeRequest, error) {
	var req types.ResumeRequest
	if flagInput != "" {
		data, err := os.ReadFile(flagInput)
		if err != nil {
			return req, fmt.Errorf("reading request file: %w", err)
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parsing request file: %w", err)
		}
	}
	if flagHandle != "" {
		req.Handle = flagHandle
	}
	if flagJudgeHandle != "" {
		req.JudgeHandle = flagJudgeHandle
	}
	return req, nil
}
