package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/config"
	"github.com/jonathan/gitfolio/internal/githubapi"
	"github.com/jonathan/gitfolio/internal/judge"
	"github.com/jonathan/gitfolio/internal/llm"
	"github.com/jonathan/gitfolio/internal/pipeline"
	"github.com/jonathan/gitfolio/internal/ranking"
	"github.com/jonathan/gitfolio/internal/summarize"
)

// buildAssembler wires the full pipeline from configuration. The returned
// cleanup releases the provider client, if any.
func buildAssembler(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pipeline.Assembler, func(), error) {
	github := githubapi.NewClient(logger,
		githubapi.WithToken(cfg.GithubToken),
		githubapi.WithTimeout(cfg.RequestTimeout),
		githubapi.WithPageSize(cfg.RepoPageSize),
	)
	judgeCollector := judge.NewCollector(logger, judge.WithTimeout(cfg.RequestTimeout))

	var client llm.Client
	cleanup := func() {}
	if !cfg.LocalOnly && cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, nil, err
		}
		client = gemini
		cleanup = func() { _ = gemini.Close() }
	} else {
		logger.Info("no generation provider configured, running local-only")
	}

	generator := llm.NewService(client, cfg.Retry, logger)
	summarizer := summarize.NewReadmeSummarizer(github, generator, logger)
	ranker := ranking.NewRanker(github, summarizer, cfg.CandidatePool, cfg.SelectCount, logger)

	return pipeline.NewAssembler(github, judgeCollector, ranker, generator, logger), cleanup, nil
}
