// Package summarize turns repository READMEs into short technical summaries,
// degrading through raw README lines and the repository description when the
// generation layer cannot help.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/llm"
	"github.com/jonathan/gitfolio/internal/types"
)

const (
	// maxRawLines bounds the raw-README fallback.
	maxRawLines = 3
	// htmlTagThreshold is the number of tags above which a README is
	// treated as HTML and stripped before summarization.
	htmlTagThreshold = 5
)

// ReadmeFetcher fetches a repository's README content.
type ReadmeFetcher interface {
	Readme(ctx context.Context, owner, repo string) (string, error)
}

// Generator resolves a prompt to a generation result. It is expected to be
// total, per the generation service contract.
type Generator interface {
	Generate(ctx context.Context, prompt types.GenerationPrompt) types.GenerationResult
}

// ReadmeSummarizer produces a candidate description from its README.
type ReadmeSummarizer struct {
	fetcher   ReadmeFetcher
	generator Generator
	logger    *zap.Logger
}

// NewReadmeSummarizer creates a summarizer.
func NewReadmeSummarizer(fetcher ReadmeFetcher, generator Generator, logger *zap.Logger) *ReadmeSummarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReadmeSummarizer{fetcher: fetcher, generator: generator, logger: logger}
}

// Summarize returns the best available description for a repository:
// generated summary, then raw README lines, then the repository's own short
// description. An error means every source was exhausted and the candidate
// should be treated as degraded.
func (s *ReadmeSummarizer) Summarize(ctx context.Context, owner, repo, description string) (string, error) {
	readme, err := s.fetcher.Readme(ctx, owner, repo)
	if err != nil {
		s.logger.Debug("readme unavailable",
			zap.String("repo", owner+"/"+repo), zap.Error(err))
		if strings.TrimSpace(description) != "" {
			return description, nil
		}
		return "", fmt.Errorf("no readme and no description for %s/%s", owner, repo)
	}

	readme = stripHTML(readme)

	result := s.generator.Generate(ctx, llm.BuildSummaryPrompt(repo, readme))
	if summary := strings.TrimSpace(result.Summary); summary != "" {
		return summary, nil
	}

	if lines := firstLines(readme, maxRawLines); lines != "" {
		return lines, nil
	}
	if strings.TrimSpace(description) != "" {
		return description, nil
	}
	return "", fmt.Errorf("empty readme and no description for %s/%s", owner, repo)
}

// stripHTML converts tag-dense READMEs to plain text. Markdown with a few
// inline tags passes through untouched.
func stripHTML(content string) string {
	if strings.Count(content, "<") < htmlTagThreshold {
		return content
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return content
	}
	return text
}

// firstLines returns up to n non-empty lines of the content, skipping
// markdown heading markers and badges.
func firstLines(content string, n int) string {
	lines := make([]string, 0, n)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line == "" || strings.HasPrefix(line, "![") || strings.HasPrefix(line, "[!") {
			continue
		}
		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}
	return strings.Join(lines, " ")
}
