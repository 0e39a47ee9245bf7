// Package judge provides the optional coding-judge collector backed by the
// LeetCode GraphQL API. Its stats enrich the skill section; it is never on
// the fatal path and absorbs every failure into an empty result.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/types"
)

// DefaultEndpoint is the public LeetCode GraphQL endpoint.
const DefaultEndpoint = "https://leetcode.com/graphql"

// mediumThreshold is the accepted-medium count above which the bonus
// languages are credited. LeetCode's breakdown omits the languages commonly
// used for harder problems, so a strong medium record implies them.
const mediumThreshold = 50

// bonusLanguages are credited when the medium threshold is crossed.
var bonusLanguages = []string{"C++", "Java"}

const existsQuery = `query userExists($username: String!) {
  matchedUser(username: $username) { username }
}`

const statsQuery = `query userStats($username: String!) {
  matchedUser(username: $username) {
    submitStatsGlobal {
      acSubmissionNum { difficulty count }
    }
    languageProblemCount { languageName problemsSolved }
  }
}`

// Collector fetches judge statistics for a handle.
type Collector struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithEndpoint overrides the GraphQL endpoint (used by tests).
func WithEndpoint(url string) Option {
	return func(c *Collector) { c.endpoint = url }
}

// WithTimeout sets the per-call network timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Collector) { c.httpClient.Timeout = d }
}

// NewCollector creates a judge collector.
func NewCollector(logger *zap.Logger, opts ...Option) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphqlRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type matchedUser struct {
	Username          string `json:"username"`
	SubmitStatsGlobal *struct {
		ACSubmissionNum []struct {
			Difficulty string `json:"difficulty"`
			Count      int    `json:"count"`
		} `json:"acSubmissionNum"`
	} `json:"submitStatsGlobal"`
	LanguageProblemCount []struct {
		LanguageName   string `json:"languageName"`
		ProblemsSolved int    `json:"problemsSolved"`
	} `json:"languageProblemCount"`
}

type graphqlResponse struct {
	Data struct {
		MatchedUser *matchedUser `json:"matchedUser"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Stats returns the judge statistics for a handle. A missing account is an
// expected outcome and yields an empty result; so does any network or parse
// failure. Stats never returns an error.
func (c *Collector) Stats(ctx context.Context, handle string) types.JudgeStats {
	empty := types.JudgeStats{Handle: handle, Languages: []string{}}
	if handle == "" {
		return empty
	}

	exists, err := c.exists(ctx, handle)
	if err != nil {
		c.logger.Warn("judge existence check failed", zap.String("handle", handle), zap.Error(err))
		return empty
	}
	if !exists {
		c.logger.Debug("judge handle not found", zap.String("handle", handle))
		return empty
	}

	user, err := c.query(ctx, statsQuery, handle)
	if err != nil || user == nil {
		c.logger.Warn("judge stats fetch failed", zap.String("handle", handle), zap.Error(err))
		return empty
	}

	stats := types.JudgeStats{
		Handle:         handle,
		SolvedByLevel:  map[string]int{},
		Languages:      []string{},
		ProblemsByLang: map[string]int{},
	}

	if user.SubmitStatsGlobal != nil {
		for _, entry := range user.SubmitStatsGlobal.ACSubmissionNum {
			stats.SolvedByLevel[entry.Difficulty] = entry.Count
			if entry.Difficulty == "All" {
				stats.TotalSolved = entry.Count
			}
		}
	}

	if stats.SolvedByLevel["Medium"] > mediumThreshold {
		stats.Languages = append(stats.Languages, bonusLanguages...)
	}
	for _, entry := range user.LanguageProblemCount {
		stats.Languages = append(stats.Languages, entry.LanguageName)
		stats.ProblemsByLang[entry.LanguageName] = entry.ProblemsSolved
	}

	return stats
}

func (c *Collector) exists(ctx context.Context, handle string) (bool, error) {
	user, err := c.query(ctx, existsQuery, handle)
	if err != nil {
		return false, err
	}
	return user != nil && user.Username != "", nil
}

func (c *Collector) query(ctx context.Context, query, handle string) (*matchedUser, error) {
	payload, err := json.Marshal(graphqlRequest{
		Query:     query,
		Variables: map[string]string{"username": handle},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("judge request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("judge returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var parsed graphqlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding graphql response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", parsed.Errors[0].Message)
	}
	return parsed.Data.MatchedUser, nil
}
