// Package githubapi provides the repository-hosting collector backed by the
// GitHub REST API. It is the only collector on the pipeline's fatal path:
// a missing account or an exhausted rate limit aborts the whole request,
// while everything else degrades locally.
package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/types"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

const userAgent = "gitfolio/1.0"

// Sentinel conditions surfaced to the assembler. Everything else wraps into a
// generic upstream error and is treated as degradable by callers.
var (
	// ErrUserNotFound indicates the hosting account does not exist.
	ErrUserNotFound = errors.New("github user not found")
	// ErrRateLimited indicates the hosting API quota is exhausted.
	ErrRateLimited = errors.New("github rate limit exceeded")
)

// Client talks to the hosting API with a fixed per-call timeout.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	pageSize   int
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithToken attaches an API token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the per-call network timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithPageSize bounds the repository listing.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = n }
}

// NewClient creates a hosting API client.
func NewClient(logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		pageSize:   10,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup verifies that the account exists. A 404 maps to ErrUserNotFound.
func (c *Client) Lookup(ctx context.Context, username string) error {
	_, err := c.get(ctx, fmt.Sprintf("%s/users/%s", c.baseURL, username), "")
	return err
}

// RecentRepos fetches the most recently updated public repositories for the
// account, bounded to the configured page size.
func (c *Client) RecentRepos(ctx context.Context, username string) ([]types.RawRepo, error) {
	url := fmt.Sprintf("%s/users/%s/repos?sort=updated&direction=desc&per_page=%d", c.baseURL, username, c.pageSize)
	body, err := c.get(ctx, url, "")
	if err != nil {
		return nil, err
	}

	var repos []types.RawRepo
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, fmt.Errorf("decoding repository list: %w", err)
	}
	return repos, nil
}

// Languages returns the byte histogram for one repository. Failures are
// non-fatal: the caller gets an empty map and the candidate loses its tech
// stack rather than aborting ranking.
func (c *Client) Languages(ctx context.Context, owner, repo string) map[string]int {
	url := fmt.Sprintf("%s/repos/%s/%s/languages", c.baseURL, owner, repo)
	body, err := c.get(ctx, url, "")
	if err != nil {
		c.logger.Warn("language histogram unavailable",
			zap.String("repo", owner+"/"+repo), zap.Error(err))
		return map[string]int{}
	}

	langs := map[string]int{}
	if err := json.Unmarshal(body, &langs); err != nil {
		c.logger.Warn("language histogram unparseable",
			zap.String("repo", owner+"/"+repo), zap.Error(err))
		return map[string]int{}
	}
	return langs
}

// readmeNames are the conventional filenames tried in order; first hit wins.
var readmeNames = []string{"README.md", "README.markdown"}

// Readme fetches the repository README as raw text, trying the conventional
// filenames in order.
func (c *Client) Readme(ctx context.Context, owner, repo string) (string, error) {
	var lastErr error
	for _, name := range readmeNames {
		url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, name)
		body, err := c.get(ctx, url, "application/vnd.github.raw+json")
		if err == nil {
			return string(body), nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("no readme found: %w", lastErr)
}

// get performs a GET and maps the hosting API's failure modes onto the error
// taxonomy. accept overrides the media type when non-empty.
func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrUserNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("github returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
