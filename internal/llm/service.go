package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"github.com/jonathan/gitfolio/internal/config"
	"github.com/jonathan/gitfolio/internal/types"
)

// Service wraps the generation provider with retry, backoff, and extraction
// logic. Generate is total: it always resolves to a valid GenerationResult,
// delegating to the local fallback on persistent failure.
type Service struct {
	client   Client // nil means local-only mode
	retry    config.RetryPolicy
	fallback *LocalFallback
	logger   *zap.Logger
	sleep    func(ctx context.Context, d time.Duration)
}

// NewService creates a generation service. A nil client puts the service in
// local-only mode.
func NewService(client Client, retry config.RetryPolicy, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:   client,
		retry:    retry,
		fallback: NewLocalFallback(),
		logger:   logger,
		sleep:    sleepContext,
	}
}

// Generate resolves the prompt to a GenerationResult. It never returns an
// error: provider absence, exhausted retries, and unparseable output all
// degrade to the deterministic local fallback.
func (s *Service) Generate(ctx context.Context, prompt types.GenerationPrompt) types.GenerationResult {
	if s.client == nil {
		s.logger.Debug("no generation provider configured, using local fallback")
		return s.fallback.Generate(prompt)
	}

	raw, ok := s.callWithRetry(ctx, prompt)
	if !ok {
		return s.fallback.Generate(prompt)
	}

	if wantsJSON(prompt) {
		result, ok := ExtractResult(raw)
		if !ok {
			s.logger.Warn("provider output failed JSON extraction, using local fallback")
			return s.fallback.Generate(prompt)
		}
		return *result
	}

	return types.GenerationResult{
		Summary:            strings.TrimSpace(raw),
		EnhancedExperience: []types.ExperienceEntry{},
	}
}

// callWithRetry attempts the provider up to MaxAttempts times. Client errors
// other than rate limiting abort immediately: retrying a malformed request
// cannot help.
func (s *Service) callWithRetry(ctx context.Context, prompt types.GenerationPrompt) (string, bool) {
	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		raw, err := s.client.Generate(ctx, prompt)
		if err == nil {
			return raw, true
		}

		code := statusCode(err)
		s.logger.Warn("generation attempt failed",
			zap.Int("attempt", attempt), zap.Int("status", code), zap.Error(err))

		if isClientError(code) {
			return "", false
		}
		if attempt == s.retry.MaxAttempts {
			break
		}

		delay := s.retry.BaseDelay * time.Duration(attempt)
		if code == http.StatusTooManyRequests {
			delay *= time.Duration(s.retry.RateLimitMultiplier)
		}
		s.sleep(ctx, delay)
	}
	return "", false
}

// wantsJSON reports whether the prompt asks for a structured JSON result.
func wantsJSON(prompt types.GenerationPrompt) bool {
	return strings.Contains(strings.ToUpper(prompt.Text()), "JSON")
}

// statusCode pulls an HTTP status out of a provider error, zero when absent.
func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// isClientError reports whether the status is a non-retryable 4xx.
func isClientError(code int) bool {
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
