package ranking

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/types"
)

// NoDescription is the placeholder used when a degraded candidate has no
// description of its own.
const NoDescription = "No description available"

const (
	maxTechStack = 3
	maxKeyPoints = 3
)

// LanguageLister provides per-repository language histograms. Implementations
// must degrade to an empty map instead of failing.
type LanguageLister interface {
	Languages(ctx context.Context, owner, repo string) map[string]int
}

// Summarizer produces a short description for a repository, typically from
// its README. An error marks the candidate as degraded.
type Summarizer interface {
	Summarize(ctx context.Context, owner, repo, description string) (string, error)
}

// Ranker scores a bounded candidate set and selects the top entries.
type Ranker struct {
	languages  LanguageLister
	summarizer Summarizer
	weights    Weights
	poolSize   int
	selectN    int
	logger     *zap.Logger

	// Now is injectable so recency scoring is deterministic under test.
	Now func() time.Time
}

// NewRanker creates a ranker. poolSize bounds the candidates considered after
// the fork filter; selectN bounds the final selection.
func NewRanker(languages LanguageLister, summarizer Summarizer, poolSize, selectN int, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{
		languages:  languages,
		summarizer: summarizer,
		weights:    DefaultWeights(),
		poolSize:   poolSize,
		selectN:    selectN,
		logger:     logger,
		Now:        time.Now,
	}
}

// Rank processes the repository list into scored candidates and returns the
// top selection, ordered by score descending. Ties keep the input's recency
// order. The batch size is stable: a candidate whose processing fails is
// degraded, never dropped.
func (r *Ranker) Rank(ctx context.Context, owner string, repos []types.RawRepo) []types.RepoCandidate {
	pool := make([]types.RawRepo, 0, r.poolSize)
	for _, repo := range repos {
		if repo.Fork {
			continue
		}
		pool = append(pool, repo)
		if len(pool) == r.poolSize {
			break
		}
	}

	now := r.Now()
	candidates := make([]types.RepoCandidate, len(pool))

	// Per-candidate fan-out. Each branch absorbs its own failure so a bad
	// candidate cannot affect its siblings.
	var wg sync.WaitGroup
	for i, repo := range pool {
		wg.Add(1)
		go func(i int, repo types.RawRepo) {
			defer wg.Done()
			candidates[i] = r.process(ctx, owner, repo, now)
		}(i, repo)
	}
	wg.Wait()

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > r.selectN {
		candidates = candidates[:r.selectN]
	}
	return candidates
}

// process enriches and scores one candidate.
func (r *Ranker) process(ctx context.Context, owner string, repo types.RawRepo, now time.Time) types.RepoCandidate {
	candidate := types.RepoCandidate{
		Name:        repo.Name,
		Description: repo.Description,
		URL:         repo.HTMLURL,
		PushedAt:    repo.PushedAt,
		CreatedAt:   repo.CreatedAt,
		StarCount:   repo.Stars,
		IsFork:      repo.Fork,
		TechStack:   []string{},
	}

	description, err := r.summarizer.Summarize(ctx, owner, repo.Name, repo.Description)
	if err != nil {
		r.logger.Warn("candidate degraded",
			zap.String("repo", repo.Name), zap.Error(err))
		if candidate.Description == "" {
			candidate.Description = NoDescription
		}
		return candidate
	}
	candidate.Description = description
	candidate.ReadmeSummary = description
	candidate.TechStack = topLanguages(r.languages.Languages(ctx, owner, repo.Name), maxTechStack)

	breakdown := scoreCandidate(candidate.TechStack, candidate.Description, repo.PushedAt, now, r.weights)
	candidate.Score = breakdown.Total()
	return candidate
}

// topLanguages returns the top-n languages by byte count, descending. Equal
// counts fall back to name order so the stack is deterministic.
func topLanguages(histogram map[string]int, n int) []string {
	names := make([]string, 0, len(histogram))
	for name := range histogram {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if histogram[names[i]] != histogram[names[j]] {
			return histogram[names[i]] > histogram[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

var keyPointSplitRe = regexp.MustCompile(`[.!?]+`)

// KeyPoints derives up to three rendered bullet points from a candidate's
// description by splitting on sentence-ending punctuation.
func KeyPoints(description string) []string {
	points := make([]string, 0, maxKeyPoints)
	for _, fragment := range keyPointSplitRe.Split(description, -1) {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		points = append(points, fragment)
		if len(points) == maxKeyPoints {
			break
		}
	}
	return points
}
