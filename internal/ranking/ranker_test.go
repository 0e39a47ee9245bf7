package ranking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/types"
)

type fakeLanguages struct {
	byRepo map[string]map[string]int
}

func (f *fakeLanguages) Languages(ctx context.Context, owner, repo string) map[string]int {
	if langs, ok := f.byRepo[repo]; ok {
		return langs
	}
	return map[string]int{}
}

type fakeSummarizer struct {
	failFor map[string]bool
}

func (f *fakeSummarizer) Summarize(ctx context.Context, owner, repo, description string) (string, error) {
	if f.failFor[repo] {
		return "", errors.New("summarize failed")
	}
	if description == "" {
		return "summary of " + repo, nil
	}
	return description, nil
}

func newTestRanker(langs *fakeLanguages, sum *fakeSummarizer) *Ranker {
	r := NewRanker(langs, sum, 5, 2, zap.NewNop())
	r.Now = func() time.Time { return testNow }
	return r
}

func repoNamed(name string, fork bool, pushedDaysAgo int, description string) types.RawRepo {
	return types.RawRepo{
		Name:        name,
		Fork:        fork,
		PushedAt:    testNow.AddDate(0, 0, -pushedDaysAgo),
		Description: description,
	}
}

func TestRank_SelectsTopTwo(t *testing.T) {
	langs := &fakeLanguages{byRepo: map[string]map[string]int{
		"fresh":  {"TypeScript": 9000, "HTML": 100},
		"stale":  {"Haskell": 5000},
		"middle": {"Python": 3000},
	}}
	ranker := newTestRanker(langs, &fakeSummarizer{})

	repos := []types.RawRepo{
		repoNamed("stale", false, 400, ""),
		repoNamed("fresh", false, 0, "a modern web app"),
		repoNamed("middle", false, 60, "a data tool"),
	}

	selected := ranker.Rank(context.Background(), "octocat", repos)

	require.Len(t, selected, 2)
	assert.Equal(t, "fresh", selected[0].Name)
	assert.Equal(t, "middle", selected[1].Name)
	for _, c := range selected {
		assert.GreaterOrEqual(t, c.Score, 0.0)
	}
}

// A repo pushed today, with a description and a high-signal language, must
// rank first among six non-fork candidates.
func TestRank_HighSignalFreshRepoRanksFirst(t *testing.T) {
	langs := &fakeLanguages{byRepo: map[string]map[string]int{
		"winner": {"Rust": 10000},
	}}
	// Pool is capped at 5, so use a 6-repo input with the winner inside the cap.
	ranker := NewRanker(langs, &fakeSummarizer{}, 6, 2, zap.NewNop())
	ranker.Now = func() time.Time { return testNow }

	repos := []types.RawRepo{
		repoNamed("a", false, 200, ""),
		repoNamed("winner", false, 0, "systems tool with a clear purpose"),
		repoNamed("b", false, 300, ""),
		repoNamed("c", false, 250, ""),
		repoNamed("d", false, 100, ""),
		repoNamed("e", false, 365, ""),
	}

	selected := ranker.Rank(context.Background(), "octocat", repos)

	require.NotEmpty(t, selected)
	assert.Equal(t, "winner", selected[0].Name)
}

func TestRank_ForkFilterAppliedBeforeTruncation(t *testing.T) {
	ranker := newTestRanker(&fakeLanguages{}, &fakeSummarizer{})

	repos := []types.RawRepo{
		repoNamed("fork1", true, 0, ""),
		repoNamed("fork2", true, 0, ""),
		repoNamed("fork3", true, 0, ""),
		repoNamed("fork4", true, 0, ""),
		repoNamed("fork5", true, 0, ""),
		repoNamed("own1", false, 10, "mine"),
		repoNamed("own2", false, 20, "also mine"),
	}

	selected := ranker.Rank(context.Background(), "octocat", repos)

	require.Len(t, selected, 2)
	assert.Equal(t, "own1", selected[0].Name)
	assert.Equal(t, "own2", selected[1].Name)
}

func TestRank_FewerCandidatesThanSelection(t *testing.T) {
	ranker := newTestRanker(&fakeLanguages{}, &fakeSummarizer{})

	selected := ranker.Rank(context.Background(), "octocat", []types.RawRepo{
		repoNamed("only", false, 5, "the one"),
	})

	require.Len(t, selected, 1)
	assert.Equal(t, "only", selected[0].Name)
}

func TestRank_EmptyInput(t *testing.T) {
	ranker := newTestRanker(&fakeLanguages{}, &fakeSummarizer{})

	selected := ranker.Rank(context.Background(), "octocat", nil)
	assert.Empty(t, selected)
}

func TestRank_DegradedCandidateKeptWithZeroScore(t *testing.T) {
	ranker := newTestRanker(&fakeLanguages{}, &fakeSummarizer{failFor: map[string]bool{"broken": true}})

	repos := []types.RawRepo{
		repoNamed("broken", false, 0, ""),
		repoNamed("healthy", false, 0, "works fine"),
	}

	selected := ranker.Rank(context.Background(), "octocat", repos)

	require.Len(t, selected, 2, "degraded candidates are never dropped")
	assert.Equal(t, "healthy", selected[0].Name)
	degraded := selected[1]
	assert.Equal(t, "broken", degraded.Name)
	assert.Equal(t, NoDescription, degraded.Description)
	assert.Empty(t, degraded.TechStack)
	assert.Zero(t, degraded.Score)
}

func TestRank_DegradedCandidateKeepsOwnDescription(t *testing.T) {
	ranker := newTestRanker(&fakeLanguages{}, &fakeSummarizer{failFor: map[string]bool{"broken": true}})

	selected := ranker.Rank(context.Background(), "octocat", []types.RawRepo{
		repoNamed("broken", false, 0, "original words"),
	})

	require.Len(t, selected, 1)
	assert.Equal(t, "original words", selected[0].Description)
}

func TestRank_Deterministic(t *testing.T) {
	langs := &fakeLanguages{byRepo: map[string]map[string]int{
		"x": {"Go": 500, "Shell": 100},
		"y": {"Python": 700},
		"z": {"Rust": 900},
	}}
	ranker := newTestRanker(langs, &fakeSummarizer{})

	repos := []types.RawRepo{
		repoNamed("x", false, 15, "xx"),
		repoNamed("y", false, 15, "yy"),
		repoNamed("z", false, 15, "zz"),
	}

	first := ranker.Rank(context.Background(), "octocat", repos)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ranker.Rank(context.Background(), "octocat", repos))
	}
}

func TestRank_TiesPreserveRecencyOrder(t *testing.T) {
	// Identical scores: same language, same push date, same description state.
	langs := &fakeLanguages{byRepo: map[string]map[string]int{
		"newer": {"Go": 100},
		"older": {"Go": 100},
	}}
	ranker := newTestRanker(langs, &fakeSummarizer{})

	repos := []types.RawRepo{
		repoNamed("newer", false, 30, "same"),
		repoNamed("older", false, 30, "same"),
	}

	selected := ranker.Rank(context.Background(), "octocat", repos)

	require.Len(t, selected, 2)
	assert.Equal(t, "newer", selected[0].Name)
	assert.Equal(t, "older", selected[1].Name)
}

func TestTopLanguages(t *testing.T) {
	histogram := map[string]int{"Go": 900, "HTML": 500, "CSS": 500, "Shell": 10}

	top := topLanguages(histogram, 3)

	assert.Equal(t, []string{"Go", "CSS", "HTML"}, top)
}

func TestKeyPoints(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        []string
	}{
		{
			name:        "splits on sentence punctuation",
			description: "Parses logs. Streams results! Scales well?",
			want:        []string{"Parses logs", "Streams results", "Scales well"},
		},
		{
			name:        "caps at three",
			description: "One. Two. Three. Four. Five.",
			want:        []string{"One", "Two", "Three"},
		},
		{
			name:        "drops empty fragments",
			description: "  . Real point.  .",
			want:        []string{"Real point"},
		},
		{
			name:        "empty input",
			description: "",
			want:        []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyPoints(tt.description))
		})
	}
}
