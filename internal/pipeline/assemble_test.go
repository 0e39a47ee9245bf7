package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/gitfolio/internal/githubapi"
	"github.com/jonathan/gitfolio/internal/types"
)

type fakeRepos struct {
	lookupErr error
	repos     []types.RawRepo
	reposErr  error
}

func (f *fakeRepos) Lookup(ctx context.Context, username string) error { return f.lookupErr }

func (f *fakeRepos) RecentRepos(ctx context.Context, username string) ([]types.RawRepo, error) {
	return f.repos, f.reposErr
}

type fakeJudge struct {
	stats  types.JudgeStats
	called bool
}

func (f *fakeJudge) Stats(ctx context.Context, handle string) types.JudgeStats {
	f.called = true
	if f.stats.Languages == nil {
		f.stats.Languages = []string{}
	}
	return f.stats
}

type fakeRanker struct {
	selected []types.RepoCandidate
}

func (f *fakeRanker) Rank(ctx context.Context, owner string, repos []types.RawRepo) []types.RepoCandidate {
	return f.selected
}

type fakeGenerator struct {
	result types.GenerationResult
	called bool
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt types.GenerationPrompt) types.GenerationResult {
	f.called = true
	if f.result.EnhancedExperience == nil {
		f.result.EnhancedExperience = []types.ExperienceEntry{}
	}
	return f.result
}

func sampleRepos() []types.RawRepo {
	return []types.RawRepo{
		{Name: "alpha", Language: "Go", PushedAt: time.Now()},
		{Name: "beta", Language: "TypeScript"},
	}
}

func sampleSelection() []types.RepoCandidate {
	return []types.RepoCandidate{
		{Name: "alpha", Description: "Parses logs. Fast.", TechStack: []string{"Go"}, Score: 20, URL: "https://example.com/alpha"},
	}
}

func newTestAssembler(repos *fakeRepos, judge *fakeJudge, ranker *fakeRanker, gen *fakeGenerator) *Assembler {
	return NewAssembler(repos, judge, ranker, gen, zap.NewNop())
}

func TestAssemble_MissingHandleFailsFast(t *testing.T) {
	repos := &fakeRepos{}
	gen := &fakeGenerator{}
	a := newTestAssembler(repos, &fakeJudge{}, &fakeRanker{}, gen)

	_, err := a.Assemble(context.Background(), types.ResumeRequest{})

	assert.ErrorIs(t, err, ErrValidation)
	assert.False(t, gen.called)
}

func TestAssemble_UserNotFoundPropagates(t *testing.T) {
	gen := &fakeGenerator{}
	a := newTestAssembler(&fakeRepos{lookupErr: githubapi.ErrUserNotFound}, &fakeJudge{}, &fakeRanker{}, gen)

	_, err := a.Assemble(context.Background(), types.ResumeRequest{Handle: "ghost"})

	assert.ErrorIs(t, err, githubapi.ErrUserNotFound)
	assert.False(t, gen.called, "no generation call after a fatal collector failure")
}

func TestAssemble_RateLimitedPropagates(t *testing.T) {
	a := newTestAssembler(&fakeRepos{reposErr: githubapi.ErrRateLimited}, &fakeJudge{}, &fakeRanker{}, &fakeGenerator{})

	_, err := a.Assemble(context.Background(), types.ResumeRequest{Handle: "octocat"})

	assert.ErrorIs(t, err, githubapi.ErrRateLimited)
}

func TestAssemble_FullDocument(t *testing.T) {
	judge := &fakeJudge{stats: types.JudgeStats{Languages: []string{"Python3", "Java"}}}
	gen := &fakeGenerator{result: types.GenerationResult{
		Summary:            "A generated summary.",
		EnhancedExperience: []types.ExperienceEntry{{Title: "Engineer", Company: "Synthesized"}},
	}}
	a := newTestAssembler(&fakeRepos{repos: sampleRepos()}, judge, &fakeRanker{selected: sampleSelection()}, gen)

	doc, err := a.Assemble(context.Background(), types.ResumeRequest{Handle: "octocat", JudgeHandle: "octocoder"})

	require.NoError(t, err)
	assert.Equal(t, "octocat", doc.GithubUsername)
	assert.Equal(t, "A generated summary.", doc.Summary)
	assert.True(t, judge.called)

	require.Len(t, doc.BestProjects, 1)
	assert.Equal(t, "alpha", doc.BestProjects[0].Name)
	assert.Equal(t, []string{"Parses logs", "Fast"}, doc.BestProjects[0].KeyPoints)

	// Languages from the listing, the selection, and the judge all land in
	// the skill buckets.
	var langs []string
	for _, cat := range doc.CategorizedSkills {
		langs = append(langs, cat.Skills...)
	}
	assert.Contains(t, langs, "Go")
	assert.Contains(t, langs, "TypeScript")
	assert.Contains(t, langs, "Java")

	require.Len(t, doc.WorkExperience, 1)
	assert.Equal(t, "Synthesized", doc.WorkExperience[0].Company)

	assert.Equal(t, defaultContact, doc.ContactInfo)
	assert.Equal(t, DefaultTemplate, doc.Template)
}

func TestAssemble_SafeDefaultsUnderTotalUpstreamFailure(t *testing.T) {
	// Collectors return nothing, generation returns an empty result.
	a := newTestAssembler(&fakeRepos{}, &fakeJudge{}, &fakeRanker{}, &fakeGenerator{})

	doc, err := a.Assemble(context.Background(), types.ResumeRequest{Handle: "octocat"})

	require.NoError(t, err)
	assert.NotNil(t, doc.BestProjects)
	assert.Empty(t, doc.BestProjects)
	assert.NotNil(t, doc.WorkExperience)
	assert.Len(t, doc.CategorizedSkills, 4)
	assert.Equal(t, defaultContact.Email, doc.ContactInfo.Email)
}

func TestAssemble_CallerOverridesWin(t *testing.T) {
	gen := &fakeGenerator{result: types.GenerationResult{
		Summary:            "derived summary",
		EnhancedExperience: []types.ExperienceEntry{{Title: "Derived"}},
	}}
	a := newTestAssembler(&fakeRepos{repos: sampleRepos()}, &fakeJudge{}, &fakeRanker{selected: sampleSelection()}, gen)

	req := types.ResumeRequest{
		Handle:  "octocat",
		Summary: "caller summary",
		WorkExperience: []types.ExperienceEntry{
			{Title: "Staff Engineer", Company: "Caller Inc"},
		},
		Education:   &types.EducationInfo{Degree: "M.Sc.", Institution: "Tech U"},
		ContactInfo: &types.ContactInfo{Email: "me@example.org"},
		Template:    "classic",
		Projects: &types.ProjectsOverride{Items: []types.ProjectOverride{
			{Name: "handpicked", Description: "chosen by the caller"},
		}},
	}

	doc, err := a.Assemble(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "caller summary", doc.Summary)
	assert.Equal(t, "Caller Inc", doc.WorkExperience[0].Company)
	assert.Equal(t, "M.Sc.", doc.Education.Degree)
	assert.Equal(t, "classic", doc.Template)
	require.Len(t, doc.BestProjects, 1)
	assert.Equal(t, "handpicked", doc.BestProjects[0].Name)

	// Partial contact overrides keep placeholders for the rest.
	assert.Equal(t, "me@example.org", doc.ContactInfo.Email)
	assert.Equal(t, defaultContact.Mobile, doc.ContactInfo.Mobile)
}

func TestAssemble_SkillsOverrideReplacesLanguagesBucket(t *testing.T) {
	a := newTestAssembler(&fakeRepos{repos: sampleRepos()}, &fakeJudge{}, &fakeRanker{}, &fakeGenerator{})

	req := types.ResumeRequest{
		Handle: "octocat",
		CustomSections: map[string]types.CustomSection{
			"Skills": {Items: []string{"Distributed Systems"}},
			"Awards": {Content: "Hackathon winner"},
		},
	}

	doc, err := a.Assemble(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Skills", doc.CategorizedSkills[0].Name)
	assert.Equal(t, []string{"Distributed Systems"}, doc.CategorizedSkills[0].Skills)
	assert.NotContains(t, doc.CustomSections, "Skills")
	assert.Contains(t, doc.CustomSections, "Awards")
}

func TestAssemble_JudgeAbsenceLeavesHostingSkills(t *testing.T) {
	judge := &fakeJudge{stats: types.JudgeStats{Languages: []string{}}}
	a := newTestAssembler(&fakeRepos{repos: sampleRepos()}, judge, &fakeRanker{}, &fakeGenerator{})

	doc, err := a.Assemble(context.Background(), types.ResumeRequest{Handle: "octocat", JudgeHandle: "ghost"})

	require.NoError(t, err)
	var langs []string
	for _, cat := range doc.CategorizedSkills {
		langs = append(langs, cat.Skills...)
	}
	assert.Contains(t, langs, "Go")
	assert.Contains(t, langs, "TypeScript")
	assert.NotContains(t, langs, "Java")
}
