// Package pipeline orchestrates the collectors, ranker, categorizer, and
// generation service into one resume document per request. Only a missing
// handle, a missing hosting account, or an exhausted hosting quota fail the
// request; every other failure degrades to a safe default.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/gitfolio/internal/llm"
	"github.com/jonathan/gitfolio/internal/ranking"
	"github.com/jonathan/gitfolio/internal/skills"
	"github.com/jonathan/gitfolio/internal/types"
)

// DefaultTemplate is used when the caller does not pick one.
const DefaultTemplate = "modern"

// Placeholder contact defaults; the document always carries a complete
// contact block.
var defaultContact = types.ContactInfo{
	Email:    "your.email@example.com",
	Mobile:   "+1 000 000 0000",
	LinkedIn: "linkedin.com/in/your-profile",
}

// RepoCollector is the hosting-API surface the assembler needs.
type RepoCollector interface {
	Lookup(ctx context.Context, username string) error
	RecentRepos(ctx context.Context, username string) ([]types.RawRepo, error)
}

// JudgeCollector fetches coding-judge stats; it must absorb its own failures.
type JudgeCollector interface {
	Stats(ctx context.Context, handle string) types.JudgeStats
}

// Ranker selects the best project candidates.
type Ranker interface {
	Rank(ctx context.Context, owner string, repos []types.RawRepo) []types.RepoCandidate
}

// Generator resolves a prompt to a generation result, never failing.
type Generator interface {
	Generate(ctx context.Context, prompt types.GenerationPrompt) types.GenerationResult
}

// Assembler wires the pipeline together. Construct once, share across
// requests; it holds no per-request state.
type Assembler struct {
	repos     RepoCollector
	judge     JudgeCollector
	ranker    Ranker
	generator Generator
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewAssembler creates an assembler.
func NewAssembler(repos RepoCollector, judge JudgeCollector, ranker Ranker, generator Generator, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		repos:     repos,
		judge:     judge,
		ranker:    ranker,
		generator: generator,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Assemble produces the resume document for one request. The returned error
// is one of the fatal conditions (validation, not-found, rate-limited) or a
// wrapped upstream failure from the repository branch; everything below that
// degrades in place.
func (a *Assembler) Assemble(ctx context.Context, req types.ResumeRequest) (*types.ResumeDocument, error) {
	if err := a.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	log := a.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("handle", req.Handle),
	)

	// The repository fetch and the judge fetch are independent; only the
	// repository branch is fatal, and its failure cancels the sibling.
	var repos []types.RawRepo
	var judgeStats types.JudgeStats

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.repos.Lookup(gCtx, req.Handle); err != nil {
			return err
		}
		var err error
		repos, err = a.repos.RecentRepos(gCtx, req.Handle)
		return err
	})
	g.Go(func() error {
		judgeStats = a.judge.Stats(gCtx, req.JudgeHandle)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("collected upstream data",
		zap.Int("repos", len(repos)),
		zap.Int("judge_languages", len(judgeStats.Languages)))

	selected := a.ranker.Rank(ctx, req.Handle, repos)

	skillMap := skills.Categorize(observedLanguages(repos, selected, judgeStats))
	skillMap, customSections := skills.ApplyOverride(skillMap, req.CustomSections)

	projects := projectViews(selected, req.Projects)

	result := a.generator.Generate(ctx, llm.BuildResumePrompt(llm.ResumePromptInput{
		Skills:    flatten(skillMap),
		Projects:  selected,
		Work:      req.WorkExperience,
		Education: educationOf(req),
	}))

	doc := &types.ResumeDocument{
		GithubUsername:    req.Handle,
		CategorizedSkills: skillMap,
		BestProjects:      projects,
		Summary:           result.Summary,
		WorkExperience:    mergedExperience(req, result),
		Education:         educationOf(req),
		ContactInfo:       contactOf(req),
		CustomSections:    customSections,
		Template:          templateOf(req),
	}

	// Caller-supplied overrides always win over derived content.
	if strings.TrimSpace(req.Summary) != "" {
		doc.Summary = req.Summary
	}

	log.Info("assembled resume document",
		zap.Int("projects", len(doc.BestProjects)),
		zap.Int("experience_entries", len(doc.WorkExperience)))
	return doc, nil
}

// observedLanguages unions the listing's primary languages, the selected
// candidates' tech stacks, and the judge-derived languages.
func observedLanguages(repos []types.RawRepo, selected []types.RepoCandidate, judge types.JudgeStats) []string {
	var observed []string
	for _, repo := range repos {
		if repo.Language != "" {
			observed = append(observed, repo.Language)
		}
	}
	for _, candidate := range selected {
		observed = append(observed, candidate.TechStack...)
	}
	observed = append(observed, judge.Languages...)
	return observed
}

// projectViews converts the selection into rendered project entries. A
// caller-supplied projects override replaces the derived list wholesale.
func projectViews(selected []types.RepoCandidate, override *types.ProjectsOverride) []types.ProjectView {
	if override != nil && len(override.Items) > 0 {
		views := make([]types.ProjectView, 0, len(override.Items))
		for _, item := range override.Items {
			views = append(views, types.ProjectView{
				Name:        item.Name,
				Description: item.Description,
				TechStack:   item.TechStack,
				KeyPoints:   item.KeyPoints,
				URL:         item.URL,
			})
		}
		return views
	}

	views := make([]types.ProjectView, 0, len(selected))
	for _, candidate := range selected {
		views = append(views, types.ProjectView{
			Name:        candidate.Name,
			Description: candidate.Description,
			TechStack:   candidate.TechStack,
			KeyPoints:   ranking.KeyPoints(candidate.Description),
			URL:         candidate.URL,
		})
	}
	return views
}

// mergedExperience prefers caller-supplied experience, then enhanced entries
// from generation; the result is never nil.
func mergedExperience(req types.ResumeRequest, result types.GenerationResult) []types.ExperienceEntry {
	if len(req.WorkExperience) > 0 {
		return req.WorkExperience
	}
	if len(result.EnhancedExperience) > 0 {
		return result.EnhancedExperience
	}
	return []types.ExperienceEntry{}
}

func educationOf(req types.ResumeRequest) types.EducationInfo {
	if req.Education != nil {
		return *req.Education
	}
	return types.EducationInfo{}
}

func contactOf(req types.ResumeRequest) types.ContactInfo {
	contact := defaultContact
	if req.ContactInfo == nil {
		return contact
	}
	if req.ContactInfo.Email != "" {
		contact.Email = req.ContactInfo.Email
	}
	if req.ContactInfo.Mobile != "" {
		contact.Mobile = req.ContactInfo.Mobile
	}
	if req.ContactInfo.LinkedIn != "" {
		contact.LinkedIn = req.ContactInfo.LinkedIn
	}
	return contact
}

func templateOf(req types.ResumeRequest) string {
	if req.Template != "" {
		return req.Template
	}
	return DefaultTemplate
}

// flatten lists every categorized skill in rendering order for the prompt.
func flatten(m types.SkillMap) []string {
	var all []string
	for _, cat := range m {
		all = append(all, cat.Skills...)
	}
	return all
}
