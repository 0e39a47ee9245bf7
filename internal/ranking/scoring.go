// Package ranking scores and selects repository candidates for the resume's
// project section.
package ranking

import (
	"strings"
	"time"
)

// Weights holds the scoring constants. They are heuristic values kept
// configurable rather than baked in.
type Weights struct {
	ModernTier       float64 // languages/frameworks with high market signal
	GeneralTier      float64 // established general-purpose languages
	MarkupTier       float64 // markup, shell, and config languages
	DefaultTier      float64 // anything unrecognized
	DescriptionBonus float64 // flat bonus for a non-empty description
	RecencyCeiling   float64 // recency bonus at a push made "now"
	RecencyDecayDays float64 // days per point of recency decay
}

// DefaultWeights returns the reference scoring constants. The recency bonus
// decays linearly from the ceiling to zero over 180 days.
func DefaultWeights() Weights {
	return Weights{
		ModernTier:       10,
		GeneralTier:      7,
		MarkupTier:       3,
		DefaultTier:      5,
		DescriptionBonus: 3,
		RecencyCeiling:   6,
		RecencyDecayDays: 30,
	}
}

// Tier membership is matched case-insensitively as a substring, so entries
// like "Next.js" and "nextjs" both hit the modern tier.
var (
	modernTier = []string{
		"typescript", "go", "rust", "kotlin", "swift", "react", "next",
		"vue", "svelte", "flutter", "dart", "scala", "elixir",
	}
	generalTier = []string{
		"javascript", "python", "java", "c#", "c++", "ruby", "php",
		"objective-c", "perl",
	}
	markupTier = []string{
		"html", "css", "scss", "shell", "dockerfile", "makefile",
		"batchfile", "powershell", "tex", "vim",
	}
)

// ScoreBreakdown carries the per-component scores for one candidate. It is
// transient: only the combined score survives into the candidate.
type ScoreBreakdown struct {
	LanguageScore    float64
	RecencyScore     float64
	DescriptionScore float64
}

// Total combines the components. Each is non-negative by construction, so the
// total is too.
func (b ScoreBreakdown) Total() float64 {
	return b.LanguageScore + b.RecencyScore + b.DescriptionScore
}

// scoreCandidate computes the breakdown for one candidate's inputs.
func scoreCandidate(techStack []string, description string, pushedAt, now time.Time, w Weights) ScoreBreakdown {
	var b ScoreBreakdown
	for _, lang := range techStack {
		b.LanguageScore += w.languageWeight(lang)
	}
	b.RecencyScore = w.recencyScore(pushedAt, now)
	if strings.TrimSpace(description) != "" {
		b.DescriptionScore = w.DescriptionBonus
	}
	return b
}

// languageWeight assigns the tier weight for a single language or framework.
func (w Weights) languageWeight(lang string) float64 {
	normalized := strings.ToLower(strings.TrimSpace(lang))
	if normalized == "" {
		return 0
	}
	for _, entry := range modernTier {
		if strings.Contains(normalized, entry) {
			return w.ModernTier
		}
	}
	for _, entry := range generalTier {
		if strings.Contains(normalized, entry) {
			return w.GeneralTier
		}
	}
	for _, entry := range markupTier {
		if strings.Contains(normalized, entry) {
			return w.MarkupTier
		}
	}
	return w.DefaultTier
}

// recencyScore yields a linearly decaying bonus that reaches zero once the
// last push is RecencyCeiling*RecencyDecayDays days old.
func (w Weights) recencyScore(pushedAt, now time.Time) float64 {
	if pushedAt.IsZero() || pushedAt.After(now) {
		return w.RecencyCeiling
	}
	days := now.Sub(pushedAt).Hours() / 24
	score := w.RecencyCeiling - days/w.RecencyDecayDays
	if score < 0 {
		return 0
	}
	return score
}
