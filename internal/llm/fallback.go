package llm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/gitfolio/internal/types"
)

// Placeholders substituted for fields the prompt does not carry. Keeping them
// fixed keeps the fallback byte-deterministic.
const (
	placeholderSkills    = "modern software development"
	placeholderProjects  = "a range of personal projects"
	placeholderWork      = "hands-on software engineering work"
	placeholderEducation = "a strong technical foundation"

	freeTextLabel = "Summary: "

	// minSentenceLen is the threshold below which a leading sentence is
	// considered too thin to stand alone as a summary.
	minSentenceLen = 40
	// freeTextCap bounds the fallback summary when no sentence qualifies.
	freeTextCap = 120
)

var (
	skillsLineRe    = regexp.MustCompile(`(?im)^skills?:\s*(.+)$`)
	projectsLineRe  = regexp.MustCompile(`(?im)^projects?:\s*(.+)$`)
	workLineRe      = regexp.MustCompile(`(?im)^(?:work experience|experience|work):\s*(.+)$`)
	educationLineRe = regexp.MustCompile(`(?im)^education:\s*(.+)$`)
)

// LocalFallback is the deterministic, network-free generator used whenever
// the remote provider is absent, exhausted, or unparseable. Identical inputs
// always produce byte-identical output.
type LocalFallback struct{}

// NewLocalFallback creates the fallback generator.
func NewLocalFallback() *LocalFallback {
	return &LocalFallback{}
}

// Generate derives a GenerationResult from the prompt alone. Prompts carrying
// a JSON marker get the structured treatment; everything else is treated as a
// free-text summarization request.
func (f *LocalFallback) Generate(prompt types.GenerationPrompt) types.GenerationResult {
	text := prompt.Text()
	if strings.Contains(strings.ToUpper(text), "JSON") {
		return f.structured(text)
	}
	return types.GenerationResult{
		Summary:            f.freeText(text),
		EnhancedExperience: []types.ExperienceEntry{},
	}
}

// structured pattern-extracts the labeled context lines the assembler embeds
// in its prompt and composes a templated summary plus one synthesized
// experience entry.
func (f *LocalFallback) structured(text string) types.GenerationResult {
	skills := firstMatch(skillsLineRe, text, placeholderSkills)
	projects := firstMatch(projectsLineRe, text, placeholderProjects)
	work := firstMatch(workLineRe, text, placeholderWork)
	education := firstMatch(educationLineRe, text, placeholderEducation)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Software developer experienced with %s.", skills))
	sb.WriteString(fmt.Sprintf(" Built %s.", projects))
	if work != placeholderWork {
		sb.WriteString(fmt.Sprintf(" Professional background includes %s.", work))
	}
	sb.WriteString(fmt.Sprintf(" Backed by %s.", education))

	entry := types.ExperienceEntry{
		Title:       "Software Developer",
		Company:     "Independent Projects",
		Duration:    "Ongoing",
		Description: fmt.Sprintf("Designed and shipped %s using %s.", projects, skills),
	}

	return types.GenerationResult{
		Summary:            sb.String(),
		EnhancedExperience: []types.ExperienceEntry{entry},
	}
}

var sentenceEndRe = regexp.MustCompile(`[.!?]`)

// freeText returns the first sentence exceeding the minimum length, or a
// truncated prefix when none qualifies. Summarization prompts put their
// instruction before the first blank line; only the content after it is
// summarized.
func (f *LocalFallback) freeText(text string) string {
	if idx := strings.Index(text, "\n\n"); idx >= 0 {
		text = text[idx+2:]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return freeTextLabel + "No description available."
	}

	rest := text
	for {
		loc := sentenceEndRe.FindStringIndex(rest)
		if loc == nil {
			break
		}
		sentence := strings.TrimSpace(rest[:loc[1]])
		if len(sentence) > minSentenceLen {
			return freeTextLabel + sentence
		}
		rest = rest[loc[1]:]
	}

	runes := []rune(text)
	if len(runes) > freeTextCap {
		return freeTextLabel + string(runes[:freeTextCap]) + "..."
	}
	return freeTextLabel + text
}

func firstMatch(re *regexp.Regexp, text, fallback string) string {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return fallback
	}
	value := strings.TrimSpace(match[1])
	if value == "" {
		return fallback
	}
	return value
}
