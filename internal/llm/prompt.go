package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/gitfolio/internal/types"
)

// Bounds for the context embedded in the resume prompt. Oversized inputs are
// truncated rather than rejected.
const (
	maxSkillsInPrompt   = 15
	maxProjectsInPrompt = 4
	maxWorkInPrompt     = 4
	readmeTruncateAt    = 2000
)

// ResumePromptInput carries the derived and caller-supplied context the
// resume synthesis prompt embeds.
type ResumePromptInput struct {
	Skills    []string
	Projects  []types.RepoCandidate
	Work      []types.ExperienceEntry
	Education types.EducationInfo
}

// BuildResumePrompt composes the single structured-JSON generation request
// for a resume document.
func BuildResumePrompt(in ResumePromptInput) types.GenerationPrompt {
	var sb strings.Builder

	sb.WriteString("You are a professional resume writer. Using the context below, write a concise professional summary (2-4 sentences) and enhance the work experience entries.\n\n")

	skills := in.Skills
	if len(skills) > maxSkillsInPrompt {
		skills = skills[:maxSkillsInPrompt]
	}
	if len(skills) > 0 {
		sb.WriteString("Skills: " + strings.Join(skills, ", ") + "\n")
	}

	projects := in.Projects
	if len(projects) > maxProjectsInPrompt {
		projects = projects[:maxProjectsInPrompt]
	}
	if len(projects) > 0 {
		names := make([]string, 0, len(projects))
		for _, p := range projects {
			names = append(names, p.Name)
		}
		sb.WriteString("Projects: " + strings.Join(names, ", ") + "\n")
		for _, p := range projects {
			desc := p.Description
			if desc == "" {
				desc = "no description"
			}
			sb.WriteString(fmt.Sprintf("- %s: %s\n", p.Name, desc))
		}
	}

	work := in.Work
	if len(work) > maxWorkInPrompt {
		work = work[:maxWorkInPrompt]
	}
	if len(work) > 0 {
		entries := make([]string, 0, len(work))
		for _, w := range work {
			entries = append(entries, fmt.Sprintf("%s at %s (%s)", w.Title, w.Company, w.Duration))
		}
		sb.WriteString("Experience: " + strings.Join(entries, "; ") + "\n")
	}

	if in.Education.Degree != "" || in.Education.Institution != "" {
		sb.WriteString(fmt.Sprintf("Education: %s, %s\n", in.Education.Degree, in.Education.Institution))
	}

	sb.WriteString("\nReturn ONLY valid JSON with this exact structure:\n")
	sb.WriteString(`{"summary": "...", "enhanced_experience": [{"title": "...", "company": "...", "duration": "...", "description": "...", "highlights": ["..."]}]}`)
	sb.WriteString("\nNo markdown, no explanation, no code blocks.")

	return types.GenerationPrompt{
		Messages:    []types.Message{{Role: "user", Text: sb.String()}},
		Temperature: 0.4,
		MaxTokens:   1024,
	}
}

// BuildSummaryPrompt composes the free-text README summarization request.
// The README is truncated before embedding.
func BuildSummaryPrompt(repoName, readme string) types.GenerationPrompt {
	if len(readme) > readmeTruncateAt {
		readme = readme[:readmeTruncateAt]
	}

	text := fmt.Sprintf(
		"Summarize the %s project below in 2-3 short technical bullet points. Focus on what it does and how it is built. Plain text only.\n\n%s",
		repoName, readme)

	return types.GenerationPrompt{
		Messages:    []types.Message{{Role: "user", Text: text}},
		Temperature: 0.2,
		MaxTokens:   256,
	}
}
