// Package types provides type definitions for structured data used throughout the gitfolio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// RawRepo represents a repository as returned by the hosting API, before ranking.
type RawRepo struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	PushedAt    time.Time `json:"pushed_at"`
	CreatedAt   time.Time `json:"created_at"`
	Stars       int       `json:"stargazers_count"`
	Language    string    `json:"language"`
	Fork        bool      `json:"fork"`
}

// RepoCandidate is a repository under consideration for the resume's project
// section. Owned by the ranker during scoring; immutable once selected.
type RepoCandidate struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
	PushedAt      time.Time `json:"pushed_at"`
	CreatedAt     time.Time `json:"created_at"`
	StarCount     int       `json:"star_count"`
	IsFork        bool      `json:"is_fork"`
	TechStack     []string  `json:"tech_stack"`
	ReadmeSummary string    `json:"readme_summary,omitempty"`
	Score         float64   `json:"score"`
}

// ProjectView is a selected project as it appears in the final document.
type ProjectView struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack"`
	KeyPoints   []string `json:"key_points"`
	URL         string   `json:"url,omitempty"`
}

// SkillCategory is one bucket of the skill taxonomy. Categories are kept as an
// ordered slice so rendering order matches taxonomy declaration order.
type SkillCategory struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// SkillMap is the ordered set of categorized skills.
type SkillMap []SkillCategory

// ExperienceEntry represents one work experience item.
type ExperienceEntry struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Duration    string   `json:"duration"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// EducationInfo represents the education section.
type EducationInfo struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year,omitempty"`
	Details     string `json:"details,omitempty"`
}

// ContactInfo carries the contact fields rendered in the document header.
type ContactInfo struct {
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	LinkedIn string `json:"linkedin"`
}

// CustomSection is a caller-supplied section merged into the document verbatim.
type CustomSection struct {
	Content string   `json:"content,omitempty"`
	Items   []string `json:"items,omitempty"`
}

// JudgeStats holds the derived result of the coding-judge collector.
// A zero value is the expected outcome for a missing or failing judge account.
type JudgeStats struct {
	Handle         string         `json:"handle"`
	TotalSolved    int            `json:"total_solved"`
	SolvedByLevel  map[string]int `json:"solved_by_level,omitempty"`
	Languages      []string       `json:"languages"`
	ProblemsByLang map[string]int `json:"problems_by_lang,omitempty"`
}

// ResumeDocument is the aggregate output of the pipeline. It is created once
// per request, fully populated even under total upstream failure, and never
// mutated after assembly.
type ResumeDocument struct {
	GithubUsername    string                   `json:"github_username"`
	CategorizedSkills SkillMap                 `json:"categorized_skills"`
	BestProjects      []ProjectView            `json:"best_projects"`
	Summary           string                   `json:"summary"`
	WorkExperience    []ExperienceEntry        `json:"work_experience"`
	Education         EducationInfo            `json:"education"`
	ContactInfo       ContactInfo              `json:"contact_info"`
	CustomSections    map[string]CustomSection `json:"custom_sections,omitempty"`
	Template          string                   `json:"template"`
}

// GenerationResult is the contract both the remote provider and the local
// fallback must satisfy. EnhancedExperience is never nil.
type GenerationResult struct {
	Summary            string            `json:"summary"`
	EnhancedExperience []ExperienceEntry `json:"enhanced_experience"`
}
