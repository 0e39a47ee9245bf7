// Package skills buckets observed languages and tools into the resume's
// fixed skill taxonomy.
package skills

import (
	"strings"

	"github.com/jonathan/gitfolio/internal/types"
)

// LanguagesCategory is the taxonomy key a caller-supplied "Skills" section
// replaces wholesale.
const LanguagesCategory = "Programming Languages"

// SkillsOverrideKey is the custom-section key that triggers the replacement.
const SkillsOverrideKey = "Skills"

// category pairs a taxonomy bucket with its allow-list and any members that
// are included whether or not they were detected.
type category struct {
	name   string
	allow  []string
	forced []string
}

// taxonomy declaration order is rendering order.
var taxonomy = []category{
	{
		name: LanguagesCategory,
		allow: []string{
			"JavaScript", "TypeScript", "Python", "Java", "Go", "Rust",
			"C", "C++", "C#", "Ruby", "PHP", "Kotlin", "Swift", "Dart",
			"Scala", "Elixir", "SQL", "R",
		},
	},
	{
		name: "Frontend",
		allow: []string{
			"React", "Vue", "Angular", "Svelte", "Next.js", "HTML", "CSS",
			"SCSS", "Tailwind",
		},
		forced: []string{"React"},
	},
	{
		name: "Backend",
		allow: []string{
			"Node.js", "Express", "Django", "Flask", "Spring",
			"PostgreSQL", "MySQL", "MongoDB", "Redis", "GraphQL",
		},
		forced: []string{"MongoDB"},
	},
	{
		name: "Tools/Other",
		allow: []string{
			"Docker", "Kubernetes", "Git", "Linux", "Shell", "AWS",
			"Terraform", "Makefile", "Jupyter Notebook",
		},
	},
}

// Categorize buckets the observed language/tool names into the taxonomy.
// A name lands in a category only when it is both observed and on that
// category's allow-list; forced members are always present. Output order is
// taxonomy declaration order, then allow-list order within a category.
func Categorize(observed []string) types.SkillMap {
	seen := make(map[string]bool, len(observed))
	for _, name := range observed {
		seen[strings.ToLower(strings.TrimSpace(name))] = true
	}

	result := make(types.SkillMap, 0, len(taxonomy))
	for _, cat := range taxonomy {
		forced := make(map[string]bool, len(cat.forced))
		for _, name := range cat.forced {
			forced[name] = true
		}

		members := make([]string, 0, len(cat.allow))
		for _, name := range cat.allow {
			if forced[name] || seen[strings.ToLower(name)] {
				members = append(members, name)
			}
		}
		result = append(result, types.SkillCategory{Name: cat.name, Skills: members})
	}
	return result
}

// ApplyOverride replaces the languages bucket wholesale when the caller
// supplied a "Skills" custom section, and removes that section from the pool
// so it is not rendered twice. The inputs are not mutated.
func ApplyOverride(skills types.SkillMap, sections map[string]types.CustomSection) (types.SkillMap, map[string]types.CustomSection) {
	override, ok := sections[SkillsOverrideKey]
	if !ok || len(override.Items) == 0 {
		return skills, sections
	}

	replaced := make(types.SkillMap, 0, len(skills))
	for _, cat := range skills {
		if cat.Name == LanguagesCategory {
			replaced = append(replaced, types.SkillCategory{
				Name:   SkillsOverrideKey,
				Skills: append([]string(nil), override.Items...),
			})
			continue
		}
		replaced = append(replaced, cat)
	}

	remaining := make(map[string]types.CustomSection, len(sections))
	for key, section := range sections {
		if key == SkillsOverrideKey {
			continue
		}
		remaining[key] = section
	}
	return replaced, remaining
}
