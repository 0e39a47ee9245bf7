package types

// ProjectOverride is a caller-supplied replacement for a derived project entry.
type ProjectOverride struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	TechStack   []string `json:"tech_stack,omitempty"`
	KeyPoints   []string `json:"key_points,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// ProjectsOverride replaces the derived project section wholesale.
type ProjectsOverride struct {
	Title string            `json:"title,omitempty"`
	Items []ProjectOverride `json:"items"`
}

// ResumeRequest is the inbound shape the pipeline consumes. Only Handle is
// required; everything else is an optional override merged after synthesis.
type ResumeRequest struct {
	Handle         string                   `json:"handle" validate:"required"`
	JudgeHandle    string                   `json:"judge_handle,omitempty"`
	WorkExperience []ExperienceEntry        `json:"work_experience,omitempty"`
	Education      *EducationInfo           `json:"education,omitempty"`
	ContactInfo    *ContactInfo             `json:"contact_info,omitempty"`
	CustomSections map[string]CustomSection `json:"custom_sections,omitempty"`
	Template       string                   `json:"template,omitempty"`
	Projects       *ProjectsOverride        `json:"projects,omitempty"`
	Summary        string                   `json:"summary,omitempty"`
}
