//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// BuiltResume is the quick resume a user fills in instead of uploading one.
type BuiltResume struct {
	Name           string          `json:"name" yaml:"name" validate:"required"`
	Email          string          `json:"email" yaml:"email" validate:"omitempty,email"`
	Phone          string          `json:"phone" yaml:"phone"`
	Education      []EducationItem `json:"education" yaml:"education" validate:"dive"`
	Skills         []string        `json:"skills" yaml:"skills"`
	Experience     []WorkItem      `json:"experience" yaml:"experience" validate:"dive"`
	Certifications []string        `json:"certifications" yaml:"certifications"`
	Achievements   []string        `json:"achievements" yaml:"achievements"`
	Projects       []ProjectItem   `json:"projects" yaml:"projects" validate:"dive"`
}

// EducationItem is one education entry of a built resume.
type EducationItem struct {
	Degree      string `json:"degree" yaml:"degree"`
	Institution string `json:"institution" yaml:"institution" validate:"required_with=Degree"`
	Year        string `json:"year" yaml:"year"`
}

// WorkItem is one work experience entry of a built resume.
type WorkItem struct {
	Role     string `json:"role" yaml:"role"`
	Company  string `json:"company" yaml:"company" validate:"required_with=Role"`
	Duration string `json:"duration" yaml:"duration"`
	Details  string `json:"details" yaml:"details"`
}

// ProjectItem is one project entry of a built resume.
type ProjectItem struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Validate validates the BuiltResume using the validator.
func (r *BuiltResume) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Content serializes the form into the resume text handed to the backend.
func (r *BuiltResume) Content() (ResumeContent, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return ResumeContent{}, fmt.Errorf("failed to marshal built resume: %w", err)
	}
	return ResumeContent{RawText: string(data), Source: ResumeBuilt}, nil
}
