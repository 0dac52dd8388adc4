package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/interview-practice/internal/schemas"
	"github.com/jonathan/interview-practice/internal/types"
)

// textExtensions are the resume formats read directly. PDF text extraction
// happens outside this program.
var textExtensions = map[string]bool{
	"":          true,
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
}

// LoadResumeFile reads an uploaded resume, cleans it and returns it as
// uploaded resume content. Text rejected by CheckText fails with
// ErrEmptyResume or ErrResumeTooShort.
func LoadResumeFile(path string) (types.ResumeContent, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !textExtensions[ext] {
		return types.ResumeContent{}, &Error{
			Path:    path,
			Message: fmt.Sprintf("unsupported format %q, export the resume as plain text or markdown", ext),
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.ResumeContent{}, &Error{Path: path, Message: "file not found", Cause: err}
		}
		return types.ResumeContent{}, &Error{Path: path, Message: "failed to read file", Cause: err}
	}
	if info.Size() > MaxResumeBytes {
		return types.ResumeContent{}, &Error{Path: path, Message: fmt.Sprintf("file too large (%d bytes, limit %d)", info.Size(), MaxResumeBytes)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.ResumeContent{}, &Error{Path: path, Message: "failed to read file", Cause: err}
	}

	text := CleanText(string(data))
	if err := CheckText(text); err != nil {
		return types.ResumeContent{}, &Error{Path: path, Message: "no usable text", Cause: err}
	}

	return types.ResumeContent{
		RawText:  text,
		Source:   types.ResumeUploaded,
		FileName: filepath.Base(path),
	}, nil
}

// Format is the encoding of a built-resume document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseBuiltResume decodes a built-resume form, checks it against the
// built-resume schema and the struct validation rules.
func ParseBuiltResume(data []byte, format Format) (*types.BuiltResume, error) {
	doc := data
	if format == FormatYAML {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse built resume YAML: %w", err)
		}
		converted, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to convert built resume YAML: %w", err)
		}
		doc = converted
	}

	if err := schemas.Validate(schemas.BuiltResume, doc); err != nil {
		return nil, fmt.Errorf("built resume does not match schema: %w", err)
	}

	var resume types.BuiltResume
	if err := json.Unmarshal(doc, &resume); err != nil {
		return nil, fmt.Errorf("failed to parse built resume: %w", err)
	}
	if err := resume.Validate(); err != nil {
		return nil, fmt.Errorf("invalid built resume: %w", err)
	}
	return &resume, nil
}

// LoadBuiltResume reads a built-resume form from a JSON or YAML file and
// returns it serialized as built resume content.
func LoadBuiltResume(path string) (types.ResumeContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ResumeContent{}, &Error{Path: path, Message: "failed to read file", Cause: err}
	}

	resume, err := ParseBuiltResume(data, FormatFromPath(path))
	if err != nil {
		return types.ResumeContent{}, &Error{Path: path, Message: "invalid built resume", Cause: err}
	}

	content, err := resume.Content()
	if err != nil {
		return types.ResumeContent{}, &Error{Path: path, Message: "failed to serialize built resume", Cause: err}
	}
	content.FileName = filepath.Base(path)
	return content, nil
}
