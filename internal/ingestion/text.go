// Package ingestion loads resumes: uploaded text or markdown files, text
// pasted into the HTTP API and built-resume forms in JSON or YAML.
package ingestion

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinResumeLength is the shortest cleaned resume, in characters, accepted as
// text. Shorter output usually means the export held only images.
const MinResumeLength = 10

// MaxResumeBytes bounds resume files read from disk.
const MaxResumeBytes = 5 << 20

var (
	// Word processors and PDF extraction put these in front of list items.
	bulletGlyph = regexp.MustCompile(`^[•●▪■◦‣∙]\s*`)
	spaceRun    = regexp.MustCompile(`[ \t]+`)
	blankRun    = regexp.MustCompile(`\n{3,}`)
)

var invisibles = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\ufeff", "",
	"\u200b", "",
	"\u00a0", " ",
)

// CleanText normalizes resume text before it is sent to the interviewer.
// Bullet glyphs become markdown "- " items, spacing inside a line collapses
// to single spaces and blocks keep at most one blank line between them.
func CleanText(content string) string {
	lines := strings.Split(invisibles.Replace(content), "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	return strings.TrimSpace(blankRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

func cleanLine(line string) string {
	line = strings.Map(func(r rune) rune {
		if r != '\t' && unicode.IsControl(r) {
			return ' '
		}
		return r
	}, line)
	line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	return strings.TrimSpace(bulletGlyph.ReplaceAllString(line, "- "))
}

// CheckText rejects cleaned resume text that is empty or too short to be a
// resume.
func CheckText(text string) error {
	switch n := utf8.RuneCountInString(text); {
	case n == 0:
		return ErrEmptyResume
	case n < MinResumeLength:
		return ErrResumeTooShort
	}
	return nil
}
