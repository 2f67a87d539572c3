package capture

import (
	"encoding/json"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/solvesync/internal/models"
)

var (
	descriptionPolicy = bluemonday.StrictPolicy()
	blockBreakPattern = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|li|pre|ul|ol|h[1-6])>`)
)

// NewQuestionMeta normalizes problem-detail fields into cacheable metadata.
// The first non-empty tag is authoritative and contentHTML is reduced to plain
// text. Unknown difficulties stay empty; consumers apply the defaults.
func NewQuestionMeta(problemID, slug, title, difficulty string, tags []string, contentHTML string) models.QuestionMeta {
	meta := models.QuestionMeta{
		Slug:        strings.TrimSpace(slug),
		ProblemID:   strings.TrimSpace(problemID),
		Title:       strings.TrimSpace(title),
		Difficulty:  NormalizeDifficulty(difficulty),
		Description: PlainText(contentHTML),
	}
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			meta.Tag = trimmed
			break
		}
	}
	return meta
}

// PlainText strips markup from a problem statement and tidies blank lines.
func PlainText(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	content = blockBreakPattern.ReplaceAllStringFunc(content, func(tag string) string {
		return tag + "\n"
	})
	text := html.UnescapeString(descriptionPolicy.Sanitize(content))
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	cleaned := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(strings.ReplaceAll(line, "\u00a0", " "), " \t")
		if strings.TrimSpace(line) == "" {
			if !blank && len(cleaned) > 0 {
				cleaned = append(cleaned, "")
			}
			blank = true
			continue
		}
		blank = false
		cleaned = append(cleaned, line)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// flexString accepts JSON strings and numbers, since the judge is not consistent
// about identifier types.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*f = flexString(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*f = flexString(number.String())
	return nil
}

func (f flexString) String() string {
	return strings.TrimSpace(string(f))
}
