package capture

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/noah-isme/solvesync/internal/models"
)

var problemPathPattern = regexp.MustCompile(`/problems/([a-z0-9][a-z0-9-]*)`)

// SlugFromURL extracts the problem slug from a judge page or API URL.
func SlugFromURL(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	path := raw
	if parsed, err := url.Parse(raw); err == nil && parsed.Path != "" {
		path = parsed.Path
	}

	match := problemPathPattern.FindStringSubmatch(strings.ToLower(path))
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

// TitleFromSlug turns "binary-search" into "Binary Search".
func TitleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// NormalizeDifficulty maps any casing of the judge labels to Easy, Medium or Hard.
// Unknown values come back empty so callers can apply their own fallback.
func NormalizeDifficulty(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy":
		return models.DifficultyEasy
	case "medium":
		return models.DifficultyMedium
	case "hard":
		return models.DifficultyHard
	default:
		return ""
	}
}

var languageAliases = map[string]string{
	"c++":      "cpp",
	"c#":       "csharp",
	"go":       "golang",
	"python 3": "python3",
	"js":       "javascript",
	"ts":       "typescript",
	"ms sql":   "mssql",
	"oracle":   "oraclesql",
}

// NormalizeLanguage converts editor labels such as "Python3" or "C++" to the
// judge's language identifiers so both detection paths agree on dedup keys.
func NormalizeLanguage(value string) string {
	lang := strings.ToLower(strings.TrimSpace(value))
	if alias, ok := languageAliases[lang]; ok {
		return alias
	}
	return lang
}
