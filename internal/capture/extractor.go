package capture

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageData is what an extractor could read about the problem on a page.
// Empty fields mean "unknown".
type PageData struct {
	Title       string
	Slug        string
	Difficulty  string
	Description string
	Code        string
	Language    string
	ProblemID   string
}

// fill copies the fields of other into the empty fields of p.
func (p PageData) fill(other PageData) PageData {
	if p.Title == "" {
		p.Title = other.Title
	}
	if p.Slug == "" {
		p.Slug = other.Slug
	}
	if p.Difficulty == "" {
		p.Difficulty = other.Difficulty
	}
	if p.Description == "" {
		p.Description = other.Description
	}
	if p.Code == "" {
		p.Code = other.Code
		p.Language = other.Language
	}
	if p.Language == "" {
		p.Language = other.Language
	}
	if p.ProblemID == "" {
		p.ProblemID = other.ProblemID
	}
	return p
}

// EditorState is the editor content read through the page's editor API.
type EditorState struct {
	Value    string
	Language string
}

// Snapshot is one rendered-page observation forwarded by the page shim.
type Snapshot struct {
	Tab        TabContext
	HTML       string
	Editor     *EditorState
	CapturedAt time.Time
}

// PageExtractor reads what it can from a snapshot. doc is nil when the HTML
// could not be parsed.
type PageExtractor interface {
	Name() string
	Extract(snapshot Snapshot, doc *goquery.Document) (PageData, bool)
}

// DefaultExtractors returns the extractors in priority order: intercepted
// problem-detail JSON, the editor API, then DOM selectors.
func DefaultExtractors(metadata *MetadataCache) []PageExtractor {
	return []PageExtractor{
		interceptedExtractor{metadata: metadata},
		editorAPIExtractor{},
		domSelectorExtractor{},
	}
}

// ExtractPage runs every extractor and merges the results, earlier extractors winning.
func ExtractPage(extractors []PageExtractor, snapshot Snapshot) PageData {
	doc := parseDocument(snapshot.HTML)

	var merged PageData
	for _, extractor := range extractors {
		data, ok := extractor.Extract(snapshot, doc)
		if !ok {
			continue
		}
		merged = merged.fill(data)
	}
	return merged
}

func parseDocument(markup string) *goquery.Document {
	if strings.TrimSpace(markup) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	return doc
}

type interceptedExtractor struct {
	metadata *MetadataCache
}

func (interceptedExtractor) Name() string { return "intercepted_json" }

func (e interceptedExtractor) Extract(snapshot Snapshot, _ *goquery.Document) (PageData, bool) {
	if e.metadata == nil {
		return PageData{}, false
	}
	meta, ok := e.metadata.Get(SlugFromURL(snapshot.Tab.URL))
	if !ok {
		return PageData{}, false
	}
	return PageData{
		Title:       meta.Title,
		Slug:        meta.Slug,
		Difficulty:  meta.Difficulty,
		Description: meta.Description,
		ProblemID:   meta.ProblemID,
	}, true
}

type editorAPIExtractor struct{}

func (editorAPIExtractor) Name() string { return "editor_api" }

func (editorAPIExtractor) Extract(snapshot Snapshot, _ *goquery.Document) (PageData, bool) {
	if snapshot.Editor == nil || strings.TrimSpace(snapshot.Editor.Value) == "" {
		return PageData{}, false
	}
	return PageData{
		Code:     snapshot.Editor.Value,
		Language: NormalizeLanguage(snapshot.Editor.Language),
	}, true
}

var (
	acceptedSelectors = []string{
		`[data-e2e-locator="submission-result"]`,
		`[data-e2e-locator="console-result"]`,
		`.success__3Ai7`,
		`[class*="text-green-s"]`,
		`.marked_as_success`,
	}
	titleSelectors = []string{
		`[data-cy="question-title"]`,
		`.text-title-large a`,
		`.text-title-large`,
		`[class*="question-title"]`,
	}
	difficultySelectors = []string{
		`[class*="text-difficulty-"]`,
		`[diff]`,
		`[class*="difficulty"]`,
	}
	descriptionSelectors = []string{
		`[data-track-load="description_content"]`,
		`[class*="question-content"]`,
		`.content__u3I1`,
	}
	languageSelectors = []string{
		`[data-cy="lang-select"]`,
		`button[id^="headlessui-listbox-button"]`,
		`.ant-select-selection-selected-value`,
	}
	editorLineSelectors = []string{
		`.view-lines .view-line`,
		`.cm-content .cm-line`,
		`.CodeMirror-code pre`,
	}

	numberedTitlePattern = regexp.MustCompile(`^\d+\.\s*`)
)

// VerdictAccepted reports whether any verdict selector shows "Accepted".
// Selectors are tried in priority order.
func VerdictAccepted(doc *goquery.Document) bool {
	if doc == nil {
		return false
	}
	for _, selector := range acceptedSelectors {
		found := false
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.Contains(s.Text(), AcceptedStatus) {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}

type domSelectorExtractor struct{}

func (domSelectorExtractor) Name() string { return "dom_selectors" }

func (domSelectorExtractor) Extract(snapshot Snapshot, doc *goquery.Document) (PageData, bool) {
	if doc == nil {
		return PageData{}, false
	}

	data := PageData{
		Title:      numberedTitlePattern.ReplaceAllString(firstText(doc, titleSelectors), ""),
		Slug:       SlugFromURL(snapshot.Tab.URL),
		Difficulty: NormalizeDifficulty(firstText(doc, difficultySelectors)),
		Language:   NormalizeLanguage(firstText(doc, languageSelectors)),
		Code:       editorCode(doc),
	}

	if data.Slug == "" {
		if href, ok := doc.Find(`a[href*="/problems/"]`).First().Attr("href"); ok {
			data.Slug = SlugFromURL(href)
		}
	}

	for _, selector := range descriptionSelectors {
		if markup, err := doc.Find(selector).First().Html(); err == nil && strings.TrimSpace(markup) != "" {
			data.Description = PlainText(markup)
			break
		}
	}

	return data, true
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func editorCode(doc *goquery.Document) string {
	for _, selector := range editorLineSelectors {
		lines := doc.Find(selector)
		if lines.Length() == 0 {
			continue
		}
		collected := make([]string, 0, lines.Length())
		lines.Each(func(_ int, s *goquery.Selection) {
			collected = append(collected, strings.ReplaceAll(s.Text(), "\u00a0", " "))
		})
		if code := strings.Join(collected, "\n"); strings.TrimSpace(code) != "" {
			return code
		}
	}

	if code := doc.Find("textarea").First().Text(); strings.TrimSpace(code) != "" {
		return code
	}
	return ""
}
