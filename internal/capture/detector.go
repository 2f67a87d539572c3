package capture

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/solvesync/internal/models"
)

// AcceptedStatus is the judge's status message for a passing submission.
const AcceptedStatus = "Accepted"

var (
	submitPattern = regexp.MustCompile(`/problems/[^/]+/submit/?$`)
	checkPattern  = regexp.MustCompile(`/submissions/detail/(\d+)/check/?$`)
)

// Exchange is one intercepted request/response pair forwarded by the page shim.
type Exchange struct {
	Tab          TabContext
	URL          string
	Method       string
	Status       int
	RequestBody  []byte
	ResponseBody []byte
}

type submitPayload struct {
	Lang       string     `json:"lang"`
	QuestionID flexString `json:"question_id"`
	TypedCode  string     `json:"typed_code"`
}

type checkPayload struct {
	State          string     `json:"state"`
	StatusMsg      string     `json:"status_msg"`
	QuestionID     flexString `json:"question_id"`
	SubmissionID   flexString `json:"submission_id"`
	StatusRuntime  string     `json:"status_runtime"`
	StatusMemory   string     `json:"status_memory"`
	QuestionSlug   string     `json:"question_slug"`
	TitleSlug      string     `json:"title_slug"`
	TitleSlugCamel string     `json:"titleSlug"`
}

type graphQLPayload struct {
	Data struct {
		Question *struct {
			QuestionID         flexString `json:"questionId"`
			QuestionFrontendID flexString `json:"questionFrontendId"`
			TitleSlug          string     `json:"titleSlug"`
			Title              string     `json:"title"`
			Difficulty         string     `json:"difficulty"`
			Content            string     `json:"content"`
			TopicTags          []struct {
				Name string `json:"name"`
				Slug string `json:"slug"`
			} `json:"topicTags"`
		} `json:"question"`
	} `json:"data"`
}

// Detector is the network-path acceptance detector. It also feeds the code
// store from submit requests and the metadata cache from problem-detail responses.
type Detector struct {
	metadata *MetadataCache
	codes    *CodeStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDetector wires a detector to the caches it populates.
func NewDetector(metadata *MetadataCache, codes *CodeStore, logger zerolog.Logger) *Detector {
	return &Detector{
		metadata: metadata,
		codes:    codes,
		logger:   logger.With().Str("component", "network_detector").Logger(),
		now:      time.Now,
	}
}

// Observe classifies the exchange. It returns an event only for an accepted verdict;
// every other outcome, including malformed input, is a silent no-op.
func (d *Detector) Observe(ex Exchange) (AcceptanceEvent, bool) {
	path := requestPath(ex.URL)

	switch {
	case submitPattern.MatchString(path):
		if strings.EqualFold(ex.Method, http.MethodPost) {
			d.captureSubmission(ex)
		}
	case checkPattern.MatchString(path):
		return d.checkVerdict(ex, path)
	case strings.HasSuffix(strings.TrimSuffix(path, "/"), "/graphql"):
		d.captureQuestion(ex)
	}

	return AcceptanceEvent{}, false
}

func (d *Detector) captureSubmission(ex Exchange) {
	var payload submitPayload
	if err := json.Unmarshal(ex.RequestBody, &payload); err != nil {
		d.logger.Debug().Err(err).Str("url", ex.URL).Msg("ignoring unparsable submit payload")
		return
	}

	problemID := payload.QuestionID.String()
	if problemID == "" || strings.TrimSpace(payload.TypedCode) == "" {
		d.logger.Debug().Str("url", ex.URL).Msg("submit payload missing code or question id")
		return
	}

	d.codes.Set(problemID, models.CodeRecord{
		Code:       payload.TypedCode,
		Language:   NormalizeLanguage(payload.Lang),
		ProblemID:  problemID,
		CapturedAt: d.now(),
	})
	d.logger.Debug().Str("problem_id", problemID).Str("language", payload.Lang).Msg("captured submitted code")
}

func (d *Detector) checkVerdict(ex Exchange, path string) (AcceptanceEvent, bool) {
	if ex.Status != http.StatusOK {
		return AcceptanceEvent{}, false
	}

	var payload checkPayload
	if err := json.Unmarshal(ex.ResponseBody, &payload); err != nil {
		d.logger.Debug().Err(err).Str("url", ex.URL).Msg("ignoring unparsable verdict payload")
		return AcceptanceEvent{}, false
	}

	if payload.StatusMsg != AcceptedStatus {
		return AcceptanceEvent{}, false
	}

	submissionID := payload.SubmissionID.String()
	if submissionID == "" {
		if match := checkPattern.FindStringSubmatch(path); len(match) == 2 {
			submissionID = match[1]
		}
	}

	return AcceptanceEvent{
		Source:       SourceNetwork,
		SubmissionID: submissionID,
		ProblemID:    payload.QuestionID.String(),
		Tab:          ex.Tab,
		Runtime:      payload.StatusRuntime,
		Memory:       payload.StatusMemory,
		ResponseSlug: firstNonEmpty(payload.QuestionSlug, payload.TitleSlug, payload.TitleSlugCamel),
	}, true
}

func (d *Detector) captureQuestion(ex Exchange) {
	if ex.Status != http.StatusOK || len(ex.ResponseBody) == 0 {
		return
	}

	var payload graphQLPayload
	if err := json.Unmarshal(ex.ResponseBody, &payload); err != nil {
		d.logger.Debug().Err(err).Msg("ignoring unparsable graphql payload")
		return
	}

	question := payload.Data.Question
	if question == nil || strings.TrimSpace(question.TitleSlug) == "" {
		return
	}

	tags := make([]string, 0, len(question.TopicTags))
	for _, tag := range question.TopicTags {
		tags = append(tags, tag.Name)
	}

	meta := NewQuestionMeta(
		question.QuestionID.String(),
		question.TitleSlug,
		question.Title,
		question.Difficulty,
		tags,
		question.Content,
	)
	d.metadata.Put(meta)
	d.logger.Debug().Str("slug", meta.Slug).Str("difficulty", meta.Difficulty).Msg("cached question metadata")
}

func requestPath(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return parsed.Path
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
