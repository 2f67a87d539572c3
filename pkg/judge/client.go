package judge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"
)

// DefaultEndpoint is the judge's public GraphQL endpoint.
const DefaultEndpoint = "https://leetcode.com/graphql/"

const questionQuery = `query questionData($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    questionId
    questionFrontendId
    title
    titleSlug
    difficulty
    content
    topicTags { name slug }
  }
}`

var (
	// ErrQuestionNotFound is returned when the judge knows no problem by that slug.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUnexpectedStatus is returned for any non-200 response, wrapped with the status code.
	ErrUnexpectedStatus = errors.New("unexpected judge response status")
)

// Config configures the metadata client.
type Config struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// TopicTag is one problem tag.
type TopicTag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Question is the problem-detail payload returned by the judge.
type Question struct {
	QuestionID         string     `json:"questionId"`
	QuestionFrontendID string     `json:"questionFrontendId"`
	Title              string     `json:"title"`
	TitleSlug          string     `json:"titleSlug"`
	Difficulty         string     `json:"difficulty"`
	Content            string     `json:"content"`
	TopicTags          []TopicTag `json:"topicTags"`
}

// TagNames returns the tag names in the judge's order.
func (q Question) TagNames() []string {
	names := make([]string, 0, len(q.TopicTags))
	for _, tag := range q.TopicTags {
		names = append(names, tag.Name)
	}
	return names
}

// Client fetches problem metadata by slug.
type Client struct {
	gql *graphql.Client
}

// NewClient builds a client, applying defaults for unset fields.
func NewClient(cfg Config) *Client {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	base := cfg.HTTPClient
	if base == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		base = &http.Client{Timeout: timeout}
	}

	httpClient := *base
	httpClient.Transport = statusTransport{next: base.Transport}
	return &Client{gql: graphql.NewClient(endpoint, graphql.WithHTTPClient(&httpClient))}
}

// statusTransport turns non-200 answers into ErrUnexpectedStatus before the
// GraphQL client tries to decode an HTML error page or an empty body.
type statusTransport struct {
	next http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	resp, err := next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return resp, nil
}

type questionData struct {
	Question *Question `json:"question"`
}

// Question fetches one problem. A single attempt is made.
func (c *Client) Question(ctx context.Context, slug string) (Question, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Question{}, ErrQuestionNotFound
	}

	req := graphql.NewRequest(questionQuery)
	req.Var("titleSlug", slug)
	req.Header.Set("Referer", fmt.Sprintf("https://leetcode.com/problems/%s/", slug))

	var data questionData
	if err := c.gql.Run(ctx, req, &data); err != nil {
		return Question{}, fmt.Errorf("fetch question %s: %w", slug, err)
	}
	if data.Question == nil {
		return Question{}, ErrQuestionNotFound
	}
	return *data.Question, nil
}
