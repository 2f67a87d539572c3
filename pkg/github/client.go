package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrTokenRequired is returned when the client is built without credentials.
	ErrTokenRequired = errors.New("github token is required")

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "solvesync",
		Subsystem: "github",
		Name:      "request_duration_seconds",
		Help:      "Duration of GitHub contents API calls",
	}, []string{"operation"})
)

// Config configures the contents API client.
type Config struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

// FileSpec describes one file to write on a branch.
type FileSpec struct {
	Owner   string
	Repo    string
	Branch  string
	Path    string
	Message string
	Content []byte
}

// FileResult reports what UpsertFile did.
type FileResult struct {
	SHA       string
	Created   bool
	Unchanged bool
}

// Client writes files through the GitHub repository contents API.
type Client struct {
	api    *gh.Client
	tracer trace.Tracer
}

// NewClient builds a client authenticated with cfg.Token.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrTokenRequired
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	api := gh.NewClient(httpClient).WithAuthToken(cfg.Token)

	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		parsed, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse github base url: %w", err)
		}
		api.BaseURL = parsed
	}

	return &Client{
		api:    api,
		tracer: otel.Tracer("github.com/noah-isme/solvesync/pkg/github"),
	}, nil
}

// UpsertFile creates the file or updates it in place. The existing blob SHA is
// looked up first; identical content is left alone.
func (c *Client) UpsertFile(parent context.Context, spec FileSpec) (FileResult, error) {
	ctx, span := c.tracer.Start(parent, "github.upsert_file", trace.WithAttributes(
		attribute.String("github.repo", spec.Owner+"/"+spec.Repo),
		attribute.String("github.path", spec.Path),
	))
	defer span.End()

	existing, err := c.lookup(ctx, spec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return FileResult{}, err
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(spec.Message),
		Content: spec.Content,
	}
	if spec.Branch != "" {
		opts.Branch = gh.String(spec.Branch)
	}

	if existing != nil {
		if current, decodeErr := existing.GetContent(); decodeErr == nil && current == string(spec.Content) {
			return FileResult{SHA: existing.GetSHA(), Unchanged: true}, nil
		}
		opts.SHA = gh.String(existing.GetSHA())
	}

	start := time.Now()
	var written *gh.RepositoryContentResponse
	if existing == nil {
		written, _, err = c.api.Repositories.CreateFile(ctx, spec.Owner, spec.Repo, spec.Path, opts)
		requestDuration.WithLabelValues("create").Observe(time.Since(start).Seconds())
	} else {
		written, _, err = c.api.Repositories.UpdateFile(ctx, spec.Owner, spec.Repo, spec.Path, opts)
		requestDuration.WithLabelValues("update").Observe(time.Since(start).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return FileResult{}, fmt.Errorf("write %s: %w", spec.Path, err)
	}

	result := FileResult{Created: existing == nil}
	if written != nil && written.Content != nil {
		result.SHA = written.Content.GetSHA()
	}
	return result, nil
}

func (c *Client) lookup(ctx context.Context, spec FileSpec) (*gh.RepositoryContent, error) {
	var opts *gh.RepositoryContentGetOptions
	if spec.Branch != "" {
		opts = &gh.RepositoryContentGetOptions{Ref: spec.Branch}
	}

	start := time.Now()
	file, _, resp, err := c.api.Repositories.GetContents(ctx, spec.Owner, spec.Repo, spec.Path, opts)
	requestDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup %s: %w", spec.Path, err)
	}
	if file == nil {
		return nil, fmt.Errorf("lookup %s: path is a directory", spec.Path)
	}
	return file, nil
}
