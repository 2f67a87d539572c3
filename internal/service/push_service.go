package service

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/solvesync/internal/dto"
	"github.com/noah-isme/solvesync/internal/models"
	"github.com/noah-isme/solvesync/internal/observability"
	"github.com/noah-isme/solvesync/internal/repository"
	"github.com/noah-isme/solvesync/pkg/github"
)

// Push defaults.
const (
	DefaultPathTemplate  = "{difficulty}/{slug}/solution.{ext}"
	DefaultCommitMessage = "Add {title} ({language})"
)

var (
	placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

	knownPlaceholders = []string{"slug", "title", "title_slug", "difficulty", "tag", "language", "ext"}

	languageExtensions = map[string]string{
		"bash":       "sh",
		"c":          "c",
		"cpp":        "cpp",
		"csharp":     "cs",
		"dart":       "dart",
		"elixir":     "ex",
		"erlang":     "erl",
		"golang":     "go",
		"java":       "java",
		"javascript": "js",
		"kotlin":     "kt",
		"mssql":      "sql",
		"mysql":      "sql",
		"oraclesql":  "sql",
		"php":        "php",
		"postgresql": "sql",
		"python":     "py",
		"python3":    "py",
		"racket":     "rkt",
		"ruby":       "rb",
		"rust":       "rs",
		"scala":      "scala",
		"swift":      "swift",
		"typescript": "ts",
	}
)

// FileWriter commits one file to the destination repository.
type FileWriter interface {
	UpsertFile(ctx context.Context, spec github.FileSpec) (github.FileResult, error)
}

// FileWriterFactory builds a writer for the saved destination.
type FileWriterFactory func(cfg models.RepoConfig) (FileWriter, error)

// NewGitHubWriterFactory returns a factory producing contents API clients against apiURL.
// An empty apiURL targets api.github.com.
func NewGitHubWriterFactory(apiURL string) FileWriterFactory {
	return func(cfg models.RepoConfig) (FileWriter, error) {
		client, err := github.NewClient(github.Config{Token: cfg.Token, BaseURL: apiURL})
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// PushService commits pending solutions to the configured repository.
type PushService interface {
	Push(ctx context.Context, req dto.PushRequest) (dto.PushResponse, error)
}

type pushService struct {
	repo      repository.SolutionRepository
	writers   FileWriterFactory
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewPushService constructs the push pipeline.
func NewPushService(repo repository.SolutionRepository, writers FileWriterFactory, validate *validator.Validate, logger zerolog.Logger) PushService {
	return &pushService{
		repo:      repo,
		writers:   writers,
		validator: validate,
		logger:    logger.With().Str("component", "push_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/solvesync/internal/service/push"),
	}
}

func (s *pushService) Push(ctx context.Context, req dto.PushRequest) (dto.PushResponse, error) {
	ctx, span := s.tracer.Start(ctx, "push.run", trace.WithAttributes(attribute.Bool("push.dry_run", req.DryRun)))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.PushResponse{}, err
	}

	cfg, found, err := s.repo.GetConfig(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.PushResponse{}, err
	}
	if !found {
		return dto.PushResponse{}, ErrRepoNotConfigured
	}
	cfg = withConfigDefaults(cfg)
	if err := s.validator.Struct(cfg); err != nil {
		return dto.PushResponse{}, err
	}

	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.PushResponse{}, err
	}
	if len(req.IDs) > 0 {
		pending = lo.Filter(pending, func(item models.SolutionRecord, _ int) bool {
			return lo.Contains(req.IDs, item.ID)
		})
	}

	response := dto.PushResponse{
		Pushed: make([]dto.PushedItem, 0, len(pending)),
		Failed: make([]dto.PushFailure, 0),
		DryRun: req.DryRun,
	}
	span.SetAttributes(attribute.Int("push.candidates", len(pending)))
	if len(pending) == 0 {
		return response, nil
	}

	if req.DryRun {
		for _, record := range pending {
			response.Pushed = append(response.Pushed, dto.PushedItem{ID: record.ID, Slug: record.Slug, Path: SolutionPath(cfg.PathTemplate, record)})
		}
		return response, nil
	}

	writer, err := s.writers(cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "writer unavailable")
		return dto.PushResponse{}, fmt.Errorf("build repository client: %w", err)
	}

	for _, record := range pending {
		item, err := s.pushOne(ctx, writer, cfg, record)
		if err != nil {
			observability.PushedSolutions().WithLabelValues("failed").Inc()
			s.logger.Warn().Err(err).Str("id", record.ID).Str("slug", record.Slug).Msg("solution push failed")
			response.Failed = append(response.Failed, dto.PushFailure{ID: record.ID, Slug: record.Slug, Error: err.Error()})
			continue
		}

		if _, err := s.repo.RemovePending(ctx, record.ID); err != nil {
			s.logger.Error().Err(err).Str("id", record.ID).Msg("pushed solution could not be removed from pending")
		}
		observability.PushedSolutions().WithLabelValues("pushed").Inc()
		response.Pushed = append(response.Pushed, item)
	}

	if len(response.Failed) > 0 {
		span.SetStatus(codes.Error, "partial push")
	}
	s.logger.Info().Int("pushed", len(response.Pushed)).Int("failed", len(response.Failed)).Msg("push run finished")
	return response, nil
}

func (s *pushService) pushOne(ctx context.Context, writer FileWriter, cfg models.RepoConfig, record models.SolutionRecord) (dto.PushedItem, error) {
	filePath := SolutionPath(cfg.PathTemplate, record)
	message := RenderTemplate(cfg.CommitMessage, record)

	result, err := writer.UpsertFile(ctx, github.FileSpec{
		Owner:   cfg.Owner,
		Repo:    cfg.Repo,
		Branch:  cfg.Branch,
		Path:    filePath,
		Message: message,
		Content: []byte(record.Code),
	})
	if err != nil {
		return dto.PushedItem{}, err
	}

	if strings.TrimSpace(record.Description) != "" {
		readmePath := path.Join(path.Dir(filePath), "README.md")
		if _, err := writer.UpsertFile(ctx, github.FileSpec{
			Owner:   cfg.Owner,
			Repo:    cfg.Repo,
			Branch:  cfg.Branch,
			Path:    readmePath,
			Message: message,
			Content: []byte(Readme(record)),
		}); err != nil {
			return dto.PushedItem{}, fmt.Errorf("readme: %w", err)
		}
	}

	return dto.PushedItem{
		ID:        record.ID,
		Slug:      record.Slug,
		Path:      filePath,
		Created:   result.Created,
		Unchanged: result.Unchanged,
	}, nil
}

// Extension maps a normalized language to a file extension.
func Extension(language string) string {
	if ext, ok := languageExtensions[strings.ToLower(strings.TrimSpace(language))]; ok {
		return ext
	}
	return "txt"
}

// RenderTemplate substitutes the record's placeholders into tpl.
func RenderTemplate(tpl string, record models.SolutionRecord) string {
	values := map[string]string{
		"slug":       record.Slug,
		"title":      record.Title,
		"title_slug": slug.Make(record.Title),
		"difficulty": record.Difficulty,
		"tag":        record.Tag,
		"language":   record.Language,
		"ext":        Extension(record.Language),
	}
	return placeholderPattern.ReplaceAllStringFunc(tpl, func(match string) string {
		if value, ok := values[match[1:len(match)-1]]; ok {
			return value
		}
		return match
	})
}

// SolutionPath renders the repository path of a record's code file.
func SolutionPath(tpl string, record models.SolutionRecord) string {
	if strings.TrimSpace(tpl) == "" {
		tpl = DefaultPathTemplate
	}
	rendered := path.Clean("/" + RenderTemplate(tpl, record))
	return strings.TrimPrefix(rendered, "/")
}

// Readme renders the problem README committed next to the solution.
func Readme(record models.SolutionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", record.Title)
	fmt.Fprintf(&b, "**Difficulty:** %s | **Tag:** %s | **Language:** %s\n", record.Difficulty, record.Tag, record.Language)
	if record.Runtime != "" || record.Memory != "" {
		fmt.Fprintf(&b, "\n**Runtime:** %s | **Memory:** %s\n", lo.Ternary(record.Runtime == "", "n/a", record.Runtime), lo.Ternary(record.Memory == "", "n/a", record.Memory))
	}
	fmt.Fprintf(&b, "\n%s\n", strings.TrimSpace(record.Description))
	return b.String()
}

func validateTemplate(tpl string) error {
	for _, match := range placeholderPattern.FindAllStringSubmatch(tpl, -1) {
		if !lo.Contains(knownPlaceholders, match[1]) {
			return fmt.Errorf("%w: {%s}", ErrInvalidTemplate, match[1])
		}
	}
	return nil
}
