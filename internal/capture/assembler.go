package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/solvesync/internal/models"
)

var (
	// ErrNoCode indicates no code could be attached to an accepted verdict.
	ErrNoCode = errors.New("no code captured for accepted submission")
	// ErrNoSlug indicates the problem slug could not be resolved.
	ErrNoSlug = errors.New("problem slug could not be resolved")
)

// MetadataFetcher looks up problem metadata on demand when the cache has none.
type MetadataFetcher interface {
	FetchQuestion(ctx context.Context, slug string) (models.QuestionMeta, error)
}

// Assembler joins an acceptance event with captured code and cached metadata.
type Assembler struct {
	metadata *MetadataCache
	codes    *CodeStore
	fetcher  MetadataFetcher
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAssembler constructs an assembler. fetcher may be nil.
func NewAssembler(metadata *MetadataCache, codes *CodeStore, fetcher MetadataFetcher, logger zerolog.Logger) *Assembler {
	return &Assembler{
		metadata: metadata,
		codes:    codes,
		fetcher:  fetcher,
		logger:   logger.With().Str("component", "submission_assembler").Logger(),
		now:      time.Now,
	}
}

// Assemble builds the solution record for event. The code record it uses is
// consumed; on error nothing is consumed.
func (a *Assembler) Assemble(ctx context.Context, event AcceptanceEvent) (models.SolutionRecord, error) {
	var page PageData
	if event.Page != nil {
		page = *event.Page
	}

	slug := firstNonEmpty(SlugFromURL(event.Tab.URL), page.Slug, event.ResponseSlug)
	if slug == "" {
		return models.SolutionRecord{}, ErrNoSlug
	}

	code, language, err := a.resolveCode(event, page)
	if err != nil {
		return models.SolutionRecord{}, err
	}

	meta := a.lookupMeta(ctx, slug)

	difficulty := NormalizeDifficulty(firstNonEmpty(meta.Difficulty, page.Difficulty))
	if difficulty == "" {
		difficulty = models.DifficultyEasy
	}

	now := a.now()
	return models.SolutionRecord{
		ID:           fmt.Sprintf("%s-%d", slug, now.UnixMilli()),
		SubmissionID: event.SubmissionID,
		Title:        firstNonEmpty(meta.Title, page.Title, TitleFromSlug(slug)),
		Slug:         slug,
		Difficulty:   difficulty,
		Tag:          firstNonEmpty(meta.Tag, models.DefaultTag),
		Code:         code,
		Language:     language,
		Runtime:      event.Runtime,
		Memory:       event.Memory,
		Description:  firstNonEmpty(meta.Description, page.Description),
		Timestamp:    now,
	}, nil
}

func (a *Assembler) resolveCode(event AcceptanceEvent, page PageData) (string, string, error) {
	if strings.TrimSpace(page.Code) != "" {
		language := NormalizeLanguage(page.Language)
		if language == "" && event.ProblemID != "" {
			if record, ok := a.codes.Peek(event.ProblemID); ok {
				language = record.Language
			}
		}
		return page.Code, language, nil
	}
	if event.ProblemID == "" {
		return "", "", ErrNoCode
	}

	record, ok := a.codes.Take(event.ProblemID)
	if !ok || strings.TrimSpace(record.Code) == "" {
		return "", "", ErrNoCode
	}

	language := record.Language
	if language == "" {
		language = NormalizeLanguage(page.Language)
	}
	return record.Code, language, nil
}

func (a *Assembler) lookupMeta(ctx context.Context, slug string) models.QuestionMeta {
	if meta, ok := a.metadata.Get(slug); ok {
		return meta
	}
	if a.fetcher == nil {
		return models.QuestionMeta{}
	}

	meta, err := a.fetcher.FetchQuestion(ctx, slug)
	if err != nil {
		a.logger.Debug().Err(err).Str("slug", slug).Msg("metadata enrichment failed")
		return models.QuestionMeta{}
	}
	if meta.Slug == "" {
		meta.Slug = slug
	}
	a.metadata.Put(meta)
	return meta
}
