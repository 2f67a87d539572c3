package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/solvesync/internal/capture"
	"github.com/noah-isme/solvesync/internal/dto"
	"github.com/noah-isme/solvesync/internal/models"
	"github.com/noah-isme/solvesync/internal/repository"
)

// ErrPendingNotFound indicates no pending item carries the requested id.
var ErrPendingNotFound = errors.New("pending solution not found")

// CapturePipeline is the part of the capture pipeline the service drives.
type CapturePipeline interface {
	HandleNetwork(ctx context.Context, exchange capture.Exchange) (capture.Result, error)
	HandleDOM(snapshot capture.Snapshot)
	HandleNavigation(tabID, url string)
}

// CaptureService accepts page-shim observations and exposes the captured state.
type CaptureService interface {
	CaptureNetwork(ctx context.Context, req dto.NetworkCaptureRequest) (dto.CaptureResponse, error)
	CaptureDOM(ctx context.Context, req dto.DOMCaptureRequest) error
	Navigate(ctx context.Context, req dto.NavigationRequest) error
	ListPending(ctx context.Context) (dto.PendingListResponse, error)
	RemovePending(ctx context.Context, id string) error
	ClearPending(ctx context.Context) error
	Stats(ctx context.Context) (dto.StatsResponse, error)
}

type captureService struct {
	pipeline  CapturePipeline
	repo      repository.SolutionRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCaptureService constructs the capture service.
func NewCaptureService(pipeline CapturePipeline, repo repository.SolutionRepository, validate *validator.Validate, logger zerolog.Logger) CaptureService {
	return &captureService{
		pipeline:  pipeline,
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "capture_service").Logger(),
		now:       time.Now,
	}
}

func (s *captureService) CaptureNetwork(ctx context.Context, req dto.NetworkCaptureRequest) (dto.CaptureResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CaptureResponse{}, err
	}

	result, err := s.pipeline.HandleNetwork(ctx, capture.Exchange{
		Tab:          capture.TabContext{TabID: strings.TrimSpace(req.TabID), URL: strings.TrimSpace(req.TabURL)},
		URL:          strings.TrimSpace(req.URL),
		Method:       strings.ToUpper(req.Method),
		Status:       req.Status,
		RequestBody:  []byte(req.RequestBody),
		ResponseBody: []byte(req.ResponseBody),
	})

	response := dto.CaptureResponse{Outcome: string(result.Outcome), Reason: result.Reason}
	if result.Record != nil && result.Outcome != capture.OutcomeSuppressed {
		response.RecordID = result.Record.ID
	}
	return response, err
}

func (s *captureService) CaptureDOM(_ context.Context, req dto.DOMCaptureRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	snapshot := capture.Snapshot{
		Tab:        capture.TabContext{TabID: strings.TrimSpace(req.TabID), URL: strings.TrimSpace(req.URL)},
		HTML:       req.HTML,
		CapturedAt: s.now(),
	}
	if req.Editor != nil {
		snapshot.Editor = &capture.EditorState{Value: req.Editor.Value, Language: req.Editor.Language}
	}

	s.pipeline.HandleDOM(snapshot)
	return nil
}

func (s *captureService) Navigate(_ context.Context, req dto.NavigationRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	s.pipeline.HandleNavigation(strings.TrimSpace(req.TabID), strings.TrimSpace(req.URL))
	return nil
}

func (s *captureService) ListPending(ctx context.Context) (dto.PendingListResponse, error) {
	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return dto.PendingListResponse{}, err
	}
	return dto.PendingListResponse{Items: pending, Total: len(pending)}, nil
}

func (s *captureService) RemovePending(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrPendingNotFound
	}

	removed, err := s.repo.RemovePending(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrPendingNotFound
	}
	s.logger.Info().Str("id", id).Msg("pending solution removed")
	return nil
}

func (s *captureService) ClearPending(ctx context.Context) error {
	if err := s.repo.ClearPending(ctx); err != nil {
		return err
	}
	s.logger.Info().Msg("pending queue cleared")
	return nil
}

func (s *captureService) Stats(ctx context.Context) (dto.StatsResponse, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return dto.StatsResponse{}, err
	}
	slugs, err := s.repo.SolvedSlugs(ctx)
	if err != nil {
		return dto.StatsResponse{}, err
	}
	if stats.RecentSolves == nil {
		stats.RecentSolves = make([]models.RecentSolve, 0)
	}
	return dto.StatsResponse{Stats: stats, Solved: len(slugs)}, nil
}
