package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/solvesync/internal/dto"
	"github.com/noah-isme/solvesync/internal/models"
	"github.com/noah-isme/solvesync/internal/repository"
)

var (
	// ErrRepoNotConfigured indicates no push destination has been saved yet.
	ErrRepoNotConfigured = errors.New("repository is not configured")
	// ErrInvalidTemplate indicates a path or commit template uses an unknown placeholder.
	ErrInvalidTemplate = errors.New("template uses an unknown placeholder")
)

const tokenMask = "********"

// ConfigService reads and writes the push destination.
type ConfigService interface {
	Get(ctx context.Context) (dto.RepoConfigResponse, error)
	Save(ctx context.Context, req dto.RepoConfigRequest) (dto.RepoConfigResponse, error)
}

type configService struct {
	repo      repository.SolutionRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewConfigService constructs the config service.
func NewConfigService(repo repository.SolutionRepository, validate *validator.Validate, logger zerolog.Logger) ConfigService {
	return &configService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "config_service").Logger(),
	}
}

func (s *configService) Get(ctx context.Context) (dto.RepoConfigResponse, error) {
	cfg, found, err := s.repo.GetConfig(ctx)
	if err != nil {
		return dto.RepoConfigResponse{}, err
	}
	if !found {
		return dto.RepoConfigResponse{}, ErrRepoNotConfigured
	}
	return toRepoConfigResponse(withConfigDefaults(cfg)), nil
}

func (s *configService) Save(ctx context.Context, req dto.RepoConfigRequest) (dto.RepoConfigResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RepoConfigResponse{}, err
	}

	existing, found, err := s.repo.GetConfig(ctx)
	if err != nil {
		return dto.RepoConfigResponse{}, err
	}

	cfg := withConfigDefaults(models.RepoConfig{
		Owner:         strings.TrimSpace(req.Owner),
		Repo:          strings.TrimSpace(req.Repo),
		Branch:        strings.TrimSpace(req.Branch),
		Token:         strings.TrimSpace(req.Token),
		PathTemplate:  strings.TrimSpace(req.PathTemplate),
		CommitMessage: strings.TrimSpace(req.CommitMessage),
	})
	if found && (cfg.Token == "" || cfg.Token == maskToken(existing.Token)) {
		cfg.Token = existing.Token
	}

	if err := s.validator.Struct(cfg); err != nil {
		return dto.RepoConfigResponse{}, err
	}
	if err := validateTemplate(cfg.PathTemplate); err != nil {
		return dto.RepoConfigResponse{}, fmt.Errorf("path template: %w", err)
	}
	if err := validateTemplate(cfg.CommitMessage); err != nil {
		return dto.RepoConfigResponse{}, fmt.Errorf("commit message: %w", err)
	}

	if err := s.repo.SaveConfig(ctx, cfg); err != nil {
		return dto.RepoConfigResponse{}, err
	}

	s.logger.Info().Str("owner", cfg.Owner).Str("repo", cfg.Repo).Str("branch", cfg.Branch).Msg("repository config saved")
	return toRepoConfigResponse(cfg), nil
}

func withConfigDefaults(cfg models.RepoConfig) models.RepoConfig {
	if cfg.PathTemplate == "" {
		cfg.PathTemplate = DefaultPathTemplate
	}
	if cfg.CommitMessage == "" {
		cfg.CommitMessage = DefaultCommitMessage
	}
	return cfg
}

func toRepoConfigResponse(cfg models.RepoConfig) dto.RepoConfigResponse {
	return dto.RepoConfigResponse{
		Owner:         cfg.Owner,
		Repo:          cfg.Repo,
		Branch:        cfg.Branch,
		Token:         maskToken(cfg.Token),
		HasToken:      cfg.Token != "",
		PathTemplate:  cfg.PathTemplate,
		CommitMessage: cfg.CommitMessage,
	}
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return tokenMask
	}
	return tokenMask + token[len(token)-4:]
}
