package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/noah-isme/solvesync/internal/models"
)

// Keys of the persisted layout shared with the UI layer.
const (
	KeyPending     = "pending"
	KeyStats       = "stats"
	KeySolvedSlugs = "solvedSlugs"
	KeyConfig      = "config"
)

// SolutionRepository exposes the pending queue, stats, solved slug set and repo config.
type SolutionRepository interface {
	ListPending(ctx context.Context) ([]models.SolutionRecord, error)
	AppendPending(ctx context.Context, record models.SolutionRecord) error
	RemovePending(ctx context.Context, id string) (bool, error)
	ClearPending(ctx context.Context) error
	GetStats(ctx context.Context) (models.Stats, error)
	SaveStats(ctx context.Context, stats models.Stats) error
	SolvedSlugs(ctx context.Context) ([]string, error)
	AddSolvedSlug(ctx context.Context, slug string) (bool, error)
	GetConfig(ctx context.Context) (models.RepoConfig, bool, error)
	SaveConfig(ctx context.Context, cfg models.RepoConfig) error
}

// NewSolutionRepository constructs a repository over the given key/value store.
// Read-modify-write operations on one repository are serialised; share a single
// instance between the capture and push paths.
func NewSolutionRepository(store KVStore) SolutionRepository {
	return &solutionRepository{store: store}
}

type solutionRepository struct {
	mu    sync.Mutex
	store KVStore
}

func (r *solutionRepository) ListPending(ctx context.Context) ([]models.SolutionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadPending(ctx)
}

func (r *solutionRepository) loadPending(ctx context.Context) ([]models.SolutionRecord, error) {
	pending := make([]models.SolutionRecord, 0)
	if _, err := r.store.Get(ctx, KeyPending, &pending); err != nil {
		return nil, err
	}
	if pending == nil {
		pending = make([]models.SolutionRecord, 0)
	}
	return pending, nil
}

func (r *solutionRepository) AppendPending(ctx context.Context, record models.SolutionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending, err := r.loadPending(ctx)
	if err != nil {
		return err
	}

	pending = append(pending, record)
	return r.store.Set(ctx, KeyPending, pending)
}

func (r *solutionRepository) RemovePending(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending, err := r.loadPending(ctx)
	if err != nil {
		return false, err
	}

	remaining := lo.Reject(pending, func(item models.SolutionRecord, _ int) bool {
		return item.ID == id
	})
	if len(remaining) == len(pending) {
		return false, nil
	}

	if err := r.store.Set(ctx, KeyPending, remaining); err != nil {
		return false, err
	}
	return true, nil
}

func (r *solutionRepository) ClearPending(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Set(ctx, KeyPending, []models.SolutionRecord{})
}

func (r *solutionRepository) GetStats(ctx context.Context) (models.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats models.Stats
	if _, err := r.store.Get(ctx, KeyStats, &stats); err != nil {
		return models.Stats{}, err
	}
	if stats.RecentSolves == nil {
		stats.RecentSolves = make([]models.RecentSolve, 0)
	}
	return stats, nil
}

func (r *solutionRepository) SaveStats(ctx context.Context, stats models.Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Set(ctx, KeyStats, stats)
}

func (r *solutionRepository) SolvedSlugs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadSolvedSlugs(ctx)
}

func (r *solutionRepository) loadSolvedSlugs(ctx context.Context) ([]string, error) {
	slugs := make([]string, 0)
	if _, err := r.store.Get(ctx, KeySolvedSlugs, &slugs); err != nil {
		return nil, err
	}
	if slugs == nil {
		slugs = make([]string, 0)
	}
	return slugs, nil
}

func (r *solutionRepository) AddSolvedSlug(ctx context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slugs, err := r.loadSolvedSlugs(ctx)
	if err != nil {
		return false, err
	}
	if lo.Contains(slugs, slug) {
		return false, nil
	}

	slugs = append(slugs, slug)
	if err := r.store.Set(ctx, KeySolvedSlugs, slugs); err != nil {
		return false, fmt.Errorf("add solved slug: %w", err)
	}
	return true, nil
}

func (r *solutionRepository) GetConfig(ctx context.Context) (models.RepoConfig, bool, error) {
	var cfg models.RepoConfig
	found, err := r.store.Get(ctx, KeyConfig, &cfg)
	if err != nil {
		return models.RepoConfig{}, false, err
	}
	return cfg, found, nil
}

func (r *solutionRepository) SaveConfig(ctx context.Context, cfg models.RepoConfig) error {
	return r.store.Set(ctx, KeyConfig, cfg)
}
