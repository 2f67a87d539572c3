package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/noah-isme/solvesync/internal/models"
)

// Gate defaults.
const (
	DefaultStatsGuardWindow = 30 * time.Second
	DefaultRecentLimit      = 10
)

// Store is the durable state the gate reads and writes.
type Store interface {
	AppendPending(ctx context.Context, record models.SolutionRecord) error
	AddSolvedSlug(ctx context.Context, slug string) (bool, error)
	GetStats(ctx context.Context) (models.Stats, error)
	SaveStats(ctx context.Context, stats models.Stats) error
}

// GateConfig tunes the gate.
type GateConfig struct {
	StatsGuardWindow time.Duration
	RecentLimit      int
	Location         *time.Location
	Now              func() time.Time
}

// Gate decides whether an assembled record is suppressed, recorded, or recorded
// and counted. Admit calls are serialized so the window check and the durable
// read-modify-write sequence run as one unit.
type Gate struct {
	mu     sync.Mutex
	store  Store
	window *SubmissionWindow
	cfg    GateConfig
	logger zerolog.Logger
}

// NewGate builds a gate over store and the shared submission window.
func NewGate(store Store, window *SubmissionWindow, cfg GateConfig, logger zerolog.Logger) *Gate {
	if cfg.StatsGuardWindow <= 0 {
		cfg.StatsGuardWindow = DefaultStatsGuardWindow
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = DefaultRecentLimit
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Gate{
		store:  store,
		window: window,
		cfg:    cfg,
		logger: logger.With().Str("component", "dedup_gate").Logger(),
	}
}

// Admit runs the deduplication state machine for one record.
func (g *Gate) Admit(ctx context.Context, record models.SolutionRecord) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.cfg.Now()
	key := WindowKey(record.Slug, record.Language)
	if g.window.Within(key, now) {
		g.logger.Debug().Str("slug", record.Slug).Str("language", record.Language).Msg("duplicate inside window suppressed")
		return OutcomeSuppressed, nil
	}

	if err := g.store.AppendPending(ctx, record); err != nil {
		return "", fmt.Errorf("append pending: %w", err)
	}
	g.window.Mark(key, now)

	added, err := g.store.AddSolvedSlug(ctx, record.Slug)
	if err != nil {
		return OutcomeRecorded, err
	}
	if !added {
		return OutcomeRecorded, nil
	}

	stats, err := g.store.GetStats(ctx)
	if err != nil {
		return OutcomeRecorded, fmt.Errorf("load stats: %w", err)
	}
	if g.countedAlready(stats, record) {
		g.logger.Info().Str("slug", record.Slug).Str("submission_id", record.SubmissionID).Msg("stats update skipped for recently counted solve")
		return OutcomeRecorded, nil
	}

	stats.Counts.Increment(record.Difficulty)
	solve := models.RecentSolve{
		SubmissionID: record.SubmissionID,
		Slug:         record.Slug,
		Title:        record.Title,
		Difficulty:   record.Difficulty,
		Language:     record.Language,
		Timestamp:    record.Timestamp,
	}
	stats.RecentSolves = append([]models.RecentSolve{solve}, stats.RecentSolves...)
	if len(stats.RecentSolves) > g.cfg.RecentLimit {
		stats.RecentSolves = stats.RecentSolves[:g.cfg.RecentLimit]
	}
	ApplyStreak(&stats, now.In(g.cfg.Location))

	if err := g.store.SaveStats(ctx, stats); err != nil {
		return OutcomeRecorded, fmt.Errorf("save stats: %w", err)
	}
	return OutcomeCounted, nil
}

// countedAlready guards against one real solve counted twice through both detection paths.
func (g *Gate) countedAlready(stats models.Stats, record models.SolutionRecord) bool {
	return lo.ContainsBy(stats.RecentSolves, func(solve models.RecentSolve) bool {
		if record.SubmissionID != "" && solve.SubmissionID == record.SubmissionID {
			return true
		}
		if solve.Title != record.Title || solve.Language != record.Language {
			return false
		}
		delta := record.Timestamp.Sub(solve.Timestamp)
		if delta < 0 {
			delta = -delta
		}
		return delta < g.cfg.StatsGuardWindow
	})
}
