package capture

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/solvesync/internal/models"
	"github.com/noah-isme/solvesync/internal/observability"
)

// Publisher is notified about every record that reached the pending queue.
type Publisher interface {
	Publish(ctx context.Context, record models.SolutionRecord, outcome Outcome) error
}

// Config collects the pipeline knobs. Zero values fall back to the defaults.
type Config struct {
	DedupWindow      time.Duration
	StatsGuardWindow time.Duration
	RecentLimit      int
	DOMThrottle      time.Duration
	DOMSettle        time.Duration
	CodeTTL          time.Duration
	Location         *time.Location
	Now              func() time.Time
	Schedule         Scheduler
}

// Pipeline owns the caches, the two detectors, the assembler and the gate.
type Pipeline struct {
	metadata  *MetadataCache
	codes     *CodeStore
	window    *SubmissionWindow
	detector  *Detector
	watcher   *DOMWatcher
	assembler *Assembler
	gate      *Gate
	publisher Publisher
	codeTTL   time.Duration
	now       func() time.Time
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewPipeline constructs a pipeline writing to store. fetcher and publisher may be nil.
func NewPipeline(store Store, fetcher MetadataFetcher, publisher Publisher, cfg Config, logger zerolog.Logger) *Pipeline {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 24 * time.Hour
	}

	p := &Pipeline{
		metadata:  NewMetadataCache(),
		codes:     NewCodeStore(),
		window:    NewSubmissionWindow(cfg.DedupWindow),
		publisher: publisher,
		codeTTL:   cfg.CodeTTL,
		now:       cfg.Now,
		logger:    logger.With().Str("component", "capture_pipeline").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/solvesync/internal/capture"),
	}

	p.detector = NewDetector(p.metadata, p.codes, logger)
	p.detector.now = cfg.Now

	p.assembler = NewAssembler(p.metadata, p.codes, fetcher, logger)
	p.assembler.now = cfg.Now

	p.gate = NewGate(store, p.window, GateConfig{
		StatsGuardWindow: cfg.StatsGuardWindow,
		RecentLimit:      cfg.RecentLimit,
		Location:         cfg.Location,
		Now:              cfg.Now,
	}, logger)

	p.watcher = NewDOMWatcher(DefaultExtractors(p.metadata), p.onDOMAcceptance, DOMWatcherConfig{
		Throttle: cfg.DOMThrottle,
		Settle:   cfg.DOMSettle,
		Schedule: cfg.Schedule,
		Now:      cfg.Now,
	}, logger)

	return p
}

// Metadata exposes the question metadata cache.
func (p *Pipeline) Metadata() *MetadataCache { return p.metadata }

// Codes exposes the temporary code store.
func (p *Pipeline) Codes() *CodeStore { return p.codes }

// HandleNetwork feeds one intercepted exchange through the network path.
func (p *Pipeline) HandleNetwork(ctx context.Context, exchange Exchange) (Result, error) {
	event, ok := p.detector.Observe(exchange)
	if !ok {
		return Result{Outcome: OutcomeIgnored}, nil
	}
	return p.Process(ctx, event)
}

// HandleDOM feeds one page snapshot to the DOM watcher. Acceptances found there
// are processed asynchronously once the page settles.
func (p *Pipeline) HandleDOM(snapshot Snapshot) {
	p.watcher.Observe(snapshot)
}

// HandleNavigation re-arms the DOM watcher for a tab that changed route.
func (p *Pipeline) HandleNavigation(tabID, url string) {
	p.watcher.Navigate(tabID, url)
}

// Process assembles and gates one acceptance event. Incomplete events are dropped
// without error; only persistence failures are returned.
func (p *Pipeline) Process(ctx context.Context, event AcceptanceEvent) (Result, error) {
	ctx, span := p.tracer.Start(ctx, "capture.process", trace.WithAttributes(
		attribute.String("capture.source", string(event.Source)),
		attribute.String("capture.problem_id", event.ProblemID),
	))
	defer span.End()

	observability.Acceptances().WithLabelValues(string(event.Source)).Inc()

	record, err := p.assembler.Assemble(ctx, event)
	if err != nil {
		reason := "unknown"
		switch {
		case errors.Is(err, ErrNoCode):
			reason = "no_code"
		case errors.Is(err, ErrNoSlug):
			reason = "no_slug"
		}
		observability.CaptureDropped().WithLabelValues(reason).Inc()
		p.logger.Info().
			Str("source", string(event.Source)).
			Str("problem_id", event.ProblemID).
			Str("tab_url", event.Tab.URL).
			Str("reason", reason).
			Msg("acceptance dropped")
		return Result{Outcome: OutcomeDropped, Reason: reason}, nil
	}

	span.SetAttributes(attribute.String("capture.slug", record.Slug), attribute.String("capture.language", record.Language))

	outcome, err := p.gate.Admit(ctx, record)
	if outcome != "" {
		observability.GateOutcomes().WithLabelValues(string(outcome)).Inc()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist solution")
		p.logger.Error().Err(err).Str("slug", record.Slug).Str("language", record.Language).Msg("failed to persist solution")
		return Result{Outcome: outcome, Record: &record}, err
	}

	if outcome != OutcomeSuppressed && p.publisher != nil {
		if err := p.publisher.Publish(ctx, record, outcome); err != nil {
			p.logger.Warn().Err(err).Str("slug", record.Slug).Msg("failed to publish solution event")
		}
	}

	p.logger.Info().
		Str("slug", record.Slug).
		Str("language", record.Language).
		Str("source", string(event.Source)).
		Str("outcome", string(outcome)).
		Msg("acceptance processed")

	return Result{Outcome: outcome, Record: &record}, nil
}

// Sweep expires old window entries and abandoned code records.
func (p *Pipeline) Sweep() {
	now := p.now()
	expired := p.window.Sweep(now)
	pruned := p.codes.Prune(now.Add(-p.codeTTL))
	if expired > 0 || pruned > 0 {
		p.logger.Debug().Int("window_expired", expired).Int("codes_pruned", pruned).Msg("capture state swept")
	}
}

// RunJanitor sweeps on every tick until ctx is cancelled.
func (p *Pipeline) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Sweep()
		}
	}
}

// Close stops the DOM watcher.
func (p *Pipeline) Close() {
	p.watcher.Close()
}

func (p *Pipeline) onDOMAcceptance(event AcceptanceEvent) {
	if _, err := p.Process(context.Background(), event); err != nil {
		p.logger.Error().Err(err).Str("tab_id", event.Tab.TabID).Msg("dom acceptance not persisted")
	}
}
