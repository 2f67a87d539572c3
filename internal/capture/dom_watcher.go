package capture

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Default DOM-path timings.
const (
	DefaultDOMThrottle = 1500 * time.Millisecond
	DefaultDOMSettle   = time.Second
)

// Scheduler runs fn after d and returns a function that cancels it.
type Scheduler func(d time.Duration, fn func()) (cancel func() bool)

func defaultScheduler(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// DOMWatcherConfig tunes the DOM path.
type DOMWatcherConfig struct {
	Throttle time.Duration
	Settle   time.Duration
	Schedule Scheduler
	Now      func() time.Time
}

type tabWatch struct {
	url      string
	latest   Snapshot
	lastEval time.Time
	fired    bool
	cancel   func() bool
}

// DOMWatcher is the fallback acceptance detector fed with rendered-page snapshots.
// Each tab is evaluated at most once per throttle interval and fires at most once
// per visible verdict.
type DOMWatcher struct {
	mu         sync.Mutex
	tabs       map[string]*tabWatch
	closed     bool
	extractors []PageExtractor
	emit       func(AcceptanceEvent)
	throttle   time.Duration
	settle     time.Duration
	schedule   Scheduler
	now        func() time.Time
	logger     zerolog.Logger
}

// NewDOMWatcher builds a watcher that hands acceptance events to emit.
func NewDOMWatcher(extractors []PageExtractor, emit func(AcceptanceEvent), cfg DOMWatcherConfig, logger zerolog.Logger) *DOMWatcher {
	if cfg.Throttle <= 0 {
		cfg.Throttle = DefaultDOMThrottle
	}
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultDOMSettle
	}
	if cfg.Schedule == nil {
		cfg.Schedule = defaultScheduler
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &DOMWatcher{
		tabs:       make(map[string]*tabWatch),
		extractors: extractors,
		emit:       emit,
		throttle:   cfg.Throttle,
		settle:     cfg.Settle,
		schedule:   cfg.Schedule,
		now:        cfg.Now,
		logger:     logger.With().Str("component", "dom_watcher").Logger(),
	}
}

// Observe evaluates a snapshot. Snapshots arriving inside the throttle interval
// are kept as the latest page state but not evaluated.
func (w *DOMWatcher) Observe(snapshot Snapshot) {
	now := w.now()
	doc := parseDocument(snapshot.HTML)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	tabID := snapshot.Tab.TabID
	tab, ok := w.tabs[tabID]
	if !ok || tab.url != snapshot.Tab.URL {
		tab = w.resetLocked(tabID, snapshot.Tab.URL)
	}
	if snapshot.CapturedAt.IsZero() {
		snapshot.CapturedAt = now
	}
	tab.latest = snapshot

	if !tab.lastEval.IsZero() && now.Sub(tab.lastEval) < w.throttle {
		return
	}
	tab.lastEval = now

	if doc == nil {
		w.logger.Debug().Str("tab_id", tabID).Msg("snapshot html unparsable")
		return
	}

	if !VerdictAccepted(doc) {
		tab.fired = false
		return
	}
	if tab.fired || tab.cancel != nil {
		return
	}

	tab.cancel = w.schedule(w.settle, func() { w.settleTab(tabID, tab) })
}

// Navigate disconnects the tab's current page state and re-arms it for url.
func (w *DOMWatcher) Navigate(tabID, url string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.resetLocked(tabID, url)
}

// Close cancels every pending extraction. Later observations are ignored.
func (w *DOMWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, tab := range w.tabs {
		if tab.cancel != nil {
			tab.cancel()
		}
		delete(w.tabs, id)
	}
	w.closed = true
}

func (w *DOMWatcher) resetLocked(tabID, url string) *tabWatch {
	if previous, ok := w.tabs[tabID]; ok && previous.cancel != nil {
		previous.cancel()
	}
	tab := &tabWatch{url: url}
	w.tabs[tabID] = tab
	return tab
}

func (w *DOMWatcher) settleTab(tabID string, tab *tabWatch) {
	w.mu.Lock()
	if w.closed || w.tabs[tabID] != tab {
		// navigated away or closed while settling
		w.mu.Unlock()
		return
	}
	tab.cancel = nil
	snapshot := tab.latest
	w.mu.Unlock()

	page := ExtractPage(w.extractors, snapshot)
	if page.Slug == "" {
		page.Slug = SlugFromURL(snapshot.Tab.URL)
	}
	if page.Code == "" {
		w.logger.Info().Str("tab_id", tabID).Str("slug", page.Slug).Msg("accepted verdict seen but no code extracted")
		return
	}

	w.mu.Lock()
	if w.closed || w.tabs[tabID] != tab {
		w.mu.Unlock()
		return
	}
	tab.fired = true
	w.mu.Unlock()

	w.emit(AcceptanceEvent{
		Source:    SourceDOM,
		ProblemID: page.ProblemID,
		Tab:       snapshot.Tab,
		Page:      &page,
	})
}
