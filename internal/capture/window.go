package capture

import (
	"sync"
	"time"
)

// DefaultDedupWindow is how long an accepted (slug, language) pair suppresses repeats.
const DefaultDedupWindow = 5 * time.Minute

// WindowKey builds the deduplication key for a slug and language.
func WindowKey(slug, language string) string {
	return slug + "|" + language
}

// SubmissionWindow remembers when each (slug, language) pair was last recorded.
type SubmissionWindow struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time
}

// NewSubmissionWindow builds a window of the given width.
func NewSubmissionWindow(window time.Duration) *SubmissionWindow {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &SubmissionWindow{window: window, seen: make(map[string]time.Time)}
}

// Within reports whether key was marked less than one window before now.
func (w *SubmissionWindow) Within(key string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	last, ok := w.seen[key]
	if !ok {
		return false
	}
	return now.Sub(last) < w.window
}

// Mark records now as the latest time key was accepted.
func (w *SubmissionWindow) Mark(key string, now time.Time) {
	w.mu.Lock()
	w.seen[key] = now
	w.mu.Unlock()
}

// Sweep forgets keys whose window has elapsed and returns how many were removed.
func (w *SubmissionWindow) Sweep(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	for key, last := range w.seen {
		if now.Sub(last) >= w.window {
			delete(w.seen, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (w *SubmissionWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}
