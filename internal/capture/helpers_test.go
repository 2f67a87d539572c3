package capture

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/solvesync/internal/repository"
)

const judgeOrigin = "https://leetcode.com"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type scheduledTask struct {
	delay     time.Duration
	fn        func()
	cancelled bool
	ran       bool
}

type manualScheduler struct {
	mu    sync.Mutex
	tasks []*scheduledTask
}

func (s *manualScheduler) Schedule(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &scheduledTask{delay: d, fn: fn}
	s.tasks = append(s.tasks, task)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		active := !task.cancelled && !task.ran
		task.cancelled = true
		return active
	}
}

// RunPending runs every task that was neither cancelled nor already run.
func (s *manualScheduler) RunPending() int {
	s.mu.Lock()
	ready := make([]*scheduledTask, 0)
	for _, task := range s.tasks {
		if !task.cancelled && !task.ran {
			task.ran = true
			ready = append(ready, task)
		}
	}
	s.mu.Unlock()

	for _, task := range ready {
		task.fn()
	}
	return len(ready)
}

func (s *manualScheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *manualScheduler) Last() *scheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tasks) == 0 {
		return nil
	}
	return s.tasks[len(s.tasks)-1]
}

func newTestRepository(t *testing.T) repository.SolutionRepository {
	t.Helper()
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return repository.NewSolutionRepository(repository.NewRedisKVStore(client, "test"))
}

func mustJSON(t *testing.T, value interface{}) []byte {
	t.Helper()
	payload, err := json.Marshal(value)
	require.NoError(t, err)
	return payload
}

func problemTab(slug string) TabContext {
	return TabContext{TabID: "tab-1", URL: fmt.Sprintf("%s/problems/%s/description/", judgeOrigin, slug)}
}

func submitExchange(t *testing.T, slug, problemID, language, code string) Exchange {
	return Exchange{
		Tab:    problemTab(slug),
		URL:    fmt.Sprintf("%s/problems/%s/submit/", judgeOrigin, slug),
		Method: "POST",
		Status: 200,
		RequestBody: mustJSON(t, map[string]interface{}{
			"lang":        language,
			"question_id": problemID,
			"typed_code":  code,
		}),
		ResponseBody: []byte(`{"submission_id": 1}`),
	}
}

func checkExchange(t *testing.T, slug, problemID string, submissionID int64, status string) Exchange {
	return Exchange{
		Tab:    problemTab(slug),
		URL:    fmt.Sprintf("%s/submissions/detail/%d/check/", judgeOrigin, submissionID),
		Method: "GET",
		Status: 200,
		ResponseBody: mustJSON(t, map[string]interface{}{
			"state":          "SUCCESS",
			"status_msg":     status,
			"question_id":    problemID,
			"submission_id":  submissionID,
			"status_runtime": "3 ms",
			"status_memory":  "16.4 MB",
		}),
	}
}

func questionExchange(t *testing.T, slug, problemID, title, difficulty string, tags ...string) Exchange {
	topicTags := make([]map[string]string, 0, len(tags))
	for _, tag := range tags {
		topicTags = append(topicTags, map[string]string{"name": tag})
	}
	return Exchange{
		Tab:    problemTab(slug),
		URL:    judgeOrigin + "/graphql/",
		Method: "POST",
		Status: 200,
		ResponseBody: mustJSON(t, map[string]interface{}{
			"data": map[string]interface{}{
				"question": map[string]interface{}{
					"questionId": problemID,
					"titleSlug":  slug,
					"title":      title,
					"difficulty": difficulty,
					"content":    "<p>Solve " + title + ".</p>",
					"topicTags":  topicTags,
				},
			},
		}),
	}
}

const acceptedPageHTML = `<html><body>
<div class="text-title-large"><a href="/problems/two-sum/">1. Two Sum</a></div>
<div class="text-difficulty-easy">Easy</div>
<div data-track-load="description_content"><p>Given an array of integers.</p></div>
<button id="headlessui-listbox-button-1">Python3</button>
<div class="view-lines"><div class="view-line">class Solution:</div><div class="view-line">    pass</div></div>
<div data-e2e-locator="submission-result">Accepted</div>
</body></html>`

const pendingPageHTML = `<html><body>
<div class="text-title-large"><a href="/problems/two-sum/">1. Two Sum</a></div>
<div data-e2e-locator="submission-result">Pending</div>
</body></html>`

const acceptedNoEditorHTML = `<html><body>
<div class="text-title-large">1. Two Sum</div>
<div data-e2e-locator="submission-result">Accepted</div>
</body></html>`
