package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/solvesync/internal/config"
	"github.com/noah-isme/solvesync/internal/dto"
)

const testAPIKey = "local-key"

func newJudgeServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"question":{"questionId":"1","questionFrontendId":"1","title":"Two Sum","titleSlug":"two-sum","difficulty":"Easy","content":"<p>Given an array.</p>","topicTags":[{"name":"Array"}]}}}`)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	judgeServer := newJudgeServer(t)

	cfg := config.Config{
		AppName:          "SolveSync",
		AppEnv:           "test",
		APIKey:           testAPIKey,
		Location:         time.UTC,
		Storage:          config.StorageSQLite,
		SQLitePath:       filepath.Join(t.TempDir(), "solvesync.db"),
		DedupWindow:      5 * time.Minute,
		StatsGuardWindow: 30 * time.Second,
		DOMThrottle:      1500 * time.Millisecond,
		DOMSettle:        time.Second,
		RecentLimit:      10,
		CodeTTL:          24 * time.Hour,
		JanitorInterval:  time.Minute,
		CaptureRateLimit: 100,
		JudgeGraphQLURL:  judgeServer.URL,
		JudgeTimeout:     2 * time.Second,
	}

	container, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Close()) })
	return container
}

func post(t *testing.T, path string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	req.Header.Set("X-Tab-ID", "tab-1")
	return req
}

func TestContainerCapturesAcceptedSubmission(t *testing.T) {
	container := newTestContainer(t)
	app := container.HTTP()

	submitBody, err := json.Marshal(map[string]string{"lang": "python3", "question_id": "1", "typed_code": "class Solution:\n    pass"})
	require.NoError(t, err)

	resp, err := app.Test(post(t, "/api/v1/capture/network", dto.NetworkCaptureRequest{
		TabURL:       "https://leetcode.com/problems/two-sum/",
		URL:          "https://leetcode.com/problems/two-sum/submit/",
		Method:       "POST",
		Status:       200,
		RequestBody:  string(submitBody),
		ResponseBody: `{"submission_id": 987}`,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, err = app.Test(post(t, "/api/v1/capture/network", dto.NetworkCaptureRequest{
		TabURL:       "https://leetcode.com/problems/two-sum/",
		URL:          "https://leetcode.com/submissions/detail/987/check/",
		Method:       "GET",
		Status:       200,
		ResponseBody: `{"state":"SUCCESS","status_msg":"Accepted","question_id":"1","submission_id":987,"status_runtime":"3 ms","status_memory":"16.4 MB"}`,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var captured struct {
		Data dto.CaptureResponse `json:"data"`
	}
	decode(t, resp, &captured)
	require.Equal(t, "counted", captured.Data.Outcome)

	pending, err := container.Repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "Two Sum", pending[0].Title)
	require.Equal(t, "Array", pending[0].Tag)
	require.Equal(t, "python3", pending[0].Language)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		Data dto.StatsResponse `json:"data"`
	}
	decode(t, resp, &stats)
	require.Equal(t, 1, stats.Data.Streak)
	require.Equal(t, 1, stats.Data.Counts.Easy)
	require.Equal(t, 1, stats.Data.Solved)
}

func TestContainerGuardsAPIWithKey(t *testing.T) {
	app := newTestContainer(t).HTTP()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "SolveSync", resp.Header.Get("X-Application"))
	var health struct {
		Data struct {
			Pending *int `json:"pending"`
		} `json:"data"`
	}
	decode(t, resp, &health)
	require.NotNil(t, health.Data.Pending)
	require.Equal(t, 0, *health.Data.Pending)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/pending", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestContainerPushRequiresConfig(t *testing.T) {
	app := newTestContainer(t).HTTP()

	resp, err := app.Test(post(t, "/api/v1/push", dto.PushRequest{}))
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func decode(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}
