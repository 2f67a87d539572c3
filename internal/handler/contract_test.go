package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/solvesync/internal/dto"
	"github.com/noah-isme/solvesync/internal/models"
)

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	schemaPath, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + filepath.ToSlash(schemaPath))
	require.NoError(t, err)
	return schema
}

func fetchPayload(t *testing.T, resp *http.Response) interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func TestPendingContract(t *testing.T) {
	schema := compileSchema(t, "pending.schema.json")

	now := time.Now().UTC()
	record := sampleSolution(now)
	record.Description = "Given an array of integers."
	svc := &mockCaptureService{pending: dto.PendingListResponse{Items: []models.SolutionRecord{record, sampleSolution(now.Add(time.Minute))}, Total: 2}}

	resp, err := newSolutionApp(svc).Test(httptest.NewRequest(http.MethodGet, "/api/v1/pending", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, schema.Validate(fetchPayload(t, resp)))
}

func TestStatsContract(t *testing.T) {
	schema := compileSchema(t, "stats.schema.json")

	now := time.Now().UTC()
	svc := &mockCaptureService{stats: dto.StatsResponse{
		Stats: models.Stats{
			Streak:        3,
			LastSolveDate: now.Format("2006-01-02"),
			Counts:        models.DifficultyCounts{Easy: 2, Medium: 1},
			RecentSolves: []models.RecentSolve{
				{SubmissionID: "987", Slug: "two-sum", Title: "Two Sum", Difficulty: models.DifficultyEasy, Language: "python3", Timestamp: now},
			},
		},
		Solved: 3,
	}}

	resp, err := newSolutionApp(svc).Test(httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, schema.Validate(fetchPayload(t, resp)))
}

func TestStatsContractAcceptsEmptyHistory(t *testing.T) {
	schema := compileSchema(t, "stats.schema.json")

	svc := &mockCaptureService{stats: dto.StatsResponse{Stats: models.Stats{RecentSolves: []models.RecentSolve{}}}}
	resp, err := newSolutionApp(svc).Test(httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	require.NoError(t, err)
	require.NoError(t, schema.Validate(fetchPayload(t, resp)))
}
