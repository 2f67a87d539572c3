package judge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type receivedRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func TestQuestionFetchesBySlug(t *testing.T) {
	var received receivedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "https://leetcode.com/problems/two-sum/", r.Header.Get("Referer"))
		require.Contains(t, r.Header.Get("Content-Type"), "application/json")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"question":{"questionId":"1","title":"Two Sum","titleSlug":"two-sum",`+
			`"difficulty":"Easy","content":"<p>Find indices.</p>","topicTags":[{"name":"Array","slug":"array"},{"name":"Hash Table","slug":"hash-table"}]}}}`)
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL})
	question, err := client.Question(context.Background(), "two-sum")
	require.NoError(t, err)
	require.Contains(t, received.Query, "query questionData")
	require.Equal(t, "two-sum", received.Variables["titleSlug"])
	require.Equal(t, "Two Sum", question.Title)
	require.Equal(t, "1", question.QuestionID)
	require.Equal(t, []string{"Array", "Hash Table"}, question.TagNames())
}

func TestQuestionNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"question":null}}`)
	}))
	defer server.Close()

	_, err := NewClient(Config{Endpoint: server.URL}).Question(context.Background(), "missing")
	require.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = NewClient(Config{Endpoint: server.URL}).Question(context.Background(), " ")
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestQuestionReportsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mode") == "errors" {
			_, _ = io.WriteString(w, `{"errors":[{"message":"rate limited"}]}`)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewClient(Config{Endpoint: server.URL}).Question(context.Background(), "two-sum")
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	require.Contains(t, err.Error(), "403")

	_, err = NewClient(Config{Endpoint: server.URL + "?mode=errors"}).Question(context.Background(), "two-sum")
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limited")
}

func TestQuestionHonoursTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = io.WriteString(w, `{"data":{"question":null}}`)
	}))
	defer server.Close()

	_, err := NewClient(Config{Endpoint: server.URL, Timeout: 20 * time.Millisecond}).Question(context.Background(), "two-sum")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrQuestionNotFound)
}
