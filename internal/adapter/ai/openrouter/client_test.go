package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/candidate-matcher/internal/config"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AppEnv:            "test",
		AITimeout:         2 * time.Second,
		OpenRouterAPIKey:  "test-key",
		OpenRouterBaseURL: baseURL,
		OpenRouterModel:   "test-model",
	}
}

func chatReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func testRequest() domain.NarrativeRequest {
	return domain.NarrativeRequest{
		CandidateSkills: []string{"go"},
		ExperienceLevel: "Mid Level",
		EducationLevel:  "Bachelor",
		Categories:      map[string][]string{"Software Engineer": {"go"}},
	}
}

func TestAnalyzeCategories_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "Category: Software Engineer")

		_, _ = w.Write([]byte(chatReply(`{"Software Engineer": {"summary": "Great fit"}}`)))
	}))
	defer ts.Close()

	c := New(testConfig(ts.URL))
	got, err := c.AnalyzeCategories(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Great fit", got["Software Engineer"].Summary)
}

func TestAnalyzeCategories_RetriesServerErrors(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(chatReply(`{"Software Engineer": {"summary": "Recovered"}}`)))
	}))
	defer ts.Close()

	c := New(testConfig(ts.URL))
	got, err := c.AnalyzeCategories(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "Recovered", got["Software Engineer"].Summary)
}

func TestAnalyzeCategories_ClientErrorIsPermanent(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := New(testConfig(ts.URL))
	_, err := c.AnalyzeCategories(context.Background(), testRequest())
	require.Error(t, err)
	assert.Equal(t, 1, calls, "4xx must not be retried")
}

func TestAnalyzeCategories_UnparsableContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatReply("sorry, no JSON today")))
	}))
	defer ts.Close()

	c := New(testConfig(ts.URL))
	_, err := c.AnalyzeCategories(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestAnalyzeCategories_MissingKey(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.OpenRouterAPIKey = ""
	c := New(cfg)

	_, err := c.AnalyzeCategories(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
