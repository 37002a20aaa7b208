package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/bobby-s-dev/weather-planner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAssistantTestClient(apiKey, url string) *AssistantClient {
	return NewAssistantClient(AssistantOptions{APIKey: apiKey, BaseURL: url, Model: "test-model"},
		testConfig(), zap.NewNop())
}

func TestFetchSuggestion_RequestShape(t *testing.T) {
	var got ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"散歩に出かけましょう"}}]}`))
	}))
	defer srv.Close()

	suggestion, err := newAssistantTestClient("secret", srv.URL).FetchSuggestion(context.Background(), "clear sky", 22)
	require.NoError(t, err)
	assert.Equal(t, "散歩に出かけましょう", suggestion)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Contains(t, got.Messages[1].Content, "clear sky")
	assert.Contains(t, got.Messages[1].Content, "22")
}

func TestFetchSuggestion_MissingKey(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	_, err := newAssistantTestClient("", srv.URL).FetchSuggestion(context.Background(), "rain", 18)
	assert.True(t, errors.Is(err, models.ErrConfiguration))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestFetchSuggestion_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"no choices": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`nope`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := newAssistantTestClient("secret", srv.URL).FetchSuggestion(context.Background(), "rain", 18)
			assert.True(t, errors.Is(err, models.ErrAssistant), "got %v", err)
		})
	}
}

func TestFetchSuggestion_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newAssistantTestClient("secret", url).FetchSuggestion(context.Background(), "rain", 18)
	assert.True(t, errors.Is(err, models.ErrAssistant))
}
