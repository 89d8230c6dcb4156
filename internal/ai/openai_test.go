package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heartwellness/fitness-cms/internal/config"
)

func newServer(t *testing.T, status int, body string, seen *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestCompleteSendsPromptAndReturnsContent(t *testing.T) {
	var seen map[string]interface{}
	srv := newServer(t, http.StatusOK, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  ## What is Squat?\nA squat.  "},"finish_reason":"stop"}]}`, &seen)
	defer srv.Close()

	c := NewOpenAIClient(config.OpenAIConfig{APIKey: "k", BaseURL: srv.URL + "/v1", Model: "gpt-3.5-turbo", Timeout: 5 * time.Second})
	out, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "Generate Squat content", MaxTokens: 2000, Temperature: 0.7, TopP: 1})
	require.NoError(t, err)
	assert.Equal(t, "## What is Squat?\nA squat.", out)

	assert.Equal(t, "gpt-3.5-turbo", seen["model"])
	assert.EqualValues(t, 2000, seen["max_tokens"])
	msgs, ok := seen["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"id":"1","choices":[]}`, nil)
	defer srv.Close()

	c := NewOpenAIClient(config.OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m", Timeout: 5 * time.Second})
	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestCompleteHTTPError(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, nil)
	defer srv.Close()

	c := NewOpenAIClient(config.OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m", Timeout: 5 * time.Second})
	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	assert.Error(t, err)
}
