package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"jarvis/internal/config"
)

func testSettings(baseURL string) config.OpenAISettings {
	s := config.DefaultSettings().OpenAI
	s.APIKey = "sk-test"
	s.BaseURL = baseURL
	return s
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewWithHTTPClient(testSettings(srv.URL+"/"), srv.Client())
	c.retryDelay = time.Millisecond
	return c, srv
}

func TestRespond_Success(t *testing.T) {
	var got chatRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  It is sunny.\n"}}]}`))
	})

	reply := c.Respond(context.Background(), "what's the weather")
	if reply != "It is sunny." {
		t.Errorf("expected trimmed reply, got %q", reply)
	}

	if got.Model != "gpt-3.5-turbo" || got.MaxTokens != 150 || got.Temperature != 0.7 {
		t.Errorf("unexpected request parameters %+v", got)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Role != "system" || got.Messages[0].Content != "You are Jarvis, a personal assistant." {
		t.Errorf("unexpected system message %+v", got.Messages[0])
	}
	if got.Messages[1].Role != "user" || got.Messages[1].Content != "what's the weather" {
		t.Errorf("unexpected user message %+v", got.Messages[1])
	}
}

func TestRespond_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	})

	if reply := c.Respond(context.Background(), "hi"); reply != "ok" {
		t.Errorf("expected ok, got %q", reply)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestRespond_ClientErrorIsApology(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	if reply := c.Respond(context.Background(), "hi"); reply != MsgApology {
		t.Errorf("expected apology, got %q", reply)
	}
	if calls.Load() != 1 {
		t.Errorf("4xx must not be retried, got %d attempts", calls.Load())
	}

	_, err := c.Complete(context.Background(), "hi")
	if err == nil || err.Error() != "OpenAI API error (401): bad key" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestRespond_NoChoices(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())
	if reply := c.Respond(ctx, "hi"); reply != MsgApology {
		t.Errorf("expected apology, got %q", reply)
	}
	if !strings.Contains(logs.String(), "no choices returned") {
		t.Errorf("failure not logged to context logger: %q", logs.String())
	}
}

func TestRespond_NoAPIKey(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	c.settings.APIKey = ""

	if _, err := c.Complete(context.Background(), "hi"); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
	if reply := c.Respond(context.Background(), "hi"); reply != MsgApology {
		t.Errorf("expected apology, got %q", reply)
	}
	if calls.Load() != 0 {
		t.Error("no request expected without an API key")
	}
}

func TestRespond_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(testSettings(url))
	c.retryDelay = time.Millisecond
	if reply := c.Respond(context.Background(), "hi"); reply != MsgApology {
		t.Errorf("expected apology, got %q", reply)
	}
}
