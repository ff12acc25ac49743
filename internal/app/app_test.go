package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/goatplan/internal/chat"
	"github.com/mandalnilabja/goatplan/internal/config"
	"github.com/mandalnilabja/goatplan/internal/provider"
	"github.com/mandalnilabja/goatplan/internal/storage"
	"github.com/mandalnilabja/goatplan/internal/transport/http/handler"
	"github.com/mandalnilabja/goatplan/internal/transport/http/middleware"
	"github.com/mandalnilabja/goatplan/internal/types"
)

// newTestRouter wires the real stack against a fake OpenAI endpoint.
func newTestRouter(t *testing.T, upstream http.HandlerFunc) http.Handler {
	t.Helper()
	vendor := httptest.NewServer(upstream)
	t.Cleanup(vendor.Close)

	store := storage.NewMemoryStorage()
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	creds := provider.NewCredentialResolver(map[string]string{provider.OpenAI: "sk-test"})
	factory := provider.NewFactory(
		provider.WithCredentials(creds),
		provider.WithBaseURL(provider.OpenAI, vendor.URL),
		provider.WithHTTPClient(vendor.Client()),
	)
	svc := chat.New(store, factory, chat.WithLogger(logger), chat.WithTokenCounter(estimates{}))
	return NewRouter(handler.NewRepo(svc, store, logger), &RouterOptions{Logger: logger})
}

type estimates struct{}

func (estimates) PromptTokens([]types.Message, string) int { return 0 }
func (estimates) CompletionTokens(string, string) int      { return 0 }

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func TestRouter_ConversationFlow(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	var gotAuth string
	h := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"model":"gpt-4o-mini","choices":[{"message":{"role":"assistant","content":"Sure.\n<PROJECT_PLAN>{\"workstreams\":[]}</PROJECT_PLAN>"}}]}`)
	})

	rec := serve(h, http.MethodPost, "/chats", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = serve(h, http.MethodPost, "/chats/"+created.ID+"/messages", `{"content":"plan my week"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Bearer sk-test", gotAuth)

	var sent chat.SendMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))

	rec = serve(h, http.MethodGet, "/chats/"+created.ID+"/messages/"+sent.AssistantMessage.ID+"/parts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"project-plan"`)

	rec = serve(h, http.MethodGet, "/api/logs?chat_id="+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status_code":200`)

	rec = serve(h, http.MethodGet, "/api/usage", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_requests":1`)
}

func TestRouter_UpstreamFailure(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	h := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	rec := serve(h, http.MethodPost, "/chats", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = serve(h, http.MethodPost, "/chats/"+created.ID+"/messages", `{"content":"hello"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "LLM request failed")
	assert.Contains(t, rec.Body.String(), "429")

	rec = serve(h, http.MethodGet, "/chats/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), chat.FallbackReply)
}

func TestRouter_Routes(t *testing.T) {
	h := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/models", http.StatusOK},
		{http.MethodGet, "/chats", http.StatusOK},
		{http.MethodGet, "/chats/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/usage/daily", http.StatusOK},
		{http.MethodGet, "/unknown", http.StatusNotFound},
		{http.MethodDelete, "/chats", http.StatusMethodNotAllowed},
		{http.MethodOptions, "/chats", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(h, tt.method, tt.path, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestServer_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := &config.Config{ServerPort: ln.Addr().String()}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	srv := NewServer(cfg, mux, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
