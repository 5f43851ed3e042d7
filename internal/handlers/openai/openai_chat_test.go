package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"gweb2api-go/internal/config"
	"gweb2api-go/internal/credential"
	"gweb2api-go/internal/stats"
)

type stubSession struct {
	reply      string
	err        error
	lastPrompt string
	lastModel  string
}

func (s *stubSession) Generate(_ context.Context, model, prompt string) (string, error) {
	s.lastModel = model
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type testEnv struct {
	router  *gin.Engine
	session *stubSession
	usage   *stats.Recorder
	factory *countingFactory
}

type countingFactory struct {
	calls int
	err   error
	sess  *stubSession
}

func (f *countingFactory) build(_ context.Context, _ *credential.Credential) (credential.Session, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.sess, nil
}

func newTestEnv(t *testing.T, reply string, genErr, initErr error) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Defaults()
	cfg.Streaming.WordDelayMS = 1

	session := &stubSession{reply: reply, err: genErr}
	factory := &countingFactory{sess: session, err: initErr}

	creds := []*credential.Credential{
		credential.New("psid-1", "", "one", credential.DefaultMaxErrors),
		credential.New("psid-2", "", "two", credential.DefaultMaxErrors),
	}
	pool, err := credential.NewPool(creds, factory.build, cfg.InitTimeout())
	require.NoError(t, err)

	usage := stats.NewRecorder()
	h := New(cfg, pool, usage)

	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/cookies/status", h.CookieStatus)
	r.GET("/usage", h.Usage)
	r.GET("/v1/models", h.ListModels)
	r.POST("/v1/chat/completions", h.ChatCompletions)

	return &testEnv{router: r, session: session, usage: usage, factory: factory}
}

func (e *testEnv) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	e.router.ServeHTTP(w, req)
	return w
}

func TestChatCompletionNonStream(t *testing.T) {
	env := newTestEnv(t, "Hello there", nil, nil)
	w := env.post(t, `{"model":"gemini-2.5-flash","messages":[{"role":"user","content":"Hi"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ChatCompletionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp.ID, "chatcmpl-"))
	require.Equal(t, "chat.completion", resp.Object)
	require.Equal(t, "gemini-2.5-flash", resp.Model)
	require.Len(t, resp.Choices, 1)
	require.Equal(t, "assistant", resp.Choices[0].Message.Role)
	require.Equal(t, "Hello there", resp.Choices[0].Message.Content)
	require.Equal(t, "stop", resp.Choices[0].FinishReason)

	// Prompt is "User: Hi", two whitespace words.
	require.Equal(t, 2, resp.Usage.PromptTokens)
	require.Equal(t, 2, resp.Usage.CompletionTokens)
	require.Equal(t, 4, resp.Usage.TotalTokens)

	require.Equal(t, "User: Hi", env.session.lastPrompt)
	require.Equal(t, "gemini-2.5-flash", env.session.lastModel)
}

func TestChatCompletionPromptFlattening(t *testing.T) {
	env := newTestEnv(t, "ok", nil, nil)
	w := env.post(t, `{"model":"gemini-2.5-pro","messages":[
		{"role":"system","content":"Be brief."},
		{"role":"user","content":"Hi"},
		{"role":"assistant","content":"Hello."},
		{"role":"tool","content":"ignored"},
		{"role":"user","content":"Bye"}
	]}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "System: Be brief.\n\nUser: Hi\n\nAssistant: Hello.\n\nUser: Bye", env.session.lastPrompt)
}

func TestChatCompletionUnknownModel(t *testing.T) {
	env := newTestEnv(t, "ok", nil, nil)
	w := env.post(t, `{"model":"gpt-4o","messages":[{"role":"user","content":"Hi"}]}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "invalid_request_error")
	// The pool must not be touched for a rejected model.
	require.Zero(t, env.factory.calls)
}

func TestChatCompletionBadBody(t *testing.T) {
	env := newTestEnv(t, "ok", nil, nil)
	w := env.post(t, `{"model": `)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatCompletionUpstreamError(t *testing.T) {
	env := newTestEnv(t, "", errors.New("generation blew up"), nil)
	w := env.post(t, `{"model":"gemini-2.5-flash","messages":[{"role":"user","content":"Hi"}]}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "generation blew up")
	require.Equal(t, int64(1), env.usage.Snapshot().TotalFailures)
}

func TestChatCompletionPoolExhausted(t *testing.T) {
	env := newTestEnv(t, "", nil, errors.New("cookies rejected"))
	w := env.post(t, `{"model":"gemini-2.5-flash","messages":[{"role":"user","content":"Hi"}]}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "cookies rejected")
	// One handshake attempt per credential.
	require.Equal(t, 2, env.factory.calls)
}

func sseDataLines(t *testing.T, body string) []string {
	t.Helper()
	var out []string
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data: ") {
			out = append(out, strings.TrimPrefix(line, "data: "))
		}
	}
	return out
}

func TestChatCompletionStream(t *testing.T) {
	env := newTestEnv(t, "Hello brave world", nil, nil)
	w := env.post(t, `{"model":"gemini-2.5-flash","stream":true,"messages":[{"role":"user","content":"Hi"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	frames := sseDataLines(t, w.Body.String())
	// 3 word chunks + stop chunk + [DONE]
	require.Len(t, frames, 5)
	require.Equal(t, "[DONE]", frames[len(frames)-1])

	var deltas []string
	for _, frame := range frames[:3] {
		var chunk ChatCompletionChunk
		require.NoError(t, json.Unmarshal([]byte(frame), &chunk))
		require.Equal(t, "chat.completion.chunk", chunk.Object)
		require.Nil(t, chunk.Choices[0].FinishReason)
		deltas = append(deltas, chunk.Choices[0].Delta.Content)
	}
	require.Equal(t, []string{"Hello ", "brave ", "world"}, deltas)

	var first ChatCompletionChunk
	require.NoError(t, json.Unmarshal([]byte(frames[0]), &first))
	require.Equal(t, "assistant", first.Choices[0].Delta.Role)

	var stop ChatCompletionChunk
	require.NoError(t, json.Unmarshal([]byte(frames[3]), &stop))
	require.NotNil(t, stop.Choices[0].FinishReason)
	require.Equal(t, "stop", *stop.Choices[0].FinishReason)
}

func TestChatCompletionStreamErrorInBand(t *testing.T) {
	env := newTestEnv(t, "", errors.New("upstream down"), nil)
	w := env.post(t, `{"model":"gemini-2.5-flash","stream":true,"messages":[{"role":"user","content":"Hi"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	frames := sseDataLines(t, w.Body.String())
	require.Len(t, frames, 2)
	require.Equal(t, "[DONE]", frames[1])

	var chunk ChatCompletionChunk
	require.NoError(t, json.Unmarshal([]byte(frames[0]), &chunk))
	require.Contains(t, chunk.Choices[0].Delta.Content, "upstream down")
	require.Equal(t, "error", *chunk.Choices[0].FinishReason)
}

func TestListModelsEndpoint(t *testing.T) {
	env := newTestEnv(t, "ok", nil, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/models", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Object string `json:"object"`
		Data   []struct {
			ID      string `json:"id"`
			OwnedBy string `json:"owned_by"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "list", body.Object)
	require.Len(t, body.Data, 6)
	require.Equal(t, "google", body.Data[0].OwnedBy)
}

func TestCookieStatusEndpoint(t *testing.T) {
	env := newTestEnv(t, "ok", nil, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cookies/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var status credential.PoolStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.Equal(t, 2, status.TotalCookies)
	require.Equal(t, 2, status.AvailableCookies)
	require.Equal(t, "one", status.Cookies[0].Name)
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, "ok", nil, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "healthy")

	down := newTestEnv(t, "", nil, errors.New("rejected"))
	w = httptest.NewRecorder()
	down.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), "unhealthy")
}

func TestUsageEndpoint(t *testing.T) {
	env := newTestEnv(t, "one two", nil, nil)
	env.post(t, `{"model":"gemini-2.5-flash","messages":[{"role":"user","content":"Hi"}]}`)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/usage", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var summary stats.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Equal(t, int64(1), summary.TotalRequests)
	require.Equal(t, int64(2), summary.Models["gemini-2.5-flash"].CompletionWords)
}
