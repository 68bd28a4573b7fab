package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/qaforge/api/schemas"
	"github.com/xkilldash9x/qaforge/internal/config"
	"github.com/xkilldash9x/qaforge/internal/service"
)

const defaultURL = "http://localhost:3000"

func newTestServer(t *testing.T, mutate func(*config.ServerConfig)) *Server {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.SetServerDefaultTargetURL(defaultURL)
	logger := zaptest.NewLogger(t)
	svc, err := service.New(cfg, logger)
	require.NoError(t, err)

	serverCfg := cfg.Server()
	if mutate != nil {
		mutate(&serverCfg)
	}
	return New(serverCfg, svc, logger)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, schemas.HealthResponse{Status: "healthy", Service: "qaforge"}, decode[schemas.HealthResponse](t, rec))
}

func TestGenerateActions(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{
		"scenarios": {
			"functionality": ["Registration form is visible"],
			"user_interactions": ["Enter email 'a@b.co'", "Click the submit button"],
			"assertions": ["Error message is shown"]
		},
		"target_url": "https://shop.test/register"
	}`
	rec := do(t, s, http.MethodPost, "/api/v1/generate_actions", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	resp := decode[schemas.GenerateActionsResponse](t, rec)
	assert.False(t, resp.Degraded)
	assert.Equal(t, len(resp.Actions), resp.Count)
	require.NoError(t, resp.Actions.Validate())

	want := []schemas.ActionKind{
		schemas.KindGoto,
		schemas.KindWaitForLoad,
		schemas.KindAssertVisible, // form
		schemas.KindFill,          // email
		schemas.KindClick,         // submit
		schemas.KindAssertText,    // error
		schemas.KindScreenshot,
	}
	if diff := cmp.Diff(want, resp.Actions.Kinds()); diff != "" {
		t.Errorf("action kinds mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "https://shop.test/register", resp.Actions[0].URL)
	assert.Equal(t, "a@b.co", resp.Actions[3].TextValue())
}

func TestGenerateActions_DefaultTargetURL(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/api/v1/generate_actions", `{"scenarios": {}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[schemas.GenerateActionsResponse](t, rec)
	require.Len(t, resp.Actions, 3)
	assert.Equal(t, schemas.Goto(defaultURL), resp.Actions[0])
}

func TestGenerateActions_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "MalformedJSON", body: `{"scenarios": `, message: "Invalid request body"},
		{name: "ScenariosNotObject", body: `{"scenarios": ["a"]}`, message: "Invalid request body"},
		{name: "MissingScenarios", body: `{"target_url": "http://x.test"}`, message: "'scenarios' object is required"},
		{name: "InvalidTargetURL", body: `{"scenarios": {}, "target_url": "nope"}`, message: "invalid target URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/generate_actions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			resp := decode[schemas.ErrorResponse](t, rec)
			assert.Contains(t, resp.Error, tt.message)
			assert.Equal(t, rec.Header().Get(RequestIDHeader), resp.RequestID)
		})
	}
}

func TestGenerateActions_BodyTooLarge(t *testing.T) {
	s := newTestServer(t, func(c *config.ServerConfig) { c.MaxBodyBytes = 32 })
	body := `{"scenarios": {"functionality": ["` + strings.Repeat("x", 64) + `"]}}`

	rec := do(t, s, http.MethodPost, "/api/v1/generate_actions", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestActionExamples(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/v1/action_examples", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[schemas.ActionExamplesResponse](t, rec)
	require.Len(t, resp.Examples, len(schemas.AllActionKinds()))
	assert.Equal(t, schemas.KindGoto, resp.Examples[0].Kind)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.ServerConfig) {
		c.RateLimit = 0.001
		c.RateBurst = 1
	})

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz", "").Code)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Rate limit exceeded.", decode[schemas.ErrorResponse](t, rec).Error)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodOptions, "/api/v1/generate_actions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServe_GracefulShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := newTestServer(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
