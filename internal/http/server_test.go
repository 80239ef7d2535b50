package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	todohttp "github.com/limegom/FastApi-Todos-by-jong1/internal/http"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/middleware"
)

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}
	defer l.Close()
	_, port, _ := net.SplitHostPort(l.Addr().String())
	return port
}

func TestServer_StartAndShutdown(t *testing.T) {
	port := freePort(t)
	srv := todohttp.NewServer(todohttp.Options{Port: port, Router: newTestRouterConfig(t)}, zap.NewNop())

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			t.Errorf("unexpected server error: %v", err)
		}
	}()

	addr := fmt.Sprintf("http://localhost:%s/health", port)
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, _ = http.Get(addr)
		if resp != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if resp == nil {
		t.Fatal("server did not start in time")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("expected request id header on response")
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %v", result["status"])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}

func TestServer_MiddlewareChain(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	auth, err := middleware.NewAuth(middleware.AuthConfig{Secret: secret})
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	reg := prometheus.NewRegistry()
	core, logs := observer.New(zapcore.InfoLevel)

	cfg := newTestRouterConfig(t)
	cfg.Gatherer = reg
	srv := todohttp.NewServer(todohttp.Options{
		Router:  cfg,
		Auth:    auth,
		Metrics: middleware.NewMetrics(reg),
	}, zap.New(core))
	h := srv.Handler()

	send := func(method, target, body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	if w := send(http.MethodPost, "/todos", `{"id": 1, "title": "x"}`, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if w := send(http.MethodPost, "/todos", `{"id": 1, "title": "x"}`, token); w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d (body: %s)", w.Code, w.Body.String())
	}
	if w := send(http.MethodGet, "/todos/1", "", ""); w.Code != http.StatusOK {
		t.Fatalf("expected public read, got %d", w.Code)
	}

	w := send(http.MethodGet, "/metrics", "", "")
	if !strings.Contains(w.Body.String(), `http_requests_total{method="POST",path="/todos",status="401"} 1`) {
		t.Errorf("expected request counter in exposition, got:\n%s", w.Body.String())
	}

	if logs.FilterMessage("request").Len() < 4 {
		t.Errorf("expected each request to be logged, got %d", logs.FilterMessage("request").Len())
	}
}

func TestServer_RateLimit(t *testing.T) {
	srv := todohttp.NewServer(todohttp.Options{
		Router:      newTestRouterConfig(t),
		RateLimiter: middleware.NewRateLimiter(0.001, 1),
	}, zap.NewNop())
	h := srv.Handler()

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/todos", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("expected [200 429], got %v", codes)
	}
}

func TestServer_RecoversFromPanic(t *testing.T) {
	cfg := newTestRouterConfig(t)
	cfg.TodoSvc = nil
	srv := todohttp.NewServer(todohttp.Options{Router: cfg}, zap.NewNop())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/todos", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 from recovered panic, got %d", w.Code)
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected request id even on panic")
	}
}
