package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireInternalJobToken_RejectsMissingHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireInternalJobToken("secret", next)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/tick", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireInternalJobToken_RejectsWrongToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireInternalJobToken("secret", next)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/tick", nil)
	req.Header.Set("X-Internal-Job-Token", "wrong")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireInternalJobToken_AllowsMatchingToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireInternalJobToken("secret", next)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/tick", nil)
	req.Header.Set("X-Internal-Job-Token", "secret")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRequireInternalJobToken_FailsWhenTokenUnconfigured(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireInternalJobToken("", next)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/tick", nil)
	req.Header.Set("X-Internal-Job-Token", "anything")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"https://fairwayclub.example.com"}, next)

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/lg", nil)
	req.Header.Set("Origin", "https://fairwayclub.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://fairwayclub.example.com" {
		t.Fatalf("unexpected Access-Control-Allow-Origin: %q", got)
	}
}

func TestCORS_DisallowsUnconfiguredOrigin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"https://allowed.example.com"}, next)

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/lg", nil)
	req.Header.Set("Origin", "https://not-allowed.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected empty Access-Control-Allow-Origin, got %q", got)
	}
}

func TestShouldTraceRequest_SkipsHealthEndpoints(t *testing.T) {
	if shouldTraceRequest("/healthz") {
		t.Fatalf("expected /healthz to be excluded from tracing")
	}
	if !shouldTraceRequest("/v1/internal/jobs/tick") {
		t.Fatalf("expected job endpoint to be traced")
	}
}
