package coursedata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

func teeJSON() string {
	holes := ""
	for i := 1; i <= 18; i++ {
		if i > 1 {
			holes += ","
		}
		holes += fmt.Sprintf(`{"number":%d,"par":4,"yardage":380,"strokeIndex":%d}`, i, i)
	}
	return fmt.Sprintf(`{"data":{"id":"blue","courseId":"pebble","name":"Blue","courseRating":71.5,"slopeRating":128,"par":72,"holes":[%s]}}`, holes)
}

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL: baseURL,
		Token:   "test-token",
		Logger:  logging.NewNop(),
	})
}

func TestGetTeeFetchesAndCaches(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/v1/courses/pebble/tees/blue" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(teeJSON()))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx := context.Background()

	tee, found, err := client.GetTee(ctx, "pebble", "blue")
	if err != nil || !found {
		t.Fatalf("GetTee: found=%v err=%v", found, err)
	}
	if tee.SlopeRating != 128 || len(tee.Holes) != 18 {
		t.Fatalf("unexpected tee: %+v", tee)
	}

	if _, _, err := client.GetTee(ctx, "pebble", "blue"); err != nil {
		t.Fatalf("cached GetTee: %v", err)
	}
	if requests.Load() != 1 {
		t.Fatalf("expected 1 upstream request, got %d", requests.Load())
	}
}

func TestGetTeeNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, found, err := client.GetTee(context.Background(), "pebble", "missing")
	if err != nil {
		t.Fatalf("not found should not be an error: %v", err)
	}
	if found {
		t.Fatal("missing tee reported as found")
	}
}

func TestGetTeeUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, _, err := client.GetTee(context.Background(), "pebble", "blue")
	if err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestGetTeeRejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// A single hole is not a valid tee.
		_, _ = w.Write([]byte(`{"data":{"id":"blue","courseId":"pebble","slopeRating":120,"holes":[{"number":1,"par":4,"strokeIndex":1}]}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, _, err := client.GetTee(context.Background(), "pebble", "blue")
	if err == nil {
		t.Fatal("expected validation error for malformed tee")
	}
}
