package weather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCurrentParsesUpstreamPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("latitude") == "" || q.Get("longitude") == "" {
			t.Errorf("missing coordinates in query: %s", r.URL.RawQuery)
		}
		if q.Get("current") != "temperature_2m,wind_speed_10m" {
			t.Errorf("unexpected current fields: %q", q.Get("current"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":21.4,"wind_speed_10m":9.7}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, testLogger())
	cur := c.Current(context.Background(), -34.6037, -58.3816)

	if cur.Temperature == nil || *cur.Temperature != 21.4 {
		t.Fatalf("unexpected temperature: %v", cur.Temperature)
	}
	if cur.WindSpeed == nil || *cur.WindSpeed != 9.7 {
		t.Fatalf("unexpected wind speed: %v", cur.WindSpeed)
	}
}

func TestCurrentUpstreamErrorYieldsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, testLogger())
	cur := c.Current(context.Background(), -34.6, -58.4)

	if cur.Temperature != nil || cur.WindSpeed != nil {
		t.Fatalf("expected null sentinel on upstream error, got %+v", cur)
	}
}

func TestCurrentMalformedBodyYieldsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, testLogger())
	cur := c.Current(context.Background(), -34.6, -58.4)

	if cur.Temperature != nil || cur.WindSpeed != nil {
		t.Fatalf("expected null sentinel on malformed body, got %+v", cur)
	}
}

func TestCurrentConnectionRefusedYieldsSentinel(t *testing.T) {
	// A server that is already closed simulates a network failure.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, time.Second, testLogger())
	cur := c.Current(context.Background(), -34.6, -58.4)

	if cur.Temperature != nil || cur.WindSpeed != nil {
		t.Fatalf("expected null sentinel on connection error, got %+v", cur)
	}
}
