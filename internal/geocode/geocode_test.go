package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/matsen/affil/internal/export"
	"github.com/matsen/affil/internal/fetch"
)

func newTestServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Query().Get("key") != "secret" {
			w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`))
			return
		}
		switch r.URL.Query().Get("address") {
		case "MIT":
			w.Write([]byte(`{"status": "OK", "results": [{"geometry": {"location": {"lat": 42.36, "lng": -71.09}}}]}`))
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(fetch.NewClient(fetch.WithRate(0)), "secret",
		WithBaseURL(srv.URL), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewClient_NoKey(t *testing.T) {
	if _, err := NewClient(fetch.NewClient(), ""); err != ErrNoAPIKey {
		t.Errorf("NewClient() error = %v, want ErrNoAPIKey", err)
	}
}

func TestLookup(t *testing.T) {
	var calls int32
	c := newTestClient(t, newTestServer(t, &calls))

	tests := []struct {
		address  string
		resolved bool
		wantErr  bool
	}{
		{"MIT", true, false},
		{"Nowhere Institute", false, false},
		{"broken", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			loc, err := c.Lookup(context.Background(), tt.address)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if loc.Name != tt.address {
				t.Errorf("Name = %q", loc.Name)
			}
			if got := loc.Lat != nil; got != tt.resolved {
				t.Errorf("resolved = %v, want %v", got, tt.resolved)
			}
		})
	}
}

func TestLookup_Coordinates(t *testing.T) {
	var calls int32
	c := newTestClient(t, newTestServer(t, &calls))

	loc, err := c.Lookup(context.Background(), "MIT")
	if err != nil {
		t.Fatal(err)
	}
	if *loc.Lat != 42.36 || *loc.Lng != -71.09 {
		t.Errorf("Lookup() = %v, %v", *loc.Lat, *loc.Lng)
	}
}

func TestLookupAll_ReusesKnown(t *testing.T) {
	var calls int32
	c := newTestClient(t, newTestServer(t, &calls))

	lat, lng := 1.0, 2.0
	known := []export.Location{{Name: "ETH Zurich", Lat: &lat, Lng: &lng}, {Name: "Nowhere Institute"}}

	got, err := c.LookupAll(context.Background(), []string{"ETH Zurich", "MIT", "Nowhere Institute"}, known)
	if err != nil {
		t.Fatalf("LookupAll() error = %v", err)
	}
	if len(got) != 3 || *got[0].Lat != 1.0 || got[1].Lat == nil || got[2].Lat != nil {
		t.Errorf("LookupAll() = %+v", got)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("server calls = %d, want 2", n)
	}
}
