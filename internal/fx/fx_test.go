package fx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMockProviderDefaultsRate(t *testing.T) {
	quote, err := MockProvider{}.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Rate <= 0 {
		t.Fatalf("expected positive rate, got %v", quote.Rate)
	}
	if quote.Source != "mock" {
		t.Fatalf("unexpected source %q", quote.Source)
	}
}

func TestHTTPProviderParsesQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rates/usd-ars" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rate": 1485.5, "source": "bna"}`))
	}))
	defer srv.Close()

	quote, err := HTTPProvider{BaseURL: srv.URL}.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Rate != 1485.5 || quote.Source != "bna" {
		t.Fatalf("unexpected quote %+v", quote)
	}
}

func TestHTTPProviderRejectsBadRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rate": 0}`))
	}))
	defer srv.Close()

	if _, err := (HTTPProvider{BaseURL: srv.URL}).CurrentRate(context.Background()); err == nil {
		t.Fatalf("expected error for non-positive rate")
	}
}

func TestHTTPProviderSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := (HTTPProvider{BaseURL: srv.URL}).CurrentRate(context.Background()); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}
