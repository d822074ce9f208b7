package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBingXFetcher_FetchKlines(t *testing.T) {
	// Bars served newest first, as the live endpoint does.
	body := `{"code":0,"msg":"","data":[
		{"open":"101","close":"102","high":"103","low":"100","volume":"15","time":1700000120000},
		{"open":"100","close":"101","high":"102","low":"99","volume":"10","time":1700000060000},
		{"open":"99","close":"100","high":"101","low":"98","volume":"12","time":1700000000000}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "BTC-USDT" {
			t.Errorf("expected symbol query, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "200" {
			t.Errorf("expected limit query, got %q", got)
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewBingXFetcher(srv.URL, "")
	bars, err := f.FetchKlines(context.Background(), "BTC-USDT", "15m", 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	// Chronological order, oldest first.
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Time.Before(bars[i].Time) {
			t.Errorf("bars not in chronological order at index %d", i)
		}
	}
	if bars[0].Close != 100 || bars[2].Close != 102 {
		t.Errorf("unexpected close prices: first=%v last=%v", bars[0].Close, bars[2].Close)
	}
}

func TestBingXFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code":100400,"msg":"invalid symbol","data":[]}`))
	}))
	defer srv.Close()

	f := NewBingXFetcher(srv.URL, "")
	_, err := f.FetchKlines(context.Background(), "NOPE", "15m", 200)
	if err == nil {
		t.Fatal("expected error for non-zero api code")
	}
	if !strings.Contains(err.Error(), "invalid symbol") {
		t.Errorf("expected api message in error, got %v", err)
	}
}

func TestBingXFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewBingXFetcher(srv.URL, "")
	if _, err := f.FetchKlines(context.Background(), "BTC-USDT", "15m", 200); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestBingXFetcher_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code":0,"msg":"","data":[]}`))
	}))
	defer srv.Close()

	f := NewBingXFetcher(srv.URL, "")
	bars, err := f.FetchKlines(context.Background(), "BTC-USDT", "15m", 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected no bars, got %d", len(bars))
	}
}
