package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/skovatch/agora/internal/cache"
	"github.com/skovatch/agora/internal/model"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Crawl.RespectRobots = false
	cfg.Cache.Enabled = false
	cfg.Concurrency.PerDomainRPS = 1000
	cfg.Concurrency.Burst = 100
	return cfg
}

func noSleep(t *testing.T) {
	t.Helper()
	orig := fetchSleepFunc
	fetchSleepFunc = func(time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = orig })
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testConfig(), nil)
	body, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if body != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestFetch_TransientThenSuccess(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, "<html>OK</html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testConfig(), nil)
	body, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retry, got %v", err)
	}
	if body != "<html>OK</html>" {
		t.Errorf("Unexpected body: %s", body)
	}
	if attempts.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetch_NotFoundNotRetried(t *testing.T) {
	noSleep(t)

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(testConfig(), nil)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404")
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Errorf("Expected StatusError 404, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected no retry on 404, got %d attempts", attempts.Load())
	}
}

func TestFetch_BodyCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, strings.Repeat("x", 1000))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.HTTP.MaxBodyBytes = 100

	fetcher := NewFetcher(cfg, nil)
	body, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected capped read to succeed, got %v", err)
	}
	if len(body) != 100 {
		t.Errorf("Expected 100 bytes, got %d", len(body))
	}
}

func TestFetch_CircuitBreakerOpensPerHost(t *testing.T) {
	noSleep(t)

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(testConfig(), nil)
	ctx := context.Background()

	// Three failed fetches trip the breaker.
	for i := 0; i < 3; i++ {
		if _, err := fetcher.Fetch(ctx, server.URL); err == nil {
			t.Fatal("Expected failure")
		}
	}
	before := hits.Load()

	if _, err := fetcher.Fetch(ctx, server.URL); err == nil {
		t.Fatal("Expected open-breaker rejection")
	}
	if hits.Load() != before {
		t.Errorf("Open breaker must not hit the host: %d -> %d", before, hits.Load())
	}
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
			return
		}
		_, _ = fmt.Fprint(w, "page content")
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Crawl.RespectRobots = true

	fetcher := NewFetcher(cfg, nil)

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/private/report"); !errors.Is(err, ErrRobotsDisallowed) {
		t.Errorf("Expected robots denial, got %v", err)
	}
	if _, err := fetcher.Fetch(context.Background(), server.URL+"/public"); err != nil {
		t.Errorf("Expected allowed path to fetch, got %v", err)
	}
}

func TestFetch_CacheHitSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = fmt.Fprint(w, "cached payload")
	}))
	defer server.Close()

	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	fetcher := NewFetcher(testConfig(), mem)

	for i := 0; i < 3; i++ {
		body, err := fetcher.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
		if body != "cached payload" {
			t.Errorf("Unexpected body: %s", body)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("Expected 1 network hit, got %d", hits.Load())
	}
}
