package pipeline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skovatch/agora/internal/cache"
	"github.com/skovatch/agora/internal/model"
	"github.com/skovatch/agora/internal/util"
	"github.com/skovatch/agora/internal/worker"
)

const (
	maxRedirects = 3
	retryBackoff = 2 * time.Second
)

// fetchSleepFunc is swapped out in tests to avoid real backoff waits
var fetchSleepFunc = time.Sleep

// Fetcher retrieves source payloads politely: per-domain rate limiting,
// robots.txt compliance, one retry on transient failures, and a
// per-domain circuit breaker so a dead host can't eat the whole run.
// It satisfies extract.Fetcher so the link-follow walker can reuse it.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64

	limiter *worker.Limiter
	robots  *util.RobotsChecker // nil when robots compliance is off
	cache   cache.Cache         // nil when caching is off

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewFetcher builds a fetcher from the HTTP, concurrency, and crawl config
func NewFetcher(cfg *model.Config, payloadCache cache.Cache) *Fetcher {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
	}
	if cfg.HTTP.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	var robots *util.RobotsChecker
	if cfg.Crawl.RespectRobots {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	return &Fetcher{
		client: &http.Client{
			Timeout:   cfg.HTTP.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
		limiter:   worker.NewLimiter(cfg.Concurrency.PerDomainRPS, cfg.Concurrency.Burst),
		robots:    robots,
		cache:     payloadCache,
		breakers:  make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Fetch retrieves a URL's body as a string, consulting the cache first
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	key := cache.Key(rawURL)
	if f.cache != nil {
		if data, ok := f.cache.Get(key); ok {
			return string(data), nil
		}
	}

	if f.robots != nil {
		allowed, delay := f.robots.CanFetch(ctx, rawURL)
		if !allowed {
			return "", fmt.Errorf("%s: %w", rawURL, ErrRobotsDisallowed)
		}
		if err := f.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
			return "", err
		}
	} else {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return "", err
		}
	}

	breaker, err := f.breakerFor(rawURL)
	if err != nil {
		return "", err
	}

	body, err := breaker.Execute(func() (interface{}, error) {
		return f.fetchWithRetry(ctx, rawURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return "", fmt.Errorf("host unavailable, skipping %s: %w", rawURL, err)
		}
		return "", err
	}

	payload := body.(string)
	if f.cache != nil {
		_ = f.cache.Set(key, []byte(payload), 0)
	}
	return payload, nil
}

// fetchWithRetry tries the URL once, then once more after a short backoff
// when the failure looks transient
func (f *Fetcher) fetchWithRetry(ctx context.Context, rawURL string) (string, error) {
	body, err := f.fetchOnce(ctx, rawURL)
	if err == nil {
		return body, nil
	}
	if !transient(err) || ctx.Err() != nil {
		return "", err
	}

	fetchSleepFunc(retryBackoff)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return f.fetchOnce(ctx, rawURL)
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body %s: %w", rawURL, err)
	}
	return string(body), nil
}

// breakerFor returns (creating if needed) the circuit breaker for a host
func (f *Fetcher) breakerFor(rawURL string) (*gobreaker.CircuitBreaker, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	host := parsed.Hostname()

	f.mu.Lock()
	defer f.mu.Unlock()

	if cb, ok := f.breakers[host]; ok {
		return cb, nil
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	f.breakers[host] = cb
	return cb, nil
}

// transient reports whether an error merits a retry. Robots denials,
// context cancellation, and 4xx responses (429 aside) are final.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrRobotsDisallowed) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return retryableStatus(se.Code)
	}
	// network-level failures (refused, reset, DNS) get one retry
	return true
}
