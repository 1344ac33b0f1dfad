// Package util holds small helpers shared by the fetch layer.
package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker answers whether event sources permit fetching a path,
// caching one robots.txt per host for the lifetime of a run.
type RobotsChecker struct {
	mu        sync.RWMutex
	perHost   map[string]*robotstxt.RobotsData
	client    *http.Client
	userAgent string
	agentName string
}

// NewRobotsChecker creates a checker that identifies itself with userAgent
func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		perHost:   make(map[string]*robotstxt.RobotsData),
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		agentName: agentName(userAgent),
	}
}

// CanFetch reports whether rawURL may be fetched and any crawl delay the
// host requests. Unreachable robots.txt allows by default.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0
	}

	data, err := r.data(ctx, parsed)
	if err != nil {
		return true, 0
	}

	allowed := data.TestAgent(parsed.Path, r.agentName)

	var delay time.Duration
	if group := data.FindGroup(r.agentName); group != nil {
		delay = group.CrawlDelay
	}
	return allowed, delay
}

func (r *RobotsChecker) data(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, ok := r.perHost[u.Host]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create robots request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		data, _ = robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)
	} else {
		data, err = robotstxt.FromResponse(resp)
		if err != nil {
			return nil, fmt.Errorf("parse robots.txt: %w", err)
		}
	}

	r.mu.Lock()
	r.perHost[u.Host] = data
	r.mu.Unlock()
	return data, nil
}

// Clear drops all cached robots.txt data
func (r *RobotsChecker) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.perHost = make(map[string]*robotstxt.RobotsData)
}

// agentName extracts the product token robots.txt groups match against
func agentName(userAgent string) string {
	fields := strings.Fields(userAgent)
	if len(fields) == 0 {
		return userAgent
	}
	return strings.Split(fields[0], "/")[0]
}
