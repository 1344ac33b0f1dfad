package extract

import (
	"context"
	"fmt"
	"testing"

	"github.com/skovatch/agora/internal/keywords"
	"github.com/skovatch/agora/internal/model"
)

// stubFetcher serves pages from a map and records every fetch
type stubFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.fetched = append(f.fetched, url)
	body, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("no page for %s", url)
	}
	return body, nil
}

func detailPage(title, date string) string {
	return fmt.Sprintf(`<html><head><title>%s</title>
<meta name="description" content="About %s."></head>
<body><h1>%s</h1><p>Join us on %s at 6:00 PM.</p></body></html>`, title, title, title, date)
}

func linkFollowExtractor(f Fetcher, crawl model.CrawlConfig) *Extractor {
	return New(keywords.Defaults(), crawl, f)
}

func TestLinkFollow_WalksDetailsPaginationAndNested(t *testing.T) {
	listing := `<html><body>
  <a href="/events/alpha">Alpha Workshop</a>
  <a href="/events/beta">Beta Seminar</a>
  <a href="/upcoming?page=2">Next</a>
  <a href="/about">About</a>
</body></html>`

	page2 := `<html><body><a href="/events/gamma">Gamma Talk</a></body></html>`

	alphaBody := detailPage("Alpha Workshop", "September 14, 2026") +
		`<a href="/events/alpha-satellite">Satellite session</a>`

	fetcher := &stubFetcher{pages: map[string]string{
		"https://ex.edu/events/alpha":           alphaBody,
		"https://ex.edu/events/beta":            detailPage("Beta Seminar", "September 15, 2026"),
		"https://ex.edu/upcoming?page=2":        page2,
		"https://ex.edu/events/gamma":           detailPage("Gamma Talk", "September 16, 2026"),
		"https://ex.edu/events/alpha-satellite": detailPage("Satellite Session", "September 17, 2026"),
	}}

	e := linkFollowExtractor(fetcher, model.CrawlConfig{
		MaxDetailLinks:    50,
		MaxNestedFollows:  5,
		MaxPaginationHops: 3,
	})
	src := model.Source{ID: "campus", Kind: model.SourceKindLinkFollow, URL: "https://ex.edu/upcoming", Tier: model.TierDiscovery}
	stats := &model.SourceStats{SourceID: src.ID}

	candidates, err := e.Extract(context.Background(), src, listing, stats)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	titles := make(map[string]bool)
	for _, c := range candidates {
		titles[c.Title] = true
	}
	for _, want := range []string{"Alpha Workshop", "Beta Seminar", "Gamma Talk", "Satellite Session"} {
		if !titles[want] {
			t.Errorf("Missing candidate %q; got %v", want, titles)
		}
	}
	if stats.Fetches != 5 {
		t.Errorf("Expected 5 fetches, got %d (%v)", stats.Fetches, fetcher.fetched)
	}
	if stats.Extracted != len(candidates) {
		t.Errorf("Expected Extracted=%d, got %d", len(candidates), stats.Extracted)
	}

	// The /about link must never be followed.
	for _, u := range fetcher.fetched {
		if u == "https://ex.edu/about" {
			t.Error("Followed a navigation link")
		}
	}
}

func TestLinkFollow_DetailLinkBound(t *testing.T) {
	listing := `<html><body>
  <a href="/events/a">A</a>
  <a href="/events/b">B</a>
  <a href="/events/c">C</a>
  <a href="/events/d">D</a>
</body></html>`

	fetcher := &stubFetcher{pages: map[string]string{
		"https://ex.edu/events/a": detailPage("A Event", "September 14, 2026"),
		"https://ex.edu/events/b": detailPage("B Event", "September 15, 2026"),
		"https://ex.edu/events/c": detailPage("C Event", "September 16, 2026"),
		"https://ex.edu/events/d": detailPage("D Event", "September 17, 2026"),
	}}

	e := linkFollowExtractor(fetcher, model.CrawlConfig{
		MaxDetailLinks:    2,
		MaxNestedFollows:  5,
		MaxPaginationHops: 3,
	})
	src := model.Source{ID: "campus", Kind: model.SourceKindLinkFollow, URL: "https://ex.edu/upcoming"}
	stats := &model.SourceStats{SourceID: src.ID}

	if _, err := e.Extract(context.Background(), src, listing, stats); err != nil {
		t.Fatal(err)
	}
	if stats.Fetches != 2 {
		t.Errorf("Expected detail-link bound to cap fetches at 2, got %d", stats.Fetches)
	}
}

func TestLinkFollow_FetchErrorCountedAndWalkContinues(t *testing.T) {
	listing := `<html><body>
  <a href="/events/dead">Dead link</a>
  <a href="/events/live">Live Talk</a>
</body></html>`

	fetcher := &stubFetcher{pages: map[string]string{
		"https://ex.edu/events/live": detailPage("Live Talk", "September 20, 2026"),
	}}

	e := linkFollowExtractor(fetcher, model.CrawlConfig{
		MaxDetailLinks:    50,
		MaxNestedFollows:  5,
		MaxPaginationHops: 3,
	})
	src := model.Source{ID: "campus", Kind: model.SourceKindLinkFollow, URL: "https://ex.edu/upcoming"}
	stats := &model.SourceStats{SourceID: src.ID}

	candidates, err := e.Extract(context.Background(), src, listing, stats)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if stats.FetchErrors != 1 {
		t.Errorf("Expected 1 fetch error, got %d", stats.FetchErrors)
	}
	if len(candidates) != 1 || candidates[0].Title != "Live Talk" {
		t.Errorf("Expected the live page to survive, got %v", candidates)
	}
}

func TestLinkFollow_OffDomainLinksIgnored(t *testing.T) {
	listing := `<html><body>
  <a href="https://elsewhere.example.com/events/x">Offsite event</a>
  <a href="/events/onsite">Onsite Talk</a>
</body></html>`

	fetcher := &stubFetcher{pages: map[string]string{
		"https://ex.edu/events/onsite": detailPage("Onsite Talk", "September 21, 2026"),
	}}

	e := linkFollowExtractor(fetcher, model.CrawlConfig{
		MaxDetailLinks:    50,
		MaxNestedFollows:  5,
		MaxPaginationHops: 3,
	})
	src := model.Source{ID: "campus", Kind: model.SourceKindLinkFollow, URL: "https://ex.edu/upcoming"}
	stats := &model.SourceStats{SourceID: src.ID}

	if _, err := e.Extract(context.Background(), src, listing, stats); err != nil {
		t.Fatal(err)
	}
	for _, u := range fetcher.fetched {
		if u == "https://elsewhere.example.com/events/x" {
			t.Error("Followed an off-domain link")
		}
	}
}

func TestLinkFollow_CanceledContextTruncates(t *testing.T) {
	listing := `<html><body><a href="/events/a">A</a></body></html>`

	fetcher := &stubFetcher{pages: map[string]string{}}
	e := linkFollowExtractor(fetcher, model.CrawlConfig{
		MaxDetailLinks:    50,
		MaxNestedFollows:  5,
		MaxPaginationHops: 3,
	})
	src := model.Source{ID: "campus", Kind: model.SourceKindLinkFollow, URL: "https://ex.edu/upcoming"}
	stats := &model.SourceStats{SourceID: src.ID}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candidates, err := e.Extract(ctx, src, listing, stats)
	if err != nil {
		t.Fatalf("Expected graceful truncation, got %v", err)
	}
	if len(candidates) != 0 || stats.Fetches != 0 {
		t.Errorf("Expected nothing fetched after cancellation, got %d candidates, %d fetches", len(candidates), stats.Fetches)
	}
}
