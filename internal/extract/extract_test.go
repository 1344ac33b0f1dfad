package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/skovatch/agora/internal/keywords"
	"github.com/skovatch/agora/internal/model"
)

func testExtractor() *Extractor {
	return New(keywords.Defaults(), model.CrawlConfig{
		MaxDetailLinks:    50,
		MaxNestedFollows:  5,
		MaxPaginationHops: 3,
	}, nil)
}

func TestExtract_Feed(t *testing.T) {
	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Lab Events</title>
    <item>
      <title>Bioinformatics Webinar</title>
      <link>https://lab.example.edu/events/bioinfo-42</link>
      <description>Location: Online&#10;Intro to sequence alignment. September 10, 2026 at 6:00 PM.</description>
      <pubDate>Tue, 01 Sep 2026 09:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Systems Reading Group</title>
      <link>https://lab.example.edu/events/sys-7</link>
      <description>Monthly paper discussion in Cambridge.</description>
    </item>
    <item>
      <title></title>
      <link>https://lab.example.edu/events/untitled</link>
    </item>
  </channel>
</rss>`

	e := testExtractor()
	src := model.Source{ID: "lab-feed", Kind: model.SourceKindFeed, URL: "https://lab.example.edu/feed", Tier: model.TierCurated}
	stats := &model.SourceStats{SourceID: src.ID}

	candidates, err := e.Extract(context.Background(), src, rss, stats)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates (untitled dropped), got %d", len(candidates))
	}
	if stats.Extracted != 2 {
		t.Errorf("Expected Extracted=2, got %d", stats.Extracted)
	}

	first := candidates[0]
	if first.Title != "Bioinformatics Webinar" {
		t.Errorf("Unexpected title: %q", first.Title)
	}
	if first.SourceID != "lab-feed" || first.SourceTier != model.TierCurated {
		t.Errorf("Source identity not stamped: %s/%s", first.SourceID, first.SourceTier)
	}
	if len(first.Links) != 1 || first.Links[0].URL != "https://lab.example.edu/events/bioinfo-42" {
		t.Errorf("Unexpected links: %v", first.Links)
	}
	if first.DateText != "2026-09-01" {
		t.Errorf("Expected parsed pubDate fallback, got %q", first.DateText)
	}
	if first.Virtual != model.True {
		t.Error("Expected webinar to be detected as virtual")
	}
}

func TestExtract_FeedUnparseable(t *testing.T) {
	e := testExtractor()
	src := model.Source{ID: "bad", Kind: model.SourceKindFeed, URL: "https://x.example/feed"}
	stats := &model.SourceStats{SourceID: src.ID}

	if _, err := e.Extract(context.Background(), src, "not a feed at all", stats); err == nil {
		t.Error("Expected parse error for garbage feed body")
	}
}

func TestExtract_PageFragments(t *testing.T) {
	page := `<html><body>
  <div class="event-item">
    <h3>Compilers Colloquium</h3>
    <p>Deep dive into SSA form. September 14, 2026, 4:00 PM, Cambridge.</p>
    <a href="/events/compilers-colloquium">Compilers Colloquium</a>
  </div>
  <div class="event-item">
    <h3>Biotech Mixer</h3>
    <p>Networking night. October 1, 2026.</p>
    <a href="/events/biotech-mixer">Details</a>
  </div>
</body></html>`

	e := testExtractor()
	src := model.Source{ID: "campus", Kind: model.SourceKindPage, URL: "https://ex.edu/upcoming", Tier: model.TierDiscovery}
	stats := &model.SourceStats{SourceID: src.ID}

	candidates, err := e.Extract(context.Background(), src, page, stats)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.Title != "Compilers Colloquium" {
		t.Errorf("Unexpected title: %q", first.Title)
	}
	if !strings.Contains(first.DateText, "September 14") {
		t.Errorf("Expected date text captured, got %q", first.DateText)
	}
	if first.TimeText == "" {
		t.Errorf("Expected time text captured")
	}
	if len(first.Links) == 0 || first.Links[0].URL != "https://ex.edu/events/compilers-colloquium" {
		t.Errorf("Expected resolved absolute link, got %v", first.Links)
	}
}

func TestExtract_PageJSONLDWins(t *testing.T) {
	page := `<html><head>
  <script type="application/ld+json">
  {"@type": "Event", "name": "CRISPR Frontiers Symposium",
   "startDate": "2026-09-20",
   "url": "/events/crispr-frontiers",
   "eventAttendanceMode": "https://schema.org/OnlineEventAttendanceMode",
   "location": {"name": "Broad Auditorium", "address": {"addressLocality": "Cambridge", "addressRegion": "MA"}},
   "description": "A day of talks on genome editing."}
  </script>
</head><body>
  <div class="event-item">
    <h3>Noise Fragment</h3>
    <a href="/events/noise">Noise Fragment</a>
  </div>
</body></html>`

	e := testExtractor()
	src := model.Source{ID: "sym", Kind: model.SourceKindPage, URL: "https://broad.example.org/cal"}
	stats := &model.SourceStats{SourceID: src.ID}

	candidates, err := e.Extract(context.Background(), src, page, stats)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Expected structured data to win over fragments, got %d candidates", len(candidates))
	}

	c := candidates[0]
	if c.Title != "CRISPR Frontiers Symposium" {
		t.Errorf("Unexpected title: %q", c.Title)
	}
	if c.DateText != "2026-09-20" {
		t.Errorf("Unexpected date text: %q", c.DateText)
	}
	if c.LocationText != "Broad Auditorium, Cambridge, MA" {
		t.Errorf("Unexpected location: %q", c.LocationText)
	}
	if c.Virtual != model.True {
		t.Error("Expected online attendance mode to set virtual")
	}
	if len(c.Links) != 1 || c.Links[0].URL != "https://broad.example.org/events/crispr-frontiers" {
		t.Errorf("Expected resolved URL, got %v", c.Links)
	}
}

func TestExtract_Structured(t *testing.T) {
	payload := `{"results": [
    {"title": "GPU Programming Night", "url": "https://hub.example.com/events/gpu-night",
     "content": "Hands-on CUDA intro.", "date": "2026-09-18", "time": "6:30 PM",
     "location": "Boston", "is_virtual": false},
    {"title": "Remote ML Office Hours", "url": "https://hub.example.com/events/ml-oh",
     "description": "Ask anything.", "date": "2026-09-19", "is_virtual": true},
    {"title": "   ", "url": "https://hub.example.com/events/blank"}
  ]}`

	e := testExtractor()
	src := model.Source{ID: "hub", Kind: model.SourceKindStructured, URL: "https://hub.example.com/api/search"}
	stats := &model.SourceStats{SourceID: src.ID}

	candidates, err := e.Extract(context.Background(), src, payload, stats)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates (blank title dropped), got %d", len(candidates))
	}

	if candidates[0].Virtual != model.False {
		t.Error("Expected explicit is_virtual=false to map to False")
	}
	if candidates[1].Virtual != model.True {
		t.Error("Expected explicit is_virtual=true to map to True")
	}
	if candidates[0].TimeText != "6:30 PM" {
		t.Errorf("Unexpected time text: %q", candidates[0].TimeText)
	}
}

func TestExtract_UnknownKind(t *testing.T) {
	e := testExtractor()
	src := model.Source{ID: "x", Kind: "carrier-pigeon", URL: "https://x.example"}
	stats := &model.SourceStats{SourceID: src.ID}

	if _, err := e.Extract(context.Background(), src, "", stats); err == nil {
		t.Error("Expected error for unknown source kind")
	}
}

func TestCleanDescription(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{`{"json": "noise"}`, "json : noise"},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CleanDescription(tc.in); got != tc.want {
			t.Errorf("CleanDescription(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanDescription_CapsAtWordBoundary(t *testing.T) {
	long := strings.Repeat("word ", 600)
	got := CleanDescription(long)
	if len(got) > 2000 {
		t.Errorf("Expected cap at 2000 bytes, got %d", len(got))
	}
	if strings.HasSuffix(got, " wor") {
		t.Error("Expected cut at a word boundary")
	}
}

func TestLooksLikeDateTime(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"September 14", true},
		{"Sep 14, 4:00 PM", true},
		{"2026-09-14", true},
		{"Compilers Colloquium", false},
		{"Workshop on June 5", false},
		{"", true},
	}
	for _, tc := range cases {
		if got := looksLikeDateTime(tc.in); got != tc.want {
			t.Errorf("looksLikeDateTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
