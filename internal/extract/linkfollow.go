package extract

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skovatch/agora/internal/model"
)

// Link-follow is an explicit breadth-first walk over a small tree of pages:
// the starting listing, up to MaxPaginationHops further listing pages, the
// event-detail links found on each listing (MaxDetailLinks per listing), and
// up to MaxNestedFollows further detail links per detail page, one level
// deep. Exceeding any bound truncates the walk; it is never an error.

type frontierEntry struct {
	url   string
	depth int // 0 = listing, 1 = detail, 2 = nested detail
}

var eventPathHint = regexp.MustCompile(`(?i)/events?/|/calendar/|/seminars?/|event|workshop|webinar|seminar|meetup|training`)

var skipPathHint = regexp.MustCompile(`(?i)/blog/|/news/|/article/|/tag/|/category/|/search|/login|/logout|/register|/about|/contact|/account|/signup|/sign-?in|/profile|/settings|/admin|/dashboard|/terms|/privacy|/cookie|\.(pdf|jpe?g|png|gif|css|js)$`)

func (e *Extractor) extractLinkFollow(ctx context.Context, body string, src model.Source, stats *model.SourceStats) ([]model.Candidate, error) {
	if e.fetcher == nil {
		return nil, fmt.Errorf("source %q: link-follow requires a fetcher", src.ID)
	}

	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}

	visited := map[string]bool{src.URL: true}
	var candidates []model.Candidate
	var frontier []frontierEntry

	// Seed from the already-fetched starting listing.
	listingsLeft := e.crawl.MaxPaginationHops
	frontier = e.expandListing(body, base, visited, frontier, &listingsLeft)

	for len(frontier) > 0 {
		if ctx.Err() != nil {
			// Run deadline: keep what we have.
			break
		}

		entry := frontier[0]
		frontier = frontier[1:]

		stats.Fetches++
		page, err := e.fetcher.Fetch(ctx, entry.url)
		if err != nil {
			stats.FetchErrors++
			continue
		}

		if entry.depth == 0 {
			frontier = e.expandListing(page, base, visited, frontier, &listingsLeft)
			continue
		}

		found, err := e.extractPage(page, entry.url, src)
		if err != nil {
			stats.ParseErrors++
			continue
		}
		if len(found) == 0 {
			// A detail page with no extractable fragments still describes
			// one event; take the page itself as the candidate.
			if c, ok := candidateFromDetailPage(page, entry.url); ok {
				found = []model.Candidate{c}
			}
		}
		candidates = append(candidates, found...)

		if entry.depth < 2 {
			nested := findEventLinks(page, entry.url, e.crawl.MaxNestedFollows)
			for _, link := range nested {
				if !visited[link] {
					visited[link] = true
					frontier = append(frontier, frontierEntry{url: link, depth: entry.depth + 1})
				}
			}
		}
	}

	return candidates, nil
}

// expandListing enqueues the detail links and remaining pagination hops of
// one listing page.
func (e *Extractor) expandListing(body string, base *url.URL, visited map[string]bool, frontier []frontierEntry, listingsLeft *int) []frontierEntry {
	for _, link := range findEventLinks(body, base.String(), e.crawl.MaxDetailLinks) {
		if !visited[link] {
			visited[link] = true
			frontier = append(frontier, frontierEntry{url: link, depth: 1})
		}
	}
	for _, link := range findPaginationLinks(body, base.String()) {
		if *listingsLeft <= 0 {
			break
		}
		if !visited[link] {
			visited[link] = true
			*listingsLeft--
			frontier = append(frontier, frontierEntry{url: link, depth: 0})
		}
	}
	return frontier
}

// findEventLinks returns up to limit same-domain links that look like event
// detail pages.
func findEventLinks(body, pageURL string, limit int) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if len(links) >= limit {
			return false
		}
		resolved := resolveSameDomain(a, base)
		if resolved == "" || seen[resolved] || resolved == pageURL {
			return true
		}
		if !eventPathHint.MatchString(resolved) || skipPathHint.MatchString(resolved) {
			return true
		}
		seen[resolved] = true
		links = append(links, resolved)
		return true
	})

	return links
}

// findPaginationLinks returns same-domain "next page" style links
func findPaginationLinks(body, pageURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(a.Text()))
		resolved := resolveSameDomain(a, base)
		if resolved == "" || seen[resolved] || resolved == pageURL {
			return
		}
		isPager := text == "next" || text == "more" || text == "view all" || text == "see all" ||
			strings.Contains(text, "next page") || strings.Contains(text, "more events") ||
			strings.Contains(resolved, "page=")
		if !isPager || skipPathHint.MatchString(resolved) {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links
}

func resolveSameDomain(a *goquery.Selection, base *url.URL) string {
	href, _ := a.Attr("href")
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	host := strings.ToLower(resolved.Host)
	baseHost := strings.ToLower(base.Host)
	if host != baseHost && !strings.HasSuffix(host, "."+baseHost) {
		return ""
	}
	return resolved.String()
}

// candidateFromDetailPage treats a whole detail page as one candidate, using
// the page heading and meta description.
func candidateFromDetailPage(body, pageURL string) (model.Candidate, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return model.Candidate{}, false
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" || looksLikeDateTime(title) {
		return model.Candidate{}, false
	}

	c := model.Candidate{
		Title: title,
		Links: []model.CandidateLink{{URL: pageURL, AnchorText: title}},
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		c.Description = strings.TrimSpace(desc)
	}
	if c.Description == "" {
		c.Description = strings.TrimSpace(doc.Find("p").First().Text())
	}

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if m := dateLikeText.FindString(text); m != "" {
		c.DateText = surroundingText(text, m, 40)
	}
	if m := timeLikeText.FindString(text); m != "" {
		c.TimeText = m
	}

	return c, true
}
