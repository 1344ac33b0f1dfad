package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skovatch/agora/internal/model"
)

// fragmentSelectors locate repeating event-like containers on listing pages,
// most specific first.
var fragmentSelectors = []string{
	"[class*='event-item']",
	"[class*='event-card']",
	"[class*='event']",
	"article",
	".views-row",
	"li",
}

// maxFragmentsPerPage caps heuristic extraction on pathological pages.
const maxFragmentsPerPage = 100

var dateLikeText = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\.?\s+\d{1,2}|\d{4}-\d{1,2}-\d{1,2}|\d{1,2}/\d{1,2}/\d{4}`)

var timeLikeText = regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(a\.?m\.?|p\.?m\.?)\b|\b\d{1,2}:\d{2}\b|\bnoon\b|\bmidnight\b`)

// extractPage extracts candidates from an HTML listing page. A structured
// data pass (schema.org Event JSON-LD) runs first and wins over the free-text
// fragment heuristics when it yields anything, since structured data is
// strictly more reliable.
func (e *Extractor) extractPage(body, pageURL string, src model.Source) ([]model.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	if structured := extractJSONLD(doc, base); len(structured) > 0 {
		return structured, nil
	}

	return extractFragments(doc, base), nil
}

// extractFragments walks event-like containers and pulls title/date/links
// out of each.
func extractFragments(doc *goquery.Document, base *url.URL) []model.Candidate {
	var candidates []model.Candidate
	seen := make(map[string]bool)

	for _, sel := range fragmentSelectors {
		doc.Find(sel).EachWithBreak(func(_ int, frag *goquery.Selection) bool {
			if len(candidates) >= maxFragmentsPerPage {
				return false
			}

			c, ok := candidateFromFragment(frag, base)
			if !ok {
				return true
			}

			// Fragments repeat across selector passes (an article is also
			// matched by li); keep the first, most specific hit.
			key := strings.ToLower(c.Title)
			if seen[key] {
				return true
			}
			seen[key] = true
			candidates = append(candidates, c)
			return true
		})
		if len(candidates) > 0 && sel != "li" {
			// A specific selector that matched is a better signal than the
			// generic fallbacks below it.
			break
		}
	}

	return candidates
}

func candidateFromFragment(frag *goquery.Selection, base *url.URL) (model.Candidate, bool) {
	links := fragmentLinks(frag, base)
	if len(links) == 0 {
		return model.Candidate{}, false
	}

	title := fragmentTitle(frag, links)
	if title == "" || looksLikeDateTime(title) {
		return model.Candidate{}, false
	}

	text := strings.Join(strings.Fields(frag.Text()), " ")

	c := model.Candidate{
		Title: title,
		Links: links,
	}
	if m := dateLikeText.FindString(text); m != "" {
		c.DateText = surroundingText(text, m, 40)
	}
	if m := timeLikeText.FindString(text); m != "" {
		c.TimeText = m
	}
	if desc := fragmentDescription(frag, title); desc != "" {
		c.Description = desc
	}
	if loc := fragmentLocation(frag); loc != "" {
		c.LocationText = loc
	}

	return c, true
}

// fragmentLinks collects the links the URL selector will score
func fragmentLinks(frag *goquery.Selection, base *url.URL) []model.CandidateLink {
	var links []model.CandidateLink
	frag.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}
		parsed, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(parsed)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		links = append(links, model.CandidateLink{
			URL:        resolved.String(),
			AnchorText: strings.TrimSpace(a.Text()),
		})
	})
	return links
}

// fragmentTitle prefers a heading, then the longest meaningful anchor text
func fragmentTitle(frag *goquery.Selection, links []model.CandidateLink) string {
	for _, h := range []string{"h1", "h2", "h3", "h4"} {
		if t := strings.TrimSpace(frag.Find(h).First().Text()); t != "" {
			return t
		}
	}
	best := ""
	for _, l := range links {
		if len(l.AnchorText) > len(best) && !isGenericAnchor(l.AnchorText) {
			best = l.AnchorText
		}
	}
	return best
}

func fragmentDescription(frag *goquery.Selection, title string) string {
	var parts []string
	frag.Find("p").Each(func(_ int, p *goquery.Selection) {
		t := strings.TrimSpace(p.Text())
		if t != "" && t != title {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

func fragmentLocation(frag *goquery.Selection) string {
	for _, sel := range []string{"[class*='location']", "[class*='venue']", ".where"} {
		if t := strings.TrimSpace(frag.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// looksLikeDateTime reports whether text is a bare date/time rather than a
// real title. Calendar layouts often put the date where a title belongs.
func looksLikeDateTime(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return true
	}
	stripped := dateLikeText.ReplaceAllString(t, "")
	stripped = timeLikeText.ReplaceAllString(stripped, "")
	stripped = strings.Trim(stripped, " ,@-–—|:")
	return len(strings.Fields(stripped)) == 0
}

// surroundingText returns match plus up to pad bytes of context on each side,
// snapped to word boundaries, so the date validator sees the year or weekday
// next to the matched fragment.
func surroundingText(text, match string, pad int) string {
	idx := strings.Index(text, match)
	if idx < 0 {
		return match
	}
	start := idx - pad
	if start < 0 {
		start = 0
	}
	end := idx + len(match) + pad
	if end > len(text) {
		end = len(text)
	}
	out := text[start:end]
	if start > 0 {
		if sp := strings.IndexByte(out, ' '); sp >= 0 {
			out = out[sp+1:]
		}
	}
	if end < len(text) {
		if sp := strings.LastIndexByte(out, ' '); sp >= 0 {
			out = out[:sp]
		}
	}
	return out
}
