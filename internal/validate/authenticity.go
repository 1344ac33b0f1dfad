// Package validate holds the per-candidate gates between extraction and
// deduplication: authenticity, date resolution, and relevance. A gate
// failure is a normal filtering outcome, counted in run statistics, never an
// error.
package validate

import (
	"regexp"
	"strings"

	"github.com/skovatch/agora/internal/model"
)

// navTitlePatterns match navigation chrome and account pages that listing
// scrapers habitually misread as events.
var navTitlePatterns = []string{
	"upcoming events", "past events", "all events", "my events",
	"log in", "login", "sign up", "signup", "create account",
	"my account", "account settings", "home", "about", "contact",
	"help", "faq", "events list", "events page", "meet the team",
	"travel funding", "sponsors", "speakers", "venue", "hotel",
	"accommodation", "buy tickets", "purchase tickets",
	"load more", "see more", "show more", "view more", "view all",
	"next page", "previous page", "pagination",
}

var navURLSegments = []string{
	"/login", "/logout", "/account", "/accounts/", "/profile",
	"/settings", "/admin", "/signup", "/sign-in", "/signin",
}

var blogURLSegments = []string{"/blog/", "/article/", "/news/", "/posts/", "/editorial/"}

// listicleTitlePatterns match "top N" style roundup posts: articles about
// events, not events.
var listicleTitlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\btop \d+`),
	regexp.MustCompile(`(?i)\b\d+ best\b`),
	regexp.MustCompile(`(?i)\b\d+ must.?attend`),
	regexp.MustCompile(`(?i)\blist of\b`),
	regexp.MustCompile(`(?i)\b(ultimate|complete) (guide|list)\b`),
	regexp.MustCompile(`(?i)\bguide to\b`),
	regexp.MustCompile(`(?i)\broundup\b`),
	regexp.MustCompile(`(?i)\beverything you need to know\b`),
	regexp.MustCompile(`(?i)\b\d+ (events|conferences|workshops|courses|trainings) (to|you|for)\b`),
	regexp.MustCompile(`(?i)\bbest .{0,30}courses?\b`),
	regexp.MustCompile(`(?i)\bcourses? (for|in) \d{4}\b`),
}

var numberedItem = regexp.MustCompile(`\b\d+\.\s+\S`)

// Authentic reports whether a candidate looks like a real single event.
// Two classes of impostors are rejected: navigation/account pages and
// listicle blog content. This runs before date validation since rejecting
// early is cheaper.
func Authentic(c *model.Candidate) bool {
	title := strings.ToLower(strings.TrimSpace(c.Title))
	urlLower := strings.ToLower(c.URL)
	desc := strings.ToLower(c.Description)

	for _, p := range navTitlePatterns {
		if title == p || strings.HasPrefix(title, p+" ") || strings.HasPrefix(title, p+":") {
			return false
		}
	}
	for _, seg := range navURLSegments {
		if strings.Contains(urlLower, seg) {
			return false
		}
	}

	for _, re := range listicleTitlePatterns {
		if re.MatchString(title) {
			return false
		}
	}

	// Three or more sequentially numbered items reads as a list post even
	// when the title looks innocent.
	if len(numberedItem.FindAllString(desc, 4)) >= 3 {
		return false
	}

	for _, seg := range blogURLSegments {
		if strings.Contains(urlLower, seg) {
			return false
		}
	}

	return true
}
