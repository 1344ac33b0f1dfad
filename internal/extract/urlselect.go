package extract

import (
	"strings"

	"github.com/skovatch/agora/internal/model"
)

// eventTokens are anchor/path words that indicate an event-detail link
var eventTokens = []string{"event", "detail", "register", "rsvp", "more", "read", "learn"}

// genericAnchors are navigational anchor texts that never identify an event
var genericAnchors = []string{
	"click here", "read more", "learn more", "about", "contact", "home",
	"log in", "login", "sign in", "account", "back", "menu", "search",
}

var detailPathShapes = []string{"/event/", "/events/", "/detail", "/view", "/seminar/", "/workshop/"}

var navPathShapes = []string{"/about", "/contact", "/home", "/index", "/news", "/blog", "/login", "/account"}

// genericScoreThreshold: a top score at or below this means every link looked
// navigational, and the candidate is rejected rather than given a bad URL.
const genericScoreThreshold = 0

// SelectURL scores a candidate's links and returns the single best
// event-detail URL. listingURL is the source's own page; a self-referential
// link is never valid. The second return is false when no link qualifies;
// a missing URL beats a wrong one.
func SelectURL(c *model.Candidate, listingURL string) (string, bool) {
	bestURL := ""
	bestScore := 0
	bestAnchorLen := -1

	for _, link := range c.Links {
		if link.URL == listingURL {
			continue
		}

		score := scoreLink(link, c.Title)
		anchorLen := len(link.AnchorText)

		if score > bestScore || (score == bestScore && anchorLen > bestAnchorLen) {
			bestScore = score
			bestURL = link.URL
			bestAnchorLen = anchorLen
		}
	}

	if bestURL == "" || bestScore <= genericScoreThreshold {
		return "", false
	}
	return bestURL, true
}

func scoreLink(link model.CandidateLink, title string) int {
	anchor := strings.ToLower(link.AnchorText)
	urlLower := strings.ToLower(link.URL)
	score := 0

	for _, tok := range eventTokens {
		if strings.Contains(anchor, tok) || strings.Contains(urlLower, tok) {
			score += 2
		}
	}

	// Anchor text sharing words with the title points at the title link.
	for _, word := range strings.Fields(strings.ToLower(title)) {
		if len(word) > 3 && strings.Contains(anchor, word) {
			score++
		}
	}

	for _, shape := range detailPathShapes {
		if strings.Contains(urlLower, shape) {
			score += 3
			break
		}
	}

	for _, shape := range navPathShapes {
		if strings.Contains(urlLower, shape) {
			score -= 2
			break
		}
	}

	if isGenericAnchor(anchor) {
		score -= 2
	} else if len(anchor) > 5 {
		score++
	}

	return score
}

func isGenericAnchor(anchor string) bool {
	anchor = strings.ToLower(strings.TrimSpace(anchor))
	for _, g := range genericAnchors {
		if anchor == g {
			return true
		}
	}
	return false
}
