package extract

import (
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/skovatch/agora/internal/model"
)

// extractFeed maps RSS/Atom entries near-directly onto candidates. The entry
// publication date is only a fallback; the date validator prefers a date
// found in the entry text, since feeds publish announcements well before the
// event itself.
func (e *Extractor) extractFeed(body string, src model.Source) ([]model.Candidate, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var candidates []model.Candidate
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}

		desc := item.Description
		if desc == "" && item.Content != "" {
			desc = item.Content
		}

		c := model.Candidate{
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(desc),
			DateText:    item.Published,
		}
		if item.PublishedParsed != nil {
			c.DateText = item.PublishedParsed.Format("2006-01-02")
		}
		if item.Link != "" {
			c.Links = append(c.Links, model.CandidateLink{
				URL:        item.Link,
				AnchorText: c.Title,
			})
		}

		// Some feeds carry a location extension or a "Location:" line in
		// the description.
		if loc := feedLocation(item); loc != "" {
			c.LocationText = loc
		}

		candidates = append(candidates, c)
	}

	return candidates, nil
}

func feedLocation(item *gofeed.Item) string {
	for _, line := range strings.Split(item.Description, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "location:") || strings.HasPrefix(lower, "where:") {
			if idx := strings.Index(line, ":"); idx >= 0 {
				return strings.TrimSpace(line[idx+1:])
			}
		}
	}
	return ""
}
