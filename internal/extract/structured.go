package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skovatch/agora/internal/model"
)

// structuredEntry is one result from a search-API payload. The shape follows
// the common denominator of event search APIs: a flat list of results with
// title/url/content plus optional event metadata.
type structuredEntry struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	IsVirtual   *bool  `json:"is_virtual"`
}

type structuredPayload struct {
	Results []structuredEntry `json:"results"`
	Events  []structuredEntry `json:"events"`
}

// extractStructured maps search-API results onto candidates, one per entry
func (e *Extractor) extractStructured(body string, src model.Source) ([]model.Candidate, error) {
	var payload structuredPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("parse structured payload: %w", err)
	}

	entries := payload.Results
	if len(entries) == 0 {
		entries = payload.Events
	}

	var candidates []model.Candidate
	for _, entry := range entries {
		if strings.TrimSpace(entry.Title) == "" {
			continue
		}

		desc := entry.Description
		if desc == "" {
			desc = entry.Content
		}

		c := model.Candidate{
			Title:        strings.TrimSpace(entry.Title),
			Description:  strings.TrimSpace(desc),
			DateText:     entry.Date,
			TimeText:     entry.Time,
			LocationText: entry.Location,
		}
		if entry.URL != "" {
			c.Links = append(c.Links, model.CandidateLink{
				URL:        entry.URL,
				AnchorText: c.Title,
			})
		}
		if entry.IsVirtual != nil {
			if *entry.IsVirtual {
				c.Virtual = model.True
			} else {
				c.Virtual = model.False
			}
		}

		candidates = append(candidates, c)
	}

	return candidates, nil
}
