package extract

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skovatch/agora/internal/model"
)

// jsonldEvent mirrors the slice of schema.org Event we consume. Publishers
// embed wildly varying shapes, so everything is optional and location may be
// a string or an object.
type jsonldEvent struct {
	Type        interface{}     `json:"@type"`
	Name        string          `json:"name"`
	StartDate   string          `json:"startDate"`
	URL         string          `json:"url"`
	Description string          `json:"description"`
	Location    json.RawMessage `json:"location"`
	Graph       []jsonldEvent   `json:"@graph"`

	EventAttendanceMode string `json:"eventAttendanceMode"`
	IsAccessibleForFree *bool  `json:"isAccessibleForFree"`
}

// extractJSONLD pulls schema.org Event records out of ld+json script blocks
func extractJSONLD(doc *goquery.Document, base *url.URL) []model.Candidate {
	var candidates []model.Candidate

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var nodes []jsonldEvent
		if strings.HasPrefix(raw, "[") {
			if err := json.Unmarshal([]byte(raw), &nodes); err != nil {
				return
			}
		} else {
			var one jsonldEvent
			if err := json.Unmarshal([]byte(raw), &one); err != nil {
				return
			}
			nodes = append(one.Graph, one)
		}

		for _, n := range nodes {
			if c, ok := candidateFromJSONLD(n, base); ok {
				candidates = append(candidates, c)
			}
		}
	})

	return candidates
}

func candidateFromJSONLD(n jsonldEvent, base *url.URL) (model.Candidate, bool) {
	if !isEventType(n.Type) || n.Name == "" {
		return model.Candidate{}, false
	}

	c := model.Candidate{
		Title:       strings.TrimSpace(n.Name),
		DateText:    n.StartDate,
		Description: strings.TrimSpace(n.Description),
	}

	if n.URL != "" {
		if parsed, err := url.Parse(n.URL); err == nil {
			c.Links = append(c.Links, model.CandidateLink{
				URL:        base.ResolveReference(parsed).String(),
				AnchorText: c.Title,
			})
		}
	}

	c.LocationText = jsonldLocation(n.Location)
	if strings.Contains(n.EventAttendanceMode, "Online") {
		c.Virtual = model.True
	}

	return c, true
}

func isEventType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return strings.Contains(v, "Event")
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.Contains(s, "Event") {
				return true
			}
		}
	}
	return false
}

func jsonldLocation(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}

	var obj struct {
		Name    string `json:"name"`
		Address struct {
			Locality string `json:"addressLocality"`
			Region   string `json:"addressRegion"`
		} `json:"address"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		parts := []string{}
		if obj.Name != "" {
			parts = append(parts, obj.Name)
		}
		if obj.Address.Locality != "" {
			parts = append(parts, obj.Address.Locality)
		}
		if obj.Address.Region != "" {
			parts = append(parts, obj.Address.Region)
		}
		return strings.Join(parts, ", ")
	}

	return ""
}
