// Package extract turns raw source payloads into candidate event records.
// One extractor handles all source kinds; dispatch is a closed switch over
// the kind tag rather than a type hierarchy.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/skovatch/agora/internal/keywords"
	"github.com/skovatch/agora/internal/model"
)

// Fetcher retrieves one payload body. The link-follow extractor uses it for
// its bounded fan-out; all other extraction is pure.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor produces candidates from source payloads
type Extractor struct {
	tables  *keywords.Tables
	crawl   model.CrawlConfig
	fetcher Fetcher
}

// New creates an extractor. fetcher may be nil when no link-follow sources
// are configured.
func New(tables *keywords.Tables, crawl model.CrawlConfig, fetcher Fetcher) *Extractor {
	return &Extractor{
		tables:  tables,
		crawl:   crawl,
		fetcher: fetcher,
	}
}

// Extract produces zero or more candidates from one payload. Rejections and
// parse failures are counted in stats; only a structurally unusable payload
// returns an error.
func (e *Extractor) Extract(ctx context.Context, src model.Source, body string, stats *model.SourceStats) ([]model.Candidate, error) {
	var candidates []model.Candidate
	var err error

	switch src.Kind {
	case model.SourceKindFeed:
		candidates, err = e.extractFeed(body, src)
	case model.SourceKindPage:
		candidates, err = e.extractPage(body, src.URL, src)
	case model.SourceKindStructured:
		candidates, err = e.extractStructured(body, src)
	case model.SourceKindLinkFollow:
		candidates, err = e.extractLinkFollow(ctx, body, src, stats)
	default:
		return nil, fmt.Errorf("source %q: unknown kind %q", src.ID, src.Kind)
	}
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		c := &candidates[i]
		c.SourceID = src.ID
		c.SourceTier = src.Tier
		c.Description = CleanDescription(c.Description)
		if c.Virtual == model.Unknown {
			c.Virtual = e.detectVirtual(c)
		}
		if c.Registration == model.Unknown {
			c.Registration = e.detectRegistration(c)
		}
	}
	stats.Extracted += len(candidates)

	return candidates, nil
}

func (e *Extractor) detectVirtual(c *model.Candidate) model.Tristate {
	text := strings.ToLower(c.Title + " " + c.Description + " " + c.LocationText)
	for _, kw := range e.tables.Virtual {
		if strings.Contains(text, kw) {
			return model.True
		}
	}
	return model.False
}

func (e *Extractor) detectRegistration(c *model.Candidate) model.Tristate {
	text := strings.ToLower(c.Title + " " + c.Description)
	for _, kw := range e.tables.Registration {
		if strings.Contains(text, kw) {
			return model.True
		}
	}
	return model.False
}
