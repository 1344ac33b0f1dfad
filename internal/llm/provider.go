// Package llm optionally rewrites event descriptions into short
// consistent summaries. Enrichment runs after selection and never
// affects filtering, dedup, or scoring.
package llm

import (
	"context"

	"github.com/skovatch/agora/internal/model"
)

// Provider generates an enriched description for a single event
type Provider interface {
	Name() string
	Enrich(ctx context.Context, req EnrichRequest) (*EnrichResponse, error)
	IsAvailable(ctx context.Context) bool
}

// EnrichRequest carries one selected event plus generation limits
type EnrichRequest struct {
	Event     model.Event
	Model     string
	MaxTokens int
}

// EnrichResponse holds the rewritten description
type EnrichResponse struct {
	Description string
	Model       string
	TokensUsed  int
}
