// Package classify assigns topic labels, institutions, and cost types to
// canonical events.
package classify

import (
	"strings"

	"github.com/skovatch/agora/internal/keywords"
	"github.com/skovatch/agora/internal/model"
)

// lengthFactor scales the normalization denominator so long descriptions
// don't trivially accumulate score.
const lengthFactor = 0.1

// Categorizer scores events against the keyword tables. The tables are read
// only; scoring never mutates them, so results are order-independent.
type Categorizer struct {
	tables *keywords.Tables
}

// NewCategorizer creates a categorizer over the given tables
func NewCategorizer(tables *keywords.Tables) *Categorizer {
	return &Categorizer{tables: tables}
}

// Categorize returns the labels whose final score meets their threshold.
// Zero labels is valid output; so are several, since multi-topic events are
// legitimate.
func (c *Categorizer) Categorize(title, description string) []string {
	text := strings.ToLower(title + " " + description)
	wordCount := len(strings.Fields(text))

	var labels []string
	for i := range c.tables.Labels {
		label := &c.tables.Labels[i]
		if c.score(label, text, wordCount) >= label.Threshold {
			labels = append(labels, label.Name)
		}
	}
	return labels
}

// Score exposes the final per-label score for diagnostics
func (c *Categorizer) Score(label *keywords.Label, title, description string) float64 {
	text := strings.ToLower(title + " " + description)
	return c.score(label, text, len(strings.Fields(text)))
}

func (c *Categorizer) score(label *keywords.Label, text string, wordCount int) float64 {
	norm := float64(wordCount) * lengthFactor
	if norm < 1 {
		norm = 1
	}

	raw := 0.0
	for term, weight := range label.Terms {
		if n := strings.Count(text, term); n > 0 {
			raw += weight * float64(n) / norm
		}
	}
	if raw == 0 {
		return 0
	}

	// Exclusion dampens first, then context boosts the dampened value, so
	// genuinely ambiguous text retains some signal instead of flipping on
	// whichever pattern happens to match.
	score := raw
	for _, ex := range label.Exclusions {
		if strings.Contains(text, ex) {
			score *= keywords.ExclusionRetention
			break
		}
	}
	for _, ex := range label.HardExclusions {
		if strings.Contains(text, ex) {
			score *= keywords.HardExclusionRetention
			break
		}
	}
	for _, re := range label.Context() {
		if re.MatchString(text) {
			score *= keywords.ContextBoost
			break
		}
	}

	return score
}

// Cost infers the pricing class from event text
func (c *Categorizer) Cost(title, description string) model.CostType {
	text := strings.ToLower(title + " " + description)
	for _, term := range c.tables.FreeTerms {
		if strings.Contains(text, term) {
			return model.CostFree
		}
	}
	for _, term := range c.tables.PaidTerms {
		if strings.Contains(text, term) {
			return model.CostPaid
		}
	}
	return model.CostUnknown
}
