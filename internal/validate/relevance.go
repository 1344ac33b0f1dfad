package validate

import (
	"strings"

	"github.com/skovatch/agora/internal/keywords"
	"github.com/skovatch/agora/internal/model"
)

// RelevanceFilter applies the two binary relevance gates. Graded preference
// for better matches belongs to the scorer, not here.
type RelevanceFilter struct {
	tables *keywords.Tables
}

// NewRelevanceFilter creates a filter over the given keyword tables
func NewRelevanceFilter(tables *keywords.Tables) *RelevanceFilter {
	return &RelevanceFilter{tables: tables}
}

// Relevant reports whether the candidate passes both the topic gate and the
// locality gate.
func (f *RelevanceFilter) Relevant(c *model.Candidate) bool {
	return f.topicOK(c) && f.localityOK(c)
}

// topicOK: the title or description must contain at least one topic term
func (f *RelevanceFilter) topicOK(c *model.Candidate) bool {
	text := strings.ToLower(c.Title + " " + c.Description)
	return keywords.ContainsAnyTerm(text, f.tables.Topic)
}

// localityOK: local-area match, virtual match, or an explicit virtual flag
func (f *RelevanceFilter) localityOK(c *model.Candidate) bool {
	if c.Virtual.Bool() {
		return true
	}
	text := strings.ToLower(c.Title + " " + c.Description + " " + c.LocationText)
	return keywords.ContainsAnyTerm(text, f.tables.Local) ||
		keywords.ContainsAnyTerm(text, f.tables.Virtual)
}
