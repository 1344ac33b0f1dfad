package model

import "time"

// SourceStats counts candidates in and out of each stage for one source.
// The counters explain "why did source X contribute 0 events" without a
// verbose re-run.
type SourceStats struct {
	SourceID    string `json:"source_id"`
	Fetches     int    `json:"fetches"`
	FetchErrors int    `json:"fetch_errors"`
	ParseErrors int    `json:"parse_errors"`

	Extracted            int `json:"extracted"`
	RejectedURL          int `json:"rejected_url"`
	RejectedAuthenticity int `json:"rejected_authenticity"`
	RejectedDate         int `json:"rejected_date"`
	RejectedRelevance    int `json:"rejected_relevance"`
	Survived             int `json:"survived"`
}

// RunStats aggregates per-stage counts for a whole run
type RunStats struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Sources map[string]*SourceStats `json:"sources"`

	Merged     int `json:"merged_in"`     // candidates entering dedup
	Duplicates int `json:"duplicates"`    // candidates collapsed away
	Canonical  int `json:"canonical"`     // distinct events after dedup
	BelowFloor int `json:"below_floor"`   // events under the score floor
	Selected   int `json:"selected"`      // final output size
	Truncated  bool `json:"truncated"`    // run deadline hit before all sources finished
}

// NewRunStats creates an empty RunStats for the given run id
func NewRunStats(runID string) *RunStats {
	return &RunStats{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
		Sources:   make(map[string]*SourceStats),
	}
}

// ForSource returns the stats bucket for a source, creating it if needed
func (s *RunStats) ForSource(id string) *SourceStats {
	if st, ok := s.Sources[id]; ok {
		return st
	}
	st := &SourceStats{SourceID: id}
	s.Sources[id] = st
	return st
}

// Absorb merges a per-source bucket produced by a worker into the run totals
func (s *RunStats) Absorb(st *SourceStats) {
	dst := s.ForSource(st.SourceID)
	dst.Fetches += st.Fetches
	dst.FetchErrors += st.FetchErrors
	dst.ParseErrors += st.ParseErrors
	dst.Extracted += st.Extracted
	dst.RejectedURL += st.RejectedURL
	dst.RejectedAuthenticity += st.RejectedAuthenticity
	dst.RejectedDate += st.RejectedDate
	dst.RejectedRelevance += st.RejectedRelevance
	dst.Survived += st.Survived
}

// RunStatus is the persisted record of the most recent run
type RunStatus struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Succeeded  bool      `json:"succeeded"`
	Error      string    `json:"error,omitempty"`
	Events     int       `json:"events"`
	Stats      *RunStats `json:"stats,omitempty"`
}
