package model

import "time"

// SourceKind identifies how a source's payload is extracted
type SourceKind string

const (
	SourceKindPage       SourceKind = "page"           // HTML listing page
	SourceKindFeed       SourceKind = "feed"           // RSS/Atom feed
	SourceKindStructured SourceKind = "structured-api" // JSON search-API results
	SourceKindLinkFollow SourceKind = "link-follow"    // listing page whose entries link to detail pages
)

// TrustTier classifies a source as curated/owned vs. broad discovery
type TrustTier string

const (
	TierCurated   TrustTier = "curated"
	TierDiscovery TrustTier = "discovery"
)

// Source describes one origin to extract events from
type Source struct {
	ID   string     `yaml:"id" json:"id"`
	Kind SourceKind `yaml:"kind" json:"kind"`
	URL  string     `yaml:"url" json:"url"`
	Tier TrustTier  `yaml:"tier" json:"tier"`
}

// Tristate represents a boolean signal that may be undetected
type Tristate int

const (
	Unknown Tristate = iota
	True
	False
)

// Bool collapses a Tristate to a plain bool (unknown counts as false)
func (t Tristate) Bool() bool { return t == True }

// CandidateLink is one link found inside a listing fragment.
// A single fragment often exposes several ("read more", title link, image link).
type CandidateLink struct {
	URL        string `json:"url"`
	AnchorText string `json:"anchor_text"`
}

// Candidate is a provisional event record extracted from one source fragment.
// It is transient: either promoted into an Event by the deduplicator or dropped.
type Candidate struct {
	Title        string          `json:"title"`
	DateText     string          `json:"date_text"`
	TimeText     string          `json:"time_text"`
	LocationText string          `json:"location_text"`
	Description  string          `json:"description"`
	Links        []CandidateLink `json:"links,omitempty"`

	// URL is set by the URL selector; empty until then.
	URL string `json:"url"`

	SourceID   string    `json:"source_id"`
	SourceTier TrustTier `json:"source_tier"`

	Virtual      Tristate `json:"-"`
	Registration Tristate `json:"-"`

	// Date and TimeOfDay are set by the date validator.
	Date        time.Time `json:"date"`
	TimeOfDay   string    `json:"time_of_day,omitempty"`
	TimeApprox  bool      `json:"time_approx,omitempty"`
}

// CostType classifies event pricing
type CostType string

const (
	CostFree    CostType = "free"
	CostPaid    CostType = "paid"
	CostUnknown CostType = "unknown"
)

// Event is a validated, deduplicated, categorized event eligible for output
type Event struct {
	Title           string    `json:"title"`
	NormalizedTitle string    `json:"normalized_title"`
	Date            time.Time `json:"date"`

	// TimeOfDay is best-effort. When TimeApprox is true it is the 9:00 AM
	// placeholder, not an extracted time, and must not be treated as
	// authoritative by any time-grid layout downstream.
	TimeOfDay  string `json:"time_of_day,omitempty"`
	TimeApprox bool   `json:"time_approx,omitempty"`

	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`

	SourceID   string    `json:"source_id"`
	SourceTier TrustTier `json:"source_tier"`

	Virtual      bool `json:"is_virtual"`
	Registration bool `json:"requires_registration"`

	Categories  []string `json:"categories"`
	Institution string   `json:"institution"`
	Cost        CostType `json:"cost_type"`

	Score int `json:"score"`
}
