// Package dedup collapses candidates that describe the same real-world
// event into one canonical record.
package dedup

import (
	"net/url"
	"sort"
	"strings"

	"github.com/skovatch/agora/internal/model"
)

// similarityThreshold is the token-overlap ratio above which two normalized
// titles with the same date count as one event.
const similarityThreshold = 0.7

// Deduplicator merges duplicate candidates. Merging is idempotent: running
// it on its own output produces no further changes.
type Deduplicator struct {
	stopwords map[string]bool
}

// New creates a deduplicator with the given title stopword list
func New(stopwords []string) *Deduplicator {
	m := make(map[string]bool, len(stopwords))
	for _, w := range stopwords {
		m[strings.ToLower(w)] = true
	}
	return &Deduplicator{stopwords: m}
}

// NormalizeTitle produces an order-independent comparison key: lowercase,
// punctuation stripped, stopwords removed, remaining tokens sorted.
func (d *Deduplicator) NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if !d.stopwords[tok] {
			tokens = append(tokens, tok)
		}
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Merge collapses duplicates and promotes one representative per group to a
// canonical event, back-filling strictly-better fields from the discarded
// duplicates. The perGroup counter out-param style is avoided: the number of
// collapsed candidates is len(in) - len(out).
func (d *Deduplicator) Merge(in []model.Candidate) []model.Event {
	var events []model.Event
	var keys []string

	for _, c := range in {
		key := d.NormalizeTitle(c.Title)
		matched := -1

		for i := range events {
			if d.isDuplicate(&events[i], keys[i], &c, key) {
				matched = i
				break
			}
		}

		if matched < 0 {
			events = append(events, promote(c, key))
			keys = append(keys, key)
			continue
		}

		absorb(&events[matched], &c)
	}

	return events
}

func (d *Deduplicator) isDuplicate(ev *model.Event, evKey string, c *model.Candidate, cKey string) bool {
	sameDate := ev.Date.Equal(c.Date)

	if sameDate && evKey == cKey && evKey != "" {
		return true
	}
	if sameDate && tokenOverlap(evKey, cKey) > similarityThreshold {
		return true
	}
	return similarURLs(ev.URL, c.URL)
}

// tokenOverlap is |intersection| / max(|a|, |b|) over normalized tokens
func tokenOverlap(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}
	shared := 0
	for _, t := range tb {
		if set[t] {
			shared++
		}
	}
	max := len(ta)
	if len(tb) > max {
		max = len(tb)
	}
	return float64(shared) / float64(max)
}

// similarURLs reports whether two resolved URLs plausibly point at the same
// event: same domain with substantially overlapping path segments, or a
// shared embedded identifier token.
func similarURLs(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	ua, err1 := url.Parse(a)
	ub, err2 := url.Parse(b)
	if err1 != nil || err2 != nil || !strings.EqualFold(ua.Host, ub.Host) {
		return false
	}

	segsA := pathSegments(ua.Path)
	segsB := pathSegments(ub.Path)
	if len(segsA) == 0 || len(segsB) == 0 {
		return false
	}

	// A shared identifier-looking segment pins the match on its own.
	for _, s := range segsA {
		if looksLikeID(s) {
			for _, t := range segsB {
				if s == t {
					return true
				}
			}
		}
	}

	shared := 0
	setA := make(map[string]bool, len(segsA))
	for _, s := range segsA {
		setA[s] = true
	}
	for _, s := range segsB {
		if setA[s] {
			shared++
		}
	}
	max := len(segsA)
	if len(segsB) > max {
		max = len(segsB)
	}
	return len(segsA) >= 2 && len(segsB) >= 2 && float64(shared)/float64(max) > 0.6
}

func pathSegments(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, strings.ToLower(s))
		}
	}
	return segs
}

// looksLikeID: a long-ish segment containing digits, like an event slug id
func looksLikeID(s string) bool {
	if len(s) < 6 {
		return false
	}
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// promote freezes a candidate into a canonical event
func promote(c model.Candidate, key string) model.Event {
	return model.Event{
		Title:           strings.TrimSpace(c.Title),
		NormalizedTitle: key,
		Date:            c.Date,
		TimeOfDay:       c.TimeOfDay,
		TimeApprox:      c.TimeApprox,
		Location:        strings.TrimSpace(c.LocationText),
		Description:     strings.TrimSpace(c.Description),
		URL:             c.URL,
		SourceID:        c.SourceID,
		SourceTier:      c.SourceTier,
		Virtual:         c.Virtual.Bool(),
		Registration:    c.Registration.Bool(),
	}
}

// absorb merges strictly-better fields from a discarded duplicate into the
// kept representative.
func absorb(ev *model.Event, c *model.Candidate) {
	if len(c.Description) > len(ev.Description) {
		ev.Description = strings.TrimSpace(c.Description)
	}
	if len(c.LocationText) > len(ev.Location) {
		ev.Location = strings.TrimSpace(c.LocationText)
	}
	if ev.TimeApprox && c.TimeOfDay != "" && !c.TimeApprox {
		ev.TimeOfDay = c.TimeOfDay
		ev.TimeApprox = false
	}
	if c.Virtual == model.True {
		ev.Virtual = true
	}
	if c.Registration == model.True {
		ev.Registration = true
	}
	// A curated duplicate upgrades the event's trust tier.
	if c.SourceTier == model.TierCurated && ev.SourceTier != model.TierCurated {
		ev.SourceTier = model.TierCurated
		ev.SourceID = c.SourceID
	}
}
