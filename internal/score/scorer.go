// Package score ranks canonical events and selects the final output set.
package score

import (
	"sort"
	"strings"

	"github.com/skovatch/agora/internal/keywords"
	"github.com/skovatch/agora/internal/model"
)

// Score contributions. Empirically tuned starting points; free hands-on
// local events rise to the top, paid multi-day conferences sink.
const (
	bonusFree      = 100
	bonusPreferred = 50
	bonusCurated   = 40
	bonusLocal     = 30
	bonusVirtual   = 20

	penaltyCommercial  = -50
	penaltyPaidGeneric = -30
)

// Scorer computes composite desirability scores
type Scorer struct {
	tables *keywords.Tables
}

// NewScorer creates a scorer over the given keyword tables
func NewScorer(tables *keywords.Tables) *Scorer {
	return &Scorer{tables: tables}
}

// Calculate computes the composite score for one event. It only reads
// identity fields and annotates Score; it never re-derives identity.
func (s *Scorer) Calculate(ev *model.Event) int {
	text := strings.ToLower(ev.Title + " " + ev.Description)
	location := strings.ToLower(ev.Location)
	score := 0

	isFree := ev.Cost == model.CostFree
	if isFree {
		score += bonusFree
	}

	preferred := keywords.ContainsAnyTerm(text, s.tables.Preferred)
	if preferred {
		score += bonusPreferred
	}

	if ev.SourceTier == model.TierCurated {
		score += bonusCurated
	}

	if keywords.ContainsAnyTerm(location, s.tables.Local) || keywords.ContainsAnyTerm(text, s.tables.Local) {
		score += bonusLocal
	}

	if ev.Virtual {
		score += bonusVirtual
	}

	if keywords.ContainsAnyTerm(text, s.tables.Commercial) && !isFree {
		score += penaltyCommercial
	}

	if ev.Cost == model.CostPaid && !preferred {
		score += penaltyPaidGeneric
	}

	return score
}

// Select scores, ranks, and picks the final output set. A fixed share of
// slots is reserved for curated sources before the remainder fills from the
// full ranked pool, and the score floor is relaxed just enough to fill the
// requested size; starvation is worse than a low-quality result.
func (s *Scorer) Select(events []model.Event, cfg model.SelectConfig, stats *model.RunStats) []model.Event {
	for i := range events {
		events[i].Score = s.Calculate(&events[i])
	}

	ranked := make([]*model.Event, len(events))
	for i := range events {
		ranked[i] = &events[i]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if !ranked[i].Date.Equal(ranked[j].Date) {
			return ranked[i].Date.Before(ranked[j].Date)
		}
		return ranked[i].Title < ranked[j].Title
	})

	max := cfg.MaxResults
	if max <= 0 || max > len(ranked) {
		max = len(ranked)
	}

	if stats != nil {
		for _, ev := range ranked {
			if ev.Score < cfg.ScoreFloor {
				stats.BelowFloor++
			}
		}
	}

	picked := make(map[*model.Event]bool, max)
	var out []model.Event

	// Pass 1: reserved curated slots, floor applied.
	reserved := int(float64(max) * cfg.CuratedShare)
	taken := 0
	for _, ev := range ranked {
		if taken >= reserved {
			break
		}
		if ev.SourceTier != model.TierCurated || ev.Score < cfg.ScoreFloor {
			continue
		}
		picked[ev] = true
		out = append(out, *ev)
		taken++
	}

	// Pass 2: remaining slots from the full ranked pool, floor applied.
	for _, ev := range ranked {
		if len(out) >= max {
			break
		}
		if picked[ev] || ev.Score < cfg.ScoreFloor {
			continue
		}
		picked[ev] = true
		out = append(out, *ev)
	}

	// Pass 3: relax the floor only as far as needed to fill the quota.
	for _, ev := range ranked {
		if len(out) >= max {
			break
		}
		if picked[ev] {
			continue
		}
		picked[ev] = true
		out = append(out, *ev)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Title < out[j].Title
	})

	if stats != nil {
		stats.Selected = len(out)
	}
	return out
}
