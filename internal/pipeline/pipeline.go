// Package pipeline wires fetching, extraction, validation, dedup,
// classification, and ranking into a single run. Sources are processed
// concurrently; candidates from every source meet at one merge point
// before deduplication so ordering stays deterministic.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skovatch/agora/internal/cache"
	"github.com/skovatch/agora/internal/classify"
	"github.com/skovatch/agora/internal/dedup"
	"github.com/skovatch/agora/internal/extract"
	"github.com/skovatch/agora/internal/keywords"
	"github.com/skovatch/agora/internal/llm"
	"github.com/skovatch/agora/internal/model"
	"github.com/skovatch/agora/internal/score"
	"github.com/skovatch/agora/internal/validate"
	"github.com/skovatch/agora/internal/worker"
)

// Pipeline orchestrates one aggregation run
type Pipeline struct {
	cfg    *model.Config
	tables *keywords.Tables

	fetcher     *Fetcher
	extractor   *extract.Extractor
	dates       *validate.DateValidator
	relevance   *validate.RelevanceFilter
	dedup       *dedup.Deduplicator
	categorizer *classify.Categorizer
	attributor  *classify.Attributor
	scorer      *score.Scorer
	enricher    llm.Provider
}

// NewPipeline builds a pipeline from configuration. Keyword table and
// source list problems are configuration errors and fail construction.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	tables, err := keywords.Load(cfg.Keywords.File)
	if err != nil {
		return nil, fmt.Errorf("load keyword tables: %w", err)
	}

	var payloadCache cache.Cache
	if cfg.Cache.Enabled {
		payloadCache = cache.NewLayeredCache(
			cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute),
			cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.DiskTTL),
		)
	}

	fetcher := NewFetcher(cfg, payloadCache)

	var enricher llm.Provider
	if cfg.LLM.Provider != "" {
		enricher, err = llm.NewProvider(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: llm provider disabled: %v\n", err)
			enricher = nil
		}
	}

	return &Pipeline{
		cfg:         cfg,
		tables:      tables,
		fetcher:     fetcher,
		extractor:   extract.New(tables, cfg.Crawl, fetcher),
		dates:       validate.NewDateValidator(time.Now()),
		relevance:   validate.NewRelevanceFilter(tables),
		dedup:       dedup.New(tables.Stopwords),
		categorizer: classify.NewCategorizer(tables),
		attributor:  classify.NewAttributor(),
		scorer:      score.NewScorer(tables),
		enricher:    enricher,
	}, nil
}

// RunResult is the output of one aggregation run
type RunResult struct {
	Events []model.Event   `json:"events"`
	Stats  *model.RunStats `json:"stats"`
}

// Run executes the full pipeline over the configured sources. A canceled
// context truncates the run: results collected so far are still merged,
// deduplicated, and ranked.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	sources, err := model.LoadSources(p.cfg.Sources.File)
	if err != nil {
		return nil, err
	}
	exclusions, err := model.LoadExclusions(p.cfg.Sources.Exclusions)
	if err != nil {
		return nil, err
	}

	stats := model.NewRunStats(uuid.NewString())

	pool := worker.NewPool(ctx, p.cfg.Concurrency.SourceWorkers)
	pool.Start()
	for _, src := range sources {
		pool.Submit(&sourceJob{pipeline: p, source: src, exclusions: exclusions})
	}
	results := pool.Wait()

	if len(results) < len(sources) || ctx.Err() != nil {
		stats.Truncated = true
	}

	// single merge point: pool results arrive in completion order, so sort
	// by source ID before merging to keep the dedup representative stable
	// across runs
	sourceResults := make([]*sourceResult, 0, len(results))
	for _, r := range results {
		sourceResults = append(sourceResults, r.(*sourceResult))
	}
	sort.Slice(sourceResults, func(i, j int) bool {
		return sourceResults[i].stats.SourceID < sourceResults[j].stats.SourceID
	})

	var merged []model.Candidate
	for _, sr := range sourceResults {
		stats.Absorb(sr.stats)
		if sr.err != nil {
			fmt.Fprintf(os.Stderr, "Warning: source %s: %v\n", sr.stats.SourceID, sr.err)
			continue
		}
		merged = append(merged, sr.candidates...)
	}
	stats.Merged = len(merged)

	events := p.dedup.Merge(merged)
	stats.Canonical = len(events)
	stats.Duplicates = stats.Merged - stats.Canonical

	for i := range events {
		ev := &events[i]
		ev.Categories = p.categorizer.Categorize(ev.Title, ev.Description)
		ev.Institution = p.attributor.Institution(ev.URL)
		ev.Cost = p.categorizer.Cost(ev.Title, ev.Description)
	}

	selected := p.scorer.Select(events, p.cfg.Select, stats)

	if p.enricher != nil {
		p.enrich(ctx, selected)
	}

	stats.FinishedAt = time.Now().UTC()
	return &RunResult{Events: selected, Stats: stats}, nil
}

// enrich rewrites descriptions of selected events. Failures are warned
// and skipped; enrichment never changes membership or order.
func (p *Pipeline) enrich(ctx context.Context, events []model.Event) {
	for i := range events {
		resp, err := p.enricher.Enrich(ctx, llm.EnrichRequest{Event: events[i]})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: enrich %q: %v\n", events[i].Title, err)
			continue
		}
		if resp.Description != "" {
			events[i].Description = resp.Description
		}
	}
}

// sourceJob processes one source end to end on a pool worker
type sourceJob struct {
	pipeline   *Pipeline
	source     model.Source
	exclusions []string
}

// sourceResult carries a source's surviving candidates plus its counters
type sourceResult struct {
	candidates []model.Candidate
	stats      *model.SourceStats
	err        error
}

func (r *sourceResult) GetError() error { return r.err }

func (j *sourceJob) Execute(ctx context.Context) worker.Result {
	p := j.pipeline
	st := &model.SourceStats{SourceID: j.source.ID}

	st.Fetches++
	body, err := p.fetcher.Fetch(ctx, j.source.URL)
	if err != nil {
		st.FetchErrors++
		return &sourceResult{stats: st, err: err}
	}

	candidates, err := p.extractor.Extract(ctx, j.source, body, st)
	if err != nil {
		st.ParseErrors++
		return &sourceResult{stats: st, err: err}
	}

	var survivors []model.Candidate
	for i := range candidates {
		c := &candidates[i]

		url, ok := extract.SelectURL(c, j.source.URL)
		if !ok || excluded(url, j.exclusions) {
			st.RejectedURL++
			continue
		}
		c.URL = url

		if !validate.Authentic(c) {
			st.RejectedAuthenticity++
			continue
		}
		if err := p.dates.Resolve(c); err != nil {
			st.RejectedDate++
			continue
		}
		if !p.relevance.Relevant(c) {
			st.RejectedRelevance++
			continue
		}
		survivors = append(survivors, *c)
	}
	st.Survived = len(survivors)

	return &sourceResult{candidates: survivors, stats: st}
}

// excluded reports whether an event URL matches the exclusion list.
// Entries match as substrings, so both full URLs and bare domains work.
func excluded(url string, exclusions []string) bool {
	lower := strings.ToLower(url)
	for _, e := range exclusions {
		if strings.Contains(lower, strings.ToLower(e)) {
			return true
		}
	}
	return false
}
