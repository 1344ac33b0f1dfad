// Package keywords holds the weighted vocabularies consumed by the relevance
// filter, categorizer, and scorer. Tables are loaded once per run and never
// mutated afterwards; tuning happens by editing the YAML file, not code.
package keywords

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Label is one category vocabulary: weighted terms plus the exclusion and
// context patterns that disambiguate it.
type Label struct {
	Name string `yaml:"name"`

	// Terms maps a lowercase term to its positive weight.
	Terms map[string]float64 `yaml:"terms"`

	// Exclusions dampen the score when present (e.g. "computer virus"
	// should not score as biology). Hard exclusions dampen further.
	Exclusions     []string `yaml:"exclusions"`
	HardExclusions []string `yaml:"hard_exclusions"`

	// ContextPatterns boost the score when a term appears next to a
	// domain-indicating word ("machine learning research").
	ContextPatterns []string `yaml:"context_patterns"`

	Threshold float64 `yaml:"threshold"`

	compiled []*regexp.Regexp
}

// Context returns the compiled context patterns for the label
func (l *Label) Context() []*regexp.Regexp { return l.compiled }

// Tables is the full keyword configuration for one run
type Tables struct {
	Version string  `yaml:"version"`
	Labels  []Label `yaml:"labels"`

	// Topic gate vocabulary: a candidate must contain at least one.
	Topic []string `yaml:"topic"`

	// Locality gate vocabularies.
	Local   []string `yaml:"local"`
	Virtual []string `yaml:"virtual"`

	// Scoring vocabularies.
	Preferred  []string `yaml:"preferred"`  // hands-on event types the ranker rewards
	Commercial []string `yaml:"commercial"` // paid-conference markers the ranker punishes
	FreeTerms  []string `yaml:"free_terms"`
	PaidTerms  []string `yaml:"paid_terms"`

	// Registration-required markers.
	Registration []string `yaml:"registration"`

	// Stopwords dropped during title normalization, including generic
	// event nouns that carry no discriminating signal.
	Stopwords []string `yaml:"stopwords"`
}

// Exclusion and boost multipliers. Exclusion applies first, then boost, so a
// text matching both ends up dampened-then-amplified rather than either
// winning outright.
const (
	ExclusionRetention     = 0.2
	HardExclusionRetention = 0.1
	ContextBoost           = 1.5
)

// Load reads a keyword table file, falling back to built-in defaults for any
// section the file leaves empty. A file that fails to parse or contains an
// invalid context pattern is a configuration error and fails the run.
func Load(path string) (*Tables, error) {
	t := Defaults()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword tables: %w", err)
	}

	var loaded Tables
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse keyword tables: %w", err)
	}

	if len(loaded.Labels) > 0 {
		t.Labels = loaded.Labels
	}
	if len(loaded.Topic) > 0 {
		t.Topic = loaded.Topic
	}
	if len(loaded.Local) > 0 {
		t.Local = loaded.Local
	}
	if len(loaded.Virtual) > 0 {
		t.Virtual = loaded.Virtual
	}
	if len(loaded.Preferred) > 0 {
		t.Preferred = loaded.Preferred
	}
	if len(loaded.Commercial) > 0 {
		t.Commercial = loaded.Commercial
	}
	if len(loaded.FreeTerms) > 0 {
		t.FreeTerms = loaded.FreeTerms
	}
	if len(loaded.PaidTerms) > 0 {
		t.PaidTerms = loaded.PaidTerms
	}
	if len(loaded.Registration) > 0 {
		t.Registration = loaded.Registration
	}
	if len(loaded.Stopwords) > 0 {
		t.Stopwords = loaded.Stopwords
	}
	if loaded.Version != "" {
		t.Version = loaded.Version
	}

	if err := t.compile(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tables) compile() error {
	for i := range t.Labels {
		l := &t.Labels[i]
		l.compiled = l.compiled[:0]
		for _, p := range l.ContextPatterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return fmt.Errorf("label %q: context pattern %q: %w", l.Name, p, err)
			}
			l.compiled = append(l.compiled, re)
		}
	}
	return nil
}
