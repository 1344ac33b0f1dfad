package model

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete pipeline configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Crawl       CrawlConfig       `yaml:"crawl"`
	Cache       CacheConfig       `yaml:"cache"`
	Select      SelectConfig      `yaml:"select"`
	Sources     SourcesConfig     `yaml:"sources"`
	Keywords    KeywordsConfig    `yaml:"keywords"`
	LLM         LLMConfig         `yaml:"llm"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig controls outbound fetches
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy"`
}

// ConcurrencyConfig bounds parallel work. Source workers are sized for I/O
// wait, not CPU; the per-domain rate keeps fan-out polite to a single host.
type ConcurrencyConfig struct {
	SourceWorkers int     `yaml:"source_workers"`
	PerDomainRPS  float64 `yaml:"per_domain_rps"`
	Burst         int     `yaml:"burst"`
}

// CrawlConfig bounds the link-follow tree walk. Exceeding a bound truncates,
// it never errors.
type CrawlConfig struct {
	MaxDetailLinks    int  `yaml:"max_detail_links"`
	MaxNestedFollows  int  `yaml:"max_nested_follows"`
	MaxPaginationHops int  `yaml:"max_pagination_hops"`
	RespectRobots     bool `yaml:"respect_robots"`
}

// CacheConfig controls fetch payload caching between runs
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// SelectConfig controls final ranking and selection
type SelectConfig struct {
	MaxResults   int     `yaml:"max_results"`
	ScoreFloor   int     `yaml:"score_floor"`
	CuratedShare float64 `yaml:"curated_share"`
}

// SourcesConfig points at the hot-reloadable source and exclusion lists
type SourcesConfig struct {
	File       string `yaml:"file"`
	Exclusions string `yaml:"exclusions"`
}

// KeywordsConfig points at an optional keyword table override file
type KeywordsConfig struct {
	File string `yaml:"file"`
}

// LLMConfig controls optional description enrichment. Disabled unless a
// provider is set; enrichment never affects filtering or scoring.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"-"`
	BaseURL  string `yaml:"base_url"`
	Timeout  int    `yaml:"timeout"`
}

// OutputConfig controls what the run writes
type OutputConfig struct {
	Verbose    bool   `yaml:"verbose"`
	JSONPath   string `yaml:"json_path"`
	StatusPath string `yaml:"status_path"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "Agora/0.2 (+https://github.com/skovatch/agora)",
			MaxBodyBytes: 2_000_000,
		},
		Concurrency: ConcurrencyConfig{
			SourceWorkers: 8,
			PerDomainRPS:  2,
			Burst:         4,
		},
		Crawl: CrawlConfig{
			MaxDetailLinks:    50,
			MaxNestedFollows:  5,
			MaxPaginationHops: 3,
			RespectRobots:     true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   6 * time.Hour,
		},
		Select: SelectConfig{
			MaxResults:   30,
			ScoreFloor:   -20,
			CuratedShare: 0.4,
		},
		Sources: SourcesConfig{
			File:       "sources.yaml",
			Exclusions: "",
		},
		Output: OutputConfig{
			JSONPath:   "events.json",
			StatusPath: defaultStatusPath(),
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agora-cache"
	}
	return home + "/.agora/cache"
}

func defaultStatusPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agora-status.json"
	}
	return home + "/.agora/last_run.json"
}

// sourceFile is the on-disk shape of the source list
type sourceFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the source descriptor list. The file is re-read on every
// run so adding a URL never requires a rebuild. A malformed file is a
// configuration error and fails the run.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	var sf sourceFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse sources: %w", err)
	}

	seen := make(map[string]bool)
	for i, src := range sf.Sources {
		if src.ID == "" {
			return nil, fmt.Errorf("source %d: missing id", i)
		}
		if seen[src.ID] {
			return nil, fmt.Errorf("source %q: duplicate id", src.ID)
		}
		seen[src.ID] = true
		if src.URL == "" {
			return nil, fmt.Errorf("source %q: missing url", src.ID)
		}
		switch src.Kind {
		case SourceKindPage, SourceKindFeed, SourceKindStructured, SourceKindLinkFollow:
		default:
			return nil, fmt.Errorf("source %q: unknown kind %q", src.ID, src.Kind)
		}
		switch src.Tier {
		case TierCurated, TierDiscovery:
		case "":
			sf.Sources[i].Tier = TierDiscovery
		default:
			return nil, fmt.Errorf("source %q: unknown tier %q", src.ID, src.Tier)
		}
	}

	return sf.Sources, nil
}

// LoadExclusions reads the URL/domain exclusion list (one entry per line,
// '#' comments). A missing path yields an empty list.
func LoadExclusions(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exclusions: %w", err)
	}

	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}
