package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skovatch/agora/internal/model"
	"github.com/skovatch/agora/internal/pipeline"
)

var (
	sourcesFile    string
	exclusionsFile string
	keywordsFile   string
	outJSON        string
	runTimeout     time.Duration
	userAgent      string
	maxBytes       int64
	maxResults     int
	sourceWorkers  int
	noCache        bool
	noRobots       bool
	insecureTLS    bool
	llmProvider    string
	llmModel       string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Aggregate events from all configured sources",
	Long: `Run fetches every configured source, extracts event candidates,
validates and deduplicates them, and writes the ranked result as JSON.

Example:
  agora run --sources sources.yaml --json events.json
  agora run --timeout 2m --max-results 20 -v
  agora run --llm-provider openai`,
	Args: cobra.NoArgs,
	RunE: runAggregate,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&sourcesFile, "sources", "sources.yaml", "source list file")
	runCmd.Flags().StringVar(&exclusionsFile, "exclusions", "", "URL/domain exclusion list file")
	runCmd.Flags().StringVar(&keywordsFile, "keywords", "", "keyword table override file")
	runCmd.Flags().StringVar(&outJSON, "json", "events.json", "output JSON path")

	runCmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Minute, "overall run deadline")
	runCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	runCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read per fetch")
	runCmd.Flags().IntVar(&maxResults, "max-results", 30, "maximum events in the output")
	runCmd.Flags().IntVar(&sourceWorkers, "workers", 8, "concurrent source workers")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetch cache (force fresh fetches)")
	runCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	runCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")

	runCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "enable description enrichment (openai)")
	runCmd.Flags().StringVar(&llmModel, "llm-model", "", "enrichment model name")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	cfg := buildConfig(cmd)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Sources: %s\n", cfg.Sources.File)
		fmt.Fprintf(os.Stderr, "Deadline: %v\n", runTimeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n\n", cfg.Cache.Enabled)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx)

	status := model.RunStatus{Succeeded: err == nil}
	if result != nil {
		status.RunID = result.Stats.RunID
		status.StartedAt = result.Stats.StartedAt
		status.FinishedAt = result.Stats.FinishedAt
		status.Events = len(result.Events)
		status.Stats = result.Stats
	}
	if err != nil {
		status.Error = err.Error()
	}
	if werr := pipeline.WriteStatus(status, cfg.Output.StatusPath); werr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", werr)
	}

	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if err := pipeline.WriteJSON(result, cfg.Output.JSONPath); err != nil {
		return err
	}

	pipeline.PrintSummary(os.Stdout, result, verbose)
	fmt.Printf("\nWrote %d events to %s\n", len(result.Events), cfg.Output.JSONPath)
	return nil
}

// buildConfig layers flags over the config file over the defaults
func buildConfig(cmd *cobra.Command) *model.Config {
	cfg := model.DefaultConfig()

	// config-file values first
	if v := viper.GetString("http.user_agent"); v != "" {
		cfg.HTTP.UserAgent = v
	}
	if v := viper.GetFloat64("concurrency.per_domain_rps"); v > 0 {
		cfg.Concurrency.PerDomainRPS = v
	}
	if v := viper.GetInt("select.score_floor"); viper.IsSet("select.score_floor") {
		cfg.Select.ScoreFloor = v
	}
	if v := viper.GetFloat64("select.curated_share"); v > 0 {
		cfg.Select.CuratedShare = v
	}
	if v := viper.GetString("sources.file"); v != "" {
		cfg.Sources.File = v
	}
	if v := viper.GetString("sources.exclusions"); v != "" {
		cfg.Sources.Exclusions = v
	}

	// flags win, but only when actually set
	if cmd.Flags().Changed("sources") || cfg.Sources.File == "" {
		cfg.Sources.File = sourcesFile
	}
	if exclusionsFile != "" {
		cfg.Sources.Exclusions = exclusionsFile
	}
	cfg.Keywords.File = keywordsFile
	cfg.Output.JSONPath = outJSON
	cfg.Output.Verbose = verbose
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.Select.MaxResults = maxResults
	cfg.Concurrency.SourceWorkers = sourceWorkers
	cfg.Cache.Enabled = !noCache
	cfg.Crawl.RespectRobots = !noRobots

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg
}
