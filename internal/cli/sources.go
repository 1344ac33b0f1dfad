package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skovatch/agora/internal/model"
)

var sourcesPath string

// sourcesCmd groups the source-list helpers
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Inspect the source list",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := model.LoadSources(sourcesPath)
		if err != nil {
			return err
		}
		for _, src := range sources {
			fmt.Printf("%-24s %-12s %-10s %s\n", src.ID, src.Kind, src.Tier, src.URL)
		}
		fmt.Printf("\n%d sources\n", len(sources))
		return nil
	},
}

var sourcesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the source list without running",
	Long: `Validate parses the source list and reports configuration errors:
missing ids or URLs, duplicate ids, unknown kinds or trust tiers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := model.LoadSources(sourcesPath)
		if err != nil {
			return err
		}
		curated := 0
		for _, src := range sources {
			if src.Tier == model.TierCurated {
				curated++
			}
		}
		fmt.Printf("OK: %d sources (%d curated, %d discovery)\n",
			len(sources), curated, len(sources)-curated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesValidateCmd)

	sourcesCmd.PersistentFlags().StringVar(&sourcesPath, "sources", "sources.yaml", "source list file")
}
