package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skovatch/agora/internal/model"
	"github.com/skovatch/agora/internal/pipeline"
)

// statusCmd reports on the most recent run without re-running anything
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the result of the last run",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := model.DefaultConfig()
		status, err := pipeline.ReadStatus(cfg.Output.StatusPath)
		if err != nil {
			return fmt.Errorf("no recorded run: %w", err)
		}

		fmt.Printf("Run:      %s\n", status.RunID)
		fmt.Printf("Finished: %s (%s ago)\n",
			status.FinishedAt.Format(time.RFC3339),
			time.Since(status.FinishedAt).Round(time.Second))
		if status.Succeeded {
			fmt.Printf("Result:   ok, %d events\n", status.Events)
		} else {
			fmt.Printf("Result:   failed: %s\n", status.Error)
		}

		if status.Stats != nil {
			st := status.Stats
			fmt.Printf("Funnel:   merged=%d duplicates=%d canonical=%d selected=%d\n",
				st.Merged, st.Duplicates, st.Canonical, st.Selected)
			if st.Truncated {
				fmt.Println("Note:     run was truncated by its deadline")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
