package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/skovatch/agora/internal/model"
)

// WriteJSON writes the run result to path as indented JSON
func WriteJSON(result *RunResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// WriteStatus persists the last-run record so `agora status` works without
// re-running the pipeline
func WriteStatus(status model.RunStatus, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create status dir: %w", err)
	}
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}

// ReadStatus loads the persisted last-run record
func ReadStatus(path string) (*model.RunStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read status: %w", err)
	}
	var status model.RunStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("parse status: %w", err)
	}
	return &status, nil
}

// PrintSummary writes a human-readable run summary. With verbose set it
// adds the per-source funnel counters.
func PrintSummary(w io.Writer, result *RunResult, verbose bool) {
	stats := result.Stats

	fmt.Fprintf(w, "Run %s finished in %s\n", stats.RunID,
		stats.FinishedAt.Sub(stats.StartedAt).Round(time.Millisecond))
	if stats.Truncated {
		fmt.Fprintln(w, "Run truncated: deadline hit before all sources finished")
	}
	fmt.Fprintf(w, "Candidates merged: %d, duplicates collapsed: %d, events: %d, selected: %d\n",
		stats.Merged, stats.Duplicates, stats.Canonical, stats.Selected)

	for _, ev := range result.Events {
		timeLabel := ev.TimeOfDay
		if ev.TimeApprox {
			timeLabel += " (approx)"
		}
		fmt.Fprintf(w, "  [%4d] %s  %s %s  %s\n",
			ev.Score, ev.Date.Format("2006-01-02"), timeLabel, ev.Institution, ev.Title)
	}

	if !verbose {
		return
	}

	ids := make([]string, 0, len(stats.Sources))
	for id := range stats.Sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintln(w, "\nSource funnel:")
	for _, id := range ids {
		st := stats.Sources[id]
		fmt.Fprintf(w, "  %-24s fetched=%d errors=%d/%d extracted=%d rejected(url=%d auth=%d date=%d topic=%d) survived=%d\n",
			id, st.Fetches, st.FetchErrors, st.ParseErrors, st.Extracted,
			st.RejectedURL, st.RejectedAuthenticity, st.RejectedDate, st.RejectedRelevance,
			st.Survived)
	}
}
