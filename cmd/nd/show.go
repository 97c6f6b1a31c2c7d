package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slomojustin/newsdigest/internal/display"
	"github.com/slomojustin/newsdigest/internal/types"
)

type showOutput struct {
	Run     types.Run     `json:"run"`
	Entries []types.Entry `json:"entries"`
}

var showCmd = &cobra.Command{
	Use:   "show DATE|RUN_ID",
	Short: "Display an archived digest's sections",
	Long:  "Look up an archived digest by date (YYYY-MM-DD) or run ID prefix and print its sections.",
	Example: `  nd show 2026-08-24
  nd show a1b2c3
  nd show 2026-08-24 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := store.FindRun(args[0])
		if err != nil {
			return fmt.Errorf("lookup run: %w", err)
		}
		if run == nil {
			return fmt.Errorf("no archived digest matching %q", args[0])
		}

		entries, err := store.Entries(run.ID)
		if err != nil {
			return fmt.Errorf("fetch entries: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(showOutput{Run: *run, Entries: entries})
		}

		fmt.Printf("Digest: %s (%s)\n", run.Date, run.ID[:8])
		fmt.Printf("Generated: %s\n", display.TimeAgo(run.Generated))
		if run.Recipient != "" {
			fmt.Printf("Recipient: %s\n", run.Recipient)
		}
		fmt.Printf("Sections: %d\n\n", run.Sections)

		for i, e := range entries {
			var connector string
			switch {
			case len(entries) == 1:
				connector = "──"
			case i == 0:
				connector = "┌─"
			case i == len(entries)-1:
				connector = "└─"
			default:
				connector = "├─"
			}
			summary := e.Summary
			if e.Errored == 1 {
				summary = display.ErrStyle.Render(summary)
			}
			display.Section(connector, e.Subject, e.From, summary)
			if i < len(entries)-1 {
				fmt.Println(display.Muted.Render("  │"))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
