package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slomojustin/newsdigest/internal/display"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived digest runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, err := store.Runs(historyLimit)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}

		if len(runs) == 0 {
			fmt.Println("No archived digests yet — run 'nd run' first.")
			return nil
		}

		display.Header("Digest History")
		fmt.Println()
		for _, r := range runs {
			sent := display.Dim.Render("not sent")
			if r.Sent == 1 {
				sent = display.Success.Render("sent")
			}
			errInfo := ""
			if r.Errored > 0 {
				errInfo = display.ErrStyle.Render(fmt.Sprintf("  %d errored", r.Errored))
			}
			fmt.Printf("  %s  %s  %2d sections  %s%s  %s\n",
				r.ID[:8], r.Date, r.Sections, sent, errInfo,
				display.Dim.Render(display.TimeAgo(r.Generated)))
		}
		fmt.Printf("\n  Total: %d runs\n", store.RunCount())
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to list")
	rootCmd.AddCommand(historyCmd)
}
