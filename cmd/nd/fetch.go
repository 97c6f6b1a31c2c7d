package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/slomojustin/newsdigest/internal/auth"
	"github.com/slomojustin/newsdigest/internal/display"
	"github.com/slomojustin/newsdigest/internal/gmail"
)

var (
	fetchDays  int
	fetchLabel string
	fetchMax   int64
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "List the day's labeled messages without summarizing",
	Long:  "Preview which messages a digest run would pick up for the current day window.",
	Example: `  nd fetch
  nd fetch --days 3 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		label := fetchLabel
		if label == "" {
			label = cfg.Label
		}

		svc, err := auth.LoadService(ctx, cfg)
		if err != nil {
			display.ErrorMsg("%v", err)
			return err
		}

		query := gmail.DateQuery(label, time.Now(), fetchDays)
		messages, err := gmail.FetchLabeled(svc, query, fetchMax)
		if err != nil {
			display.ErrorMsg("%v", err)
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(messages)
		}

		if len(messages) == 0 {
			fmt.Printf("No messages found under label %q for the current window.\n", label)
			return nil
		}

		fmt.Printf("Found %d message(s) under label %q:\n\n", len(messages), label)
		for i, msg := range messages {
			fmt.Printf("[%d] %s\n", i+1, display.Bold.Render(msg.Subject))
			fmt.Printf("    From: %s\n", msg.From)
			fmt.Printf("    Date: %s\n", msg.Date)
			fmt.Printf("    Preview: %s\n\n", display.Truncate(msg.Snippet, 100))
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().IntVar(&fetchDays, "days", 1, "Day window to fetch (1 = today only)")
	fetchCmd.Flags().StringVar(&fetchLabel, "label", "", "Gmail label to list")
	fetchCmd.Flags().Int64Var(&fetchMax, "max-results", 50, "Maximum messages to fetch")
	rootCmd.AddCommand(fetchCmd)
}
