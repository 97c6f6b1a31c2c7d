package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/slomojustin/newsdigest/internal/auth"
	"github.com/slomojustin/newsdigest/internal/display"
	"github.com/slomojustin/newsdigest/internal/gmail"
	"github.com/slomojustin/newsdigest/internal/pipeline"
	"github.com/slomojustin/newsdigest/internal/summarize"
	"github.com/slomojustin/newsdigest/internal/types"
)

var (
	runDays   int
	runLabel  string
	runOut    string
	runTo     string
	runNoSend bool
	runMax    int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, summarize, and email today's digest",
	Long: `Run the full digest pipeline once: fetch labeled messages for the day,
summarize each with the Hugging Face API, save the markdown digest to a
dated file, and email it to the configured recipient.

Summarizer failures for single messages are embedded as error text in the
digest; fetch and send failures abort the run.`,
	Example: `  nd run
  nd run --days 3
  nd run --label Newsletters --no-send
  nd run --to someone@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		label := runLabel
		if label == "" {
			label = cfg.Label
		}
		outDir := runOut
		if outDir == "" {
			outDir = cfg.OutputDir
		}
		recipient := runTo
		if recipient == "" {
			recipient = cfg.Recipient
		}

		if !quietFlag {
			display.Header("Newsletter Digest")
			display.Step("Authenticating with Gmail...")
		}
		svc, err := auth.LoadService(ctx, cfg)
		if err != nil {
			display.ErrorMsg("%v", err)
			return err
		}

		summarizer := summarize.New(cfg.Model, cfg.HFAPIKey)
		if cfg.HFAPIKey == "" && !quietFlag {
			display.WarnMsg("no HF_API_KEY set — using the public API (lower rate limits)")
		}

		day := time.Now()
		query := gmail.DateQuery(label, day, runDays)

		deps := pipeline.Deps{
			Fetch: func() ([]types.Message, error) {
				return gmail.FetchLabeled(svc, query, runMax)
			},
			Summarize: summarizer.SummarizeMessage,
			Send: func(to, subject, body string) (string, error) {
				return gmail.Send(svc, to, subject, body)
			},
			DefaultRecipient: func() (string, error) {
				return gmail.Profile(svc)
			},
		}

		result, err := pipeline.Run(deps, pipeline.Options{
			Day:       day,
			OutputDir: outDir,
			Recipient: recipient,
			NoSend:    runNoSend,
			Quiet:     quietFlag || jsonOutput,
			Archive:   store,
		})
		if err != nil {
			display.ErrorMsg("%v", err)
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if !quietFlag {
			display.SuccessMsg("Done! %d summarized, %d errored, %d fetched.",
				result.Summarized, result.Errored, result.Fetched)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runDays, "days", 1, "Day window to fetch (1 = today only)")
	runCmd.Flags().StringVar(&runLabel, "label", "", "Gmail label to digest (default: ND_LABEL or Newsletters)")
	runCmd.Flags().StringVar(&runOut, "out", "", "Output directory for the digest file")
	runCmd.Flags().StringVar(&runTo, "to", "", "Digest recipient (default: RECIPIENT_EMAIL or your own address)")
	runCmd.Flags().BoolVar(&runNoSend, "no-send", false, "Save the digest without emailing it")
	runCmd.Flags().Int64Var(&runMax, "max-results", 50, "Maximum messages to fetch")
	rootCmd.AddCommand(runCmd)
}
