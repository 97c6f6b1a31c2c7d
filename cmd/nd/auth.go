package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/slomojustin/newsdigest/internal/auth"
	"github.com/slomojustin/newsdigest/internal/display"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize Gmail access interactively",
	Long: `Run the one-time OAuth consent flow.

Opens a consent URL in your browser and captures the authorization code on
a local callback. The resulting token is saved to token.json and refreshed
automatically on later runs — 'nd run' never prompts for consent itself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.Authorize(context.Background(), cfg); err != nil {
			display.ErrorMsg("%v", err)
			return err
		}
		display.SuccessMsg("Authorized. Token saved to %s", cfg.TokenPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}
