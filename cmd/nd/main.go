package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slomojustin/newsdigest/internal/config"
	"github.com/slomojustin/newsdigest/internal/db"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	cfg        *config.Config
	store      *db.DB
	jsonOutput bool
	quietFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "nd",
	Short: "nd - Gmail newsletter digest",
	Long:  "Newsdigest: fetch labeled newsletters, summarize them, and email yourself a daily markdown digest.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()

		// Only commands that touch the archive open the database.
		switch cmd.Name() {
		case "run", "history", "show":
		default:
			return nil
		}

		var err error
		store, err = db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nd version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
