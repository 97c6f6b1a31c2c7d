package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slomojustin/newsdigest/internal/display"
)

var quickstartCmd = &cobra.Command{
	Use:   "quickstart",
	Short: "Quick start guide for nd",
	Long:  "Display a quick start guide showing the digest workflow.",
	Run: func(cmd *cobra.Command, args []string) {
		b := display.Bold.Render
		a := display.Success.Render
		d := display.Dim.Render

		fmt.Printf("\n%s\n\n", b("nd — Gmail Newsletter Digest"))
		fmt.Println("Fetch labeled newsletters, summarize them, email yourself a daily digest.")
		fmt.Println()

		fmt.Println(b("SETUP"))
		fmt.Println("  1. Create an OAuth client in Google Cloud Console and download")
		fmt.Println("     credentials.json into this directory.")
		fmt.Printf("  2. %s          Authorize Gmail access (one-time browser step)\n", a("nd auth"))
		fmt.Printf("  3. Apply a Gmail label (default %q) to your newsletters.\n\n", "Newsletters")

		fmt.Println(b("DAILY USE"))
		fmt.Printf("  %s            Summarize today's newsletters and email the digest\n", a("nd run"))
		fmt.Printf("  %s   Cover the last three days\n", a("nd run --days 3"))
		fmt.Printf("  %s  Save the digest file without emailing it\n\n", a("nd run --no-send"))

		fmt.Println(b("INSPECTING"))
		fmt.Printf("  %s          Preview which messages a run would pick up\n", a("nd fetch"))
		fmt.Printf("  %s        List archived digest runs\n", a("nd history"))
		fmt.Printf("  %s  Show one archived digest's sections\n\n", a("nd show 2026-08-24"))

		fmt.Println(b("CONFIGURATION"))
		fmt.Println("  Environment variables (or a .env file):")
		fmt.Printf("    %s       Hugging Face API key %s\n", a("HF_API_KEY"), d("(optional, raises rate limits)"))
		fmt.Printf("    %s  Digest recipient %s\n", a("RECIPIENT_EMAIL"), d("(default: your own address)"))
		fmt.Printf("    %s         Gmail label to digest %s\n", a("ND_LABEL"), d("(default: Newsletters)"))
		fmt.Printf("    %s         Summarization model %s\n\n", a("ND_MODEL"), d("(default: sshleifer/distilbart-cnn-12-6)"))

		fmt.Println(b("JSON OUTPUT"))
		fmt.Printf("  All commands support %s for machine-readable output.\n\n", a("--json"))
	},
}

func init() {
	rootCmd.AddCommand(quickstartCmd)
}
