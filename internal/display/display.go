// Package display provides terminal formatting for newsdigest output.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Styles
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	Bold     = lipgloss.NewStyle().Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	Warn     = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))
	ErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
)

// SuccessMsg prints a green checkmark + message.
func SuccessMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(Success.Render("✓") + " " + msg)
}

// WarnMsg prints an amber marker + message.
func WarnMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(Warn.Render("!") + " " + msg)
}

// ErrorMsg prints a red X + message to stderr.
func ErrorMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, ErrStyle.Render("✗")+" "+msg)
}

// Header prints a section header.
func Header(title string) {
	fmt.Println(Bold.Render(title))
}

// Step prints a pipeline step label.
func Step(format string, args ...any) {
	fmt.Println(Muted.Render("→") + " " + fmt.Sprintf(format, args...))
}

// Truncate shortens a string to maxLen, adding ellipsis if needed.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// TimeAgo formats an ISO date string as a relative time.
func TimeAgo(isoDate string) string {
	if isoDate == "" {
		return ""
	}

	var t time.Time
	var err error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02 15:04:05", time.RFC3339Nano} {
		t, err = time.Parse(layout, isoDate)
		if err == nil {
			break
		}
	}
	if err != nil {
		return isoDate[:min(10, len(isoDate))]
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// Section prints one digest section in a tree-style format.
// connector is one of "┌─", "├─", "└─", "──"
func Section(connector, subject, from, summary string) {
	fmt.Printf("  %s %s\n", Muted.Render(connector), Bold.Render(subject))
	prefix := "  │  "
	if connector == "└─" || connector == "──" {
		prefix = "     "
	}
	fmt.Printf("%s%s\n", Muted.Render(prefix), Dim.Render(from))
	lines := strings.Split(strings.TrimSpace(summary), "\n")
	maxLines := 4
	for i, line := range lines {
		if i >= maxLines {
			fmt.Printf("%s%s\n", Muted.Render(prefix), Dim.Render(fmt.Sprintf("... (%d more lines)", len(lines)-maxLines)))
			break
		}
		fmt.Printf("%s%s\n", Muted.Render(prefix), Truncate(strings.TrimSpace(line), 80))
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
