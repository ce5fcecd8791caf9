// Package renderer provides a way to render analysis reports in different formats.
package renderer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/chainsift/jumpaudit/analyzer"
)

// TextRenderer formats the analysis report in a structured text format.
type TextRenderer struct {
	verbose bool
}

// NewTextRenderer creates a new instance of TextRenderer. With verbose set,
// the per-block event trail is included after the summary.
func NewTextRenderer(verbose bool) Renderer {
	return &TextRenderer{verbose: verbose}
}

// Render formats and writes the analysis report.
func (r *TextRenderer) Render(stats *analyzer.ContractStats, events []analyzer.Event, output io.Writer) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05 UTC")

	var report strings.Builder

	report.WriteString("==============================\n")
	report.WriteString("🔍 Jump Resolution Report\n")
	report.WriteString("==============================\n\n")
	report.WriteString(fmt.Sprintf("📜 Contract: %s\n", stats.Address))
	report.WriteString(fmt.Sprintf("📅 Timestamp: %s\n\n", timestamp))

	report.WriteString("------------------------------\n")
	report.WriteString("📊 Summary\n")
	report.WriteString("------------------------------\n")
	report.WriteString(fmt.Sprintf("Total Instructions: %d\n", stats.TotalInstructions))
	report.WriteString(fmt.Sprintf("Total Jumps:        %d\n", stats.TotalJumps))
	report.WriteString(fmt.Sprintf("Orphan Jumps:       %d\n", stats.OrphanJumps))
	report.WriteString(fmt.Sprintf("Precisely Solved:   %d\n", stats.PreciselySolved))
	report.WriteString(fmt.Sprintf("Soundly Solved:     %d\n", stats.SoundlySolved))
	report.WriteString(fmt.Sprintf("Solved Jumps:       %d\n", stats.SolvedJumps))
	report.WriteString(fmt.Sprintf("Unreachable Jumps:  %d\n", stats.UnreachableJumps))
	report.WriteString(fmt.Sprintf("Unsolved Jumps:     %d\n", stats.UnsolvedJumps))
	report.WriteString(fmt.Sprintf("Pending Jumps:      %d\n", stats.PendingJumps))
	if stats.SolvedRatio >= 0 {
		report.WriteString(fmt.Sprintf("Solved Ratio:       %.4f\n", stats.SolvedRatio))
	} else {
		report.WriteString("Solved Ratio:       n/a\n")
	}

	if stats.Flagged {
		report.WriteString(color.New(color.FgRed).Sprint("❗ Inconsistencies detected; review the event trail\n"))
	} else {
		report.WriteString(color.New(color.FgGreen).Sprint("✅ No inconsistencies detected\n"))
	}

	if r.verbose && len(events) > 0 {
		report.WriteString("\n------------------------------\n")
		report.WriteString("📌 Block Events\n")
		report.WriteString("------------------------------\n")
		for _, event := range events {
			report.WriteString(event.String())
			report.WriteString("\n")
		}
	}

	report.WriteString("🔚 End of Report\n")

	_, err := output.Write([]byte(report.String()))
	return err
}

// Format returns the format type.
func (r *TextRenderer) Format() string {
	return "text"
}
