package renderer

import (
	"io"

	"github.com/chainsift/jumpaudit/analyzer"
)

// Renderer defines the interface for rendering analysis results in different formats.
type Renderer interface {
	// Render writes the stats record and its per-block event trail to the provided writer.
	Render(stats *analyzer.ContractStats, events []analyzer.Event, output io.Writer) error

	// Format returns the name of the output format (e.g., "json", "text").
	Format() string
}
