package renderer

import (
	"encoding/json"
	"io"

	"github.com/chainsift/jumpaudit/analyzer"
)

// JSONRenderer renders the stats record in JSON format.
type JSONRenderer struct{}

func NewJSONRenderer() Renderer {
	return &JSONRenderer{}
}

type jsonReport struct {
	*analyzer.ContractStats
	Events []jsonEvent `json:"events"`
}

type jsonEvent struct {
	Offset  int    `json:"offset"`
	Kind    string `json:"kind"`
	Outcome string `json:"outcome,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r *JSONRenderer) Render(stats *analyzer.ContractStats, events []analyzer.Event, output io.Writer) error {
	report := jsonReport{ContractStats: stats, Events: make([]jsonEvent, 0, len(events))}
	for _, event := range events {
		je := jsonEvent{Offset: event.Offset, Kind: event.Kind}
		if event.Err != nil {
			je.Error = event.Err.Error()
		} else {
			je.Outcome = event.Outcome.String()
		}
		report.Events = append(report.Events, je)
	}
	return json.NewEncoder(output).Encode(report)
}

func (r *JSONRenderer) Format() string {
	return "json"
}
