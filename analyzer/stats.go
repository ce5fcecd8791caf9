package analyzer

import (
	"github.com/chainsift/jumpaudit/cfg"
	"github.com/chainsift/jumpaudit/disasm"
)

// ContractStats is the per-contract statistics record combining the syntactic
// metrics with the classifier tally after reconciliation.
type ContractStats struct {
	Address           string  `json:"contract"`
	TotalInstructions int     `json:"totalInstructions"`
	TotalJumps        int     `json:"totalJumps"`
	OrphanJumps       int     `json:"orphanJumps"`
	PreciselySolved   int     `json:"preciselySolvedJumps"`
	SoundlySolved     int     `json:"soundlySolvedJumps"`
	UnreachableJumps  int     `json:"unreachableJumps"`
	UnsolvedJumps     int     `json:"unsolvedJumps"`
	SolvedJumps       int     `json:"solvedJumps"`
	PendingJumps      int     `json:"pendingJumps"`
	SolvedRatio       float64 `json:"solvedRatio"`
	Flagged           bool    `json:"flagged"`
}

// Analyze runs the syntactic metrics and the jump classifier independently
// over one contract and reconciles the two views into a single stats record.
// Per-block classification errors degrade to Unsolved and set the flag; this
// function itself never fails.
func Analyze(address string, instructions []disasm.Instruction, graph *cfg.Graph) (*ContractStats, []Event) {
	metrics := disasm.CountMetrics(instructions)
	tally, events, errored := New(graph).AnalyzeJumps()

	solved := tally.PreciselySolved + tally.SoundlySolved

	// A positive gap means the solver's CFG accounted for fewer jumps than
	// the raw bytecode contains, e.g. dead code the solver dropped entirely.
	// The gap is folded into the unreachable bucket and flagged. The
	// subtraction deliberately ignores the classifier's own unreachable and
	// unsolved tallies, which can double-count; downstream consumers depend
	// on these numbers as they are.
	missing := metrics.TotalJumps - solved
	if missing > 0 {
		tally.Unreachable += missing
		errored = true
	}

	stats := &ContractStats{
		Address:           address,
		TotalInstructions: metrics.TotalInstructions,
		TotalJumps:        metrics.TotalJumps,
		OrphanJumps:       metrics.OrphanJumps,
		PreciselySolved:   tally.PreciselySolved,
		SoundlySolved:     tally.SoundlySolved,
		UnreachableJumps:  tally.Unreachable,
		UnsolvedJumps:     tally.Unsolved,
		SolvedJumps:       solved,
		PendingJumps:      tally.Unsolved + tally.Unreachable,
		SolvedRatio:       solvedRatio(solved, metrics.TotalJumps, tally.Unreachable),
		Flagged:           errored,
	}
	return stats, events
}

// solvedRatio is solved / (total − unreachable), or -1 when the denominator
// is not positive or the ratio comes out negative.
func solvedRatio(solved, totalJumps, unreachable int) float64 {
	denominator := totalJumps - unreachable
	if denominator <= 0 {
		return -1
	}
	ratio := float64(solved) / float64(denominator)
	if ratio < 0 {
		return -1
	}
	return ratio
}
