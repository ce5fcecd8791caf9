// Package analyzer classifies the indirect jumps of one contract against the
// control-flow graph produced by the external solver, and reconciles the
// result with the contract's syntactic jump count.
package analyzer

import (
	"fmt"

	"github.com/chainsift/jumpaudit/cfg"
	"github.com/chainsift/jumpaudit/disasm"
)

// JumpOutcome is the resolution class assigned to one jump-terminated block.
type JumpOutcome int

const (
	// PreciselySolved: the solver proved a unique target set of the exact
	// shape expected for the jump kind.
	PreciselySolved JumpOutcome = iota
	// SoundlySolved: at least one plausible valid target was found among
	// possibly spurious others.
	SoundlySolved
	// Unreachable: the block itself cannot be reached from the entry block,
	// so its jump is vacuously safe.
	Unreachable
	// Unsolved: none of the above, or classification failed for the block.
	Unsolved
)

func (o JumpOutcome) String() string {
	switch o {
	case PreciselySolved:
		return "precisely solved"
	case SoundlySolved:
		return "soundly solved"
	case Unreachable:
		return "unreachable"
	default:
		return "unsolved"
	}
}

// Event records the examination of one jump-terminated (or malformed) block:
// its offset, the jump kind, and the classification or error it produced.
type Event struct {
	Offset  int         `json:"offset"`
	Kind    string      `json:"kind"`
	Outcome JumpOutcome `json:"-"`
	Err     error       `json:"-"`
}

func (e Event) String() string {
	if e.Err != nil {
		return fmt.Sprintf("BLOCK %d - %s - error: %v", e.Offset, e.Kind, e.Err)
	}
	return fmt.Sprintf("BLOCK %d - %s is %s", e.Offset, e.Kind, e.Outcome)
}

// JumpTally counts classified jumps per outcome.
type JumpTally struct {
	PreciselySolved int
	SoundlySolved   int
	Unreachable     int
	Unsolved        int
}

func (t *JumpTally) add(outcome JumpOutcome) {
	switch outcome {
	case PreciselySolved:
		t.PreciselySolved++
	case SoundlySolved:
		t.SoundlySolved++
	case Unreachable:
		t.Unreachable++
	case Unsolved:
		t.Unsolved++
	}
}

// Total is the number of jumps the classifier itself accounted for.
func (t JumpTally) Total() int {
	return t.PreciselySolved + t.SoundlySolved + t.Unreachable + t.Unsolved
}

// Analyzer classifies the jump-terminated blocks of one graph.
type Analyzer struct {
	graph *cfg.Graph
}

// New returns an Analyzer over the given graph.
func New(graph *cfg.Graph) *Analyzer {
	return &Analyzer{graph: graph}
}

// AnalyzeJumps walks every block in ascending offset order, classifies each
// block whose terminal instruction is JUMP or JUMPI, and returns the tally,
// the per-block event trail, and whether any per-block error was recorded.
// A classification error degrades that one jump to Unsolved; the walk never
// aborts.
func (a *Analyzer) AnalyzeJumps() (JumpTally, []Event, bool) {
	var (
		tally   JumpTally
		events  []Event
		errored bool
	)

	malformed, parseErrs := a.graph.MalformedBlocks()
	for _, offset := range malformed {
		errored = true
		events = append(events, Event{Offset: offset, Kind: "UNKNOWN", Err: parseErrs[offset]})
	}

	for _, block := range a.graph.Blocks() {
		kind := block.TerminalClass()
		if kind != disasm.ClassJump && kind != disasm.ClassJumpI {
			continue
		}

		outcome, err := a.classify(kind, block.Offset)
		if err != nil {
			errored = true
			tally.add(Unsolved)
			events = append(events, Event{Offset: block.Offset, Kind: kind.String(), Err: err})
			continue
		}
		tally.add(outcome)
		events = append(events, Event{Offset: block.Offset, Kind: kind.String(), Outcome: outcome})
	}
	return tally, events, errored
}

// classify applies the outcome branches in fixed priority order: precisely
// solved, soundly solved, unreachable, unsolved. Reachability is consulted
// only after both solved checks fail, so a block shaped like a solved jump
// reports as solved even when it is unreachable in the real graph.
func (a *Analyzer) classify(kind disasm.OpClass, offset int) (JumpOutcome, error) {
	dests := a.graph.Destinations(offset)

	precise, err := a.preciselySolved(kind, dests)
	if err != nil {
		return Unsolved, err
	}
	if precise {
		return PreciselySolved, nil
	}

	sound, err := a.soundlySolved(kind, dests)
	if err != nil {
		return Unsolved, err
	}
	if sound {
		return SoundlySolved, nil
	}

	if !a.graph.Reachable(offset) {
		return Unreachable, nil
	}
	return Unsolved, nil
}

// preciselySolved checks the strict shape: a JUMP with exactly one
// destination whose block starts with JUMPDEST, or a JUMPI with exactly two
// destinations of which exactly one starts with JUMPDEST.
func (a *Analyzer) preciselySolved(kind disasm.OpClass, dests []int) (bool, error) {
	switch kind {
	case disasm.ClassJump:
		if len(dests) != 1 {
			return false, nil
		}
		entry, err := a.entryClass(dests[0])
		if err != nil {
			return false, err
		}
		return entry == disasm.ClassJumpDest, nil

	case disasm.ClassJumpI:
		if len(dests) != 2 {
			return false, nil
		}
		first, err := a.entryClass(dests[0])
		if err != nil {
			return false, err
		}
		second, err := a.entryClass(dests[1])
		if err != nil {
			return false, err
		}
		return (first == disasm.ClassJumpDest) != (second == disasm.ClassJumpDest), nil

	default:
		return false, fmt.Errorf("cannot precisely solve a non-jump opcode %s", kind)
	}
}

// soundlySolved checks the weak shape: a JUMP with at least one JUMPDEST
// destination, or a JUMPI with at least two destinations among which at least
// one starts with JUMPDEST and at least one does not.
func (a *Analyzer) soundlySolved(kind disasm.OpClass, dests []int) (bool, error) {
	switch kind {
	case disasm.ClassJump:
		if len(dests) < 1 {
			return false, nil
		}
		for _, dest := range dests {
			entry, err := a.entryClass(dest)
			if err != nil {
				return false, err
			}
			if entry == disasm.ClassJumpDest {
				return true, nil
			}
		}
		return false, nil

	case disasm.ClassJumpI:
		if len(dests) < 2 {
			return false, nil
		}
		jumpdestFound := false
		otherFound := false
		for _, dest := range dests {
			entry, err := a.entryClass(dest)
			if err != nil {
				return false, err
			}
			if entry == disasm.ClassJumpDest {
				jumpdestFound = true
			} else {
				otherFound = true
			}
			if jumpdestFound && otherFound {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("cannot soundly solve a non-jump opcode %s", kind)
	}
}

// entryClass classifies the first instruction of the block at offset.
func (a *Analyzer) entryClass(offset int) (disasm.OpClass, error) {
	block, ok := a.graph.Block(offset)
	if !ok {
		return disasm.ClassOther, fmt.Errorf("destination %d: %w", offset, cfg.ErrDanglingEdge)
	}
	return block.EntryClass(), nil
}
