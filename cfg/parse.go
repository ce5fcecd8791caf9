package cfg

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// listingLineRegex matches one line of a block's instruction listing as the
// external solver emits it: "<offset>: <MNEMONIC> [operand]".
var listingLineRegex = regexp.MustCompile(`^(\d+)\s*:\s*(\S+)\s*(.*)$`)

// Wire format of the solver's JSON document. Only the runtime CFG section is
// consumed; constructor CFG and metadata are ignored.
type solverDocument struct {
	RuntimeCFG *solverCFG `json:"runtimeCfg"`
}

type solverCFG struct {
	Nodes      []solverNode `json:"nodes"`
	Successors []solverEdge `json:"successors"`
}

type solverNode struct {
	Offset        int    `json:"offset"`
	ParsedOpcodes string `json:"parsedOpcodes"`
}

type solverEdge struct {
	From int   `json:"from"`
	To   []int `json:"to"`
}

// ParseJSON decodes a solver CFG document into a Graph rooted at entry.
// Blocks with empty or unparsable listings are recorded on the graph rather
// than aborting the parse, so one bad block degrades only itself.
func ParseJSON(r io.Reader, entry int) (*Graph, error) {
	var doc solverDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding solver CFG document: %w", err)
	}
	if doc.RuntimeCFG == nil {
		return nil, fmt.Errorf("solver CFG document has no runtimeCfg section")
	}

	graph := NewGraph(entry)
	for _, node := range doc.RuntimeCFG.Nodes {
		instructions, err := parseListing(node.ParsedOpcodes)
		if err != nil {
			graph.markMalformed(node.Offset, fmt.Errorf("block %d: %w", node.Offset, err))
			continue
		}
		graph.AddBlock(&Block{Offset: node.Offset, Instructions: instructions})
	}
	for _, edge := range doc.RuntimeCFG.Successors {
		graph.AddEdges(edge.From, edge.To...)
	}
	return graph, nil
}

// parseListing splits a newline-separated instruction listing into its lines.
func parseListing(listing string) ([]BlockInstr, error) {
	if strings.TrimSpace(listing) == "" {
		return nil, ErrMalformedBlock
	}

	var instructions []BlockInstr
	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		matches := listingLineRegex.FindStringSubmatch(line)
		if matches == nil {
			return nil, fmt.Errorf("unparsable line %q: %w", line, ErrMalformedBlock)
		}
		offset, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("bad offset in line %q: %w", line, ErrMalformedBlock)
		}
		instructions = append(instructions, BlockInstr{
			Offset:   offset,
			Mnemonic: matches[2],
			Operand:  strings.TrimSpace(matches[3]),
		})
	}
	if len(instructions) == 0 {
		return nil, ErrMalformedBlock
	}
	return instructions, nil
}
