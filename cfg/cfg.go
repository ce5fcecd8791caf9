// Package cfg models the control-flow graph supplied by the external jump
// solver: blocks keyed by byte offset plus a successor relation between
// offsets. The graph is untrusted input and treated as read-only for one
// analysis pass.
package cfg

import (
	"errors"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/chainsift/jumpaudit/disasm"
)

var (
	// ErrDanglingEdge reports an edge whose destination offset has no block
	// in the graph.
	ErrDanglingEdge = errors.New("edge destination has no block")

	// ErrMalformedBlock reports a block whose instruction listing is empty
	// or unparsable.
	ErrMalformedBlock = errors.New("malformed block listing")
)

// BlockInstr is one line of a block's instruction listing.
type BlockInstr struct {
	Offset   int
	Mnemonic string
	Operand  string
}

// Block is a straight-line run of instructions identified by its offset.
type Block struct {
	Offset       int
	Instructions []BlockInstr
}

// First returns the block's first instruction.
func (b *Block) First() BlockInstr {
	return b.Instructions[0]
}

// Last returns the block's terminal instruction.
func (b *Block) Last() BlockInstr {
	return b.Instructions[len(b.Instructions)-1]
}

// EntryClass classifies the block's first instruction.
func (b *Block) EntryClass() disasm.OpClass {
	return disasm.Class(b.First().Mnemonic)
}

// TerminalClass classifies the block's last instruction.
func (b *Block) TerminalClass() disasm.OpClass {
	return disasm.Class(b.Last().Mnemonic)
}

// Graph is an offset-indexed arena of blocks with a separate adjacency
// mapping, avoiding pointer-linked nodes entirely.
type Graph struct {
	entry     int
	blocks    map[int]*Block
	succs     map[int]mapset.Set[int]
	malformed map[int]error
}

// NewGraph returns an empty graph rooted at the given entry offset.
func NewGraph(entry int) *Graph {
	return &Graph{
		entry:     entry,
		blocks:    make(map[int]*Block),
		succs:     make(map[int]mapset.Set[int]),
		malformed: make(map[int]error),
	}
}

// Entry returns the entry block offset.
func (g *Graph) Entry() int {
	return g.entry
}

// AddBlock inserts a block, replacing any previous block at the same offset.
func (g *Graph) AddBlock(b *Block) {
	g.blocks[b.Offset] = b
}

// AddEdges merges destinations into the successor set of from. Edge records
// sharing the same origin accumulate into one deduplicated set.
func (g *Graph) AddEdges(from int, to ...int) {
	set, ok := g.succs[from]
	if !ok {
		set = mapset.NewThreadUnsafeSet[int]()
		g.succs[from] = set
	}
	for _, dest := range to {
		set.Add(dest)
	}
}

// markMalformed records a block that failed listing parse. The block is kept
// out of the arena; lookups against it fail as dangling.
func (g *Graph) markMalformed(offset int, err error) {
	g.malformed[offset] = err
}

// Block returns the block at offset, if present.
func (g *Graph) Block(offset int) (*Block, bool) {
	b, ok := g.blocks[offset]
	return b, ok
}

// Blocks returns all blocks in ascending offset order.
func (g *Graph) Blocks() []*Block {
	blocks := make([]*Block, 0, len(g.blocks))
	for _, b := range g.blocks {
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Offset < blocks[j].Offset })
	return blocks
}

// Destinations returns the deduplicated successor offsets of a block, sorted
// for deterministic iteration.
func (g *Graph) Destinations(offset int) []int {
	set, ok := g.succs[offset]
	if !ok {
		return nil
	}
	dests := set.ToSlice()
	sort.Ints(dests)
	return dests
}

// MalformedBlocks returns the offsets that failed listing parse, ascending,
// with their parse errors.
func (g *Graph) MalformedBlocks() ([]int, map[int]error) {
	offsets := make([]int, 0, len(g.malformed))
	for offset := range g.malformed {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)
	return offsets, g.malformed
}
