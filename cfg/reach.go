package cfg

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/chainsift/jumpaudit/common/lifo"
)

// Reachable reports whether target can be reached from the entry offset by
// following successor edges. Depth-first with early exit; O(V+E).
func (g *Graph) Reachable(target int) bool {
	visited := mapset.NewThreadUnsafeSet[int]()
	frontier := &lifo.Stack[int]{}
	frontier.Push(g.entry)

	for !frontier.IsEmpty() {
		current, _ := frontier.Pop()
		visited.Add(current)

		if current == target {
			return true
		}
		for _, dest := range g.Destinations(current) {
			if !visited.Contains(dest) {
				frontier.Push(dest)
			}
		}
	}
	return false
}

// ReachableSet computes the full set of offsets reachable from entry in one
// traversal. Callers issuing many queries against the same graph can reuse it
// instead of calling Reachable per target.
func (g *Graph) ReachableSet() mapset.Set[int] {
	visited := mapset.NewThreadUnsafeSet[int]()
	frontier := &lifo.Stack[int]{}
	frontier.Push(g.entry)

	for !frontier.IsEmpty() {
		current, _ := frontier.Pop()
		if visited.Contains(current) {
			continue
		}
		visited.Add(current)
		for _, dest := range g.Destinations(current) {
			if !visited.Contains(dest) {
				frontier.Push(dest)
			}
		}
	}
	return visited
}
