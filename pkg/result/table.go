// Package result collects solutions emitted by package search and
// supports checkpointing a long-running solve.
package result

import (
	"sort"
	"sync"

	"github.com/smilkos/mrhs-solver-decoding/pkg/bitvec"
)

// Solution is one x satisfying the system, tagged with the emission
// order the search loop assigned it.
type Solution struct {
	Index int
	X     bitvec.Vector
}

// Table stores discovered solutions, safe for concurrent Add calls from
// package shard's worker goroutines.
type Table struct {
	mu        sync.Mutex
	solutions []Solution
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts a solution into the table.
func (t *Table) Add(s Solution) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.solutions = append(t.solutions, s)
}

// Solutions returns a copy of all solutions, sorted by emission index.
func (t *Table) Solutions() []Solution {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Solution, len(t.solutions))
	copy(out, t.solutions)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Len returns the number of collected solutions.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.solutions)
}
