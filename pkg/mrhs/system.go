// Package mrhs implements the MRHS system type: a pair of
// per-block arrays (M-blocks, S-blocks) that is the input to the solver
// pipeline (echelon -> activelist -> search).
package mrhs

import "github.com/smilkos/mrhs-solver-decoding/pkg/bm"

// System is an MRHS system: n rows, m blocks. M[j] is n x BlockWidths[j];
// S[j] is RHSCounts[j] x BlockWidths[j].
type System struct {
	N       int
	NBlocks int
	M       []*bm.Matrix
	S       []*bm.Matrix
}

// NewFixed builds a system where every block shares the same width and
// right-hand-side count, mirroring create_mrhs_fixed.
func NewFixed(nrows, nblocks, blockWidth, rhsCount int) System {
	widths := make([]int, nblocks)
	counts := make([]int, nblocks)
	for b := range widths {
		widths[b] = blockWidth
		counts[b] = rhsCount
	}
	return NewVariable(nrows, nblocks, widths, counts)
}

// NewVariable builds a system with per-block widths and right-hand-side
// counts, mirroring create_mrhs_variable. The parameter order is
// (blockWidths, rhsCounts), the same order as the text file header's
// per-block (l, k) fields — see pkg/mrhsio for that mapping before
// changing this signature.
func NewVariable(nrows, nblocks int, blockWidths, rhsCounts []int) System {
	if nblocks == 0 {
		return System{N: nrows, NBlocks: 0}
	}
	sys := System{
		N:       nrows,
		NBlocks: nblocks,
		M:       make([]*bm.Matrix, nblocks),
		S:       make([]*bm.Matrix, nblocks),
	}
	for b := 0; b < nblocks; b++ {
		sys.M[b] = bm.New(nrows, blockWidths[b])
		sys.S[b] = bm.New(rhsCounts[b], blockWidths[b])
	}
	return sys
}

// BlockWidths returns the l_j of every block.
func (s System) BlockWidths() []int {
	out := make([]int, s.NBlocks)
	for b := range out {
		out[b] = s.M[b].NCols
	}
	return out
}

// RHSCounts returns the k_j of every block.
func (s System) RHSCounts() []int {
	out := make([]int, s.NBlocks)
	for b := range out {
		out[b] = s.S[b].NRows
	}
	return out
}

// Clone returns a deep copy of the system.
func (s System) Clone() System {
	out := System{N: s.N, NBlocks: s.NBlocks}
	if s.NBlocks == 0 {
		return out
	}
	out.M = make([]*bm.Matrix, s.NBlocks)
	out.S = make([]*bm.Matrix, s.NBlocks)
	for b := 0; b < s.NBlocks; b++ {
		out.M[b] = s.M[b].Clone()
		out.S[b] = s.S[b].Clone()
	}
	return out
}

// Valid reports whether the system satisfies its structural invariants:
// every M block shares the row count N, and every S block has the same
// column width as its M counterpart.
func (s System) Valid() bool {
	if s.NBlocks == 0 {
		return s.M == nil && s.S == nil
	}
	if len(s.M) != s.NBlocks || len(s.S) != s.NBlocks {
		return false
	}
	for b := 0; b < s.NBlocks; b++ {
		if s.M[b].NRows != s.N {
			return false
		}
		if s.S[b].NCols != s.M[b].NCols {
			return false
		}
	}
	return true
}
