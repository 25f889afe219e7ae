// Package activelist builds the per-block lookup tables the search engine
// walks: for each block, a bucket table keyed by the
// non-pivot ("index") bits of its candidate right-hand sides, each
// candidate carrying a precomputed sum-row that folds its pivot-bit
// choice into the running search state.
package activelist

import (
	"github.com/smilkos/mrhs-solver-decoding/pkg/bitvec"
	"github.com/smilkos/mrhs-solver-decoding/pkg/bitword"
	"github.com/smilkos/mrhs-solver-decoding/pkg/echelon"
	"github.com/smilkos/mrhs-solver-decoding/pkg/mrhs"
)

// Candidate is one right-hand-side entry of a block's table. It is built
// once by Prepare and never mutated afterward — unlike the original
// source's TableEntry (which the search loop walks via a raw `next`
// pointer held in the mutable ActiveListEntry itself), the traversal
// cursor here lives in package search's own state, keeping a prepared
// table safely shareable across concurrent search workers (package
// shard starts several of these from the same table).
type Candidate struct {
	// Value is the original S_j row this candidate came from, used for
	// solution bookkeeping and de-duplication.
	Value bitword.Word
	// SumBlocks[k] is the XOR, across every pivot row this candidate's
	// pivot_part selects, of that row's value in block k of the
	// echelonized M. XORing SumBlocks into the running per-block state
	// advances every block's view of the partial solution at once.
	SumBlocks []bitword.Word
	// SumX is the same selection expressed against the row-operation
	// accumulator A, used at solution time to recover x = y . A.
	SumX bitvec.Vector
	// First is the lowest row index at which SumX has a set bit, or -1
	// if this candidate's pivot_part is all zero.
	First int
	// Next is the index, within the owning ActiveListEntry.Candidates
	// slice, of the next candidate sharing this one's bucket, or -1.
	Next int
}

// ActiveListEntry is one block's prepared table.
type ActiveListEntry struct {
	Block      int
	Width      int // l_j
	Pivots     int // p_j
	IndexWidth int // l_j - p_j
	Mask       bitword.Word
	// LUT[key] is the Candidates index of the bucket's head, or -1. key is
	// not the candidate's raw index_part: a pivot row generally has
	// nonzero bits in its own block's index columns too (the echelon form
	// is reduced, not merely triangular), so choosing this candidate
	// contributes pivot_part . B_j to this block's own index columns in
	// addition to whatever the running state already holds from earlier
	// blocks. key folds that self-contribution in up front
	// (index_part XOR pivot_part.B_j), so a bucket lookup keyed on the
	// running state alone (which only ever holds other blocks'
	// contributions) still lands on the right candidate.
	LUT        []int
	Candidates []Candidate
}

// Prepare builds one ActiveListEntry per block of an already-echelonized
// system (echelon.Echelonize must have run first; sys.M and sys.S are
// read in their post-echelonization form). Each bucket's chain is built
// by head insertion, so candidates sharing a bucket are walked by the
// search, and their solutions emitted, in the reverse of their S_j row
// order.
func Prepare(sys mrhs.System, ech echelon.Result) []ActiveListEntry {
	m := sys.NBlocks
	n := sys.N
	entries := make([]ActiveListEntry, m)

	offset := make([]int, m)
	cursor := 0
	for j := 0; j < m; j++ {
		offset[j] = cursor
		cursor += ech.Pivots[j]
	}

	for j := 0; j < m; j++ {
		width := sys.M[j].NCols
		p := ech.Pivots[j]
		indexWidth := width - p

		entry := ActiveListEntry{
			Block:      j,
			Width:      width,
			Pivots:     p,
			IndexWidth: indexWidth,
			Mask:       bitword.IndexMask(width, p),
		}
		entry.LUT = make([]int, 1<<uint(indexWidth))
		for i := range entry.LUT {
			entry.LUT[i] = -1
		}

		seen := make(map[bitword.Word]bool, sys.S[j].NRows)
		for row := 0; row < sys.S[j].NRows; row++ {
			val := sys.S[j].Rows[row]
			if seen[val] {
				continue
			}
			seen[val] = true

			pivotPart := bitword.PivotPart(val, width, p)
			indexPart := bitword.IndexPart(val, width, p)

			sumBlocks := make([]bitword.Word, m)
			sumX := bitvec.New(n)
			for idx := 0; idx < p; idx++ {
				if (pivotPart>>uint(p-1-idx))&1 == 0 {
					continue
				}
				r := offset[j] + idx
				for k := 0; k < m; k++ {
					sumBlocks[k] = bitword.Xor(sumBlocks[k], sys.M[k].Rows[r])
				}
				sumX = bitvec.Xor(sumX, ech.A[r])
			}

			// sumBlocks[j] is this candidate's own pivot rows' contribution
			// to block j's own columns; its index-column part is the
			// self-term pivot_part.B_j that the running state can never
			// supply on its own (block j hasn't chosen a candidate yet
			// when its own bucket is looked up).
			selfTerm := bitword.IndexPart(sumBlocks[j], width, p)
			key := indexPart ^ selfTerm

			cand := Candidate{
				Value:     val,
				SumBlocks: sumBlocks,
				SumX:      sumX,
				First:     sumX.FirstSet(0),
				Next:      entry.LUT[key],
			}
			entry.Candidates = append(entry.Candidates, cand)
			entry.LUT[key] = len(entry.Candidates) - 1
		}
		entries[j] = entry
	}
	return entries
}
