// Package echelon implements the Echelonizer: it reduces a
// raw MRHS system's M-blocks to canonical echelon form with pivots packed
// at the most-significant bits of each block, recording the per-block
// column permutation and the row-operation accumulator A.
package echelon

import (
	"fmt"

	"github.com/smilkos/mrhs-solver-decoding/pkg/bbm"
	"github.com/smilkos/mrhs-solver-decoding/pkg/bitvec"
	"github.com/smilkos/mrhs-solver-decoding/pkg/bitword"
	"github.com/smilkos/mrhs-solver-decoding/pkg/mrhs"
)

// Result holds everything Echelonize produces beyond the in-place
// mutation of sys.M and sys.S.
type Result struct {
	// Pivots[j] is p_j, the pivot count of block j.
	Pivots []int
	// A is the n x n row-operation accumulator: A . M_original = M_echelon.
	A []bitvec.Vector
	// Perm[j][pos] is the original column index of block j now occupying
	// position pos, after all column swaps performed while echelonizing
	// block j, so a caller can map an echelon-coordinate solution back to
	// the original variable numbering.
	Perm [][]int
}

// TotalPivots returns Σ p_j.
func (r Result) TotalPivots() int {
	sum := 0
	for _, p := range r.Pivots {
		sum += p
	}
	return sum
}

// Echelonize transforms sys.M in place into echelon form, mirroring the
// same column swaps into sys.S, and returns the pivot counts, the row-op
// accumulator A, and the column-permutation trace. Echelonize never
// fails on a well-formed system: a block with zero pivots is a valid
// outcome. A malformed system (sys.Valid reports false) or an S entry
// with bits set beyond its block width is a caller bug and panics.
func Echelonize(sys mrhs.System) Result {
	n := sys.N
	m := sys.NBlocks

	if !sys.Valid() {
		panic("echelon: malformed system: block shapes disagree with N or with each other")
	}
	for j := 0; j < m; j++ {
		outside := bitword.Word(1)<<uint(bitword.Width-sys.S[j].NCols) - 1
		for _, row := range sys.S[j].Rows {
			if row&outside != 0 {
				panic(fmt.Sprintf("echelon: block %d has an S entry wider than %d bits", j, sys.S[j].NCols))
			}
		}
	}

	res := Result{
		Pivots: make([]int, m),
		A:      make([]bitvec.Vector, n),
		Perm:   make([][]int, m),
	}
	for i := 0; i < n; i++ {
		res.A[i] = bitvec.Identity(n, i)
	}
	for j := 0; j < m; j++ {
		width := sys.M[j].NCols
		res.Perm[j] = make([]int, width)
		for c := range res.Perm[j] {
			res.Perm[j][c] = c
		}
	}

	// Every row operation below acts across all m blocks of a row at once,
	// so the whole elimination runs against a single BBM rather than
	// looping sys.M by hand; the result is copied back into sys.M's
	// existing *bm.Matrix values (rather than replacing them) so a
	// caller's references to those matrices keep seeing the echelonized
	// rows in place.
	bb := bbm.FromBlocks(sys.M)

	swapRows := func(r1, r2 int) {
		if r1 == r2 {
			return
		}
		bb.SwapRows(r1, r2)
		res.A[r1], res.A[r2] = res.A[r2], res.A[r1]
	}
	xorRowInto := func(src, dst int) {
		bb.XorRowInto(src, dst)
		res.A[dst] = bitvec.Xor(res.A[dst], res.A[src])
	}

	r := 0
	for j := 0; j < m; j++ {
		width := sys.M[j].NCols
		p := 0
		for c := 0; c < width; c++ {
			pivotRow := -1
			for rp := r; rp < n; rp++ {
				if bb.Get(rp, j, c) == 1 {
					pivotRow = rp
					break
				}
			}
			if pivotRow == -1 {
				// No row left with a 1 in this column: non-pivot column.
				continue
			}
			if pivotRow != r {
				swapRows(r, pivotRow)
			}
			for rpp := 0; rpp < n; rpp++ {
				if rpp != r && bb.Get(rpp, j, c) == 1 {
					xorRowInto(r, rpp)
				}
			}
			if c != p {
				bb.SwapColumns(j, p, c)
				if sys.S[j] != nil {
					sys.S[j].SwapColumns(p, c)
				}
				res.Perm[j][p], res.Perm[j][c] = res.Perm[j][c], res.Perm[j][p]
			}
			r++
			p++
		}
		res.Pivots[j] = p
	}

	for j, echelonized := range bb.ToBlocks() {
		copy(sys.M[j].Rows, echelonized.Rows)
	}
	return res
}

// FreeRows returns the row indices never selected as any block's pivot —
// rows [Σp_j, n). Because the global row cursor strictly increases and a
// row is only ever moved to the cursor position when chosen as a pivot,
// these are exactly the final n-Σp_j rows. Used by package search to
// enumerate the free components of a solution (see DESIGN.md's
// free-row-enumeration note: an unconstrained system's solution count is
// 2^(n-rank)).
func (r Result) FreeRows(n int) []int {
	total := r.TotalPivots()
	out := make([]int, 0, n-total)
	for i := total; i < n; i++ {
		out = append(out, i)
	}
	return out
}
