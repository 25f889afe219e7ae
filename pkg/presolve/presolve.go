// Package presolve implements the linear-substitution preprocessing pass:
// a block whose right-hand-side set has collapsed to a
// single value is really a linear equation in disguise, and can be
// substituted into every other block to shrink the system before the
// echelon/search pipeline ever sees it. Mirrors linear_substitution,
// remove_linear and remove_empty in mrhs.c.
package presolve

import (
	"github.com/smilkos/mrhs-solver-decoding/pkg/bitvec"
	"github.com/smilkos/mrhs-solver-decoding/pkg/bm"
	"github.com/smilkos/mrhs-solver-decoding/pkg/mrhs"
)

// Substitute applies one linear equation column . x = rhs to every block
// of sys: wherever a block's M has a 1 in column's pivot row, column is
// XORed into that M column and rhs is XORed into the matching S column,
// eliminating the pivot variable from that column's dependency. It
// returns the number of columns touched. A zero column has no pivot and
// is a no-op.
func Substitute(sys mrhs.System, column bitvec.Vector, rhs int) int {
	pivot := column.FirstSet(0)
	if pivot < 0 {
		return 0
	}
	count := 0
	for j := 0; j < sys.NBlocks; j++ {
		m, s := sys.M[j], sys.S[j]
		for col := 0; col < m.NCols; col++ {
			if m.Get(pivot, col) != 1 {
				continue
			}
			addColumn(m, column, col)
			addConstant(s, rhs, col)
			count++
		}
	}
	return count
}

func addColumn(m *bm.Matrix, column bitvec.Vector, col int) {
	for r := 0; r < m.NRows; r++ {
		if column.Get(r) == 1 {
			m.Set(r, col, m.Get(r, col)^1)
		}
	}
}

func addConstant(s *bm.Matrix, rhs, col int) {
	if rhs == 0 {
		return
	}
	for r := 0; r < s.NRows; r++ {
		s.Set(r, col, s.Get(r, col)^1)
	}
}

// RemoveLinear finds every block whose S has collapsed to a single row
// (so each of its columns is really a fixed-value linear equation),
// substitutes each such column into the whole system via Substitute, and
// returns the total number of columns touched across every substitution.
func RemoveLinear(sys mrhs.System) int {
	count := 0
	for j := 0; j < sys.NBlocks; j++ {
		if sys.S[j].NRows != 1 {
			continue
		}
		for col := 0; col < sys.M[j].NCols; col++ {
			column := columnOf(sys.M[j], col)
			rhs := sys.S[j].Get(0, col)
			count += Substitute(sys, column, rhs)
		}
	}
	return count
}

func columnOf(m *bm.Matrix, col int) bitvec.Vector {
	v := bitvec.New(m.NRows)
	for r := 0; r < m.NRows; r++ {
		if m.Get(r, col) == 1 {
			v.SetBit(r)
		}
	}
	return v
}

// RemoveEmpty drops every block whose M has become entirely zero (every
// column substituted away by RemoveLinear), then trims any row (variable)
// that is now zero in every remaining block's M, shrinking sys.N to
// match. It mutates sys in place and returns the number of blocks
// removed.
func RemoveEmpty(sys *mrhs.System) int {
	n := sys.N
	active := bitvec.New(n)

	keptM := make([]*bm.Matrix, 0, sys.NBlocks)
	keptS := make([]*bm.Matrix, 0, sys.NBlocks)
	removed := 0

	for j := 0; j < sys.NBlocks; j++ {
		rows := activeRows(sys.M[j])
		if rows.IsZero() {
			removed++
			continue
		}
		active = bitvec.Or(active, rows)
		keptM = append(keptM, sys.M[j])
		keptS = append(keptS, sys.S[j])
	}
	sys.M, sys.S, sys.NBlocks = keptM, keptS, len(keptM)

	var keepRows []int
	for r := 0; r < n; r++ {
		if active.Get(r) == 1 {
			keepRows = append(keepRows, r)
		}
	}
	if len(keepRows) != n {
		for j := 0; j < sys.NBlocks; j++ {
			sys.M[j] = projectRows(sys.M[j], keepRows)
		}
		sys.N = len(keepRows)
	}

	return removed
}

// activeRows returns a bit vector with bit r set whenever row r has a
// nonzero entry in some column of m.
func activeRows(m *bm.Matrix) bitvec.Vector {
	v := bitvec.New(m.NRows)
	for r, row := range m.Rows {
		if row != 0 {
			v.SetBit(r)
		}
	}
	return v
}

// projectRows returns a copy of m containing only the rows named by
// keepRows, in order.
func projectRows(m *bm.Matrix, keepRows []int) *bm.Matrix {
	out := bm.New(len(keepRows), m.NCols)
	for i, r := range keepRows {
		out.Rows[i] = m.Rows[r]
	}
	return out
}
