// Package bbm implements the Block Bit Matrix: n rows, each row
// being m concatenated block-words, one per block. This is the shape used
// for M during and after echelonization, since row operations there act
// across all blocks of a row simultaneously.
package bbm

import (
	"github.com/smilkos/mrhs-solver-decoding/pkg/bitword"
	"github.com/smilkos/mrhs-solver-decoding/pkg/bm"
)

// Matrix is n rows x m blocks, block j having width Widths[j].
type Matrix struct {
	NRows  int
	Widths []int
	// Row r's block j value is Blocks[r][j].
	Blocks [][]bitword.Word
}

// New returns an all-zero BBM with the given per-block widths.
func New(nrows int, widths []int) *Matrix {
	blocks := make([][]bitword.Word, nrows)
	for r := range blocks {
		blocks[r] = make([]bitword.Word, len(widths))
	}
	w := make([]int, len(widths))
	copy(w, widths)
	return &Matrix{NRows: nrows, Widths: w, Blocks: blocks}
}

// NBlocks returns the number of blocks.
func (m *Matrix) NBlocks() int { return len(m.Widths) }

// FromBlocks builds a BBM by concatenating per-block bm.Matrix values,
// which must all share the same row count.
func FromBlocks(blocks []*bm.Matrix) *Matrix {
	if len(blocks) == 0 {
		return &Matrix{}
	}
	nrows := blocks[0].NRows
	widths := make([]int, len(blocks))
	for j, b := range blocks {
		widths[j] = b.NCols
	}
	out := New(nrows, widths)
	for r := 0; r < nrows; r++ {
		for j, b := range blocks {
			out.Blocks[r][j] = b.Rows[r]
		}
	}
	return out
}

// ToBlocks splits the BBM back into per-block bm.Matrix values.
func (m *Matrix) ToBlocks() []*bm.Matrix {
	out := make([]*bm.Matrix, len(m.Widths))
	for j, w := range m.Widths {
		bmat := bm.New(m.NRows, w)
		for r := 0; r < m.NRows; r++ {
			bmat.Rows[r] = m.Blocks[r][j]
		}
		out[j] = bmat
	}
	return out
}

// Get returns the bit at (row, block, col).
func (m *Matrix) Get(row, block, col int) int {
	return bitword.BitAt(m.Blocks[row][block], col)
}

// SwapRows exchanges entire rows r1 and r2 (all blocks).
func (m *Matrix) SwapRows(r1, r2 int) {
	if r1 == r2 {
		return
	}
	m.Blocks[r1], m.Blocks[r2] = m.Blocks[r2], m.Blocks[r1]
}

// XorRowInto XORs row src into row dst across all blocks: rows[dst] ^= rows[src].
func (m *Matrix) XorRowInto(src, dst int) {
	if src == dst {
		return
	}
	drow := m.Blocks[dst]
	srow := m.Blocks[src]
	for j := range drow {
		drow[j] = bitword.Xor(drow[j], srow[j])
	}
}

// SwapColumns exchanges column c1 and c2 within the given block, across
// all rows.
func (m *Matrix) SwapColumns(block, c1, c2 int) {
	if c1 == c2 {
		return
	}
	for r := range m.Blocks {
		m.Blocks[r][block] = bitword.SwapColumns(m.Blocks[r][block], c1, c2)
	}
}

// RowIsZero reports whether row r is the all-zero row across every block.
func (m *Matrix) RowIsZero(r int) bool {
	for _, w := range m.Blocks[r] {
		if w != 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	out := New(m.NRows, m.Widths)
	for r := range m.Blocks {
		copy(out.Blocks[r], m.Blocks[r])
	}
	return out
}
