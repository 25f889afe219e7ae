// Package genmrhs fills MRHS systems with synthetic data for benchmarking
// and testing the solver pipeline, mirroring mrhs.c's fill_mrhs_* and
// ensure_random_solution family. Every generator takes an explicit
// *rand.Rand so callers get reproducible systems from a fixed seed.
package genmrhs

import (
	"fmt"
	"math/rand/v2"

	"github.com/smilkos/mrhs-solver-decoding/pkg/bitvec"
	"github.com/smilkos/mrhs-solver-decoding/pkg/bitword"
	"github.com/smilkos/mrhs-solver-decoding/pkg/bm"
	"github.com/smilkos/mrhs-solver-decoding/pkg/mrhs"
)

// Config selects a generation mode and its parameters, following the same
// Config-struct-with-defaulting convention as search.Config/shard.Config.
// It exists mainly for cmd/mrhssolve's generate subcommand, which picks a
// mode by flag rather than calling one of the Fill* functions directly.
type Config struct {
	// Mode is one of "random", "sparse", "sparse-extra", "and",
	// "and-sparse". Empty defaults to "random".
	Mode    string
	Density int
	K, L    int
	// Seed seeds the PRNG driving generation; two calls with the same
	// Config (Seed included) produce identical systems.
	Seed uint64
}

// GenerateWithConfig fills sys according to cfg, dispatching to the
// matching Fill* function.
func GenerateWithConfig(sys mrhs.System, cfg Config) error {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	switch cfg.Mode {
	case "", "random":
		FillRandom(sys, rng)
	case "sparse":
		FillRandomSparse(sys, rng)
	case "sparse-extra":
		FillRandomSparseExtra(sys, cfg.Density, rng)
	case "and":
		return FillAND(sys, cfg.K, cfg.L, rng)
	case "and-sparse":
		return FillANDSparse(sys, cfg.K, cfg.L, cfg.Density, rng)
	default:
		return fmt.Errorf("genmrhs: unknown mode %q", cfg.Mode)
	}
	return nil
}

// FillRandom fills every block of sys with an unconstrained random M and
// a set of distinct random S rows, mirroring fill_mrhs_random.
func FillRandom(sys mrhs.System, rng *rand.Rand) {
	for j := 0; j < sys.NBlocks; j++ {
		randomMatrix(sys.M[j], rng)
		uniqueRandomRows(sys.S[j], rng)
	}
}

// FillRandomSparse fills every block's M with exactly one random 1 per
// column (so every column is, by construction, linearly independent of
// the all-zero column) and S with distinct random rows, mirroring
// fill_mrhs_random_sparse.
func FillRandomSparse(sys mrhs.System, rng *rand.Rand) {
	for j := 0; j < sys.NBlocks; j++ {
		sparseColumns(sys.M[j], rng)
		uniqueRandomRows(sys.S[j], rng)
	}
}

// FillRandomSparseExtra is FillRandomSparse with `density` additional
// random bits set on top, mirroring fill_mrhs_random_sparse_extra.
func FillRandomSparseExtra(sys mrhs.System, density int, rng *rand.Rand) {
	FillRandomSparse(sys, rng)
	if sys.NBlocks == 0 {
		return
	}
	for i := 0; i < density; i++ {
		block := rng.IntN(sys.NBlocks)
		row := rng.IntN(sys.M[block].NRows)
		col := rng.IntN(sys.M[block].NCols)
		sys.M[block].Set(row, col, 1)
	}
}

// andTruthTable holds the four (in1, in2, out) assignments satisfying
// out = in1 AND in2, one per row of a width-3 AND-gate block's S.
var andTruthTable = [4][3]int{
	{0, 0, 0},
	{0, 1, 0},
	{1, 0, 0},
	{1, 1, 1},
}

func fillANDRhs(s *bm.Matrix) {
	for r, row := range andTruthTable {
		for c, bit := range row {
			s.Set(r, c, bit)
		}
	}
}

// FillAND fills sys with "AND" block structure: the first (m-l) blocks
// are AND gates wired to three key variables starting at k, and the last
// l blocks are random filter equations, both constrained to the AND
// truth table on the right-hand side. Mirrors fill_mrhs_and. Requires
// every block to be 3 columns wide with 4 right-hand sides, and
// k + m - l rows, matching the preconditions fill_mrhs_and silently
// no-ops on; here they are reported as an error instead. When there is
// at least one gate block, k must also be at least 2, so that every gate
// has two distinct earlier variables to take as inputs.
func FillAND(sys mrhs.System, k, l int, rng *rand.Rand) error {
	if err := checkANDShape(sys, k, l); err != nil {
		return err
	}
	m := sys.NBlocks
	for block := 0; block < m-l; block++ {
		randomANDCols(sys.M[block], k+block, rng)
		fillANDRhs(sys.S[block])
	}
	for block := m - l; block < m; block++ {
		randomMatrix(sys.M[block], rng)
		fillANDRhs(sys.S[block])
	}
	return nil
}

// FillANDSparse is FillAND with each AND-gate block's three columns
// additionally sparsified and perturbed with `density` extra random
// bits, mirroring fill_mrhs_and_sparse.
func FillANDSparse(sys mrhs.System, k, l, density int, rng *rand.Rand) error {
	if err := checkANDShape(sys, k, l); err != nil {
		return err
	}
	m := sys.NBlocks
	for block := 0; block < m-l; block++ {
		randomSparseANDCols(sys.M[block], k+block, density, rng)
		fillANDRhs(sys.S[block])
	}
	for block := m - l; block < m; block++ {
		randomMatrix(sys.M[block], rng)
		fillANDRhs(sys.S[block])
	}
	return nil
}

func checkANDShape(sys mrhs.System, k, l int) error {
	m := sys.NBlocks
	if l > m || l < 0 {
		return fmt.Errorf("genmrhs: filter count l=%d out of range for %d blocks", l, m)
	}
	if m > 0 && k+m-l != sys.M[0].NRows {
		return fmt.Errorf("genmrhs: k+m-l=%d does not match row count %d", k+m-l, sys.N)
	}
	for j := 0; j < m; j++ {
		if sys.M[j].NCols != 3 || sys.S[j].NRows != 4 {
			return fmt.Errorf("genmrhs: block %d has width %d and %d right-hand sides, want 3 and 4", j, sys.M[j].NCols, sys.S[j].NRows)
		}
	}
	if m-l > 0 && k < 2 {
		return fmt.Errorf("genmrhs: AND gates need at least 2 key variables, got k=%d", k)
	}
	return nil
}

// randomANDCols wires an AND-gate block's three columns to two distinct,
// randomly chosen input variables below outVar and the gate's own output
// variable outVar: for each column, exactly the row of its associated
// variable is set, projecting x onto (in1, in2, out).
func randomANDCols(m *bm.Matrix, outVar int, rng *rand.Rand) {
	in1 := rng.IntN(outVar)
	in2 := rng.IntN(outVar - 1)
	if in2 >= in1 {
		in2++
	}
	setIdentityColumn(m, 0, in1)
	setIdentityColumn(m, 1, in2)
	setIdentityColumn(m, 2, outVar)
}

// randomSparseANDCols is randomANDCols with `density` extra random bits
// layered on top of the three identity columns.
func randomSparseANDCols(m *bm.Matrix, outVar, density int, rng *rand.Rand) {
	randomANDCols(m, outVar, rng)
	for i := 0; i < density; i++ {
		row := rng.IntN(m.NRows)
		col := rng.IntN(m.NCols)
		m.Set(row, col, 1)
	}
}

func setIdentityColumn(m *bm.Matrix, col, row int) {
	for r := 0; r < m.NRows; r++ {
		m.Set(r, col, 0)
	}
	m.Set(row, col, 1)
}

// EnsureRandomSolution mutates every block's S so that a single, randomly
// chosen x is a solution of the resulting system, mirroring
// ensure_random_solution. It leaves sys unchanged if it has no blocks.
func EnsureRandomSolution(sys mrhs.System, rng *rand.Rand) {
	if sys.NBlocks == 0 {
		return
	}
	sol := randomVector(sys.N, rng)
	for j := 0; j < sys.NBlocks; j++ {
		rhs := multiplyVectorByBlock(sol, sys.M[j])
		ensureBlockContains(sys.S[j], rhs, rng)
	}
}

// randomMatrix fills every row of m with an independent random value
// over its active width.
func randomMatrix(m *bm.Matrix, rng *rand.Rand) {
	for r := 0; r < m.NRows; r++ {
		m.Rows[r] = randomWord(rng, m.NCols)
	}
}

// sparseColumns clears m and sets, for each column, a single 1 at a
// randomly chosen row.
func sparseColumns(m *bm.Matrix, rng *rand.Rand) {
	for r := range m.Rows {
		m.Rows[r] = 0
	}
	for c := 0; c < m.NCols; c++ {
		row := rng.IntN(m.NRows)
		m.Set(row, c, 1)
	}
}

// uniqueRandomRows fills m with distinct random values, retrying on
// collision. NRows must not exceed 2^NCols.
func uniqueRandomRows(m *bm.Matrix, rng *rand.Rand) {
	seen := make(map[bitword.Word]bool, m.NRows)
	for r := 0; r < m.NRows; r++ {
		var w bitword.Word
		for {
			w = randomWord(rng, m.NCols)
			if !seen[w] {
				break
			}
		}
		seen[w] = true
		m.Rows[r] = w
	}
}

func randomWord(rng *rand.Rand, width int) bitword.Word {
	if width == 0 {
		return 0
	}
	v := rng.Uint64() & (uint64(1)<<uint(width) - 1)
	return bitword.FromActiveBits(v, width)
}

func randomVector(n int, rng *rand.Rand) bitvec.Vector {
	v := bitvec.New(n)
	for i := 0; i < n; i++ {
		if rng.IntN(2) == 1 {
			v.SetBit(i)
		}
	}
	return v
}

// multiplyVectorByBlock computes x . M: the XOR of M's rows at every
// index where x has a 1 bit.
func multiplyVectorByBlock(x bitvec.Vector, m *bm.Matrix) bitword.Word {
	var out bitword.Word
	for r := 0; r < m.NRows; r++ {
		if x.Get(r) == 1 {
			out = bitword.Xor(out, m.Rows[r])
		}
	}
	return out
}

// ensureBlockContains replaces a random row of s with rhs unless rhs is
// already present.
func ensureBlockContains(s *bm.Matrix, rhs bitword.Word, rng *rand.Rand) {
	for _, row := range s.Rows {
		if row == rhs {
			return
		}
	}
	if s.NRows == 0 {
		return
	}
	s.Rows[rng.IntN(s.NRows)] = rhs
}
