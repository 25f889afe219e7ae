package genmrhs

import (
	"math/rand/v2"
	"testing"

	"github.com/smilkos/mrhs-solver-decoding/pkg/mrhs"
)

func TestFillRandomProducesDistinctRHSRows(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	sys := mrhs.NewFixed(5, 3, 4, 6)
	FillRandom(sys, rng)

	for j := 0; j < sys.NBlocks; j++ {
		seen := map[uint64]bool{}
		for _, row := range sys.S[j].Rows {
			if seen[uint64(row)] {
				t.Fatalf("block %d: duplicate S row %v", j, row)
			}
			seen[uint64(row)] = true
		}
	}
}

func TestFillRandomSparseOneBitPerColumn(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	sys := mrhs.NewFixed(6, 2, 3, 2)
	FillRandomSparse(sys, rng)

	for j := 0; j < sys.NBlocks; j++ {
		for c := 0; c < sys.M[j].NCols; c++ {
			count := 0
			for r := 0; r < sys.M[j].NRows; r++ {
				count += sys.M[j].Get(r, c)
			}
			if count != 1 {
				t.Fatalf("block %d col %d: expected exactly one set bit, got %d", j, c, count)
			}
		}
	}
}

func TestFillRandomSparseExtraAddsDensity(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	sys := mrhs.NewFixed(6, 2, 3, 2)
	FillRandomSparseExtra(sys, 4, rng)

	total := 0
	for j := 0; j < sys.NBlocks; j++ {
		for r := 0; r < sys.M[j].NRows; r++ {
			for c := 0; c < sys.M[j].NCols; c++ {
				total += sys.M[j].Get(r, c)
			}
		}
	}
	if total < 6 {
		t.Fatalf("expected at least the 6 sparse ones plus extra density, got %d set bits", total)
	}
}

func TestFillANDRejectsBadShape(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	sys := mrhs.NewFixed(4, 2, 3, 4)
	if err := FillAND(sys, 10, 1, rng); err == nil {
		t.Fatalf("expected an error for a mismatched row count")
	}
}

func TestFillANDSatisfiesTruthTableOnEveryGateBlock(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	k, m, l := 2, 3, 1
	sys := mrhs.NewFixed(k+m-l, m, 3, 4)
	if err := FillAND(sys, k, l, rng); err != nil {
		t.Fatalf("FillAND: %v", err)
	}

	for block := 0; block < m-l; block++ {
		for r := 0; r < sys.M[block].NRows; r++ {
			count := 0
			for c := 0; c < 3; c++ {
				count += sys.M[block].Get(r, c)
			}
			if count > 1 {
				t.Fatalf("gate block %d row %d: expected at most one set column, got %d", block, r, count)
			}
		}
		for _, row := range andTruthTable {
			found := false
			for r := 0; r < sys.S[block].NRows; r++ {
				if sys.S[block].Get(r, 0) == row[0] && sys.S[block].Get(r, 1) == row[1] && sys.S[block].Get(r, 2) == row[2] {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("gate block %d missing AND truth-table row %v", block, row)
			}
		}
	}
}

func TestEnsureRandomSolutionIsActuallyASolution(t *testing.T) {
	fill := rand.New(rand.NewPCG(11, 13))
	sys := mrhs.NewFixed(4, 3, 3, 3)
	FillRandom(sys, fill)

	// EnsureRandomSolution draws its planted x before touching any
	// block's S, so replaying the same seed through randomVector alone
	// recovers exactly the x it planted.
	planted := rand.New(rand.NewPCG(99, 5))
	sol := randomVector(sys.N, planted)

	ensure := rand.New(rand.NewPCG(99, 5))
	EnsureRandomSolution(sys, ensure)

	for j := 0; j < sys.NBlocks; j++ {
		want := multiplyVectorByBlock(sol, sys.M[j])
		found := false
		for _, row := range sys.S[j].Rows {
			if row == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("block %d: planted solution's image %v not present in S", j, want)
		}
	}
}

func TestGenerateWithConfigDeterministicForSameSeed(t *testing.T) {
	cfg := Config{Mode: "sparse", Seed: 123}
	sysA := mrhs.NewFixed(4, 2, 3, 2)
	sysB := mrhs.NewFixed(4, 2, 3, 2)

	if err := GenerateWithConfig(sysA, cfg); err != nil {
		t.Fatalf("GenerateWithConfig: %v", err)
	}
	if err := GenerateWithConfig(sysB, cfg); err != nil {
		t.Fatalf("GenerateWithConfig: %v", err)
	}
	for j := 0; j < sysA.NBlocks; j++ {
		if !sysA.M[j].RowsEqual(sysB.M[j]) || !sysA.S[j].RowsEqual(sysB.S[j]) {
			t.Fatalf("block %d: same seed produced different systems", j)
		}
	}
}

func TestGenerateWithConfigUnknownMode(t *testing.T) {
	sys := mrhs.NewFixed(2, 1, 2, 1)
	if err := GenerateWithConfig(sys, Config{Mode: "bogus"}); err == nil {
		t.Fatalf("expected an error for an unknown mode")
	}
}

func TestEnsureRandomSolutionNoopOnEmptySystem(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	sys := mrhs.NewVariable(4, 0, nil, nil)
	EnsureRandomSolution(sys, rng)
}
