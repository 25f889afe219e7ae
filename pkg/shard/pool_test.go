package shard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/smilkos/mrhs-solver-decoding/pkg/activelist"
	"github.com/smilkos/mrhs-solver-decoding/pkg/echelon"
	"github.com/smilkos/mrhs-solver-decoding/pkg/mrhs"
)

func buildScenarioA() mrhs.System {
	sys := mrhs.NewVariable(3, 2, []int{2, 2}, []int{2, 2})
	m1 := [][2]int{{1, 0}, {0, 1}, {1, 1}}
	m2 := [][2]int{{1, 1}, {1, 0}, {0, 1}}
	for r := 0; r < 3; r++ {
		sys.M[0].Set(r, 0, m1[r][0])
		sys.M[0].Set(r, 1, m1[r][1])
		sys.M[1].Set(r, 0, m2[r][0])
		sys.M[1].Set(r, 1, m2[r][1])
	}
	s1 := [][2]int{{0, 0}, {1, 1}}
	s2 := [][2]int{{0, 0}, {1, 0}}
	for r := 0; r < 2; r++ {
		sys.S[0].Set(r, 0, s1[r][0])
		sys.S[0].Set(r, 1, s1[r][1])
		sys.S[1].Set(r, 0, s2[r][0])
		sys.S[1].Set(r, 1, s2[r][1])
	}
	return sys
}

func TestPoolRunMatchesSerialSolve(t *testing.T) {
	sys := buildScenarioA()
	ech := echelon.Echelonize(sys)
	entries := activelist.Prepare(sys, ech)

	pool := NewPool(2)
	count := pool.Run(entries, ech, sys.N)
	if count != 2 {
		t.Fatalf("expected 2 solutions, got %d", count)
	}
	if pool.Results.Len() != 2 {
		t.Fatalf("expected 2 recorded solutions, got %d", pool.Results.Len())
	}
	nodes, _, found := pool.Stats()
	if nodes == 0 {
		t.Fatalf("expected nonzero node count")
	}
	if found != 2 {
		t.Fatalf("found counter: got %d, want 2", found)
	}
}

func TestPoolRunSingleBlock(t *testing.T) {
	sys := mrhs.NewVariable(3, 1, []int{3}, []int{1})
	for r := 0; r < 3; r++ {
		sys.M[0].Set(r, r, 1)
	}
	sys.S[0].Set(0, 0, 1)
	sys.S[0].Set(0, 2, 1)

	ech := echelon.Echelonize(sys)
	entries := activelist.Prepare(sys, ech)

	pool := NewPool(4)
	count := pool.Run(entries, ech, sys.N)
	if count != 1 {
		t.Fatalf("expected exactly 1 solution, got %d", count)
	}
}

func TestPoolRunWithConfigVerboseWritesProgress(t *testing.T) {
	sys := buildScenarioA()
	ech := echelon.Echelonize(sys)
	entries := activelist.Prepare(sys, ech)

	var buf bytes.Buffer
	pool := NewPoolWithConfig(Config{NumWorkers: 2, Verbose: true, Output: &buf})
	count := pool.Run(entries, ech, sys.N)
	if count != 2 {
		t.Fatalf("expected 2 solutions, got %d", count)
	}
	if !strings.Contains(buf.String(), "shard:") {
		t.Fatalf("expected shard progress output, got %q", buf.String())
	}
}

func TestPoolRunEmptySystem(t *testing.T) {
	sys := mrhs.NewVariable(2, 0, nil, nil)
	ech := echelon.Echelonize(sys)
	entries := activelist.Prepare(sys, ech)

	pool := NewPool(1)
	count := pool.Run(entries, ech, sys.N)
	if count != 1 {
		t.Fatalf("expected exactly 1 solution for the empty block sequence, got %d", count)
	}
}
