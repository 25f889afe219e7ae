// Package estimate implements the closed-form cost estimators from the
// Raddum-Zajac article: N_total predicts the number of search
// nodes visited, N_xor1 and N_xor2 bound the XOR work, all derived from
// an echelonized system's per-block pivot counts and right-hand-side
// sizes, without running the search itself.
package estimate

import (
	"math"

	"github.com/smilkos/mrhs-solver-decoding/pkg/echelon"
	"github.com/smilkos/mrhs-solver-decoding/pkg/mrhs"
)

// factors returns, for each block j, |S_j| * 2^(p_j - l_j) — the per-block
// multiplicative term every estimator's running product is built from.
func factors(sys mrhs.System, ech echelon.Result) []float64 {
	widths := sys.BlockWidths()
	sizes := sys.RHSCounts()
	out := make([]float64, sys.NBlocks)
	for j := range out {
		out[j] = float64(sizes[j]) * math.Pow(2, float64(ech.Pivots[j]-widths[j]))
	}
	return out
}

// NTotal estimates the number of search nodes: sum(prod(f_j, j=1..i-1), i=2..m).
// This omits a root-node "+1" term that the Raddum-Zajac article's closed
// form states explicitly; it matches mrhs.c's get_expected and the node
// counter's semantics (Stats.Nodes only counts descents, not the implicit
// root) instead.
func NTotal(sys mrhs.System, ech echelon.Result) float64 {
	f := factors(sys, ech)
	m := len(f)
	total := 0.0
	prod := 1.0
	for i := 2; i <= m; i++ {
		prod *= f[i-2]
		total += prod
	}
	return total
}

// NXor1 estimates total XOR operations: sum((m-i+1)*prod(f_j, j=1..i-1), i=2..m).
func NXor1(sys mrhs.System, ech echelon.Result) float64 {
	f := factors(sys, ech)
	m := len(f)
	total := 0.0
	prod := 1.0
	for i := 2; i <= m; i++ {
		prod *= f[i-2]
		total += float64(m-i+1) * prod
	}
	return total
}

// NXor2 estimates useful (non-cancelling) XOR operations:
// sum((1-2^-p_{i-1})*(m-i+1)*prod(f_j, j=1..i-1), i=2..m).
func NXor2(sys mrhs.System, ech echelon.Result) float64 {
	f := factors(sys, ech)
	m := len(f)
	total := 0.0
	prod := 1.0
	for i := 2; i <= m; i++ {
		prod *= f[i-2]
		factor := 1 - math.Pow(2, -float64(ech.Pivots[i-2]))
		total += factor * float64(m-i+1) * prod
	}
	return total
}
