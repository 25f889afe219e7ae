// Package search implements the non-recursive depth-first solver loop:
// it walks the active list built by package activelist,
// descending into a block's bucket, advancing along a bucket's chain
// when a candidate is exhausted, and backtracking when a block's bucket
// is empty or its chain runs out.
package search

import (
	"fmt"
	"io"

	"github.com/smilkos/mrhs-solver-decoding/pkg/activelist"
	"github.com/smilkos/mrhs-solver-decoding/pkg/bitvec"
	"github.com/smilkos/mrhs-solver-decoding/pkg/bitword"
	"github.com/smilkos/mrhs-solver-decoding/pkg/echelon"
)

// Config controls the optional progress reporting around a search run.
type Config struct {
	// Verbose, when true, writes one progress line per solution found to
	// Output (defaulting to nothing printed if Output is nil).
	Verbose bool
	Output  io.Writer
}

// Stats accumulates the counters the search loop reports: total search
// nodes visited and XOR operations performed, in the granularity the
// N_total / N_xor1 / N_xor2 estimators in package estimate assume.
type Stats struct {
	Nodes int64
	Xors  int64
}

// Callback receives each emitted solution, numbered from 1. x is an
// n-bit vector in the original (pre-echelonization) variable space.
type Callback func(count int64, x bitvec.Vector)

// notVisited marks a block this descent path hasn't looked up a bucket
// for yet, distinguishing a fresh Descend from a Next-candidate revisit.
const notVisited = -2

// wordsFor returns how many 64-bit words an n-bit vector XOR spans,
// the per-operation cost unit the XOR counter uses.
func wordsFor(n int) int64 {
	return int64((n + bitword.Width - 1) / bitword.Width)
}

// Solve runs the search to exhaustion and reports every solution via
// report. n is the original system's row count (the width of emitted
// solution vectors).
func Solve(entries []activelist.ActiveListEntry, ech echelon.Result, n int, report Callback) (int64, Stats) {
	m := len(entries)
	var stats Stats
	var count int64

	if m == 0 {
		// An empty block sequence is satisfied by exactly the zero vector,
		// with a single trivial node and no XOR work. General free-row
		// enumeration is not applied here because there is no pivot
		// structure to anchor it to: with zero blocks every row of A is
		// vacuously "free", and enumerating all 2^n of them would
		// overcount this boundary case.
		stats.Nodes = 1
		count = 1
		report(count, bitvec.New(n))
		return count, stats
	}

	runningBlocks := make([]bitword.Word, m)
	return run(entries, ech, n, 0, runningBlocks, bitvec.New(n), report)
}

// SolveFrom runs the same loop as Solve but with blocks [0, start) already
// pinned: initBlocks and initX are the running state those pinned blocks'
// chosen candidates produced, and search proceeds over blocks
// [start, len(entries)). It never backtracks past start, so it explores
// exactly the shard of the search space consistent with the pinned
// prefix. Used by package shard to fan the top-level search for the
// first block out across goroutines.
func SolveFrom(entries []activelist.ActiveListEntry, ech echelon.Result, n, start int, initBlocks []bitword.Word, initX bitvec.Vector, report Callback) (int64, Stats) {
	runningBlocks := make([]bitword.Word, len(entries))
	copy(runningBlocks, initBlocks)
	return run(entries, ech, n, start, runningBlocks, initX.Clone(), report)
}

// RunWithConfig runs Solve, additionally writing a progress line per
// solution to cfg.Output when cfg.Verbose is set. A nil cfg.Output is
// treated as "discard" rather than defaulting to os.Stderr, so library
// callers never get surprise output on a misconfigured Config.
func RunWithConfig(cfg Config, entries []activelist.ActiveListEntry, ech echelon.Result, n int, report Callback) (int64, Stats) {
	if cfg.Verbose && cfg.Output != nil {
		inner := report
		report = func(count int64, x bitvec.Vector) {
			fmt.Fprintf(cfg.Output, "search: solution %d found\n", count)
			inner(count, x)
		}
	}
	return Solve(entries, ech, n, report)
}

// run is the non-recursive descend/next-candidate/backtrack loop shared
// by Solve and SolveFrom. runningBlocks/runningX must already reflect
// every block strictly before start; the loop never backtracks past
// start.
func run(entries []activelist.ActiveListEntry, ech echelon.Result, n, start int, runningBlocks []bitword.Word, runningX bitvec.Vector, report Callback) (int64, Stats) {
	m := len(entries)
	var stats Stats
	var count int64

	if start >= m {
		// Every block was already pinned by the caller (the single-block
		// shard case): nothing left to descend into, just expand the
		// pinned tuple's free rows.
		emitFreeRowCombinations(runningX, ech.A, ech.FreeRows(n), &count, report)
		return count, stats
	}

	frames := make([]int, m)
	for i := range frames {
		frames[i] = notVisited
	}

	apply := func(blockIdx, candIdx int) {
		cand := entries[blockIdx].Candidates[candIdx]
		for k := range runningBlocks {
			runningBlocks[k] = bitword.Xor(runningBlocks[k], cand.SumBlocks[k])
		}
		runningX.XorInto(cand.SumX)
		stats.Xors += wordsFor(n)
	}

	freeRows := ech.FreeRows(n)

	emit := func() {
		emitFreeRowCombinations(runningX, ech.A, freeRows, &count, report)
	}

	i := start
	for i >= start {
		entry := &entries[i]
		var nextIdx int
		if frames[i] == notVisited {
			bucket := bitword.IndexPart(runningBlocks[i], entry.Width, entry.Pivots)
			nextIdx = entry.LUT[bucket]
		} else {
			apply(i, frames[i]) // XOR is its own inverse: undoes the current candidate
			nextIdx = entry.Candidates[frames[i]].Next
		}

		if nextIdx == -1 {
			frames[i] = notVisited
			i--
			continue
		}

		frames[i] = nextIdx
		apply(i, nextIdx)
		stats.Nodes++

		if i == m-1 {
			emit()
			continue
		}
		i++
	}

	return count, stats
}

// emitFreeRowCombinations expands one engine-level candidate tuple into
// every true solution it represents. A tuple pins y at each pivot row it
// selected through; every row that was never any block's pivot (the
// rows FreeRows names) is a free component of y, and each of its
// 2^len(freeRows) assignments yields a distinct x = y . A (see
// DESIGN.md, "free-row enumeration"). baseX already holds the pivot
// rows' contribution.
func emitFreeRowCombinations(baseX bitvec.Vector, a []bitvec.Vector, freeRows []int, count *int64, report Callback) {
	k := len(freeRows)
	for mask := 0; mask < (1 << uint(k)); mask++ {
		x := baseX.Clone()
		for bit, row := range freeRows {
			if mask&(1<<uint(bit)) != 0 {
				x.XorInto(a[row])
			}
		}
		*count++
		report(*count, x)
	}
}
