// Package shard fans the top-level search out across goroutines by assigning
// each worker a disjoint subset of the first block's candidates, then
// runs the ordinary non-recursive search over the remaining blocks for
// each one.
package shard

import (
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/smilkos/mrhs-solver-decoding/pkg/activelist"
	"github.com/smilkos/mrhs-solver-decoding/pkg/bitvec"
	"github.com/smilkos/mrhs-solver-decoding/pkg/bitword"
	"github.com/smilkos/mrhs-solver-decoding/pkg/echelon"
	"github.com/smilkos/mrhs-solver-decoding/pkg/result"
	"github.com/smilkos/mrhs-solver-decoding/pkg/search"
)

// Config controls a Pool's worker count and progress reporting, the same
// zero-value-defaulting shape as search.Config.
type Config struct {
	// NumWorkers, if <= 0, defaults to runtime.NumCPU().
	NumWorkers int
	Verbose    bool
	Output     io.Writer
	// Rand seeds the shard-order shuffle used to spread work evenly
	// across workers when shard sizes are uneven; it never affects which
	// solutions are found, only the order shards are handed out. Nil
	// uses a PCG source with the fixed seed (1, 1), so the order is the
	// same on every run.
	Rand *rand.Rand
}

// Pool runs a sharded search with a fixed number of worker goroutines,
// collecting every solution into a shared Table.
type Pool struct {
	NumWorkers int
	Results    *result.Table

	verbose bool
	output  io.Writer
	rng     *rand.Rand

	nodes atomic.Int64
	xors  atomic.Int64
	found atomic.Int64
}

// NewPool creates a pool. A non-positive numWorkers defaults to
// runtime.NumCPU().
func NewPool(numWorkers int) *Pool {
	return NewPoolWithConfig(Config{NumWorkers: numWorkers})
}

// NewPoolWithConfig creates a pool from a Config, applying the same
// zero-value defaulting NewPool does plus optional verbose progress
// reporting.
func NewPoolWithConfig(cfg Config) *Pool {
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 1))
	}
	return &Pool{
		NumWorkers: numWorkers,
		Results:    result.NewTable(),
		verbose:    cfg.Verbose,
		output:     cfg.Output,
		rng:        rng,
	}
}

// Stats reports the counters accumulated across every shard so far.
func (p *Pool) Stats() (nodes, xors, found int64) {
	return p.nodes.Load(), p.xors.Load(), p.found.Load()
}

// Run shards the search by the first block's candidates and blocks until
// every shard completes, returning the total solution count.
func (p *Pool) Run(entries []activelist.ActiveListEntry, ech echelon.Result, n int) int64 {
	if len(entries) == 0 {
		return p.runWhole(entries, ech, n)
	}

	shardCandidates := candidateIndices(entries[0])
	if len(shardCandidates) == 0 {
		return 0
	}
	// Shuffle the enqueue order so that runs of candidates sharing one
	// bucket (and therefore one likely cost) don't all land on the same
	// worker back-to-back. This never changes which shards run, only the
	// order they're handed out in.
	p.rng.Shuffle(len(shardCandidates), func(i, j int) {
		shardCandidates[i], shardCandidates[j] = shardCandidates[j], shardCandidates[i]
	})

	if p.verbose && p.output != nil {
		fmt.Fprintf(p.output, "shard: %d candidates across %d workers\n", len(shardCandidates), p.NumWorkers)
	}

	ch := make(chan int, len(shardCandidates))
	for _, idx := range shardCandidates {
		ch <- idx
	}
	close(ch)

	var counter atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < p.NumWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range ch {
				p.runShard(entries, ech, n, idx, &counter)
			}
		}()
	}
	wg.Wait()
	if p.verbose && p.output != nil {
		fmt.Fprintf(p.output, "shard: done, %d solutions found\n", counter.Load())
	}
	return counter.Load()
}

// runWhole handles the degenerate zero-block system directly, since
// there is no first block to shard by.
func (p *Pool) runWhole(entries []activelist.ActiveListEntry, ech echelon.Result, n int) int64 {
	count, stats := search.Solve(entries, ech, n, func(_ int64, x bitvec.Vector) {
		p.record(x)
	})
	p.nodes.Add(stats.Nodes)
	p.xors.Add(stats.Xors)
	return count
}

// runShard pins the first block to one candidate and runs the ordinary
// search loop over the remaining blocks.
func (p *Pool) runShard(entries []activelist.ActiveListEntry, ech echelon.Result, n, candIdx int, counter *atomic.Int64) {
	m := len(entries)
	cand := entries[0].Candidates[candIdx]

	runningBlocks := make([]bitword.Word, m)
	copy(runningBlocks, cand.SumBlocks)
	runningX := cand.SumX.Clone()

	p.nodes.Add(1)
	p.xors.Add(int64((n + bitword.Width - 1) / bitword.Width))

	_, stats := search.SolveFrom(entries, ech, n, 1, runningBlocks, runningX, func(_ int64, x bitvec.Vector) {
		counter.Add(1)
		p.record(x)
	})
	p.nodes.Add(stats.Nodes)
	p.xors.Add(stats.Xors)
}

func (p *Pool) record(x bitvec.Vector) {
	idx := p.found.Add(1)
	p.Results.Add(result.Solution{Index: int(idx), X: x})
}

// candidateIndices walks the bucket chain at entry.LUT[0] and returns
// every candidate's index into entry.Candidates, the work units a
// sharded search distributes across workers. Only bucket 0 is visited:
// the serial loop's first block always descends with a zero running
// state (nothing has run yet), so bucket 0 is the only bucket block 0's
// own descent can ever select. Candidates filed under any other bucket
// only become reachable at block 0 once the running state already holds
// a nonzero contribution, which cannot happen before block 0 moves.
func candidateIndices(entry activelist.ActiveListEntry) []int {
	var out []int
	if len(entry.LUT) == 0 {
		return out
	}
	for idx := entry.LUT[0]; idx != -1; idx = entry.Candidates[idx].Next {
		out = append(out, idx)
	}
	return out
}
