// Command mrhssolve is the command-line front end for the MRHS/GF(2)
// solver: echelonize, estimate and solve MRHS systems, or generate
// synthetic ones for benchmarking.
package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/smilkos/mrhs-solver-decoding/pkg/activelist"
	"github.com/smilkos/mrhs-solver-decoding/pkg/bitvec"
	"github.com/smilkos/mrhs-solver-decoding/pkg/echelon"
	"github.com/smilkos/mrhs-solver-decoding/pkg/estimate"
	"github.com/smilkos/mrhs-solver-decoding/pkg/genmrhs"
	"github.com/smilkos/mrhs-solver-decoding/pkg/mrhs"
	"github.com/smilkos/mrhs-solver-decoding/pkg/mrhsio"
	"github.com/smilkos/mrhs-solver-decoding/pkg/result"
	"github.com/smilkos/mrhs-solver-decoding/pkg/search"
	"github.com/smilkos/mrhs-solver-decoding/pkg/shard"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mrhssolve",
		Short: "MRHS/GF(2) solver — echelonize, estimate and search multiple-right-hand-side systems",
	}

	// echelonize command
	var echelonizeOutput string

	echelonizeCmd := &cobra.Command{
		Use:   "echelonize [system.mrhs]",
		Short: "Echelonize an MRHS system and report per-block pivot counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := readSystem(args[0])
			if err != nil {
				return err
			}
			ech := echelon.Echelonize(sys)

			fmt.Printf("n=%d m=%d total pivots=%d\n", sys.N, sys.NBlocks, ech.TotalPivots())
			for j, p := range ech.Pivots {
				fmt.Printf("  block %d: p=%d l=%d\n", j, p, sys.M[j].NCols)
			}

			if echelonizeOutput != "" {
				f, err := os.Create(echelonizeOutput)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := mrhsio.WriteSystem(f, sys); err != nil {
					return err
				}
				fmt.Printf("Echelon-form system written to %s\n", echelonizeOutput)
			}
			return nil
		},
	}
	echelonizeCmd.Flags().StringVar(&echelonizeOutput, "output", "", "Write the echelonized M/S back out as an MRHS text file")

	// estimate command
	estimateCmd := &cobra.Command{
		Use:   "estimate [system.mrhs]",
		Short: "Print the N_total/N_xor1/N_xor2 closed-form cost estimators for a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := readSystem(args[0])
			if err != nil {
				return err
			}
			ech := echelon.Echelonize(sys)
			fmt.Printf("N_total = %.2f\n", estimate.NTotal(sys, ech))
			fmt.Printf("N_xor1  = %.2f\n", estimate.NXor1(sys, ech))
			fmt.Printf("N_xor2  = %.2f\n", estimate.NXor2(sys, ech))
			return nil
		},
	}

	// solve command
	var numWorkers int
	var verbose bool
	var solveOutput string
	var maxSolutions int

	solveCmd := &cobra.Command{
		Use:   "solve [system.mrhs]",
		Short: "Exhaustively enumerate every solution of an MRHS system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := readSystem(args[0])
			if err != nil {
				return err
			}
			ech := echelon.Echelonize(sys)
			entries := activelist.Prepare(sys, ech)

			var out *os.File
			if solveOutput != "" {
				out, err = os.Create(solveOutput)
				if err != nil {
					return err
				}
				defer out.Close()
			}

			table := result.NewTable()

			var count int64
			if numWorkers > 0 {
				pool := shard.NewPoolWithConfig(shard.Config{NumWorkers: numWorkers, Verbose: verbose, Output: os.Stderr})
				pool.Results = table
				count = pool.Run(entries, ech, sys.N)
			} else {
				cfg := search.Config{Verbose: verbose, Output: os.Stderr}
				count, _ = search.RunWithConfig(cfg, entries, ech, sys.N, func(c int64, x bitvec.Vector) {
					table.Add(result.Solution{Index: int(c), X: x})
				})
			}

			if out != nil {
				written := 0
				for _, s := range table.Solutions() {
					if maxSolutions > 0 && written >= maxSolutions {
						break
					}
					fmt.Fprintln(out, formatSolution(s.X))
					written++
				}
			}

			fmt.Printf("%d solution(s) found\n", count)
			if solveOutput != "" {
				fmt.Printf("Solutions written to %s\n", solveOutput)
			}
			return nil
		},
	}
	solveCmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of sharded search workers (0 = serial)")
	solveCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print progress to stderr: one line per solution found when serial, a start and a finish line when --workers > 0")
	solveCmd.Flags().StringVar(&solveOutput, "output", "", "Write each solution, one bit string per line, to this file")
	solveCmd.Flags().IntVar(&maxSolutions, "max-solutions", 0, "Cap the number of solutions written to --output (0 = unlimited); the search itself always runs to completion")

	// generate command
	var genN, genM, genWidth, genRHS int
	var genMode string
	var genDensity, genK, genL int
	var genSeed uint64
	var genOutput string
	var genEnsureSolution bool

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic MRHS system",
		RunE: func(cmd *cobra.Command, args []string) error {
			sys := mrhs.NewFixed(genN, genM, genWidth, genRHS)
			cfg := genmrhs.Config{
				Mode:    genMode,
				Density: genDensity,
				K:       genK,
				L:       genL,
				Seed:    genSeed,
			}
			if err := genmrhs.GenerateWithConfig(sys, cfg); err != nil {
				return err
			}
			if genEnsureSolution {
				genmrhs.EnsureRandomSolution(sys, rand.New(rand.NewPCG(genSeed, genSeed^0x9e3779b97f4a7c15)))
			}

			w := os.Stdout
			if genOutput != "" {
				f, err := os.Create(genOutput)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return mrhsio.WriteSystem(w, sys)
		},
	}
	generateCmd.Flags().IntVar(&genN, "n", 8, "Row (variable) count")
	generateCmd.Flags().IntVar(&genM, "m", 4, "Block count")
	generateCmd.Flags().IntVar(&genWidth, "width", 3, "Block width (l_j)")
	generateCmd.Flags().IntVar(&genRHS, "rhs", 4, "Right-hand-side count per block (k_j)")
	generateCmd.Flags().StringVar(&genMode, "mode", "random", "Generation mode: random, sparse, sparse-extra, and, and-sparse")
	generateCmd.Flags().IntVar(&genDensity, "density", 0, "Extra-ones density for sparse-extra/and-sparse modes")
	generateCmd.Flags().IntVar(&genK, "k", 0, "Key-variable count for and/and-sparse modes")
	generateCmd.Flags().IntVar(&genL, "l", 0, "Filter-block count for and/and-sparse modes")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 1, "PRNG seed")
	generateCmd.Flags().StringVar(&genOutput, "output", "", "Output file path (default stdout)")
	generateCmd.Flags().BoolVar(&genEnsureSolution, "ensure-solution", false, "Adjust S so a random x is guaranteed to be a solution")

	rootCmd.AddCommand(echelonizeCmd, estimateCmd, solveCmd, generateCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func readSystem(path string) (mrhs.System, error) {
	f, err := os.Open(path)
	if err != nil {
		return mrhs.System{}, fmt.Errorf("mrhssolve: %w", err)
	}
	defer f.Close()
	sys, err := mrhsio.ReadSystem(f)
	if err != nil {
		return mrhs.System{}, fmt.Errorf("mrhssolve: %w", err)
	}
	return sys, nil
}

func formatSolution(x bitvec.Vector) string {
	buf := make([]byte, x.Len())
	for i := 0; i < x.Len(); i++ {
		if x.Get(i) == 1 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}
