package result

import (
	"encoding/gob"
	"os"

	"github.com/smilkos/mrhs-solver-decoding/pkg/bitvec"
)

// solutionSnapshot is the gob-friendly encoding of a Solution: gob only
// encodes exported fields, and bitvec.Vector keeps its word slice
// private, so a checkpoint stores the vector's length and raw words
// instead of the Vector itself.
type solutionSnapshot struct {
	Index int
	N     int
	Words []uint64
}

// Checkpoint holds state for resuming a long-running solve.
type Checkpoint struct {
	Solutions    []solutionSnapshot
	NodesVisited int64
	XorsDone     int64
	// NextBlock and NextCandidate pin the search loop's exact resume
	// point: the block the non-recursive loop was at, and the candidate
	// index selected there when the checkpoint was taken.
	NextBlock     int
	NextCandidate int
}

// SaveCheckpoint writes search state to path.
func SaveCheckpoint(path string, table *Table, nodes, xors int64, nextBlock, nextCandidate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ckpt := Checkpoint{
		NodesVisited:  nodes,
		XorsDone:      xors,
		NextBlock:     nextBlock,
		NextCandidate: nextCandidate,
	}
	for _, s := range table.Solutions() {
		ckpt.Solutions = append(ckpt.Solutions, solutionSnapshot{
			Index: s.Index,
			N:     s.X.Len(),
			Words: s.X.Words(),
		})
	}
	return gob.NewEncoder(f).Encode(&ckpt)
}

// LoadCheckpoint loads search state from path, returning the resumed
// solution table alongside the raw checkpoint metadata.
func LoadCheckpoint(path string) (*Table, Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Checkpoint{}, err
	}
	defer f.Close()

	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, Checkpoint{}, err
	}

	table := NewTable()
	for _, s := range ckpt.Solutions {
		table.Add(Solution{Index: s.Index, X: bitvec.FromWords(s.N, s.Words)})
	}
	return table, ckpt, nil
}
