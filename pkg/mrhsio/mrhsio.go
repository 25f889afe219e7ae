// Package mrhsio reads and writes the MRHS system text format, mirroring
// read_mrhs_variable, write_mrhs_variable and print_mrhs: a
// header giving the row count and per-block (width, right-hand-side
// count) pairs, followed by the M matrix and then each block's S matrix,
// each row written as a bracketed run of '0'/'1' digits, plus a
// user-readable pretty-printed form with no brackets.
package mrhsio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/smilkos/mrhs-solver-decoding/pkg/bitword"
	"github.com/smilkos/mrhs-solver-decoding/pkg/mrhs"
)

// WriteSystem serializes sys in the variable-block-size text format.
func WriteSystem(w io.Writer, sys mrhs.System) error {
	bw := bufio.NewWriter(w)

	if sys.NBlocks == 0 {
		return bw.Flush()
	}

	if _, err := fmt.Fprintf(bw, "%d %d\n", sys.N, sys.NBlocks); err != nil {
		return err
	}
	// Header order is (l_j, k_j) — block width then right-hand-side
	// count — matching the original format's on-disk field order, which
	// is also the (widths, counts) parameter order of
	// create_mrhs_variable and mrhs.NewVariable.
	for j := 0; j < sys.NBlocks; j++ {
		if _, err := fmt.Fprintf(bw, "%d %d\n", sys.M[j].NCols, sys.S[j].NRows); err != nil {
			return err
		}
	}

	for r := 0; r < sys.N; r++ {
		if _, err := fmt.Fprint(bw, "[ "); err != nil {
			return err
		}
		for j := 0; j < sys.NBlocks; j++ {
			writeBlockBits(bw, sys.M[j].Rows[r], sys.M[j].NCols)
			fmt.Fprint(bw, " ")
		}
		if _, err := fmt.Fprint(bw, "]\n"); err != nil {
			return err
		}
	}

	for j := 0; j < sys.NBlocks; j++ {
		if _, err := fmt.Fprint(bw, "\n"); err != nil {
			return err
		}
		for r := 0; r < sys.S[j].NRows; r++ {
			if _, err := fmt.Fprint(bw, "["); err != nil {
				return err
			}
			writeBlockBits(bw, sys.S[j].Rows[r], sys.S[j].NCols)
			if _, err := fmt.Fprint(bw, "]\n"); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// PrintSystem writes sys in the user-readable form of print_mrhs: the M
// matrix one row per line (no brackets), a "-"-per-column separator row,
// then the S blocks side by side, short blocks padded with spaces so
// every column lines up.
func PrintSystem(w io.Writer, sys mrhs.System) error {
	bw := bufio.NewWriter(w)
	if sys.NBlocks == 0 {
		return bw.Flush()
	}

	for r := 0; r < sys.N; r++ {
		for j := 0; j < sys.NBlocks; j++ {
			writeBlockBits(bw, sys.M[j].Rows[r], sys.M[j].NCols)
			fmt.Fprint(bw, " ")
		}
		fmt.Fprint(bw, "\n")
	}

	for j := 0; j < sys.NBlocks; j++ {
		for c := 0; c < sys.M[j].NCols; c++ {
			fmt.Fprint(bw, "-")
		}
		fmt.Fprint(bw, " ")
	}
	fmt.Fprint(bw, "\n")

	maxRHS := 0
	for j := 0; j < sys.NBlocks; j++ {
		if sys.S[j].NRows > maxRHS {
			maxRHS = sys.S[j].NRows
		}
	}
	for r := 0; r < maxRHS; r++ {
		for j := 0; j < sys.NBlocks; j++ {
			if r >= sys.S[j].NRows {
				fmt.Fprint(bw, strings.Repeat(" ", sys.S[j].NCols+1))
				continue
			}
			writeBlockBits(bw, sys.S[j].Rows[r], sys.S[j].NCols)
			fmt.Fprint(bw, " ")
		}
		fmt.Fprint(bw, "\n")
	}

	return bw.Flush()
}

func writeBlockBits(w io.Writer, word bitword.Word, width int) {
	var sb strings.Builder
	sb.Grow(width)
	for c := 0; c < width; c++ {
		if bitword.BitAt(word, c) == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	io.WriteString(w, sb.String())
}

// ReadSystem deserializes a system written by WriteSystem.
func ReadSystem(r io.Reader) (mrhs.System, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	s.Split(bufio.ScanWords)

	scanInt := func() (int, error) {
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		var v int
		if _, err := fmt.Sscanf(s.Text(), "%d", &v); err != nil {
			return 0, fmt.Errorf("mrhsio: expected integer, got %q: %w", s.Text(), err)
		}
		return v, nil
	}

	n, err := scanInt()
	if err != nil {
		return mrhs.System{}, err
	}
	m, err := scanInt()
	if err != nil {
		return mrhs.System{}, err
	}

	widths := make([]int, m)
	counts := make([]int, m)
	for j := 0; j < m; j++ {
		widths[j], err = scanInt()
		if err != nil {
			return mrhs.System{}, err
		}
		counts[j], err = scanInt()
		if err != nil {
			return mrhs.System{}, err
		}
	}

	sys := mrhs.NewVariable(n, m, widths, counts)

	scanToken := func() (string, error) {
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return s.Text(), nil
	}

	for r := 0; r < n; r++ {
		// Row layout is "[ " <block0> " " <block1> ... "]", the leading
		// and trailing brackets being their own whitespace-delimited
		// tokens since they're written with a surrounding space.
		open, err := scanToken()
		if err != nil {
			return mrhs.System{}, err
		}
		if open != "[" {
			return mrhs.System{}, fmt.Errorf("mrhsio: row %d: expected '[', got %q", r, open)
		}
		for j := 0; j < m; j++ {
			tok, err := scanToken()
			if err != nil {
				return mrhs.System{}, err
			}
			if len(tok) != widths[j] {
				return mrhs.System{}, fmt.Errorf("mrhsio: row %d block %d expected %d bits, got %q", r, j, widths[j], tok)
			}
			for c, ch := range tok {
				if ch == '1' {
					sys.M[j].Set(r, c, 1)
				}
			}
		}
		closeTok, err := scanToken()
		if err != nil {
			return mrhs.System{}, err
		}
		if closeTok != "]" {
			return mrhs.System{}, fmt.Errorf("mrhsio: row %d: expected ']', got %q", r, closeTok)
		}
	}

	for j := 0; j < m; j++ {
		for row := 0; row < counts[j]; row++ {
			tok, err := scanToken()
			if err != nil {
				return mrhs.System{}, err
			}
			tok = strings.Trim(tok, "[]")
			if len(tok) != widths[j] {
				return mrhs.System{}, fmt.Errorf("mrhsio: S block %d row %d expected %d bits, got %q", j, row, widths[j], tok)
			}
			for c, ch := range tok {
				if ch == '1' {
					sys.S[j].Set(row, c, 1)
				}
			}
		}
	}

	return sys, nil
}
