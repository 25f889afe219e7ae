package mrhsio

import (
	"bytes"
	"strings"
	"testing"

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

func TestWriteReadRoundTrip(t *testing.T) {
	sys := buildScenarioA()

	var buf bytes.Buffer
	if err := WriteSystem(&buf, sys); err != nil {
		t.Fatalf("WriteSystem: %v", err)
	}

	got, err := ReadSystem(&buf)
	if err != nil {
		t.Fatalf("ReadSystem: %v\ncontents:\n%s", err, buf.String())
	}

	if got.N != sys.N || got.NBlocks != sys.NBlocks {
		t.Fatalf("shape mismatch: got N=%d NBlocks=%d, want N=%d NBlocks=%d", got.N, got.NBlocks, sys.N, sys.NBlocks)
	}
	for j := 0; j < sys.NBlocks; j++ {
		if !got.M[j].RowsEqual(sys.M[j]) {
			t.Fatalf("M block %d mismatch after round trip", j)
		}
		if !got.S[j].RowsEqual(sys.S[j]) {
			t.Fatalf("S block %d mismatch after round trip", j)
		}
	}
}

func TestWriteEmptySystem(t *testing.T) {
	sys := mrhs.NewVariable(4, 0, nil, nil)
	var buf bytes.Buffer
	if err := WriteSystem(&buf, sys); err != nil {
		t.Fatalf("WriteSystem: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty output for a zero-block system, got %q", buf.String())
	}
}

func TestReadRejectsWrongBitWidth(t *testing.T) {
	bad := "2 1\n3 1\n[ 01 ]\n[ 1 ]\n\n[101]\n"
	_, err := ReadSystem(bytes.NewBufferString(bad))
	if err == nil {
		t.Fatalf("expected an error for a mismatched block width")
	}
}

func TestPrintSystemHasNoBrackets(t *testing.T) {
	sys := buildScenarioA()
	var buf bytes.Buffer
	if err := PrintSystem(&buf, sys); err != nil {
		t.Fatalf("PrintSystem: %v", err)
	}
	if strings.ContainsAny(buf.String(), "[]") {
		t.Fatalf("expected no brackets in pretty-printed output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "--") {
		t.Fatalf("expected a separator row of dashes, got %q", buf.String())
	}
}

func TestPrintSystemEmptySystem(t *testing.T) {
	sys := mrhs.NewVariable(4, 0, nil, nil)
	var buf bytes.Buffer
	if err := PrintSystem(&buf, sys); err != nil {
		t.Fatalf("PrintSystem: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty output for a zero-block system, got %q", buf.String())
	}
}
