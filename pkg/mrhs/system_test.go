package mrhs

import "testing"

func TestNewFixedShape(t *testing.T) {
	sys := NewFixed(5, 3, 2, 4)
	if sys.N != 5 || sys.NBlocks != 3 {
		t.Fatalf("unexpected system shape")
	}
	for b := 0; b < 3; b++ {
		if sys.M[b].NRows != 5 || sys.M[b].NCols != 2 {
			t.Fatalf("block %d M shape wrong", b)
		}
		if sys.S[b].NRows != 4 || sys.S[b].NCols != 2 {
			t.Fatalf("block %d S shape wrong", b)
		}
	}
	if !sys.Valid() {
		t.Fatalf("freshly built system should be valid")
	}
}

func TestNewVariableShape(t *testing.T) {
	sys := NewVariable(4, 2, []int{2, 3}, []int{1, 4})
	if sys.M[0].NCols != 2 || sys.M[1].NCols != 3 {
		t.Fatalf("block widths not honored")
	}
	if sys.S[0].NRows != 1 || sys.S[1].NRows != 4 {
		t.Fatalf("rhs counts not honored")
	}
	if !sys.Valid() {
		t.Fatalf("system should be valid")
	}
}

func TestEmptySystem(t *testing.T) {
	sys := NewVariable(3, 0, nil, nil)
	if !sys.Valid() {
		t.Fatalf("zero-block system should be valid")
	}
	if len(sys.BlockWidths()) != 0 {
		t.Fatalf("expected no block widths")
	}
}

func TestCloneIndependent(t *testing.T) {
	sys := NewFixed(2, 1, 2, 1)
	sys.M[0].Set(0, 0, 1)
	clone := sys.Clone()
	clone.M[0].Set(0, 0, 0)
	if sys.M[0].Get(0, 0) != 1 {
		t.Fatalf("clone should not alias original")
	}
}

func TestInvalidMismatchedRows(t *testing.T) {
	sys := NewFixed(2, 1, 2, 1)
	sys.M[0] = sys.M[0]
	sys.N = 3 // now mismatched against M[0].NRows == 2
	if sys.Valid() {
		t.Fatalf("expected invalid system after row-count mismatch")
	}
}
