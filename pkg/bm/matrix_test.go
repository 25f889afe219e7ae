package bm

import "testing"

func TestSetGet(t *testing.T) {
	m := New(3, 2)
	m.Set(0, 0, 1)
	m.Set(1, 1, 1)
	if m.Get(0, 0) != 1 || m.Get(0, 1) != 0 {
		t.Fatalf("row0 mismatch")
	}
	if m.Get(1, 0) != 0 || m.Get(1, 1) != 1 {
		t.Fatalf("row1 mismatch")
	}
}

func TestSwapRowsAndXor(t *testing.T) {
	m := New(2, 2)
	m.Set(0, 0, 1)
	m.Set(1, 1, 1)
	m.SwapRows(0, 1)
	if m.Get(0, 1) != 1 || m.Get(1, 0) != 1 {
		t.Fatalf("swap failed")
	}
	m.XorRowInto(0, 1)
	// row1 (after swap: [1,0]) xor row0 ([0,1]) = [1,1]
	if m.Get(1, 0) != 1 || m.Get(1, 1) != 1 {
		t.Fatalf("xor failed: got (%d,%d)", m.Get(1, 0), m.Get(1, 1))
	}
}

func TestSwapColumns(t *testing.T) {
	m := New(1, 3)
	m.Set(0, 0, 1)
	m.SwapColumns(0, 2)
	if m.Get(0, 0) != 0 || m.Get(0, 2) != 1 {
		t.Fatalf("column swap failed")
	}
}

func TestClone(t *testing.T) {
	m := New(1, 2)
	m.Set(0, 0, 1)
	c := m.Clone()
	c.Set(0, 1, 1)
	if m.Get(0, 1) != 0 {
		t.Fatalf("clone should be independent")
	}
}
