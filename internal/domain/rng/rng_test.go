package rng

import "testing"

func TestNew_SameSeedSameSequence(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		if got, want := a.Float64(), b.Float64(); got != want {
			t.Fatalf("draw %d: got %v want %v", i, got, want)
		}
	}
}

func TestUniform_StaysInRange(t *testing.T) {
	src := New(7)
	for i := 0; i < 10000; i++ {
		v := Uniform(src, -2, 3)
		if v < -2 || v > 3 {
			t.Fatalf("uniform out of range: %v", v)
		}
	}
}

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func TestIndex_Bounds(t *testing.T) {
	if got := Index(constSource(0.9999999999), 4); got != 3 {
		t.Fatalf("Index high = %d, want 3", got)
	}
	if got := Index(constSource(0), 4); got != 0 {
		t.Fatalf("Index low = %d, want 0", got)
	}
	if got := Index(constSource(0.5), 0); got != 0 {
		t.Fatalf("Index empty = %d, want 0", got)
	}
}
