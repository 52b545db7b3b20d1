package odds

import (
	"math"
	"testing"
)

func TestImpliedProbability_NoBets(t *testing.T) {
	if got := ImpliedProbability(0, 0); got != 50.0 {
		t.Fatalf("expected 50.0 for empty market, got %v", got)
	}
}

func TestImpliedProbability_Complement(t *testing.T) {
	cases := [][2]float64{
		{10, 30},
		{1, 1},
		{0.5, 99.5},
		{1e9, 3},
		{123.45, 678.9},
	}
	for _, c := range cases {
		p := ImpliedProbability(c[0], c[1])
		q := ImpliedProbability(c[1], c[0])
		if p <= 0 || p >= 100 {
			t.Errorf("ImpliedProbability(%v,%v)=%v out of (0,100)", c[0], c[1], p)
		}
		if math.Abs(p+q-100) > 1e-9 {
			t.Errorf("complement broken: p(%v,%v)+p(%v,%v)=%v", c[0], c[1], c[1], c[0], p+q)
		}
	}
}

func TestImpliedProbability_OneSided(t *testing.T) {
	if got := ImpliedProbability(1e9, 0); got != 100.0 {
		t.Fatalf("expected exactly 100.0, got %v", got)
	}
	if got := ImpliedProbability(0, 1e9); got != 0.0 {
		t.Fatalf("expected exactly 0.0, got %v", got)
	}
	if math.IsNaN(ImpliedProbability(1e9, 0)) {
		t.Fatal("got NaN")
	}
}

func TestImpliedProbability_KnownValues(t *testing.T) {
	if got := ImpliedProbability(10, 30); got != 25.0 {
		t.Fatalf("expected 25.0 for (10,30), got %v", got)
	}
	if got := ImpliedProbability(50, 50); got != 50.0 {
		t.Fatalf("expected 50.0 for (50,50), got %v", got)
	}
}
