// Package sp_test contains unit tests for the packet-set store: handle
// invariants, Boolean-algebra laws over the exhaustive diagram set, and
// the Test constructor semantics.
package sp_test

import (
	"math/rand"
	"testing"

	"github.com/k2lang/katch/core"
	"github.com/k2lang/katch/sp"
)

// contains reports whether packet p (one bit per field, field 0 at the
// root) is in the set x, by walking the diagram.
func contains(t *testing.T, s *sp.Store, x sp.SP, p uint) bool {
	t.Helper()
	for i := 0; i < s.NumFields(); i++ {
		x0, x1 := s.Node(x)
		if p>>uint(i)&1 == 1 {
			x = x1
		} else {
			x = x0
		}
	}
	return x == 1
}

func TestHandleInvariants(t *testing.T) {
	s := sp.New(2)
	// Zero and One are full-depth diagrams, not the reserved leaves.
	if s.Zero < 2 || s.One < 2 {
		t.Fatalf("cached constants must be internal nodes, got zero=%d one=%d", s.Zero, s.One)
	}
	// Hash consing: rebuilding the same structure yields the same handle.
	if s.Test(0, true) != s.Test(0, true) {
		t.Fatal("equal structure must share a handle")
	}
	// Independent stores assign the same handles in the same order.
	s2 := sp.New(2)
	s2.Test(0, true)
	if s2.Test(1, false) != s.Test(1, false) {
		t.Fatal("handle assignment must be deterministic across stores")
	}
}

func TestBooleanLaws(t *testing.T) {
	s := sp.New(2)
	all := s.All()
	if len(all) != 16 {
		t.Fatalf("expected 16 diagrams at k=2, got %d", len(all))
	}
	for _, x := range all {
		if got := s.Complement(s.Complement(x)); got != x {
			t.Fatalf("involution failed for %d", x)
		}
		if s.Union(x, s.Zero) != x {
			t.Fatalf("x + 0 != x for %d", x)
		}
		if s.Union(x, s.One) != s.One {
			t.Fatalf("x + 1 != 1 for %d", x)
		}
		if s.Intersect(x, s.One) != x {
			t.Fatalf("x & 1 != x for %d", x)
		}
		if s.Intersect(x, s.Zero) != s.Zero {
			t.Fatalf("x & 0 != 0 for %d", x)
		}
	}
	for _, x := range all {
		for _, y := range all {
			if s.Union(x, y) != s.Union(y, x) {
				t.Fatalf("union not commutative for %d, %d", x, y)
			}
			if s.Intersect(x, y) != s.Intersect(y, x) {
				t.Fatalf("intersect not commutative for %d, %d", x, y)
			}
			// De Morgan, both directions.
			if s.Complement(s.Union(x, y)) != s.Intersect(s.Complement(x), s.Complement(y)) {
				t.Fatalf("De Morgan (union) failed for %d, %d", x, y)
			}
			if s.Complement(s.Intersect(x, y)) != s.Union(s.Complement(x), s.Complement(y)) {
				t.Fatalf("De Morgan (intersect) failed for %d, %d", x, y)
			}
			// Difference and xor against their definitions.
			if s.Difference(x, y) != s.Intersect(x, s.Complement(y)) {
				t.Fatalf("difference definition failed for %d, %d", x, y)
			}
			if s.Xor(x, y) != s.Union(s.Difference(x, y), s.Difference(y, x)) {
				t.Fatalf("xor definition failed for %d, %d", x, y)
			}
		}
	}
}

func TestTestSemantics(t *testing.T) {
	const k = 3
	s := sp.New(k)
	for f := core.Field(0); f < k; f++ {
		for _, v := range []bool{false, true} {
			set := s.Test(f, v)
			for p := uint(0); p < 1<<k; p++ {
				want := (p>>uint(f)&1 == 1) == v
				if got := contains(t, s, set, p); got != want {
					t.Fatalf("Test(%d,%v) packet %03b: got %v, want %v", f, v, p, got, want)
				}
			}
		}
	}
	// A field's two tests partition the packet space.
	if s.Union(s.Test(1, false), s.Test(1, true)) != s.One {
		t.Fatal("test(f,0) + test(f,1) != 1")
	}
	if s.Intersect(s.Test(1, false), s.Test(1, true)) != s.Zero {
		t.Fatal("test(f,0) & test(f,1) != 0")
	}
}

func TestRandDepth(t *testing.T) {
	s := sp.New(4)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		x := s.Rand(rng)
		// Walking any full path must take exactly k steps; contains
		// panics via Node if a level were skipped.
		contains(t, s, x, uint(i)%16)
	}
}
