package spp

import (
	"fmt"
	"math/rand"

	"github.com/k2lang/katch/core"
)

// SPP is a handle to a relation on packets inside a Store.
// Handle 0 is the empty-relation leaf, handle 1 the diagonal leaf.
type SPP = uint32

// node is one internal decision node; xvw applies when the input bit is
// v and the output bit is w.
type node struct {
	x00, x01, x10, x11 SPP
}

// pair keys the binary-operator memo tables.
type pair struct {
	a, b SPP
}

// branchKey keys the Branch memo table.
type branchKey struct {
	v                  core.Field
	x00, x01, x10, x11 SPP
}

// Store owns every SPP of one decision procedure: the node vector, the
// hash-consing table, and one memo table per operator. It is fine to
// pick k larger than needed; hash consing and memoization absorb the
// slack. The store grows monotonically; no handle is ever invalidated.
type Store struct {
	k     int
	nodes []node
	hc    map[node]SPP

	// Zero is the depth-k empty relation.
	Zero SPP
	// One is the depth-k identity relation.
	One SPP
	// Top is the depth-k universal relation.
	Top SPP

	// Constant sub-diagrams per depth, zeros[d]/ones[d]/tops[d] being
	// the empty/identity/universal relation of depth d. Assign needs
	// them to splice diagonal blocks at an arbitrary level.
	zeros, ones, tops []SPP

	unionMemo      map[pair]SPP
	intersectMemo  map[pair]SPP
	xorMemo        map[pair]SPP
	differenceMemo map[pair]SPP
	sequenceMemo   map[pair]SPP
	starMemo       map[SPP]SPP
	complementMemo map[SPP]SPP
	branchMemo     map[branchKey]SPP
}

// New creates a Store for packets with k binary fields.
// Complexity: O(k) to build the cached constant diagrams.
func New(k int) *Store {
	s := &Store{
		k:  k,
		hc: make(map[node]SPP),
		// Pre-seed the leaf base cases so the operator bodies never
		// have to branch on handles < 2.
		unionMemo: map[pair]SPP{
			{0, 0}: 0, {0, 1}: 1, {1, 0}: 1, {1, 1}: 1,
		},
		intersectMemo: map[pair]SPP{
			{0, 0}: 0, {0, 1}: 0, {1, 0}: 0, {1, 1}: 1,
		},
		xorMemo: map[pair]SPP{
			{0, 0}: 0, {0, 1}: 1, {1, 0}: 1, {1, 1}: 0,
		},
		differenceMemo: map[pair]SPP{
			{0, 0}: 0, {0, 1}: 0, {1, 0}: 1, {1, 1}: 0,
		},
		sequenceMemo: map[pair]SPP{
			{0, 0}: 0, {0, 1}: 0, {1, 0}: 0, {1, 1}: 1,
		},
		starMemo:       map[SPP]SPP{0: 1, 1: 1},
		complementMemo: map[SPP]SPP{0: 1, 1: 0},
		branchMemo:     make(map[branchKey]SPP),
	}
	s.zeros = make([]SPP, k+1)
	s.ones = make([]SPP, k+1)
	s.tops = make([]SPP, k+1)
	s.zeros[0], s.ones[0], s.tops[0] = 0, 1, 1
	for d := 1; d <= k; d++ {
		z := s.zeros[d-1]
		s.zeros[d] = s.Mk(z, z, z, z)
		o := s.ones[d-1]
		s.ones[d] = s.Mk(o, z, z, o)
		t := s.tops[d-1]
		s.tops[d] = s.Mk(t, t, t, t)
	}
	s.Zero = s.zeros[k]
	s.One = s.ones[k]
	s.Top = s.tops[k]
	return s
}

// NumFields reports the packet width k the store was built for.
func (s *Store) NumFields() int { return s.k }

// Node returns the four children of an internal node.
// Panics on leaf or out-of-range handles; a bad handle means a
// cross-store mixup or memory corruption, so failing fast is the point.
func (s *Store) Node(x SPP) (x00, x01, x10, x11 SPP) {
	if x < 2 {
		panic(fmt.Sprintf("spp: Node called on leaf handle %d", x))
	}
	i := int(x - 2)
	if i >= len(s.nodes) {
		panic(fmt.Sprintf("spp: handle %d out of range (nodes=%d)", x, len(s.nodes)))
	}
	n := s.nodes[i]
	return n.x00, n.x01, n.x10, n.x11
}

// Mk constructs or retrieves the canonical node (x00, x01, x10, x11).
// All children must already share a depth; that is a structural
// precondition upheld by callers, not a runtime check.
func (s *Store) Mk(x00, x01, x10, x11 SPP) SPP {
	n := node{x00, x01, x10, x11}
	if h, ok := s.hc[n]; ok {
		return h
	}
	h := SPP(len(s.nodes)) + 2
	s.nodes = append(s.nodes, n)
	s.hc[n] = h
	return h
}

// Union returns the union of the two relations. Memoized.
func (s *Store) Union(a, b SPP) SPP {
	key := pair{a, b}
	if r, ok := s.unionMemo[key]; ok {
		return r
	}
	a00, a01, a10, a11 := s.Node(a)
	b00, b01, b10, b11 := s.Node(b)
	r := s.Mk(
		s.Union(a00, b00),
		s.Union(a01, b01),
		s.Union(a10, b10),
		s.Union(a11, b11),
	)
	s.unionMemo[key] = r
	return r
}

// Intersect returns the intersection of the two relations. Memoized.
func (s *Store) Intersect(a, b SPP) SPP {
	key := pair{a, b}
	if r, ok := s.intersectMemo[key]; ok {
		return r
	}
	a00, a01, a10, a11 := s.Node(a)
	b00, b01, b10, b11 := s.Node(b)
	r := s.Mk(
		s.Intersect(a00, b00),
		s.Intersect(a01, b01),
		s.Intersect(a10, b10),
		s.Intersect(a11, b11),
	)
	s.intersectMemo[key] = r
	return r
}

// Xor returns the symmetric difference of the two relations. Memoized.
func (s *Store) Xor(a, b SPP) SPP {
	key := pair{a, b}
	if r, ok := s.xorMemo[key]; ok {
		return r
	}
	a00, a01, a10, a11 := s.Node(a)
	b00, b01, b10, b11 := s.Node(b)
	r := s.Mk(
		s.Xor(a00, b00),
		s.Xor(a01, b01),
		s.Xor(a10, b10),
		s.Xor(a11, b11),
	)
	s.xorMemo[key] = r
	return r
}

// Difference returns a minus b. The recursive definition is simpler
// than a & !b and shares more memo entries. Memoized.
func (s *Store) Difference(a, b SPP) SPP {
	key := pair{a, b}
	if r, ok := s.differenceMemo[key]; ok {
		return r
	}
	a00, a01, a10, a11 := s.Node(a)
	b00, b01, b10, b11 := s.Node(b)
	r := s.Mk(
		s.Difference(a00, b00),
		s.Difference(a01, b01),
		s.Difference(a10, b10),
		s.Difference(a11, b11),
	)
	s.differenceMemo[key] = r
	return r
}

// Complement returns the pointwise complement of the relation. Memoized.
func (s *Store) Complement(a SPP) SPP {
	if r, ok := s.complementMemo[a]; ok {
		return r
	}
	a00, a01, a10, a11 := s.Node(a)
	r := s.Mk(
		s.Complement(a00),
		s.Complement(a01),
		s.Complement(a10),
		s.Complement(a11),
	)
	s.complementMemo[a] = r
	return r
}

// Sequence returns the relational composition a;b, computed as a 2x2
// matrix product per level:
//
//	(a00 a01) (b00 b01)   (a00b00+a01b10  a00b01+a01b11)
//	(a10 a11) (b10 b11) = (a10b00+a11b10  a10b01+a11b11)
//
// where multiplication is Sequence and addition is Union. Memoized.
func (s *Store) Sequence(a, b SPP) SPP {
	key := pair{a, b}
	if r, ok := s.sequenceMemo[key]; ok {
		return r
	}
	a00, a01, a10, a11 := s.Node(a)
	b00, b01, b10, b11 := s.Node(b)
	r := s.Mk(
		s.Union(s.Sequence(a00, b00), s.Sequence(a01, b10)),
		s.Union(s.Sequence(a00, b01), s.Sequence(a01, b11)),
		s.Union(s.Sequence(a10, b00), s.Sequence(a11, b10)),
		s.Union(s.Sequence(a10, b01), s.Sequence(a11, b11)),
	)
	s.sequenceMemo[key] = r
	return r
}

// Star returns the Kleene star of the relation, by the block formula
// for a 2x2 matrix (A B; C D): with D* = Star(D) and
// E = Star(A + B D* C), the result blocks are
// (E, E B D*; D* C E, D* + D* C E B D*). Memoized.
func (s *Store) Star(x SPP) SPP {
	if r, ok := s.starMemo[x]; ok {
		return r
	}
	a, b, c, d := s.Node(x)
	dStar := s.Star(d)
	bdStar := s.Sequence(b, dStar)
	e := s.Star(s.Union(a, s.Sequence(bdStar, c)))
	resB := s.Sequence(e, bdStar)
	resC := s.Sequence(dStar, s.Sequence(c, e))
	resD := s.Union(dStar, s.Sequence(resC, bdStar))
	r := s.Mk(e, resB, resC, resD)
	s.starMemo[x] = r
	return r
}

// Branch is the quaternary mux at field v: in the result, the (in, out)
// quadrant at that level is the matching quadrant of the corresponding
// argument. Above v it recurses componentwise. All four arguments are
// full-depth SPPs. Panics if v is not a valid field.
func (s *Store) Branch(v core.Field, x00, x01, x10, x11 SPP) SPP {
	if int(v) >= s.k {
		panic(fmt.Sprintf("spp: branch field x%d out of range (k=%d)", v, s.k))
	}
	return s.branch(v, x00, x01, x10, x11)
}

func (s *Store) branch(v core.Field, x00, x01, x10, x11 SPP) SPP {
	key := branchKey{v, x00, x01, x10, x11}
	if r, ok := s.branchMemo[key]; ok {
		return r
	}
	a00, a01, a02, a03 := s.Node(x00)
	b00, b01, b02, b03 := s.Node(x01)
	c00, c01, c02, c03 := s.Node(x10)
	d00, d01, d02, d03 := s.Node(x11)
	var r SPP
	if v == 0 {
		r = s.Mk(a00, b01, c02, d03)
	} else {
		r = s.Mk(
			s.branch(v-1, a00, b00, c00, d00),
			s.branch(v-1, a01, b01, c01, d01),
			s.branch(v-1, a02, b02, c02, d02),
			s.branch(v-1, a03, b03, c03, d03),
		)
	}
	s.branchMemo[key] = r
	return r
}

// IfElse selects thenBranch where the input bit of field v is 0 and
// elseBranch where it is 1: branch(v, then, then, else, else).
func (s *Store) IfElse(v core.Field, thenBranch, elseBranch SPP) SPP {
	return s.Branch(v, thenBranch, thenBranch, elseBranch, elseBranch)
}

// Test returns the sub-identity relation {(p, p) | p[v] = value}.
func (s *Store) Test(v core.Field, value bool) SPP {
	if value {
		return s.IfElse(v, s.Zero, s.One)
	}
	return s.IfElse(v, s.One, s.Zero)
}

// Assign returns the update relation {(p, p[v := value])}: field v of
// the output is forced to value, every other field is copied. The mux
// cannot express the off-diagonal blocks this needs, so the diagram is
// spliced directly from the cached constant chains. Panics if v is not
// a valid field.
func (s *Store) Assign(v core.Field, value bool) SPP {
	if int(v) >= s.k {
		panic(fmt.Sprintf("spp: assign field x%d out of range (k=%d)", v, s.k))
	}
	below := s.ones[s.k-int(v)-1]
	z := s.zeros[s.k-int(v)-1]
	var x SPP
	if value {
		x = s.Mk(z, below, z, below)
	} else {
		x = s.Mk(below, z, below, z)
	}
	// Wrap the remaining levels diagonally, copying each field above v.
	for d := s.k - int(v); d < s.k; d++ {
		zd := s.zeros[d]
		x = s.Mk(x, zd, zd, x)
	}
	return x
}

// Rand returns a random full-depth SPP; leaves are 0 with probability
// 0.75. Intended for property tests and benchmarks.
func (s *Store) Rand(rng *rand.Rand) SPP {
	return s.randAt(rng, s.k)
}

func (s *Store) randAt(rng *rand.Rand, depth int) SPP {
	if depth == 0 {
		if rng.Float64() < 0.75 {
			return 0
		}
		return 1
	}
	x00 := s.randAt(rng, depth-1)
	x01 := s.randAt(rng, depth-1)
	x10 := s.randAt(rng, depth-1)
	x11 := s.randAt(rng, depth-1)
	return s.Mk(x00, x01, x10, x11)
}

// All returns every full-depth SPP. Exhaustive: 2^(4^k) diagrams, so
// only sensible for k=1 in law tests.
func (s *Store) All() []SPP {
	return s.allAt(s.k)
}

func (s *Store) allAt(depth int) []SPP {
	if depth == 0 {
		return []SPP{0, 1}
	}
	sub := s.allAt(depth - 1)
	out := make([]SPP, 0, len(sub)*len(sub)*len(sub)*len(sub))
	for _, x00 := range sub {
		for _, x01 := range sub {
			for _, x10 := range sub {
				for _, x11 := range sub {
					out = append(out, s.Mk(x00, x01, x10, x11))
				}
			}
		}
	}
	return out
}
