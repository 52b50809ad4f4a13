package sp

import (
	"fmt"
	"math/rand"

	"github.com/k2lang/katch/core"
)

// SP is a handle to a set of packets inside a Store.
// Handle 0 is the empty-set leaf, handle 1 the full-set leaf.
type SP = uint32

// node is one internal decision node: x0 applies when the bit is 0,
// x1 when the bit is 1.
type node struct {
	x0, x1 SP
}

// pair keys the binary-operator memo tables.
type pair struct {
	a, b SP
}

// branchKey keys the Branch memo table.
type branchKey struct {
	v      core.Field
	x0, x1 SP
}

// Store owns every SP of one decision procedure: the node vector, the
// hash-consing table, and one memo table per operator.
//
// Zero and One are the full-depth empty and full sets, built once at
// construction. The store grows monotonically; no handle is ever
// invalidated.
type Store struct {
	k     int
	nodes []node
	hc    map[node]SP

	// Zero is the depth-k set containing no packet.
	Zero SP
	// One is the depth-k set containing every packet.
	One SP

	unionMemo      map[pair]SP
	intersectMemo  map[pair]SP
	xorMemo        map[pair]SP
	differenceMemo map[pair]SP
	complementMemo map[SP]SP
	branchMemo     map[branchKey]SP
}

// New creates a Store for packets with k binary fields.
// It is fine to pick k larger than needed; hash consing and memoization
// absorb the slack. Complexity: O(k) to build the cached leaves.
func New(k int) *Store {
	s := &Store{
		k:     k,
		hc:    make(map[node]SP),
		nodes: nil,
		// Pre-seed the leaf base cases so the operator bodies never
		// have to branch on handles < 2.
		unionMemo: map[pair]SP{
			{0, 0}: 0, {0, 1}: 1, {1, 0}: 1, {1, 1}: 1,
		},
		intersectMemo: map[pair]SP{
			{0, 0}: 0, {0, 1}: 0, {1, 0}: 0, {1, 1}: 1,
		},
		xorMemo: map[pair]SP{
			{0, 0}: 0, {0, 1}: 1, {1, 0}: 1, {1, 1}: 0,
		},
		differenceMemo: map[pair]SP{
			{0, 0}: 0, {0, 1}: 0, {1, 0}: 1, {1, 1}: 0,
		},
		complementMemo: map[SP]SP{0: 1, 1: 0},
		branchMemo:     make(map[branchKey]SP),
	}
	s.Zero = s.constant(0)
	s.One = s.constant(1)
	return s
}

// NumFields reports the packet width k the store was built for.
func (s *Store) NumFields() int { return s.k }

// Node returns the two children of an internal node.
// Panics on leaf or out-of-range handles; a bad handle here means a
// cross-store mixup or memory corruption, so failing fast is the point.
func (s *Store) Node(x SP) (x0, x1 SP) {
	if x < 2 {
		panic(fmt.Sprintf("sp: Node called on leaf handle %d", x))
	}
	i := int(x - 2)
	if i >= len(s.nodes) {
		panic(fmt.Sprintf("sp: handle %d out of range (nodes=%d)", x, len(s.nodes)))
	}
	n := s.nodes[i]
	return n.x0, n.x1
}

// Mk constructs or retrieves the canonical node (x0, x1).
// Both children must already be of the same depth; that is a structural
// precondition upheld by callers, not a runtime check.
func (s *Store) Mk(x0, x1 SP) SP {
	n := node{x0, x1}
	if h, ok := s.hc[n]; ok {
		return h
	}
	h := SP(len(s.nodes)) + 2
	s.nodes = append(s.nodes, n)
	s.hc[n] = h
	return h
}

// constant builds the depth-k diagram whose every leaf is l.
func (s *Store) constant(l SP) SP {
	x := l
	for i := 0; i < s.k; i++ {
		x = s.Mk(x, x)
	}
	return x
}

// Union returns the set union of a and b. Memoized.
func (s *Store) Union(a, b SP) SP {
	key := pair{a, b}
	if r, ok := s.unionMemo[key]; ok {
		return r
	}
	a0, a1 := s.Node(a)
	b0, b1 := s.Node(b)
	r := s.Mk(s.Union(a0, b0), s.Union(a1, b1))
	s.unionMemo[key] = r
	return r
}

// Intersect returns the set intersection of a and b. Memoized.
func (s *Store) Intersect(a, b SP) SP {
	key := pair{a, b}
	if r, ok := s.intersectMemo[key]; ok {
		return r
	}
	a0, a1 := s.Node(a)
	b0, b1 := s.Node(b)
	r := s.Mk(s.Intersect(a0, b0), s.Intersect(a1, b1))
	s.intersectMemo[key] = r
	return r
}

// Xor returns the symmetric difference of a and b. Memoized.
func (s *Store) Xor(a, b SP) SP {
	key := pair{a, b}
	if r, ok := s.xorMemo[key]; ok {
		return r
	}
	a0, a1 := s.Node(a)
	b0, b1 := s.Node(b)
	r := s.Mk(s.Xor(a0, b0), s.Xor(a1, b1))
	s.xorMemo[key] = r
	return r
}

// Difference returns a minus b. Memoized.
func (s *Store) Difference(a, b SP) SP {
	key := pair{a, b}
	if r, ok := s.differenceMemo[key]; ok {
		return r
	}
	a0, a1 := s.Node(a)
	b0, b1 := s.Node(b)
	r := s.Mk(s.Difference(a0, b0), s.Difference(a1, b1))
	s.differenceMemo[key] = r
	return r
}

// Complement returns the set of packets not in a. Memoized.
func (s *Store) Complement(a SP) SP {
	if r, ok := s.complementMemo[a]; ok {
		return r
	}
	a0, a1 := s.Node(a)
	r := s.Mk(s.Complement(a0), s.Complement(a1))
	s.complementMemo[a] = r
	return r
}

// Branch is the bitwise mux at field v: the result takes x0's 0-child
// where the bit is 0 and x1's 1-child where the bit is 1. Both arguments
// are full-depth SPs. Panics if v is not a valid field.
func (s *Store) Branch(v core.Field, x0, x1 SP) SP {
	if int(v) >= s.k {
		panic(fmt.Sprintf("sp: branch field x%d out of range (k=%d)", v, s.k))
	}
	return s.branch(v, x0, x1)
}

func (s *Store) branch(v core.Field, x0, x1 SP) SP {
	key := branchKey{v, x0, x1}
	if r, ok := s.branchMemo[key]; ok {
		return r
	}
	a0, a1 := s.Node(x0)
	b0, b1 := s.Node(x1)
	var r SP
	if v == 0 {
		r = s.Mk(a0, b1)
	} else {
		r = s.Mk(s.branch(v-1, a0, b0), s.branch(v-1, a1, b1))
	}
	s.branchMemo[key] = r
	return r
}

// IfElse selects thenBranch where field v is 0 and elseBranch where it
// is 1, mirroring the quaternary ifelse convention of the spp store.
func (s *Store) IfElse(v core.Field, thenBranch, elseBranch SP) SP {
	return s.Branch(v, thenBranch, elseBranch)
}

// Test returns the set of packets whose field v has the given value.
func (s *Store) Test(v core.Field, value bool) SP {
	if value {
		return s.IfElse(v, s.Zero, s.One)
	}
	return s.IfElse(v, s.One, s.Zero)
}

// Rand returns a random full-depth SP; leaves are 0 with probability 0.75.
// Intended for property tests and benchmarks.
func (s *Store) Rand(rng *rand.Rand) SP {
	return s.randAt(rng, s.k)
}

func (s *Store) randAt(rng *rand.Rand, depth int) SP {
	if depth == 0 {
		if rng.Float64() < 0.75 {
			return 0
		}
		return 1
	}
	x0 := s.randAt(rng, depth-1)
	x1 := s.randAt(rng, depth-1)
	return s.Mk(x0, x1)
}

// All returns every full-depth SP. Exhaustive: 2^(2^k) diagrams, so only
// sensible for tiny k in law tests.
func (s *Store) All() []SP {
	return s.allAt(s.k)
}

func (s *Store) allAt(depth int) []SP {
	if depth == 0 {
		return []SP{0, 1}
	}
	sub := s.allAt(depth - 1)
	out := make([]SP, 0, len(sub)*len(sub))
	for _, x0 := range sub {
		for _, x1 := range sub {
			out = append(out, s.Mk(x0, x1))
		}
	}
	return out
}
