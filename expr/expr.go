package expr

import (
	"fmt"

	"github.com/k2lang/katch/core"
)

// Expr is a handle to an expression inside a Pool.
type Expr = uint32

// Op enumerates the expression variants.
type Op uint8

// Expression variants. Leaves first, then the unary, binary and
// temporal operators.
const (
	OpZero Op = iota
	OpOne
	OpTop
	OpDup
	OpEnd
	OpAssign
	OpTest
	OpUnion
	OpIntersect
	OpXor
	OpDifference
	OpSequence
	OpStar
	OpComplement
	OpNext
	OpWeakNext
	OpFinally
	OpGlobally
	OpUntil
	OpWeakUntil
	OpRelease
	OpStrongRelease
)

// Node is the structural content of one expression: the variant, the
// field/value payload of Assign and Test, and up to two operands.
type Node struct {
	Op    Op
	Field core.Field
	Value bool
	A, B  Expr
}

// Pool owns every expression of one decision procedure. Nodes are
// hash-consed: mkNode returns the existing handle for a structurally
// equal node. The pool grows monotonically and is released by dropping
// it.
type Pool struct {
	nodes []Node
	hc    map[Node]Expr

	zero, one, top, dup, end Expr
}

// NewPool creates an empty pool with the five constant leaves
// pre-interned.
func NewPool() *Pool {
	p := &Pool{hc: make(map[Node]Expr)}
	p.zero = p.mkNode(Node{Op: OpZero})
	p.one = p.mkNode(Node{Op: OpOne})
	p.top = p.mkNode(Node{Op: OpTop})
	p.dup = p.mkNode(Node{Op: OpDup})
	p.end = p.mkNode(Node{Op: OpEnd})
	return p
}

// Node returns the structural content of e.
// Panics on out-of-range handles (cross-pool misuse).
func (p *Pool) Node(e Expr) Node {
	if int(e) >= len(p.nodes) {
		panic(fmt.Sprintf("expr: handle %d out of range (nodes=%d)", e, len(p.nodes)))
	}
	return p.nodes[e]
}

// Len reports how many distinct expressions the pool holds.
func (p *Pool) Len() int { return len(p.nodes) }

func (p *Pool) mkNode(n Node) Expr {
	if h, ok := p.hc[n]; ok {
		return h
	}
	h := Expr(len(p.nodes))
	p.nodes = append(p.nodes, n)
	p.hc[n] = h
	return h
}

// Zero returns the policy that drops every history.
func (p *Pool) Zero() Expr { return p.zero }

// One returns the policy that passes every history unchanged.
func (p *Pool) One() Expr { return p.one }

// Top returns the universal relation.
func (p *Pool) Top() Expr { return p.top }

// Dup returns the history-marking primitive.
func (p *Pool) Dup() Expr { return p.dup }

// End returns the predicate holding exactly on one-packet histories.
func (p *Pool) End() Expr { return p.end }

// Assign returns the field update x[f] := v.
func (p *Pool) Assign(f core.Field, v bool) Expr {
	return p.mkNode(Node{Op: OpAssign, Field: f, Value: v})
}

// Test returns the field test x[f] = v.
func (p *Pool) Test(f core.Field, v bool) Expr {
	return p.mkNode(Node{Op: OpTest, Field: f, Value: v})
}

// Union returns a + b.
func (p *Pool) Union(a, b Expr) Expr {
	return p.mkNode(Node{Op: OpUnion, A: a, B: b})
}

// Intersect returns a & b.
func (p *Pool) Intersect(a, b Expr) Expr {
	return p.mkNode(Node{Op: OpIntersect, A: a, B: b})
}

// Xor returns the symmetric difference a ^ b.
func (p *Pool) Xor(a, b Expr) Expr {
	return p.mkNode(Node{Op: OpXor, A: a, B: b})
}

// Difference returns a - b.
func (p *Pool) Difference(a, b Expr) Expr {
	return p.mkNode(Node{Op: OpDifference, A: a, B: b})
}

// Sequence returns a ; b.
func (p *Pool) Sequence(a, b Expr) Expr {
	return p.mkNode(Node{Op: OpSequence, A: a, B: b})
}

// Star returns a*.
func (p *Pool) Star(a Expr) Expr {
	return p.mkNode(Node{Op: OpStar, A: a})
}

// Complement returns !a.
func (p *Pool) Complement(a Expr) Expr {
	return p.mkNode(Node{Op: OpComplement, A: a})
}

// Next returns X a: the history has at least two packets and a holds on
// the tail.
func (p *Pool) Next(a Expr) Expr {
	return p.mkNode(Node{Op: OpNext, A: a})
}

// WeakNext returns WX a: like Next, but also holding at the end of
// history.
func (p *Pool) WeakNext(a Expr) Expr {
	return p.mkNode(Node{Op: OpWeakNext, A: a})
}

// Finally returns F a.
func (p *Pool) Finally(a Expr) Expr {
	return p.mkNode(Node{Op: OpFinally, A: a})
}

// Globally returns G a.
func (p *Pool) Globally(a Expr) Expr {
	return p.mkNode(Node{Op: OpGlobally, A: a})
}

// Until returns a U b.
func (p *Pool) Until(a, b Expr) Expr {
	return p.mkNode(Node{Op: OpUntil, A: a, B: b})
}

// WeakUntil returns a W b.
func (p *Pool) WeakUntil(a, b Expr) Expr {
	return p.mkNode(Node{Op: OpWeakUntil, A: a, B: b})
}

// Release returns a R b.
func (p *Pool) Release(a, b Expr) Expr {
	return p.mkNode(Node{Op: OpRelease, A: a, B: b})
}

// StrongRelease returns a S b.
func (p *Pool) StrongRelease(a, b Expr) Expr {
	return p.mkNode(Node{Op: OpStrongRelease, A: a, B: b})
}
