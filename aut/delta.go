package aut

import (
	"fmt"
	"sort"

	"github.com/k2lang/katch/expr"
	"github.com/k2lang/katch/spp"
)

// eps computes the acceptance relation of a normalised expression: the
// SPP relating the current packet to the final packet of runs that
// accept without another dup. Memoised per handle.
func (a *Aut) eps(e expr.Expr) spp.SPP {
	if r, ok := a.epsMemo[e]; ok {
		return r
	}
	n := a.pool.Node(e)
	var r spp.SPP
	switch n.Op {
	case expr.OpZero, expr.OpDup, expr.OpNext:
		r = a.spps.Zero
	case expr.OpOne:
		r = a.spps.One
	case expr.OpTop, expr.OpEnd:
		// End accepts exactly when no further dup happens; like Top it
		// leaves the final packet unconstrained, which is what keeps
		// !X e = end + X !e an identity.
		r = a.spps.Top
	case expr.OpAssign:
		r = a.spps.Assign(a.field(n.Field), n.Value)
	case expr.OpTest:
		r = a.spps.Test(a.field(n.Field), n.Value)
	case expr.OpUnion:
		r = a.spps.Union(a.eps(n.A), a.eps(n.B))
	case expr.OpIntersect:
		r = a.spps.Intersect(a.eps(n.A), a.eps(n.B))
	case expr.OpXor:
		r = a.spps.Xor(a.eps(n.A), a.eps(n.B))
	case expr.OpDifference:
		r = a.spps.Difference(a.eps(n.A), a.eps(n.B))
	case expr.OpComplement:
		r = a.spps.Complement(a.eps(n.A))
	case expr.OpSequence:
		r = a.spps.Sequence(a.eps(n.A), a.eps(n.B))
	case expr.OpStar:
		r = a.spps.Star(a.eps(n.A))
	case expr.OpWeakNext, expr.OpFinally, expr.OpGlobally,
		expr.OpUntil, expr.OpWeakUntil, expr.OpRelease, expr.OpStrongRelease:
		r = a.eps(a.expand(e))
	default:
		panic(fmt.Sprintf("aut: eps of unknown op %d", n.Op))
	}
	a.epsMemo[e] = r
	return r
}

// delta computes the guarded transition partition of a normalised
// expression. Cells are pairwise disjoint, guards are non-zero and
// targets are normalised non-Zero expressions; observations outside
// every guard implicitly lead to the drop state. Memoised per handle.
func (a *Aut) delta(e expr.Expr) []tcell {
	if r, ok := a.deltaMemo[e]; ok {
		return r
	}
	n := a.pool.Node(e)
	var r []tcell
	switch n.Op {
	case expr.OpZero, expr.OpOne, expr.OpEnd, expr.OpAssign, expr.OpTest:
		r = nil
	case expr.OpTop:
		r = []tcell{{a.spps.Top, a.pool.Top()}}
	case expr.OpDup:
		// dup emits the current packet unchanged and leaves One behind.
		r = []tcell{{a.spps.One, a.pool.One()}}
	case expr.OpNext:
		// The first observation is unconstrained; the operand takes
		// over on the tail.
		r = a.tidy([]tcell{{a.spps.Top, n.A}})
	case expr.OpUnion:
		r = a.combine(a.delta(n.A), a.delta(n.B), a.normUnion)
	case expr.OpIntersect:
		r = a.combine(a.delta(n.A), a.delta(n.B), a.normIntersect)
	case expr.OpXor:
		r = a.combine(a.delta(n.A), a.delta(n.B), a.normXor)
	case expr.OpDifference:
		r = a.combine(a.delta(n.A), a.delta(n.B), a.normDifference)
	case expr.OpComplement:
		r = a.complementDelta(a.delta(n.A))
	case expr.OpSequence:
		r = a.sequenceDelta(n.A, n.B)
	case expr.OpStar:
		r = a.starDelta(e, n.A)
	case expr.OpWeakNext, expr.OpFinally, expr.OpGlobally,
		expr.OpUntil, expr.OpWeakUntil, expr.OpRelease, expr.OpStrongRelease:
		r = a.delta(a.expand(e))
	default:
		panic(fmt.Sprintf("aut: delta of unknown op %d", n.Op))
	}
	a.deltaMemo[e] = r
	return r
}

// expand rewrites a temporal operator by its expansion law. The operand
// handles are already normalised, and the recursive occurrence is the
// expression itself, so the reachable state set closes up by
// hash-consing.
//
//	WX e    = end + X e
//	F e     = e + X F e
//	G e     = e & (end + X G e)
//	a U b   = b + (a & X (a U b))
//	a W b   = b + (a & (end + X (a W b)))
//	a R b   = b & (a + (end + X (a R b)))
//	a S b   = (a R b) & F b
func (a *Aut) expand(e expr.Expr) expr.Expr {
	p := a.pool
	n := p.Node(e)
	weak := func(x expr.Expr) expr.Expr {
		return p.Union(p.End(), p.Next(x))
	}
	var raw expr.Expr
	switch n.Op {
	case expr.OpWeakNext:
		raw = weak(n.A)
	case expr.OpFinally:
		raw = p.Union(n.A, p.Next(e))
	case expr.OpGlobally:
		raw = p.Intersect(n.A, weak(e))
	case expr.OpUntil:
		raw = p.Union(n.B, p.Intersect(n.A, p.Next(e)))
	case expr.OpWeakUntil:
		raw = p.Union(n.B, p.Intersect(n.A, weak(e)))
	case expr.OpRelease:
		raw = p.Intersect(n.B, p.Union(n.A, weak(e)))
	case expr.OpStrongRelease:
		raw = p.Intersect(p.Release(n.A, n.B), p.Finally(n.B))
	default:
		panic(fmt.Sprintf("aut: expand of non-temporal op %d", n.Op))
	}
	return a.normalize(raw)
}

// combine refines two disjoint partitions into one, applying f to the
// targets cell by cell; where only one side covers an observation the
// other side contributes Zero. The result is again disjoint, with
// Zero-guard and Zero-target cells dropped and equal targets merged.
func (a *Aut) combine(da, db []tcell, f func(x, y expr.Expr) expr.Expr) []tcell {
	zero := a.pool.Zero()
	var out []tcell
	for _, ca := range da {
		rest := ca.guard
		for _, cb := range db {
			inter := a.spps.Intersect(ca.guard, cb.guard)
			if inter != a.spps.Zero {
				out = append(out, tcell{inter, f(ca.target, cb.target)})
			}
			rest = a.spps.Difference(rest, cb.guard)
		}
		if rest != a.spps.Zero {
			out = append(out, tcell{rest, f(ca.target, zero)})
		}
	}
	for _, cb := range db {
		rest := cb.guard
		for _, ca := range da {
			rest = a.spps.Difference(rest, ca.guard)
		}
		if rest != a.spps.Zero {
			out = append(out, tcell{rest, f(zero, cb.target)})
		}
	}
	return a.tidy(out)
}

// complementDelta complements every cell target and routes the
// uncovered remainder to the complement of the drop state, i.e. Top.
func (a *Aut) complementDelta(d []tcell) []tcell {
	out := make([]tcell, 0, len(d)+1)
	rest := a.spps.Top
	for _, c := range d {
		out = append(out, tcell{c.guard, a.normComplement(c.target)})
		rest = a.spps.Difference(rest, c.guard)
	}
	if rest != a.spps.Zero {
		out = append(out, tcell{rest, a.pool.Top()})
	}
	return a.tidy(out)
}

// sequenceDelta implements
//
//	delta(a;b) = delta(a)[next := next;b]  ∪  eps(a);delta(b)
//
// where the second operand's guards are pre-composed with a's
// acceptance relation. The two parts may overlap, so the union is
// rebuilt cell by cell to stay deterministic.
func (a *Aut) sequenceDelta(x, y expr.Expr) []tcell {
	var out []tcell
	for _, c := range a.delta(x) {
		out = a.merge(out, tcell{c.guard, a.normSequence(c.target, y)})
	}
	ex := a.eps(x)
	if ex != a.spps.Zero {
		for _, c := range a.delta(y) {
			g := a.spps.Sequence(ex, c.guard)
			if g != a.spps.Zero {
				out = a.merge(out, tcell{g, c.target})
			}
		}
	}
	return out
}

// starDelta implements
//
//	delta(a*) = star(eps(a));delta(a)[next := next;a*]
//
// with e the normalised a* itself.
func (a *Aut) starDelta(e, x expr.Expr) []tcell {
	loop := a.spps.Star(a.eps(x))
	var out []tcell
	for _, c := range a.delta(x) {
		g := a.spps.Sequence(loop, c.guard)
		if g == a.spps.Zero {
			continue
		}
		out = a.merge(out, tcell{g, a.normSequence(c.target, e)})
	}
	return out
}

// merge unions one possibly-overlapping cell into a disjoint partition.
func (a *Aut) merge(d []tcell, c tcell) []tcell {
	return a.combine(d, []tcell{c}, a.normUnion)
}

// tidy drops drop-state cells, merges cells sharing a target and orders
// the partition by target handle so results are deterministic.
func (a *Aut) tidy(d []tcell) []tcell {
	zero := a.pool.Zero()
	guards := make(map[expr.Expr]spp.SPP)
	for _, c := range d {
		if c.target == zero || c.guard == a.spps.Zero {
			continue
		}
		if g, ok := guards[c.target]; ok {
			guards[c.target] = a.spps.Union(g, c.guard)
		} else {
			guards[c.target] = c.guard
		}
	}
	out := make([]tcell, 0, len(guards))
	for t, g := range guards {
		out = append(out, tcell{g, t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].target < out[j].target })
	return out
}
