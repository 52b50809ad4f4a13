package aut

import (
	"fmt"
	"slices"

	"github.com/k2lang/katch/expr"
)

// normalize rewrites e into the canonical representative of its state.
// The rewrites are sound semantic identities only: flattening, sorting
// and deduplicating the associative-commutative operators, unit and
// annihilator elimination, sequence flattening, double-complement
// cancellation and the trivial xor/difference collapses. No rewrite
// here may change the denoted relation; everything deeper is left to
// the bisimulation. Memoised per expression handle.
func (a *Aut) normalize(e expr.Expr) expr.Expr {
	if r, ok := a.normMemo[e]; ok {
		return r
	}
	n := a.pool.Node(e)
	var r expr.Expr
	switch n.Op {
	case expr.OpZero, expr.OpOne, expr.OpTop, expr.OpDup, expr.OpEnd,
		expr.OpAssign, expr.OpTest:
		r = e
	case expr.OpUnion:
		r = a.normUnion(a.normalize(n.A), a.normalize(n.B))
	case expr.OpIntersect:
		r = a.normIntersect(a.normalize(n.A), a.normalize(n.B))
	case expr.OpXor:
		r = a.normXor(a.normalize(n.A), a.normalize(n.B))
	case expr.OpDifference:
		r = a.normDifference(a.normalize(n.A), a.normalize(n.B))
	case expr.OpSequence:
		r = a.normSequence(a.normalize(n.A), a.normalize(n.B))
	case expr.OpStar:
		r = a.normStar(a.normalize(n.A))
	case expr.OpComplement:
		r = a.normComplement(a.normalize(n.A))
	case expr.OpNext:
		r = a.pool.Next(a.normalize(n.A))
	case expr.OpWeakNext:
		r = a.pool.WeakNext(a.normalize(n.A))
	case expr.OpFinally:
		r = a.pool.Finally(a.normalize(n.A))
	case expr.OpGlobally:
		r = a.pool.Globally(a.normalize(n.A))
	case expr.OpUntil:
		r = a.pool.Until(a.normalize(n.A), a.normalize(n.B))
	case expr.OpWeakUntil:
		r = a.pool.WeakUntil(a.normalize(n.A), a.normalize(n.B))
	case expr.OpRelease:
		r = a.pool.Release(a.normalize(n.A), a.normalize(n.B))
	case expr.OpStrongRelease:
		r = a.pool.StrongRelease(a.normalize(n.A), a.normalize(n.B))
	default:
		panic(fmt.Sprintf("aut: unknown op %d", n.Op))
	}
	a.normMemo[e] = r
	return r
}

// normUnion combines two normalised operands: flatten nested unions,
// drop Zero, absorb on Top, sort and deduplicate, rebuild right-nested.
func (a *Aut) normUnion(x, y expr.Expr) expr.Expr {
	terms := a.flatten(expr.OpUnion, nil, x)
	terms = a.flatten(expr.OpUnion, terms, y)
	out := terms[:0]
	for _, t := range terms {
		switch a.pool.Node(t).Op {
		case expr.OpZero:
		case expr.OpTop:
			return a.pool.Top()
		default:
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return a.pool.Zero()
	}
	return a.rebuild(expr.OpUnion, sortUnique(out))
}

// normIntersect is the dual: drop Top, absorb on Zero.
func (a *Aut) normIntersect(x, y expr.Expr) expr.Expr {
	terms := a.flatten(expr.OpIntersect, nil, x)
	terms = a.flatten(expr.OpIntersect, terms, y)
	out := terms[:0]
	for _, t := range terms {
		switch a.pool.Node(t).Op {
		case expr.OpTop:
		case expr.OpZero:
			return a.pool.Zero()
		default:
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return a.pool.Top()
	}
	return a.rebuild(expr.OpIntersect, sortUnique(out))
}

func (a *Aut) normXor(x, y expr.Expr) expr.Expr {
	switch {
	case x == y:
		return a.pool.Zero()
	case x == a.pool.Zero():
		return y
	case y == a.pool.Zero():
		return x
	}
	if x > y {
		x, y = y, x
	}
	return a.pool.Xor(x, y)
}

func (a *Aut) normDifference(x, y expr.Expr) expr.Expr {
	switch {
	case x == a.pool.Zero() || x == y:
		return a.pool.Zero()
	case y == a.pool.Zero():
		return x
	}
	return a.pool.Difference(x, y)
}

// normSequence flattens factors, drops One and annihilates on Zero.
func (a *Aut) normSequence(x, y expr.Expr) expr.Expr {
	factors := a.flatten(expr.OpSequence, nil, x)
	factors = a.flatten(expr.OpSequence, factors, y)
	out := factors[:0]
	for _, f := range factors {
		switch a.pool.Node(f).Op {
		case expr.OpOne:
		case expr.OpZero:
			return a.pool.Zero()
		default:
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return a.pool.One()
	}
	return a.rebuild(expr.OpSequence, out)
}

func (a *Aut) normStar(x expr.Expr) expr.Expr {
	switch a.pool.Node(x).Op {
	case expr.OpZero, expr.OpOne:
		return a.pool.One()
	case expr.OpStar:
		return x
	}
	return a.pool.Star(x)
}

func (a *Aut) normComplement(x expr.Expr) expr.Expr {
	n := a.pool.Node(x)
	switch n.Op {
	case expr.OpComplement:
		return n.A
	case expr.OpZero:
		return a.pool.Top()
	case expr.OpTop:
		return a.pool.Zero()
	}
	return a.pool.Complement(x)
}

// flatten appends e's operands to dst, recursing through nodes of the
// same operator. e is already normalised, so nesting is right-leaning
// and shallow.
func (a *Aut) flatten(op expr.Op, dst []expr.Expr, e expr.Expr) []expr.Expr {
	n := a.pool.Node(e)
	if n.Op != op {
		return append(dst, e)
	}
	dst = a.flatten(op, dst, n.A)
	return a.flatten(op, dst, n.B)
}

// rebuild folds the operand list right-nested so that any operand
// sequence has exactly one representative tree.
func (a *Aut) rebuild(op expr.Op, terms []expr.Expr) expr.Expr {
	r := terms[len(terms)-1]
	for i := len(terms) - 2; i >= 0; i-- {
		switch op {
		case expr.OpUnion:
			r = a.pool.Union(terms[i], r)
		case expr.OpIntersect:
			r = a.pool.Intersect(terms[i], r)
		default:
			r = a.pool.Sequence(terms[i], r)
		}
	}
	return r
}

// sortUnique orders operands by handle and removes duplicates. Handle
// order is stable within a run, which is all determinism requires.
func sortUnique(terms []expr.Expr) []expr.Expr {
	slices.Sort(terms)
	return slices.Compact(terms)
}
