package fuzz

import (
	"math/rand"

	"github.com/k2lang/katch/core"
	"github.com/k2lang/katch/expr"
)

// Generator produces random expressions and related expression pairs.
// It owns its RNG; one Generator replayed from the same seed emits the
// same trial sequence.
type Generator struct {
	opts Options
	rng  *rand.Rand
	pool *expr.Pool
}

// New creates a Generator building expressions in pool.
// Returns ErrNilPool or ErrFewFields on bad configuration.
func New(pool *expr.Pool, opts Options) (*Generator, error) {
	if pool == nil {
		return nil, ErrNilPool
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts, rng: rngFromSeed(opts.Seed), pool: pool}, nil
}

// Pool returns the expression pool the generator builds in.
func (g *Generator) Pool() *expr.Pool { return g.pool }

// randField picks a uniform field index in 0..NumFields-1.
func (g *Generator) randField() core.Field {
	return core.Field(g.rng.Intn(g.opts.NumFields))
}

// randValue picks a uniform bit.
func (g *Generator) randValue() bool {
	return g.rng.Intn(2) == 1
}

// distinctFields picks two different field indices. NumFields >= 2 is
// guaranteed by Options validation, so the retry loop terminates.
func (g *Generator) distinctFields() (core.Field, core.Field) {
	f1 := g.randField()
	f2 := g.randField()
	for f1 == f2 {
		f2 = g.randField()
	}
	return f1, f2
}

// flip swaps the sides of an equality with probability one half, so
// every axiom is exercised in both directions.
func (g *Generator) flip(lhs, rhs expr.Expr) (expr.Expr, expr.Expr) {
	if g.rng.Intn(2) == 1 {
		return rhs, lhs
	}
	return lhs, rhs
}

// RandExpr returns a random expression of at most the given AST depth.
// Terminals are the constants, dup, and random assignments and tests;
// combinators are star, complement, union, sequence and intersect.
func (g *Generator) RandExpr(depth int) expr.Expr {
	p := g.pool
	if depth <= 0 {
		switch g.rng.Intn(6) {
		case 0:
			return p.Zero()
		case 1:
			return p.One()
		case 2:
			return p.Top()
		case 3:
			return p.Dup()
		case 4:
			return p.Assign(g.randField(), g.randValue())
		default:
			return p.Test(g.randField(), g.randValue())
		}
	}
	switch g.rng.Intn(6) {
	case 0:
		return g.RandExpr(depth - 1)
	case 1:
		return p.Star(g.RandExpr(depth - 1))
	case 2:
		return p.Complement(g.RandExpr(depth - 1))
	case 3:
		return p.Union(g.RandExpr(depth-1), g.RandExpr(depth-1))
	case 4:
		return p.Sequence(g.RandExpr(depth-1), g.RandExpr(depth-1))
	default:
		return p.Intersect(g.RandExpr(depth-1), g.RandExpr(depth-1))
	}
}

// GenAx returns a pair of semantically equivalent expressions.
//
// axDepth controls how many axiom applications are stacked; exprDepth
// bounds the random leaf expressions. GenAx(0, d) returns (e, e) for a
// random e. GenAx(n, d) picks an axiom, fills its metavariables with
// recursively generated equal pairs, substitutes a left side into one
// end and a right side into the other, and randomly swaps the result.
// The closed packet axioms take no recursive pairs and are returned in
// their written orientation, without the swap.
func (g *Generator) GenAx(axDepth, exprDepth int) (expr.Expr, expr.Expr) {
	p := g.pool
	if axDepth <= 0 {
		e := g.RandExpr(exprDepth)
		return e, e
	}
	switch g.rng.Intn(4) {
	case 0:
		// Packet axioms: closed equations, no recursive pairs needed.
		switch g.rng.Intn(8) {
		case 0:
			// xi<-v ; xj<-v' = xj<-v' ; xi<-v
			xi, xj := g.distinctFields()
			v, w := g.randValue(), g.randValue()
			return p.Sequence(p.Assign(xi, v), p.Assign(xj, w)),
				p.Sequence(p.Assign(xj, w), p.Assign(xi, v))
		case 1:
			// xi<-v ; xj=v' = xj=v' ; xi<-v
			xi, xj := g.distinctFields()
			v, w := g.randValue(), g.randValue()
			return p.Sequence(p.Assign(xi, v), p.Test(xj, w)),
				p.Sequence(p.Test(xj, w), p.Assign(xi, v))
		case 2:
			// dup ; xi=v = xi=v ; dup
			xi, v := g.randField(), g.randValue()
			return p.Sequence(p.Dup(), p.Test(xi, v)),
				p.Sequence(p.Test(xi, v), p.Dup())
		case 3:
			// xi<-v ; xi=v = xi<-v
			xi, v := g.randField(), g.randValue()
			return p.Sequence(p.Assign(xi, v), p.Test(xi, v)),
				p.Assign(xi, v)
		case 4:
			// xi=v ; xi<-v = xi=v
			xi, v := g.randField(), g.randValue()
			return p.Sequence(p.Test(xi, v), p.Assign(xi, v)),
				p.Test(xi, v)
		case 5:
			// xi<-v ; xi<-v' = xi<-v'
			xi := g.randField()
			v, w := g.randValue(), g.randValue()
			return p.Sequence(p.Assign(xi, v), p.Assign(xi, w)),
				p.Assign(xi, w)
		case 6:
			// xi=0 ; xi=1 = 0
			xi := g.randField()
			return p.Sequence(p.Test(xi, false), p.Test(xi, true)),
				p.Zero()
		default:
			// xi=0 + xi=1 = 1
			xi := g.randField()
			return p.Union(p.Test(xi, false), p.Test(xi, true)),
				p.One()
		}
	case 1:
		lhs, rhs := g.GenAx(axDepth-1, exprDepth)
		switch g.rng.Intn(17) {
		case 0: // p + 0 = p
			return g.flip(p.Union(lhs, p.Zero()), rhs)
		case 1: // p + p = p
			return g.flip(p.Union(lhs, lhs), rhs)
		case 2: // 1 ; p = p
			return g.flip(p.Sequence(p.One(), lhs), rhs)
		case 3: // p ; 1 = p
			return g.flip(p.Sequence(lhs, p.One()), rhs)
		case 4: // 0 ; p = 0
			return g.flip(p.Sequence(p.Zero(), lhs), p.Zero())
		case 5: // p ; 0 = 0
			return g.flip(p.Sequence(lhs, p.Zero()), p.Zero())
		case 6: // 1 + p ; p* = p*
			return g.flip(p.Union(p.One(), p.Sequence(lhs, p.Star(lhs))), p.Star(rhs))
		case 7: // 1 + p* ; p = p*
			return g.flip(p.Union(p.One(), p.Sequence(p.Star(lhs), lhs)), p.Star(rhs))
		case 8: // a + top = top
			return g.flip(p.Union(lhs, p.Top()), p.Top())
		case 9: // a + !a = top
			return g.flip(p.Union(lhs, p.Complement(rhs)), p.Top())
		case 10: // a & !a = 0
			return g.flip(p.Intersect(lhs, p.Complement(rhs)), p.Zero())
		case 11: // a & a = a
			return g.flip(p.Intersect(lhs, lhs), rhs)
		case 12: // !(F e) = G !e
			return g.flip(p.Complement(p.Finally(lhs)), p.Globally(p.Complement(rhs)))
		case 13: // !(G e) = F !e
			return g.flip(p.Complement(p.Globally(lhs)), p.Finally(p.Complement(rhs)))
		case 14: // !(X e) = end + X !e
			return g.flip(p.Complement(p.Next(lhs)),
				p.Union(p.End(), p.Next(p.Complement(rhs))))
		case 15: // F e = e + X F e
			return g.flip(p.Finally(lhs),
				p.Union(rhs, p.Next(p.Finally(rhs))))
		default: // G e = e & (end + X G e)
			return g.flip(p.Globally(lhs),
				p.Intersect(rhs, p.Union(p.End(), p.Next(p.Globally(rhs)))))
		}
	case 2:
		l1, r1 := g.GenAx(axDepth-1, exprDepth)
		l2, r2 := g.GenAx(axDepth-1, exprDepth)
		switch g.rng.Intn(10) {
		case 0: // p + q = q + p
			return g.flip(p.Union(l1, l2), p.Union(r2, r1))
		case 1: // a & b = b & a
			return g.flip(p.Intersect(l1, l2), p.Intersect(r2, r1))
		case 2: // X (a & b) = X a & X b
			return g.flip(p.Next(p.Intersect(l1, l2)),
				p.Intersect(p.Next(r1), p.Next(r2)))
		case 3: // X (a + b) = X a + X b
			return g.flip(p.Next(p.Union(l1, l2)),
				p.Union(p.Next(r1), p.Next(r2)))
		case 4: // a U b = b + (a & X (a U b))
			return g.flip(p.Until(l1, l2),
				p.Union(r2, p.Intersect(r1, p.Next(p.Until(r1, r2)))))
		case 5: // a W b = b + (a & WX (a W b))
			return g.flip(p.WeakUntil(l1, l2),
				p.Union(r2, p.Intersect(r1, p.WeakNext(p.WeakUntil(r1, r2)))))
		case 6: // a R b = !(!a U !b)
			return g.flip(p.Release(l1, l2),
				p.Complement(p.Until(p.Complement(r1), p.Complement(r2))))
		case 7: // a R b = b & (a + WX (a R b))
			return g.flip(p.Release(l1, l2),
				p.Intersect(r2, p.Union(r1, p.WeakNext(p.Release(r1, r2)))))
		case 8: // !(a R b) = !a U !b
			return g.flip(p.Complement(p.Release(l1, l2)),
				p.Until(p.Complement(r1), p.Complement(r2)))
		default: // a S b = (a R b) & F b
			return g.flip(p.StrongRelease(l1, l2),
				p.Intersect(p.Release(r1, r2), p.Finally(r2)))
		}
	default:
		l1, r1 := g.GenAx(axDepth-1, exprDepth)
		l2, r2 := g.GenAx(axDepth-1, exprDepth)
		l3, r3 := g.GenAx(axDepth-1, exprDepth)
		switch g.rng.Intn(5) {
		case 0: // p + (q + r) = (p + q) + r
			return g.flip(p.Union(l1, p.Union(l2, l3)),
				p.Union(p.Union(r1, r2), r3))
		case 1: // p ; (q ; r) = (p ; q) ; r
			return g.flip(p.Sequence(l1, p.Sequence(l2, l3)),
				p.Sequence(p.Sequence(r1, r2), r3))
		case 2: // p ; (q + r) = p ; q + p ; r
			return g.flip(p.Sequence(l1, p.Union(l2, l3)),
				p.Union(p.Sequence(r1, r2), p.Sequence(r1, r3)))
		case 3: // (p + q) ; r = p ; r + q ; r
			return g.flip(p.Sequence(p.Union(l1, l2), l3),
				p.Union(p.Sequence(r1, r3), p.Sequence(r2, r3)))
		default: // a + (b & c) = (a + b) & (a + c)
			return g.flip(p.Union(l1, p.Intersect(l2, l3)),
				p.Intersect(p.Union(r1, r2), p.Union(r1, r3)))
		}
	}
}

// GenLeq returns a pair (e1, e2) with e1 contained in e2, in the sense
// that e1 + e2 = e2.
func (g *Generator) GenLeq(axDepth, exprDepth int) (expr.Expr, expr.Expr) {
	p := g.pool
	if axDepth <= 0 {
		// e <= e + r by definition of the order.
		e := g.RandExpr(exprDepth)
		r := g.RandExpr(exprDepth / 2)
		return e, p.Union(e, r)
	}
	switch g.rng.Intn(4) {
	case 0:
		// Equal pairs stay ordered after padding the right side.
		e1, e2 := g.GenAx(axDepth-1, exprDepth)
		r := g.RandExpr(exprDepth / 2)
		return e1, p.Union(e2, r)
	case 1:
		// Ordered pairs stay ordered after padding the right side.
		e1, e2 := g.GenLeq(axDepth-1, exprDepth)
		r := g.RandExpr(exprDepth / 2)
		return e1, p.Union(e2, r)
	case 2:
		// Direct inequalities between operators.
		e1 := g.RandExpr(exprDepth)
		e2 := g.RandExpr(exprDepth)
		switch g.rng.Intn(4) {
		case 0:
			// a U b <= a W b
			return p.Until(e1, e2), p.WeakUntil(e1, e2)
		case 1:
			// a S b is only bounded through padding: s <= s + r
			s := p.StrongRelease(e1, e2)
			return s, p.Union(s, g.RandExpr(exprDepth/2))
		case 2:
			// X e <= WX e
			return p.Next(e1), p.WeakNext(e1)
		default:
			// e & r <= e, the intersect dual of the padding rule
			return p.Intersect(e1, e2), e1
		}
	default:
		// Monotone constructors preserve the order componentwise.
		a1, a2 := g.GenLeq(axDepth-1, exprDepth)
		b1, b2 := g.GenLeq(axDepth-1, exprDepth)
		switch g.rng.Intn(3) {
		case 0:
			return p.Union(a1, b1), p.Union(a2, b2)
		case 1:
			return p.Intersect(a1, b1), p.Intersect(a2, b2)
		default:
			return p.Sequence(a1, b1), p.Sequence(a2, b2)
		}
	}
}
