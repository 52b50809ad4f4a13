package fuzz

import "github.com/k2lang/katch/expr"

// Shrink returns the structural reduction candidates of e:
//
//   - 0 and 1 shrink to nothing (they are already minimal),
//   - the other leaves shrink to 0 and 1,
//   - binary operators shrink to their operands,
//   - unary operators shrink to the operand.
func (g *Generator) Shrink(e expr.Expr) []expr.Expr {
	p := g.pool
	n := p.Node(e)
	switch n.Op {
	case expr.OpZero, expr.OpOne:
		return nil
	case expr.OpTop, expr.OpDup, expr.OpEnd, expr.OpAssign, expr.OpTest:
		return []expr.Expr{p.Zero(), p.One()}
	case expr.OpUnion, expr.OpIntersect, expr.OpXor, expr.OpDifference,
		expr.OpSequence, expr.OpUntil, expr.OpWeakUntil,
		expr.OpRelease, expr.OpStrongRelease:
		return []expr.Expr{n.A, n.B}
	default:
		// Star, Complement, Next, WeakNext, Finally, Globally.
		return []expr.Expr{n.A}
	}
}

// Minimize greedily reduces a failing pair: as long as the failing
// predicate holds, either side is replaced by one of its shrinks. The
// result is locally minimal - no single structural reduction of either
// side still fails.
func (g *Generator) Minimize(e1, e2 expr.Expr, failing func(l, r expr.Expr) bool) (expr.Expr, expr.Expr) {
	for {
		improved := false
		for _, c := range g.Shrink(e1) {
			if failing(c, e2) {
				e1 = c
				improved = true
				break
			}
		}
		if improved {
			continue
		}
		for _, c := range g.Shrink(e2) {
			if failing(e1, c) {
				e2 = c
				improved = true
				break
			}
		}
		if !improved {
			return e1, e2
		}
	}
}
