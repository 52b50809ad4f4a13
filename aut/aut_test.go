// Package aut_test exercises the symbolic automaton: the concrete
// decision scenarios, the NetKAT axiom catalogue checked through Equiv,
// the containment laws checked through LessEq, and the epsilon/delta
// shapes of the primitive expressions.
package aut_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/k2lang/katch/aut"
	"github.com/k2lang/katch/expr"
)

// newAut builds a fresh automaton with its own pool.
func newAut(t require.TestingT, k int) *aut.Aut {
	a, err := aut.New(k, expr.NewPool())
	require.NoError(t, err)
	return a
}

func TestNewValidation(t *testing.T) {
	_, err := aut.New(2, nil)
	require.ErrorIs(t, err, aut.ErrNilPool)
	_, err = aut.New(-1, expr.NewPool())
	require.ErrorIs(t, err, aut.ErrBadNumFields)
}

// ScenarioSuite holds the concrete decision scenarios.
type ScenarioSuite struct {
	suite.Suite
}

func (s *ScenarioSuite) TestAssignThenTestAbsorbed() {
	a := newAut(s.T(), 3)
	p := a.Pool()
	lhs := p.Sequence(p.Assign(0, true), p.Test(0, true))
	s.True(a.Equiv(lhs, p.Assign(0, true)))
}

func (s *ScenarioSuite) TestContradictoryTests() {
	a := newAut(s.T(), 3)
	p := a.Pool()
	lhs := p.Sequence(p.Test(0, false), p.Test(0, true))
	s.True(a.Equiv(lhs, p.Zero()))
}

func (s *ScenarioSuite) TestComplementaryTests() {
	a := newAut(s.T(), 3)
	p := a.Pool()
	lhs := p.Union(p.Test(0, false), p.Test(0, true))
	s.True(a.Equiv(lhs, p.One()))
}

func (s *ScenarioSuite) TestStarUnrollsOverDup() {
	a := newAut(s.T(), 2)
	p := a.Pool()
	lhs := p.Star(p.Dup())
	rhs := p.Union(p.One(), p.Sequence(p.Dup(), p.Star(p.Dup())))
	s.True(a.Equiv(lhs, rhs))
}

func (s *ScenarioSuite) TestFinallyGloballyDuality() {
	a := newAut(s.T(), 2)
	p := a.Pool()
	lhs := p.Complement(p.Finally(p.Test(0, true)))
	rhs := p.Globally(p.Complement(p.Test(0, true)))
	s.True(a.Equiv(lhs, rhs))
}

func (s *ScenarioSuite) TestUnionUnitsDistinguish() {
	a := newAut(s.T(), 2)
	p := a.Pool()
	assign := p.Assign(0, true)
	// Padding with the union unit changes nothing...
	s.True(a.Equiv(p.Union(assign, p.Zero()), assign))
	// ...but padding with 1 or top is observable.
	s.False(a.Equiv(p.Union(assign, p.One()), assign))
	s.False(a.Equiv(p.Union(assign, p.Top()), assign))
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioSuite))
}

// axiomCase builds one equation in a given pool.
type axiomCase struct {
	name  string
	build func(p *expr.Pool) (lhs, rhs expr.Expr)
}

// runAxioms asserts every equation through Equiv on a fresh automaton.
func runAxioms(t *testing.T, k int, cases []axiomCase) {
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newAut(t, k)
			lhs, rhs := tc.build(a.Pool())
			if !a.Equiv(lhs, rhs) {
				t.Fatalf("expected %s = %s", a.Pool().String(lhs), a.Pool().String(rhs))
			}
		})
	}
}

func TestKleeneAxioms(t *testing.T) {
	// Metavariables stand for a policy with dup and assignment mixed in,
	// so the equations are exercised beyond the dup-free fragment.
	pol := func(p *expr.Pool) expr.Expr {
		return p.Union(p.Sequence(p.Assign(0, true), p.Dup()), p.Test(1, false))
	}
	qol := func(p *expr.Pool) expr.Expr {
		return p.Sequence(p.Test(0, false), p.Dup())
	}
	rol := func(p *expr.Pool) expr.Expr {
		return p.Assign(1, false)
	}
	runAxioms(t, 2, []axiomCase{
		{"plus assoc", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Union(pol(p), p.Union(qol(p), rol(p))), p.Union(p.Union(pol(p), qol(p)), rol(p))
		}},
		{"plus comm", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Union(pol(p), qol(p)), p.Union(qol(p), pol(p))
		}},
		{"plus zero", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Union(pol(p), p.Zero()), pol(p)
		}},
		{"plus idem", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Union(pol(p), pol(p)), pol(p)
		}},
		{"seq assoc", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(pol(p), p.Sequence(qol(p), rol(p))), p.Sequence(p.Sequence(pol(p), qol(p)), rol(p))
		}},
		{"one seq", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(p.One(), pol(p)), pol(p)
		}},
		{"seq one", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(pol(p), p.One()), pol(p)
		}},
		{"zero seq", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(p.Zero(), pol(p)), p.Zero()
		}},
		{"seq zero", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(pol(p), p.Zero()), p.Zero()
		}},
		{"dist left", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(pol(p), p.Union(qol(p), rol(p))),
				p.Union(p.Sequence(pol(p), qol(p)), p.Sequence(pol(p), rol(p)))
		}},
		{"dist right", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(p.Union(pol(p), qol(p)), rol(p)),
				p.Union(p.Sequence(pol(p), rol(p)), p.Sequence(qol(p), rol(p)))
		}},
		{"unroll left", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Union(p.One(), p.Sequence(pol(p), p.Star(pol(p)))), p.Star(pol(p))
		}},
		{"unroll right", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Union(p.One(), p.Sequence(p.Star(pol(p)), pol(p))), p.Star(pol(p))
		}},
	})
}

func TestBooleanAxioms(t *testing.T) {
	av := func(p *expr.Pool) expr.Expr { return p.Union(p.Test(0, true), p.Dup()) }
	bv := func(p *expr.Pool) expr.Expr { return p.Test(1, false) }
	cv := func(p *expr.Pool) expr.Expr { return p.Star(p.Dup()) }
	runAxioms(t, 2, []axiomCase{
		{"plus dist over and", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Union(av(p), p.Intersect(bv(p), cv(p))),
				p.Intersect(p.Union(av(p), bv(p)), p.Union(av(p), cv(p)))
		}},
		{"plus top", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Union(av(p), p.Top()), p.Top()
		}},
		{"excluded middle", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Union(av(p), p.Complement(av(p))), p.Top()
		}},
		{"and comm", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Intersect(av(p), bv(p)), p.Intersect(bv(p), av(p))
		}},
		{"contradiction", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Intersect(av(p), p.Complement(av(p))), p.Zero()
		}},
		{"and idem", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Intersect(av(p), av(p)), av(p)
		}},
	})
}

func TestPacketAxioms(t *testing.T) {
	runAxioms(t, 3, []axiomCase{
		{"mod mod comm", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(p.Assign(0, true), p.Assign(1, false)),
				p.Sequence(p.Assign(1, false), p.Assign(0, true))
		}},
		{"mod filter comm", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(p.Assign(0, true), p.Test(2, false)),
				p.Sequence(p.Test(2, false), p.Assign(0, true))
		}},
		{"dup filter comm", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(p.Dup(), p.Test(1, true)),
				p.Sequence(p.Test(1, true), p.Dup())
		}},
		{"mod filter", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(p.Assign(2, false), p.Test(2, false)), p.Assign(2, false)
		}},
		{"filter mod", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(p.Test(1, true), p.Assign(1, true)), p.Test(1, true)
		}},
		{"mod mod", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(p.Assign(0, false), p.Assign(0, true)), p.Assign(0, true)
		}},
		{"filter contra", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Sequence(p.Test(1, false), p.Test(1, true)), p.Zero()
		}},
		{"filter match all", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Union(p.Test(1, false), p.Test(1, true)), p.One()
		}},
	})
}

func TestLTLExpansions(t *testing.T) {
	ev := func(p *expr.Pool) expr.Expr { return p.Union(p.Test(0, true), p.Sequence(p.Assign(1, true), p.Dup())) }
	fv := func(p *expr.Pool) expr.Expr { return p.Test(1, false) }
	runAxioms(t, 2, []axiomCase{
		{"not finally", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Complement(p.Finally(ev(p))), p.Globally(p.Complement(ev(p)))
		}},
		{"not globally", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Complement(p.Globally(ev(p))), p.Finally(p.Complement(ev(p)))
		}},
		{"not next", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Complement(p.Next(ev(p))), p.Union(p.End(), p.Next(p.Complement(ev(p))))
		}},
		{"finally unfolds", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Finally(ev(p)), p.Union(ev(p), p.Next(p.Finally(ev(p))))
		}},
		{"globally unfolds", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Globally(ev(p)), p.Intersect(ev(p), p.Union(p.End(), p.Next(p.Globally(ev(p)))))
		}},
		{"next over and", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Next(p.Intersect(ev(p), fv(p))), p.Intersect(p.Next(ev(p)), p.Next(fv(p)))
		}},
		{"next over or", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Next(p.Union(ev(p), fv(p))), p.Union(p.Next(ev(p)), p.Next(fv(p)))
		}},
		{"until unfolds", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			u := p.Until(ev(p), fv(p))
			return u, p.Union(fv(p), p.Intersect(ev(p), p.Next(u)))
		}},
		{"weak until unfolds", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			w := p.WeakUntil(ev(p), fv(p))
			return w, p.Union(fv(p), p.Intersect(ev(p), p.WeakNext(w)))
		}},
		{"release by duality", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Release(ev(p), fv(p)),
				p.Complement(p.Until(p.Complement(ev(p)), p.Complement(fv(p))))
		}},
		{"release unfolds", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			r := p.Release(ev(p), fv(p))
			return r, p.Intersect(fv(p), p.Union(ev(p), p.WeakNext(r)))
		}},
		{"not release", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.Complement(p.Release(ev(p), fv(p))),
				p.Until(p.Complement(ev(p)), p.Complement(fv(p)))
		}},
		{"strong release", func(p *expr.Pool) (expr.Expr, expr.Expr) {
			return p.StrongRelease(ev(p), fv(p)),
				p.Intersect(p.Release(ev(p), fv(p)), p.Finally(fv(p)))
		}},
	})
}

func TestContainment(t *testing.T) {
	a := newAut(t, 2)
	p := a.Pool()
	e := p.Union(p.Test(0, true), p.Sequence(p.Assign(1, true), p.Dup()))
	f := p.Test(1, false)
	r := p.Star(p.Dup())

	require.True(t, a.LessEq(p.Until(e, f), p.WeakUntil(e, f)), "U below W")
	require.True(t, a.LessEq(p.Next(e), p.WeakNext(e)), "X below WX")
	require.True(t, a.LessEq(e, p.Union(e, r)), "e below e + r")
	require.True(t, a.LessEq(p.Intersect(e, r), e), "e & r below e")
	require.True(t, a.LessEq(p.StrongRelease(e, f), p.Release(e, f)), "S below R")

	// Monotonicity of the three composition operators.
	require.True(t, a.LessEq(p.Union(e, f), p.Union(p.Union(e, r), f)))
	require.True(t, a.LessEq(p.Intersect(e, f), p.Intersect(p.Union(e, r), f)))
	require.True(t, a.LessEq(p.Sequence(e, f), p.Sequence(p.Union(e, r), f)))

	// And two orders that must not hold.
	require.False(t, a.LessEq(p.Union(e, r), e))
	require.False(t, a.LessEq(p.One(), p.Zero()))
}

func TestPrimitiveShapes(t *testing.T) {
	a := newAut(t, 2)
	p := a.Pool()

	// Epsilon of the primitives lands on the matching store constants.
	require.Equal(t, a.SPP().Zero, a.Epsilon(a.StateOf(p.Zero())))
	require.Equal(t, a.SPP().One, a.Epsilon(a.StateOf(p.One())))
	require.Equal(t, a.SPP().Top, a.Epsilon(a.StateOf(p.Top())))
	require.Equal(t, a.SPP().Zero, a.Epsilon(a.StateOf(p.Dup())))
	require.Equal(t, a.SPP().Test(0, true), a.Epsilon(a.StateOf(p.Test(0, true))))
	require.Equal(t, a.SPP().Assign(1, false), a.Epsilon(a.StateOf(p.Assign(1, false))))

	// Dup has the single identity-guarded transition into One.
	d := a.Delta(a.StateOf(p.Dup()))
	require.Len(t, d, 1)
	require.Equal(t, a.SPP().One, d[0].Guard)
	require.Equal(t, a.StateOf(p.One()), d[0].Target)

	// Tests and assignments have no transitions at all.
	require.Empty(t, a.Delta(a.StateOf(p.Test(0, true))))
	require.Empty(t, a.Delta(a.StateOf(p.Assign(0, true))))

	// States are memoised by normalised expression identity.
	require.Equal(t, a.StateOf(p.Union(p.Test(0, true), p.Zero())), a.StateOf(p.Test(0, true)))
}

func TestIsEmptyBasics(t *testing.T) {
	a := newAut(t, 2)
	p := a.Pool()
	require.True(t, a.IsEmpty(a.StateOf(p.Zero())))
	require.False(t, a.IsEmpty(a.StateOf(p.One())))
	require.False(t, a.IsEmpty(a.StateOf(p.Top())))
	require.False(t, a.IsEmpty(a.StateOf(p.Dup())))
	require.True(t, a.IsEmpty(a.StateOf(p.Sequence(p.Test(0, true), p.Test(0, false)))))
	// A dead test guards the dup away from acceptance.
	require.True(t, a.IsEmpty(a.StateOf(p.Sequence(p.Zero(), p.Dup()))))
	// The contradiction stays dead under star and dup.
	dead := p.Sequence(p.Test(0, true), p.Test(0, false))
	require.True(t, a.IsEmpty(a.StateOf(p.Sequence(p.Dup(), dead))))
	require.True(t, a.IsEmpty(a.StateOf(p.Sequence(p.Star(p.Dup()), dead))))
}

// TestAssignmentThreadsThroughDup pins down the case that forces the
// emptiness scan to track reachable packet sets: the assignment fixes
// the packet before the dup, so the contradicting test behind the dup
// can never fire.
func TestAssignmentThreadsThroughDup(t *testing.T) {
	a := newAut(t, 2)
	p := a.Pool()
	e := p.Sequence(
		p.Sequence(p.Assign(0, true), p.Dup()),
		p.Sequence(p.Test(0, false), p.Dup()),
	)
	require.True(t, a.IsEmpty(a.StateOf(e)))

	// Flip the test and the language is inhabited again.
	f := p.Sequence(
		p.Sequence(p.Assign(0, true), p.Dup()),
		p.Sequence(p.Test(0, true), p.Dup()),
	)
	require.False(t, a.IsEmpty(a.StateOf(f)))
}
