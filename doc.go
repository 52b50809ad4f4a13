// Package katch decides equivalence and containment of expressions in an
// extended NetKAT: a Kleene algebra with tests, packet-field assignments,
// a history-marking primitive (dup), and linear-temporal-logic operators
// over packet traces.
//
// 🚀 What is katch?
//
//	A symbolic decision procedure built from small, composable stores:
//
//	  • Hash-consed decision diagrams for packet sets and packet relations
//	  • A symbolic automaton with coinductive emptiness checking
//	  • An axiom-driven fuzzer acting as a differential test oracle
//
// ✨ Why choose katch?
//
//   - Canonical handles   — structural equality is integer equality
//   - Memoized operators  — union, sequence and star stay polynomial
//   - Deterministic       — fixed handle order makes every run replayable
//   - Pure Go             — no cgo, a thin and explicit dependency set
//
// Under the hood, everything is organized under focused subpackages:
//
//	sp/     — sets of packets as complete binary decision diagrams
//	spp/    — relations on packets as complete quaternary decision diagrams
//	expr/   — hash-consed expression trees with smart constructors
//	aut/    — the symbolic automaton: epsilon, delta, emptiness, Equiv, LessEq
//	fuzz/   — generators of provably equivalent and ordered expression pairs
//	parser/ — the K2 surface syntax
//
// Quick taste:
//
//	pool := expr.NewPool()
//	a, _ := aut.New(3, pool)
//	p := pool.Sequence(pool.Assign(0, true), pool.Test(0, true))
//	q := pool.Assign(0, true)
//	fmt.Println(a.Equiv(p, q)) // true
//
// Dive into the per-package docs for the data-model invariants, the
// operator laws each store upholds, and the automaton construction rules.
//
//	go get github.com/k2lang/katch
package katch
