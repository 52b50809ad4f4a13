// Package expr implements hash-consed expression trees for the extended
// NetKAT algebra: Kleene algebra with tests, packet-field assignments,
// the history-marking primitive dup, and linear-temporal-logic operators
// over packet traces.
//
// An Expr is an opaque uint32 handle into a Pool. Nodes are hash-consed,
// so structurally equal expressions share one handle and handle equality
// is structural equality; automaton memoization depends on that. Handles
// are plain integers, so sharing a subtree is a copy of one word.
//
// Smart constructors are total and perform no algebraic simplification:
// Union(Zero(), Zero()) is a real Union node. Simplification lives in
// the automaton, where semantic equality is decided anyway.
//
// The printer emits the K2 surface syntax accepted by the parser
// package, so String output round-trips.
package expr
