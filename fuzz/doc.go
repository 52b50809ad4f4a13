// Package fuzz generates pairs of expressions with a known semantic
// relationship, for use as a differential oracle against the automaton.
//
// Two generators are provided:
//
//   - GenAx(n, d) returns a pair equal by construction: n levels of
//     axiom applications (Kleene algebra, Boolean algebra, packet
//     axioms, LTL expansion laws) over random leaves of depth d. The
//     equations built from recursive pairs are applied in both
//     directions; the closed packet axioms are always emitted in their
//     written orientation.
//   - GenLeq(n, d) returns a pair ordered by containment, built from
//     equal pairs, smaller ordered pairs under monotone constructors,
//     and the direct inequalities (U before W, X before WX, e below
//     e + r, e & r below e).
//
// A failing pair is reduced by Minimize, which greedily replaces either
// side with one of its structural shrinks (leaves to 0/1, binary
// operators to their operands, unary to the operand) while the failure
// predicate keeps holding.
//
// All randomness is threaded through one explicit *rand.Rand owned by
// the Generator, so a seed reproduces every trial exactly. Generating
// the packet axioms needs two distinct fields, hence the NumFields >= 2
// validation.
package fuzz
