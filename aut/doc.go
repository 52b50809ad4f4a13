// Package aut builds the symbolic automaton that decides language
// emptiness, equivalence and containment of extended-NetKAT expressions.
//
// # States
//
// A State is an integer handle into a table of normalised expressions.
// Expressions are normalised when they become states or transition
// targets: Union and Intersect are flattened, sorted and deduplicated,
// units and annihilators are dropped, Sequence is flattened with One
// factors removed, double complements cancel, and the trivial Xor and
// Difference collapses apply. The smart constructors of the expr
// package stay raw; the quotient happens here, where semantic equality
// is being decided anyway. The normalisation is what lets the
// LTL fixed points close up on finitely many states.
//
// # Epsilon and delta
//
// For each state the automaton computes:
//
//   - Epsilon: an SPP relating the state's current packet to the final
//     packet of accepting runs performing no further dup.
//   - Delta: a deterministic guarded partition - pairwise-disjoint SPP
//     guards, each with the residual state reached when the guarded
//     observation is read. Packets outside every guard implicitly
//     transition to the drop state.
//
// The construction is Brzozowski-style derivation with symbolic packet
// relations; temporal operators (WeakNext, Finally, Globally, Until,
// WeakUntil, Release, StrongRelease) are handled through their
// expansion laws, memoised on expression identity. Hash-consing makes
// the reachable state space finite, so the expansion cannot diverge.
//
// # Emptiness
//
// IsEmpty runs a greatest-fixed-point scan over (state, reachable
// packet set) pairs: a state witnesses non-emptiness only when its
// epsilon restricted to the packets actually reachable at it is
// non-empty. The packet sets are SPs; they grow monotonically in a
// finite lattice, so the scan terminates. Equivalence and containment
// reduce to emptiness:
//
//	Equiv(e1, e2)  = IsEmpty(StateOf(Xor(e1, e2)))
//	LessEq(e1, e2) = IsEmpty(StateOf(Xor(Union(e1, e2), e2)))
//
// An Aut owns its sp and spp stores exclusively and is single-threaded;
// build one automaton per goroutine to parallelise.
package aut
