// Package spp implements symbolic packet programs: binary relations on
// k-bit packets represented as complete quaternary decision diagrams of
// depth k.
//
// A packet-to-packet relation is naturally indexed by two bits per
// field, one from the input packet and one from the output packet.
// Each node therefore carries four children (x00, x01, x10, x11), where
// xvw is the sub-relation applying when the input bit is v and the
// output bit is w - a 2x2 block in the matrix view of the relation.
// Using one quaternary node per field, rather than two binary levels,
// halves the depth and turns relational composition into a straight 2x2
// matrix product. No level is ever skipped: every path from the root to
// a leaf takes exactly k steps.
//
// Leaves are 0 (the empty relation) and 1 (the full diagonal relation).
// The cached Zero, One and Top handles are the full-depth empty,
// identity and universal relations.
//
// # Handles and hash-consing
//
// An SPP is an opaque uint32 handle into a Store. Handles 0 and 1 are
// reserved for the leaves; internal nodes are numbered from 2 in
// first-creation order. Nodes are hash-consed, so structural equality
// is handle equality; every memo table relies on that.
//
// # Operations
//
//   - Union, Intersect, Xor, Difference - componentwise Boolean algebra.
//   - Complement                        - pointwise complement.
//   - Sequence                          - relational composition as a 2x2
//     matrix product (scalar multiply = Sequence, scalar add = Union).
//   - Star                              - Kleene star by the block formula
//     (A B; C D)* = (E, E B D*; D* C E, D* + D* C E B D*), E = (A + B D* C)*.
//   - Branch, IfElse                    - bitwise muxes at a named field.
//   - Test(f, v)                        - the sub-identity {(p,p) | p[f]=v}.
//   - Assign(f, v)                      - the update {(p, p[f:=v])}.
//   - Rand, All                         - random and exhaustive diagrams.
//
// Memoization is mandatory, not optional: every operator has its own
// memo keyed by canonical argument handles, pre-seeded with the leaf
// base cases. Amortised cost is O(|memo| * k); without the memo tables
// Sequence and Star are exponential.
//
// A Store is single-threaded and grows monotonically; drop it to
// release all nodes and memo tables at once.
package spp
