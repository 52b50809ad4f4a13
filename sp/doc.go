// Package sp implements symbolic packets: sets of k-bit packets
// represented as complete binary decision diagrams of depth k.
//
// Unlike traditional BDDs, no level is ever skipped: every path from the
// root to a leaf takes exactly k decision steps, one per packet field.
// Leaves are 0 (reject) and 1 (accept). Each internal node carries two
// children (x0, x1), one per value of the node's bit.
//
// # Handles and hash-consing
//
// An SP is an opaque uint32 handle into a Store. Handles 0 and 1 are
// reserved for the leaves; internal nodes are numbered from 2 in
// first-creation order. Every node is hash-consed, so structural
// equality of two diagrams is equality of their handles. All memoized
// operators rely on that invariant.
//
// # Operations
//
//   - Union, Intersect, Xor, Difference - componentwise set algebra.
//   - Complement                        - pointwise complement.
//   - Test(f, v)                        - the set of packets whose field f is v.
//   - Branch, IfElse                    - bitwise muxes used to build Test.
//   - Rand, All                         - random and exhaustive diagrams for tests.
//
// Every operator is memoized per Store; memo tables are pre-seeded with
// the leaf base cases so recursive bodies never branch on leaf handles.
// Amortised cost is O(|memo| * k); the store grows monotonically and is
// released by dropping it.
//
// A Store is single-threaded: it owns its node vector, hash-consing
// table and memo tables exclusively. Run independent stores per
// goroutine to parallelise.
package sp
