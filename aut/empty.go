package aut

import (
	"github.com/k2lang/katch/sp"
	"github.com/k2lang/katch/spp"
)

// push computes the image of a packet set through a packet relation:
// the SP of outputs q such that some p in set relates to q. The joint
// traversal walks both diagrams level by level; the memo table is
// pre-seeded with the four leaf cases. This is the bridge between the
// two stores that the emptiness scan is built on.
func (a *Aut) push(set sp.SP, rel spp.SPP) sp.SP {
	key := pushKey{set, rel}
	if r, ok := a.pushMemo[key]; ok {
		return r
	}
	s0, s1 := a.sps.Node(set)
	r00, r01, r10, r11 := a.spps.Node(rel)
	out0 := a.sps.Union(a.push(s0, r00), a.push(s1, r10))
	out1 := a.sps.Union(a.push(s0, r01), a.push(s1, r11))
	r := a.sps.Mk(out0, out1)
	a.pushMemo[key] = r
	return r
}

// IsEmpty decides whether state s accepts no history at all, by a
// greatest-fixed-point scan of the reachable state graph. Alongside
// each state the scan tracks the SP of packets that can actually be
// current when the state is entered: a state only witnesses
// non-emptiness when its epsilon restricted to those packets is
// inhabited, and successors only receive the image of the tracked set
// through the connecting guard. Input sets grow monotonically in a
// finite lattice, so the scan terminates; cyclic state graphs (star and
// the temporal fixed points) are handled by the same monotonicity, with
// no cycle ever materialised.
func (a *Aut) IsEmpty(s State) bool {
	inputs := map[State]sp.SP{s: a.sps.One}
	work := []State{s}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		in := inputs[cur]
		if a.push(in, a.Epsilon(cur)) != a.sps.Zero {
			return false
		}
		for _, t := range a.Delta(cur) {
			out := a.push(in, t.Guard)
			if out == a.sps.Zero {
				continue
			}
			old, seen := inputs[t.Target]
			if !seen {
				inputs[t.Target] = out
				work = append(work, t.Target)
				continue
			}
			grown := a.sps.Union(old, out)
			if grown != old {
				inputs[t.Target] = grown
				work = append(work, t.Target)
			}
		}
	}
	return true
}
