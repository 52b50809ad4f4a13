package aut

import (
	"errors"
	"fmt"

	"github.com/k2lang/katch/core"
	"github.com/k2lang/katch/expr"
	"github.com/k2lang/katch/sp"
	"github.com/k2lang/katch/spp"
)

// Sentinel errors for automaton construction.
var (
	// ErrNilPool indicates a nil expression pool was passed to New.
	ErrNilPool = errors.New("aut: expression pool is nil")

	// ErrBadNumFields indicates a negative packet width.
	ErrBadNumFields = errors.New("aut: number of fields must be non-negative")
)

// State is a handle into the automaton's state table. States are
// created on demand from expressions and memoised by expression
// identity, so equal normalised expressions share one state.
type State = uint32

// Transition is one cell of a state's delta partition: reading an
// observation allowed by Guard moves the automaton to Target. Guards of
// one state are pairwise disjoint; observations outside every guard
// implicitly move to the drop state.
type Transition struct {
	Guard  spp.SPP
	Target State
}

// tcell is the internal transition form, carrying the target as a
// normalised expression rather than an interned state.
type tcell struct {
	guard  spp.SPP
	target expr.Expr
}

// stateEntry pairs a state's normalised expression with its lazily
// computed epsilon and delta.
type stateEntry struct {
	e        expr.Expr
	eps      spp.SPP
	epsDone  bool
	delta    []Transition
	deltaSet bool
}

// pushKey keys the image-operator memo table.
type pushKey struct {
	set sp.SP
	rel spp.SPP
}

// Aut is the symbolic automaton for one decision procedure. It owns an
// sp store (packet sets), an spp store (packet relations) and the state
// table; all three grow monotonically and are released together by
// dropping the automaton.
type Aut struct {
	k    int
	pool *expr.Pool
	sps  *sp.Store
	spps *spp.Store

	states []stateEntry
	index  map[expr.Expr]State

	normMemo  map[expr.Expr]expr.Expr
	epsMemo   map[expr.Expr]spp.SPP
	deltaMemo map[expr.Expr][]tcell
	pushMemo  map[pushKey]sp.SP
}

// New creates an automaton for packets with k binary fields, building
// expressions in pool. The pool may be shared across automata (it only
// grows); the sp and spp stores are private to the automaton.
func New(k int, pool *expr.Pool) (*Aut, error) {
	if pool == nil {
		return nil, ErrNilPool
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: k=%d", ErrBadNumFields, k)
	}
	a := &Aut{
		k:         k,
		pool:      pool,
		sps:       sp.New(k),
		spps:      spp.New(k),
		index:     make(map[expr.Expr]State),
		normMemo:  make(map[expr.Expr]expr.Expr),
		epsMemo:   make(map[expr.Expr]spp.SPP),
		deltaMemo: make(map[expr.Expr][]tcell),
		pushMemo: map[pushKey]sp.SP{
			{0, 0}: 0, {0, 1}: 0, {1, 0}: 0, {1, 1}: 1,
		},
	}
	return a, nil
}

// NumFields reports the packet width k the automaton was built for.
func (a *Aut) NumFields() int { return a.k }

// Pool returns the expression pool the automaton builds in.
func (a *Aut) Pool() *expr.Pool { return a.pool }

// SP returns the automaton's packet-set store.
func (a *Aut) SP() *sp.Store { return a.sps }

// SPP returns the automaton's packet-relation store.
func (a *Aut) SPP() *spp.Store { return a.spps }

// StateOf normalises e and interns the result as a state.
func (a *Aut) StateOf(e expr.Expr) State {
	return a.intern(a.normalize(e))
}

func (a *Aut) intern(n expr.Expr) State {
	if s, ok := a.index[n]; ok {
		return s
	}
	s := State(len(a.states))
	a.states = append(a.states, stateEntry{e: n})
	a.index[n] = s
	return s
}

// Expression returns the normalised expression backing state s.
func (a *Aut) Expression(s State) expr.Expr {
	return a.entry(s).e
}

func (a *Aut) entry(s State) *stateEntry {
	if int(s) >= len(a.states) {
		panic(fmt.Sprintf("aut: state %d out of range (states=%d)", s, len(a.states)))
	}
	return &a.states[s]
}

// Epsilon returns the acceptance relation of state s: the SPP relating
// its current packet to the final packet of runs that accept without
// reading further history.
func (a *Aut) Epsilon(s State) spp.SPP {
	st := a.entry(s)
	if !st.epsDone {
		st.eps = a.eps(st.e)
		st.epsDone = true
	}
	return st.eps
}

// Delta returns the transition partition of state s. The returned slice
// is shared; callers must not mutate it.
func (a *Aut) Delta(s State) []Transition {
	if st := a.entry(s); st.deltaSet {
		return st.delta
	}
	cells := a.delta(a.entry(s).e)
	ts := make([]Transition, len(cells))
	for i, c := range cells {
		// Interning may grow the state table, so the entry pointer is
		// only taken after the loop.
		ts[i] = Transition{Guard: c.guard, Target: a.intern(c.target)}
	}
	st := a.entry(s)
	st.delta = ts
	st.deltaSet = true
	return ts
}

// Equiv reports whether e1 and e2 denote the same relation on packet
// histories, by emptiness of their symmetric difference.
func (a *Aut) Equiv(e1, e2 expr.Expr) bool {
	return a.IsEmpty(a.StateOf(a.pool.Xor(e1, e2)))
}

// LessEq reports whether e1 is pointwise contained in e2, by emptiness
// of xor(union(e1, e2), e2).
func (a *Aut) LessEq(e1, e2 expr.Expr) bool {
	return a.IsEmpty(a.StateOf(a.pool.Xor(a.pool.Union(e1, e2), e2)))
}

// field panics when a field escapes the configured packet width. The
// stores fail fast on their own, but catching it here keeps the message
// in automaton terms.
func (a *Aut) field(f core.Field) core.Field {
	if int(f) >= a.k {
		panic(fmt.Sprintf("aut: field x%d out of range (k=%d)", f, a.k))
	}
	return f
}
