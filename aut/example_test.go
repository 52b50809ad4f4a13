// Package aut_test examples demonstrating the decision procedure.
// Each example is runnable via "go test -run Example".
package aut_test

import (
	"fmt"

	"github.com/k2lang/katch/aut"
	"github.com/k2lang/katch/expr"
)

// ExampleAut_Equiv decides a packet axiom: testing a field right after
// assigning it is redundant.
func ExampleAut_Equiv() {
	// 1) One pool of hash-consed expressions, shared by both sides.
	pool := expr.NewPool()
	// 2) An automaton over packets with three binary fields.
	a, err := aut.New(3, pool)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	// 3) Build x0 := 1; x0 = 1 and its absorbed form x0 := 1.
	lhs := pool.Sequence(pool.Assign(0, true), pool.Test(0, true))
	rhs := pool.Assign(0, true)
	// 4) Equivalence is emptiness of the symmetric difference.
	fmt.Println(a.Equiv(lhs, rhs))
	// 5) Padding one side with 1 is observable, so this must fail.
	fmt.Println(a.Equiv(pool.Union(rhs, pool.One()), rhs))
	// Output:
	// true
	// false
}

// ExampleAut_LessEq checks a containment: the strong until implies the
// weak one.
func ExampleAut_LessEq() {
	pool := expr.NewPool()
	a, err := aut.New(2, pool)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	e := pool.Test(0, true)
	f := pool.Test(1, false)
	fmt.Println(a.LessEq(pool.Until(e, f), pool.WeakUntil(e, f)))
	fmt.Println(a.LessEq(pool.WeakUntil(e, f), pool.Until(e, f)))
	// Output:
	// true
	// false
}
