// Package oracle defines the contract for the Feature Oracle, the external collaborator that
// answers boolean questions about presence conditions (spec.md §2, §4 "Feature Oracle"). The core
// never inspects, normalizes, or solves feature expressions itself; it only asks the oracle.
package oracle

import "github.com/typechef-go/vcfgcore/util/orderedmap"

// Expr is an opaque boolean expression over feature symbols. The core treats it as inert data:
// it is created, combined, and interpreted entirely by the external feature-expression library
// and the Oracle implementation. Two Exprs built independently may or may not be `==`-comparable;
// callers must go through the Oracle for any semantic question.
type Expr interface{}

// Oracle answers boolean questions about presence conditions. Implementations are expected to be
// backed by a SAT solver or equivalent decision procedure; this package never performs that work
// itself (spec.md §1 Non-goals: "SAT solving (consumed as a black-box implication/satisfiability
// oracle)").
type Oracle interface {
	// Implies reports whether a implies b (a => b is a tautology).
	Implies(a, b Expr) bool
	// Equivalent reports whether a and b are logically equivalent.
	Equivalent(a, b Expr) bool
	// IsSatisfiable reports whether a has at least one satisfying assignment.
	IsSatisfiable(a Expr) bool
	// IsTautology reports whether a holds under every assignment.
	IsTautology(a Expr) bool
	// IsContradiction reports whether a holds under no assignment.
	IsContradiction(a Expr) bool
	// And, Or, Not combine expressions. The core uses these only to build accumulatedCtx-style
	// running conditions (spec.md §4.2.5); it never inspects the result beyond passing it back to
	// the oracle.
	And(a, b Expr) Expr
	Or(a, b Expr) Expr
	Not(a Expr) Expr
}

type pairKey struct {
	a, b Expr
}

// Cached wraps an Oracle and memoizes Implies/Equivalent per (lhs,rhs) pair, and
// IsSatisfiable/IsTautology/IsContradiction per single expression, for the lifetime of one
// session. Oracle calls are assumed expensive (spec.md §9 "Feature oracle calls are expensive");
// this is the core's side of that contract, not a property of the oracle itself.
type Cached struct {
	inner Oracle

	implies     *orderedmap.OrderedMap[pairKey, bool]
	equivalent  *orderedmap.OrderedMap[pairKey, bool]
	satisfiable *orderedmap.OrderedMap[Expr, bool]
	tautology   *orderedmap.OrderedMap[Expr, bool]
	contra      *orderedmap.OrderedMap[Expr, bool]
}

// NewCached wraps inner with a per-session memoization layer.
func NewCached(inner Oracle) *Cached {
	return &Cached{
		inner:       inner,
		implies:     orderedmap.New[pairKey, bool](),
		equivalent:  orderedmap.New[pairKey, bool](),
		satisfiable: orderedmap.New[Expr, bool](),
		tautology:   orderedmap.New[Expr, bool](),
		contra:      orderedmap.New[Expr, bool](),
	}
}

// Implies is the memoized version of inner.Implies.
func (c *Cached) Implies(a, b Expr) bool {
	k := pairKey{a, b}
	if v, ok := c.implies.Load(k); ok {
		return v
	}
	v := c.inner.Implies(a, b)
	c.implies.Store(k, v)
	return v
}

// Equivalent is the memoized version of inner.Equivalent. The pair is memoized in both orders
// since the caller may query (a,b) and (b,a) independently and equivalence is symmetric.
func (c *Cached) Equivalent(a, b Expr) bool {
	k := pairKey{a, b}
	if v, ok := c.equivalent.Load(k); ok {
		return v
	}
	v := c.inner.Equivalent(a, b)
	c.equivalent.Store(k, v)
	c.equivalent.Store(pairKey{b, a}, v)
	return v
}

// IsSatisfiable is the memoized version of inner.IsSatisfiable.
func (c *Cached) IsSatisfiable(a Expr) bool {
	if v, ok := c.satisfiable.Load(a); ok {
		return v
	}
	v := c.inner.IsSatisfiable(a)
	c.satisfiable.Store(a, v)
	return v
}

// IsTautology is the memoized version of inner.IsTautology.
func (c *Cached) IsTautology(a Expr) bool {
	if v, ok := c.tautology.Load(a); ok {
		return v
	}
	v := c.inner.IsTautology(a)
	c.tautology.Store(a, v)
	return v
}

// IsContradiction is the memoized version of inner.IsContradiction.
func (c *Cached) IsContradiction(a Expr) bool {
	if v, ok := c.contra.Load(a); ok {
		return v
	}
	v := c.inner.IsContradiction(a)
	c.contra.Store(a, v)
	return v
}

// And delegates uncached; combination is cheap, only the boolean queries above are memoized.
func (c *Cached) And(a, b Expr) Expr { return c.inner.And(a, b) }

// Or delegates uncached.
func (c *Cached) Or(a, b Expr) Expr { return c.inner.Or(a, b) }

// Not delegates uncached.
func (c *Cached) Not(a Expr) Expr { return c.inner.Not(a) }
