package cnode

import "github.com/typechef-go/vcfgcore/oracle"

// condKind tags which arm of Conditional is populated.
type condKind int

const (
	kindOne condKind = iota
	kindChoice
	kindOpt
)

// Conditional is the tagged sum described in spec.md §3: a value is either unconditionally
// present (One), an alternative between two conditional sub-values guarded by a presence
// condition (Choice), or optionally present inside a homogeneous list (Opt). It is a closed sum,
// not a collection -- callers must handle all three arms, which Fold enforces structurally.
type Conditional[T any] struct {
	kind  condKind
	value T
	cond  oracle.Expr
	then  *Conditional[T]
	els   *Conditional[T]
}

// One builds an unconditionally-present Conditional.
func One[T any](value T) Conditional[T] {
	return Conditional[T]{kind: kindOne, value: value}
}

// Choice builds a Conditional that is thenC under cond and elseC under its negation. thenC and
// elseC are themselves Conditionals, so Choice nests to arbitrary depth (spec.md §3).
func Choice[T any](cond oracle.Expr, thenC, elseC Conditional[T]) Conditional[T] {
	return Conditional[T]{kind: kindChoice, cond: cond, then: &thenC, els: &elseC}
}

// Opt builds a Conditional that holds value only when cond holds, used inside homogeneous lists
// such as a CompoundStatement's items or a StructDeclaration's declarators.
func Opt[T any](cond oracle.Expr, value T) Conditional[T] {
	return Conditional[T]{kind: kindOpt, cond: cond, value: value}
}

// IsOne reports whether c is the unconditional arm.
func (c Conditional[T]) IsOne() bool { return c.kind == kindOne }

// IsChoice reports whether c is the Choice arm.
func (c Conditional[T]) IsChoice() bool { return c.kind == kindChoice }

// IsOpt reports whether c is the Opt arm.
func (c Conditional[T]) IsOpt() bool { return c.kind == kindOpt }

// Cond returns the guarding presence condition for Choice and Opt; it panics on One, since One has
// no condition by construction. Callers should branch on IsChoice/IsOpt/IsOne (or use Fold)
// before calling Cond.
func (c Conditional[T]) Cond() oracle.Expr {
	if c.kind == kindOne {
		panic("cnode: Cond() called on a One Conditional")
	}
	return c.cond
}

// Fold exhaustively matches all three arms of a Conditional, so adding a new arm would be a
// compile error at every call site instead of a silently-missed case (spec.md §9 "Conditional
// wrappers... Treat exhaustively with pattern matching").
func Fold[T any, R any](
	c Conditional[T],
	one func(value T) R,
	choice func(cond oracle.Expr, thenC, elseC Conditional[T]) R,
	opt func(cond oracle.Expr, value T) R,
) R {
	switch c.kind {
	case kindOne:
		return one(c.value)
	case kindChoice:
		return choice(c.cond, *c.then, *c.els)
	case kindOpt:
		return opt(c.cond, c.value)
	default:
		panic("cnode: unreachable Conditional kind")
	}
}

// Flatten walks c and calls visit(value, cond) for every reachable value, passing the conjunction
// of presence conditions accumulated from the root of c down to that value (joined with `and`).
// ctx is the starting context (commonly a tautology). This mirrors how the V-CFG Engine and
// Def-Use Builder both need to enumerate every configuration-distinct alternative inside a Choice
// (spec.md §4.3.2 "the Builder emits ONE entry per configuration-distinct declarator").
func Flatten[T any](c Conditional[T], ctx oracle.Expr, and func(a, b oracle.Expr) oracle.Expr, not func(a oracle.Expr) oracle.Expr, visit func(value T, cond oracle.Expr)) {
	Fold(c,
		func(value T) R0 {
			visit(value, ctx)
			return R0{}
		},
		func(cond oracle.Expr, thenC, elseC Conditional[T]) R0 {
			Flatten(thenC, and(ctx, cond), and, not, visit)
			Flatten(elseC, and(ctx, not(cond)), and, not, visit)
			return R0{}
		},
		func(cond oracle.Expr, value T) R0 {
			visit(value, and(ctx, cond))
			return R0{}
		},
	)
}

// R0 is an empty marker return type used by Flatten's Fold callbacks, which communicate solely
// through the visit side effect.
type R0 struct{}

// Leaves returns every value reachable in c, ignoring presence conditions entirely. It is used
// where a search must consider all textual alternatives regardless of which configuration selects
// them -- e.g. finding every LabelStatement a goto might target, since the label and the goto need
// not share a presence condition at all (spec.md §4.2.3 "GotoStatement... all reachable
// LabelStatement nodes with matching name").
func Leaves[T any](c Conditional[T]) []T {
	return Fold(c,
		func(v T) []T { return []T{v} },
		func(_ oracle.Expr, thenC, elseC Conditional[T]) []T {
			return append(Leaves(thenC), Leaves(elseC)...)
		},
		func(_ oracle.Expr, v T) []T { return []T{v} },
	)
}
