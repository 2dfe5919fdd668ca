package oracle_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/typechef-go/vcfgcore/oracle"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// countingOracle is a trivial decision procedure (Implies and IsSatisfiable always true,
// Equivalent true only for ==-equal operands, IsTautology and IsContradiction always false) that
// counts how many times Implies, Equivalent and IsSatisfiable are actually invoked, so tests can
// assert Cached's memoization behavior directly.
type countingOracle struct {
	impliesCalls     int
	equivalentCalls  int
	satisfiableCalls int
}

func (c *countingOracle) Implies(a, b oracle.Expr) bool    { c.impliesCalls++; return true }
func (c *countingOracle) Equivalent(a, b oracle.Expr) bool { c.equivalentCalls++; return a == b }
func (c *countingOracle) IsSatisfiable(a oracle.Expr) bool { c.satisfiableCalls++; return true }
func (c *countingOracle) IsTautology(a oracle.Expr) bool   { return false }
func (c *countingOracle) IsContradiction(a oracle.Expr) bool { return false }
func (c *countingOracle) And(a, b oracle.Expr) oracle.Expr { return [2]oracle.Expr{a, b} }
func (c *countingOracle) Or(a, b oracle.Expr) oracle.Expr  { return [2]oracle.Expr{a, b} }
func (c *countingOracle) Not(a oracle.Expr) oracle.Expr    { return [1]oracle.Expr{a} }

func TestCachedMemoizesImplies(t *testing.T) {
	t.Parallel()

	inner := &countingOracle{}
	cached := oracle.NewCached(inner)

	require.True(t, cached.Implies("a", "b"))
	require.True(t, cached.Implies("a", "b"))
	require.Equal(t, 1, inner.impliesCalls, "a repeated (a,b) query must hit the memo, not the inner oracle")

	require.True(t, cached.Implies("b", "a"))
	require.Equal(t, 2, inner.impliesCalls, "(b,a) is a distinct pair from (a,b) and is not implicitly memoized")
}

func TestCachedEquivalentMemoizesBothOrders(t *testing.T) {
	t.Parallel()

	inner := &countingOracle{}
	cached := oracle.NewCached(inner)

	require.False(t, cached.Equivalent("x", "y"))
	require.Equal(t, 1, inner.equivalentCalls)

	// Equivalence is symmetric, so querying the reversed pair must also hit the memo.
	require.False(t, cached.Equivalent("y", "x"))
	require.Equal(t, 1, inner.equivalentCalls)
}

func TestCachedIsSatisfiableMemoizesPerExpr(t *testing.T) {
	t.Parallel()

	inner := &countingOracle{}
	cached := oracle.NewCached(inner)

	require.True(t, cached.IsSatisfiable("p"))
	require.True(t, cached.IsSatisfiable("p"))
	require.True(t, cached.IsSatisfiable("q"))
	require.Equal(t, 2, inner.satisfiableCalls)
}

func TestCachedAndOrNotDelegateUncached(t *testing.T) {
	t.Parallel()

	inner := &countingOracle{}
	cached := oracle.NewCached(inner)

	require.Equal(t, [2]oracle.Expr{"a", "b"}, cached.And("a", "b"))
	require.Equal(t, [2]oracle.Expr{"a", "b"}, cached.Or("a", "b"))
	require.Equal(t, [1]oracle.Expr{"a"}, cached.Not("a"))
}
