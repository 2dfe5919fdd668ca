package cnode_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/oracle"
	"github.com/typechef-go/vcfgcore/oracle/testoracle"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var to = testoracle.New()

func and(a, b oracle.Expr) oracle.Expr { return to.And(a, b) }
func not(a oracle.Expr) oracle.Expr    { return to.Not(a) }

func TestFlattenOne(t *testing.T) {
	t.Parallel()

	c := cnode.One(42)
	var got []int
	cnode.Flatten(c, testoracle.True, and, not, func(v int, _ oracle.Expr) { got = append(got, v) })
	require.Equal(t, []int{42}, got)
}

func TestFlattenChoice(t *testing.T) {
	t.Parallel()

	feat := testoracle.Var("A")
	c := cnode.Choice[int](feat, cnode.One(1), cnode.One(2))

	var values []int
	var conds []oracle.Expr
	cnode.Flatten(c, testoracle.True, and, not, func(v int, cond oracle.Expr) {
		values = append(values, v)
		conds = append(conds, cond)
	})

	require.Equal(t, []int{1, 2}, values)
	require.True(t, to.Equivalent(conds[0], feat))
	require.True(t, to.Equivalent(conds[1], to.Not(feat)))
}

func TestFlattenOptVisitsValueUnderGuard(t *testing.T) {
	t.Parallel()

	feat := testoracle.Var("B")
	c := cnode.Opt(feat, "present")

	var conds []oracle.Expr
	cnode.Flatten(c, testoracle.True, and, not, func(_ string, cond oracle.Expr) {
		conds = append(conds, cond)
	})

	require.Len(t, conds, 1)
	require.True(t, to.Equivalent(conds[0], feat))
}

func TestLeavesIgnoresPresenceConditions(t *testing.T) {
	t.Parallel()

	c := cnode.Choice[string](testoracle.Var("A"),
		cnode.Choice[string](testoracle.Var("B"), cnode.One("ab"), cnode.One("a-not-b")),
		cnode.One("not-a"))

	require.Equal(t, []string{"ab", "a-not-b", "not-a"}, cnode.Leaves(c))
}

func TestCondPanicsOnOne(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		cnode.One(1).Cond()
	})
}
