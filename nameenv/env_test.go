package nameenv_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/nameenv"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDefineVarShadowsWithoutMutatingParent(t *testing.T) {
	t.Parallel()

	outer := nameenv.Empty()
	xOuter := cnode.NewId("x")
	outer = outer.DefineVar("x", cnode.One(nameenv.Binding{Kind: nameenv.KindInitDeclarator, DefID: xOuter}))

	xInner := cnode.NewId("x")
	inner := outer.DefineVar("x", cnode.One(nameenv.Binding{Kind: nameenv.KindInitDeclarator, DefID: xInner}))

	got, ok := inner.LookupVar("x")
	require.True(t, ok)
	require.Equal(t, xInner.Identity(), cnode.Leaves(got)[0].DefID.Identity())

	// outer is unaffected by the shadowing binding added via inner.
	got, ok = outer.LookupVar("x")
	require.True(t, ok)
	require.Equal(t, xOuter.Identity(), cnode.Leaves(got)[0].DefID.Identity())
}

func TestLookupVarMissingName(t *testing.T) {
	t.Parallel()

	env := nameenv.Empty()
	_, ok := env.LookupVar("missing")
	require.False(t, ok)
}

func TestFieldRequiresDeclaredStruct(t *testing.T) {
	t.Parallel()

	env := nameenv.Empty()
	_, ok := env.LookupField("Foo", false, "bar")
	require.False(t, ok, "field lookup on an undeclared struct tag must fail")

	env = env.DeclareStruct("Foo", false)
	fieldID := cnode.NewId("bar")
	env = env.DefineField("Foo", false, "bar", cnode.One(nameenv.Binding{Kind: nameenv.KindField, DefID: fieldID}))

	got, ok := env.LookupField("Foo", false, "bar")
	require.True(t, ok)
	require.Equal(t, fieldID.Identity(), cnode.Leaves(got)[0].DefID.Identity())
}

func TestStructAndUnionTagsAreDistinctNamespaces(t *testing.T) {
	t.Parallel()

	env := nameenv.Empty().DeclareStruct("Foo", false).DeclareStruct("Foo", true)
	require.True(t, env.HasStruct("Foo", false))
	require.True(t, env.HasStruct("Foo", true))

	fieldID := cnode.NewId("v")
	env = env.DefineField("Foo", true, "v", cnode.One(nameenv.Binding{Kind: nameenv.KindField, DefID: fieldID}))

	_, ok := env.LookupField("Foo", false, "v")
	require.False(t, ok, "a field defined on the union variant must not leak to the struct variant")

	_, ok = env.LookupField("Foo", true, "v")
	require.True(t, ok)
}

func TestBindingKindString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "label", nameenv.KindLabel.String())
	require.Equal(t, "init-declarator", nameenv.KindInitDeclarator.String())
	require.Equal(t, "unknown", nameenv.BindingKind(999).String())
}
