package defuse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/defuse"
)

// TestOrphanUseRepairChain matches spec.md §4.3.3: a late-registered chain where `b` is recorded
// as a use of `a` before anything ever tries to register `b` itself as a definition key. When that
// later registration happens, `b` must NOT become a fresh key -- the repair path redirects the new
// target to `a`, the key that already owns `b` as a use.
func TestOrphanUseRepairChain(t *testing.T) {
	t.Parallel()

	a := cnode.NewId("a")
	b := cnode.NewId("b")
	c := cnode.NewId("c")

	m := defuse.NewMap()
	m.Use(a, b, true)
	require.Equal(t, []cnode.ID{a.Identity()}, idsOf(m.Defs()))

	// Something later tries to use b as if it were itself a definition key (the "late-registered
	// chain" spec.md §4.3.3 describes). Since b already appears as a use of a, c is appended to a's
	// list instead of promoting b to a key of its own.
	m.Use(b, c, true)

	require.Equal(t, []cnode.ID{a.Identity()}, idsOf(m.Defs()), "b must not be promoted to a fresh key")
	uses := m.Uses(a)
	require.Len(t, uses, 2)
	require.Equal(t, b.Identity(), uses[0].Identity())
	require.Equal(t, c.Identity(), uses[1].Identity())
}

// TestDefNoopWhenAlreadyOwnedAsUse is the Def-only half of the same repair path: calling Def
// directly on an id already owned as a use must not create a second key for it.
func TestDefNoopWhenAlreadyOwnedAsUse(t *testing.T) {
	t.Parallel()

	a := cnode.NewId("a")
	b := cnode.NewId("b")

	m := defuse.NewMap()
	m.Use(a, b, true)
	m.Def(b)

	require.Equal(t, []cnode.ID{a.Identity()}, idsOf(m.Defs()))
	require.Nil(t, m.Uses(b), "b was never promoted to a key, so it has no use list of its own")
}
