package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/config"
	"github.com/typechef-go/vcfgcore/diagnostic"
	"github.com/typechef-go/vcfgcore/envsvc/fixture"
	"github.com/typechef-go/vcfgcore/oracle/testoracle"
	"github.com/typechef-go/vcfgcore/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestSessionTiesEngineAndBuilderTogether builds `void f(void) { int x; x = 1; }` and checks that
// one Session exposes both a consistent V-CFG and a populated Def-Use Map over it.
func TestSessionTiesEngineAndBuilderTogether(t *testing.T) {
	t.Parallel()

	declID := cnode.NewId("x")
	decl := cnode.NewDeclarationStatement(cnode.NewDeclaration(
		cnode.One[cnode.Node](cnode.NewInitDeclarator(cnode.NewAtomicNamedDeclarator(declID, nil), nil)),
	))
	useID := cnode.NewId("x")
	assign := cnode.NewExprStatement(cnode.NewAssignExpr(useID, "=", cnode.NewConstant("1")))

	fnBody := cnode.NewCompoundStatement(cnode.One[cnode.Node](decl), cnode.One[cnode.Node](assign))
	fn := cnode.NewFunctionDef(cnode.NewId("f"), nil, fnBody)

	o := testoracle.New()
	svc := fixture.Build(o, testoracle.True, fn)
	diag := diagnostic.NewEngine()
	sess := session.New(svc, o, config.Default(), diag)

	roots := []cnode.Node{fn}
	sess.BuildDefUse(roots, testoracle.True)

	require.NoError(t, sess.CheckConsistency(roots))

	succDecl := sess.Succ(decl)
	require.Len(t, succDecl, 1)
	require.Equal(t, assign.Identity(), succDecl[0].Identity())

	uses := sess.DefUse().Uses(declID)
	require.Len(t, uses, 1)
	require.Equal(t, useID.Identity(), uses[0].Identity())
}
