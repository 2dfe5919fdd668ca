package defuse_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/config"
	"github.com/typechef-go/vcfgcore/defuse"
	"github.com/typechef-go/vcfgcore/diagnostic"
	"github.com/typechef-go/vcfgcore/oracle/testoracle"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newBuilder() (*defuse.Builder, *testoracle.Oracle, *diagnostic.Engine) {
	o := testoracle.New()
	diag := diagnostic.NewEngine()
	return defuse.NewBuilder(o, config.Default(), diag, defuse.NewMap()), o, diag
}

// TestSimpleDefUse matches spec.md §8 concrete scenario 1: `int x; x = 1;` -- addDef keys the
// declarator's Id (after the enclosing function's own name), and the assignment target's Id is
// recorded as one of its uses.
func TestSimpleDefUse(t *testing.T) {
	t.Parallel()

	declID := cnode.NewId("x")
	declarator := cnode.NewAtomicNamedDeclarator(declID, nil)
	decl := cnode.NewDeclaration(cnode.One[cnode.Node](cnode.NewInitDeclarator(declarator, nil)))
	declStmt := cnode.NewDeclarationStatement(decl)

	useID := cnode.NewId("x")
	assign := cnode.NewExprStatement(cnode.NewAssignExpr(useID, "=", cnode.NewConstant("1")))

	fnBody := cnode.NewCompoundStatement(
		cnode.One[cnode.Node](declStmt),
		cnode.One[cnode.Node](assign),
	)
	fnName := cnode.NewId("f")
	fn := cnode.NewFunctionDef(fnName, nil, fnBody)

	b, _, _ := newBuilder()
	b.BuildTranslationUnit([]cnode.Node{fn}, testoracle.True)

	require.Equal(t, []cnode.ID{fnName.Identity(), declID.Identity()}, idsOf(b.Map().Defs()))
	uses := b.Map().Uses(declID)
	require.Len(t, uses, 1)
	require.Equal(t, useID.Identity(), uses[0].Identity())
}

// TestForwardDeclarationReconciliation matches spec.md §8 concrete scenario 2:
// `int f(void); int f(void) { return 0; }` -- the prototype's declarator Id is the key, and the
// definition's own name Id is recorded as its first use.
func TestForwardDeclarationReconciliation(t *testing.T) {
	t.Parallel()

	protoName := cnode.NewId("f")
	proto := cnode.NewFunctionDef(protoName, nil, nil)

	defName := cnode.NewId("f")
	defBody := cnode.NewCompoundStatement(
		cnode.One[cnode.Node](cnode.NewReturnStatement(cnode.NewConstant("0"))),
	)
	def := cnode.NewFunctionDef(defName, nil, defBody)

	b, _, _ := newBuilder()
	b.BuildTranslationUnit([]cnode.Node{proto, def}, testoracle.True)

	require.Equal(t, []cnode.ID{protoName.Identity()}, idsOf(b.Map().Defs()))
	uses := b.Map().Uses(protoName)
	require.Len(t, uses, 1)
	require.Equal(t, defName.Identity(), uses[0].Identity())
}

// TestIfdefDualDeclaration matches spec.md §8 concrete scenario 5:
//
//	#if A
//	int x;
//	#else
//	int x;
//	#endif
//	x = 1;
//
// Both declarator Ids under the two #ifdef alternatives are registered as distinct keys, and the
// assignment target's Id appears in both of their use lists.
func TestIfdefDualDeclaration(t *testing.T) {
	t.Parallel()

	o := testoracle.New()
	a := testoracle.Var("A")

	thenID := cnode.NewId("x")
	thenDecl := cnode.NewDeclarationStatement(cnode.NewDeclaration(
		cnode.One[cnode.Node](cnode.NewInitDeclarator(cnode.NewAtomicNamedDeclarator(thenID, nil), nil)),
	))
	elseID := cnode.NewId("x")
	elseDecl := cnode.NewDeclarationStatement(cnode.NewDeclaration(
		cnode.One[cnode.Node](cnode.NewInitDeclarator(cnode.NewAtomicNamedDeclarator(elseID, nil), nil)),
	))

	useID := cnode.NewId("x")
	assign := cnode.NewExprStatement(cnode.NewAssignExpr(useID, "=", cnode.NewConstant("1")))

	items := []cnode.Conditional[cnode.Node]{
		cnode.Choice[cnode.Node](a, cnode.One[cnode.Node](thenDecl), cnode.One[cnode.Node](elseDecl)),
		cnode.One[cnode.Node](assign),
	}
	fnBody := cnode.NewCompoundStatement(items...)
	fnName := cnode.NewId("f")
	fn := cnode.NewFunctionDef(fnName, nil, fnBody)

	diag := diagnostic.NewEngine()
	b := defuse.NewBuilder(o, config.Default(), diag, defuse.NewMap())
	b.BuildTranslationUnit([]cnode.Node{fn}, testoracle.True)

	defs := idsOf(b.Map().Defs())
	require.ElementsMatch(t, []cnode.ID{fnName.Identity(), thenID.Identity(), elseID.Identity()}, defs)

	thenUses := b.Map().Uses(thenID)
	require.Len(t, thenUses, 1)
	require.Equal(t, useID.Identity(), thenUses[0].Identity())

	elseUses := b.Map().Uses(elseID)
	require.Len(t, elseUses, 1)
	require.Equal(t, useID.Identity(), elseUses[0].Identity())
}

// TestOrphanUseSelfDefinition matches spec.md §7's recovery path: a name with no environment
// binding at all is registered as its own synthetic definition rather than causing a failure.
func TestOrphanUseSelfDefinition(t *testing.T) {
	t.Parallel()

	useID := cnode.NewId("y")
	assign := cnode.NewExprStatement(cnode.NewAssignExpr(useID, "=", cnode.NewConstant("1")))
	fnBody := cnode.NewCompoundStatement(cnode.One[cnode.Node](assign))
	fnName := cnode.NewId("f")
	fn := cnode.NewFunctionDef(fnName, nil, fnBody)

	b, _, diag := newBuilder()
	b.BuildTranslationUnit([]cnode.Node{fn}, testoracle.True)

	require.Equal(t, []cnode.ID{fnName.Identity(), useID.Identity()}, idsOf(b.Map().Defs()))
	require.Empty(t, b.Map().Uses(useID), "a self-defining orphan use has no further uses recorded against it")
	require.Equal(t, 1, diag.Len())
	require.Equal(t, diagnostic.Info, diag.Diagnostics()[0].Severity)
}

// TestDuplicateUsesAllowedByDefault matches spec.md §3's invariant that a use list may legally
// contain duplicate entries, and config.Default's resolution of the Open Question in favor of
// allowing them.
func TestDuplicateUsesAllowedByDefault(t *testing.T) {
	t.Parallel()

	declID := cnode.NewId("x")
	decl := cnode.NewDeclarationStatement(cnode.NewDeclaration(
		cnode.One[cnode.Node](cnode.NewInitDeclarator(cnode.NewAtomicNamedDeclarator(declID, nil), nil)),
	))

	useID := cnode.NewId("x")
	// x + x: the same declarator is used twice in one expression.
	useExpr := cnode.NewNAryExpr(useID, cnode.NewNArySubExpr("+", useID))
	stmt := cnode.NewExprStatement(useExpr)

	fnBody := cnode.NewCompoundStatement(cnode.One[cnode.Node](decl), cnode.One[cnode.Node](stmt))
	fn := cnode.NewFunctionDef(cnode.NewId("f"), nil, fnBody)

	b, _, _ := newBuilder()
	b.BuildTranslationUnit([]cnode.Node{fn}, testoracle.True)

	require.Len(t, b.Map().Uses(declID), 2)
}

// TestTypedefDefUse matches spec.md §4.1's "declaration (typedef)" binding kind: a `typedef`
// declaration's name binds into the typedef namespace, and a later TypeDefTypeSpecifier reference
// to it resolves via addTypeUse rather than becoming an orphan self-definition.
func TestTypedefDefUse(t *testing.T) {
	t.Parallel()

	typedefID := cnode.NewId("my_int")
	typedefDecl := cnode.NewDeclarationStatement(cnode.NewTypedefDeclaration(
		cnode.One[cnode.Node](cnode.NewInitDeclarator(cnode.NewAtomicNamedDeclarator(typedefID, nil), nil)),
	))

	yDeclID := cnode.NewId("y")
	yDecl := cnode.NewDeclarationStatement(cnode.NewDeclaration(
		cnode.One[cnode.Node](cnode.NewInitDeclarator(cnode.NewAtomicNamedDeclarator(yDeclID, nil), nil)),
	))

	useID := cnode.NewId("my_int")
	castTarget := cnode.NewId("y")
	cast := cnode.NewExprStatement(cnode.NewCastExpr(cnode.NewTypeName(cnode.NewTypeDefTypeSpecifier(useID)), castTarget))

	fnBody := cnode.NewCompoundStatement(
		cnode.One[cnode.Node](typedefDecl),
		cnode.One[cnode.Node](yDecl),
		cnode.One[cnode.Node](cast),
	)
	fn := cnode.NewFunctionDef(cnode.NewId("f"), nil, fnBody)

	b, _, diag := newBuilder()
	b.BuildTranslationUnit([]cnode.Node{fn}, testoracle.True)

	require.Equal(t, 0, diag.Len(), "a resolved typedef reference must not report an unresolved-name diagnostic")
	require.Contains(t, idsOf(b.Map().Defs()), typedefID.Identity())
	uses := b.Map().Uses(typedefID)
	require.Len(t, uses, 1)
	require.Equal(t, useID.Identity(), uses[0].Identity())
}

func idsOf(ids []*cnode.Id) []cnode.ID {
	out := make([]cnode.ID, len(ids))
	for i, id := range ids {
		out[i] = id.Identity()
	}
	return out
}
