package vcfg_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/config"
	"github.com/typechef-go/vcfgcore/diagnostic"
	"github.com/typechef-go/vcfgcore/envsvc/fixture"
	"github.com/typechef-go/vcfgcore/oracle/testoracle"
	"github.com/typechef-go/vcfgcore/vcfg"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newEngine(roots ...cnode.Node) (*vcfg.Engine, *testoracle.Oracle) {
	o := testoracle.New()
	svc := fixture.Build(o, testoracle.True, roots...)
	diag := diagnostic.NewEngine()
	return vcfg.NewEngine(svc, o, config.Default(), diag), o
}

func ids(nodes []cnode.Node) []cnode.ID {
	out := make([]cnode.ID, len(nodes))
	for i, n := range nodes {
		out[i] = n.Identity()
	}
	return out
}

func containsID(nodes []cnode.Node, target cnode.Node) bool {
	for _, n := range nodes {
		if n.Identity() == target.Identity() {
			return true
		}
	}
	return false
}

// buildForLoopFn constructs `void f(void) { for (i=0; i<N; i++) { s+=i; } }` matching spec.md §8
// concrete scenario 3.
func buildForLoopFn() (fn *cnode.FunctionDef, init, cond, inc, body cnode.Node) {
	init = cnode.NewExprStatement(cnode.NewAssignExpr(cnode.NewId("i"), "=", cnode.NewConstant("0")))
	cond = cnode.NewNAryExpr(cnode.NewId("i"), cnode.NewNArySubExpr("<", cnode.NewId("N")))
	inc = cnode.NewUnaryOpExpr("++", cnode.NewId("i"))
	body = cnode.NewCompoundStatement(cnode.One[cnode.Node](
		cnode.NewExprStatement(cnode.NewAssignExpr(cnode.NewId("s"), "+=", cnode.NewId("i"))),
	))
	forStmt := cnode.NewForStatement(init, cond, inc, body)
	fnBody := cnode.NewCompoundStatement(cnode.One[cnode.Node](forStmt))
	fn = cnode.NewFunctionDef(cnode.NewId("f"), nil, fnBody)
	return fn, init, cond, inc, body
}

func TestForLoopSuccPredScenario3(t *testing.T) {
	t.Parallel()

	fn, init, cond, inc, body := buildForLoopFn()
	e, _ := newEngine(fn)

	succInit := e.Succ(init)
	require.Len(t, succInit, 1)
	require.Equal(t, cond.Identity(), succInit[0].Identity())

	succCond := e.Succ(cond)
	require.True(t, containsID(succCond, firstStmt(body)), "succ(i<N) must include the loop body's first statement")
	require.True(t, containsID(succCond, fn), "succ(i<N) must include the function exit sentinel on loop-false")

	succInc := e.Succ(inc)
	require.Len(t, succInc, 1)
	require.Equal(t, cond.Identity(), succInc[0].Identity())

	predInc := e.Pred(inc)
	require.True(t, containsID(predInc, firstStmt(body)))
}

func firstStmt(body cnode.Node) cnode.Node {
	return cnode.Leaves(body.(*cnode.CompoundStatement).Items[0])[0]
}

func TestSwitchFallthroughScenario4(t *testing.T) {
	t.Parallel()

	// switch(x){ case 1: a(); case 2: b(); break; default: c(); }
	callA := cnode.NewExprStatement(cnode.NewFunctionCall(cnode.NewId("a")))
	callB := cnode.NewExprStatement(cnode.NewFunctionCall(cnode.NewId("b")))
	brk := cnode.NewBreakStatement()
	callC := cnode.NewExprStatement(cnode.NewFunctionCall(cnode.NewId("c")))

	case1 := cnode.NewCaseStatement(cnode.NewConstant("1"), callA)
	case2 := cnode.NewCaseStatement(cnode.NewConstant("2"), cnode.NewCompoundStatement(
		cnode.One[cnode.Node](callB), cnode.One[cnode.Node](brk),
	))
	def := cnode.NewDefaultStatement(callC)

	swExpr := cnode.NewId("x")
	swBody := cnode.NewCompoundStatement(
		cnode.One[cnode.Node](case1), cnode.One[cnode.Node](case2), cnode.One[cnode.Node](def),
	)
	sw := cnode.NewSwitchStatement(swExpr, swBody)

	after := cnode.NewExprStatement(cnode.NewId("after"))
	fnBody := cnode.NewCompoundStatement(cnode.One[cnode.Node](sw), cnode.One[cnode.Node](after))
	fn := cnode.NewFunctionDef(cnode.NewId("sw"), nil, fnBody)

	e, _ := newEngine(fn)

	succExpr := e.Succ(swExpr)
	require.True(t, containsID(succExpr, case1))
	require.True(t, containsID(succExpr, case2))
	require.True(t, containsID(succExpr, def))

	predAfter := e.Pred(after)
	require.True(t, containsID(predAfter, brk), "break falls through to the statement after the switch")
	require.True(t, containsID(predAfter, callC), "default's tail falls through to the statement after the switch")
}

func TestGotoLabelScenario6(t *testing.T) {
	t.Parallel()

	// L: goto L;
	var label *cnode.LabelStatement
	gotoStmt := cnode.NewGotoStatement("L", nil)
	label = cnode.NewLabelStatement("L", gotoStmt)

	fnBody := cnode.NewCompoundStatement(cnode.One[cnode.Node](label))
	fn := cnode.NewFunctionDef(cnode.NewId("loop"), nil, fnBody)

	e, _ := newEngine(fn)

	succGoto := e.Succ(gotoStmt)
	require.Len(t, succGoto, 1)
	require.Equal(t, label.Identity(), succGoto[0].Identity())

	predLabel := e.Pred(label)
	require.True(t, containsID(predLabel, gotoStmt))
}

func TestEntryExitIdentity(t *testing.T) {
	t.Parallel()

	ret1 := cnode.NewReturnStatement(cnode.NewConstant("0"))
	ret2 := cnode.NewReturnStatement(cnode.NewConstant("1"))
	ifStmt := cnode.NewIfStatement(cnode.NewId("cond"), ret1, nil, nil)
	fnBody := cnode.NewCompoundStatement(cnode.One[cnode.Node](ifStmt), cnode.One[cnode.Node](ret2))
	fn := cnode.NewFunctionDef(cnode.NewId("f"), nil, fnBody)

	e, _ := newEngine(fn)

	predFn := e.Pred(fn)
	require.True(t, containsID(predFn, ret1))
	require.True(t, containsID(predFn, ret2))

	succRet1 := e.Succ(ret1)
	require.Equal(t, []cnode.ID{fn.Identity()}, ids(succRet1))

	succRet2 := e.Succ(ret2)
	require.Equal(t, []cnode.ID{fn.Identity()}, ids(succRet2))
}

func TestBreakOutsideLoopOrSwitchReportsDiagnostic(t *testing.T) {
	t.Parallel()

	brk := cnode.NewBreakStatement()
	fnBody := cnode.NewCompoundStatement(cnode.One[cnode.Node](brk))
	fn := cnode.NewFunctionDef(cnode.NewId("bad"), nil, fnBody)

	o := testoracle.New()
	svc := fixture.Build(o, testoracle.True, fn)
	diag := diagnostic.NewEngine()
	e := vcfg.NewEngine(svc, o, config.Default(), diag)

	succ := e.Succ(brk)
	require.Nil(t, succ)
	require.Equal(t, 1, diag.Len())
	require.Equal(t, diagnostic.Warning, diag.Diagnostics()[0].Severity)
}

func TestContinueTargetsIncOfForLoop(t *testing.T) {
	t.Parallel()

	cont := cnode.NewContinueStatement()
	init := cnode.NewExprStatement(cnode.NewAssignExpr(cnode.NewId("i"), "=", cnode.NewConstant("0")))
	cond := cnode.NewId("cond")
	inc := cnode.NewUnaryOpExpr("++", cnode.NewId("i"))
	body := cnode.NewCompoundStatement(cnode.One[cnode.Node](cont))
	forStmt := cnode.NewForStatement(init, cond, inc, body)
	fnBody := cnode.NewCompoundStatement(cnode.One[cnode.Node](forStmt))
	fn := cnode.NewFunctionDef(cnode.NewId("f"), nil, fnBody)

	e, _ := newEngine(fn)

	succCont := e.Succ(cont)
	require.Equal(t, []cnode.ID{inc.Identity()}, ids(succCont))
}

func TestIdempotence(t *testing.T) {
	t.Parallel()

	fn, _, cond, _, _ := buildForLoopFn()
	e, _ := newEngine(fn)

	first := e.Succ(cond)
	second := e.Succ(cond)
	require.Equal(t, ids(first), ids(second))

	firstP := e.Pred(cond)
	secondP := e.Pred(cond)
	require.Equal(t, ids(firstP), ids(secondP))
}

func TestCompareSuccWithPredSymmetric(t *testing.T) {
	t.Parallel()

	fn, _, _, _, _ := buildForLoopFn()
	e, _ := newEngine(fn)

	err := e.CompareSuccWithPred([]cnode.Node{fn})
	require.NoError(t, err)
}

func TestIfdefAlternativeSiblingResolution(t *testing.T) {
	t.Parallel()

	// #if A
	// int x;
	// #else
	// int x;
	// #endif
	// x = 1;
	o := testoracle.New()
	a := testoracle.Var("A")

	declThen := cnode.NewExprStatement(cnode.NewId("x_then"))
	declElse := cnode.NewExprStatement(cnode.NewId("x_else"))
	assign := cnode.NewExprStatement(cnode.NewAssignExpr(cnode.NewId("x"), "=", cnode.NewConstant("1")))

	items := []cnode.Conditional[cnode.Node]{
		cnode.Choice[cnode.Node](a, cnode.One[cnode.Node](declThen), cnode.One[cnode.Node](declElse)),
		cnode.One[cnode.Node](assign),
	}
	fnBody := cnode.NewCompoundStatement(items...)
	fn := cnode.NewFunctionDef(cnode.NewId("f"), nil, fnBody)

	svc := fixture.Build(o, testoracle.True, fn)
	diag := diagnostic.NewEngine()
	e := vcfg.NewEngine(svc, o, config.Default(), diag)

	succThen := e.Succ(declThen)
	require.Equal(t, []cnode.ID{assign.Identity()}, ids(succThen))

	succElse := e.Succ(declElse)
	require.Equal(t, []cnode.ID{assign.Identity()}, ids(succElse))
}
