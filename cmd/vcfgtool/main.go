// Command vcfgtool builds a small, self-contained translation unit with cnode constructors (no
// external C parser is wired into this repository, per spec.md §1 Non-goals), runs the Def-Use
// Builder and V-CFG Engine over it, and prints the resulting successors/predecessors and Def-Use
// map. It exists to exercise session.Session end-to-end the way a smoke test would, and to give a
// human a readable view of what the core computed.
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"

	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/config"
	"github.com/typechef-go/vcfgcore/diagnostic"
	"github.com/typechef-go/vcfgcore/envsvc/fixture"
	"github.com/typechef-go/vcfgcore/oracle"
	"github.com/typechef-go/vcfgcore/oracle/testoracle"
	"github.com/typechef-go/vcfgcore/session"
)

var _pretty = flag.Bool("pretty", false, "ANSI-highlight node references and use counts in the output")

func main() {
	flag.Parse()

	o := testoracle.New()
	fn, roots := sampleTranslationUnit()
	idx := fixture.Build(o, testoracle.True, roots...)

	diag := diagnostic.NewEngine()
	sess := session.New(idx, o, config.Default(), diag)
	sess.BuildDefUse(roots, testoracle.True)

	printCFG(sess, fn)
	fmt.Println()
	printDefUse(sess)

	if err := sess.CheckConsistency(roots); err != nil {
		fmt.Fprintf(os.Stderr, "consistency check failed: %v\n", err)
		os.Exit(1)
	}
	for _, d := range sess.Diagnostics() {
		fmt.Fprintln(os.Stderr, render(d.String()))
	}
}

// sampleTranslationUnit builds:
//
//	int sumTo(int n) {
//	    int sum = 0;
//	    for (int i = 0; i < n; i += 1) {
//	        sum += i;
//	#ifdef DEBUG
//	        trace(i);
//	#endif
//	    }
//	    return sum;
//	}
func sampleTranslationUnit() (*cnode.FunctionDef, []cnode.Node) {
	n := cnode.NewId("n")
	i := cnode.NewId("i")
	sum := cnode.NewId("sum")

	param := cnode.NewParameterDeclarationD(cnode.NewAtomicNamedDeclarator(n, nil))
	params := []cnode.Conditional[cnode.Node]{cnode.One[cnode.Node](param)}

	sumDecl := cnode.NewInitDeclarator(cnode.NewAtomicNamedDeclarator(sum, nil), cnode.NewConstant("0"))
	sumDeclStmt := cnode.NewDeclarationStatement(cnode.NewDeclaration(cnode.One[cnode.Node](sumDecl)))

	iDecl := cnode.NewInitDeclarator(cnode.NewAtomicNamedDeclarator(i, nil), cnode.NewConstant("0"))
	iDeclStmt := cnode.NewDeclarationStatement(cnode.NewDeclaration(cnode.One[cnode.Node](iDecl)))

	cond := cnode.NewNAryExpr(i, cnode.NewNArySubExpr("<", n))
	inc := cnode.NewAssignExpr(i, "+=", cnode.NewConstant("1"))

	sumPlusEq := cnode.NewExprStatement(cnode.NewAssignExpr(sum, "+=", i))
	debugTrace := cnode.NewExprStatement(cnode.NewFunctionCall(cnode.NewId("trace"), i))

	forBody := cnode.NewCompoundStatement(
		cnode.One[cnode.Node](sumPlusEq),
		cnode.Opt[cnode.Node](testoracle.Var("DEBUG"), debugTrace),
	)
	forLoop := cnode.NewForStatement(iDeclStmt, cond, inc, forBody)

	ret := cnode.NewReturnStatement(sum)

	body := cnode.NewCompoundStatement(
		cnode.One[cnode.Node](sumDeclStmt),
		cnode.One[cnode.Node](forLoop),
		cnode.One[cnode.Node](ret),
	)

	fn := cnode.NewFunctionDef(cnode.NewId("sumTo"), params, body)
	return fn, []cnode.Node{fn}
}

func printCFG(sess *session.Session, fn *cnode.FunctionDef) {
	body := fn.Body.(*cnode.CompoundStatement)
	forLoop := unwrapOne(body.Items[1]).(*cnode.ForStatement)
	forBody := forLoop.Body.(*cnode.CompoundStatement)

	nodes := []cnode.Node{
		fn,
		unwrapOne(body.Items[0]),
		forLoop,
		forLoop.Cond,
		unwrapOne(forBody.Items[0]),
		forLoop.Inc,
		unwrapOne(body.Items[2]),
	}
	for _, n := range nodes {
		fmt.Println(render(fmt.Sprintf("succ(%s) = %s", describe(n), describeAll(sess.Succ(n)))))
		fmt.Println(render(fmt.Sprintf("pred(%s) = %s", describe(n), describeAll(sess.Pred(n)))))
	}
}

func printDefUse(sess *session.Session) {
	for _, def := range sess.DefUse().Defs() {
		uses := sess.DefUse().Uses(def)
		fmt.Println(render(fmt.Sprintf("def `%s` -- uses: %d", def.Name, len(uses))))
	}
}

func unwrapOne(c cnode.Conditional[cnode.Node]) cnode.Node {
	var out cnode.Node
	cnode.Fold(c,
		func(v cnode.Node) struct{} { out = v; return struct{}{} },
		func(_ oracle.Expr, thenC, elseC cnode.Conditional[cnode.Node]) struct{} { return struct{}{} },
		func(_ oracle.Expr, v cnode.Node) struct{} { out = v; return struct{}{} },
	)
	return out
}

func describe(n cnode.Node) string {
	if n == nil {
		return "`nil`"
	}
	switch x := n.(type) {
	case *cnode.FunctionDef:
		return fmt.Sprintf("`function %s`", x.Name.Name)
	case *cnode.ForStatement:
		return "`for-loop`"
	case *cnode.DeclarationStatement:
		return "`declaration`"
	case *cnode.ExprStatement:
		return "`expr-statement`"
	case *cnode.ReturnStatement:
		return "`return`"
	case *cnode.Id:
		return fmt.Sprintf("`id:%s`", x.Name)
	case *cnode.NAryExpr:
		return "`condition`"
	case *cnode.AssignExpr:
		return fmt.Sprintf("`assign:%s`", x.Op)
	case *cnode.CompoundStatement:
		return "`block`"
	default:
		return fmt.Sprintf("`%T`", n)
	}
}

func describeAll(nodes []cnode.Node) string {
	if len(nodes) == 0 {
		return "[]"
	}
	s := "["
	for i, n := range nodes {
		if i > 0 {
			s += ", "
		}
		s += describe(n)
	}
	return s + "]"
}

var (
	codeRefPattern   = regexp.MustCompile("`(.*?)`")
	usesCountPattern = regexp.MustCompile(`uses: (\d+)`)
)

// render optionally ANSI-highlights node references (backtick spans, matching nilaway.go's
// codeReferencePattern trick) and use counts when --pretty is set.
func render(msg string) string {
	if !*_pretty {
		return msg
	}
	codeStr := fmt.Sprintf("\x1b[%dm%s\x1b[0m", 95, "${1}")
	usesStr := fmt.Sprintf("uses: \x1b[%dm%s\x1b[0m", 1, "${1}")
	msg = codeRefPattern.ReplaceAllString(msg, codeStr)
	msg = usesCountPattern.ReplaceAllString(msg, usesStr)
	return msg
}
