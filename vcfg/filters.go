package vcfg

import (
	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/oracle"
)

// enclosingLoopOrSwitch climbs n's parent chain (via the Engine's Service) to the nearest
// ForStatement/WhileStatement/DoStatement/SwitchStatement, the scope a BreakStatement targets
// (spec.md §4.2.3 "BreakStatement: next statement after the nearest enclosing loop or switch").
func (e *Engine) enclosingLoopOrSwitch(n cnode.Node) cnode.Node {
	for cur := e.svc.Parent(n); cur != nil; cur = e.svc.Parent(cur) {
		switch cur.(type) {
		case *cnode.ForStatement, *cnode.WhileStatement, *cnode.DoStatement, *cnode.SwitchStatement:
			return cur
		case *cnode.FunctionDef:
			return nil
		}
	}
	return nil
}

// enclosingLoop is enclosingLoopOrSwitch's counterpart for ContinueStatement, which targets only
// loops, never a switch (spec.md §4.2.3 "ContinueStatement: loop-continuation point of the nearest
// enclosing loop").
func (e *Engine) enclosingLoop(n cnode.Node) cnode.Node {
	for cur := e.svc.Parent(n); cur != nil; cur = e.svc.Parent(cur) {
		switch cur.(type) {
		case *cnode.ForStatement, *cnode.WhileStatement, *cnode.DoStatement:
			return cur
		case *cnode.FunctionDef:
			return nil
		}
	}
	return nil
}

// admits reports whether candidate's own presence condition implies ctx satisfiably -- the
// admission rule spec.md §4.2.6 gives every per-function filter: "admit a statement only when its
// presence condition implies ctx satisfiably." A nil oracle (as in tests that pre-filter their own
// fixtures) admits everything.
func (e *Engine) admits(candidate cnode.Node, ctx oracle.Expr) bool {
	if e.o == nil || ctx == nil {
		return true
	}
	cond := e.svc.FeatureExpr(candidate)
	if cond == nil {
		return true
	}
	return e.o.IsSatisfiable(e.o.And(ctx, cond))
}

// collectLabels returns every LabelStatement reachable inside fn whose name matches target and
// whose presence condition implies ctx satisfiably (spec.md §4.2.6). When matchAll is true, target
// is ignored and every admitted label in fn is returned, for a computed goto.
func (e *Engine) collectLabels(fn *cnode.FunctionDef, target string, matchAll bool, ctx oracle.Expr) []cnode.Node {
	var out []cnode.Node
	var walk func(n cnode.Node)
	walk = func(n cnode.Node) {
		switch x := n.(type) {
		case *cnode.CompoundStatement:
			for _, item := range x.Items {
				for _, v := range cnode.Leaves(item) {
					walk(v)
				}
			}
		case *cnode.IfStatement:
			walk(x.Then)
			for _, elif := range x.Elifs {
				walk(elif)
			}
			if x.Else != nil {
				walk(x.Else)
			}
		case *cnode.ElifStatement:
			walk(x.Then)
		case *cnode.SwitchStatement:
			walk(x.Body)
		case *cnode.CaseStatement:
			if x.Body != nil {
				walk(x.Body)
			}
		case *cnode.DefaultStatement:
			if x.Body != nil {
				walk(x.Body)
			}
		case *cnode.WhileStatement:
			walk(x.Body)
		case *cnode.DoStatement:
			walk(x.Body)
		case *cnode.ForStatement:
			walk(x.Body)
		case *cnode.LabelStatement:
			if (matchAll || x.Name == target) && e.admits(x, ctx) {
				out = append(out, x)
			}
			walk(x.Stmt)
		}
	}
	if fn != nil && fn.Body != nil {
		walk(fn.Body)
	}
	return out
}

// filterCaseStatements returns the CaseStatement nodes directly inside body's children, in order,
// without descending into a nested SwitchStatement (whose own case labels belong to it, not to
// the enclosing switch), admitting only those whose presence condition implies ctx satisfiably
// (spec.md §4.2.6).
func (e *Engine) filterCaseStatements(body []cnode.Node, ctx oracle.Expr) []*cnode.CaseStatement {
	var out []*cnode.CaseStatement
	for _, n := range body {
		if c, ok := n.(*cnode.CaseStatement); ok && e.admits(c, ctx) {
			out = append(out, c)
		}
	}
	return out
}

// filterDefaultStatements is filterCaseStatements's DefaultStatement counterpart.
func (e *Engine) filterDefaultStatements(body []cnode.Node, ctx oracle.Expr) []*cnode.DefaultStatement {
	var out []*cnode.DefaultStatement
	for _, n := range body {
		if d, ok := n.(*cnode.DefaultStatement); ok && e.admits(d, ctx) {
			out = append(out, d)
		}
	}
	return out
}
