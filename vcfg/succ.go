package vcfg

import (
	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/diagnostic"
	"github.com/typechef-go/vcfgcore/oracle"
)

// succOf computes the raw (pre-expansion) successor set of n under context ctx, dispatching on
// n's shape per spec.md §4.2.3. Entering a compound/conditional construct always recurses through
// succOf itself, so most re-expansion already happens through ordinary recursion;
// expandPassThroughWith (engine.go) is the safety net for the handful of paths (break/continue targets, goto targets)
// that can hand back a bare pass-through node without having gone through that recursion.
func (e *Engine) succOf(n cnode.Node, ctx oracle.Expr) []cnode.Node {
	switch x := n.(type) {
	case *cnode.FunctionDef:
		if x.Body == nil {
			return []cnode.Node{x}
		}
		return e.succOf(x.Body, ctx)

	case *cnode.CompoundStatement:
		return e.listSucc(x, ctx, -1)

	case *cnode.IfStatement:
		return e.succOf(x.Cond, ctx)

	case *cnode.ElifStatement:
		return e.succOf(x.Cond, ctx)

	case *cnode.SwitchStatement:
		return e.succOf(x.Expr, ctx)

	case *cnode.CaseStatement:
		if x.Body != nil {
			return e.succOf(x.Body, ctx)
		}
		return e.followSucc(x, ctx)

	case *cnode.DefaultStatement:
		if x.Body != nil {
			return e.succOf(x.Body, ctx)
		}
		return e.followSucc(x, ctx)

	case *cnode.WhileStatement:
		return e.succOf(x.Cond, ctx)

	case *cnode.DoStatement:
		return e.succOf(x.Body, ctx)

	case *cnode.ForStatement:
		if x.Init != nil {
			return e.succOf(x.Init, ctx)
		}
		if x.Cond != nil {
			return e.succOf(x.Cond, ctx)
		}
		return e.succOf(x.Body, ctx)

	case *cnode.BreakStatement:
		target := e.enclosingLoopOrSwitch(x)
		if target == nil {
			e.diag.Reportf(diagnostic.Warning, x, "break statement outside any enclosing loop or switch")
			return nil
		}
		return e.followSucc(target, ctx)

	case *cnode.ContinueStatement:
		loop := e.enclosingLoop(x)
		if loop == nil {
			e.diag.Reportf(diagnostic.Warning, x, "continue statement outside any enclosing loop")
			return nil
		}
		return e.continueTarget(loop, ctx)

	case *cnode.ReturnStatement:
		fn := e.svc.EnclosingFunction(x)
		if fn == nil {
			return nil
		}
		return []cnode.Node{fn}

	case *cnode.GotoStatement:
		fn := e.svc.EnclosingFunction(x)
		if fn == nil {
			return nil
		}
		if x.IsComputed() {
			return e.collectLabels(fn, "", true, ctx)
		}
		labels := e.collectLabels(fn, x.Label, false, ctx)
		if len(labels) == 0 {
			e.diag.Reportf(diagnostic.Warning, x, "goto target label %q not found in enclosing function", x.Label)
			return e.followSucc(x, ctx)
		}
		return labels

	case *cnode.LabelStatement:
		return e.succOf(x.Stmt, ctx)

	default:
		// Any other statement or expression: the ordinary case, resolved by climbing to the
		// enclosing list and finding what follows.
		return e.followSucc(n, ctx)
	}
}

// continueTarget is the loop-continuation point of loop, the target a ContinueStatement jumps to
// directly (spec.md §8 concrete scenario 3: "succ(i++) = [i<N]" and "pred(i++) ⊇ {s+=i, any
// continue}" -- this only holds if continue's successor IS the inc node itself, not inc's own
// successor, so this returns the raw target rather than recursing through succOf).
func (e *Engine) continueTarget(loop cnode.Node, ctx oracle.Expr) []cnode.Node {
	switch x := loop.(type) {
	case *cnode.ForStatement:
		if x.Inc != nil {
			return []cnode.Node{x.Inc}
		}
		if x.Cond != nil {
			return []cnode.Node{x.Cond}
		}
		return e.succOf(x.Body, ctx)
	case *cnode.WhileStatement:
		return []cnode.Node{x.Cond}
	case *cnode.DoStatement:
		return []cnode.Node{x.Cond}
	default:
		return nil
	}
}

// followSucc treats n as a structural unit that has just concluded, and finds what comes next by
// inspecting n's parent and n's position within it. This single convention unifies ordinary
// sequential fallthrough, if/elif/else branch merging, and loop back-edges: whenever some other
// rule needs "what happens after construct X finishes," it calls followSucc(X, ctx) rather than
// hand-rolling the climb.
func (e *Engine) followSucc(n cnode.Node, ctx oracle.Expr) []cnode.Node {
	p := e.svc.Parent(n)
	if p == nil {
		return nil
	}

	switch par := p.(type) {
	case *cnode.FunctionDef:
		// Falling off the end of the function body (no explicit return): the function's own
		// sentinel node is both entry and exit (spec.md §4.2.2).
		return []cnode.Node{par}

	case *cnode.CompoundStatement:
		entries := e.svc.ChildrenOf(par)
		idx := indexOf(entries, n)
		return e.listSucc(par, ctx, idx)

	case *cnode.IfStatement:
		switch {
		case par.Cond != nil && n.Identity() == par.Cond.Identity():
			return e.ifCondSucc(par, ctx)
		default:
			// Falling off the Then or Else arm: control merges after the whole if statement.
			return e.followSucc(par, ctx)
		}

	case *cnode.ElifStatement:
		owning, _ := e.svc.Parent(par).(*cnode.IfStatement)
		switch {
		case par.Cond != nil && n.Identity() == par.Cond.Identity():
			return e.elifCondSucc(owning, par, ctx)
		default:
			if owning == nil {
				return nil
			}
			return e.followSucc(owning, ctx)
		}

	case *cnode.SwitchStatement:
		if par.Expr != nil && n.Identity() == par.Expr.Identity() {
			return e.switchDispatch(par, ctx)
		}
		return e.followSucc(par, ctx)

	case *cnode.CaseStatement, *cnode.DefaultStatement:
		return e.followSucc(par, ctx)

	case *cnode.WhileStatement:
		switch {
		case par.Cond != nil && n.Identity() == par.Cond.Identity():
			out := e.succOf(par.Body, ctx)
			return append(out, e.followSucc(par, ctx)...)
		default:
			// Falling off the body: a single edge to the literal cond node, whose own
			// expansion (body-entry or loop-exit) is computed by querying succ(cond) directly.
			return []cnode.Node{par.Cond}
		}

	case *cnode.DoStatement:
		switch {
		case par.Body != nil && n.Identity() == par.Body.Identity():
			// Falling off the body: same literal-cond edge as WhileStatement.
			return []cnode.Node{par.Cond}
		default:
			out := e.succOf(par.Body, ctx)
			return append(out, e.followSucc(par, ctx)...)
		}

	case *cnode.ForStatement:
		switch {
		case par.Init != nil && n.Identity() == par.Init.Identity():
			// succ(init) is the cond node itself, a single edge into the loop test -- not
			// cond's own (body/exit) successors. Those are only reached by querying succ(cond).
			if par.Cond != nil {
				return []cnode.Node{par.Cond}
			}
			return e.succOf(par.Body, ctx)
		case par.Cond != nil && n.Identity() == par.Cond.Identity():
			out := e.succOf(par.Body, ctx)
			return append(out, e.followSucc(par, ctx)...)
		case par.Inc != nil && n.Identity() == par.Inc.Identity():
			// Likewise succ(inc) is the literal cond node, not its expansion.
			if par.Cond != nil {
				return []cnode.Node{par.Cond}
			}
			return e.succOf(par.Body, ctx)
		default:
			// Falling off the body: go to inc, else cond, else restart the body. inc/cond are
			// returned as the literal referenced node, matching the Init/Inc cases above.
			if par.Inc != nil {
				return []cnode.Node{par.Inc}
			}
			if par.Cond != nil {
				return []cnode.Node{par.Cond}
			}
			return e.succOf(par.Body, ctx)
		}

	case *cnode.LabelStatement:
		return e.followSucc(par, ctx)

	default:
		return e.followSucc(p, ctx)
	}
}

func (e *Engine) ifCondSucc(p *cnode.IfStatement, ctx oracle.Expr) []cnode.Node {
	out := e.succOf(p.Then, ctx)
	switch {
	case len(p.Elifs) > 0:
		out = append(out, p.Elifs[0].Cond)
	case p.Else != nil:
		out = append(out, e.succOf(p.Else, ctx)...)
	default:
		out = append(out, e.followSucc(p, ctx)...)
	}
	return out
}

func (e *Engine) elifCondSucc(owning *cnode.IfStatement, p *cnode.ElifStatement, ctx oracle.Expr) []cnode.Node {
	out := e.succOf(p.Then, ctx)
	if owning == nil {
		return out
	}
	idx := -1
	for i, el := range owning.Elifs {
		if el.Identity() == p.Identity() {
			idx = i
			break
		}
	}
	switch {
	case idx >= 0 && idx+1 < len(owning.Elifs):
		out = append(out, owning.Elifs[idx+1].Cond)
	case owning.Else != nil:
		out = append(out, e.succOf(owning.Else, ctx)...)
	default:
		out = append(out, e.followSucc(owning, ctx)...)
	}
	return out
}

// switchDispatch fans out from a switch's evaluated expression to every case/default label
// directly inside its body (spec.md §4.2.3 "succ(switch) dispatches to every matching case/default
// label"), without descending into a nested switch's own labels.
func (e *Engine) switchDispatch(sw *cnode.SwitchStatement, ctx oracle.Expr) []cnode.Node {
	bodyEntries := e.svc.ChildrenOf(sw.Body)
	var bodyNodes []cnode.Node
	for _, be := range bodyEntries {
		bodyNodes = append(bodyNodes, be.Node)
	}
	var out []cnode.Node
	for _, c := range e.filterCaseStatements(bodyNodes, ctx) {
		out = append(out, c)
	}
	for _, d := range e.filterDefaultStatements(bodyNodes, ctx) {
		out = append(out, d)
	}
	return out
}
