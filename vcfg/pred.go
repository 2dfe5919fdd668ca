package vcfg

import (
	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/oracle"
)

// predOf computes the raw (pre-expansion) predecessor set of n under context ctx, the mirror of
// succOf (spec.md §4.2.4). Where succ(x) descends into a construct from the front, pred(x) rolls
// up from the back: a compound statement's predecessor-as-a-whole is its last item's exit, an
// if/elif/else's predecessor-as-a-whole is the union of every arm's exit (rollUp, spec.md §4.2.4
// "replacing a compound predecessor with its actual exit points").
func (e *Engine) predOf(n cnode.Node, ctx oracle.Expr) []cnode.Node {
	switch x := n.(type) {
	case *cnode.FunctionDef:
		var out []cnode.Node
		out = append(out, collectReturns(x)...)
		if x.Body != nil {
			out = append(out, e.predOf(x.Body, ctx)...)
		}
		return out

	case *cnode.CompoundStatement:
		entries := e.svc.ChildrenOf(x)
		return e.listPred(x, ctx, len(entries))

	case *cnode.IfStatement:
		return e.rollUpIf(x, ctx)

	case *cnode.ElifStatement:
		return e.predOf(x.Then, ctx)

	case *cnode.SwitchStatement:
		out := e.collectBreaks(x, ctx)
		if x.Body != nil {
			// A case/default label ending the body is rolled up to its own body, the tail that
			// falls out of the switch.
			for _, p := range e.predOf(x.Body, ctx) {
				if c, ok := p.(*cnode.CaseStatement); ok && c.Body != nil {
					p = c.Body
				} else if d, ok := p.(*cnode.DefaultStatement); ok && d.Body != nil {
					p = d.Body
				}
				out = append(out, p)
			}
		}
		return out

	case *cnode.CaseStatement:
		// Reaching this label's own position (not its body's exit) always comes from the
		// enclosing switch's dispatch, union ordinary fallthrough from the previous item.
		return e.caseOrDefaultPred(x, ctx)

	case *cnode.DefaultStatement:
		return e.caseOrDefaultPred(x, ctx)

	case *cnode.WhileStatement:
		out := e.collectBreaks(x, ctx)
		if x.Cond != nil {
			out = append(out, x.Cond)
		}
		return out

	case *cnode.DoStatement:
		out := e.collectBreaks(x, ctx)
		if x.Cond != nil {
			out = append(out, x.Cond)
		}
		return out

	case *cnode.ForStatement:
		out := e.collectBreaks(x, ctx)
		if x.Cond != nil {
			out = append(out, x.Cond)
		}
		return out

	case *cnode.BreakStatement, *cnode.ContinueStatement:
		return e.followPred(n, ctx)

	case *cnode.ReturnStatement:
		return e.followPred(n, ctx)

	case *cnode.GotoStatement:
		return e.followPred(n, ctx)

	case *cnode.LabelStatement:
		// A label is reached either by ordinary fallthrough or by any goto naming it (or any
		// computed goto); gotoPredecessors scans the enclosing function for the latter, the
		// mirror of collectLabels keyed the other direction.
		out := e.followPred(n, ctx)
		return append(out, e.gotoPredecessors(x, ctx)...)

	default:
		return e.followPred(n, ctx)
	}
}

func (e *Engine) rollUpIf(x *cnode.IfStatement, ctx oracle.Expr) []cnode.Node {
	var out []cnode.Node
	if x.Then != nil {
		out = append(out, e.predOf(x.Then, ctx)...)
	}
	for _, elif := range x.Elifs {
		out = append(out, e.predOf(elif.Then, ctx)...)
	}
	switch {
	case x.Else != nil:
		out = append(out, e.predOf(x.Else, ctx)...)
	case len(x.Elifs) > 0:
		out = append(out, x.Elifs[len(x.Elifs)-1].Cond)
	default:
		if x.Cond != nil {
			out = append(out, x.Cond)
		}
	}
	return out
}

// caseOrDefaultPred is a case/default label's own predecessor set: ordinary fallthrough from
// the previous item in the switch body, union the enclosing switch's own expression, since a
// switch dispatches directly to every case/default label, not merely the first (spec.md §4.2.3's
// asymmetry between a CompoundStatement, whose only entry point is its first item, and a
// SwitchStatement's body, every item of which is an entry point).
func (e *Engine) caseOrDefaultPred(label cnode.Node, ctx oracle.Expr) []cnode.Node {
	var out []cnode.Node
	bodyContainer := e.svc.Parent(label)
	if bodyContainer == nil {
		return out
	}
	entries := e.svc.ChildrenOf(bodyContainer)
	idx := indexOf(entries, label)
	if idx > 0 {
		out = append(out, e.listPred(bodyContainer, ctx, idx)...)
	}
	if sw, ok := e.svc.Parent(bodyContainer).(*cnode.SwitchStatement); ok && sw.Expr != nil {
		out = append(out, sw.Expr)
	}
	return out
}

// followPred treats n as a node that has just been reached, and finds what precedes it by
// inspecting n's parent and n's position within it -- the predecessor-direction mirror of
// followSucc.
func (e *Engine) followPred(n cnode.Node, ctx oracle.Expr) []cnode.Node {
	p := e.svc.Parent(n)
	if p == nil {
		return nil
	}

	switch par := p.(type) {
	case *cnode.FunctionDef:
		return []cnode.Node{par}

	case *cnode.CompoundStatement:
		entries := e.svc.ChildrenOf(par)
		idx := indexOf(entries, n)
		return e.listPred(par, ctx, idx)

	case *cnode.IfStatement:
		switch {
		case par.Cond != nil && n.Identity() == par.Cond.Identity():
			return e.followPred(par, ctx)
		case par.Then != nil && n.Identity() == par.Then.Identity():
			if par.Cond != nil {
				return []cnode.Node{par.Cond}
			}
			return nil
		case par.Else != nil && n.Identity() == par.Else.Identity():
			if len(par.Elifs) > 0 {
				return []cnode.Node{par.Elifs[len(par.Elifs)-1].Cond}
			}
			if par.Cond != nil {
				return []cnode.Node{par.Cond}
			}
			return nil
		default:
			return nil
		}

	case *cnode.ElifStatement:
		owning, _ := e.svc.Parent(par).(*cnode.IfStatement)
		switch {
		case par.Cond != nil && n.Identity() == par.Cond.Identity():
			if owning == nil {
				return nil
			}
			idx := -1
			for i, el := range owning.Elifs {
				if el.Identity() == par.Identity() {
					idx = i
					break
				}
			}
			if idx == 0 {
				if owning.Cond != nil {
					return []cnode.Node{owning.Cond}
				}
				return nil
			}
			if idx > 0 {
				return []cnode.Node{owning.Elifs[idx-1].Cond}
			}
			return nil
		case par.Then != nil && n.Identity() == par.Then.Identity():
			if par.Cond != nil {
				return []cnode.Node{par.Cond}
			}
			return nil
		default:
			return nil
		}

	case *cnode.SwitchStatement:
		switch {
		case par.Expr != nil && n.Identity() == par.Expr.Identity():
			return e.followPred(par, ctx)
		default:
			return nil
		}

	case *cnode.WhileStatement:
		switch {
		case par.Cond != nil && n.Identity() == par.Cond.Identity():
			return e.followPred(par, ctx)
		default:
			if par.Cond != nil {
				return []cnode.Node{par.Cond}
			}
			return nil
		}

	case *cnode.DoStatement:
		switch {
		case par.Body != nil && n.Identity() == par.Body.Identity():
			return e.followPred(par, ctx)
		default:
			// n is par.Cond: unlike WhileStatement (where the cond is evaluated before the body and
			// so is reached straight from outside the loop), a do-while's cond is only ever reached
			// off the back of the body, so its predecessor is the body's own exit points, not itself.
			return e.predOf(par.Body, ctx)
		}

	case *cnode.ForStatement:
		switch {
		case par.Init != nil && n.Identity() == par.Init.Identity():
			return e.followPred(par, ctx)
		case par.Cond != nil && n.Identity() == par.Cond.Identity():
			if par.Init != nil {
				return []cnode.Node{par.Init}
			}
			return e.followPred(par, ctx)
		case par.Inc != nil && n.Identity() == par.Inc.Identity():
			// inc is reached off the back of the body; the pass-through expansion rolls a compound
			// body up to its exit points.
			return []cnode.Node{par.Body}
		default:
			if par.Inc != nil {
				return []cnode.Node{par.Inc}
			}
			if par.Cond != nil {
				return []cnode.Node{par.Cond}
			}
			if par.Init != nil {
				return []cnode.Node{par.Init}
			}
			return e.followPred(par, ctx)
		}

	case *cnode.LabelStatement:
		return e.followPred(par, ctx)

	default:
		return e.followPred(p, ctx)
	}
}

// collectReturns mirrors collectLabels for ReturnStatement, used to populate a FunctionDef's
// predecessor set (every return reaches the function's exit sentinel).
func collectReturns(fn *cnode.FunctionDef) []cnode.Node {
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
			walk(x.Stmt)
		case *cnode.ReturnStatement:
			out = append(out, x)
		}
	}
	if fn != nil && fn.Body != nil {
		walk(fn.Body)
	}
	return out
}

// collectBreaks returns every BreakStatement inside container whose nearest enclosing loop/switch
// is container itself -- it does not descend past a nested loop/switch's own body, since a break
// there targets the nested construct instead -- admitting only breaks whose presence condition
// implies ctx satisfiably (spec.md §4.2.6 "filterBreakStatements").
func (e *Engine) collectBreaks(container cnode.Node, ctx oracle.Expr) []cnode.Node {
	var out []cnode.Node
	var walk func(n cnode.Node, boundary bool)
	walk = func(n cnode.Node, boundary bool) {
		switch x := n.(type) {
		case *cnode.CompoundStatement:
			for _, item := range x.Items {
				for _, v := range cnode.Leaves(item) {
					walk(v, boundary)
				}
			}
		case *cnode.IfStatement:
			walk(x.Then, boundary)
			for _, elif := range x.Elifs {
				walk(elif, boundary)
			}
			if x.Else != nil {
				walk(x.Else, boundary)
			}
		case *cnode.ElifStatement:
			walk(x.Then, boundary)
		case *cnode.SwitchStatement:
			if !boundary {
				walk(x.Body, true)
			}
		case *cnode.CaseStatement:
			if x.Body != nil {
				walk(x.Body, boundary)
			}
		case *cnode.DefaultStatement:
			if x.Body != nil {
				walk(x.Body, boundary)
			}
		case *cnode.WhileStatement:
			if !boundary {
				walk(x.Body, true)
			}
		case *cnode.DoStatement:
			if !boundary {
				walk(x.Body, true)
			}
		case *cnode.ForStatement:
			if !boundary {
				walk(x.Body, true)
			}
		case *cnode.LabelStatement:
			walk(x.Stmt, boundary)
		case *cnode.BreakStatement:
			if e.admits(x, ctx) {
				out = append(out, x)
			}
		}
	}
	walk(container, false)
	return out
}

// gotoPredecessors returns every GotoStatement within label's enclosing function that names it (or
// is a computed goto), the predecessor-direction mirror of collectLabels, admitting only gotos
// whose presence condition implies ctx satisfiably (spec.md §4.2.6).
func (e *Engine) gotoPredecessors(label *cnode.LabelStatement, ctx oracle.Expr) []cnode.Node {
	fn := e.svc.EnclosingFunction(label)
	if fn == nil || fn.Body == nil {
		return nil
	}
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
			walk(x.Stmt)
		case *cnode.GotoStatement:
			if (x.IsComputed() || x.Label == label.Name) && e.admits(x, ctx) {
				out = append(out, x)
			}
		}
	}
	walk(fn.Body)
	return out
}
