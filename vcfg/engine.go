// Package vcfg implements the Variability-aware Control Flow Graph Engine (spec.md §4.2): a
// succ(node)/pred(node) pair over the cnode AST, combining ordinary C control-flow with
// #ifdef-grouped sibling resolution (spec.md §4.2.5) behind a per-node-identity memoization layer.
package vcfg

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/config"
	"github.com/typechef-go/vcfgcore/diagnostic"
	"github.com/typechef-go/vcfgcore/envsvc"
	"github.com/typechef-go/vcfgcore/oracle"
	"github.com/typechef-go/vcfgcore/util/orderedmap"
)

// Engine answers succ/pred queries over one translation unit. It owns predCache/succCache, both
// memoized per node identity (spec.md §4.4 "Memoization and determinism").
type Engine struct {
	svc  envsvc.Service
	o    oracle.Oracle
	cfg  config.Config
	diag *diagnostic.Engine

	succCache *orderedmap.OrderedMap[cnode.ID, []cnode.Node]
	predCache *orderedmap.OrderedMap[cnode.ID, []cnode.Node]
}

// NewEngine builds an Engine over svc and o, reporting structural precondition violations (e.g. an
// unbounded fixed-point expansion) to diag.
func NewEngine(svc envsvc.Service, o oracle.Oracle, cfg config.Config, diag *diagnostic.Engine) *Engine {
	return &Engine{
		svc:       svc,
		o:         o,
		cfg:       cfg,
		diag:      diag,
		succCache: orderedmap.New[cnode.ID, []cnode.Node](),
		predCache: orderedmap.New[cnode.ID, []cnode.Node](),
	}
}

// Succ returns n's control-flow successors under the presence condition that governs n itself
// (spec.md §4.2.1). The first call for a given n computes and caches the result; later calls
// return the cached slice.
func (e *Engine) Succ(n cnode.Node) []cnode.Node {
	if v, ok := e.succCache.Load(n.Identity()); ok {
		return v
	}
	ctx := e.svc.FeatureExpr(n)
	raw := e.succOf(n, ctx)
	out := e.expandPassThroughWith(raw, ctx, e.succOf)
	e.succCache.Store(n.Identity(), out)
	return out
}

// Pred returns n's control-flow predecessors, the mirror of Succ.
func (e *Engine) Pred(n cnode.Node) []cnode.Node {
	if v, ok := e.predCache.Load(n.Identity()); ok {
		return v
	}
	ctx := e.svc.FeatureExpr(n)
	raw := e.predOf(n, ctx)
	out := e.expandPassThroughWith(raw, ctx, e.predOf)
	e.predCache.Store(n.Identity(), out)
	return out
}

// isPassThrough reports whether n is one of the compound/conditional node shapes the fixed-point
// re-expansion pass (spec.md §4.2.3) unwraps into its own leaf-level successors/predecessors:
// If, Elif, Switch, Compound, Do, While, For. Case, Default, and Label are deliberately excluded --
// a bare CaseStatement/DefaultStatement/LabelStatement reference left in a successor set is itself
// a valid traversal target: spec.md §8 concrete scenario 4's
// "succ(switch-expr) = [case 1, case 2, default]" requires the default label itself to survive
// this pass (switchDispatch, succ.go, already performs the case/default dispatch directly), exactly
// as concrete scenario 6's "succ(goto) = [L]" requires a label to survive it rather than being
// replaced by L's inner statement.
func isPassThrough(n cnode.Node) bool {
	switch n.(type) {
	case *cnode.IfStatement, *cnode.ElifStatement, *cnode.SwitchStatement, *cnode.CompoundStatement,
		*cnode.DoStatement, *cnode.WhileStatement, *cnode.ForStatement:
		return true
	default:
		return false
	}
}

// expandPassThroughWith repeatedly replaces any pass-through node among raw with of(n, ctx) --
// succOf for a Succ query, predOf for a Pred query, since "entering" a compound/conditional
// construct from the front and from the back resolve through different dispatch rules -- until no
// pass-through nodes remain or config.VCFGStableRoundLimit rounds have been spent, at which point
// it reports a structural precondition violation and returns the best result found so far
// (spec.md §7, §4.2.3 "fixed-point pass").
func (e *Engine) expandPassThroughWith(raw []cnode.Node, ctx oracle.Expr, of func(cnode.Node, oracle.Expr) []cnode.Node) []cnode.Node {
	cur := raw
	limit := e.cfg.VCFGStableRoundLimit
	if limit <= 0 {
		limit = config.DefaultVCFGStableRoundLimit
	}
	for round := 0; round < limit; round++ {
		changed := false
		var next []cnode.Node
		for _, n := range cur {
			if isPassThrough(n) {
				changed = true
				next = append(next, of(n, ctx)...)
				continue
			}
			next = append(next, n)
		}
		cur = dedupe(next)
		if !changed {
			return cur
		}
	}
	e.diag.Reportf(diagnostic.Warning, nil, "vcfg: pass-through expansion did not stabilize within %d rounds", limit)
	return cur
}

func dedupe(nodes []cnode.Node) []cnode.Node {
	seen := map[cnode.ID]bool{}
	var out []cnode.Node
	for _, n := range nodes {
		if n == nil || seen[n.Identity()] {
			continue
		}
		seen[n.Identity()] = true
		out = append(out, n)
	}
	return out
}

// CompareSuccWithPred verifies, over every node reachable from roots, that succ/pred agree: for
// every s in Succ(n), n must appear in Pred(s), and symmetrically (spec.md §4.2.7 "CFG consistency
// check"). Every mismatch is accumulated via go-multierror rather than stopping at the first one,
// so a caller sees the full extent of a broken CFG in one pass.
func (e *Engine) CompareSuccWithPred(roots []cnode.Node) error {
	var result *multierror.Error
	visited := map[cnode.ID]bool{}
	var walk func(n cnode.Node)
	walk = func(n cnode.Node) {
		if n == nil || visited[n.Identity()] {
			return
		}
		visited[n.Identity()] = true

		succs := e.Succ(n)
		for _, s := range succs {
			if !containsIdentity(e.Pred(s), n) {
				result = multierror.Append(result, fmt.Errorf("vcfg: %s is a successor of %s but does not list it as a predecessor", s.Identity(), n.Identity()))
			}
		}
		preds := e.Pred(n)
		for _, p := range preds {
			if !containsIdentity(e.Succ(p), n) {
				result = multierror.Append(result, fmt.Errorf("vcfg: %s is a predecessor of %s but does not list it as a successor", p.Identity(), n.Identity()))
			}
		}
		for _, s := range succs {
			walk(s)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return result.ErrorOrNil()
}

func containsIdentity(nodes []cnode.Node, n cnode.Node) bool {
	for _, c := range nodes {
		if c.Identity() == n.Identity() {
			return true
		}
	}
	return false
}
