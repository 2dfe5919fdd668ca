package vcfg

import (
	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/envsvc"
	"github.com/typechef-go/vcfgcore/oracle"
)

// ifdefBlock is a maximal run of consecutive siblings whose presence conditions the Feature
// Oracle considers pairwise equivalent (spec.md §4.2.5 "IfdefBlock"). head is the first sibling of
// the run and stands in for the whole block in following-elements selection.
type ifdefBlock struct {
	cond oracle.Expr
	head cnode.Node
}

// groupIfdefBlocks partitions an ordered sibling list into maximal runs of pairwise-equivalent
// presence conditions, keeping the first entry of each run as the block's representative.
func groupIfdefBlocks(o oracle.Oracle, entries []envsvc.SiblingEntry) []ifdefBlock {
	var blocks []ifdefBlock
	for _, e := range entries {
		if n := len(blocks); n > 0 && o.Equivalent(blocks[n-1].cond, e.Cond) {
			continue
		}
		blocks = append(blocks, ifdefBlock{cond: e.Cond, head: e.Node})
	}
	return blocks
}

// determineFollowingElements implements spec.md §4.2.5's following-elements selection: given an
// ordered list of IfdefBlocks and the accumulated presence-condition context ctx of the traversal
// so far, it decides which block heads are reachable successors under ctx.
//
// It returns (nodes, true) when the blocks considered so far are known to cover every
// configuration reachable under ctx (a "Left" result: the caller has a definite, complete answer).
// It returns (nodes, false) when coverage could not be established from this list alone (a
// "Right" result: the caller must keep climbing to the parent level and merge in whatever is
// found there).
func determineFollowingElements(o oracle.Oracle, blocks []ifdefBlock, ctx oracle.Expr) ([]cnode.Node, bool) {
	var result []cnode.Node
	var seen []oracle.Expr
	var accumulated oracle.Expr
	haveAccumulated := false

	for _, b := range blocks {
		if o.Equivalent(ctx, b.cond) {
			return append(result, b.head), true
		}
		if !o.IsSatisfiable(o.And(ctx, b.cond)) {
			continue
		}
		if containsEquivalent(o, seen, b.cond) {
			continue
		}

		result = append(result, b.head)
		seen = append(seen, b.cond)
		if !haveAccumulated {
			accumulated = b.cond
			haveAccumulated = true
		} else {
			accumulated = o.Or(accumulated, b.cond)
		}
		if haveAccumulated && o.IsTautology(accumulated) {
			return result, true
		}
	}
	return result, false
}

func containsEquivalent(o oracle.Oracle, seen []oracle.Expr, cond oracle.Expr) bool {
	for _, s := range seen {
		if o.Equivalent(s, cond) {
			return true
		}
	}
	return false
}

// listSucc computes the successor set for "the element after position startIdx" within an ordered
// sibling list belonging to container, given traversal context ctx. startIdx = -1 means "the first
// element of the list," which is how entry into a CompoundStatement is computed; startIdx = i means
// "whatever follows the element at i," which is how a departing list element climbs to the next
// one. When the blocks at this level cannot establish complete coverage under ctx, the remainder is
// filled in by climbing to container's own successor in its parent (spec.md §4.2.5 "Right" case).
func (e *Engine) listSucc(container cnode.Node, ctx oracle.Expr, startIdx int) []cnode.Node {
	entries := e.svc.ChildrenOf(container)
	if startIdx+1 >= len(entries) {
		return e.followSucc(container, ctx)
	}
	blocks := groupIfdefBlocks(e.o, entries[startIdx+1:])
	nodes, definite := determineFollowingElements(e.o, blocks, ctx)
	if definite {
		return nodes
	}
	return append(nodes, e.followSucc(container, ctx)...)
}

// listPred is listSucc's mirror for predecessor computation: "the element before position
// startIdx" within container's ordered sibling list. startIdx = len(entries) means "the last
// element of the list," used for exit-of-container queries; startIdx = i means "whatever precedes
// the element at i."
func (e *Engine) listPred(container cnode.Node, ctx oracle.Expr, startIdx int) []cnode.Node {
	entries := e.svc.ChildrenOf(container)
	if startIdx <= 0 {
		return e.followPred(container, ctx)
	}
	reversed := make([]envsvc.SiblingEntry, startIdx)
	for i := 0; i < startIdx; i++ {
		reversed[i] = entries[startIdx-1-i]
	}
	blocks := groupIfdefBlocks(e.o, reversed)
	nodes, definite := determineFollowingElements(e.o, blocks, ctx)
	if definite {
		return nodes
	}
	return append(nodes, e.followPred(container, ctx)...)
}

func indexOf(entries []envsvc.SiblingEntry, n cnode.Node) int {
	for i, e := range entries {
		if e.Node.Identity() == n.Identity() {
			return i
		}
	}
	return -1
}
