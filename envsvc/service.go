// Package envsvc defines the contract for the AST Environment Service, an external collaborator
// that knows how an AST node sits inside its translation unit: its parent, its siblings, and the
// presence condition(s) that govern it (spec.md §2 "AST Environment Service (external)", §6
// "Environment oracle"). The core never constructs this information itself; it asks the service.
package envsvc

import (
	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/oracle"
)

// Service answers structural and presence-condition questions about a node inside one
// translation unit, as built by the external parser/preprocessor pipeline.
type Service interface {
	// Parent returns n's parent node, or nil if n is the translation-unit root.
	Parent(n cnode.Node) cnode.Node
	// Previous returns n's previous sibling within its enclosing list container, or nil.
	Previous(n cnode.Node) cnode.Node
	// Next returns n's next sibling within its enclosing list container, or nil.
	Next(n cnode.Node) cnode.Node
	// IsPartOf reports whether child is reachable from parent by following child links.
	IsPartOf(child, parent cnode.Node) bool
	// FeatureExpr returns the presence condition directly governing n.
	FeatureExpr(n cnode.Node) oracle.Expr
	// FeatureSet returns the set of presence conditions along n's root path (n's own condition
	// plus every ancestor Choice/Opt condition that applies to it).
	FeatureSet(n cnode.Node) []oracle.Expr
	// EnclosingFunction returns the nearest *cnode.FunctionDef containing n, or nil if n is not
	// inside a function body.
	EnclosingFunction(n cnode.Node) *cnode.FunctionDef
	// Siblings returns the ordered list of n's siblings (including n) within its enclosing list
	// container (a CompoundStatement's Items, a DeclParameterDeclList's Params, a
	// StructDeclaration's Declarators, etc.), along with each sibling's presence condition.
	Siblings(n cnode.Node) []SiblingEntry
	// ChildrenOf returns the ordered, flattened list of container's direct children (along with
	// each child's presence condition), for a list-bearing node such as a CompoundStatement or
	// DeclParameterDeclList. It returns nil for a container with no children (including one that
	// was never a list container at all).
	ChildrenOf(container cnode.Node) []SiblingEntry
}

// SiblingEntry pairs a sibling node with the presence condition under which it is present,
// exactly what variability-aware sibling resolution needs (spec.md §4.2.5).
type SiblingEntry struct {
	Node cnode.Node
	Cond oracle.Expr
}
