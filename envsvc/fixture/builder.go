// Package fixture builds a reference envsvc.Service implementation over a literal cnode tree.
// The real AST Environment Service ships with the external parser; fixture exists so this
// repository's own tests (and cmd/vcfgtool) can construct translation units and get a working
// Parent/Previous/Next/FeatureExpr/FeatureSet/Siblings service for them, the same way a test
// fixture stands in for a database or network dependency.
//
// Invariant: optional Node-typed fields on cnode variants must be assigned a literal `nil`, never
// a typed nil pointer boxed into the Node interface -- the walker relies on `child == nil` to skip
// absent optional children.
package fixture

import (
	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/envsvc"
	"github.com/typechef-go/vcfgcore/oracle"
)

// Index is a Service built once over a fixed set of root nodes (typically top-level declarations
// and function definitions of one translation unit).
type Index struct {
	o oracle.Oracle

	parent        map[cnode.ID]cnode.Node
	prev          map[cnode.ID]cnode.Node
	next          map[cnode.ID]cnode.Node
	featureExpr   map[cnode.ID]oracle.Expr
	featureSet    map[cnode.ID][]oracle.Expr
	enclosingFunc map[cnode.ID]*cnode.FunctionDef
	siblings      map[cnode.ID][]envsvc.SiblingEntry
}

var _ envsvc.Service = (*Index)(nil)

// Build walks roots (each implicitly present under taut, the caller-supplied tautological
// expression for their oracle implementation -- e.g. testoracle.True) and returns the resulting
// Index.
func Build(o oracle.Oracle, taut oracle.Expr, roots ...cnode.Node) *Index {
	b := &Index{
		o:             o,
		parent:        map[cnode.ID]cnode.Node{},
		prev:          map[cnode.ID]cnode.Node{},
		next:          map[cnode.ID]cnode.Node{},
		featureExpr:   map[cnode.ID]oracle.Expr{},
		featureSet:    map[cnode.ID][]oracle.Expr{},
		enclosingFunc: map[cnode.ID]*cnode.FunctionDef{},
		siblings:      map[cnode.ID][]envsvc.SiblingEntry{},
	}
	for _, r := range roots {
		if r == nil {
			continue
		}
		b.featureExpr[r.Identity()] = taut
		b.featureSet[r.Identity()] = []oracle.Expr{taut}
		b.walk(r, taut, b.featureSet[r.Identity()], nil)
	}
	return b
}

// Parent implements envsvc.Service.
func (b *Index) Parent(n cnode.Node) cnode.Node { return b.parent[n.Identity()] }

// Previous implements envsvc.Service.
func (b *Index) Previous(n cnode.Node) cnode.Node { return b.prev[n.Identity()] }

// Next implements envsvc.Service.
func (b *Index) Next(n cnode.Node) cnode.Node { return b.next[n.Identity()] }

// IsPartOf implements envsvc.Service by walking up child's parent chain.
func (b *Index) IsPartOf(child, parent cnode.Node) bool {
	for cur := child; cur != nil; cur = b.Parent(cur) {
		if cur.Identity() == parent.Identity() {
			return true
		}
	}
	return false
}

// FeatureExpr implements envsvc.Service.
func (b *Index) FeatureExpr(n cnode.Node) oracle.Expr { return b.featureExpr[n.Identity()] }

// FeatureSet implements envsvc.Service.
func (b *Index) FeatureSet(n cnode.Node) []oracle.Expr { return b.featureSet[n.Identity()] }

// EnclosingFunction implements envsvc.Service.
func (b *Index) EnclosingFunction(n cnode.Node) *cnode.FunctionDef { return b.enclosingFunc[n.Identity()] }

// Siblings implements envsvc.Service: n's siblings are the flattened children recorded under n's
// parent, since every list-bearing node in cnode (CompoundStatement, DeclParameterDeclList, ...)
// is itself the Parent of its flattened items.
func (b *Index) Siblings(n cnode.Node) []envsvc.SiblingEntry {
	parent := b.Parent(n)
	if parent == nil {
		return nil
	}
	return b.siblings[parent.Identity()]
}

// ChildrenOf implements envsvc.Service.
func (b *Index) ChildrenOf(container cnode.Node) []envsvc.SiblingEntry {
	if container == nil {
		return nil
	}
	return b.siblings[container.Identity()]
}

func (b *Index) single(child cnode.Node, parent cnode.Node, ctx oracle.Expr, fset []oracle.Expr, ef *cnode.FunctionDef) {
	if child == nil {
		return
	}
	b.parent[child.Identity()] = parent
	b.featureExpr[child.Identity()] = ctx
	b.featureSet[child.Identity()] = appended(fset, ctx)
	if ef != nil {
		b.enclosingFunc[child.Identity()] = ef
	}
	b.walk(child, ctx, b.featureSet[child.Identity()], ef)
}

func appended(fset []oracle.Expr, ctx oracle.Expr) []oracle.Expr {
	out := make([]oracle.Expr, len(fset), len(fset)+1)
	copy(out, fset)
	return append(out, ctx)
}

// flattenInto expands a []cnode.Conditional[T] field into ordered siblings under parent, wiring
// parent/prev/next/featureExpr/featureSet/siblings and recursing into each resulting node.
func flattenInto[T any](b *Index, parent cnode.Node, list []cnode.Conditional[T], ctx oracle.Expr, fset []oracle.Expr, ef *cnode.FunctionDef, toNode func(T) cnode.Node) {
	var entries []envsvc.SiblingEntry
	var order []cnode.Node
	for _, c := range list {
		cnode.Flatten(c, ctx, b.o.And, b.o.Not, func(v T, cond oracle.Expr) {
			n := toNode(v)
			if n == nil {
				return
			}
			entries = append(entries, envsvc.SiblingEntry{Node: n, Cond: cond})
			order = append(order, n)
			b.parent[n.Identity()] = parent
			b.featureExpr[n.Identity()] = cond
			b.featureSet[n.Identity()] = appended(fset, cond)
			if ef != nil {
				b.enclosingFunc[n.Identity()] = ef
			}
		})
	}
	b.siblings[parent.Identity()] = entries
	for i, n := range order {
		if i > 0 {
			b.prev[n.Identity()] = order[i-1]
		}
		if i+1 < len(order) {
			b.next[n.Identity()] = order[i+1]
		}
	}
	for _, n := range order {
		b.walk(n, b.featureExpr[n.Identity()], b.featureSet[n.Identity()], ef)
	}
}

func identityNode(n cnode.Node) cnode.Node { return n }

// walk dispatches on n's concrete type and registers/recurses into its children. Unrecognized
// shapes are a no-op (spec.md §7 "Unrecognized AST shape: logged; no entry produced"); since
// cnode is closed over the variants spec.md §6 lists, the default case should be unreachable in
// practice but is kept defensive rather than panicking.
func (b *Index) walk(n cnode.Node, ctx oracle.Expr, fset []oracle.Expr, ef *cnode.FunctionDef) {
	switch x := n.(type) {
	case *cnode.FunctionDef:
		b.single(x.Name, x, ctx, fset, ef)
		flattenInto(b, x, x.Params, ctx, fset, ef, identityNode)
		b.single(x.Body, x, ctx, fset, x)

	case *cnode.Declaration:
		flattenInto(b, x, x.Declarators, ctx, fset, ef, identityNode)

	case *cnode.DeclarationStatement:
		b.single(x.Decl, x, ctx, fset, ef)

	case *cnode.InitDeclarator:
		b.single(x.Declarator, x, ctx, fset, ef)
		b.single(x.Init, x, ctx, fset, ef)

	case *cnode.AtomicNamedDeclarator:
		b.single(x.Name, x, ctx, fset, ef)
		if x.Pointer != nil {
			b.single(x.Pointer, x, ctx, fset, ef)
		}

	case *cnode.NestedNamedDeclarator:
		b.single(x.Inner, x, ctx, fset, ef)
		if x.Pointer != nil {
			b.single(x.Pointer, x, ctx, fset, ef)
		}

	case *cnode.Pointer:
		// no children

	case *cnode.DeclParameterDeclList:
		flattenInto(b, x, x.Params, ctx, fset, ef, identityNode)

	case *cnode.ParameterDeclarationD:
		b.single(x.Declarator, x, ctx, fset, ef)

	case *cnode.ParameterDeclarationAD:
		b.single(x.Declarator, x, ctx, fset, ef)

	case *cnode.PlainParameterDeclaration:
		// no children

	case *cnode.DeclArrayAccess:
		b.single(x.Inner, x, ctx, fset, ef)
		b.single(x.Size, x, ctx, fset, ef)

	case *cnode.TypeName:
		b.single(x.Specifier, x, ctx, fset, ef)

	case *cnode.TypeDefTypeSpecifier:
		b.single(x.Name, x, ctx, fset, ef)

	case *cnode.StructOrUnionSpecifier:
		if x.Fields != nil {
			flattenInto(b, x, x.Fields, ctx, fset, ef, func(d *cnode.StructDeclaration) cnode.Node { return d })
		}

	case *cnode.StructDeclaration:
		flattenInto(b, x, x.Declarators, ctx, fset, ef, func(d *cnode.StructDeclarator) cnode.Node { return d })

	case *cnode.StructDeclarator:
		b.single(x.Name, x, ctx, fset, ef)

	case *cnode.EnumSpecifier:
		flattenInto(b, x, x.Enumerators, ctx, fset, ef, func(e *cnode.Enumerator) cnode.Node { return e })

	case *cnode.Enumerator:
		b.single(x.Name, x, ctx, fset, ef)
		b.single(x.Value, x, ctx, fset, ef)

	case *cnode.CompoundStatement:
		flattenInto(b, x, x.Items, ctx, fset, ef, identityNode)

	case *cnode.IfStatement:
		b.single(x.Cond, x, ctx, fset, ef)
		b.single(x.Then, x, ctx, fset, ef)
		for _, elif := range x.Elifs {
			b.single(elif, x, ctx, fset, ef)
		}
		b.single(x.Else, x, ctx, fset, ef)

	case *cnode.ElifStatement:
		b.single(x.Cond, x, ctx, fset, ef)
		b.single(x.Then, x, ctx, fset, ef)

	case *cnode.SwitchStatement:
		b.single(x.Expr, x, ctx, fset, ef)
		b.single(x.Body, x, ctx, fset, ef)

	case *cnode.CaseStatement:
		b.single(x.Expr, x, ctx, fset, ef)
		b.single(x.Body, x, ctx, fset, ef)

	case *cnode.DefaultStatement:
		b.single(x.Body, x, ctx, fset, ef)

	case *cnode.WhileStatement:
		b.single(x.Cond, x, ctx, fset, ef)
		b.single(x.Body, x, ctx, fset, ef)

	case *cnode.DoStatement:
		b.single(x.Body, x, ctx, fset, ef)
		b.single(x.Cond, x, ctx, fset, ef)

	case *cnode.ForStatement:
		b.single(x.Init, x, ctx, fset, ef)
		b.single(x.Cond, x, ctx, fset, ef)
		b.single(x.Inc, x, ctx, fset, ef)
		b.single(x.Body, x, ctx, fset, ef)

	case *cnode.BreakStatement, *cnode.ContinueStatement:
		// no children

	case *cnode.ReturnStatement:
		b.single(x.Expr, x, ctx, fset, ef)

	case *cnode.GotoStatement:
		b.single(x.Computed, x, ctx, fset, ef)

	case *cnode.LabelStatement:
		b.single(x.Stmt, x, ctx, fset, ef)

	case *cnode.ExprStatement:
		b.single(x.Expr, x, ctx, fset, ef)

	case *cnode.Id, *cnode.Constant, *cnode.StringLit:
		// no children

	case *cnode.PostfixExpr:
		b.single(x.Base, x, ctx, fset, ef)
		for _, s := range x.Suffixes {
			b.single(s, x, ctx, fset, ef)
		}

	case *cnode.PointerPostfixSuffix:
		b.single(x.Field, x, ctx, fset, ef)

	case *cnode.SimplePostfixSuffix:
		b.single(x.Field, x, ctx, fset, ef)
		b.single(x.Index, x, ctx, fset, ef)

	case *cnode.FunctionCall:
		b.single(x.Fun, x, ctx, fset, ef)
		for _, a := range x.Args {
			b.single(a, x, ctx, fset, ef)
		}

	case *cnode.AssignExpr:
		b.single(x.Target, x, ctx, fset, ef)
		b.single(x.Value, x, ctx, fset, ef)

	case *cnode.UnaryOpExpr:
		b.single(x.Expr, x, ctx, fset, ef)

	case *cnode.NAryExpr:
		b.single(x.First, x, ctx, fset, ef)
		for _, r := range x.Rest {
			b.single(r, x, ctx, fset, ef)
		}

	case *cnode.NArySubExpr:
		b.single(x.Expr, x, ctx, fset, ef)

	case *cnode.CastExpr:
		b.single(x.Type, x, ctx, fset, ef)
		b.single(x.Expr, x, ctx, fset, ef)

	case *cnode.ConditionalExpr:
		b.single(x.Cond, x, ctx, fset, ef)
		b.single(x.Then, x, ctx, fset, ef)
		b.single(x.Else, x, ctx, fset, ef)

	case *cnode.PointerDerefExpr:
		b.single(x.Expr, x, ctx, fset, ef)

	case *cnode.SizeOfExprT:
		b.single(x.Type, x, ctx, fset, ef)

	case *cnode.BuiltinOffsetof:
		b.single(x.Type, x, ctx, fset, ef)
		b.single(x.Designator, x, ctx, fset, ef)

	case *cnode.OffsetofMemberDesignatorID:
		b.single(x.Field, x, ctx, fset, ef)

	case *cnode.CompoundStatementExpr:
		b.single(x.Stmt, x, ctx, fset, ef)

	default:
		// Unrecognized shape: no entry.
	}
}
