package defuse

import (
	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/config"
	"github.com/typechef-go/vcfgcore/diagnostic"
	"github.com/typechef-go/vcfgcore/nameenv"
	"github.com/typechef-go/vcfgcore/oracle"
)

// Builder walks translation-unit declarations and function bodies, threading a persistent
// nameenv.Env through each scope and recording def/use pairs into a Map (spec.md §4.3). It carries
// no traversal state of its own between calls other than Map and Diag: each BuildFunction call
// takes the Env to build from and returns nothing, since a function's own local scope never leaks
// to a caller.
type Builder struct {
	o    oracle.Oracle
	cfg  config.Config
	diag *diagnostic.Engine
	m    *Map
}

// NewBuilder constructs a Builder that records into m, consulting o for presence-condition
// combinators and reporting recovery paths to diag per cfg.
func NewBuilder(o oracle.Oracle, cfg config.Config, diag *diagnostic.Engine, m *Map) *Builder {
	return &Builder{o: o, cfg: cfg, diag: diag, m: m}
}

// Map returns the Def-Use Map this Builder records into.
func (b *Builder) Map() *Map { return b.m }

// BuildTranslationUnit seeds a base Env with every top-level function name and top-level
// declaration in roots (so calls and references between sibling declarations resolve regardless
// of textual order, the way real C translation units behave across declaration order within a
// single compilation), then builds each FunctionDef's body against that shared base.
func (b *Builder) BuildTranslationUnit(roots []cnode.Node, taut oracle.Expr) *nameenv.Env {
	env := nameenv.Empty()
	for _, r := range roots {
		switch x := r.(type) {
		case *cnode.FunctionDef:
			if x.Name != nil {
				env = b.bindFunctionDef(env, x)
			}
		case *cnode.DeclarationStatement:
			env = b.buildDeclaration(env, x.Decl, taut)
		}
	}
	for _, r := range roots {
		if fn, ok := r.(*cnode.FunctionDef); ok {
			b.BuildFunction(env, fn, taut)
		}
	}
	return env
}

// BuildFunction builds fn's body against a fresh scope nested under base: base's bindings (sibling
// functions, globals) are visible, fn's own parameters shadow them, and every declaration inside
// fn's body is local to fn -- none of it is returned, since it cannot be observed outside fn.
func (b *Builder) BuildFunction(base *nameenv.Env, fn *cnode.FunctionDef, taut oracle.Expr) {
	env := base
	for _, p := range fn.Params {
		cnode.Flatten(p, taut, b.o.And, b.o.Not, func(v cnode.Node, cond oracle.Expr) {
			env = b.bindParam(env, v, cond)
		})
	}
	if fn.Body != nil {
		b.buildStmt(env, fn.Body, taut)
	}
}

// bindFunctionDef registers fn's name, reconciling a prior forward declaration with this
// definition per spec.md §4.3.1: "if env has no prior binding -> function's declarator Id is key;
// if prior InitDeclarator exists -> prior Id is key, function's Id is first use" (spec.md §8
// concrete scenario 2: "int f(void); int f(void) { return 0; }" -> the declaration's Id is the
// key; the definition's Id is its first use). When a prior binding exists, the definition's Id is
// recorded as a use of every leaf of that binding (each Choice branch), no fresh key is created
// for the definition, and the Env keeps the prior binding.
func (b *Builder) bindFunctionDef(env *nameenv.Env, fn *cnode.FunctionDef) *nameenv.Env {
	prior, ok := env.LookupVar(fn.Name.Name)
	if !ok {
		binding := b.addDef(fn.Name, nameenv.KindFunctionDef, fn)
		return env.DefineVar(fn.Name.Name, cnode.One(binding))
	}
	for _, bd := range cnode.Leaves(prior) {
		if bd.DefID != nil {
			b.m.Use(bd.DefID, fn.Name, b.cfg.AllowDuplicateUses)
		}
	}
	return env
}

func (b *Builder) bindParam(env *nameenv.Env, n cnode.Node, _ oracle.Expr) *nameenv.Env {
	var id *cnode.Id
	switch x := n.(type) {
	case *cnode.ParameterDeclarationD:
		id = x.Id()
	case *cnode.ParameterDeclarationAD, *cnode.PlainParameterDeclaration:
		return env
	}
	if id == nil {
		return env
	}
	binding := b.addDef(id, nameenv.KindAtomicNamedDeclarator, n)
	return env.DefineVar(id.Name, cnode.One(binding))
}

// buildStmtList threads env through a CompoundStatement's Items in order, expanding each item's
// Conditional[Node] wrapper so every #ifdef-distinct alternative is visited, and returns the
// accumulated Env -- declarations made earlier in the list are visible to later items and to
// whatever follows the list, matching ordinary C block-scope sequencing.
func (b *Builder) buildStmtList(env *nameenv.Env, items []cnode.Conditional[cnode.Node], ctx oracle.Expr) *nameenv.Env {
	cur := env
	for _, it := range items {
		cnode.Flatten(it, ctx, b.o.And, b.o.Not, func(v cnode.Node, cond oracle.Expr) {
			cur = b.buildStmt(cur, v, cond)
		})
	}
	return cur
}

// buildStmt builds one statement against env, returning an updated Env only for constructs that
// introduce bindings visible to what textually follows at the SAME scope (declarations, a for
// loop's own init-declared variable within the loop itself). Nested scopes (if/while/for/switch
// bodies, a label's inner statement) are built against a local copy of env and their own additions
// discarded on return, since C block scope does not leak across a brace boundary.
func (b *Builder) buildStmt(env *nameenv.Env, n cnode.Node, ctx oracle.Expr) *nameenv.Env {
	switch x := n.(type) {
	case *cnode.DeclarationStatement:
		return b.buildDeclaration(env, x.Decl, ctx)

	case *cnode.ExprStatement:
		b.walkExprUses(env, x.Expr, ctx)
		return env

	case *cnode.CompoundStatement:
		b.buildStmtList(env, x.Items, ctx)
		return env

	case *cnode.IfStatement:
		b.walkExprUses(env, x.Cond, ctx)
		b.buildStmt(env, x.Then, ctx)
		for _, el := range x.Elifs {
			b.walkExprUses(env, el.Cond, ctx)
			b.buildStmt(env, el.Then, ctx)
		}
		if x.Else != nil {
			b.buildStmt(env, x.Else, ctx)
		}
		return env

	case *cnode.SwitchStatement:
		b.walkExprUses(env, x.Expr, ctx)
		b.buildStmt(env, x.Body, ctx)
		return env

	case *cnode.CaseStatement:
		b.walkExprUses(env, x.Expr, ctx)
		if x.Body != nil {
			b.buildStmt(env, x.Body, ctx)
		}
		return env

	case *cnode.DefaultStatement:
		if x.Body != nil {
			b.buildStmt(env, x.Body, ctx)
		}
		return env

	case *cnode.WhileStatement:
		b.walkExprUses(env, x.Cond, ctx)
		b.buildStmt(env, x.Body, ctx)
		return env

	case *cnode.DoStatement:
		b.buildStmt(env, x.Body, ctx)
		b.walkExprUses(env, x.Cond, ctx)
		return env

	case *cnode.ForStatement:
		loopEnv := env
		if x.Init != nil {
			loopEnv = b.buildStmt(loopEnv, x.Init, ctx)
		}
		if x.Cond != nil {
			b.walkExprUses(loopEnv, x.Cond, ctx)
		}
		if x.Inc != nil {
			b.walkExprUses(loopEnv, x.Inc, ctx)
		}
		b.buildStmt(loopEnv, x.Body, ctx)
		return env

	case *cnode.ReturnStatement:
		if x.Expr != nil {
			b.walkExprUses(env, x.Expr, ctx)
		}
		return env

	case *cnode.GotoStatement:
		if x.Computed != nil {
			b.walkExprUses(env, x.Computed, ctx)
		}
		return env

	case *cnode.LabelStatement:
		next := b.addLabelStatement(env, x, ctx)
		b.buildStmt(next, x.Stmt, ctx)
		return env

	case *cnode.BreakStatement, *cnode.ContinueStatement:
		return env

	default:
		return env
	}
}

// buildDeclaration registers every declarator in decl, expanding #ifdef-distinct alternatives via
// Flatten, and returns the Env extended with each binding (spec.md §4.3.2 "the Builder emits ONE
// entry per configuration-distinct declarator"). A `typedef` declaration (decl.IsTypedef) binds
// each declarator's Id into the typedef namespace instead of the variable namespace, per spec.md
// §4.1's "declaration (typedef)" binding kind.
func (b *Builder) buildDeclaration(env *nameenv.Env, decl *cnode.Declaration, ctx oracle.Expr) *nameenv.Env {
	cur := env
	for _, d := range decl.Declarators {
		cnode.Flatten(d, ctx, b.o.And, b.o.Not, func(v cnode.Node, cond oracle.Expr) {
			if decl.IsTypedef {
				cur = b.bindTypedefDeclarator(cur, v)
			} else {
				cur = b.bindDeclarator(cur, v, cond)
			}
		})
	}
	return cur
}

func (b *Builder) bindDeclarator(env *nameenv.Env, n cnode.Node, cond oracle.Expr) *nameenv.Env {
	x, ok := n.(*cnode.InitDeclarator)
	if !ok {
		return env
	}
	// The initializer may reference an outer binding of the same name; uses are resolved against
	// env before this declarator's own binding is added.
	if x.Init != nil {
		b.walkExprUses(env, x.Init, cond)
	}
	id := x.Id()
	if id == nil {
		return env
	}
	binding := b.addDef(id, nameenv.KindInitDeclarator, x)
	value := cnode.One(binding)
	// A declarator present only under cond keeps a prior binding of the same name visible for the
	// configurations where cond does not hold, so a later use resolves to both alternatives.
	if cond != nil && !b.o.IsTautology(cond) {
		if prior, ok := env.LookupVar(id.Name); ok {
			value = cnode.Choice(cond, value, prior)
		}
	}
	return env.DefineVar(id.Name, value)
}

// bindTypedefDeclarator registers the name introduced by a `typedef` declarator into the typedef
// namespace (spec.md §4.1's "declaration (typedef)" binding kind). A typedef declarator carries no
// initializer to walk for uses.
func (b *Builder) bindTypedefDeclarator(env *nameenv.Env, n cnode.Node) *nameenv.Env {
	x, ok := n.(*cnode.InitDeclarator)
	if !ok {
		return env
	}
	id := x.Id()
	if id == nil {
		return env
	}
	binding := b.addDef(id, nameenv.KindTypedef, x)
	return env.DefineTypedef(id.Name, cnode.One(binding))
}

// addDef registers id as a fresh definition and returns the Binding to install in the Name
// Environment.
func (b *Builder) addDef(id *cnode.Id, kind nameenv.BindingKind, node cnode.Node) nameenv.Binding {
	b.m.Def(id)
	return nameenv.Binding{Kind: kind, DefID: id, Node: node}
}

// addDecl registers id as its own synthetic definition: the orphan-use recovery path (spec.md §7)
// for a name that resolves to no environment binding at all.
func (b *Builder) addDecl(id *cnode.Id) nameenv.Binding {
	b.m.Def(id)
	return nameenv.Binding{Kind: nameenv.KindInitDeclarator, DefID: id, Node: id}
}

// addUse resolves id against env and records a use against every binding env.LookupVar finds,
// via cnode.Leaves (every textual alternative, regardless of which #ifdef configuration governs
// it -- this Builder does not attempt to filter a use down to only the definitions whose presence
// condition is compatible with the use's own, since that would require threading per-use-site
// accumulated context through every expression walk; spec.md leaves this level of precision an
// Open Question, and this is a deliberately documented simplification, not an oversight).
// If id resolves to nothing, it is registered as its own synthetic definition (spec.md §7), with an
// Info diagnostic when cfg.ReportUnresolvedNames is set.
func (b *Builder) addUse(env *nameenv.Env, id *cnode.Id) {
	binding, ok := env.LookupVar(id.Name)
	if !ok {
		if b.cfg.ReportUnresolvedNames {
			b.diag.Reportf(diagnostic.Info, id, "unresolved name %q registered as synthetic self-definition", id.Name)
		}
		b.addDecl(id)
		return
	}
	for _, bd := range cnode.Leaves(binding) {
		if bd.DefID != nil {
			b.m.Use(bd.DefID, id, b.cfg.AllowDuplicateUses)
		}
	}
}

// addTypeUse resolves a typedef name reference against the typedef namespace, with the same
// orphan-recovery behavior as addUse.
func (b *Builder) addTypeUse(env *nameenv.Env, id *cnode.Id) {
	binding, ok := env.LookupTypedef(id.Name)
	if !ok {
		if b.cfg.ReportUnresolvedNames {
			b.diag.Reportf(diagnostic.Info, id, "unresolved typedef name %q registered as synthetic self-definition", id.Name)
		}
		b.addDecl(id)
		return
	}
	for _, bd := range cnode.Leaves(binding) {
		if bd.DefID != nil {
			b.m.Use(bd.DefID, id, b.cfg.AllowDuplicateUses)
		}
	}
}

// addStructUse resolves a field name reference against the field namespace of (tag, isUnion),
// which spec.md §4.1 requires to already be known. Unlike addUse/addTypeUse, a field use that
// fails to resolve is NOT recovered as a synthetic self-definition: without a type checker this
// core cannot tell whether the struct tag itself was simply never observed (a real defect worth
// surfacing) versus a genuinely unresolved name, so it is reported and dropped rather than
// guessed at.
func (b *Builder) addStructUse(env *nameenv.Env, tag string, isUnion bool, field *cnode.Id) {
	binding, ok := env.LookupField(tag, isUnion, field.Name)
	if !ok {
		b.diag.Reportf(diagnostic.Warning, field, "field %q of %s not found in struct/union environment", field.Name, tag)
		return
	}
	for _, bd := range cnode.Leaves(binding) {
		if bd.DefID != nil {
			b.m.Use(bd.DefID, field, b.cfg.AllowDuplicateUses)
		}
	}
}

// addLabelStatement registers label's Name in the variable namespace under nameenv.KindLabel and
// returns the extended Env. This is the narrowest defensible reading of spec.md §4.1's label
// binding: a label is not an Id node (only a bare Name string), so there is no defining
// occurrence to register in the Def-Use Map itself -- gotoPredecessors (vcfg/pred.go) resolves
// goto/label edges structurally, by name, without going through this Map at all.
func (b *Builder) addLabelStatement(env *nameenv.Env, label *cnode.LabelStatement, _ oracle.Expr) *nameenv.Env {
	binding := nameenv.Binding{Kind: nameenv.KindLabel, Node: label}
	return env.DefineVar(label.Name, cnode.One(binding))
}

// walkExprUses visits every Id, TypeDefTypeSpecifier, and struct-use site reachable from root
// using an explicit node stack rather than recursion (spec.md §9 "Deep traversal... Prefer
// explicit stack-based traversal").
func (b *Builder) walkExprUses(env *nameenv.Env, root cnode.Node, ctx oracle.Expr) {
	if root == nil {
		return
	}
	stack := []cnode.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch x := n.(type) {
		case *cnode.Id:
			b.addUse(env, x)

		case *cnode.PostfixExpr:
			stack = append(stack, x.Base)
			stack = append(stack, x.Suffixes...)

		case *cnode.SimplePostfixSuffix:
			// A bare `.field`/`[index]` suffix contributes no struct use in this core: resolving
			// the field's owning struct tag requires a type checker, which is an explicit
			// Non-goal (spec.md §1). Only an index expression (itself a value use) is walked.
			if x.Index != nil {
				stack = append(stack, x.Index)
			}

		case *cnode.PointerPostfixSuffix:
			// Same reasoning as SimplePostfixSuffix: `->field` needs type information this core
			// does not have, so it contributes no use.

		case *cnode.FunctionCall:
			stack = append(stack, x.Fun)
			stack = append(stack, x.Args...)

		case *cnode.AssignExpr:
			stack = append(stack, x.Target, x.Value)

		case *cnode.UnaryOpExpr:
			stack = append(stack, x.Expr)

		case *cnode.NAryExpr:
			stack = append(stack, x.First)
			for _, r := range x.Rest {
				stack = append(stack, r)
			}

		case *cnode.NArySubExpr:
			stack = append(stack, x.Expr)

		case *cnode.CastExpr:
			env = b.walkTypeUses(env, x.Type)
			stack = append(stack, x.Expr)

		case *cnode.ConditionalExpr:
			stack = append(stack, x.Cond)
			if x.Then != nil {
				stack = append(stack, x.Then)
			}
			stack = append(stack, x.Else)

		case *cnode.PointerDerefExpr:
			stack = append(stack, x.Expr)

		case *cnode.SizeOfExprT:
			env = b.walkTypeUses(env, x.Type)

		case *cnode.BuiltinOffsetof:
			env = b.walkTypeUses(env, x.Type)
			// Unlike an ordinary `.field` postfix suffix, the struct tag here is known statically
			// from x.Type, so the designator's field IS a genuine addStructUse site.
			if tag, isUnion, ok := structTagOf(x.Type); ok {
				if d, ok := x.Designator.(*cnode.OffsetofMemberDesignatorID); ok && d.Field != nil {
					b.addStructUse(env, tag, isUnion, d.Field)
				}
			}

		case *cnode.OffsetofMemberDesignatorID:
			// Reached only if a designator appears outside a BuiltinOffsetof's own dispatch above
			// (defensive fallback); without a known owning type there is no tag to resolve against.

		case *cnode.CompoundStatementExpr:
			if x.Stmt != nil {
				b.buildStmt(env, x.Stmt, ctx)
			}

		case *cnode.Constant, *cnode.StringLit:
			// No uses.
		}
	}
}

// walkTypeUses resolves the uses contributed by a type reference: a typedef name, or a struct/
// union/enum tag definition encountered inline (e.g. `sizeof(struct Foo { int x; })`), which is
// registered into the struct environment the moment it is seen regardless of where it appears. It
// returns the (possibly extended) Env, since an inline definition's fields/enumerators must be
// visible to whatever follows in the same scope.
func (b *Builder) walkTypeUses(env *nameenv.Env, typ cnode.Node) *nameenv.Env {
	tn, ok := typ.(*cnode.TypeName)
	if !ok || tn.Specifier == nil {
		return env
	}
	switch spec := tn.Specifier.(type) {
	case *cnode.TypeDefTypeSpecifier:
		b.addTypeUse(env, spec.Name)
		return env
	case *cnode.StructOrUnionSpecifier:
		return b.declareStructInline(env, spec)
	case *cnode.EnumSpecifier:
		return b.declareEnumInline(env, spec)
	default:
		return env
	}
}

func (b *Builder) declareStructInline(env *nameenv.Env, spec *cnode.StructOrUnionSpecifier) *nameenv.Env {
	if spec.Fields == nil {
		return env
	}
	cur := env.DeclareStruct(spec.Tag, spec.IsUnion)
	for _, fc := range spec.Fields {
		for _, sd := range cnode.Leaves(fc) {
			for _, dc := range sd.Declarators {
				for _, d := range cnode.Leaves(dc) {
					if d.Name == nil {
						continue
					}
					binding := b.addDef(d.Name, nameenv.KindField, d)
					cur = cur.DefineField(spec.Tag, spec.IsUnion, d.Name.Name, cnode.One(binding))
				}
			}
		}
	}
	return cur
}

func (b *Builder) declareEnumInline(env *nameenv.Env, spec *cnode.EnumSpecifier) *nameenv.Env {
	if spec.Enumerators == nil {
		return env
	}
	cur := env
	for _, ec := range spec.Enumerators {
		for _, e := range cnode.Leaves(ec) {
			if e.Name == nil {
				continue
			}
			if e.Value != nil {
				b.walkExprUses(cur, e.Value, nil)
			}
			binding := b.addDef(e.Name, nameenv.KindEnumerator, e)
			cur = cur.DefineVar(e.Name.Name, cnode.One(binding))
		}
	}
	return cur
}

// structTagOf extracts the struct/union tag a TypeName statically names, used only for
// BuiltinOffsetof (spec.md §4.3.1), where the owning type is always given explicitly.
func structTagOf(typ cnode.Node) (tag string, isUnion bool, ok bool) {
	tn, isTn := typ.(*cnode.TypeName)
	if !isTn || tn.Specifier == nil {
		return "", false, false
	}
	su, isSu := tn.Specifier.(*cnode.StructOrUnionSpecifier)
	if !isSu {
		return "", false, false
	}
	return su.Tag, su.IsUnion, true
}
