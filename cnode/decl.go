package cnode

// This file defines the declaration-shaped variants of spec.md §6. Each constructor mints a
// fresh identity; fields are exported so the Def-Use Builder and Name Environment can pattern
// match and recurse without an extra accessor layer, matching the teacher's habit of exposing AST
// fields directly for walkers (e.g. RootAssertionNode's use of *ast.FuncDecl fields).

// Declaration is a top-level or block-scope declaration: a set of declarators sharing specifiers
// (e.g. `int x, *y;`). IsTypedef distinguishes a `typedef` declaration, whose declarators bind
// into the typedef namespace (spec.md §4.1 "declaration (typedef)"), from an ordinary variable
// declaration, whose declarators bind into the variable namespace.
type Declaration struct {
	base
	Declarators []Conditional[Node]
	IsTypedef   bool
}

// NewDeclaration constructs an ordinary (non-typedef) Declaration over declarators.
func NewDeclaration(declarators ...Conditional[Node]) *Declaration {
	return &Declaration{base: newBase(), Declarators: declarators}
}

// NewTypedefDeclaration constructs a `typedef` Declaration: each declarator's Id binds a new name
// in the typedef namespace rather than the variable namespace.
func NewTypedefDeclaration(declarators ...Conditional[Node]) *Declaration {
	return &Declaration{base: newBase(), Declarators: declarators, IsTypedef: true}
}

// DeclarationStatement wraps a Declaration so it can appear in a statement list.
type DeclarationStatement struct {
	base
	Decl *Declaration
}

// NewDeclarationStatement constructs a DeclarationStatement.
func NewDeclarationStatement(decl *Declaration) *DeclarationStatement {
	return &DeclarationStatement{base: newBase(), Decl: decl}
}

// InitDeclarator is a declarator together with an optional initializer; it is the binding site
// for ordinary variable declarations (spec.md §4.1 "init-declarator (variable)").
type InitDeclarator struct {
	base
	Declarator Node // *AtomicNamedDeclarator or *NestedNamedDeclarator
	Init       Node // optional; nil when there is no initializer
}

// NewInitDeclarator constructs an InitDeclarator.
func NewInitDeclarator(declarator Node, init Node) *InitDeclarator {
	return &InitDeclarator{base: newBase(), Declarator: declarator, Init: init}
}

// Id returns the identifier being declared, looking through NestedNamedDeclarator/DeclArrayAccess
// layers.
func (d *InitDeclarator) Id() *Id {
	return declaratorId(d.Declarator)
}

// AtomicNamedDeclarator is a bare declarator: a name, optionally pointer-qualified. It is the
// binding site for parameters and simple nested variables (spec.md §4.1
// "atomic-named-declarator (parameter or nested var)").
type AtomicNamedDeclarator struct {
	base
	Name    *Id
	Pointer *Pointer // optional
}

// NewAtomicNamedDeclarator constructs an AtomicNamedDeclarator.
func NewAtomicNamedDeclarator(name *Id, pointer *Pointer) *AtomicNamedDeclarator {
	return &AtomicNamedDeclarator{base: newBase(), Name: name, Pointer: pointer}
}

// NestedNamedDeclarator wraps another declarator, e.g. `(*f)(int)` or an array suffix chain.
type NestedNamedDeclarator struct {
	base
	Inner   Node // *AtomicNamedDeclarator, *NestedNamedDeclarator, or *DeclArrayAccess
	Pointer *Pointer // optional
}

// NewNestedNamedDeclarator constructs a NestedNamedDeclarator.
func NewNestedNamedDeclarator(inner Node, pointer *Pointer) *NestedNamedDeclarator {
	return &NestedNamedDeclarator{base: newBase(), Inner: inner, Pointer: pointer}
}

// Pointer is a pointer qualifier on a declarator; it carries no name of its own.
type Pointer struct{ base }

// NewPointer constructs a Pointer.
func NewPointer() *Pointer { return &Pointer{base: newBase()} }

// DeclParameterDeclList is the parenthesized parameter list of a function declarator.
type DeclParameterDeclList struct {
	base
	Params []Conditional[Node]
}

// NewDeclParameterDeclList constructs a DeclParameterDeclList.
func NewDeclParameterDeclList(params ...Conditional[Node]) *DeclParameterDeclList {
	return &DeclParameterDeclList{base: newBase(), Params: params}
}

// ParameterDeclarationD is a named parameter declaration (has a declarator to bind).
type ParameterDeclarationD struct {
	base
	Declarator Node
}

// NewParameterDeclarationD constructs a ParameterDeclarationD.
func NewParameterDeclarationD(declarator Node) *ParameterDeclarationD {
	return &ParameterDeclarationD{base: newBase(), Declarator: declarator}
}

// Id returns the bound parameter identifier.
func (p *ParameterDeclarationD) Id() *Id { return declaratorId(p.Declarator) }

// ParameterDeclarationAD is an abstract-declarator parameter (e.g. `int *` with no name); it
// binds nothing.
type ParameterDeclarationAD struct {
	base
	Declarator Node // abstract declarator, no Id
}

// NewParameterDeclarationAD constructs a ParameterDeclarationAD.
func NewParameterDeclarationAD(declarator Node) *ParameterDeclarationAD {
	return &ParameterDeclarationAD{base: newBase(), Declarator: declarator}
}

// PlainParameterDeclaration is a parameter that is just a type specifier, e.g. `f(int)`.
type PlainParameterDeclaration struct{ base }

// NewPlainParameterDeclaration constructs a PlainParameterDeclaration.
func NewPlainParameterDeclaration() *PlainParameterDeclaration {
	return &PlainParameterDeclaration{base: newBase()}
}

// DeclArrayAccess is an array-suffix on a declarator, e.g. the `[10]` in `int a[10];`.
type DeclArrayAccess struct {
	base
	Inner Node
	Size  Node // optional
}

// NewDeclArrayAccess constructs a DeclArrayAccess.
func NewDeclArrayAccess(inner Node, size Node) *DeclArrayAccess {
	return &DeclArrayAccess{base: newBase(), Inner: inner, Size: size}
}

// TypeName is a bare type reference, as used in `sizeof(T)` or a cast `(T)e`.
type TypeName struct {
	base
	Specifier Node // optional: *TypeDefTypeSpecifier, *StructOrUnionSpecifier, *EnumSpecifier, or nil for builtin types
}

// NewTypeName constructs a TypeName.
func NewTypeName(specifier Node) *TypeName {
	return &TypeName{base: newBase(), Specifier: specifier}
}

// TypeDefTypeSpecifier references a typedef name; it is a *use* resolved through the typedef
// namespace (spec.md §4.3.1 addTypeUse).
type TypeDefTypeSpecifier struct {
	base
	Name *Id
}

// NewTypeDefTypeSpecifier constructs a TypeDefTypeSpecifier.
func NewTypeDefTypeSpecifier(name *Id) *TypeDefTypeSpecifier {
	return &TypeDefTypeSpecifier{base: newBase(), Name: name}
}

// StructOrUnionSpecifier is a struct/union type: either a definition (Fields non-nil) or a bare
// tag reference (Fields nil), distinguishing IsUnion.
type StructOrUnionSpecifier struct {
	base
	Tag     string
	IsUnion bool
	Fields  []Conditional[*StructDeclaration] // nil for a bare tag reference
}

// NewStructOrUnionSpecifier constructs a StructOrUnionSpecifier.
func NewStructOrUnionSpecifier(tag string, isUnion bool, fields []Conditional[*StructDeclaration]) *StructOrUnionSpecifier {
	return &StructOrUnionSpecifier{base: newBase(), Tag: tag, IsUnion: isUnion, Fields: fields}
}

// StructDeclaration declares one or more fields sharing a type, analogous to Declaration inside a
// struct/union body.
type StructDeclaration struct {
	base
	Declarators []Conditional[*StructDeclarator]
}

// NewStructDeclaration constructs a StructDeclaration.
func NewStructDeclaration(declarators ...Conditional[*StructDeclarator]) *StructDeclaration {
	return &StructDeclaration{base: newBase(), Declarators: declarators}
}

// StructDeclarator binds one field name.
type StructDeclarator struct {
	base
	Name *Id
}

// NewStructDeclarator constructs a StructDeclarator.
func NewStructDeclarator(name *Id) *StructDeclarator {
	return &StructDeclarator{base: newBase(), Name: name}
}

// EnumSpecifier is an enum type: either a definition (Enumerators non-nil) or a bare tag
// reference.
type EnumSpecifier struct {
	base
	Tag         string
	Enumerators []Conditional[*Enumerator]
}

// NewEnumSpecifier constructs an EnumSpecifier.
func NewEnumSpecifier(tag string, enumerators []Conditional[*Enumerator]) *EnumSpecifier {
	return &EnumSpecifier{base: newBase(), Tag: tag, Enumerators: enumerators}
}

// Enumerator binds one enumerator constant, with an optional explicit value expression.
type Enumerator struct {
	base
	Name  *Id
	Value Node // optional
}

// NewEnumerator constructs an Enumerator.
func NewEnumerator(name *Id, value Node) *Enumerator {
	return &Enumerator{base: newBase(), Name: name, Value: value}
}

// declaratorId walks through NestedNamedDeclarator/DeclArrayAccess wrapper layers to find the
// named identifier at the core of a declarator chain.
func declaratorId(n Node) *Id {
	switch d := n.(type) {
	case *AtomicNamedDeclarator:
		return d.Name
	case *NestedNamedDeclarator:
		return declaratorId(d.Inner)
	case *DeclArrayAccess:
		return declaratorId(d.Inner)
	default:
		return nil
	}
}
