package cnode

// This file defines the statement-shaped variants of spec.md §6, the vocabulary the V-CFG Engine
// dispatches on (spec.md §4.2.3).

// CompoundStatement is a brace-delimited statement list (`{ ... }`), the list container that
// variability-aware sibling resolution (spec.md §4.2.5) groups into IfdefBlocks.
type CompoundStatement struct {
	base
	Items []Conditional[Node]
}

// NewCompoundStatement constructs a CompoundStatement.
func NewCompoundStatement(items ...Conditional[Node]) *CompoundStatement {
	return &CompoundStatement{base: newBase(), Items: items}
}

// IfStatement is `if (cond) then [elif...] [else]`.
type IfStatement struct {
	base
	Cond  Node
	Then  Node
	Elifs []*ElifStatement
	Else  Node // optional
}

// NewIfStatement constructs an IfStatement.
func NewIfStatement(cond, then Node, elifs []*ElifStatement, els Node) *IfStatement {
	return &IfStatement{base: newBase(), Cond: cond, Then: then, Elifs: elifs, Else: els}
}

// ElifStatement is one `else if (cond) then` arm of an IfStatement.
type ElifStatement struct {
	base
	Cond Node
	Then Node
}

// NewElifStatement constructs an ElifStatement.
func NewElifStatement(cond, then Node) *ElifStatement {
	return &ElifStatement{base: newBase(), Cond: cond, Then: then}
}

// SwitchStatement is `switch (expr) body`.
type SwitchStatement struct {
	base
	Expr Node
	Body Node
}

// NewSwitchStatement constructs a SwitchStatement.
func NewSwitchStatement(expr, body Node) *SwitchStatement {
	return &SwitchStatement{base: newBase(), Expr: expr, Body: body}
}

// CaseStatement is `case expr: body`; Body is nil for a fallthrough-only case label.
type CaseStatement struct {
	base
	Expr Node
	Body Node // optional
}

// NewCaseStatement constructs a CaseStatement.
func NewCaseStatement(expr, body Node) *CaseStatement {
	return &CaseStatement{base: newBase(), Expr: expr, Body: body}
}

// DefaultStatement is `default: body`; Body is nil for a fallthrough-only default label.
type DefaultStatement struct {
	base
	Body Node // optional
}

// NewDefaultStatement constructs a DefaultStatement.
func NewDefaultStatement(body Node) *DefaultStatement {
	return &DefaultStatement{base: newBase(), Body: body}
}

// WhileStatement is `while (cond) body`.
type WhileStatement struct {
	base
	Cond Node
	Body Node
}

// NewWhileStatement constructs a WhileStatement.
func NewWhileStatement(cond, body Node) *WhileStatement {
	return &WhileStatement{base: newBase(), Cond: cond, Body: body}
}

// DoStatement is `do body while (cond);`.
type DoStatement struct {
	base
	Cond Node
	Body Node
}

// NewDoStatement constructs a DoStatement.
func NewDoStatement(body, cond Node) *DoStatement {
	return &DoStatement{base: newBase(), Cond: cond, Body: body}
}

// ForStatement is `for (init; cond; inc) body`, with each clause optional.
type ForStatement struct {
	base
	Init Node // optional
	Cond Node // optional
	Inc  Node // optional
	Body Node
}

// NewForStatement constructs a ForStatement.
func NewForStatement(init, cond, inc, body Node) *ForStatement {
	return &ForStatement{base: newBase(), Init: init, Cond: cond, Inc: inc, Body: body}
}

// BreakStatement is `break;`.
type BreakStatement struct{ base }

// NewBreakStatement constructs a BreakStatement.
func NewBreakStatement() *BreakStatement { return &BreakStatement{base: newBase()} }

// ContinueStatement is `continue;`.
type ContinueStatement struct{ base }

// NewContinueStatement constructs a ContinueStatement.
func NewContinueStatement() *ContinueStatement { return &ContinueStatement{base: newBase()} }

// ReturnStatement is `return [expr];`.
type ReturnStatement struct {
	base
	Expr Node // optional
}

// NewReturnStatement constructs a ReturnStatement.
func NewReturnStatement(expr Node) *ReturnStatement {
	return &ReturnStatement{base: newBase(), Expr: expr}
}

// GotoStatement is `goto label;` or a computed goto `goto *expr;` (Computed non-nil, typically a
// *PointerDerefExpr).
type GotoStatement struct {
	base
	Label    string
	Computed Node // optional
}

// NewGotoStatement constructs a GotoStatement.
func NewGotoStatement(label string, computed Node) *GotoStatement {
	return &GotoStatement{base: newBase(), Label: label, Computed: computed}
}

// IsComputed reports whether this is a computed goto (`goto *expr;`).
func (g *GotoStatement) IsComputed() bool { return g.Computed != nil }

// LabelStatement is `name: stmt`.
type LabelStatement struct {
	base
	Name string
	Stmt Node
}

// NewLabelStatement constructs a LabelStatement.
func NewLabelStatement(name string, stmt Node) *LabelStatement {
	return &LabelStatement{base: newBase(), Name: name, Stmt: stmt}
}

// ExprStatement is a bare expression used as a statement, e.g. `x = 1;`.
type ExprStatement struct {
	base
	Expr Node
}

// NewExprStatement constructs an ExprStatement.
func NewExprStatement(expr Node) *ExprStatement {
	return &ExprStatement{base: newBase(), Expr: expr}
}

// FunctionDef is a function definition. Per spec.md §4.2.2, it acts as both the entry and the
// exit sentinel of its own control-flow graph.
type FunctionDef struct {
	base
	Name   *Id
	Params []Conditional[Node]
	Body   Node // typically *CompoundStatement
}

// NewFunctionDef constructs a FunctionDef.
func NewFunctionDef(name *Id, params []Conditional[Node], body Node) *FunctionDef {
	return &FunctionDef{base: newBase(), Name: name, Params: params, Body: body}
}
