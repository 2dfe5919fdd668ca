package cnode

// This file defines the expression-shaped variants of spec.md §6, the vocabulary addUse walks
// compositionally (spec.md §4.3.1).

// Id is an identifier occurrence: a name string with its own stable identity. Two Id nodes
// carrying the same name are distinct entities (spec.md §3 "Identifier (Id)").
type Id struct {
	base
	Name string
}

// NewId constructs an Id occurrence.
func NewId(name string) *Id { return &Id{base: newBase(), Name: name} }

// Constant is a numeric or character literal; it contributes no uses (spec.md §4.3.1).
type Constant struct {
	base
	Text string
}

// NewConstant constructs a Constant.
func NewConstant(text string) *Constant { return &Constant{base: newBase(), Text: text} }

// StringLit is a string literal; it contributes no uses.
type StringLit struct {
	base
	Text string
}

// NewStringLit constructs a StringLit.
func NewStringLit(text string) *StringLit { return &StringLit{base: newBase(), Text: text} }

// PostfixExpr is a primary expression followed by a chain of postfix suffixes, e.g. `a.b->c[i]`.
type PostfixExpr struct {
	base
	Base     Node
	Suffixes []Node // *PointerPostfixSuffix, *SimplePostfixSuffix
}

// NewPostfixExpr constructs a PostfixExpr.
func NewPostfixExpr(baseExpr Node, suffixes ...Node) *PostfixExpr {
	return &PostfixExpr{base: newBase(), Base: baseExpr, Suffixes: suffixes}
}

// PointerPostfixSuffix is a `->field` member-access suffix.
type PointerPostfixSuffix struct {
	base
	Field *Id
}

// NewPointerPostfixSuffix constructs a PointerPostfixSuffix.
func NewPointerPostfixSuffix(field *Id) *PointerPostfixSuffix {
	return &PointerPostfixSuffix{base: newBase(), Field: field}
}

// SimplePostfixSuffix is a `.field`, `[index]`, `++`/`--`, or bare-no-op postfix suffix. Field and
// Index are mutually exclusive; both nil means a plain `++`/`--` suffix that contributes no use
// (spec.md §4.3.1 "simple postfix suffixes contribute no uses" for the increment/decrement case).
type SimplePostfixSuffix struct {
	base
	Field *Id  // optional: `.field`
	Index Node // optional: `[index]`
}

// NewSimplePostfixSuffix constructs a SimplePostfixSuffix.
func NewSimplePostfixSuffix(field *Id, index Node) *SimplePostfixSuffix {
	return &SimplePostfixSuffix{base: newBase(), Field: field, Index: index}
}

// FunctionCall is `fun(args...)`.
type FunctionCall struct {
	base
	Fun  Node
	Args []Node
}

// NewFunctionCall constructs a FunctionCall.
func NewFunctionCall(fun Node, args ...Node) *FunctionCall {
	return &FunctionCall{base: newBase(), Fun: fun, Args: args}
}

// AssignExpr is `target op= value`, e.g. `x = 1` or `x += 1`.
type AssignExpr struct {
	base
	Target Node
	Op     string
	Value  Node
}

// NewAssignExpr constructs an AssignExpr.
func NewAssignExpr(target Node, op string, value Node) *AssignExpr {
	return &AssignExpr{base: newBase(), Target: target, Op: op, Value: value}
}

// UnaryOpExpr is a prefix unary operator applied to an expression, e.g. `-x`, `!x`, `++x`,
// `&x`, `*x`.
type UnaryOpExpr struct {
	base
	Op   string
	Expr Node
}

// NewUnaryOpExpr constructs a UnaryOpExpr.
func NewUnaryOpExpr(op string, expr Node) *UnaryOpExpr {
	return &UnaryOpExpr{base: newBase(), Op: op, Expr: expr}
}

// NAryExpr is a left-associative chain of binary operators sharing precedence, e.g. `a + b + c`,
// represented as a first operand plus a list of (operator, operand) sub-expressions.
type NAryExpr struct {
	base
	First Node
	Rest  []*NArySubExpr
}

// NewNAryExpr constructs an NAryExpr.
func NewNAryExpr(first Node, rest ...*NArySubExpr) *NAryExpr {
	return &NAryExpr{base: newBase(), First: first, Rest: rest}
}

// NArySubExpr is one (operator, operand) link of an NAryExpr chain.
type NArySubExpr struct {
	base
	Op   string
	Expr Node
}

// NewNArySubExpr constructs an NArySubExpr.
func NewNArySubExpr(op string, expr Node) *NArySubExpr {
	return &NArySubExpr{base: newBase(), Op: op, Expr: expr}
}

// CastExpr is `(type)expr`.
type CastExpr struct {
	base
	Type Node
	Expr Node
}

// NewCastExpr constructs a CastExpr.
func NewCastExpr(typ, expr Node) *CastExpr {
	return &CastExpr{base: newBase(), Type: typ, Expr: expr}
}

// ConditionalExpr is the ternary `cond ? then : els` (Then may be nil for the GNU `cond ?: els`
// shorthand, which re-uses cond's value when it is truthy).
type ConditionalExpr struct {
	base
	Cond Node
	Then Node // optional
	Else Node
}

// NewConditionalExpr constructs a ConditionalExpr.
func NewConditionalExpr(cond, then, els Node) *ConditionalExpr {
	return &ConditionalExpr{base: newBase(), Cond: cond, Then: then, Else: els}
}

// PointerDerefExpr is `*expr`, also used as the target of a computed goto.
type PointerDerefExpr struct {
	base
	Expr Node
}

// NewPointerDerefExpr constructs a PointerDerefExpr.
func NewPointerDerefExpr(expr Node) *PointerDerefExpr {
	return &PointerDerefExpr{base: newBase(), Expr: expr}
}

// SizeOfExprT is `sizeof(type)`, which contributes a type use but no value use.
type SizeOfExprT struct {
	base
	Type Node
}

// NewSizeOfExprT constructs a SizeOfExprT.
func NewSizeOfExprT(typ Node) *SizeOfExprT { return &SizeOfExprT{base: newBase(), Type: typ} }

// BuiltinOffsetof is `__builtin_offsetof(type, designator)`.
type BuiltinOffsetof struct {
	base
	Type       Node
	Designator Node
}

// NewBuiltinOffsetof constructs a BuiltinOffsetof.
func NewBuiltinOffsetof(typ, designator Node) *BuiltinOffsetof {
	return &BuiltinOffsetof{base: newBase(), Type: typ, Designator: designator}
}

// OffsetofMemberDesignatorID is one `.field` component of an offsetof member designator, and is a
// struct-use site resolved via addStructUse (spec.md §4.3.1).
type OffsetofMemberDesignatorID struct {
	base
	Field *Id
}

// NewOffsetofMemberDesignatorID constructs an OffsetofMemberDesignatorID.
func NewOffsetofMemberDesignatorID(field *Id) *OffsetofMemberDesignatorID {
	return &OffsetofMemberDesignatorID{base: newBase(), Field: field}
}

// CompoundStatementExpr is the GNU statement expression `({ ... })`.
type CompoundStatementExpr struct {
	base
	Stmt *CompoundStatement
}

// NewCompoundStatementExpr constructs a CompoundStatementExpr.
func NewCompoundStatementExpr(stmt *CompoundStatement) *CompoundStatementExpr {
	return &CompoundStatementExpr{base: newBase(), Stmt: stmt}
}
