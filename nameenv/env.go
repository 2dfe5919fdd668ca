// Package nameenv implements the Name Environment (spec.md §3 "Name Environment", §4.1): a
// persistent scope stack mapping names to conditional bindings for variables, typedefs,
// struct/union fields, enumerators, and labels.
//
// Env is immutable once constructed. "Pushing a scope" and "defining a name" both return a new
// Env value that shares unmodified structure with its parent, so an Env captured before entering
// a nested block remains valid and unaffected after the Def-Use Builder leaves that block --
// scope exit is simply reverting to the previously-held Env value. This is the same entry/exit
// discipline spec.md §5 describes for the session's caches, applied to the read side.
package nameenv

import "github.com/typechef-go/vcfgcore/cnode"

// BindingKind identifies which of the shapes spec.md §4.1 lists produced a Binding.
type BindingKind int

const (
	// KindInitDeclarator is a variable declarator, with or without an initializer.
	KindInitDeclarator BindingKind = iota
	// KindAtomicNamedDeclarator is a parameter or nested variable declarator.
	KindAtomicNamedDeclarator
	// KindFunctionDef is a function definition.
	KindFunctionDef
	// KindEnumerator is an enum constant.
	KindEnumerator
	// KindTypedef is a typedef target.
	KindTypedef
	// KindField is a struct/union field.
	KindField
	// KindLabel is a goto label. Its Binding carries no DefID (labels are not Id nodes), only Node.
	KindLabel
)

func (k BindingKind) String() string {
	switch k {
	case KindInitDeclarator:
		return "init-declarator"
	case KindAtomicNamedDeclarator:
		return "atomic-named-declarator"
	case KindFunctionDef:
		return "function-definition"
	case KindEnumerator:
		return "enumerator"
	case KindTypedef:
		return "typedef"
	case KindField:
		return "field"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Binding is what a name resolves to: the kind of declaration, the defining identifier occurrence
// (the Def-Use map key once registered), and the node that introduced it.
type Binding struct {
	Kind  BindingKind
	DefID *cnode.Id
	Node  cnode.Node
}

type bindingEntry struct {
	name  string
	value cnode.Conditional[Binding]
	next  *bindingEntry
}

type structFrame struct {
	tag     string
	isUnion bool
	fields  *bindingEntry
	next    *structFrame
}

// Env is a persistent name environment. The zero value is a valid, empty environment.
type Env struct {
	vars     *bindingEntry
	typedefs *bindingEntry
	structs  *structFrame
}

// Empty returns a fresh, empty Env.
func Empty() *Env { return &Env{} }

// DefineVar returns a new Env with name bound to value in the variable/function/enumerator/label
// namespace, shadowing (not replacing) any prior binding of the same name.
func (e *Env) DefineVar(name string, value cnode.Conditional[Binding]) *Env {
	return &Env{vars: &bindingEntry{name: name, value: value, next: e.vars}, typedefs: e.typedefs, structs: e.structs}
}

// DefineTypedef returns a new Env with name bound in the typedef namespace.
func (e *Env) DefineTypedef(name string, value cnode.Conditional[Binding]) *Env {
	return &Env{vars: e.vars, typedefs: &bindingEntry{name: name, value: value, next: e.typedefs}, structs: e.structs}
}

// DeclareStruct returns a new Env in which (tag, isUnion) is known, with no fields yet. It is a
// no-op if the struct is already known with no fields added since. Calling this before the fields
// are known supports forward references to a struct tag that hasn't finished parsing yet.
func (e *Env) DeclareStruct(tag string, isUnion bool) *Env {
	return &Env{vars: e.vars, typedefs: e.typedefs, structs: &structFrame{tag: tag, isUnion: isUnion, next: e.structs}}
}

// DefineField returns a new Env with name bound in the field namespace of (tag, isUnion). The
// struct must already be known via DeclareStruct (directly or through a prior DefineField for the
// same tag).
func (e *Env) DefineField(tag string, isUnion bool, name string, value cnode.Conditional[Binding]) *Env {
	existing := lookupStructFrame(e.structs, tag, isUnion)
	var fields *bindingEntry
	if existing != nil {
		fields = existing.fields
	}
	frame := &structFrame{
		tag:     tag,
		isUnion: isUnion,
		fields:  &bindingEntry{name: name, value: value, next: fields},
		next:    e.structs,
	}
	return &Env{vars: e.vars, typedefs: e.typedefs, structs: frame}
}

// LookupVar resolves name in the variable/function/enumerator/label namespace.
func (e *Env) LookupVar(name string) (cnode.Conditional[Binding], bool) {
	return lookupChain(e.vars, name)
}

// LookupTypedef resolves name in the typedef namespace.
func (e *Env) LookupTypedef(name string) (cnode.Conditional[Binding], bool) {
	return lookupChain(e.typedefs, name)
}

// HasStruct reports whether (tag, isUnion) has been declared.
func (e *Env) HasStruct(tag string, isUnion bool) bool {
	return lookupStructFrame(e.structs, tag, isUnion) != nil
}

// LookupField resolves name in the field namespace of (tag, isUnion). It requires that the struct
// is known (spec.md §4.1 "requires that structTag is known to the struct environment").
func (e *Env) LookupField(tag string, isUnion bool, name string) (cnode.Conditional[Binding], bool) {
	frame := lookupStructFrame(e.structs, tag, isUnion)
	if frame == nil {
		return cnode.Conditional[Binding]{}, false
	}
	return lookupChain(frame.fields, name)
}

func lookupChain(head *bindingEntry, name string) (cnode.Conditional[Binding], bool) {
	for b := head; b != nil; b = b.next {
		if b.name == name {
			return b.value, true
		}
	}
	return cnode.Conditional[Binding]{}, false
}

func lookupStructFrame(head *structFrame, tag string, isUnion bool) *structFrame {
	for f := head; f != nil; f = f.next {
		if f.tag == tag && f.isUnion == isUnion {
			return f
		}
	}
	return nil
}
