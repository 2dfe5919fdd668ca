// Package cnode defines the minimum concrete representation of the variability-aware C AST that
// the core consumes (spec.md §6 "Consumed AST variants"). The real lexer, parser, preprocessor,
// and type checker are external collaborators outside this repository's scope; cnode exists only
// to give the V-CFG Engine, Def-Use Builder, and Name Environment something concrete to operate
// over, and to let this repository's own tests construct translation units.
package cnode

import "github.com/google/uuid"

// ID is a stable identity token for an AST node. All maps in this repository are keyed on ID, not
// on the node value itself, per spec.md §9 "Identity semantics": two structurally identical
// occurrences of the same syntax (e.g., two `x` identifiers) must never collide.
type ID uuid.UUID

// Node is implemented by every AST node variant cnode defines. Identity is the only operation the
// core requires uniformly across variants; everything else is accessed via type switches on the
// concrete type, matching the "tagged variant" data model of spec.md §3.
type Node interface {
	Identity() ID
}

// base is embedded by every concrete node type to supply a stable Identity(). It is not exported
// because external callers should construct nodes through each variant's constructor, which
// allocates a fresh identity.
type base struct {
	id ID
}

// Identity returns the node's stable identity token.
func (b base) Identity() ID { return b.id }

func newBase() base {
	return base{id: ID(uuid.New())}
}
