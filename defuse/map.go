// Package defuse implements the Def-Use Builder (spec.md §4.3): it walks a translation unit's
// function bodies, threads a persistent nameenv.Env through each scope, and records which
// identifier occurrences use which defining occurrence in a Map.
package defuse

import (
	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/util/orderedmap"
)

// Map is the Def-Use Map of spec.md §3: an identity-keyed, insertion-ordered association from a
// defining *cnode.Id to the ordered list of *cnode.Id occurrences that use it. Duplicate entries
// in a use list are permitted (resolving spec.md §8/§9's "Duplicate use entries" Open Question in
// favor of allowing them, gated by config.AllowDuplicateUses).
type Map struct {
	entries *orderedmap.OrderedMap[cnode.ID, *defEntry]
	// owner maps a use occurrence's identity to the defining key it is currently listed under, so
	// Def/Use can detect when a name about to become a fresh key is actually already a use of some
	// other key -- the orphan-use repair path of spec.md §4.3.3.
	owner *orderedmap.OrderedMap[cnode.ID, cnode.ID]
}

type defEntry struct {
	def  *cnode.Id
	uses []*cnode.Id
}

// NewMap constructs an empty Map.
func NewMap() *Map {
	return &Map{
		entries: orderedmap.New[cnode.ID, *defEntry](),
		owner:   orderedmap.New[cnode.ID, cnode.ID](),
	}
}

// Def registers id as a definition with no uses yet, if it is not already registered as a key.
// Per spec.md §4.3.3's orphan-use repair path, if id already appears as a use value under some
// other key k, id is NOT promoted to a fresh key -- Def is a no-op, leaving id's existing
// ownership by k intact. Calling Def on an already-registered id is also a no-op, so addDef and
// the orphan-use recovery path in addUse can both call it freely.
func (m *Map) Def(id *cnode.Id) {
	if id == nil {
		return
	}
	if _, ok := m.entries.Load(id.Identity()); ok {
		return
	}
	if _, ok := m.owner.Load(id.Identity()); ok {
		return
	}
	m.entries.Store(id.Identity(), &defEntry{def: id})
}

// Use records that use is a use of defID. If defID is not itself a registered key but already
// appears as an existing use value (i.e. it is itself owned by some other key k), the repair path
// of spec.md §4.3.3 redirects: use is appended to k's list instead of defID's, since defID was
// never a real definition site, just an intermediate link in a chain resolved late. Otherwise
// defID is registered as a definition first if it is not already known. If allowDuplicates is
// false, use is skipped when an occurrence with the same identity is already recorded under the
// resolved key.
func (m *Map) Use(defID *cnode.Id, use *cnode.Id, allowDuplicates bool) {
	if defID == nil || use == nil {
		return
	}
	key := defID.Identity()
	if _, isKey := m.entries.Load(key); !isKey {
		if ownerKey, ok := m.owner.Load(key); ok {
			key = ownerKey
		}
	}
	m.Def(defID)
	if _, ok := m.entries.Load(key); !ok {
		key = defID.Identity()
	}
	e, _ := m.entries.Load(key)
	if !allowDuplicates {
		for _, u := range e.uses {
			if u.Identity() == use.Identity() {
				return
			}
		}
	}
	e.uses = append(e.uses, use)
	if _, isKey := m.entries.Load(use.Identity()); !isKey {
		m.owner.Store(use.Identity(), key)
	}
}

// Uses returns the ordered use list recorded for defID, or nil if defID is not registered.
func (m *Map) Uses(defID *cnode.Id) []*cnode.Id {
	e, ok := m.entries.Load(defID.Identity())
	if !ok {
		return nil
	}
	return e.uses
}

// Defs returns every registered defining *cnode.Id, in the order each was first registered.
func (m *Map) Defs() []*cnode.Id {
	ids := m.entries.Keys()
	out := make([]*cnode.Id, 0, len(ids))
	for _, id := range ids {
		e, _ := m.entries.Load(id)
		out = append(out, e.def)
	}
	return out
}

// Len returns the number of registered definitions.
func (m *Map) Len() int { return m.entries.Len() }
