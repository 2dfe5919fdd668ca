// Package session ties the V-CFG Engine and the Def-Use Builder together over one translation
// unit (spec.md §5 "Session/Workspace composition"): one AST Environment Service, one Feature
// Oracle, one vcfg.Engine, and one defuse.Map, all scoped to a single parse of a single file.
package session

import (
	"github.com/typechef-go/vcfgcore/cnode"
	"github.com/typechef-go/vcfgcore/config"
	"github.com/typechef-go/vcfgcore/defuse"
	"github.com/typechef-go/vcfgcore/diagnostic"
	"github.com/typechef-go/vcfgcore/envsvc"
	"github.com/typechef-go/vcfgcore/oracle"
	"github.com/typechef-go/vcfgcore/vcfg"
)

// Session is the per-translation-unit facade: construct one per parsed file, call BuildDefUse
// once with its top-level declarations, then query Succ/Pred/Uses freely. A Session is not safe
// for concurrent use -- its caches and Def-Use Map are plain maps with no locking, matching
// spec.md §9 "Concurrency... the core itself holds no locks, assumes single-threaded use per
// Session" (mirroring the teacher's own RootAssertionNode, which is likewise built and read by one
// goroutine per package).
type Session struct {
	svc  envsvc.Service
	o    oracle.Oracle
	cfg  config.Config
	diag *diagnostic.Engine

	engine  *vcfg.Engine
	defuse  *defuse.Map
	builder *defuse.Builder
}

// New constructs a Session over svc and o for one translation unit, using cfg's tunables and
// reporting through diag.
func New(svc envsvc.Service, o oracle.Oracle, cfg config.Config, diag *diagnostic.Engine) *Session {
	m := defuse.NewMap()
	return &Session{
		svc:     svc,
		o:       o,
		cfg:     cfg,
		diag:    diag,
		engine:  vcfg.NewEngine(svc, o, cfg, diag),
		defuse:  m,
		builder: defuse.NewBuilder(o, cfg, diag, m),
	}
}

// BuildDefUse runs the Def-Use Builder over roots (a translation unit's top-level declarations and
// function definitions), recording every def/use pair into this Session's Map.
func (s *Session) BuildDefUse(roots []cnode.Node, taut oracle.Expr) {
	s.builder.BuildTranslationUnit(roots, taut)
}

// DefUse returns this Session's Def-Use Map.
func (s *Session) DefUse() *defuse.Map { return s.defuse }

// Succ returns n's control-flow successors (vcfg.Engine.Succ).
func (s *Session) Succ(n cnode.Node) []cnode.Node { return s.engine.Succ(n) }

// Pred returns n's control-flow predecessors (vcfg.Engine.Pred).
func (s *Session) Pred(n cnode.Node) []cnode.Node { return s.engine.Pred(n) }

// CheckConsistency verifies succ/pred symmetry over every node reachable from roots
// (vcfg.Engine.CompareSuccWithPred).
func (s *Session) CheckConsistency(roots []cnode.Node) error {
	return s.engine.CompareSuccWithPred(roots)
}

// Diagnostics returns every diagnostic collected so far by this Session's V-CFG Engine and
// Def-Use Builder.
func (s *Session) Diagnostics() []diagnostic.Diagnostic { return s.diag.Diagnostics() }
