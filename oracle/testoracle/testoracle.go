// Package testoracle provides a small, exact Oracle implementation over string-keyed boolean
// feature symbols for use in tests and the cmd/vcfgtool fixture driver. It is not the production
// Feature Oracle (spec.md treats that as a black-box SAT backend); it is a reference
// implementation precise enough to exercise every operation the core calls.
package testoracle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/typechef-go/vcfgcore/oracle"
)

// Expr is a propositional formula over named boolean variables, represented as a small
// expression tree. It implements oracle.Expr.
type Expr interface {
	eval(assignment map[string]bool) bool
	vars(set map[string]struct{})
	fmt.Stringer
}

// Var references a single feature symbol.
type Var string

func (v Var) eval(a map[string]bool) bool        { return a[string(v)] }
func (v Var) vars(set map[string]struct{})       { set[string(v)] = struct{}{} }
func (v Var) String() string                     { return string(v) }

// True is the tautological formula.
var True Expr = boolConst(true)

// False is the contradictory formula.
var False Expr = boolConst(false)

type boolConst bool

func (b boolConst) eval(map[string]bool) bool  { return bool(b) }
func (b boolConst) vars(map[string]struct{})   {}
func (b boolConst) String() string {
	if b {
		return "true"
	}
	return "false"
}

type andExpr struct{ a, b Expr }

func (e andExpr) eval(asn map[string]bool) bool { return e.a.eval(asn) && e.b.eval(asn) }
func (e andExpr) vars(set map[string]struct{})  { e.a.vars(set); e.b.vars(set) }
func (e andExpr) String() string                { return fmt.Sprintf("(%s && %s)", e.a, e.b) }

type orExpr struct{ a, b Expr }

func (e orExpr) eval(asn map[string]bool) bool { return e.a.eval(asn) || e.b.eval(asn) }
func (e orExpr) vars(set map[string]struct{})  { e.a.vars(set); e.b.vars(set) }
func (e orExpr) String() string                { return fmt.Sprintf("(%s || %s)", e.a, e.b) }

type notExpr struct{ a Expr }

func (e notExpr) eval(asn map[string]bool) bool { return !e.a.eval(asn) }
func (e notExpr) vars(set map[string]struct{})  { e.a.vars(set) }
func (e notExpr) String() string                { return fmt.Sprintf("!%s", e.a) }

// Oracle is a brute-force truth-table decision procedure. It is exact but exponential in the
// number of distinct variables appearing in the two formulas being compared, which is fine for
// the small feature sets used in tests and fixtures.
type Oracle struct{}

// New constructs a testoracle.Oracle.
func New() *Oracle { return &Oracle{} }

var _ oracle.Oracle = (*Oracle)(nil)

func asExpr(e oracle.Expr) Expr {
	expr, ok := e.(Expr)
	if !ok {
		panic(fmt.Sprintf("testoracle: not a testoracle.Expr: %#v", e))
	}
	return expr
}

func allVars(exprs ...Expr) []string {
	set := map[string]struct{}{}
	for _, e := range exprs {
		e.vars(set)
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// forAllAssignments calls f with every total assignment of names to booleans, short-circuiting
// (returning false immediately) if f ever returns false.
func forAllAssignments(names []string, f func(map[string]bool) bool) bool {
	n := len(names)
	for mask := 0; mask < (1 << n); mask++ {
		asn := make(map[string]bool, n)
		for i, name := range names {
			asn[name] = mask&(1<<i) != 0
		}
		if !f(asn) {
			return false
		}
	}
	return true
}

// Implies reports whether a implies b over all assignments of their combined variables.
func (o *Oracle) Implies(a, b oracle.Expr) bool {
	ea, eb := asExpr(a), asExpr(b)
	names := allVars(ea, eb)
	return forAllAssignments(names, func(asn map[string]bool) bool {
		return !ea.eval(asn) || eb.eval(asn)
	})
}

// Equivalent reports whether a and b agree on every assignment of their combined variables.
func (o *Oracle) Equivalent(a, b oracle.Expr) bool {
	ea, eb := asExpr(a), asExpr(b)
	names := allVars(ea, eb)
	return forAllAssignments(names, func(asn map[string]bool) bool {
		return ea.eval(asn) == eb.eval(asn)
	})
}

// IsSatisfiable reports whether some assignment makes a true.
func (o *Oracle) IsSatisfiable(a oracle.Expr) bool {
	ea := asExpr(a)
	names := allVars(ea)
	sat := false
	forAllAssignments(names, func(asn map[string]bool) bool {
		if ea.eval(asn) {
			sat = true
			return false
		}
		return true
	})
	return sat
}

// IsTautology reports whether every assignment makes a true.
func (o *Oracle) IsTautology(a oracle.Expr) bool {
	ea := asExpr(a)
	names := allVars(ea)
	return forAllAssignments(names, func(asn map[string]bool) bool { return ea.eval(asn) })
}

// IsContradiction reports whether no assignment makes a true.
func (o *Oracle) IsContradiction(a oracle.Expr) bool {
	return !o.IsSatisfiable(a)
}

// And builds the conjunction of a and b.
func (o *Oracle) And(a, b oracle.Expr) oracle.Expr { return andExpr{asExpr(a), asExpr(b)} }

// Or builds the disjunction of a and b.
func (o *Oracle) Or(a, b oracle.Expr) oracle.Expr { return orExpr{asExpr(a), asExpr(b)} }

// Not builds the negation of a.
func (o *Oracle) Not(a oracle.Expr) oracle.Expr { return notExpr{asExpr(a)} }

// Parse parses a tiny infix grammar ("A && B || !C") into an Expr, for building fixtures tersely
// in tests. Supported operators: "!", "&&", "||", and parentheses; identifiers are feature
// symbols. Parse panics on malformed input -- it is a test helper, not a production parser.
func Parse(s string) Expr {
	p := &parser{toks: tokenize(s)}
	e := p.parseOr()
	if p.pos != len(p.toks) {
		panic(fmt.Sprintf("testoracle.Parse: trailing input in %q", s))
	}
	return e
}

func tokenize(s string) []string {
	var toks []string
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ':
			i++
		case c == '(' || c == ')' || c == '!':
			toks = append(toks, string(c))
			i++
		case strings.HasPrefix(s[i:], "&&"):
			toks = append(toks, "&&")
			i += 2
		case strings.HasPrefix(s[i:], "||"):
			toks = append(toks, "||")
			i += 2
		default:
			j := i
			for j < len(s) && s[j] != ' ' && s[j] != '(' && s[j] != ')' && s[j] != '!' &&
				!strings.HasPrefix(s[j:], "&&") && !strings.HasPrefix(s[j:], "||") {
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		}
	}
	return toks
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) parseOr() Expr {
	e := p.parseAnd()
	for p.peek() == "||" {
		p.next()
		e = orExpr{e, p.parseAnd()}
	}
	return e
}

func (p *parser) parseAnd() Expr {
	e := p.parseUnary()
	for p.peek() == "&&" {
		p.next()
		e = andExpr{e, p.parseUnary()}
	}
	return e
}

func (p *parser) parseUnary() Expr {
	if p.peek() == "!" {
		p.next()
		return notExpr{p.parseUnary()}
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() Expr {
	t := p.next()
	switch t {
	case "(":
		e := p.parseOr()
		if p.next() != ")" {
			panic("testoracle.Parse: expected ')'")
		}
		return e
	case "true":
		return True
	case "false":
		return False
	default:
		if t == "" {
			panic("testoracle.Parse: unexpected end of input")
		}
		return Var(t)
	}
}
