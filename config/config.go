// Package config hosts the core's tunables, mirroring the teacher's config package: a small set
// of development constants plus a user-facing Config loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultVCFGStableRoundLimit is the default number of fixed-point re-expansion rounds (spec.md §4.2.3) after
// which, if the successor/predecessor set is still changing, the V-CFG Engine stops and reports a
// structural precondition violation (spec.md §7) instead of looping forever. It is possible to
// craft pathological nestings of #ifdef'd compound/conditional pass-through nodes that need more
// rounds than this to settle; raising the limit trades analysis time for completeness the same
// way the teacher's StableRoundLimit does for backpropagation rounds.
const DefaultVCFGStableRoundLimit = 64

// Config carries the user-facing toggles for one analysis session.
type Config struct {
	// VCFGStableRoundLimit bounds the V-CFG fixed-point expansion loop (see
	// DefaultVCFGStableRoundLimit).
	VCFGStableRoundLimit int `yaml:"vcfgStableRoundLimit"`

	// AllowDuplicateUses controls whether the Def-Use Builder records a use more than once when
	// the same Id is reached via more than one traversal path (e.g. both arms of an NAryExpr
	// referencing the same pointer in a way that resolves to the same declarator twice). spec.md
	// §8/§9 leaves this as an explicitly undecided Open Question and tells implementations to
	// "decide and fix one choice" -- this repo defaults to allowing duplicates, since spec.md's
	// own Def-Use Map invariants (§3) say value lists may contain "duplicate entries."
	AllowDuplicateUses bool `yaml:"allowDuplicateUses"`

	// ReportUnresolvedNames controls whether an Id that resolves to no environment binding (and
	// is therefore registered as a synthetic self-definition, spec.md §7) also produces a
	// diagnostic.Diagnostic, or is silently recovered.
	ReportUnresolvedNames bool `yaml:"reportUnresolvedNames"`
}

// Default returns the default Config.
func Default() Config {
	return Config{
		VCFGStableRoundLimit:  DefaultVCFGStableRoundLimit,
		AllowDuplicateUses:    true,
		ReportUnresolvedNames: true,
	}
}

// Load reads a Config from a YAML file at path, filling in defaults for any zero-valued field
// that YAML left unset. Load returns the default Config unchanged if path is empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	// Decode into a separate struct with pointer fields so we can tell "absent from YAML" apart
	// from "explicitly set to the zero value."
	var overrides struct {
		VCFGStableRoundLimit  *int  `yaml:"vcfgStableRoundLimit"`
		AllowDuplicateUses    *bool `yaml:"allowDuplicateUses"`
		ReportUnresolvedNames *bool `yaml:"reportUnresolvedNames"`
	}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if overrides.VCFGStableRoundLimit != nil {
		cfg.VCFGStableRoundLimit = *overrides.VCFGStableRoundLimit
	}
	if overrides.AllowDuplicateUses != nil {
		cfg.AllowDuplicateUses = *overrides.AllowDuplicateUses
	}
	if overrides.ReportUnresolvedNames != nil {
		cfg.ReportUnresolvedNames = *overrides.ReportUnresolvedNames
	}
	return cfg, nil
}
