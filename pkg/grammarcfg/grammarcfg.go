// Package grammarcfg loads Grammar overrides from YAML documents, the
// generic-rule-name descendant of the teacher's fixed-table rules.go. A
// config file describes a partial Grammar (a list of named rules, each with
// one or more patterns) plus optional references, by registry id, to an
// Inside sub-grammar per pattern and a Rest grammar for the whole document.
package grammarcfg

import (
	"fmt"
	"os"
	"regexp"

	"github.com/kade-robertson/synlex/pkg/grammar"
	"gopkg.in/yaml.v3"
)

// PatternConfig is the YAML shape of one grammar.Pattern.
type PatternConfig struct {
	Regex      string   `yaml:"regex"`
	Lookbehind bool     `yaml:"lookbehind"`
	Greedy     bool     `yaml:"greedy"`
	Alias      []string `yaml:"alias"`
	// Inside names a grammar already present in the registry passed to
	// Build/ApplyOverrides. Left empty, the pattern has no Inside grammar.
	Inside string `yaml:"inside"`
}

// RuleConfig is the YAML shape of one grammar.Rule.
type RuleConfig struct {
	Name     string          `yaml:"name"`
	Patterns []PatternConfig `yaml:"patterns"`
}

// File is the YAML shape of a whole override document: an ordered rule list
// plus an optional rest-grammar reference, both resolved against a registry.
type File struct {
	Rules []RuleConfig `yaml:"rules"`
	Rest  string       `yaml:"rest"`
}

// LoadFile reads and parses filename as a File.
func LoadFile(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("grammarcfg: read %q: %w", filename, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("grammarcfg: parse %q: %w", filename, err)
	}
	return &f, nil
}

// Build compiles f into a standalone *grammar.Grammar. Any pattern or rest
// reference by name is resolved against reg, which may be nil if f contains
// no such references.
func Build(f *File, reg *grammar.Registry) (*grammar.Grammar, error) {
	g := grammar.New()
	for _, rc := range f.Rules {
		rule, err := buildRule(rc, reg)
		if err != nil {
			return nil, err
		}
		g.Set(rule)
	}
	if f.Rest != "" {
		rest, err := lookup(reg, f.Rest)
		if err != nil {
			return nil, fmt.Errorf("grammarcfg: rest: %w", err)
		}
		g.SetRest(rest)
	}
	return g, nil
}

func buildRule(rc RuleConfig, reg *grammar.Registry) (*grammar.Rule, error) {
	patterns := make([]*grammar.Pattern, 0, len(rc.Patterns))
	for i, pc := range rc.Patterns {
		re, err := regexp.Compile(pc.Regex)
		if err != nil {
			return nil, fmt.Errorf("grammarcfg: rule %q pattern %d: %w", rc.Name, i, err)
		}
		var inside *grammar.Grammar
		if pc.Inside != "" {
			g, err := lookup(reg, pc.Inside)
			if err != nil {
				return nil, fmt.Errorf("grammarcfg: rule %q pattern %d: %w", rc.Name, i, err)
			}
			inside = g
		}
		patterns = append(patterns, grammar.NewPattern(re, pc.Lookbehind, pc.Greedy, inside, pc.Alias...))
	}
	return &grammar.Rule{Name: rc.Name, Patterns: patterns}, nil
}

func lookup(reg *grammar.Registry, id string) (*grammar.Grammar, error) {
	if reg == nil {
		return nil, fmt.Errorf("%q: %w", id, grammar.ErrUnknownGrammar)
	}
	g, ok := reg.Get(id)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, grammar.ErrUnknownGrammar)
	}
	return g, nil
}

// ApplyOverrides builds f against reg and applies it onto the grammar
// already registered under baseID via Registry.Extend, registering the
// result back under baseID and returning it. This is the override-without-
// recompiling path: baseID keeps its identity, only its rule set changes.
func ApplyOverrides(reg *grammar.Registry, baseID string, f *File) (*grammar.Grammar, error) {
	redef, err := Build(f, reg)
	if err != nil {
		return nil, err
	}
	extended, err := reg.Extend(baseID, redef)
	if err != nil {
		return nil, err
	}
	reg.Register(baseID, extended)
	return extended, nil
}
