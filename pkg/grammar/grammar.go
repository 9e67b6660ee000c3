// Package grammar implements the grammar data model: Pattern, Rule, and the
// insertion-ordered Grammar map, plus the rest-inlining normalization step.
package grammar

import "regexp"

// Pattern is one alternative way to match a Rule: a compiled regular
// expression plus the metadata the tokenizer engine needs to interpret a
// match against it.
type Pattern struct {
	Regexp     *regexp.Regexp
	Lookbehind bool
	Greedy     bool
	Inside     *Grammar
	Alias      []string

	// greedyPrepared is flipped true the first time the engine's regex
	// adapter prepares this pattern for greedy matching. It is otherwise
	// inert; Go's regexp has no stateful lastIndex to actually rewrite, so
	// this is the observable stand-in for that one-time mutation (see
	// pkg/regexadapter).
	greedyPrepared bool
}

// GreedyPrepared reports whether PrepareGreedy has already run for p.
func GreedyPrepared(p *Pattern) bool { return p.greedyPrepared }

// MarkGreedyPrepared idempotently flips p's greedy-prepared marker. Exported
// for pkg/regexadapter, which owns the one observable mutation site.
func MarkGreedyPrepared(p *Pattern) { p.greedyPrepared = true }

// NewPattern constructs a Pattern from an already-compiled regexp and the
// rule metadata that governs how matches against it are interpreted.
func NewPattern(re *regexp.Regexp, lookbehind, greedy bool, inside *Grammar, alias ...string) *Pattern {
	return &Pattern{Regexp: re, Lookbehind: lookbehind, Greedy: greedy, Inside: inside, Alias: alias}
}

// Simple builds a single-pattern Rule from a bare compiled regexp, for the
// common case of a rule with no lookbehind, greediness, or Inside grammar.
func Simple(name string, re *regexp.Regexp) *Rule {
	return &Rule{Name: name, Patterns: []*Pattern{NewPattern(re, false, false, nil)}}
}

// Rule is one named grammar entry: a non-empty, ordered list of alternative
// Patterns tried in order at every position.
type Rule struct {
	Name     string
	Patterns []*Pattern
}

// clonePattern deep-copies a Pattern, including its Inside sub-grammar (so
// Extend's clone never lets an edit to the copy reach back into the
// original through a shared Inside pointer). seen memoizes Grammar clones
// already made during this top-level Clone call, so a grammar reached
// through two different patterns is only cloned once (preserving its
// reference-sharing) and a self-referential grammar terminates instead of
// recursing forever.
func clonePattern(p *Pattern, seen map[*Grammar]*Grammar) *Pattern {
	cp := &Pattern{
		Regexp:         p.Regexp,
		Lookbehind:     p.Lookbehind,
		Greedy:         p.Greedy,
		Alias:          append([]string(nil), p.Alias...),
		greedyPrepared: p.greedyPrepared,
	}
	if p.Inside != nil {
		cp.Inside = cloneGrammar(p.Inside, seen)
	}
	return cp
}

func cloneRule(r *Rule, seen map[*Grammar]*Grammar) *Rule {
	cr := &Rule{Name: r.Name, Patterns: make([]*Pattern, len(r.Patterns))}
	for i, p := range r.Patterns {
		cr.Patterns[i] = clonePattern(p, seen)
	}
	return cr
}

// shallowCloneRule copies a Rule's Pattern slice into fresh Pattern structs
// without touching Inside, which keeps its original pointer identity. Used
// by InsertBefore, which relies on that identity to let rewriteReferences
// find and repoint any Inside equal to the grammar being replaced —
// including a self-reference within the very rule being copied.
func shallowCloneRule(r *Rule) *Rule {
	cr := &Rule{Name: r.Name, Patterns: make([]*Pattern, len(r.Patterns))}
	for i, p := range r.Patterns {
		cp := *p
		cp.Alias = append([]string(nil), p.Alias...)
		cr.Patterns[i] = &cp
	}
	return cr
}

// Grammar is an ordered, named collection of Rules. Iteration order follows
// insertion order and is semantically significant: earlier rules are tried
// first at every position. Go has no intrinsic ordered map, so order is
// tracked with a parallel key slice.
type Grammar struct {
	order []string
	rules map[string]*Rule
	rest  *Grammar
	// normalized marks that rest has already been inlined into this
	// Grammar, so repeated Tokenize calls sharing the same *Grammar object
	// (per the reference-sharing invariant) don't re-inline it.
	normalized bool
}

// New returns an empty Grammar.
func New() *Grammar {
	return &Grammar{rules: make(map[string]*Rule)}
}

// Names returns the rule names in grammar order.
func (g *Grammar) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Get returns the rule named name, if present.
func (g *Grammar) Get(name string) (*Rule, bool) {
	r, ok := g.rules[name]
	return r, ok
}

// Set inserts or replaces the rule named r.Name. An existing entry is
// replaced in place, preserving its position; a new entry is appended.
func (g *Grammar) Set(r *Rule) {
	if _, exists := g.rules[r.Name]; !exists {
		g.order = append(g.order, r.Name)
	}
	g.rules[r.Name] = r
}

// Delete removes the rule named name, if present.
func (g *Grammar) Delete(name string) {
	if _, ok := g.rules[name]; !ok {
		return
	}
	delete(g.rules, name)
	for i, n := range g.order {
		if n == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of rules, excluding any pending (not yet inlined)
// rest grammar.
func (g *Grammar) Len() int { return len(g.order) }

// SetRest attaches a rest sub-grammar, inlined into g the next time g is
// passed through Normalize (i.e. the next top-level Tokenize call).
func (g *Grammar) SetRest(rest *Grammar) {
	g.rest = rest
	g.normalized = false
}

// Normalize inlines a pending rest grammar into g, appending its entries (or
// overwriting same-named entries in place), exactly once. It is a no-op on
// later calls until SetRest is used again. Inner grammars reached only via
// Inside are normalized independently, the first time Tokenize recurses into
// them, since the same *Grammar may be shared across many call sites.
func (g *Grammar) Normalize() {
	if g.normalized {
		return
	}
	g.normalized = true
	if g.rest == nil {
		return
	}
	rest := g.rest
	g.rest = nil
	for _, name := range rest.order {
		g.Set(rest.rules[name])
	}
}

// Clone deep-copies g: a fresh key slice, a fresh rule map, and freshly
// cloned rules (which in turn deep-copy any Inside sub-grammar). Used by
// Extend so edits to the clone never leak back into the original or the
// registry.
func (g *Grammar) Clone() *Grammar {
	return cloneGrammar(g, make(map[*Grammar]*Grammar))
}

func cloneGrammar(g *Grammar, seen map[*Grammar]*Grammar) *Grammar {
	if existing, ok := seen[g]; ok {
		return existing
	}
	cg := &Grammar{
		order:      append([]string(nil), g.order...),
		rules:      make(map[string]*Rule, len(g.rules)),
		normalized: g.normalized,
	}
	seen[g] = cg
	for name, r := range g.rules {
		cg.rules[name] = cloneRule(r, seen)
	}
	if g.rest != nil {
		cg.rest = cloneGrammar(g.rest, seen)
	}
	return cg
}
