// Package langs ships a small, deliberately minimal grammar library used to
// exercise the tokenizer engine end to end: a no-op plaintext grammar, a
// javascript-like grammar with a greedy block comment and a nested string
// escape grammar, a markup-like grammar whose script rule shares the
// javascript grammar by reference, and a typescript-like grammar derived
// from javascript via Extend + InsertBefore. This is fixture material for
// tests and the CLI, not a production language library.
package langs

import (
	"regexp"

	"github.com/kade-robertson/synlex/pkg/grammar"
)

// escapeGrammar tokenizes backslash escapes inside a string literal's body.
func escapeGrammar() *grammar.Grammar {
	g := grammar.New()
	g.Set(grammar.Simple("escape", regexp.MustCompile(`\\.`)))
	return g
}

// JavaScript returns a small grammar exercising a non-greedy word/number
// rule set, string literals with a nested escape grammar, and a greedy
// block comment that is declared after word (so §8's "greedy overrides
// non-greedy" scenario is reachable against it).
func JavaScript() *grammar.Grammar {
	g := grammar.New()
	g.Set(&grammar.Rule{
		Name: "keyword",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`\b(?:const|let|var|function|return|if|else|class|extends|import|from|export|default)\b`), false, false, nil),
		},
	})
	g.Set(&grammar.Rule{
		Name: "string",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`"(?:[^"\\]|\\.)*"`), false, false, escapeGrammar()),
			grammar.NewPattern(regexp.MustCompile(`'(?:[^'\\]|\\.)*'`), false, false, escapeGrammar()),
		},
	})
	g.Set(&grammar.Rule{
		Name: "number",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`\d+(?:\.\d+)?`), false, false, nil),
		},
	})
	g.Set(&grammar.Rule{
		Name: "word",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`\w+`), false, false, nil),
		},
	})
	g.Set(&grammar.Rule{
		Name: "comment",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`/\*[\s\S]*?\*/`), false, true, nil),
			grammar.NewPattern(regexp.MustCompile(`//.*`), false, true, nil),
		},
	})
	g.Set(&grammar.Rule{
		Name: "punctuation",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`[{}()\[\];,.:]`), false, false, nil),
		},
	})
	return g
}

// Markup returns a small grammar whose "script" rule points at the
// javascript grammar by direct reference (not a copy), the reference-sharing
// relationship InsertBefore's DFS rewrite exists to keep intact.
func Markup(js *grammar.Grammar) *grammar.Grammar {
	g := grammar.New()
	g.Set(&grammar.Rule{
		Name: "comment",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`<!--[\s\S]*?-->`), false, false, nil),
		},
	})
	g.Set(&grammar.Rule{
		Name: "script",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`(?s)<script[^>]*>.*?</script>`), false, true, js),
		},
	})
	g.Set(&grammar.Rule{
		Name: "tag",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`</?[a-zA-Z][^<>]*>`), false, false, nil),
		},
	})
	return g
}

// typeAnnotationRule is applied by BuildRegistry via Registry.Extend to
// derive a typescript-like grammar from javascript: a new rule with no
// javascript counterpart, appended at the end of the cloned rule order.
func typeAnnotationRule() *grammar.Rule {
	return &grammar.Rule{
		Name: "type-annotation",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`:\s*\w+`), false, false, nil),
		},
	}
}

// decoratorRule is applied by BuildRegistry via Registry.InsertBefore,
// spliced ahead of typescript's inherited "word" rule so "@decorator" is
// recognized before the plain word rule would otherwise claim the
// identifier.
func decoratorRule() *grammar.Rule {
	return &grammar.Rule{
		Name: "decorator",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`@\w+`), false, false, nil, "annotation"),
		},
	}
}

// BuildRegistry populates and returns a Registry with "plaintext" (aliased
// as "txt"), "javascript", "markup" (sharing the javascript grammar via its
// script rule), and "typescript". typescript is derived from javascript in
// two composition steps: Extend appends a type-annotation rule absent from
// javascript, then InsertBefore splices a decorator rule in ahead of the
// inherited word rule.
func BuildRegistry() (*grammar.Registry, error) {
	reg := grammar.NewRegistry()

	reg.Register("plaintext", grammar.New())
	if err := reg.Alias("txt", "plaintext"); err != nil {
		return nil, err
	}

	js := JavaScript()
	reg.Register("javascript", js)
	reg.Register("markup", Markup(js))

	redef := grammar.New()
	redef.Set(typeAnnotationRule())
	ts, err := reg.Extend("javascript", redef)
	if err != nil {
		return nil, err
	}
	reg.Register("typescript", ts)

	insert := grammar.New()
	insert.Set(decoratorRule())
	if _, err := reg.InsertBefore("typescript", "word", insert); err != nil {
		return nil, err
	}

	return reg, nil
}
