package tokenizer

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kade-robertson/synlex/pkg/grammar"
	"github.com/kade-robertson/synlex/pkg/token"
)

func rule(name, pattern string) *grammar.Rule {
	return grammar.Simple(name, regexp.MustCompile(pattern))
}

func TestTokenizePlainTextNoMatch(t *testing.T) {
	g := grammar.New()
	frags := Tokenize("hello world", g)
	require.Len(t, frags, 1)
	assert.False(t, frags[0].IsToken())
	assert.Equal(t, "hello world", frags[0].RawText())
}

func TestTokenizeEmptyInput(t *testing.T) {
	g := grammar.New()
	frags := Tokenize("", g)
	require.Len(t, frags, 1)
	assert.Equal(t, "", token.Flatten(frags))
}

func TestTokenizeSingleRule(t *testing.T) {
	g := grammar.New()
	g.Set(rule("number", `\d+`))

	frags := Tokenize("a 42 b", g)
	assert.Equal(t, "a 42 b", token.Flatten(frags))

	require.Len(t, frags, 3)
	assert.Equal(t, "a ", frags[0].RawText())
	require.True(t, frags[1].IsToken())
	assert.Equal(t, "number", frags[1].Token().Type)
	assert.Equal(t, "42", frags[1].Token().Text())
	assert.Equal(t, " b", frags[2].RawText())
}

func TestTokenizeWithoutLookbehindKeepsPrecedingContext(t *testing.T) {
	g := grammar.New()
	g.Set(&grammar.Rule{
		Name: "comment",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`(^|\s)(#.*)`), false, false, nil),
		},
	})
	// Lookbehind is off here, so the capture groups are ignored and the
	// whole match, leading space included, becomes the token. The test
	// below runs the same pattern with Lookbehind on.
	frags := Tokenize("x #hi", g)
	assert.Equal(t, "x #hi", token.Flatten(frags))
	require.Len(t, frags, 2)
	assert.Equal(t, "x", frags[0].RawText())
	require.True(t, frags[1].IsToken())
	assert.Equal(t, " #hi", frags[1].Token().Text())
}

func TestTokenizeLookbehindStripsCaptureGroup(t *testing.T) {
	g := grammar.New()
	g.Set(&grammar.Rule{
		Name: "comment",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`(^|\s)(#.*)`), true, false, nil),
		},
	})
	frags := Tokenize("x #hi", g)
	assert.Equal(t, "x #hi", token.Flatten(frags))
	require.Len(t, frags, 2)
	assert.Equal(t, "x ", frags[0].RawText())
	require.True(t, frags[1].IsToken())
	assert.Equal(t, "#hi", frags[1].Token().Text())
}

func TestTokenizeNestedInsideGrammar(t *testing.T) {
	inner := grammar.New()
	inner.Set(rule("escape", `\\.`))

	outer := grammar.New()
	outer.Set(&grammar.Rule{
		Name: "string",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`"(?:[^"\\]|\\.)*"`), false, false, inner),
		},
	})

	frags := Tokenize(`say "a\nb"`, outer)
	assert.Equal(t, `say "a\nb"`, token.Flatten(frags))

	require.Len(t, frags, 2)
	strTok := frags[1].Token()
	require.NotNil(t, strTok)
	assert.Equal(t, "string", strTok.Type)
	require.True(t, strTok.Content.IsNested())

	nested := strTok.Content.Nested()
	require.Len(t, nested, 3)
	assert.Equal(t, `"a`, nested[0].RawText())
	require.True(t, nested[1].IsToken())
	assert.Equal(t, "escape", nested[1].Token().Type)
	assert.Equal(t, `\n`, nested[1].Token().Text())
	assert.Equal(t, `b"`, nested[2].RawText())
}

func TestTokenizeGreedyOverridesNonGreedy(t *testing.T) {
	g := grammar.New()
	g.Set(rule("word", `\w+`))
	g.Set(&grammar.Rule{
		Name: "comment",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`/\*[\s\S]*?\*/`), false, true, nil),
		},
	})

	frags := Tokenize("a /*b*/ c", g)
	assert.Equal(t, "a /*b*/ c", token.Flatten(frags))

	require.Len(t, frags, 5)
	require.True(t, frags[0].IsToken())
	assert.Equal(t, "word", frags[0].Token().Type)
	assert.Equal(t, "a", frags[0].Token().Text())

	assert.Equal(t, " ", frags[1].RawText())

	require.True(t, frags[2].IsToken())
	assert.Equal(t, "comment", frags[2].Token().Type)
	assert.Equal(t, "/*b*/", frags[2].Token().Text())

	assert.Equal(t, " ", frags[3].RawText())

	require.True(t, frags[4].IsToken())
	assert.Equal(t, "word", frags[4].Token().Type)
	assert.Equal(t, "c", frags[4].Token().Text())
}

func TestTokenizeGreedyMatchKeepsTrailingWordToken(t *testing.T) {
	g := grammar.New()
	g.Set(rule("word", `\w+`))
	g.Set(&grammar.Rule{
		Name: "comment",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`/\*[\s\S]*?\*/`), false, true, nil),
		},
	})

	frags := Tokenize("a /*b*/ c", g)
	require.Len(t, frags, 5)
	require.True(t, frags[0].IsToken())
	assert.Equal(t, "a", frags[0].Token().Text())
	assert.Equal(t, " ", frags[1].RawText())
	require.True(t, frags[2].IsToken())
	assert.Equal(t, "/*b*/", frags[2].Token().Text())
	assert.Equal(t, " ", frags[3].RawText())
	require.True(t, frags[4].IsToken())
	assert.Equal(t, "word", frags[4].Token().Type)
	assert.Equal(t, "c", frags[4].Token().Text())
}

func TestTokenizeRuleOrderEarlierWins(t *testing.T) {
	g := grammar.New()
	g.Set(rule("keyword", `\bif\b`))
	g.Set(rule("word", `\w+`))

	frags := Tokenize("if x", g)
	require.Len(t, frags, 3)
	assert.Equal(t, "keyword", frags[0].Token().Type)
	assert.Equal(t, " ", frags[1].RawText())
	assert.Equal(t, "word", frags[2].Token().Type)
}

func TestTokenizeZeroLengthMatchNeverLoops(t *testing.T) {
	g := grammar.New()
	g.Set(rule("empty", `x*`))

	frags := Tokenize("abc", g)
	assert.Equal(t, "abc", token.Flatten(frags))
}

func TestTokenizeAliasAttachedToToken(t *testing.T) {
	g := grammar.New()
	g.Set(&grammar.Rule{
		Name: "keyword",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`\bif\b`), false, false, nil, "control", "reserved"),
		},
	})
	frags := Tokenize("if", g)
	require.Len(t, frags, 1)
	assert.Equal(t, []string{"control", "reserved"}, frags[0].Token().Alias)
}

func TestTokenizeRestIsInlined(t *testing.T) {
	g := grammar.New()
	g.Set(rule("number", `\d+`))

	rest := grammar.New()
	rest.Set(rule("word", `\w+`))
	g.SetRest(rest)

	frags := Tokenize("ab 12", g)
	require.Len(t, frags, 3)
	assert.Equal(t, "word", frags[0].Token().Type)
	assert.Equal(t, " ", frags[1].RawText())
	assert.Equal(t, "number", frags[2].Token().Type)
}

func TestTokenizeLengthPreservesAcrossComposition(t *testing.T) {
	reg := grammar.NewRegistry()
	base := grammar.New()
	base.Set(rule("word", `\w+`))
	reg.Register("lang", base)

	redef := grammar.New()
	redef.Set(rule("number", `\d+`))
	extended, err := reg.Extend("lang", redef)
	require.NoError(t, err)

	frags := Tokenize("ab 12", extended)
	assert.Equal(t, "ab 12", token.Flatten(frags))
	total := 0
	for _, f := range frags {
		total += f.Len()
	}
	assert.Equal(t, len("ab 12"), total)
}

// A greedy match cannot end partway through an already-produced Token, since
// a Token can't be partially removed; it must be extended to swallow that
// Token whole.
func TestTokenizeGreedyMatchExtendsPastPartialToken(t *testing.T) {
	g := grammar.New()
	g.Set(rule("word", `\w+`))
	g.Set(&grammar.Rule{
		Name: "span",
		Patterns: []*grammar.Pattern{
			grammar.NewPattern(regexp.MustCompile(`a.*?c`), false, true, nil),
		},
	})

	frags := Tokenize("ab.cd", g)
	assert.Equal(t, "ab.cd", token.Flatten(frags))

	require.Len(t, frags, 1)
	require.True(t, frags[0].IsToken())
	assert.Equal(t, "span", frags[0].Token().Type)
	assert.Equal(t, "ab.cd", frags[0].Token().Text())
}
