// Package token defines the output shape of the tokenizer: Fragment, the
// tagged union of raw text and classified Token, and Token itself.
package token

import "encoding/json"

// Token is the classified result of applying a grammar rule to a region of
// text. Content is either a plain string (no nested grammar was used) or a
// nested, ordered sequence of Fragments produced by recursively tokenizing
// the matched substring against the rule's Inside grammar.
type Token struct {
	Type    string
	Content Content
	Alias   []string
	Length  int
}

// Content holds either a plain matched string or a nested Fragment sequence.
// Exactly one of the two is populated; which one is decided once, at
// construction, and never changes afterward.
type Content struct {
	plain    string
	nested   []Fragment
	isNested bool
}

// PlainContent wraps a flat matched substring (no Inside grammar was used).
func PlainContent(s string) Content {
	return Content{plain: s}
}

// NestedContent wraps the recursively tokenized Fragment sequence produced
// by an Inside grammar.
func NestedContent(frags []Fragment) Content {
	return Content{nested: frags, isNested: true}
}

// IsNested reports whether this Content holds a nested Fragment sequence.
func (c Content) IsNested() bool { return c.isNested }

// Plain returns the flat matched string. Only meaningful when !IsNested().
func (c Content) Plain() string { return c.plain }

// Nested returns the nested Fragment sequence. Only meaningful when IsNested().
func (c Content) Nested() []Fragment { return c.nested }

// Text flattens Content back to its original matched substring, recursing
// through nested Fragments when necessary. This is what lets length
// preservation hold across arbitrarily deep Inside-grammar recursion.
func (c Content) Text() string {
	if !c.isNested {
		return c.plain
	}
	var out []byte
	for _, f := range c.nested {
		out = append(out, f.Text()...)
	}
	return string(out)
}

func (c Content) MarshalJSON() ([]byte, error) {
	if !c.isNested {
		return json.Marshal(c.plain)
	}
	return json.Marshal(c.nested)
}

// New constructs a Token with the given type, content, aliases and length.
// Length is fixed here and never mutated afterward, per the data model.
func New(typ string, content Content, alias []string, length int) *Token {
	return &Token{Type: typ, Content: content, Alias: alias, Length: length}
}

// Text returns the token's original matched substring, recovered from its
// Content (flat or nested).
func (t *Token) Text() string {
	if t == nil {
		return ""
	}
	return t.Content.Text()
}

func (t *Token) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type    string   `json:"type"`
		Content Content  `json:"content"`
		Alias   []string `json:"alias,omitempty"`
		Length  int      `json:"length"`
	}
	return json.Marshal(wire{Type: t.Type, Content: t.Content, Alias: t.Alias, Length: t.Length})
}

// Fragment is a tagged union of either a raw, unclassified string slice or a
// classified Token. It is the element type of both the tokenizer's working
// list and a Token's nested Content.
type Fragment struct {
	raw string
	tok *Token
}

// Text wraps a raw, unclassified string slice as a Fragment.
func Text(s string) Fragment { return Fragment{raw: s} }

// FromToken wraps a classified Token as a Fragment.
func FromToken(t *Token) Fragment { return Fragment{tok: t} }

// IsToken reports whether this Fragment holds a classified Token rather than
// raw text.
func (f Fragment) IsToken() bool { return f.tok != nil }

// Token returns the wrapped Token, or nil if this Fragment is raw text.
func (f Fragment) Token() *Token { return f.tok }

// RawText returns the raw text this Fragment holds. Only meaningful when
// !IsToken().
func (f Fragment) RawText() string { return f.raw }

// Text returns this fragment's textual projection: the raw string, or the
// token's recovered matched substring.
func (f Fragment) Text() string {
	if f.tok != nil {
		return f.tok.Text()
	}
	return f.raw
}

// Len returns the byte length of this fragment's textual projection.
func (f Fragment) Len() int {
	if f.tok != nil {
		return f.tok.Length
	}
	return len(f.raw)
}

func (f Fragment) MarshalJSON() ([]byte, error) {
	if f.tok != nil {
		return json.Marshal(f.tok)
	}
	return json.Marshal(f.raw)
}

// Flatten projects an ordered Fragment sequence down to its concatenated
// text, the invariant every tokenizer pass must preserve end to end.
func Flatten(frags []Fragment) string {
	var out []byte
	for _, f := range frags {
		out = append(out, f.Text()...)
	}
	return string(out)
}
