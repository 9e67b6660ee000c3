package token

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentText(t *testing.T) {
	plain := PlainContent("abc")
	assert.Equal(t, "abc", plain.Text())
	assert.False(t, plain.IsNested())

	nested := NestedContent([]Fragment{Text("a"), FromToken(New("kw", PlainContent("bc"), nil, 2))})
	assert.True(t, nested.IsNested())
	assert.Equal(t, "abc", nested.Text())
}

func TestFragmentLen(t *testing.T) {
	raw := Text("hello")
	assert.Equal(t, 5, raw.Len())
	assert.False(t, raw.IsToken())

	tok := New("word", PlainContent("hello"), nil, 5)
	frag := FromToken(tok)
	assert.True(t, frag.IsToken())
	assert.Equal(t, 5, frag.Len())
	assert.Equal(t, "hello", frag.Text())
}

func TestFlattenPreservesText(t *testing.T) {
	frags := []Fragment{
		Text("a "),
		FromToken(New("comment", PlainContent("/*b*/"), nil, 5)),
		Text(" c"),
	}
	assert.Equal(t, "a /*b*/ c", Flatten(frags))
}

func TestTokenMarshalJSONPlain(t *testing.T) {
	tok := New("keyword", PlainContent("const"), []string{"kw"}, 5)
	b, err := json.Marshal(tok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"keyword","content":"const","alias":["kw"],"length":5}`, string(b))
}

func TestTokenMarshalJSONNested(t *testing.T) {
	inner := New("escape", PlainContent(`\n`), nil, 2)
	tok := New("string", NestedContent([]Fragment{Text(`"`), FromToken(inner), Text(`"`)}), nil, 4)
	b, err := json.Marshal(tok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"string","content":["\"",{"type":"escape","content":"\\n","length":2},"\""],"length":4}`, string(b))
}

func TestFragmentMarshalJSONRaw(t *testing.T) {
	b, err := json.Marshal(Text("hi"))
	require.NoError(t, err)
	assert.Equal(t, `"hi"`, string(b))
}

func TestNilTokenText(t *testing.T) {
	var tok *Token
	assert.Equal(t, "", tok.Text())
}
