package fraglist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kade-robertson/synlex/pkg/token"
)

func TestNewListIsEmpty(t *testing.T) {
	l := New()
	assert.Equal(t, 0, l.Len())
	assert.Same(t, l.Head().Next(), l.Tail())
	assert.Same(t, l.Tail().Prev(), l.Head())
}

func TestInsertAfterAppends(t *testing.T) {
	l := New()
	n1 := l.InsertAfter(l.Head(), token.Text("a"))
	n2 := l.InsertAfter(n1, token.Text("b"))
	require.Equal(t, 2, l.Len())
	assert.Same(t, n1.Next(), n2)
	assert.Same(t, n2.Prev(), n1)
	assert.Same(t, n2.Next(), l.Tail())

	arr := l.ToArray()
	require.Len(t, arr, 2)
	assert.Equal(t, "a", arr[0].RawText())
	assert.Equal(t, "b", arr[1].RawText())
}

func TestRemoveRangeMid(t *testing.T) {
	l := New()
	n1 := l.InsertAfter(l.Head(), token.Text("a"))
	n2 := l.InsertAfter(n1, token.Text("b"))
	n3 := l.InsertAfter(n2, token.Text("c"))

	removed := l.RemoveRange(n2, 1)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, l.Len())
	assert.Same(t, n1.Next(), n3)
	assert.Same(t, n3.Prev(), n1)
}

func TestRemoveRangeNeverRemovesTail(t *testing.T) {
	l := New()
	n1 := l.InsertAfter(l.Head(), token.Text("a"))

	removed := l.RemoveRange(n1, 5)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, l.Len())
	assert.Same(t, l.Head().Next(), l.Tail())
}

func TestToArrayEmpty(t *testing.T) {
	l := New()
	assert.Empty(t, l.ToArray())
}
