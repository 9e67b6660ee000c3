// Package fraglist implements the tokenizer's working list: a doubly linked
// list of token.Fragment values with sentinel head/tail nodes, sized for the
// splice-heavy access pattern matchGrammar drives it with (insert-before,
// remove-range), which would be O(n^2) on a plain slice for long inputs.
package fraglist

import "github.com/kade-robertson/synlex/pkg/token"

// Node is one link in the list. Sentinel nodes carry a nil value and are
// never returned by ToArray.
type Node struct {
	prev, next *Node
	value      *token.Fragment
}

// Value returns the fragment held at this node, or nil for a sentinel.
func (n *Node) Value() *token.Fragment { return n.value }

// Next returns the following node, which may be the tail sentinel.
func (n *Node) Next() *Node { return n.next }

// Prev returns the preceding node, which may be the head sentinel.
func (n *Node) Prev() *Node { return n.prev }

// List is a doubly linked list with sentinel head and tail nodes. Len counts
// only real (non-sentinel) nodes.
type List struct {
	head, tail *Node
	len        int
}

// New returns an empty list, already wired head <-> tail.
func New() *List {
	l := &List{head: &Node{}, tail: &Node{}}
	l.head.next = l.tail
	l.tail.prev = l.head
	return l
}

// Head returns the head sentinel. Head.Next() is the first real node, or the
// tail sentinel if the list is empty.
func (l *List) Head() *Node { return l.head }

// Tail returns the tail sentinel.
func (l *List) Tail() *Node { return l.tail }

// Len returns the number of real (non-sentinel) nodes.
func (l *List) Len() int { return l.len }

// InsertAfter inserts v immediately after n and returns the new node.
func (l *List) InsertAfter(n *Node, v token.Fragment) *Node {
	nn := &Node{prev: n, next: n.next, value: &v}
	n.next.prev = nn
	n.next = nn
	l.len++
	return nn
}

// RemoveRange removes up to count real nodes starting at n (n itself is
// removed; it must not be a sentinel). It never removes the tail sentinel,
// even if count overruns the remaining list. n's predecessor is relinked
// directly to the surviving successor. Returns the number of nodes actually
// removed.
func (l *List) RemoveRange(n *Node, count int) int {
	if n == l.tail {
		return 0
	}
	before := n.prev
	cur := n
	removed := 0
	for removed < count && cur != l.tail {
		next := cur.next
		cur.prev, cur.next, cur.value = nil, nil, nil
		cur = next
		removed++
	}
	before.next = cur
	cur.prev = before
	l.len -= removed
	return removed
}

// ToArray returns the ordered sequence of real fragment values, skipping
// sentinels.
func (l *List) ToArray() []token.Fragment {
	out := make([]token.Fragment, 0, l.len)
	for n := l.head.next; n != l.tail; n = n.next {
		if n.value != nil {
			out = append(out, *n.value)
		}
	}
	return out
}
