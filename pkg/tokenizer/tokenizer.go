// Package tokenizer implements the core engine: Tokenize walks a Grammar's
// rules in order against a growing fraglist.List, splicing Tokens in place,
// honoring greedy cross-boundary rematches and recursive Inside grammars.
package tokenizer

import (
	"github.com/kade-robertson/synlex/pkg/fraglist"
	"github.com/kade-robertson/synlex/pkg/grammar"
	"github.com/kade-robertson/synlex/pkg/regexadapter"
	"github.com/kade-robertson/synlex/pkg/token"
)

// cause identifies the (rule name, pattern index) that triggered a rematch,
// so the rematch never re-enters the very rule that caused it.
type cause struct {
	name string
	idx  int
}

// rematch carries the guard state for a nested matchGrammar pass launched
// because a greedy match subsumed one or more previously produced Tokens.
// reach is the absolute position, within the original text, beyond which
// this pass must not scan; it only ever grows (never shrinks) while the
// pass runs.
type rematch struct {
	cause cause
	reach int
}

// Tokenize converts text into an ordered Fragment sequence per grammar g. It
// returns []token.Fragment{token.Text("")} for empty input, never an empty
// slice.
func Tokenize(text string, g *grammar.Grammar) []token.Fragment {
	return run(text, g)
}

func run(text string, g *grammar.Grammar) []token.Fragment {
	g.Normalize()
	list := fraglist.New()
	list.InsertAfter(list.Head(), token.Text(text))
	matchGrammar(text, list, g, list.Head(), 0, nil)
	return list.ToArray()
}

// matchGrammar walks each rule in grammar order, then each pattern on that
// rule, walking the fragment list from startNode forward (absolute position
// startPos) attempting matches and splicing results, honoring the rematch
// guard/reach when rm is non-nil.
func matchGrammar(text string, list *fraglist.List, g *grammar.Grammar, startNode *fraglist.Node, startPos int, rm *rematch) {
	for _, name := range g.Names() {
		rule, _ := g.Get(name)
		for patIdx, pat := range rule.Patterns {
			if rm != nil && rm.cause.name == name && rm.cause.idx == patIdx {
				return
			}
			if pat.Greedy && !grammar.GreedyPrepared(pat) {
				regexadapter.PrepareGreedy(pat)
			}
			if pat.Greedy {
				runGreedy(text, list, g, name, patIdx, pat, startNode, startPos, rm)
			} else {
				runNonGreedy(text, list, g, name, patIdx, pat, startNode, startPos, rm)
			}
		}
	}
}

func aborted(list *fraglist.List, text string) bool {
	return list.Len() > len(text)
}

func runNonGreedy(text string, list *fraglist.List, g *grammar.Grammar, ruleName string, patIdx int, pat *grammar.Pattern, startNode *fraglist.Node, startPos int, rm *rematch) {
	cur := startNode.Next()
	pos := startPos
	for cur != list.Tail() {
		if aborted(list, text) {
			return
		}
		if rm != nil && pos >= rm.reach {
			return
		}

		frag := cur.Value()
		if frag.IsToken() {
			pos += frag.Len()
			cur = cur.Next()
			continue
		}

		raw := frag.RawText()
		m, ok := regexadapter.MatchAt(pat, raw, 0)
		if !ok || m.End == m.Start {
			pos += len(raw)
			cur = cur.Next()
			continue
		}

		next, nextPos := spliceNonGreedy(text, list, g, ruleName, pat, cur, pos, raw, m, rm)
		cur, pos = next, nextPos
	}
}

func runGreedy(text string, list *fraglist.List, g *grammar.Grammar, ruleName string, patIdx int, pat *grammar.Pattern, startNode *fraglist.Node, startPos int, rm *rematch) {
	cur := startNode.Next()
	pos := startPos
	for cur != list.Tail() {
		if aborted(list, text) {
			return
		}
		if rm != nil && pos >= rm.reach {
			return
		}

		m, ok := regexadapter.MatchAt(pat, text, pos)
		if !ok || m.End == m.Start || m.Start >= len(text) {
			return
		}

		next, nextPos, _ := spliceGreedy(text, list, g, ruleName, patIdx, pat, cur, pos, m, rm)
		cur, pos = next, nextPos
	}
}

// spliceNonGreedy carves the single current fragment into an optional
// leading raw slice, the new Token, and an optional trailing raw slice.
func spliceNonGreedy(text string, list *fraglist.List, g *grammar.Grammar, ruleName string, pat *grammar.Pattern, node *fraglist.Node, pos int, raw string, m *regexadapter.Match, rm *rematch) (*fraglist.Node, int) {
	leading := raw[:m.Start]
	trailing := raw[m.End:]

	anchor := node.Prev()
	insertionPoint := anchor
	if leading != "" {
		insertionPoint = list.InsertAfter(anchor, token.Text(leading))
	}

	list.RemoveRange(node, 1)

	tok := buildToken(ruleName, pat, m.Text)
	tokenNode := list.InsertAfter(insertionPoint, token.FromToken(tok))

	// after must start exactly at the returned position (pos + m.End) for the
	// caller's cursor/position pair to stay in sync: with no trailing raw,
	// that's tokenNode's successor, not tokenNode itself, whose span ends
	// there instead of starting there.
	after := tokenNode.Next()
	if trailing != "" {
		after = list.InsertAfter(tokenNode, token.Text(trailing))
	}

	if rm != nil && pos+m.End > rm.reach {
		rm.reach = pos + m.End
	}

	return after, pos + m.End
}

// spliceGreedy locates the fragment(s) spanned by a whole-text greedy match,
// removes them, and inserts the new Token with whatever raw slivers survive
// at either edge. A Token can't be partially consumed, so if the match
// starts or ends strictly inside one, the match is extended to swallow that
// Token whole on the affected side. handled is false only when the match
// start falls beyond the end of the list (should not happen given the
// caller's own bounds checks, guarded defensively anyway).
func spliceGreedy(text string, list *fraglist.List, g *grammar.Grammar, ruleName string, patIdx int, pat *grammar.Pattern, cur *fraglist.Node, pos int, m *regexadapter.Match, rm *rematch) (*fraglist.Node, int, bool) {
	startNode, startAbsPos := locateNode(list, cur, pos, m.Start)
	if startNode == list.Tail() {
		return cur, pos, false
	}
	startFrag := startNode.Value()

	matchStart := m.Start
	var leading string
	if startFrag.IsToken() {
		matchStart = startAbsPos
	} else {
		leading = startFrag.RawText()[:matchStart-startAbsPos]
	}

	matchEnd := m.End
	count, lastNode, lastAbsPos := spanNodes(list, startNode, startAbsPos, matchEnd)
	lastFrag := lastNode.Value()

	var trailingText string
	if lastFrag != nil {
		if lastFrag.IsToken() {
			// A Token can't be partially consumed: if the match ended
			// strictly inside it, extend the match to swallow it whole.
			tokEnd := lastAbsPos + lastFrag.Len()
			if matchEnd < tokEnd {
				matchEnd = tokEnd
			}
		} else {
			localEnd := matchEnd - lastAbsPos
			if localEnd < lastFrag.Len() {
				trailingText = lastFrag.RawText()[localEnd:]
			}
		}
	}

	matchedText := text[matchStart:matchEnd]

	anchor := startNode.Prev()
	insertionPoint := anchor
	if leading != "" {
		insertionPoint = list.InsertAfter(anchor, token.Text(leading))
	}

	list.RemoveRange(startNode, count)

	tok := buildToken(ruleName, pat, matchedText)
	tokenNode := list.InsertAfter(insertionPoint, token.FromToken(tok))

	// See spliceNonGreedy: after must start exactly at the returned reach
	// position, which with no trailing sliver is tokenNode's successor.
	after := tokenNode.Next()
	if trailingText != "" {
		after = list.InsertAfter(tokenNode, token.Text(trailingText))
	}

	reach := matchEnd
	if rm != nil && reach > rm.reach {
		rm.reach = reach
	}

	if count > 1 {
		nested := &rematch{cause: cause{ruleName, patIdx}, reach: reach}
		matchGrammar(text, list, g, insertionPoint, matchStart, nested)
		if nested.reach > reach {
			reach = nested.reach
		}
		if rm != nil && nested.reach > rm.reach {
			rm.reach = nested.reach
		}
	}

	return after, reach, true
}

// buildToken constructs the Token for a successful match, recursing through
// pat.Inside when present.
func buildToken(ruleName string, pat *grammar.Pattern, matchedText string) *token.Token {
	var content token.Content
	if pat.Inside != nil {
		content = token.NestedContent(run(matchedText, pat.Inside))
	} else {
		content = token.PlainContent(matchedText)
	}
	return token.New(ruleName, content, pat.Alias, len(matchedText))
}

// locateNode walks forward from (from, fromPos) and returns the node whose
// textual range contains the absolute position target, along with that
// node's absolute start position. Returns the tail sentinel if target falls
// at or beyond the end of the list's text.
func locateNode(list *fraglist.List, from *fraglist.Node, fromPos, target int) (*fraglist.Node, int) {
	cur, pos := from, fromPos
	for cur != list.Tail() {
		flen := cur.Value().Len()
		if target >= pos && target < pos+flen {
			return cur, pos
		}
		pos += flen
		cur = cur.Next()
	}
	return list.Tail(), pos
}

// spanNodes walks forward from (startNode, startPos) and returns how many
// nodes must be removed to fully cover [startPos, target), along with the
// last node touched and its absolute start position.
func spanNodes(list *fraglist.List, startNode *fraglist.Node, startPos, target int) (count int, lastNode *fraglist.Node, lastPos int) {
	cur, pos := startNode, startPos
	for cur != list.Tail() {
		flen := cur.Value().Len()
		count++
		if pos+flen >= target {
			return count, cur, pos
		}
		pos += flen
		cur = cur.Next()
	}
	return count, cur, pos
}
