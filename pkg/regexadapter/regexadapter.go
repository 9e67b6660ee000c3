// Package regexadapter wraps regexp.Regexp to expose the "anchor at byte
// offset" and "extract lookbehind group length" semantics the tokenizer
// engine needs, uniformly for both non-greedy (per-fragment) and greedy
// (whole-text) matches.
package regexadapter

import "github.com/kade-robertson/synlex/pkg/grammar"

// Match is a single successful match, with offsets already translated back
// into the coordinate space of the text the caller passed in (i.e. already
// shifted by the search offset and, for lookbehind patterns, by the
// lookbehind group's length).
type Match struct {
	Start, End int
	Text       string
}

// MatchAt anchors pat against text starting at offset, the byte position the
// caller wants the search to begin from. On a hit, if pat is a Lookbehind
// pattern and its first capture group matched non-emptily, the match's
// reported start is shifted forward past that group, and the group's text
// is trimmed from the front of the returned matched text — the group is
// retained as preceding raw text by the caller, never as part of the Token.
func MatchAt(pat *grammar.Pattern, text string, offset int) (*Match, bool) {
	if offset > len(text) {
		return nil, false
	}
	loc := pat.Regexp.FindStringSubmatchIndex(text[offset:])
	if loc == nil {
		return nil, false
	}

	start, end := offset+loc[0], offset+loc[1]
	matched := text[start:end]

	if pat.Lookbehind && len(loc) >= 4 && loc[2] != -1 && loc[3] != -1 {
		groupLen := loc[3] - loc[2]
		if groupLen > 0 {
			start += groupLen
			matched = matched[groupLen:]
		}
	}

	return &Match{Start: start, End: end, Text: matched}, true
}

// PrepareGreedy idempotently marks pat as having been prepared for greedy
// matching. See grammar.Pattern's greedyPrepared field for why this exists
// even though Go's regexp has no stateful lastIndex to actually mutate.
func PrepareGreedy(pat *grammar.Pattern) {
	grammar.MarkGreedyPrepared(pat)
}
