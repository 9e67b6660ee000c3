package grammar

import (
	"fmt"
	"sync"
)

// Registry is a process-wide, mutex-guarded mapping from language id to
// Grammar. Some ids may alias the same *Grammar object. It is expected to be
// populated at startup and read mostly thereafter. InsertBefore takes the
// write lock; Extend only reads the registry, under the read lock.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]*Grammar
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Grammar)}
}

// Register associates id with g. If id is already registered, it is
// rebound — this is how Alias is implemented (two ids pointing at the same
// *Grammar) and how InsertBefore swaps in a rewritten grammar.
func (r *Registry) Register(id string, g *Grammar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[id] = g
}

// Alias binds a new id to the same *Grammar object already registered under
// existing (e.g. "plaintext" and "txt" sharing one Grammar).
func (r *Registry) Alias(id, existing string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.byID[existing]
	if !ok {
		return fmt.Errorf("grammar: alias source %q: %w", existing, ErrUnknownGrammar)
	}
	r.byID[id] = g
	return nil
}

// Get returns the grammar registered under id.
func (r *Registry) Get(id string) (*Grammar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byID[id]
	return g, ok
}

// Extend deep-clones the grammar registered under id and applies redef's
// entries onto the clone: a name already present is replaced in place,
// preserving its position; a new name is appended. Neither the original
// grammar nor the registry is modified. The caller decides whether and under
// what id to Register the result.
func (r *Registry) Extend(id string, redef *Grammar) (*Grammar, error) {
	r.mu.RLock()
	base, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("grammar: extend %q: %w", id, ErrUnknownGrammar)
	}

	clone := base.Clone()
	seen := make(map[*Grammar]*Grammar)
	for _, name := range redef.order {
		clone.Set(cloneRule(redef.rules[name], seen))
	}
	return clone, nil
}

// InsertBefore builds a new grammar from registry[inside]: entries are
// copied in order, and immediately before the entry named before, every
// entry of insert is spliced in with its own value. Target entries whose
// names collide with an insert entry are omitted from their original
// position (the insert entry already took that name at the before
// position) — this is how callers overwrite existing rules while also
// adding brand new ones; the insert side always wins a collision. Copied
// rules are shallow-cloned: Inside pointers keep their original identity
// rather than being deep-copied, so that the rewrite pass below can find
// and repoint them. The new grammar replaces registry[inside], and every
// other grammar in the registry (result itself included, for a
// self-referential grammar) that referenced the old grammar object via
// some Pattern.Inside is rewritten, depth-first, to reference the new one
// instead.
func (r *Registry) InsertBefore(inside, before string, insert *Grammar) (*Grammar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.byID[inside]
	if !ok {
		return nil, fmt.Errorf("grammar: insert-before %q: %w", inside, ErrUnknownGrammar)
	}
	if _, ok := target.Get(before); !ok {
		return nil, fmt.Errorf("grammar: insert-before %q in %q: %w", before, inside, ErrUnknownRule)
	}

	inserting := make(map[string]bool, insert.Len())
	for _, name := range insert.order {
		inserting[name] = true
	}

	result := New()
	for _, name := range target.order {
		if name == before {
			for _, insName := range insert.order {
				result.Set(shallowCloneRule(insert.rules[insName]))
			}
		}
		if inserting[name] {
			continue
		}
		result.Set(shallowCloneRule(target.rules[name]))
	}
	result.normalized = target.normalized

	old := target
	r.byID[inside] = result

	visited := make(map[*Grammar]bool)
	// Walk the freshly built grammar itself first, in case any insert rule
	// happened to reference the old grammar object directly (a
	// self-referential insertion).
	rewriteReferences(result, old, result, visited)
	for id, g := range r.byID {
		if id == inside {
			continue
		}
		rewriteReferences(g, old, result, visited)
	}

	return result, nil
}

// rewriteReferences walks g depth-first (through every Pattern.Inside,
// guarding against cycles with visited since grammars may be
// self-referential) and repoints any Inside field equal to old at new.
func rewriteReferences(g *Grammar, old, new *Grammar, visited map[*Grammar]bool) {
	if g == nil || visited[g] {
		return
	}
	visited[g] = true
	for _, name := range g.order {
		rule := g.rules[name]
		for _, pat := range rule.Patterns {
			if pat.Inside == old {
				pat.Inside = new
			}
			rewriteReferences(pat.Inside, old, new, visited)
		}
	}
}
