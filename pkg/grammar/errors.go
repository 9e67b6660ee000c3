package grammar

import "errors"

// ErrUnknownGrammar is returned when a composition call names a language id
// that isn't present in the registry.
var ErrUnknownGrammar = errors.New("grammar: unknown grammar id")

// ErrUnknownRule is returned when InsertBefore names a rule that isn't
// present in the target grammar.
var ErrUnknownRule = errors.New("grammar: unknown rule name")
