package session

import "strings"

// Binding maps one input token (an emoji, a button id, a digit) to a move.
type Binding[T any] struct {
	Token string
	Value T
}

// Controls is an immutable token table owned by a single session.
type Controls[T any] struct {
	table  map[string]T
	tokens []string
}

func NewControls[T any](bindings ...Binding[T]) Controls[T] {
	controls := Controls[T]{
		table:  make(map[string]T, len(bindings)),
		tokens: make([]string, 0, len(bindings)),
	}

	for _, binding := range bindings {
		token := normalizeToken(binding.Token)
		if _, ok := controls.table[token]; ok {
			continue
		}

		controls.table[token] = binding.Value
		controls.tokens = append(controls.tokens, token)
	}

	return controls
}

func (that Controls[T]) Lookup(token string) (T, bool) {
	value, ok := that.table[normalizeToken(token)]
	return value, ok
}

// Tokens returns the tokens in declaration order.
func (that Controls[T]) Tokens() []string {
	out := make([]string, len(that.tokens))
	copy(out, that.tokens)

	return out
}

func (that Controls[T]) Len() int {
	return len(that.tokens)
}

func normalizeToken(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}
