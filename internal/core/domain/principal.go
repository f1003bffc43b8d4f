package domain

import "errors"

// Principal is an opaque caller identity issued by the identity provider.
// It carries no structure beyond its text encoding: no numeric ordering,
// no embedded fields. Absence of an identity is expressed by the session
// state, never by a sentinel principal value.
type Principal string

// ErrEmptyPrincipal is returned when parsing an empty identity string.
var ErrEmptyPrincipal = errors.New("empty principal")

// ParsePrincipal validates the text encoding of a principal.
func ParsePrincipal(text string) (Principal, error) {
	if text == "" {
		return "", ErrEmptyPrincipal
	}
	return Principal(text), nil
}

// Text returns the canonical text encoding.
func (p Principal) Text() string {
	return string(p)
}
