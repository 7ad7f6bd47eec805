package domain

import "errors"

// ErrInvalidInput marks a violated precondition: empty or unordered snapshot
// series, negative quantities, malformed date ranges. It is the only error
// class the analytics engine surfaces; arithmetic edge cases produce defined
// sentinel values instead.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound is returned by lookups of a symbol or transaction id that does
// not exist in the store.
var ErrNotFound = errors.New("not found")
