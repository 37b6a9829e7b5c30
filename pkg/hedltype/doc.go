// Package hedltype holds the configuration and error types shared by every
// HEDL entry point: the parser, the streaming parser, the canonicalizer, and
// the linter.
//
// Options is a plain struct passed by value into each call; there is no
// package-level mutable state and no environment-variable configuration.
// Error is a closed, tagged value type — the core never panics or raises an
// exception for a malformed document, it returns *Error.
package hedltype
