// Package hedl is the public façade over the HEDL implementation: it
// wires the lexer, header parser, body parser, and reference resolver
// into the handful of entry points most callers need, the way the
// teacher's pkg/hive façade wires its own reader/tx/verify internals
// behind Open/ReadOnly/Diagnose.
package hedl
