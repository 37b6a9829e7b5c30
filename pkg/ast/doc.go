// Package ast defines the in-memory representation of a parsed HEDL
// document: the Document root, the Item sum type (Scalar/Object/List), the
// Node and MatrixList row types, and the Value sum type (Null, Bool, Int,
// Float, String, Tensor, Reference, Expression).
//
// A *Document returned by a parse entry point is immutable from the core's
// perspective: nothing in this package or its callers mutates a Node or
// Item reachable from a Document after the parse that produced it returns.
// Mutator methods on Node exist only to support construction during
// parsing.
package ast
