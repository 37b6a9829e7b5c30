// Package stream implements the streaming parser (§4.9): an incremental,
// memory-bounded variant of the body parser that yields a sequence of
// events instead of building a full Document tree. Reference validity is
// not guaranteed in this mode (the full type registry is not yet known);
// downstream consumers re-link references themselves.
//
// Grounded on the teacher's pkg/types.NodeIter/ValueIter/Scanner shape
// (Next() bool; Err() error; <Value>() T) — an allocation-light,
// pull-based iterator the host drives one step at a time.
package stream

import "github.com/dweve-ai/hedl-sub002/pkg/ast"

// Event is the sum type yielded by Decoder.Next.
type Event interface{ isEvent() }

// HeaderComplete is emitted once, right after the "---" separator, with
// the fully parsed header declarations.
type HeaderComplete struct {
	Version ast.Version
	Structs map[string][]string
	Aliases map[string]string
	Nests   map[string]string
}

func (HeaderComplete) isEvent() {}

// ListStart is emitted each time a matrix list is entered.
type ListStart struct {
	KeyPath  []string
	TypeName string
	Schema   []string
}

func (ListStart) isEvent() {}

// Row is emitted for each completed top-level matrix row. Ditto markers
// are already resolved; references are not. Children is always empty at
// this point — nested rows are streamed separately as ChildRow events.
type Row struct {
	KeyPath []string
	Node    *ast.Node
}

func (Row) isEvent() {}

// ChildRow is emitted for a nested row found under a parent row.
type ChildRow struct {
	ParentKeyPath []string
	ParentID      string
	ChildType     string
	Node          *ast.Node
}

func (ChildRow) isEvent() {}

// ListEnd is emitted when a matrix list's block dedents.
type ListEnd struct {
	KeyPath  []string
	RowCount int
}

func (ListEnd) isEvent() {}

// Scalar is emitted eagerly for any "key: value" binding outside a list.
type Scalar struct {
	KeyPath []string
	Value   ast.Value
}

func (Scalar) isEvent() {}
