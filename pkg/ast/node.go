package ast

// Node is a single row of a MatrixList: an id, the non-id column values in
// schema order, and any nested child rows keyed by child type name.
//
// Node mirrors the teacher's registry-key Node (parent/children/values
// fields, dirty-during-construction-only mutators), generalized from a
// binary tree of keys+values to a typed tabular row with typed children.
type Node struct {
	TypeName string
	ID       string
	Fields   []Value
	Children map[string][]*Node
	// ChildCount is an optional decorative hint; not part of equality.
	ChildCount *int
	// DefinedLine records the source line of this row's "| ..." marker,
	// used by pkg/lint as the line of diagnostics about the row.
	DefinedLine int
}

// AddChild appends a child row under the given child type name.
func (n *Node) AddChild(childType string, child *Node) {
	if n.Children == nil {
		n.Children = make(map[string][]*Node)
	}
	n.Children[childType] = append(n.Children[childType], child)
}

// MatrixList is a typed, schema-constrained ordered sequence of Node rows.
type MatrixList struct {
	TypeName string
	// Schema is a snapshot of the struct's column names at the time this
	// list was parsed (denormalized for locality, per spec).
	Schema []string
	Rows   []*Node
	// CountHint is the optional "(N)" decorative marker; not part of
	// equality.
	CountHint *int
}

// Equal compares two Nodes for structural equality, ignoring ChildCount and
// DefinedLine (both are decorative/bookkeeping, not semantic content).
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.TypeName != o.TypeName || n.ID != o.ID {
		return false
	}
	if len(n.Fields) != len(o.Fields) {
		return false
	}
	for i := range n.Fields {
		if !n.Fields[i].Equal(o.Fields[i]) {
			return false
		}
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for childType, rows := range n.Children {
		otherRows, ok := o.Children[childType]
		if !ok || len(rows) != len(otherRows) {
			return false
		}
		for i := range rows {
			if !rows[i].Equal(otherRows[i]) {
				return false
			}
		}
	}
	return true
}

// Equal compares two MatrixLists for structural equality, ignoring
// CountHint.
func (l *MatrixList) Equal(o *MatrixList) bool {
	if l == nil || o == nil {
		return l == o
	}
	if l.TypeName != o.TypeName || len(l.Schema) != len(o.Schema) {
		return false
	}
	for i := range l.Schema {
		if l.Schema[i] != o.Schema[i] {
			return false
		}
	}
	if len(l.Rows) != len(o.Rows) {
		return false
	}
	for i := range l.Rows {
		if !l.Rows[i].Equal(o.Rows[i]) {
			return false
		}
	}
	return true
}
