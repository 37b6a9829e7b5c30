package ast

// Version is the document's declared %VERSION major.minor pair.
type Version struct {
	Major int
	Minor int
}

// Document is the root of a fully parsed, fully resolved HEDL document: the
// header declarations plus a root object whose entries are Items.
//
// Document mirrors the teacher's Tree root (header fields alongside a root
// key), generalized from the registry's fixed NK-hierarchy root to a
// HEDL document's declared-header-plus-root-object shape.
type Document struct {
	Version Version
	// Aliases maps alias name to its expansion, exactly as declared by
	// %ALIAS directives (not yet substituted into column names).
	Aliases map[string]string
	// Structs maps a declared type name to its ordered column names,
	// including the leading id column.
	Structs map[string][]string
	// Nests maps a parent type name to its declared child type name, per
	// the %NEST directive. Only one child type is retained per parent: a
	// later %NEST for the same parent replaces the earlier one, and every
	// child row under that parent takes the recorded child type. There is
	// no row-level @TypeName disambiguation between child types.
	Nests map[string]string
	Root  *ObjectItem
}

// NewDocument returns an empty Document with initialized header maps and an
// empty root object, ready for the header and body parsers to populate.
func NewDocument() *Document {
	return &Document{
		Aliases: make(map[string]string),
		Structs: make(map[string][]string),
		Nests:   make(map[string]string),
		Root:    NewObjectItem(),
	}
}

// Equal compares two Documents for structural equality. Header maps compare
// by content; Root compares via the Item Equal function.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Version != o.Version {
		return false
	}
	if !stringMapEqual(d.Aliases, o.Aliases) {
		return false
	}
	if !stringSliceMapEqual(d.Structs, o.Structs) {
		return false
	}
	if !stringMapEqual(d.Nests, o.Nests) {
		return false
	}
	return Equal(d.Root, o.Root)
}

func stringMapEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func stringSliceMapEqual(a, b map[string][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || len(bv) != len(v) {
			return false
		}
		for i := range v {
			if v[i] != bv[i] {
				return false
			}
		}
	}
	return true
}
