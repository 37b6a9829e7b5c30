package ast

// Item is the sum type of a document body entry: a scalar value, a nested
// object, or a matrix list. Following the teacher's EditOp pattern
// (pkg/types.EditOp / OpSetValue / OpCreateKey ...), each variant is a
// distinct struct implementing an unexported marker method.
type Item interface {
	isItem()
}

// ScalarItem wraps a leaf Value.
type ScalarItem struct {
	Value Value
}

func (ScalarItem) isItem() {}

// ObjectItem wraps an ordered-by-key mapping of child Items.
type ObjectItem struct {
	Keys   []string // insertion order, for streaming/diagnostics only
	Fields map[string]Item
}

func (ObjectItem) isItem() {}

// NewObjectItem returns an empty ObjectItem ready for insertion.
func NewObjectItem() *ObjectItem {
	return &ObjectItem{Fields: make(map[string]Item)}
}

// Set inserts or overwrites key, tracking first-seen insertion order.
func (o *ObjectItem) Set(key string, item Item) {
	if _, exists := o.Fields[key]; !exists {
		o.Keys = append(o.Keys, key)
	}
	o.Fields[key] = item
}

// SortedKeys returns the object's keys in UTF-8 code-point (lexicographic)
// order, the order invariant 7 and the canonicalizer require.
func (o *ObjectItem) SortedKeys() []string {
	keys := make([]string, len(o.Keys))
	copy(keys, o.Keys)
	sortStrings(keys)
	return keys
}

// ListItem wraps a MatrixList.
type ListItem struct {
	List *MatrixList
}

func (ListItem) isItem() {}

// Equal compares two Items for structural equality.
func Equal(a, b Item) bool {
	switch av := a.(type) {
	case ScalarItem:
		bv, ok := b.(ScalarItem)
		return ok && av.Value.Equal(bv.Value)
	case *ObjectItem:
		bv, ok := b.(*ObjectItem)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for k, v := range av.Fields {
			bval, ok := bv.Fields[k]
			if !ok || !Equal(v, bval) {
				return false
			}
		}
		return true
	case ListItem:
		bv, ok := b.(ListItem)
		return ok && av.List.Equal(bv.List)
	default:
		return false
	}
}

// sortStrings is a tiny insertion sort wrapper kept local to avoid importing
// "sort" for a single call site elsewhere; canon and lint both need sorted
// keys and use sort.Strings directly, this helper exists for ObjectItem's
// own convenience method.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
