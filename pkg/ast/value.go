package ast

// ValueKind tags the variant held by a Value, following the teacher's
// enum-plus-String() idiom (see RegType in the teacher's type package).
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTensor
	KindReference
	KindExpression
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindTensor:
		return "Tensor"
	case KindReference:
		return "Reference"
	case KindExpression:
		return "Expression"
	default:
		return "Unknown"
	}
}

// Reference is a typed or untyped pointer to a node identified by type and
// id. TypeName is empty for an unqualified "@id" reference until the
// resolver fills it in; after a successful strict-mode parse, TypeName is
// always set.
type Reference struct {
	TypeName string
	ID       string
}

// Tensor is a rectangular, recursive numeric literal: either a scalar leaf
// or an array of same-shape Tensor children.
type Tensor struct {
	Scalar   float64
	Elements []Tensor
	IsArray  bool
}

// Expression is an opaque $(...) payload. The core performs no evaluation
// and exposes no introspection beyond the raw body.
type Expression struct {
	Body string
}

// Value is the leaf type of a Document: a tagged union over the eight
// value kinds named in the spec. Exactly one of the typed fields is
// meaningful for a given Kind; the others are zero.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Int    int64
	Float  float64
	String string
	Tensor Tensor
	Ref    Reference
	Expr   Expression
}

func Null() Value                { return Value{Kind: KindNull} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func IntValue(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func StringValue(s string) Value { return Value{Kind: KindString, String: s} }
func TensorValue(t Tensor) Value { return Value{Kind: KindTensor, Tensor: t} }
func ReferenceValue(r Reference) Value {
	return Value{Kind: KindReference, Ref: r}
}
func ExpressionValue(body string) Value {
	return Value{Kind: KindExpression, Expr: Expression{Body: body}}
}

// isDittoSentinel reports whether this value is the unresolved "^" sentinel. Ditto
// is not an exposed Value variant in the final Document (invariant 6); it
// only appears transiently during body parsing, represented as a String
// value equal to dittoSentinel before ditto resolution runs.
func (v Value) isDittoSentinel() bool {
	return v.Kind == KindString && v.String == dittoSentinel
}

const dittoSentinel = "\x00hedl-ditto\x00"

// DittoSentinel returns the internal placeholder value used between CSV
// row splitting and ditto resolution. It is never present in a Value
// reachable from a successfully returned Document.
func DittoSentinel() Value { return Value{Kind: KindString, String: dittoSentinel} }

// IsDittoSentinel reports whether v is the unresolved ditto placeholder.
func IsDittoSentinel(v Value) bool { return v.isDittoSentinel() }

// Equal compares two Values for structural equality. Used by the
// fixed-point and determinism property tests.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindString:
		return v.String == o.String
	case KindTensor:
		return v.Tensor.Equal(o.Tensor)
	case KindReference:
		return v.Ref == o.Ref
	case KindExpression:
		return v.Expr.Body == o.Expr.Body
	default:
		return false
	}
}

// Equal compares two Tensors for structural (shape + value) equality.
func (t Tensor) Equal(o Tensor) bool {
	if t.IsArray != o.IsArray {
		return false
	}
	if !t.IsArray {
		return t.Scalar == o.Scalar
	}
	if len(t.Elements) != len(o.Elements) {
		return false
	}
	for i := range t.Elements {
		if !t.Elements[i].Equal(o.Elements[i]) {
			return false
		}
	}
	return true
}
