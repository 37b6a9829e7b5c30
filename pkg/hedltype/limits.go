package hedltype

import "fmt"

// Default resource ceilings, per spec. Exceeding any of these is reported
// as ErrSecurity.
const (
	DefaultMaxFileSize        = 1 << 30       // 1 GiB
	DefaultMaxLineLength      = 1 << 20       // 1 MiB
	DefaultMaxIndentDepth     = 50
	DefaultMaxNodes           = 10_000_000
	DefaultMaxAliases         = 10_000
	DefaultMaxColumns         = 100
	DefaultMaxNestDepth       = 100
	DefaultMaxBlockStringSize = 10 << 20 // 10 MiB
	DefaultMaxObjectKeys      = 10_000
	DefaultMaxTotalKeys       = 10_000_000

	// StrictDivisor scales DefaultOptions down for StrictOptions, mirroring
	// the teacher's preset-by-divisor pattern.
	StrictDivisor = 10
)

// Options bundles every resource ceiling and behavioral switch consumed by
// the parser, the streaming parser, and the linter. Callers pass an Options
// value into every entry point; there is no global or environment-derived
// configuration.
type Options struct {
	// MaxFileSize is the total input byte ceiling.
	MaxFileSize int64
	// MaxLineLength is the per-line byte ceiling.
	MaxLineLength int
	// MaxIndentDepth is the maximum nesting level.
	MaxIndentDepth int
	// MaxNodes is the total matrix-row ceiling across the document.
	MaxNodes int
	// MaxAliases is the %ALIAS entry ceiling.
	MaxAliases int
	// MaxColumns is the per-struct column ceiling.
	MaxColumns int
	// MaxNestDepth is the ceiling on the number of parent types with a
	// %NEST declaration (entries in Document.Nests); the length of a
	// parent-to-child %NEST chain is not checked.
	MaxNestDepth int
	// MaxBlockStringSize is the block-quoted string byte ceiling.
	MaxBlockStringSize int
	// MaxObjectKeys is the per-Object key ceiling.
	MaxObjectKeys int
	// MaxTotalKeys is the ceiling on keys across all Objects in the
	// document.
	MaxTotalKeys int
	// StrictRefs, when true, fails the parse on unresolved or ambiguous
	// references. When false, unresolved references are replaced with
	// Null instead.
	StrictRefs bool
}

// DefaultOptions returns the specification's default limits, with strict
// reference checking enabled.
func DefaultOptions() Options {
	return Options{
		MaxFileSize:        DefaultMaxFileSize,
		MaxLineLength:      DefaultMaxLineLength,
		MaxIndentDepth:     DefaultMaxIndentDepth,
		MaxNodes:           DefaultMaxNodes,
		MaxAliases:         DefaultMaxAliases,
		MaxColumns:         DefaultMaxColumns,
		MaxNestDepth:       DefaultMaxNestDepth,
		MaxBlockStringSize: DefaultMaxBlockStringSize,
		MaxObjectKeys:      DefaultMaxObjectKeys,
		MaxTotalKeys:       DefaultMaxTotalKeys,
		StrictRefs:         true,
	}
}

// StrictOptions returns conservative limits (1/10th of the defaults) for
// resource-constrained embedding — parsing untrusted input with a tight
// memory budget.
func StrictOptions() Options {
	o := DefaultOptions()
	o.MaxFileSize /= StrictDivisor
	o.MaxLineLength /= StrictDivisor
	o.MaxIndentDepth /= StrictDivisor
	o.MaxNodes /= StrictDivisor
	o.MaxAliases /= StrictDivisor
	o.MaxColumns /= StrictDivisor
	o.MaxNestDepth /= StrictDivisor
	o.MaxBlockStringSize /= StrictDivisor
	o.MaxObjectKeys /= StrictDivisor
	o.MaxTotalKeys /= StrictDivisor
	return o
}

// LimitError reports which configured ceiling was exceeded.
type LimitError struct {
	Limit   string
	Current int64
	Maximum int64
	Line    int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("limit exceeded: %s is %d (max %d)", e.Limit, e.Current, e.Maximum)
}

// AsSecurityError converts a LimitError into the core's Error value.
func (e *LimitError) AsSecurityError() *Error {
	return NewError(ErrSecurity, e.Line, e.Error())
}
