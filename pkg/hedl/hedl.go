package hedl

import (
	"io"

	"github.com/dweve-ai/hedl-sub002/internal/header"
	"github.com/dweve-ai/hedl-sub002/internal/lex"
	"github.com/dweve-ai/hedl-sub002/internal/mmap"
	"github.com/dweve-ai/hedl-sub002/internal/parser"
	"github.com/dweve-ai/hedl-sub002/internal/registry"
	"github.com/dweve-ai/hedl-sub002/pkg/ast"
	"github.com/dweve-ai/hedl-sub002/pkg/canon"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
	"github.com/dweve-ai/hedl-sub002/pkg/lint"
	"github.com/dweve-ai/hedl-sub002/pkg/stream"
)

// Parse runs the full pipeline over data — preprocessing, header parsing,
// %ALIAS substitution, body parsing, and reference resolution — and
// returns a fully resolved Document.
func Parse(data []byte, opts hedltype.Options) (*ast.Document, *hedltype.Error) {
	src, perr := lex.Preprocess(data, opts.MaxFileSize, opts.MaxLineLength)
	if perr != nil {
		herr := hedltype.NewError(hedltype.ErrSyntax, 0, perr.Error())
		if pe, ok := perr.(interface {
			Line() int
			Column() int
		}); ok {
			herr.Line, herr.Column = pe.Line(), pe.Column()
		}
		return nil, herr
	}
	return parseSource(src, opts)
}

// ParseFile reads path via mmap where the platform supports it (falling
// back to a full read elsewhere) and runs the same pipeline as Parse.
func ParseFile(path string, opts hedltype.Options) (*ast.Document, *hedltype.Error) {
	data, cleanup, err := mmap.Map(path)
	if err != nil {
		return nil, hedltype.NewError(hedltype.ErrIO, 0, err.Error())
	}
	defer cleanup()
	return Parse(data, opts)
}

// ParseStreaming returns a Decoder over r's full contents (read eagerly,
// since the underlying format is not self-delimiting on a byte stream;
// the "streaming" property is in event granularity, not I/O granularity).
// Any read or header error is deferred to the Decoder's first Next/Err
// call rather than surfaced here, matching the spec's fixed signature.
func ParseStreaming(r io.Reader, opts hedltype.Options) *stream.Decoder {
	data, err := io.ReadAll(r)
	if err != nil {
		return stream.NewFailedDecoder(hedltype.NewError(hedltype.ErrIO, 0, err.Error()))
	}
	dec, derr := stream.NewDecoder(data, stream.Options{Options: opts})
	if derr != nil {
		return stream.NewFailedDecoder(derr)
	}
	return dec
}

// Canonicalize renders doc in its deterministic canonical form.
func Canonicalize(doc *ast.Document) string {
	return canon.Canonicalize(doc)
}

// Lint runs the advisory rules that lint.Lint checks over doc.
func Lint(doc *ast.Document) []lint.Diagnostic {
	return lint.Lint(doc)
}

// Validate runs the full parse pipeline for its side effect (an error, if
// any) and discards the resulting Document.
func Validate(data []byte, opts hedltype.Options) *hedltype.Error {
	_, err := Parse(data, opts)
	return err
}

func parseSource(src *lex.Source, opts hedltype.Options) (*ast.Document, *hedltype.Error) {
	hres, herr := header.Parse(src, opts)
	if herr != nil {
		return nil, herr
	}
	if len(hres.Doc.Aliases) > 0 {
		bodyLines := lex.BodyLineTexts(src, hres.BodyStart)
		expanded := header.ExpandAliases(bodyLines, hres.Doc.Aliases)
		src = lex.RebuildWithBody(src, hres.BodyStart, expanded)
	}
	reg := registry.New()
	if perr := parser.Parse(src, hres.BodyStart, hres.Doc, reg, opts); perr != nil {
		return nil, perr
	}
	if rerr := reg.Resolve(hres.Doc, opts); rerr != nil {
		return nil, rerr
	}
	return hres.Doc, nil
}
