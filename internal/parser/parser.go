// Package parser implements the indentation-driven body parser (§4.6): a
// stack-based descent over the lines following the header's "---"
// separator that produces the Document's root Item tree and registers
// every matrix row's id with the type registry as it is parsed.
package parser

import (
	"strings"

	"github.com/dweve-ai/hedl-sub002/internal/lex"
	"github.com/dweve-ai/hedl-sub002/internal/registry"
	"github.com/dweve-ai/hedl-sub002/pkg/ast"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
)

type parser struct {
	src       *lex.Source
	doc       *ast.Document
	reg       *registry.Registry
	opts      hedltype.Options
	stack     []*frame
	rowCount  int
	totalKeys int
}

// Parse drives the body parser over src starting at bodyStart, populating
// doc.Root and registering every row's id with reg. doc's header fields
// (Structs, Nests, ...) must already be populated by the header parser.
func Parse(src *lex.Source, bodyStart int, doc *ast.Document, reg *registry.Registry, opts hedltype.Options) *hedltype.Error {
	p := &parser{src: src, doc: doc, reg: reg, opts: opts}
	p.stack = []*frame{newRootFrame(doc.Root)}

	i := bodyStart
	for i < len(src.Lines) {
		line := src.Lines[i]
		if src.IsBlank(line) || src.IsComment(line) {
			i++
			continue
		}
		text := src.Text(line)
		indentLevel, contentStart, ierr := lex.ComputeIndent(text)
		if ierr != nil {
			return hedltype.NewError(hedltype.ErrSyntax, line.Number, ierr.Error())
		}
		if indentLevel > opts.MaxIndentDepth {
			return hedltype.NewError(hedltype.ErrSecurity, line.Number, "exceeds max_indent_depth")
		}
		content := text[contentStart:]

		for len(p.stack) > 1 && indentLevel < p.top().indent {
			p.pop()
		}
		top := p.top()

		if indentLevel != top.indent {
			return hedltype.NewError(hedltype.ErrSyntax, line.Number, "unexpected indentation")
		}

		if strings.HasPrefix(content, string(lex.RowPrefix)) {
			if err := p.handleRowLine(top, content, line.Number); err != nil {
				return err
			}
			i++
			continue
		}

		next, err := p.handleKeyValueLine(top, content, line.Number, indentLevel, i)
		if err != nil {
			return err
		}
		i = next
	}
	return nil
}

func (p *parser) top() *frame {
	return p.stack[len(p.stack)-1]
}

func (p *parser) push(f *frame) {
	p.stack = append(p.stack, f)
}

func (p *parser) pop() {
	p.stack = p.stack[:len(p.stack)-1]
}
