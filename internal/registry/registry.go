// Package registry implements the type registry and reference resolver:
// a forward index (type, id) -> definition line for collision detection
// during body parsing, an inverted index (id) -> set of types for
// unqualified reference resolution, and a post-parse resolution pass that
// fills in or rejects every Reference value in the Document.
package registry

import (
	"fmt"
	"sort"

	"github.com/dweve-ai/hedl-sub002/pkg/ast"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
)

// Registry accumulates (type, id) registrations during body parsing and
// resolves references once parsing completes. It is private to a single
// parse invocation and must not be reused across parses.
type Registry struct {
	forward  map[string]map[string]int // type -> id -> definition line
	inverted map[string]map[string]bool // id -> set of types
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		forward:  make(map[string]map[string]int),
		inverted: make(map[string]map[string]bool),
	}
}

// Register records a newly parsed row's (type, id) pair, returning a
// Collision error if that id was already registered under that type.
func (r *Registry) Register(typeName, id string, line int) *hedltype.Error {
	byID, ok := r.forward[typeName]
	if !ok {
		byID = make(map[string]int)
		r.forward[typeName] = byID
	}
	if _, dup := byID[id]; dup {
		return hedltype.NewError(hedltype.ErrCollision, line, fmt.Sprintf("duplicate id %q within type %s", id, typeName))
	}
	byID[id] = line

	types, ok := r.inverted[id]
	if !ok {
		types = make(map[string]bool)
		r.inverted[id] = types
	}
	types[typeName] = true
	return nil
}

// lookupQualified reports whether (typeName, id) is a registered node.
func (r *Registry) lookupQualified(typeName, id string) bool {
	byID, ok := r.forward[typeName]
	if !ok {
		return false
	}
	_, ok = byID[id]
	return ok
}

// lookupUnqualified returns the sorted list of types under which id is
// registered.
func (r *Registry) lookupUnqualified(id string) []string {
	types, ok := r.inverted[id]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}

// Resolve walks every Value reachable from doc.Root, resolving each
// Reference against the registry. In strict mode, an unresolved or
// ambiguous reference is reported as a *hedltype.Error (the first
// encountered, in document order); in non-strict mode, unresolved
// references are silently replaced with Null.
func (r *Registry) Resolve(doc *ast.Document, opts hedltype.Options) *hedltype.Error {
	return resolveObject(doc.Root, r, opts)
}

func resolveObject(o *ast.ObjectItem, r *Registry, opts hedltype.Options) *hedltype.Error {
	for _, key := range o.Keys {
		item := o.Fields[key]
		switch v := item.(type) {
		case ast.ScalarItem:
			resolved, err := resolveValue(v.Value, r, opts)
			if err != nil {
				return err
			}
			o.Fields[key] = ast.ScalarItem{Value: resolved}
		case *ast.ObjectItem:
			if err := resolveObject(v, r, opts); err != nil {
				return err
			}
		case ast.ListItem:
			if err := resolveList(v.List, r, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolveList(l *ast.MatrixList, r *Registry, opts hedltype.Options) *hedltype.Error {
	for _, row := range l.Rows {
		if err := resolveNode(row, r, opts); err != nil {
			return err
		}
	}
	return nil
}

func resolveNode(n *ast.Node, r *Registry, opts hedltype.Options) *hedltype.Error {
	for i, f := range n.Fields {
		resolved, err := resolveValue(f, r, opts)
		if err != nil {
			return err
		}
		n.Fields[i] = resolved
	}
	for _, children := range n.Children {
		for _, child := range children {
			if err := resolveNode(child, r, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolveValue(v ast.Value, r *Registry, opts hedltype.Options) (ast.Value, *hedltype.Error) {
	if v.Kind != ast.KindReference {
		return v, nil
	}
	ref := v.Ref
	if ref.TypeName != "" {
		if r.lookupQualified(ref.TypeName, ref.ID) {
			return v, nil
		}
		if opts.StrictRefs {
			return v, hedltype.NewError(hedltype.ErrReference, 0, fmt.Sprintf("unresolved reference @%s:%s", ref.TypeName, ref.ID))
		}
		return ast.Null(), nil
	}
	candidates := r.lookupUnqualified(ref.ID)
	switch len(candidates) {
	case 0:
		if opts.StrictRefs {
			return v, hedltype.NewError(hedltype.ErrReference, 0, fmt.Sprintf("unresolved reference @%s", ref.ID))
		}
		return ast.Null(), nil
	case 1:
		return ast.ReferenceValue(ast.Reference{TypeName: candidates[0], ID: ref.ID}), nil
	default:
		if opts.StrictRefs {
			return v, hedltype.NewError(hedltype.ErrReference, 0, fmt.Sprintf("ambiguous reference @%s: matches types %v", ref.ID, candidates))
		}
		return ast.Null(), nil
	}
}
