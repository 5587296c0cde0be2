// Package resolver binds every identifier in a syntax tree to a globally
// unique Name. It is written as a visitor over the shared traversal engine.
package resolver

import (
	"github.com/hanmindev/blastfurnace-workspaces/internal/ast"
	"github.com/hanmindev/blastfurnace-workspaces/internal/errors"
	"github.com/hanmindev/blastfurnace-workspaces/internal/name"
)

// Result is what resolution leaves behind for later passes. Nodes are not
// enlarged; everything is a side table keyed by node identity or Name id.
type Result struct {
	// Refs maps each resolved reference path to the Name it denotes.
	Refs map[*ast.Path]name.Name
	// Defs maps each definition node to the Name bound for it.
	Defs map[*ast.Definition]name.Name
	// Binds maps each let binding to the Name bound for it.
	Binds map[*ast.LocalBind]name.Name
	// DefKinds records, per Name id, whether the definition is a struct or fn.
	DefKinds map[int]ast.DefKind
}

// Resolver resolves one file. Undefined and duplicate symbols are collected
// rather than aborting the walk, so one run reports every naming error.
type Resolver struct {
	modulePath *name.ModulePath
	ids        *name.IDSource
	scopes     []map[ast.Ident]name.Name
	result     Result
	diags      []*errors.CompileError
}

func New(modulePath *name.ModulePath, ids *name.IDSource) *Resolver {
	return &Resolver{
		modulePath: modulePath,
		ids:        ids,
		result: Result{
			Refs:     make(map[*ast.Path]name.Name),
			Defs:     make(map[*ast.Definition]name.Name),
			Binds:    make(map[*ast.LocalBind]name.Name),
			DefKinds: make(map[int]ast.DefKind),
		},
	}
}

// Run resolves the file rooted at block. On naming errors it returns the
// first one; Diagnostics holds all of them.
func (r *Resolver) Run(file *ast.Block) (Result, error) {
	r.scopes = []map[ast.Ident]name.Name{make(map[ast.Ident]name.Name)}

	// Top-level definitions are visible to each other regardless of order,
	// so they are bound before any body is walked.
	for i := range file.Stmts {
		if def, ok := file.Stmts[i].Kind.(*ast.Definition); ok {
			r.declareDefinition(def)
		}
	}

	if _, err := ast.Visit(file, r); err != nil {
		return Result{}, err
	}

	if len(r.diags) > 0 {
		return r.result, r.diags[0]
	}
	return r.result, nil
}

// Diagnostics returns every naming error found during Run.
func (r *Resolver) Diagnostics() []*errors.CompileError {
	return r.diags
}

// Apply implements ast.Visitor. Scope lifetimes do not fit a pure pre-order
// walk, so blocks and let bindings cut the automatic descent and drive their
// children explicitly.
func (r *Resolver) Apply(n ast.Node) (ast.VisitResult[struct{}], error) {
	switch x := n.(type) {
	case *ast.Block:
		r.pushScope()
		for i := range x.Stmts {
			stmt := &x.Stmts[i]
			// Nested definitions come into scope at their statement, in
			// order; forward references inside a block are not supported.
			if def, ok := stmt.Kind.(*ast.Definition); ok {
				if _, bound := r.result.Defs[def]; !bound {
					r.declareDefinition(def)
				}
			}
			if _, err := ast.Visit(stmt, r); err != nil {
				r.popScope()
				return ast.Skip[struct{}](), err
			}
		}
		r.popScope()
		return ast.Skip[struct{}](), nil

	case *ast.LocalBind:
		// The initializer sees the environment before the binding, so
		// `let x = x;` reports the outer x or an undefined symbol.
		if x.Ty != nil {
			if _, err := ast.Visit(x.Ty, r); err != nil {
				return ast.Skip[struct{}](), err
			}
		}
		if x.Init != nil {
			if _, err := ast.Visit(x.Init, r); err != nil {
				return ast.Skip[struct{}](), err
			}
		}
		bound := r.declare(x.Ident)
		r.result.Binds[x] = bound
		return ast.Skip[struct{}](), nil

	case *ast.Path:
		r.resolvePath(x)
		return ast.Skip[struct{}](), nil
	}

	return ast.Continue[struct{}](), nil
}

func (r *Resolver) declareDefinition(def *ast.Definition) {
	bound := r.declare(def.Ident)
	r.result.Defs[def] = bound
	r.result.DefKinds[bound.ID()] = def.Kind
}

func (r *Resolver) declare(ident ast.Ident) name.Name {
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[ident]; exists {
		r.diags = append(r.diags, errors.Newf(errors.CodeDuplicateSymbol,
			"%s is defined twice in the same scope", ident).
			WithContext(errors.CtxSymbol, string(ident)))
	}
	bound := name.New(string(ident), r.modulePath.Clone(), r.ids.Next())
	scope[ident] = bound
	return bound
}

func (r *Resolver) lookup(ident ast.Ident) (name.Name, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if bound, ok := r.scopes[i][ident]; ok {
			return bound, true
		}
	}
	return name.Name{}, false
}

// resolvePath binds a reference and rewrites it to its fully qualified form.
// A single-segment path is looked up through the scope stack; a qualified
// path must start with the module's own path (cross-module references arrive
// already qualified by the loader).
func (r *Resolver) resolvePath(p *ast.Path) {
	ident := p.Segments[len(p.Segments)-1].Ident
	if len(p.Segments) > 1 && !r.hasModulePrefix(p) {
		r.undefined(p)
		return
	}

	bound, ok := r.lookup(ident)
	if !ok {
		r.undefined(p)
		return
	}

	r.result.Refs[p] = bound

	qualified := bound.Path().Segments()
	segments := make([]ast.PathSegment, 0, len(qualified)+1)
	for _, seg := range qualified {
		segments = append(segments, ast.PathSegment{Ident: ast.Ident(seg)})
	}
	segments = append(segments, ast.PathSegment{Ident: ast.Ident(bound.Ident())})
	p.Segments = segments
}

func (r *Resolver) hasModulePrefix(p *ast.Path) bool {
	prefix := r.modulePath.Segments()
	if len(p.Segments)-1 != len(prefix) {
		return false
	}
	for i, seg := range prefix {
		if string(p.Segments[i].Ident) != seg {
			return false
		}
	}
	return true
}

func (r *Resolver) undefined(p *ast.Path) {
	display := name.NewPath()
	for _, seg := range p.Segments {
		display.Push(string(seg.Ident))
	}
	r.diags = append(r.diags, errors.Newf(errors.CodeUndefinedSymbol,
		"cannot find %s in this scope", display).
		WithContext(errors.CtxSymbol, display.String()))
}

func (r *Resolver) pushScope() {
	r.scopes = append(r.scopes, make(map[ast.Ident]name.Name))
}

func (r *Resolver) popScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}
