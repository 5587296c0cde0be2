// Package typecheck verifies type annotations over a resolved tree. It runs
// as a visitor and keeps all of its conclusions in a side table keyed by Name
// id, never on the nodes themselves.
package typecheck

import (
	"github.com/hanmindev/blastfurnace-workspaces/internal/ast"
	"github.com/hanmindev/blastfurnace-workspaces/internal/errors"
	"github.com/hanmindev/blastfurnace-workspaces/internal/resolver"
)

// Checker checks one resolved file. Type errors are collected across the
// whole walk; the first one is returned at the end.
type Checker struct {
	res   resolver.Result
	types map[int]ast.TyKind
	diags []*errors.CompileError
}

func New(res resolver.Result) *Checker {
	return &Checker{res: res, types: make(map[int]ast.TyKind)}
}

// Run checks the file rooted at block.
func (c *Checker) Run(file *ast.Block) error {
	if _, err := ast.Visit(file, c); err != nil {
		return err
	}
	if len(c.diags) > 0 {
		return c.diags[0]
	}
	return nil
}

// Diagnostics returns every type error found during Run.
func (c *Checker) Diagnostics() []*errors.CompileError {
	return c.diags
}

// TypeOf reports the checked type for a resolved Name id.
func (c *Checker) TypeOf(id int) (ast.TyKind, bool) {
	kind, ok := c.types[id]
	return kind, ok
}

// Apply implements ast.Visitor.
func (c *Checker) Apply(n ast.Node) (ast.VisitResult[struct{}], error) {
	switch x := n.(type) {
	case *ast.LocalBind:
		c.checkLocalBind(x)
	case *ast.StructField:
		c.checkNamedType(x.Ty)
	case *ast.Param:
		c.checkNamedType(x.Ty)
	case *ast.FnDecl:
		c.checkNamedType(&x.Output)
	}
	return ast.Continue[struct{}](), nil
}

func (c *Checker) checkLocalBind(bind *ast.LocalBind) {
	bound, ok := c.res.Binds[bind]
	if !ok {
		// Unresolved binding, resolution already reported it.
		return
	}

	var declared ast.TyKind
	hasDeclared := bind.Ty != nil
	if hasDeclared {
		declared = bind.Ty.Kind
		c.checkNamedType(bind.Ty)
	}

	if bind.Init == nil {
		if hasDeclared {
			c.types[bound.ID()] = declared
		}
		return
	}

	inferred, known := c.exprType(bind.Init)
	if !known {
		if hasDeclared {
			c.types[bound.ID()] = declared
		}
		return
	}

	if hasDeclared && declared != inferred {
		c.diags = append(c.diags, errors.Newf(errors.CodeTypeMismatch,
			"let %s declared as %s but initialized with %s", bind.Ident, declared, inferred).
			WithContext(errors.CtxSymbol, string(bind.Ident)))
		c.types[bound.ID()] = declared
		return
	}

	c.types[bound.ID()] = inferred
}

// checkNamedType verifies that a path type names a struct, not a function.
func (c *Checker) checkNamedType(ty *ast.Ty) {
	if ty == nil || ty.Kind != ast.TyPath {
		return
	}
	bound, ok := c.res.Refs[ty.Path]
	if !ok {
		return
	}
	if _, isStruct := c.res.DefKinds[bound.ID()].(*ast.Struct); !isStruct {
		c.diags = append(c.diags, errors.Newf(errors.CodeTypeMismatch,
			"%s is not a type", bound.Ident()).
			WithContext(errors.CtxSymbol, bound.Ident()))
	}
}

// exprType computes an expression's type where it is knowable without full
// inference: literals, already-typed variables, and blocks (always void).
func (c *Checker) exprType(e *ast.Expr) (ast.TyKind, bool) {
	switch k := e.Kind.(type) {
	case *ast.Constant:
		switch k.Kind.(type) {
		case ast.IntConst:
			return ast.TyInt, true
		case ast.FloatConst:
			return ast.TyFloat, true
		case ast.BoolConst:
			return ast.TyBool, true
		case ast.StringConst:
			return ast.TyString, true
		}
	case *ast.Path:
		if bound, ok := c.res.Refs[k]; ok {
			if kind, typed := c.types[bound.ID()]; typed {
				return kind, true
			}
		}
	case *ast.Block:
		return ast.TyVoid, true
	}
	return ast.TyVoid, false
}
