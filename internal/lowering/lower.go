// Package lowering turns a resolved, checked syntax tree into mcfunction
// instruction files. It is the last visitor-driven pass in the pipeline.
package lowering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hanmindev/blastfurnace-workspaces/internal/ast"
	"github.com/hanmindev/blastfurnace-workspaces/internal/errors"
	"github.com/hanmindev/blastfurnace-workspaces/internal/mcf"
	"github.com/hanmindev/blastfurnace-workspaces/internal/name"
	"github.com/hanmindev/blastfurnace-workspaces/internal/resolver"
)

// Depth budget for rec function call guards.
const maxRecursionDepth = 16

type Lowerer struct {
	namespace  string
	modulePath *name.ModulePath
	res        resolver.Result
	out        *mcf.File
}

func New(namespace string, modulePath *name.ModulePath, res resolver.Result) *Lowerer {
	return &Lowerer{namespace: namespace, modulePath: modulePath, res: res}
}

// Run lowers every function definition in the file into an mcf.Function.
// Struct definitions and declaration-only fns produce no code.
func (l *Lowerer) Run(file *ast.Block) (*mcf.File, error) {
	l.out = &mcf.File{Path: l.modulePath.Clone()}
	if _, err := ast.Visit(file, l); err != nil {
		return nil, err
	}
	return l.out, nil
}

// Apply implements ast.Visitor. Definitions are lowered wholesale, so the
// automatic descent is always cut; nested functions are picked up while
// their enclosing body is lowered.
func (l *Lowerer) Apply(n ast.Node) (ast.VisitResult[struct{}], error) {
	if def, ok := n.(*ast.Definition); ok {
		if err := l.lowerDefinition(def); err != nil {
			return ast.Skip[struct{}](), err
		}
		return ast.Skip[struct{}](), nil
	}
	return ast.Continue[struct{}](), nil
}

func (l *Lowerer) lowerDefinition(def *ast.Definition) error {
	fn, ok := def.Kind.(*ast.Fn)
	if !ok || fn.Body == nil {
		return nil
	}

	bound, ok := l.res.Defs[def]
	if !ok {
		return errors.Newf(errors.CodeInternal, "lowering unresolved definition %s", def.Ident)
	}

	block, err := l.lowerBlock(fn.Body)
	if err != nil {
		return err
	}
	l.out.Functions = append(l.out.Functions, mcf.Function{
		Name:  mangle(bound),
		Block: block,
	})
	return nil
}

func (l *Lowerer) lowerBlock(b *ast.Block) (mcf.Block, error) {
	var out mcf.Block
	for i := range b.Stmts {
		switch k := b.Stmts[i].Kind.(type) {
		case *ast.Definition:
			// Nested fns become their own mcfunction, not inline code.
			if err := l.lowerDefinition(k); err != nil {
				return mcf.Block{}, err
			}
		case *ast.LocalBind:
			instructions, err := l.lowerLocalBind(k)
			if err != nil {
				return mcf.Block{}, err
			}
			out.Instructions = append(out.Instructions, instructions...)
		case *ast.Expr:
			instruction, err := l.lowerExprStmt(k)
			if err != nil {
				return mcf.Block{}, err
			}
			if instruction != nil {
				out.Instructions = append(out.Instructions, *instruction)
			}
		}
	}
	return out, nil
}

func (l *Lowerer) lowerLocalBind(bind *ast.LocalBind) ([]mcf.Instruction, error) {
	if bind.Init == nil {
		return nil, nil
	}
	bound, ok := l.res.Binds[bind]
	if !ok {
		return nil, errors.Newf(errors.CodeInternal, "lowering unresolved binding %s", bind.Ident)
	}

	switch k := bind.Init.Kind.(type) {
	case *ast.Constant:
		return []mcf.Instruction{l.storeConstant(mangle(bound), k)}, nil
	case *ast.Path:
		ref, ok := l.res.Refs[k]
		if !ok {
			return nil, errors.Newf(errors.CodeInternal, "lowering unresolved reference in %s", bind.Ident)
		}
		cmd := fmt.Sprintf("scoreboard players operation %s %s = %s %s",
			mangle(bound), l.objective(), mangle(ref), l.objective())
		return []mcf.Instruction{{Kind: mcf.Command(cmd)}}, nil
	case *ast.Block:
		inner, err := l.lowerBlock(k)
		if err != nil {
			return nil, err
		}
		return []mcf.Instruction{{Kind: mcf.SubBlock{Block: inner}}}, nil
	}
	panic("unreachable")
}

func (l *Lowerer) lowerExprStmt(e *ast.Expr) (*mcf.Instruction, error) {
	switch k := e.Kind.(type) {
	case *ast.Constant:
		return &mcf.Instruction{Kind: mcf.Command("say " + formatConstant(k))}, nil

	case *ast.Path:
		ref, ok := l.res.Refs[k]
		if !ok {
			return nil, errors.Newf(errors.CodeInternal, "lowering unresolved reference")
		}
		if fn, isFn := l.res.DefKinds[ref.ID()].(*ast.Fn); isFn {
			call := mcf.Instruction{Kind: mcf.Call{
				Prefix: "function",
				Target: l.functionTarget(ref),
			}}
			if fn.Sig.Header.Rec {
				// Self-recursive functions only run under a depth budget.
				guard := mcf.Instruction{Kind: mcf.Command(fmt.Sprintf(
					"execute if score #depth %s.sys matches ..%d run",
					l.namespace, maxRecursionDepth))}
				return &mcf.Instruction{Kind: mcf.Chain{First: &guard, Second: &call}}, nil
			}
			return &call, nil
		}
		echo := fmt.Sprintf("scoreboard players get %s %s", mangle(ref), l.objective())
		return &mcf.Instruction{Kind: mcf.Command(echo)}, nil

	case *ast.Block:
		inner, err := l.lowerBlock(k)
		if err != nil {
			return nil, err
		}
		return &mcf.Instruction{Kind: mcf.SubBlock{Block: inner}}, nil
	}
	panic("unreachable")
}

func (l *Lowerer) storeConstant(target string, c *ast.Constant) mcf.Instruction {
	var cmd string
	switch k := c.Kind.(type) {
	case ast.IntConst:
		cmd = fmt.Sprintf("scoreboard players set %s %s %d", target, l.objective(), int64(k))
	case ast.BoolConst:
		value := 0
		if k {
			value = 1
		}
		cmd = fmt.Sprintf("scoreboard players set %s %s %d", target, l.objective(), value)
	case ast.FloatConst:
		cmd = fmt.Sprintf("data modify storage %s:vars %s set value %sf",
			l.namespace, target, strconv.FormatFloat(float64(k), 'g', -1, 64))
	case ast.StringConst:
		cmd = fmt.Sprintf("data modify storage %s:vars %s set value %q", l.namespace, target, string(k))
	default:
		panic("unreachable")
	}
	return mcf.Instruction{Kind: mcf.Command(cmd)}
}

func formatConstant(c *ast.Constant) string {
	switch k := c.Kind.(type) {
	case ast.IntConst:
		return strconv.FormatInt(int64(k), 10)
	case ast.FloatConst:
		return strconv.FormatFloat(float64(k), 'g', -1, 64)
	case ast.BoolConst:
		return strconv.FormatBool(bool(k))
	case ast.StringConst:
		return string(k)
	}
	panic("unreachable")
}

func (l *Lowerer) objective() string {
	return l.namespace + ".vars"
}

// functionTarget renders the datapack-wide address of a resolved function,
// e.g. bf:root/main/helper_3.
func (l *Lowerer) functionTarget(bound name.Name) string {
	segments := bound.Path().Segments()
	for i, seg := range segments {
		segments[i] = strings.ToLower(seg)
	}
	return l.namespace + ":" + strings.Join(append(segments, mangle(bound)), "/")
}

// mangle renders a resolved name as an mcfunction-safe identifier. The id
// suffix keeps shadowed bindings distinct.
func mangle(bound name.Name) string {
	return fmt.Sprintf("%s_%d", strings.ToLower(bound.Ident()), bound.ID())
}
