package ast

// This file is the traversal engine shared by every compiler pass. A pass
// implements Visitor for the node kinds it cares about; Visit drives it over
// the tree so no pass ever hand-writes its own descent.

// Node identifies the concrete node currently handed to a visitor. The set is
// closed: exactly the kinds defined in ast.go implement it, always as
// pointers, so a visitor may mutate the node in place.
type Node interface {
	astNode()
}

func (*Ident) astNode()       {}
func (*Path) astNode()        {}
func (*PathSegment) astNode() {}
func (*Definition) astNode()  {}
func (*Ty) astNode()          {}
func (*Struct) astNode()      {}
func (*StructField) astNode() {}
func (*Fn) astNode()          {}
func (*FnSig) astNode()       {}
func (*FnHeader) astNode()    {}
func (*FnDecl) astNode()      {}
func (*Param) astNode()       {}
func (*Expr) astNode()        {}
func (*Constant) astNode()    {}
func (*LocalBind) astNode()   {}
func (*Statement) astNode()   {}
func (*Block) astNode()       {}

// VisitResult is what Apply reports back to the traversal: whether to descend
// into the node's children, and an optional payload for the caller of Visit.
type VisitResult[K any] struct {
	Descend bool
	Value   *K
}

// Continue descends into children with no payload. This is the behavior a
// visitor should fall back to for node kinds it does not care about.
func Continue[K any]() VisitResult[K] {
	return VisitResult[K]{Descend: true}
}

// ContinueWith descends into children and carries a payload.
func ContinueWith[K any](value K) VisitResult[K] {
	return VisitResult[K]{Descend: true, Value: &value}
}

// Skip cuts the subtree: children are not visited.
func Skip[K any]() VisitResult[K] {
	return VisitResult[K]{}
}

// SkipWith cuts the subtree and carries a payload.
func SkipWith[K any](value K) VisitResult[K] {
	return VisitResult[K]{Value: &value}
}

// Visitor is one compiler pass. Apply is called once per visited node, before
// the node's children. Returning an error aborts the whole traversal
// immediately; the error reaches the original Visit caller unchanged.
type Visitor[K any] interface {
	Apply(n Node) (VisitResult[K], error)
}

// Visit walks the tree rooted at n in depth-first, children-after-self order,
// applying v at every node. Child order is fixed per kind and matches the
// field order of the structs in ast.go.
//
// The returned payload is the one Apply produced for n itself; child payloads
// are never merged. A pass that aggregates across nodes keeps its own
// accumulator state.
func Visit[K any](n Node, v Visitor[K]) (*K, error) {
	res, err := v.Apply(n)
	if err != nil {
		return nil, err
	}
	if !res.Descend {
		return res.Value, nil
	}

	switch x := n.(type) {
	case *Ident, *PathSegment, *FnHeader, *Constant:
		// leaves

	case *Path:
		for i := range x.Segments {
			if _, err := Visit(&x.Segments[i], v); err != nil {
				return nil, err
			}
		}

	case *Definition:
		switch k := x.Kind.(type) {
		case *Struct:
			if _, err := Visit(k, v); err != nil {
				return nil, err
			}
		case *Fn:
			if _, err := Visit(k, v); err != nil {
				return nil, err
			}
		default:
			panic("unreachable")
		}

	case *Ty:
		// Only path types have a child; the primitive kinds are leaves.
		if x.Kind == TyPath {
			if _, err := Visit(x.Path, v); err != nil {
				return nil, err
			}
		}

	case *Struct:
		for i := range x.Fields {
			if _, err := Visit(&x.Fields[i], v); err != nil {
				return nil, err
			}
		}

	case *StructField:
		if _, err := Visit(&x.Ident, v); err != nil {
			return nil, err
		}
		if _, err := Visit(x.Ty, v); err != nil {
			return nil, err
		}

	case *Fn:
		if _, err := Visit(&x.Sig, v); err != nil {
			return nil, err
		}
		if x.Body != nil {
			if _, err := Visit(x.Body, v); err != nil {
				return nil, err
			}
		}

	case *FnSig:
		if _, err := Visit(&x.Header, v); err != nil {
			return nil, err
		}
		if _, err := Visit(x.Decl, v); err != nil {
			return nil, err
		}

	case *FnDecl:
		for i := range x.Inputs {
			if _, err := Visit(&x.Inputs[i], v); err != nil {
				return nil, err
			}
		}
		if _, err := Visit(&x.Output, v); err != nil {
			return nil, err
		}

	case *Param:
		if _, err := Visit(x.Ty, v); err != nil {
			return nil, err
		}

	case *Expr:
		switch k := x.Kind.(type) {
		case *Path:
			if _, err := Visit(k, v); err != nil {
				return nil, err
			}
		case *Constant:
			if _, err := Visit(k, v); err != nil {
				return nil, err
			}
		case *Block:
			if _, err := Visit(k, v); err != nil {
				return nil, err
			}
		default:
			panic("unreachable")
		}

	case *LocalBind:
		if _, err := Visit(&x.Ident, v); err != nil {
			return nil, err
		}
		if x.Ty != nil {
			if _, err := Visit(x.Ty, v); err != nil {
				return nil, err
			}
		}
		if x.Init != nil {
			if _, err := Visit(x.Init, v); err != nil {
				return nil, err
			}
		}

	case *Statement:
		switch k := x.Kind.(type) {
		case *LocalBind:
			if _, err := Visit(k, v); err != nil {
				return nil, err
			}
		case *Definition:
			if _, err := Visit(k, v); err != nil {
				return nil, err
			}
		case *Expr:
			if _, err := Visit(k, v); err != nil {
				return nil, err
			}
		default:
			panic("unreachable")
		}

	case *Block:
		for i := range x.Stmts {
			if _, err := Visit(&x.Stmts[i], v); err != nil {
				return nil, err
			}
		}

	default:
		panic("unreachable")
	}

	return res.Value, nil
}
