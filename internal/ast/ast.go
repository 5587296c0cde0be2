// Package ast defines the syntax tree for the blastfurnace language together
// with the visitor protocol every compiler pass uses to walk and mutate it.
//
// The node set is closed. Anything added here must also be handled in
// visitor.go so traversal stays exhaustive.
package ast

// Ident is raw name text as written in source.
type Ident string

// Path is a reference like `root::foo::Bar`, split into segments.
type Path struct {
	Segments []PathSegment
}

// PathSegment is one identifier of a path, e.g. `foo` in `root::foo::Bar`.
type PathSegment struct {
	Ident Ident
}

// Definition is a named top-level or nested definition (`struct` or `fn`).
type Definition struct {
	Ident Ident
	Kind  DefKind
}

// DefKind is the closed set of definition kinds. Implemented by *Struct and
// *Fn.
type DefKind interface {
	defKind()
}

func (*Struct) defKind() {}
func (*Fn) defKind()     {}

// TyKind tags the primitive type kinds plus path-named types.
type TyKind int

const (
	TyVoid TyKind = iota
	TyInt
	TyFloat
	TyBool
	TyString
	TyPath
)

func (k TyKind) String() string {
	switch k {
	case TyVoid:
		return "void"
	case TyInt:
		return "int"
	case TyFloat:
		return "float"
	case TyBool:
		return "bool"
	case TyString:
		return "string"
	case TyPath:
		return "path"
	}
	return "invalid"
}

// Ty is a type annotation. Path is set iff Kind is TyPath.
type Ty struct {
	Kind TyKind
	Path *Path
}

// Struct is a struct definition body, e.g. `struct Foo { a: int }`.
type Struct struct {
	Fields []StructField
}

// StructField is one `ident: ty` pair of a struct body.
type StructField struct {
	Ident Ident
	Ty    *Ty
}

// Fn is a function definition. A nil Body means a declaration without a body.
type Fn struct {
	Sig  FnSig
	Body *Block
}

// FnSig is a function's full signature: header flags plus the declaration.
type FnSig struct {
	Header FnHeader
	Decl   *FnDecl
}

// FnHeader carries the modifier flags in front of `fn`, e.g. `const rec fn`.
type FnHeader struct {
	Rec       bool
	Constness bool
}

// FnDecl is the parameter list and return type, e.g. `fn foo(bar: baz) -> qux`.
type FnDecl struct {
	Inputs []Param
	Output Ty
}

// Param is one function parameter. Only its type participates in the tree.
type Param struct {
	Ty *Ty
}

// Expr is an expression node. Kind is exactly one of *Path (a variable
// reference), *Constant or *Block.
type Expr struct {
	Kind ExprKind
}

// ExprKind is the closed set of expression kinds.
type ExprKind interface {
	exprKind()
}

func (*Path) exprKind()     {}
func (*Constant) exprKind() {}
func (*Block) exprKind()    {}

// Constant is a literal, e.g. `5`, `5.0`, `true`, `"foo"`.
type Constant struct {
	Kind ConstantKind
}

// ConstantKind is the closed set of literal kinds.
type ConstantKind interface {
	constantKind()
}

// IntConst is an integer literal.
type IntConst int64

// FloatConst is a floating point literal.
type FloatConst float64

// BoolConst is `true` or `false`.
type BoolConst bool

// StringConst is a string literal, unquoted.
type StringConst string

func (IntConst) constantKind()    {}
func (FloatConst) constantKind()  {}
func (BoolConst) constantKind()   {}
func (StringConst) constantKind() {}

// LocalBind is a `let` binding. Ty is nil when the type is to be inferred;
// Init is nil for a plain declaration (`let x;` vs `let x = e;`).
type LocalBind struct {
	Ident Ident
	Ty    *Ty
	Init  *Expr
}

// Statement is one statement of a block. Kind is exactly one of *LocalBind,
// *Definition or *Expr.
type Statement struct {
	Kind StmtKind
}

// StmtKind is the closed set of statement kinds.
type StmtKind interface {
	stmtKind()
}

func (*LocalBind) stmtKind()  {}
func (*Definition) stmtKind() {}
func (*Expr) stmtKind()       {}

// Block is a `{ ... }` sequence of statements. It also serves as the root of
// a parsed source file, whose statements are all definitions.
type Block struct {
	Stmts []Statement
}
