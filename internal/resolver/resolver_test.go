package resolver

import (
	"testing"

	"github.com/hanmindev/blastfurnace-workspaces/internal/ast"
	"github.com/hanmindev/blastfurnace-workspaces/internal/errors"
	"github.com/hanmindev/blastfurnace-workspaces/internal/name"
	"github.com/hanmindev/blastfurnace-workspaces/internal/parser"
)

func resolveSource(t *testing.T, src string) (*ast.Block, Result, *Resolver, error) {
	t.Helper()
	file, err := parser.ParseFile("test.bf", src)
	if err != nil {
		t.Fatal(err)
	}
	r := New(name.NewPath("root", "test"), name.NewIDSource())
	result, err := r.Run(file)
	return file, result, r, err
}

func TestResolveReference(t *testing.T) {
	src := `
fn helper() {}
fn main() {
	helper;
}
`
	file, result, _, err := resolveSource(t, src)
	if err != nil {
		t.Fatal(err)
	}

	main := file.Stmts[1].Kind.(*ast.Definition)
	ref := main.Kind.(*ast.Fn).Body.Stmts[0].Kind.(*ast.Expr).Kind.(*ast.Path)

	bound, ok := result.Refs[ref]
	if !ok {
		t.Fatal("Expected the reference to be recorded in Refs")
	}
	if bound.Ident() != "helper" {
		t.Errorf("Expected reference to helper, got %s", bound.Ident())
	}

	helperDef := file.Stmts[0].Kind.(*ast.Definition)
	if !bound.Same(result.Defs[helperDef]) {
		t.Error("Expected the reference to bind the helper definition's Name")
	}
}

func TestResolveRewritesPath(t *testing.T) {
	src := `
fn helper() {}
fn main() {
	helper;
}
`
	file, _, _, err := resolveSource(t, src)
	if err != nil {
		t.Fatal(err)
	}

	main := file.Stmts[1].Kind.(*ast.Definition)
	ref := main.Kind.(*ast.Fn).Body.Stmts[0].Kind.(*ast.Expr).Kind.(*ast.Path)

	want := []ast.Ident{"root", "test", "helper"}
	if len(ref.Segments) != len(want) {
		t.Fatalf("Expected %d segments after rewrite, got %v", len(want), ref.Segments)
	}
	for i, seg := range ref.Segments {
		if seg.Ident != want[i] {
			t.Errorf("Segment %d: expected %s, got %s", i, want[i], seg.Ident)
		}
	}
}

func TestForwardReferenceAtTopLevel(t *testing.T) {
	src := `
fn main() {
	later;
}
fn later() {}
`
	if _, _, _, err := resolveSource(t, src); err != nil {
		t.Errorf("Expected top-level forward reference to resolve, got %v", err)
	}
}

func TestUndefinedSymbol(t *testing.T) {
	src := `
fn main() {
	missing;
}
`
	_, _, r, err := resolveSource(t, src)
	if !errors.IsCode(err, errors.CodeUndefinedSymbol) {
		t.Fatalf("Expected undefined symbol error, got %v", err)
	}
	if len(r.Diagnostics()) != 1 {
		t.Errorf("Expected 1 diagnostic, got %d", len(r.Diagnostics()))
	}
}

func TestMultipleErrorsCollected(t *testing.T) {
	src := `
fn main() {
	missing_one;
	missing_two;
}
`
	_, _, r, err := resolveSource(t, src)
	if err == nil {
		t.Fatal("Expected resolution to fail")
	}
	if len(r.Diagnostics()) != 2 {
		t.Errorf("Expected both undefined symbols reported, got %d", len(r.Diagnostics()))
	}
}

func TestDuplicateDefinition(t *testing.T) {
	src := `
fn twice() {}
fn twice() {}
`
	_, _, _, err := resolveSource(t, src)
	if !errors.IsCode(err, errors.CodeDuplicateSymbol) {
		t.Errorf("Expected duplicate symbol error, got %v", err)
	}
}

func TestBlockScoping(t *testing.T) {
	src := `
fn main() {
	{
		let inner = 1;
	};
	inner;
}
`
	_, _, _, err := resolveSource(t, src)
	if !errors.IsCode(err, errors.CodeUndefinedSymbol) {
		t.Errorf("Expected inner binding to be out of scope, got %v", err)
	}
}

func TestLetShadowsOuterScope(t *testing.T) {
	src := `
fn main() {
	let x = 1;
	{
		let x = 2;
		x;
	};
}
`
	if _, _, _, err := resolveSource(t, src); err != nil {
		t.Errorf("Expected shadowing in a nested block to be legal, got %v", err)
	}
}

func TestInitializerCannotSeeItsOwnBinding(t *testing.T) {
	src := `
fn main() {
	let x = x;
}
`
	_, _, _, err := resolveSource(t, src)
	if !errors.IsCode(err, errors.CodeUndefinedSymbol) {
		t.Errorf("Expected initializer to miss its own binding, got %v", err)
	}
}

func TestStructFieldTypeResolves(t *testing.T) {
	src := `
struct Vec { x: int }
struct Wrapper { inner: Vec }
`
	_, _, _, err := resolveSource(t, src)
	if err != nil {
		t.Errorf("Expected struct name in field type to resolve, got %v", err)
	}
}

func TestQualifiedReference(t *testing.T) {
	src := `
fn helper() {}
fn main() {
	root::test::helper;
}
`
	if _, _, _, err := resolveSource(t, src); err != nil {
		t.Errorf("Expected module-qualified reference to resolve, got %v", err)
	}

	bad := `
fn helper() {}
fn main() {
	other::module::helper;
}
`
	file, _ := parser.ParseFile("test.bf", bad)
	r := New(name.NewPath("root", "test"), name.NewIDSource())
	if _, err := r.Run(file); !errors.IsCode(err, errors.CodeUndefinedSymbol) {
		t.Errorf("Expected foreign qualifier to fail, got %v", err)
	}
}

func TestUniqueIDsAcrossDefinitions(t *testing.T) {
	src := `
fn a() {}
fn b() {}
fn main() {
	let c = 1;
}
`
	file, result, _, err := resolveSource(t, src)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[int]bool)
	for _, bound := range result.Defs {
		if seen[bound.ID()] {
			t.Errorf("Duplicate id %d", bound.ID())
		}
		seen[bound.ID()] = true
	}
	for _, bound := range result.Binds {
		if seen[bound.ID()] {
			t.Errorf("Duplicate id %d", bound.ID())
		}
		seen[bound.ID()] = true
	}
	if len(seen) != 4 {
		t.Errorf("Expected 4 distinct names, got %d", len(seen))
	}
	_ = file
}
