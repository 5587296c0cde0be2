package lowering

import (
	"strings"
	"testing"

	"github.com/hanmindev/blastfurnace-workspaces/internal/mcf"
	"github.com/hanmindev/blastfurnace-workspaces/internal/name"
	"github.com/hanmindev/blastfurnace-workspaces/internal/parser"
	"github.com/hanmindev/blastfurnace-workspaces/internal/resolver"
)

func lowerSource(t *testing.T, src string) *mcf.File {
	t.Helper()
	file, err := parser.ParseFile("test.bf", src)
	if err != nil {
		t.Fatal(err)
	}
	modulePath := name.NewPath("root", "test")
	res, err := resolver.New(modulePath, name.NewIDSource()).Run(file)
	if err != nil {
		t.Fatal(err)
	}
	out, err := New("bf", modulePath, res).Run(file)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func commands(b mcf.Block) []string {
	var out []string
	for _, instruction := range b.Instructions {
		out = append(out, instruction.String())
	}
	return out
}

func TestLowerConstants(t *testing.T) {
	out := lowerSource(t, `
fn main() {
	let a = 5;
	let b = true;
	let c = "hi";
	let d = 2.5;
}
`)
	if len(out.Functions) != 1 {
		t.Fatalf("Expected 1 function, got %d", len(out.Functions))
	}

	got := commands(out.Functions[0].Block)
	want := []string{
		"scoreboard players set a_1 bf.vars 5",
		"scoreboard players set b_2 bf.vars 1",
		`data modify storage bf:vars c_3 set value "hi"`,
		"data modify storage bf:vars d_4 set value 2.5f",
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d instructions, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Instruction %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestLowerCall(t *testing.T) {
	out := lowerSource(t, `
fn helper() {}
fn main() {
	helper;
}
`)
	if len(out.Functions) != 2 {
		t.Fatalf("Expected 2 functions, got %d", len(out.Functions))
	}

	main := out.Functions[1]
	if main.Name != "main_1" {
		t.Errorf("Expected mangled name main_1, got %s", main.Name)
	}
	got := main.Block.Instructions[0].String()
	if got != "function bf:root/test/helper_0 " {
		t.Errorf("Expected function call, got %q", got)
	}
}

func TestLowerRecCallIsGuarded(t *testing.T) {
	out := lowerSource(t, `
rec fn loop() {
	loop;
}
`)
	got := out.Functions[0].Block.Instructions[0].String()
	if !strings.HasPrefix(got, "execute if score #depth bf.sys matches ..16 run") {
		t.Errorf("Expected recursion guard chain, got %q", got)
	}
	if !strings.Contains(got, "function bf:root/test/loop_0") {
		t.Errorf("Expected guarded call, got %q", got)
	}
}

func TestLowerNestedFn(t *testing.T) {
	out := lowerSource(t, `
fn outer() {
	fn inner() {
		say_hello;
	}
	inner;
}
fn say_hello() {
	"hello";
}
`)
	names := make(map[string]bool)
	for _, function := range out.Functions {
		names[function.Name] = true
	}
	for _, want := range []string{"outer_0", "inner_2", "say_hello_1"} {
		if !names[want] {
			t.Errorf("Expected function %s to be emitted, have %v", want, names)
		}
	}
}

func TestLowerSayAndBlocks(t *testing.T) {
	out := lowerSource(t, `
fn main() {
	"hello world";
	{
		42;
	};
}
`)
	got := commands(out.Functions[0].Block)
	if got[0] != "say hello world" {
		t.Errorf("Expected say command, got %q", got[0])
	}
	if got[1] != "{\nsay 42\n}" {
		t.Errorf("Expected nested block, got %q", got[1])
	}
}

func TestStructsEmitNothing(t *testing.T) {
	out := lowerSource(t, `
struct Vec { x: int }
fn ping();
`)
	if len(out.Functions) != 0 {
		t.Errorf("Expected no functions for structs and bodyless fns, got %d", len(out.Functions))
	}
}

func TestFilePathIsModulePath(t *testing.T) {
	out := lowerSource(t, `fn main() {}`)
	if out.Path.String() != "root::test" {
		t.Errorf("Expected file path root::test, got %s", out.Path)
	}
}
