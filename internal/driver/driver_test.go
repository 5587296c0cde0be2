// # internal/driver/driver_test.go
package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hanmindev/blastfurnace-workspaces/internal/config"
	"github.com/hanmindev/blastfurnace-workspaces/internal/errors"
)

func testConfig(srcDir, outDir string) *config.Config {
	cfg := &config.Config{}
	cfg.Pack.Name = "test"
	cfg.Pack.Namespace = "bf"
	cfg.Pack.Description = "test pack"
	cfg.Pack.Format = 48
	cfg.SourceRoots = []string{srcDir}
	cfg.Exclude.Dirs = []string{".git"}
	cfg.Exclude.Files = []string{"*.skip.bf"}
	cfg.Output.Dir = outDir
	return cfg
}

func TestCompileOnce(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	src := `
fn greet() {
    "hello";
}

fn main() {
    let x: int = 1;
    greet;
}
`
	if err := os.WriteFile(filepath.Join(srcDir, "main.bf"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := New(testConfig(srcDir, outDir), nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := d.CompileOnce("once")
	if err != nil {
		t.Fatalf("CompileOnce failed: %v", err)
	}
	if result.Failed() {
		t.Fatalf("Expected clean build, got diagnostics: %v", result.Diagnostics)
	}
	if result.Files != 1 {
		t.Errorf("Expected 1 file, got %d", result.Files)
	}
	if result.Functions != 2 {
		t.Errorf("Expected 2 functions, got %d", result.Functions)
	}

	if _, err := os.Stat(filepath.Join(outDir, "pack.mcmeta")); err != nil {
		t.Errorf("Expected pack.mcmeta: %v", err)
	}

	mainPath := filepath.Join(outDir, "data", "bf", "function", "root", "main", "main_1.mcfunction")
	data, err := os.ReadFile(mainPath)
	if err != nil {
		t.Fatalf("Expected compiled main function: %v", err)
	}
	want := "scoreboard players set x_2 bf.vars 1\nfunction bf:root/main/greet_0\n"
	if string(data) != want {
		t.Errorf("Expected %q, got %q", want, data)
	}

	greetPath := filepath.Join(outDir, "data", "bf", "function", "root", "main", "greet_0.mcfunction")
	data, err = os.ReadFile(greetPath)
	if err != nil {
		t.Fatalf("Expected compiled greet function: %v", err)
	}
	if string(data) != "say hello\n" {
		t.Errorf("Expected say hello, got %q", data)
	}
}

func TestCompileOnceCollectsDiagnostics(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	good := "fn ok() {\n    1;\n}\n"
	bad := "fn broken() {\n    missing;\n}\n"
	if err := os.WriteFile(filepath.Join(srcDir, "good.bf"), []byte(good), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "bad.bf"), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := New(testConfig(srcDir, outDir), nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := d.CompileOnce("once")
	if err != nil {
		t.Fatalf("CompileOnce failed: %v", err)
	}

	if !result.Failed() {
		t.Fatal("Expected diagnostics for undefined symbol")
	}
	if !errors.IsCode(result.Diagnostics[0], errors.CodeUndefinedSymbol) {
		t.Errorf("Expected UNDEFINED_SYMBOL, got %v", result.Diagnostics[0])
	}

	// The clean file still compiles.
	if _, err := os.Stat(filepath.Join(outDir, "data", "bf", "function", "root", "good", "ok_0.mcfunction")); err != nil {
		t.Errorf("Expected good file to compile despite sibling errors: %v", err)
	}
	// The broken file emits nothing.
	if _, err := os.Stat(filepath.Join(outDir, "data", "bf", "function", "root", "bad")); err == nil {
		t.Error("Expected no output for file with diagnostics")
	}
}

func TestScanSourcesRespectsExcludes(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	files := map[string]string{
		"keep.bf":          "fn keep() {}\n",
		"scratch.skip.bf":  "fn skipped() {}\n",
		".git/ignored.bf":  "fn ignored() {}\n",
		"notes.txt":        "not source",
		"nested/module.bf": "fn nested() {}\n",
	}
	for rel, content := range files {
		path := filepath.Join(srcDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	d, err := New(testConfig(srcDir, outDir), nil)
	if err != nil {
		t.Fatal(err)
	}

	sources, err := d.scanSources()
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d: %v", len(sources), sources)
	}

	modules := make(map[string]bool)
	for _, s := range sources {
		modules[s.modulePath.String()] = true
	}
	if !modules["root::keep"] || !modules["root::nested::module"] {
		t.Errorf("Expected modules root::keep and root::nested::module, got %v", modules)
	}
}

func TestModulePathFor(t *testing.T) {
	if got := modulePathFor("main.bf").String(); got != "root::main" {
		t.Errorf("Expected root::main, got %s", got)
	}
	if got := modulePathFor(filepath.Join("a", "b", "c.bf")).String(); got != "root::a::b::c" {
		t.Errorf("Expected root::a::b::c, got %s", got)
	}
}
