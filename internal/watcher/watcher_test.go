// # internal/watcher/watcher_test.go
package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "watchertest")
	defer os.RemoveAll(tmpDir)

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(100*time.Millisecond, 100, 100,
		[]string{"exclude_dir"}, []string{"*.exclude.bf"}, func(paths []string) {
			changedFiles <- paths
		})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	err = w.Watch([]string{tmpDir})
	if err != nil {
		t.Fatal(err)
	}

	// Create a source file
	testFile := filepath.Join(tmpDir, "main.bf")
	os.WriteFile(testFile, []byte("fn main() {}"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Non-source files never trigger events
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("not source"), 0644)

	// Test exclusion patterns
	excludeFile := filepath.Join(tmpDir, "scratch.exclude.bf")
	os.WriteFile(excludeFile, []byte("fn scratch() {}"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			base := filepath.Base(p)
			if base == "scratch.exclude.bf" || base == "notes.txt" {
				t.Errorf("Excluded file %s triggered event", base)
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "newdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "nested.bf")
	if err := os.WriteFile(subFile, []byte("fn nested() {}"), 0644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
					break
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for nested file event in newly created directory")
		}
	}
}

func TestWatcherRateLimit(t *testing.T) {
	tmpDir := t.TempDir()

	calls := make(chan []string, 16)
	w, err := NewWatcher(20*time.Millisecond, 1, 1, nil, nil, func(paths []string) {
		calls <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	first := filepath.Join(tmpDir, "first.bf")
	os.WriteFile(first, []byte("fn first() {}"), 0644)

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first rebuild notification")
	}

	// A change arriving right after the burst is spent must still be
	// delivered once the limiter refills, not dropped.
	second := filepath.Join(tmpDir, "second.bf")
	os.WriteFile(second, []byte("fn second() {}"), 0644)

	select {
	case paths := <-calls:
		found := false
		for _, p := range paths {
			if p == second {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected deferred flush to contain %s, got %v", second, paths)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for rate limited rebuild notification")
	}
}
