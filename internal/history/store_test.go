package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSaveAndLoadBuilds(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	session := uuid.NewString()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	builds := []Build{
		{SessionID: session, Timestamp: base, FileCount: 2, FunctionCount: 5, ErrorCount: 0, Duration: 40 * time.Millisecond, Trigger: "once"},
		{SessionID: session, Timestamp: base.Add(time.Minute), FileCount: 2, FunctionCount: 4, ErrorCount: 1, Duration: 35 * time.Millisecond, Trigger: "watch"},
	}
	for _, b := range builds {
		if err := store.SaveBuild(b); err != nil {
			t.Fatalf("SaveBuild failed: %v", err)
		}
	}

	loaded, err := store.RecentBuilds(10)
	if err != nil {
		t.Fatalf("RecentBuilds failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 builds, got %d", len(loaded))
	}

	// Newest first.
	if loaded[0].ErrorCount != 1 || loaded[0].Trigger != "watch" {
		t.Errorf("Expected newest build first, got %+v", loaded[0])
	}
	if loaded[1].FunctionCount != 5 {
		t.Errorf("Expected function count 5, got %d", loaded[1].FunctionCount)
	}
	if loaded[1].Duration != 40*time.Millisecond {
		t.Errorf("Expected duration 40ms, got %s", loaded[1].Duration)
	}
}

func TestSaveBuildUpsert(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	build := Build{
		SessionID:  uuid.NewString(),
		Timestamp:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		ErrorCount: 3,
	}
	if err := store.SaveBuild(build); err != nil {
		t.Fatal(err)
	}

	build.ErrorCount = 0
	build.FunctionCount = 7
	if err := store.SaveBuild(build); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.RecentBuilds(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected upsert to keep 1 row, got %d", len(loaded))
	}
	if loaded[0].ErrorCount != 0 || loaded[0].FunctionCount != 7 {
		t.Errorf("Expected updated counts, got %+v", loaded[0])
	}
}

func TestOpenRejectsDirectory(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("Expected error opening directory as history path")
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("Expected error for empty history path")
	}
}
