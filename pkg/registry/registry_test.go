package registry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testRun(id string, started time.Time) Run {
	return Run{
		ID:              id,
		Mode:            "fixed",
		Canvases:        []string{"fhd"},
		ImagesCreated:   3,
		ImagesRequested: 4,
		Dropped:         1,
		Seed:            42,
		StartedAt:       started,
		FinishedAt:      started.Add(2 * time.Second),
		DurationMS:      2000,
	}
}

func TestFileStoreSaveAndGet(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	defer store.Close()

	want := testRun("run-1", time.Date(2024, 11, 6, 12, 0, 0, 0, time.UTC))
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for an existing run")
	}
	if got.ID != want.ID || got.Mode != want.Mode {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
	if got.ImagesCreated != 3 || got.ImagesRequested != 4 || got.Dropped != 1 {
		t.Errorf("counters not preserved: %+v", got)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	got, err := store.Get(ctx, "nope")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != nil {
		t.Errorf("Get for a missing run should return nil, got %+v", got)
	}
}

func TestFileStoreListSortsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	base := time.Date(2024, 11, 6, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if err := store.Save(ctx, testRun(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("List returned %d runs, want 3", len(runs))
	}
	wantOrder := []string{"new", "mid", "old"}
	for i, want := range wantOrder {
		if runs[i].ID != want {
			t.Errorf("runs[%d].ID = %s, want %s", i, runs[i].ID, want)
		}
	}

	// Limit trims after sorting
	runs, err = store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Errorf("List(2) = %v, want [new mid]", runs)
	}
}

func TestFileStoreListSkipsCorruptFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	if err := store.Save(ctx, testRun("good", time.Now())); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignore"), 0600); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "good" {
		t.Errorf("List = %v, want the single good run", runs)
	}
}

func TestFileStorePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	if store.Path() != dir {
		t.Errorf("Path() = %s, want %s", store.Path(), dir)
	}
}

func TestRunJSONShape(t *testing.T) {
	run := testRun("abc", time.Date(2024, 11, 6, 12, 0, 0, 0, time.UTC))
	data, err := json.Marshal(run)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	for _, key := range []string{
		"id", "mode", "canvases", "images_created", "images_requested",
		"dropped", "seed", "started_at", "finished_at", "duration_ms",
	} {
		if _, ok := fields[key]; !ok {
			t.Errorf("serialized run missing %q field", key)
		}
	}
}
