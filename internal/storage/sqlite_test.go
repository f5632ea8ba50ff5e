package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/spikebeat/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRecent(t *testing.T) {
	store := openTestStore(t)

	runs := []core.RunOutcome{
		{Level: "Level 1", Index: 0, Outcome: "dead", Attempt: 1, Progress: 12.5, Duration: 2.4},
		{Level: "Level 1", Index: 0, Outcome: "dead", Attempt: 2, Progress: 40, Duration: 6},
		{Level: "Level 1", Index: 0, Outcome: "complete", Attempt: 3, Progress: 100, Duration: 15.2},
	}
	for _, o := range runs {
		if _, err := store.SaveRun("spikebeat", o); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	recent, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(recent))
	}

	// Newest first
	if recent[0].Outcome != "complete" || recent[0].Attempt != 3 {
		t.Errorf("Expected the completion first, got %+v", recent[0])
	}
	if recent[2].Progress != 12.5 || recent[2].Duration != 2.4 {
		t.Errorf("Oldest run not stored faithfully: %+v", recent[2])
	}
	if recent[0].Mode != "spikebeat" || recent[0].Level != "Level 1" {
		t.Errorf("Mode/level not stored: %+v", recent[0])
	}
	if recent[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed")
	}
}

func TestStoreRecentLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveRun("spikebeat", core.RunOutcome{Level: "L", Outcome: "dead", Attempt: i + 1})
	}

	recent, err := store.RecentRuns("spikebeat", 3)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Errorf("Expected 3 runs with limit, got %d", len(recent))
	}
	if recent[0].Attempt != 5 {
		t.Errorf("Expected newest attempt 5, got %d", recent[0].Attempt)
	}

	other, err := store.RecentRuns("spikebeat_endless", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("Expected no endless runs, got %d", len(other))
	}
}

func TestStoreBestProgress(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestProgress("spikebeat", "Level 1")
	if err != nil {
		t.Fatalf("BestProgress() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected 0 for empty history, got %v", best)
	}

	store.SaveRun("spikebeat", core.RunOutcome{Level: "Level 1", Outcome: "dead", Progress: 30})
	store.SaveRun("spikebeat", core.RunOutcome{Level: "Level 1", Outcome: "dead", Progress: 75})
	store.SaveRun("spikebeat_endless", core.RunOutcome{Level: "Level 1", Outcome: "dead", Progress: 90})

	best, err = store.BestProgress("spikebeat", "Level 1")
	if err != nil {
		t.Fatalf("BestProgress() failed: %v", err)
	}
	if best != 75 {
		t.Errorf("Expected best 75, got %v", best)
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun("spikebeat", core.RunOutcome{Level: "Level 2", Index: 1, Outcome: "dead", Progress: 20})
	store.SaveRun("spikebeat", core.RunOutcome{Level: "Level 1", Index: 0, Outcome: "dead", Progress: 50})
	store.SaveRun("spikebeat", core.RunOutcome{Level: "Level 1", Index: 0, Outcome: "complete", Progress: 100})
	store.SaveRun("spikebeat", core.RunOutcome{Level: "Level 1", Index: 0, Outcome: "abandoned", Progress: 10})
	store.SaveRun("spikebeat_endless", core.RunOutcome{Level: "Level 1", Index: 0, Outcome: "dead"})

	stats, err := store.LevelStats("spikebeat")
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 levels, got %d", len(stats))
	}

	l1 := stats[0]
	if l1.Level != "Level 1" {
		t.Fatalf("Expected Level 1 first, got %q", l1.Level)
	}
	if l1.Runs != 3 || l1.Deaths != 1 || l1.Completions != 1 || l1.BestProgress != 100 {
		t.Errorf("Unexpected Level 1 stats: %+v", l1)
	}
	if l1.LastPlayed.IsZero() {
		t.Error("LastPlayed not parsed")
	}
	if stats[1].Runs != 1 || stats[1].Deaths != 1 {
		t.Errorf("Unexpected Level 2 stats: %+v", stats[1])
	}
}

func TestStoreLastRunAndClear(t *testing.T) {
	store := openTestStore(t)

	last, err := store.LastRun()
	if err != nil {
		t.Fatalf("LastRun() failed: %v", err)
	}
	if last != nil {
		t.Errorf("Expected nil for empty store, got %+v", last)
	}

	store.SaveRun("spikebeat", core.RunOutcome{Level: "A", Outcome: "dead"})
	store.SaveRun("spikebeat", core.RunOutcome{Level: "B", Outcome: "complete"})
	store.SaveRun("spikebeat_endless", core.RunOutcome{Level: "C", Outcome: "dead"})

	last, err = store.LastRun()
	if err != nil {
		t.Fatalf("LastRun() failed: %v", err)
	}
	if last == nil || last.Level != "C" {
		t.Errorf("Expected last run C, got %+v", last)
	}

	if err := store.ClearRuns("spikebeat"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	recent, _ := store.RecentRuns("", 10)
	if len(recent) != 1 || recent[0].Mode != "spikebeat_endless" {
		t.Errorf("Clear removed the wrong runs: %+v", recent)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
