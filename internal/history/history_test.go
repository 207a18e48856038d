package history

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRun(query string, score int, level string) Run {
	return Run{
		Query:        query,
		PmfScore:     score,
		SignalLevel:  level,
		TotalPosts:   12,
		PainPosts:    4,
		IntentPosts:  3,
		BuyingPosts:  2,
		SwitchPosts:  1,
		SourceStatus: `{"reddit":"completed","x":"disabled","hackernews":"completed"}`,
		Summary:      "Collected 12 posts with 4 pain mentions, 3 solution-intent mentions, and 2 buying signals.",
	}
}

func TestInsertAndListRuns(t *testing.T) {
	db := openTestDB(t)

	id, err := db.InsertRun(sampleRun("invoicing for freelancers", 58, "moderate"))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive run ID, got %d", id)
	}

	if _, err := db.InsertRun(sampleRun("team standup tool", 31, "weak")); err != nil {
		t.Fatalf("second insert failed: %v", err)
	}

	runs, err := db.RecentRuns(10)
	if err != nil {
		t.Fatalf("listing runs failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	// Newest first.
	if runs[0].Query != "team standup tool" {
		t.Errorf("expected newest run first, got %q", runs[0].Query)
	}
	if runs[1].PmfScore != 58 || runs[1].SignalLevel != "moderate" {
		t.Errorf("unexpected run fields: %+v", runs[1])
	}
	if runs[1].PainPosts != 4 || runs[1].TotalPosts != 12 {
		t.Errorf("unexpected counts: %+v", runs[1])
	}
	if runs[0].CreatedAt == "" {
		t.Error("expected created_at to be set")
	}
}

func TestRecentRunsRespectsLimit(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 5; i++ {
		if _, err := db.InsertRun(sampleRun("q", 10, "weak")); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	runs, err := db.RecentRuns(3)
	if err != nil {
		t.Fatalf("listing runs failed: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("stats on empty db failed: %v", err)
	}
	if stats.TotalRuns != 0 || stats.LastRunAt != "" {
		t.Errorf("unexpected empty stats: %+v", stats)
	}

	db.InsertRun(sampleRun("a", 80, "strong"))
	db.InsertRun(sampleRun("b", 20, "weak"))

	stats, err = db.GetStats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalRuns != 2 {
		t.Errorf("expected 2 runs, got %d", stats.TotalRuns)
	}
	if stats.StrongRuns != 1 {
		t.Errorf("expected 1 strong run, got %d", stats.StrongRuns)
	}
	if stats.LastRunAt == "" {
		t.Error("expected last run timestamp")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	db.InsertRun(sampleRun("q", 10, "weak"))
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	runs, err := db.RecentRuns(10)
	if err != nil {
		t.Fatalf("listing after reopen failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected data to survive reopen, got %d runs", len(runs))
	}
}
