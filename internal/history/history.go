package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database holding past collection runs. Only the
// aggregate reading of each run is archived; individual posts stay
// ephemeral to the collection call that produced them.
type DB struct {
	conn *sql.DB
	path string
}

// Open creates or opens the run history database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Run is one archived collection run.
type Run struct {
	ID           int64
	Query        string
	PmfScore     int
	SignalLevel  string
	TotalPosts   int
	PainPosts    int
	IntentPosts  int
	BuyingPosts  int
	SwitchPosts  int
	SourceStatus string
	Summary      string
	CreatedAt    string
}

// InsertRun archives a collection run and returns its row ID.
func (db *DB) InsertRun(run Run) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO runs (query, pmf_score, signal_level, total_posts, pain_posts,
			intent_posts, buying_posts, switch_posts, source_status, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Query, run.PmfScore, run.SignalLevel, run.TotalPosts, run.PainPosts,
		run.IntentPosts, run.BuyingPosts, run.SwitchPosts, run.SourceStatus, run.Summary,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// RecentRuns returns the most recent runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, query, pmf_score, signal_level, total_posts, pain_posts,
			intent_posts, buying_posts, switch_posts, source_status, summary, created_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Query, &r.PmfScore, &r.SignalLevel, &r.TotalPosts,
			&r.PainPosts, &r.IntentPosts, &r.BuyingPosts, &r.SwitchPosts,
			&r.SourceStatus, &r.Summary, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Stats summarizes the archive.
type Stats struct {
	TotalRuns  int
	StrongRuns int
	LastRunAt  string
}

// GetStats returns archive totals.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM runs").Scan(&s.TotalRuns); err != nil {
		return nil, fmt.Errorf("counting runs: %w", err)
	}
	if err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM runs WHERE signal_level = 'strong'",
	).Scan(&s.StrongRuns); err != nil {
		return nil, fmt.Errorf("counting strong runs: %w", err)
	}
	err := db.conn.QueryRow("SELECT created_at FROM runs ORDER BY id DESC LIMIT 1").Scan(&s.LastRunAt)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("reading last run: %w", err)
	}
	return s, nil
}
