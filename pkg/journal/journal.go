package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hollowoak/cback/pkg/scheduler"
)

// Journal records scheduling runs and per-item outcomes in a local sqlite
// database so operators can audit what a backup actually did. It records
// history only; it never resumes or retries anything.
type Journal struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs(
	plan_id TEXT PRIMARY KEY,
	requested TEXT,
	managed INTEGER,
	local INTEGER,
	item_count INTEGER,
	started_at INTEGER
);
CREATE TABLE IF NOT EXISTS items(
	plan_id TEXT,
	action TEXT,
	peer TEXT,
	status TEXT,
	detail TEXT,
	finished_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_items_plan ON items(plan_id);
`

// Open opens (and if needed creates) the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("journal open: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordRun stores the header row for one scheduling run.
func (j *Journal) RecordRun(plan *scheduler.Plan, requested []string, managed, local bool) error {
	_, err := j.db.Exec(
		`INSERT INTO runs(plan_id, requested, managed, local, item_count, started_at) VALUES(?,?,?,?,?,?)`,
		plan.ID, strings.Join(requested, " "), boolInt(managed), boolInt(local), len(plan.Items), time.Now().Unix(),
	)
	return err
}

// RecordItem stores the outcome of one dispatched item. It implements the
// dispatcher's Recorder interface.
func (j *Journal) RecordItem(planID string, item scheduler.ActionItem, status, detail string) error {
	peer := ""
	if item.RemotePeer != nil {
		peer = item.RemotePeer.Name
	}
	_, err := j.db.Exec(
		`INSERT INTO items(plan_id, action, peer, status, detail, finished_at) VALUES(?,?,?,?,?,?)`,
		planID, item.Name, peer, status, detail, time.Now().Unix(),
	)
	return err
}

// RunSummary is one journaled run with its item outcome counts.
type RunSummary struct {
	PlanID    string
	Requested string
	Managed   bool
	Local     bool
	ItemCount int
	Completed int
	Failed    int
	StartedAt time.Time
}

// Runs returns the most recent runs, newest first.
func (j *Journal) Runs(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(`
		SELECT r.plan_id, r.requested, r.managed, r.local, r.item_count, r.started_at,
		       COALESCE(SUM(CASE WHEN i.status = 'completed' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN i.status = 'failed' THEN 1 ELSE 0 END), 0)
		FROM runs r
		LEFT JOIN items i ON i.plan_id = r.plan_id
		GROUP BY r.plan_id
		ORDER BY r.started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		var managed, local int
		var startedAt int64
		if err := rows.Scan(&run.PlanID, &run.Requested, &managed, &local,
			&run.ItemCount, &startedAt, &run.Completed, &run.Failed); err != nil {
			return nil, err
		}
		run.Managed = managed != 0
		run.Local = local != 0
		run.StartedAt = time.Unix(startedAt, 0)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
