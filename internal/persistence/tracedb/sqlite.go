// Package tracedb indexes finished episodes in a local sqlite database so
// training runs can be audited without scanning dump files.
package tracedb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"pitchcraft.ai/internal/env"
)

type Index struct {
	db *sql.DB

	mu      sync.Mutex
	pending map[string]*EpisodeRow
}

type EpisodeRow struct {
	ID         string
	Scenario   string
	Seed       int64
	Steps      int
	ScoreLeft  int
	ScoreRight int
	Terminated bool
	Truncated  bool
	RecordedAt string
}

func Open(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("tracedb schema: %w", err)
	}
	return &Index{db: db, pending: map[string]*EpisodeRow{}}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS episodes (
	id          TEXT PRIMARY KEY,
	scenario    TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	steps       INTEGER NOT NULL,
	score_left  INTEGER NOT NULL,
	score_right INTEGER NOT NULL,
	terminated  INTEGER NOT NULL,
	truncated   INTEGER NOT NULL,
	recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_episodes_scenario ON episodes(scenario);
`

func (x *Index) Close() error { return x.db.Close() }

// WriteEpisodeStart and WriteStep implement env.TraceLogger: the row is
// opened at episode start and inserted when the terminal step arrives.
func (x *Index) WriteEpisodeStart(e env.EpisodeStartTrace) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.pending[e.EpisodeID] = &EpisodeRow{
		ID:       e.EpisodeID,
		Scenario: e.Scenario,
		Seed:     e.Seed,
	}
	return nil
}

func (x *Index) WriteStep(e env.StepTrace) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	row, ok := x.pending[e.EpisodeID]
	if !ok {
		return fmt.Errorf("tracedb: step for unknown episode %s", e.EpisodeID)
	}
	row.Steps = e.Step
	row.ScoreLeft = e.ScoreLeft
	row.ScoreRight = e.ScoreRight
	row.Terminated = e.Terminated
	row.Truncated = e.Truncated
	if !e.Terminated && !e.Truncated {
		return nil
	}
	delete(x.pending, e.EpisodeID)
	row.RecordedAt = time.Now().UTC().Format(time.RFC3339)

	_, err := x.db.Exec(`INSERT OR REPLACE INTO episodes
		(id, scenario, seed, steps, score_left, score_right, terminated, truncated, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.Scenario, row.Seed, row.Steps, row.ScoreLeft, row.ScoreRight,
		b2i(row.Terminated), b2i(row.Truncated), row.RecordedAt)
	return err
}

// Recent returns the newest n episode rows.
func (x *Index) Recent(n int) ([]EpisodeRow, error) {
	rows, err := x.db.Query(`SELECT id, scenario, seed, steps, score_left, score_right,
		terminated, truncated, recorded_at
		FROM episodes ORDER BY recorded_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EpisodeRow
	for rows.Next() {
		var r EpisodeRow
		var term, trunc int
		if err := rows.Scan(&r.ID, &r.Scenario, &r.Seed, &r.Steps, &r.ScoreLeft,
			&r.ScoreRight, &term, &trunc, &r.RecordedAt); err != nil {
			return nil, err
		}
		r.Terminated = term != 0
		r.Truncated = trunc != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
