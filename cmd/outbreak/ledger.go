package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/talgya/outbreak/internal/persistence"
	"github.com/talgya/outbreak/internal/world"
)

// recorder writes a game to the ledger. A nil recorder records nothing.
type recorder struct {
	db    *persistence.DB
	runID string
}

func openLedger(path string) (*persistence.DB, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}
	return persistence.Open(path)
}

// resumeID maps "last" to the most recently started run.
func resumeID(db *persistence.DB, id string) (string, error) {
	if id != "last" {
		return id, nil
	}
	last, err := db.GetMeta("last_run")
	if err != nil {
		return "", fmt.Errorf("no previous run to resume: %w", err)
	}
	return last, nil
}

func (r *recorder) start(db *persistence.DB, scenarioName string, seed int64, timeline []world.WorldState) error {
	id, err := db.StartRun(scenarioName, seed)
	if err != nil {
		return err
	}
	r.db, r.runID = db, id
	if err := db.SaveMeta("last_run", id); err != nil {
		return fmt.Errorf("save last run: %w", err)
	}
	return db.SaveTimeline(id, timeline)
}

func (r *recorder) turn(n int, st world.WorldState) {
	if r == nil || r.db == nil {
		return
	}
	if err := r.db.SaveTurn(r.runID, n, st); err != nil {
		slog.Error("turn save failed", "run_id", r.runID, "turn", n, "error", err)
	}
}

func (r *recorder) conclude(score float64, condition string) {
	if r == nil || r.db == nil {
		return
	}
	if err := r.db.Conclude(r.runID, score, condition); err != nil {
		slog.Error("conclude failed", "run_id", r.runID, "error", err)
	}
}
