// Package persistence provides a SQLite ledger of played runs and every turn
// committed in them, so finished games can be reviewed and unfinished ones
// resumed.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/outbreak/internal/world"
)

// ErrRunNotFound is returned when a run id is not in the ledger.
var ErrRunNotFound = errors.New("run not found")

// DB wraps a SQLite connection for the run ledger.
type DB struct {
	conn *sqlx.DB
}

// Run is one played game.
type Run struct {
	ID          string          `db:"id"`
	Scenario    string          `db:"scenario"`
	Seed        int64           `db:"seed"`
	StartedAt   time.Time       `db:"started_at"`
	ConcludedAt sql.NullTime    `db:"concluded_at"`
	Score       sql.NullFloat64 `db:"score"`
	Victory     sql.NullString  `db:"victory"`
}

// turnRow is the flattened form of a world.WorldState.
type turnRow struct {
	RunID               string  `db:"run_id"`
	Turn                int     `db:"turn"`
	DaysElapsed         int     `db:"days_elapsed"`
	NumInfected         int     `db:"num_infected"`
	NumDead             float64 `db:"num_dead"`
	TotalPopulation     int     `db:"total_population"`
	HospitalCapacity    float64 `db:"hospital_capacity"`
	R                   float64 `db:"r"`
	ImportedCasesPerDay float64 `db:"imported_cases_per_day"`
	EconomicCosts       float64 `db:"economic_costs"`
	MedicalCosts        float64 `db:"medical_costs"`
	DeathCosts          float64 `db:"death_costs"`
	TotalCost           float64 `db:"total_cost"`
	EffectiveR          float64 `db:"effective_r"`
	ActionsJSON         string  `db:"actions_json"`
	EventsJSON          string  `db:"events_json"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		seed INTEGER NOT NULL,
		started_at TIMESTAMP NOT NULL,
		concluded_at TIMESTAMP,
		score REAL,
		victory TEXT
	);

	CREATE TABLE IF NOT EXISTS turns (
		run_id TEXT NOT NULL REFERENCES runs(id),
		turn INTEGER NOT NULL,
		days_elapsed INTEGER NOT NULL,
		num_infected INTEGER NOT NULL,
		num_dead REAL NOT NULL,
		total_population INTEGER NOT NULL,
		hospital_capacity REAL NOT NULL,
		r REAL NOT NULL,
		imported_cases_per_day REAL NOT NULL,
		economic_costs REAL NOT NULL,
		medical_costs REAL NOT NULL,
		death_costs REAL NOT NULL,
		total_cost REAL NOT NULL,
		effective_r REAL NOT NULL,
		actions_json TEXT NOT NULL,
		events_json TEXT NOT NULL,
		PRIMARY KEY (run_id, turn)
	);

	CREATE TABLE IF NOT EXISTS ledger_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartRun records a new run and returns its id.
func (db *DB) StartRun(scenarioName string, seed int64) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(
		"INSERT INTO runs (id, scenario, seed, started_at) VALUES (?, ?, ?, ?)",
		id, scenarioName, seed, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	slog.Info("run started", "run_id", id, "scenario", scenarioName, "seed", seed)
	return id, nil
}

// namedExecer is satisfied by both *sqlx.DB and *sqlx.Tx.
type namedExecer interface {
	NamedExec(query string, arg any) (sql.Result, error)
}

// SaveTurn writes the state committed at turn. Saving a turn again replaces it.
func (db *DB) SaveTurn(runID string, turn int, state world.WorldState) error {
	return saveTurn(db.conn, runID, turn, state)
}

// SaveTimeline writes every state of a timeline in one transaction.
func (db *DB) SaveTimeline(runID string, timeline []world.WorldState) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for turn, st := range timeline {
		if err := saveTurn(tx, runID, turn, st); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func saveTurn(ex namedExecer, runID string, turn int, state world.WorldState) error {
	actionsJSON, err := json.Marshal(state.PlayerActions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}
	eventsJSON, err := json.Marshal(state.RandomEvents)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}

	ind := state.Indicators
	row := turnRow{
		RunID:               runID,
		Turn:                turn,
		DaysElapsed:         state.DaysElapsed,
		NumInfected:         ind.NumInfected,
		NumDead:             ind.NumDead,
		TotalPopulation:     ind.TotalPopulation,
		HospitalCapacity:    ind.HospitalCapacity,
		R:                   ind.R,
		ImportedCasesPerDay: ind.ImportedCasesPerDay,
		EconomicCosts:       ind.EconomicCosts,
		MedicalCosts:        ind.MedicalCosts,
		DeathCosts:          ind.DeathCosts,
		TotalCost:           ind.TotalCost,
		EffectiveR:          state.EffectiveR,
		ActionsJSON:         string(actionsJSON),
		EventsJSON:          string(eventsJSON),
	}

	_, err = ex.NamedExec(`INSERT OR REPLACE INTO turns
		(run_id, turn, days_elapsed, num_infected, num_dead, total_population,
		 hospital_capacity, r, imported_cases_per_day, economic_costs, medical_costs,
		 death_costs, total_cost, effective_r, actions_json, events_json)
		VALUES (:run_id, :turn, :days_elapsed, :num_infected, :num_dead, :total_population,
		 :hospital_capacity, :r, :imported_cases_per_day, :economic_costs, :medical_costs,
		 :death_costs, :total_cost, :effective_r, :actions_json, :events_json)`, row)
	if err != nil {
		return fmt.Errorf("insert turn %d: %w", turn, err)
	}
	return nil
}

// Conclude records the final score and winning condition of a run.
func (db *DB) Conclude(runID string, score float64, victory string) error {
	res, err := db.conn.Exec(
		"UPDATE runs SET concluded_at = ?, score = ?, victory = ? WHERE id = ?",
		time.Now().UTC(), score, victory, runID,
	)
	if err != nil {
		return fmt.Errorf("conclude run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("conclude %s: %w", runID, ErrRunNotFound)
	}
	slog.Info("run concluded", "run_id", runID, "score", score, "victory", victory)
	return nil
}

// GetRun loads one run.
func (db *DB) GetRun(runID string) (Run, error) {
	var r Run
	err := db.conn.Get(&r, "SELECT id, scenario, seed, started_at, concluded_at, score, victory FROM runs WHERE id = ?", runID)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get %s: %w", runID, ErrRunNotFound)
	}
	return r, err
}

// LoadTurns returns a run's timeline: element n is the state at turn n.
func (db *DB) LoadTurns(runID string) ([]world.WorldState, error) {
	var rows []turnRow
	err := db.conn.Select(&rows, "SELECT * FROM turns WHERE run_id = ? ORDER BY turn", runID)
	if err != nil {
		return nil, fmt.Errorf("select turns: %w", err)
	}

	timeline := make([]world.WorldState, 0, len(rows))
	for _, row := range rows {
		st := world.WorldState{
			DaysElapsed: row.DaysElapsed,
			EffectiveR:  row.EffectiveR,
			Indicators: world.Indicators{
				NumInfected:         row.NumInfected,
				NumDead:             row.NumDead,
				TotalPopulation:     row.TotalPopulation,
				HospitalCapacity:    row.HospitalCapacity,
				R:                   row.R,
				ImportedCasesPerDay: row.ImportedCasesPerDay,
				EconomicCosts:       row.EconomicCosts,
				MedicalCosts:        row.MedicalCosts,
				DeathCosts:          row.DeathCosts,
				TotalCost:           row.TotalCost,
			},
		}
		if err := json.Unmarshal([]byte(row.ActionsJSON), &st.PlayerActions); err != nil {
			return nil, fmt.Errorf("turn %d actions: %w", row.Turn, err)
		}
		if err := json.Unmarshal([]byte(row.EventsJSON), &st.RandomEvents); err != nil {
			return nil, fmt.Errorf("turn %d events: %w", row.Turn, err)
		}
		timeline = append(timeline, st)
	}
	return timeline, nil
}

// RecentRuns returns the most recently started runs.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT id, scenario, seed, started_at, concluded_at, score, victory FROM runs ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// SaveMeta stores a key-value pair in ledger metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO ledger_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM ledger_meta WHERE key = ?", key)
	return value, err
}
