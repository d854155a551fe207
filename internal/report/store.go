package report

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Garsondee/Sentry-Sense/internal/sim"
)

// ErrEmptyPath is returned by Open when no database path is given.
var ErrEmptyPath = errors.New("report: store path is empty")

// Store persists run summaries and their event trails in SQLite.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

func (st *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		run_index INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		first_contact_tick INTEGER NOT NULL,
		first_chase_tick INTEGER NOT NULL,
		first_give_up_tick INTEGER NOT NULL,
		state_changes INTEGER NOT NULL,
		contact_new INTEGER NOT NULL,
		contact_lost INTEGER NOT NULL,
		chases INTEGER NOT NULL,
		give_ups INTEGER NOT NULL,
		patrol_legs INTEGER NOT NULL,
		corner_routes INTEGER NOT NULL,
		violations INTEGER NOT NULL,
		collisions INTEGER NOT NULL,
		distance REAL NOT NULL,
		idle_seconds REAL NOT NULL,
		patrol_seconds REAL NOT NULL,
		chase_seconds REAL NOT NULL,
		return_seconds REAL NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		label TEXT NOT NULL,
		category TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		num_val REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
	CREATE INDEX IF NOT EXISTS idx_run_events_run ON run_events(run_id, tick);
	`
	_, err := st.conn.Exec(schema)
	return err
}

// SaveRun writes the summary and its event trail in one transaction. Verbose
// move entries are not stored.
func (st *Store) SaveRun(rs RunStats, events []sim.SimLogEntry) error {
	tx, err := st.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO runs
		(id, scenario, run_index, seed, ticks,
		 first_contact_tick, first_chase_tick, first_give_up_tick,
		 state_changes, contact_new, contact_lost, chases, give_ups,
		 patrol_legs, corner_routes, violations, collisions,
		 distance, idle_seconds, patrol_seconds, chase_seconds, return_seconds, created_at)
		VALUES
		(:id, :scenario, :run_index, :seed, :ticks,
		 :first_contact_tick, :first_chase_tick, :first_give_up_tick,
		 :state_changes, :contact_new, :contact_lost, :chases, :give_ups,
		 :patrol_legs, :corner_routes, :violations, :collisions,
		 :distance, :idle_seconds, :patrol_seconds, :chase_seconds, :return_seconds, :created_at)`, rs)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO run_events
		(run_id, tick, label, category, key, value, num_val)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if e.Category == "move" {
			continue
		}
		if _, err := stmt.Exec(rs.ID, e.Tick, e.Label, e.Category, e.Key, e.Value, e.NumVal); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns returns stored runs for a scenario in run order, newest batch
// first. An empty scenario lists everything.
func (st *Store) ListRuns(scenario string) ([]RunStats, error) {
	var runs []RunStats
	var err error
	if scenario == "" {
		err = st.conn.Select(&runs, "SELECT * FROM runs ORDER BY created_at DESC, run_index ASC")
	} else {
		err = st.conn.Select(&runs,
			"SELECT * FROM runs WHERE scenario = ? ORDER BY created_at DESC, run_index ASC", scenario)
	}
	return runs, err
}

// RunEvents returns a stored run's event trail in tick order.
func (st *Store) RunEvents(runID string) ([]sim.SimLogEntry, error) {
	var rows []struct {
		Tick     int     `db:"tick"`
		Label    string  `db:"label"`
		Category string  `db:"category"`
		Key      string  `db:"key"`
		Value    string  `db:"value"`
		NumVal   float64 `db:"num_val"`
	}
	err := st.conn.Select(&rows,
		"SELECT tick, label, category, key, value, num_val FROM run_events WHERE run_id = ? ORDER BY id",
		runID)
	if err != nil {
		return nil, err
	}
	out := make([]sim.SimLogEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, sim.SimLogEntry(r))
	}
	return out, nil
}
