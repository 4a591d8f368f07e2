// Package history keeps a SQLite log of finished simulation reports so that
// runs can be compared across invocations. It stores results only; a
// simulation can not be resumed from it.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/xid"

	"github.com/prodline-sim/prodline-sim/sim"
)

// Kind tells which command produced an entry.
type Kind string

const (
	KindRun   Kind = "run"
	KindSweep Kind = "sweep"
)

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Entry is one recorded invocation.
type Entry struct {
	ID           string
	Kind         Kind
	CreatedAt    time.Time
	Config       sim.SimulationConfig
	Stats        *sim.SimulationStats   // set for KindRun
	Points       []sim.SensitivityPoint // set for KindSweep
	Throughput   float64
	TotalCost    float64
	ServiceLevel float64
}

// Store is a run-history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	kind          TEXT NOT NULL,
	created_at    INTEGER NOT NULL,
	config        TEXT NOT NULL,
	result        TEXT NOT NULL,
	throughput    REAL NOT NULL,
	total_cost    REAL NOT NULL,
	service_level REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at);
`

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores the aggregated stats of a run and returns the new run ID.
// Raw wait samples are not persisted.
func (s *Store) RecordRun(cfg sim.SimulationConfig, stats *sim.SimulationStats) (string, error) {
	trimmed := *stats
	trimmed.WaitTimes = sim.PerStage[[]float64]{}
	return s.insert(KindRun, cfg, &trimmed, stats.Throughput, stats.TotalDegradationCost, stats.ServiceLevel)
}

// RecordSweep stores the points of a sensitivity sweep and returns the new run ID.
// The headline columns hold the cheapest point's cost.
func (s *Store) RecordSweep(cfg sim.SimulationConfig, points []sim.SensitivityPoint) (string, error) {
	best := 0.0
	for i, p := range points {
		if i == 0 || p.Cost < best {
			best = p.Cost
		}
	}
	return s.insert(KindSweep, cfg, points, 0, best, 0)
}

func (s *Store) insert(kind Kind, cfg sim.SimulationConfig, result any, throughput, cost, serviceLevel float64) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	id := xid.New().String()
	_, err = s.db.Exec(
		`INSERT INTO runs (id, kind, created_at, config, result, throughput, total_cost, service_level)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(kind), s.now().UnixNano(), string(cfgJSON), string(resultJSON),
		throughput, cost, serviceLevel,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) Recent(limit int) ([]Entry, error) {
	query := `SELECT id, kind, created_at, config, result, throughput, total_cost, service_level
		FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the entry with the given ID, or ErrNotFound.
func (s *Store) Get(id string) (Entry, error) {
	row := s.db.QueryRow(
		`SELECT id, kind, created_at, config, result, throughput, total_cost, service_level
		 FROM runs WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e          Entry
		kind       string
		createdAt  int64
		cfgJSON    string
		resultJSON string
	)
	if err := sc.Scan(&e.ID, &kind, &createdAt, &cfgJSON, &resultJSON,
		&e.Throughput, &e.TotalCost, &e.ServiceLevel); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("scanning run: %w", err)
	}
	e.Kind = Kind(kind)
	e.CreatedAt = time.Unix(0, createdAt)
	if err := json.Unmarshal([]byte(cfgJSON), &e.Config); err != nil {
		return e, fmt.Errorf("decoding config of %s: %w", e.ID, err)
	}
	switch e.Kind {
	case KindRun:
		e.Stats = &sim.SimulationStats{}
		if err := json.Unmarshal([]byte(resultJSON), e.Stats); err != nil {
			return e, fmt.Errorf("decoding stats of %s: %w", e.ID, err)
		}
	case KindSweep:
		if err := json.Unmarshal([]byte(resultJSON), &e.Points); err != nil {
			return e, fmt.Errorf("decoding sweep of %s: %w", e.ID, err)
		}
	}
	return e, nil
}
