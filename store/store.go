package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/CodeStranger-Fred/banditsim/sim"
)

// ErrNotFound is returned when a batch id is unknown.
var ErrNotFound = errors.New("batch not found")

// Batch is the stored summary of one sim.BatchResult.
type Batch struct {
	ID           string
	CreatedAt    time.Time
	Policy       string
	Runs         int
	Trials       int
	Seed         int64
	MeanRegret   float64
	StdDevRegret float64
	Arms         []Arm
}

// Arm is one arm's averages inside a stored batch.
type Arm struct {
	Name             string
	Hidden           float64
	MeanObservations float64
	MeanSuccesses    float64
	MostObserved     int
}

// FromResult flattens a batch result for storage.
func FromResult(res sim.BatchResult) Batch {
	b := Batch{
		Policy:       res.Policy,
		Runs:         res.Config.Runs,
		Trials:       res.Config.Trials,
		Seed:         res.Config.Seed,
		MeanRegret:   res.MeanRegret,
		StdDevRegret: res.StdDevRegret,
	}
	for _, a := range res.Arms {
		b.Arms = append(b.Arms, Arm{
			Name:             a.Name,
			Hidden:           a.Hidden,
			MeanObservations: a.MeanObservations,
			MeanSuccesses:    a.MeanSuccesses,
			MostObserved:     a.MostObserved,
		})
	}
	return b
}

// Store keeps batch summaries in a SQLite database.
type Store struct {
	db *sql.DB
}

var schema = []string{`CREATE TABLE IF NOT EXISTS batches (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	policy TEXT NOT NULL,
	runs INTEGER NOT NULL,
	trials INTEGER NOT NULL,
	seed INTEGER NOT NULL,
	mean_regret REAL NOT NULL,
	stddev_regret REAL NOT NULL
)`, `CREATE TABLE IF NOT EXISTS batch_arms (
	batch_id TEXT NOT NULL REFERENCES batches(id),
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	hidden REAL NOT NULL,
	mean_observations REAL NOT NULL,
	mean_successes REAL NOT NULL,
	most_observed INTEGER NOT NULL,
	PRIMARY KEY (batch_id, position)
)`}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "banditsim.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores b under a new id and returns it.
func (s *Store) Save(ctx context.Context, b Batch) (_ string, retErr error) {
	id := uuid.NewString()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batches (id, created_at, policy, runs, trials, seed, mean_regret, stddev_regret)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, b.CreatedAt.UnixNano(), b.Policy, b.Runs, b.Trials, b.Seed, b.MeanRegret, b.StdDevRegret,
	); err != nil {
		return "", fmt.Errorf("insert batch: %w", err)
	}
	for i, a := range b.Arms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO batch_arms (batch_id, position, name, hidden, mean_observations, mean_successes, most_observed)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i, a.Name, a.Hidden, a.MeanObservations, a.MeanSuccesses, a.MostObserved,
		); err != nil {
			return "", fmt.Errorf("insert arm %s: %w", a.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// List returns up to limit batches, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Batch, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, policy, runs, trials, seed, mean_regret, stddev_regret
		 FROM batches ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select batches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var batches []Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select batches: %w", err)
	}
	for i := range batches {
		if batches[i].Arms, err = s.arms(ctx, batches[i].ID); err != nil {
			return nil, err
		}
	}
	return batches, nil
}

// Get returns the batch with id.
func (s *Store) Get(ctx context.Context, id string) (Batch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, policy, runs, trials, seed, mean_regret, stddev_regret
		 FROM batches WHERE id = ?`, id)
	b, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Batch{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Batch{}, err
	}
	if b.Arms, err = s.arms(ctx, id); err != nil {
		return Batch{}, err
	}
	return b, nil
}

func (s *Store) arms(ctx context.Context, id string) ([]Arm, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, hidden, mean_observations, mean_successes, most_observed
		 FROM batch_arms WHERE batch_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("select arms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var arms []Arm
	for rows.Next() {
		var a Arm
		if err := rows.Scan(&a.Name, &a.Hidden, &a.MeanObservations, &a.MeanSuccesses, &a.MostObserved); err != nil {
			return nil, fmt.Errorf("scan arm: %w", err)
		}
		arms = append(arms, a)
	}
	return arms, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBatch(sc scanner) (Batch, error) {
	var (
		b       Batch
		created int64
	)
	if err := sc.Scan(&b.ID, &created, &b.Policy, &b.Runs, &b.Trials, &b.Seed, &b.MeanRegret, &b.StdDevRegret); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, err
		}
		return Batch{}, fmt.Errorf("scan batch: %w", err)
	}
	b.CreatedAt = time.Unix(0, created)
	return b, nil
}
