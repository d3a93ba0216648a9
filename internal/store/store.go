package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/vehgeom/internal/curvature"
	"github.com/banshee-data/vehgeom/internal/monitoring"
	"github.com/banshee-data/vehgeom/internal/obb"
	"github.com/banshee-data/vehgeom/internal/scenario"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrRunNotFound is returned when a run id has no stored record.
var ErrRunNotFound = errors.New("store: run not found")

// Store persists analysis results in a SQLite database.
type Store struct {
	*sql.DB
}

// RunSummary is the header row of a stored run.
type RunSummary struct {
	RunID        string
	Scenario     string
	CreatedAt    time.Time
	SearchRadius float64
	VehicleCount int
	PathLength   float64
}

// PairRecord is the distance between one ego and one target in one run.
type PairRecord struct {
	RunID     string
	CreatedAt time.Time
	Rank      int
	Distance  float64
}

// Open opens (creating if necessary) the database at path and applies any
// pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps per-connection pragmas in force.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	s := &Store{db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// MigrateUp runs all pending migrations up to the latest version.
func (s *Store) MigrateUp() error {
	m, err := s.newMigrate()
	if err != nil {
		return err
	}
	// m is not closed: closing it would close the shared *sql.DB.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// MigrateVersion returns the current schema version and dirty state.
// It returns 0, false, nil before any migration has been applied.
func (s *Store) MigrateVersion() (uint, bool, error) {
	m, err := s.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (s *Store) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

// migrateLogger routes golang-migrate output through the monitoring hook.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	monitoring.Logf("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool { return monitoring.IsVerbose() }

// SaveResult writes a run, its ranked neighbours and its resampled curvature
// in a single transaction.
func (s *Store) SaveResult(ctx context.Context, res *scenario.Result) error {
	if res == nil {
		return fmt.Errorf("nil result")
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, scenario, created_unix_nanos, search_radius, vehicle_count, path_length)
		VALUES (?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Scenario, res.CreatedAt.UnixNano(), res.SearchRadius, res.VehicleCount, res.PathLength,
	); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", res.RunID, err)
	}

	prox, err := tx.PrepareContext(ctx, `
		INSERT INTO proximity (run_id, ego_id, target_id, rank, distance) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare proximity insert: %w", err)
	}
	defer prox.Close()
	for _, ego := range res.Egos {
		for rank, kd := range ego.Neighbors {
			if _, err := prox.ExecContext(ctx, res.RunID, ego.Ego, kd.Key, rank, kd.Distance); err != nil {
				return fmt.Errorf("failed to insert proximity %s->%s: %w", ego.Ego, kd.Key, err)
			}
		}
	}

	curv, err := tx.PrepareContext(ctx, `
		INSERT INTO curvature (run_id, seq, vertex, arc_length, curvature) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare curvature insert: %w", err)
	}
	defer curv.Close()
	for seq, smp := range res.Curvature {
		if _, err := curv.ExecContext(ctx, res.RunID, seq, smp.Index, smp.ArcLength, smp.Curvature); err != nil {
			return fmt.Errorf("failed to insert curvature sample %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", res.RunID, err)
	}
	monitoring.Verbosef("stored run %s: %d egos, %d curvature samples", res.RunID, len(res.Egos), len(res.Curvature))
	return nil
}

// GetRun returns the header of a stored run.
func (s *Store) GetRun(ctx context.Context, runID string) (RunSummary, error) {
	var rs RunSummary
	var created int64
	err := s.QueryRowContext(ctx, `
		SELECT run_id, scenario, created_unix_nanos, search_radius, vehicle_count, path_length
		FROM runs WHERE run_id = ?`, runID,
	).Scan(&rs.RunID, &rs.Scenario, &created, &rs.SearchRadius, &rs.VehicleCount, &rs.PathLength)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return RunSummary{}, fmt.Errorf("failed to query run %s: %w", runID, err)
	}
	rs.CreatedAt = time.Unix(0, created)
	return rs, nil
}

// ListRuns returns stored runs, newest first. A non-positive limit returns
// every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT run_id, scenario, created_unix_nanos, search_radius, vehicle_count, path_length
		FROM runs ORDER BY created_unix_nanos DESC, run_id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var rs RunSummary
		var created int64
		if err := rows.Scan(&rs.RunID, &rs.Scenario, &created, &rs.SearchRadius, &rs.VehicleCount, &rs.PathLength); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rs.CreatedAt = time.Unix(0, created)
		runs = append(runs, rs)
	}
	return runs, rows.Err()
}

// Neighbors returns the ranked neighbours of every ego in a run.
func (s *Store) Neighbors(ctx context.Context, runID string) (map[string][]obb.KeyedDistance, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT ego_id, target_id, distance FROM proximity
		WHERE run_id = ? ORDER BY ego_id, rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query neighbours: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]obb.KeyedDistance)
	for rows.Next() {
		var ego string
		var kd obb.KeyedDistance
		if err := rows.Scan(&ego, &kd.Key, &kd.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan neighbour: %w", err)
		}
		out[ego] = append(out[ego], kd)
	}
	return out, rows.Err()
}

// Curvature returns the resampled curvature profile stored for a run.
func (s *Store) Curvature(ctx context.Context, runID string) ([]curvature.Sample, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT vertex, arc_length, curvature FROM curvature
		WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query curvature: %w", err)
	}
	defer rows.Close()

	var samples []curvature.Sample
	for rows.Next() {
		var smp curvature.Sample
		if err := rows.Scan(&smp.Index, &smp.ArcLength, &smp.Curvature); err != nil {
			return nil, fmt.Errorf("failed to scan curvature: %w", err)
		}
		samples = append(samples, smp)
	}
	return samples, rows.Err()
}

// PairHistory returns the recorded distance between ego and target across
// all runs in which target was within the ego's search radius, oldest first.
func (s *Store) PairHistory(ctx context.Context, ego, target string) ([]PairRecord, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT p.run_id, r.created_unix_nanos, p.rank, p.distance
		FROM proximity p JOIN runs r ON r.run_id = p.run_id
		WHERE p.ego_id = ? AND p.target_id = ?
		ORDER BY r.created_unix_nanos, p.run_id`, ego, target)
	if err != nil {
		return nil, fmt.Errorf("failed to query pair history: %w", err)
	}
	defer rows.Close()

	var out []PairRecord
	for rows.Next() {
		var pr PairRecord
		var created int64
		if err := rows.Scan(&pr.RunID, &created, &pr.Rank, &pr.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan pair record: %w", err)
		}
		pr.CreatedAt = time.Unix(0, created)
		out = append(out, pr)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and, through the foreign keys, its rows.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	r, err := s.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}
	if n, err := r.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}
