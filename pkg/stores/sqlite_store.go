package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"

	"github.com/smesilov-dev/pacemaker/pkg/ops"
	"github.com/smesilov-dev/pacemaker/pkg/telemetry"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("operation record not found")

// SQLiteStore is the SQLite-backed status cache.
type SQLiteStore struct {
	db      *sql.DB
	cfg     Config
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
}

// NewSQLiteStore creates a new status cache instance. Call Init and Migrate
// before use.
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}
	return &SQLiteStore{cfg: cfg}, nil
}

// WithTelemetry attaches optional metrics and tracing to the store.
func (s *SQLiteStore) WithTelemetry(m *telemetry.Metrics, t *telemetry.Tracer) *SQLiteStore {
	s.metrics = m
	s.tracer = t
	return s
}

// Init opens the database connection and enables WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", s.cfg.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(s.cfg.MaxOpenConns)
	db.SetMaxIdleConns(s.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs embedded schema migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// HealthCheck verifies the database connection is alive.
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.PingContext(ctx)
}

// RecordResult writes an operation result to the status cache.
//
// Missing derivable fields are filled in before the write: the record id,
// the encoded operation key, the failure classification from the execution
// status and return codes, and the transition correlation ids from the
// magic string when one is present.
func (s *SQLiteStore) RecordResult(ctx context.Context, rec *OperationRecord) error {
	ctx, done := s.startOp(ctx, "record_result")
	defer done()

	if rec == nil {
		return fmt.Errorf("operation record is required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.OpKey == "" {
		key, err := ops.BuildOperationKey(rec.RscID, rec.OpType, rec.IntervalMS)
		if err != nil {
			return fmt.Errorf("cannot derive operation key: %w", err)
		}
		rec.OpKey = key
		if s.metrics != nil {
			s.metrics.KeyBuilt("operation")
		}
	}
	if rec.Magic != "" {
		magic, err := ops.DecodeTransitionMagic(rec.Magic)
		if err != nil {
			if s.metrics != nil {
				s.metrics.ParseFailed("magic")
			}
			return fmt.Errorf("cannot decode transition magic: %w", err)
		}
		if s.metrics != nil {
			s.metrics.KeyParsed("magic")
		}
		rec.TransitionID = magic.Key.TransitionID
		rec.ActionID = magic.Key.ActionID
		rec.TargetRC = magic.Key.TargetRC
		rec.Status = magic.OpStatus
		rec.RC = magic.OpRC
	}
	rec.Failed = ops.DidFail(rec.Status, rec.RC, rec.TargetRC)
	if rec.ExecutedAt.IsZero() {
		rec.ExecutedAt = time.Now().UTC()
	}
	rec.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO operation_history (
			id, rsc_id, op_type, interval_ms, op_key, node, magic,
			transition_id, action_id, status, rc, target_rc, failed,
			digest, executed_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.RscID,
		rec.OpType,
		rec.IntervalMS,
		rec.OpKey,
		rec.Node,
		rec.Magic,
		rec.TransitionID,
		rec.ActionID,
		int(rec.Status),
		rec.RC,
		rec.TargetRC,
		rec.Failed,
		rec.Digest,
		rec.ExecutedAt,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record operation result: %w", err)
	}

	if s.metrics != nil {
		s.metrics.HistoryRecorded(rec.Failed)
	}
	return nil
}

const recordColumns = `
	id, rsc_id, op_type, interval_ms, op_key, node, magic,
	transition_id, action_id, status, rc, target_rc, failed,
	digest, executed_at, created_at
`

func scanRecord(row interface{ Scan(...interface{}) error }) (*OperationRecord, error) {
	rec := &OperationRecord{}
	var status int
	err := row.Scan(
		&rec.ID,
		&rec.RscID,
		&rec.OpType,
		&rec.IntervalMS,
		&rec.OpKey,
		&rec.Node,
		&rec.Magic,
		&rec.TransitionID,
		&rec.ActionID,
		&status,
		&rec.RC,
		&rec.TargetRC,
		&rec.Failed,
		&rec.Digest,
		&rec.ExecutedAt,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = ops.ExecStatus(status)
	return rec, nil
}

// GetResult retrieves a record by id.
func (s *SQLiteStore) GetResult(ctx context.Context, id string) (*OperationRecord, error) {
	ctx, done := s.startOp(ctx, "get_result")
	defer done()

	query := `SELECT ` + recordColumns + ` FROM operation_history WHERE id = ?`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get operation record: %w", err)
	}
	return rec, nil
}

// GetLatest retrieves the most recent record for an operation key.
func (s *SQLiteStore) GetLatest(ctx context.Context, opKey string) (*OperationRecord, error) {
	ctx, done := s.startOp(ctx, "get_latest")
	defer done()

	query := `
		SELECT ` + recordColumns + `
		FROM operation_history
		WHERE op_key = ?
		ORDER BY executed_at DESC, created_at DESC
		LIMIT 1
	`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, opKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, opKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest operation record: %w", err)
	}
	return rec, nil
}

// ListByResource lists records for a resource, most recent first.
func (s *SQLiteStore) ListByResource(ctx context.Context, rscID string, limit, offset int) ([]*OperationRecord, error) {
	ctx, done := s.startOp(ctx, "list_by_resource")
	defer done()

	query := `
		SELECT ` + recordColumns + `
		FROM operation_history
		WHERE rsc_id = ?
		ORDER BY executed_at DESC, created_at DESC
		LIMIT ? OFFSET ?
	`
	return s.list(ctx, query, rscID, limit, offset)
}

// ListFailures lists failed operation records, most recent first.
func (s *SQLiteStore) ListFailures(ctx context.Context, limit, offset int) ([]*OperationRecord, error) {
	ctx, done := s.startOp(ctx, "list_failures")
	defer done()

	query := `
		SELECT ` + recordColumns + `
		FROM operation_history
		WHERE failed = 1
		ORDER BY executed_at DESC, created_at DESC
		LIMIT ? OFFSET ?
	`
	return s.list(ctx, query, limit, offset)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...interface{}) ([]*OperationRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list operation records: %w", err)
	}
	defer rows.Close()

	records := []*OperationRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate operation records: %w", err)
	}
	return records, nil
}

// PruneBefore deletes records executed before the cutoff and returns how
// many were removed.
func (s *SQLiteStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, done := s.startOp(ctx, "prune_before")
	defer done()

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM operation_history WHERE executed_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune operation records: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// startOp opens a tracing span and a latency observation for one store
// operation. The returned func finishes both.
func (s *SQLiteStore) startOp(ctx context.Context, op string) (context.Context, func()) {
	start := time.Now()
	if s.tracer == nil {
		return ctx, func() {
			if s.metrics != nil {
				s.metrics.ObserveStoreOp(op, time.Since(start))
			}
		}
	}
	ctx, span := s.tracer.StartStoreSpan(ctx, op)
	return ctx, func() {
		span.End()
		if s.metrics != nil {
			s.metrics.ObserveStoreOp(op, time.Since(start))
		}
	}
}
