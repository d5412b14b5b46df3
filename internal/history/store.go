// Package history keeps a trend of unit readings in DuckDB.
package history

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"
	"time"

	"github.com/marcboeker/go-duckdb"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/models"
	"go.uber.org/zap"
)

// Query limits.
const (
	DefaultLimit = 500
	MaxLimit     = 10000
)

// Options configures the store. An empty Path keeps the database in memory.
type Options struct {
	Path        string
	Threads     int
	MemoryLimit string
	Logger      *zap.Logger
}

// Store appends trend points and serves time-window queries.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger

	mu   sync.Mutex
	last time.Time
}

// Open creates the trend table.
func Open(opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("history")

	pragmas := []string{"PRAGMA enable_progress_bar=false"}
	if opts.Threads > 0 {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA threads=%d", opts.Threads))
	}
	if opts.MemoryLimit != "" {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA memory_limit='%s'", opts.MemoryLimit))
	}

	connector, err := duckdb.NewConnector(opts.Path, func(execer driver.ExecerContext) error {
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return fmt.Errorf("%s: %w", pragma, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS trend (
			ts              BIGINT NOT NULL,
			sim_time        DOUBLE NOT NULL,
			running         BOOLEAN NOT NULL,
			supply_temp     DOUBLE NOT NULL,
			return_temp     DOUBLE NOT NULL,
			system_pressure DOUBLE NOT NULL,
			return_pressure DOUBLE NOT NULL,
			flow_rate       DOUBLE NOT NULL,
			heater_power    DOUBLE NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create trend table: %w", err)
	}

	where := opts.Path
	if where == "" {
		where = ":memory:"
	}
	logger.Info("trend store opened", zap.String("path", where))
	return &Store{db: db, path: opts.Path, logger: logger}, nil
}

// Record appends one point taken from r.
func (s *Store) Record(ctx context.Context, r models.Readings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trend VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Timestamp.UnixMicro(), r.SimTime, r.Running,
		r.SupplyTemp, r.ReturnTemp, r.SystemPressure, r.ReturnPressure,
		r.FlowRate, r.HeaterPower,
	)
	if err != nil {
		return fmt.Errorf("record trend point: %w", err)
	}
	return nil
}

// Query returns the newest points at or after since, oldest first. A zero
// since means no lower bound.
func (s *Store) Query(ctx context.Context, since time.Time, limit int) ([]models.TrendPoint, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	var from int64
	if !since.IsZero() {
		from = since.UnixMicro()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT * FROM (
			SELECT ts, sim_time, running, supply_temp, return_temp,
			       system_pressure, return_pressure, flow_rate, heater_power
			FROM trend
			WHERE ts >= ?
			ORDER BY ts DESC
			LIMIT ?
		) ORDER BY ts ASC
	`, from, limit)
	if err != nil {
		return nil, fmt.Errorf("query trend: %w", err)
	}
	defer rows.Close()

	points := make([]models.TrendPoint, 0, 64)
	for rows.Next() {
		var p models.TrendPoint
		var ts int64
		if err := rows.Scan(&ts, &p.SimTime, &p.Running, &p.SupplyTemp, &p.ReturnTemp,
			&p.SystemPressure, &p.ReturnPressure, &p.FlowRate, &p.HeaterPower); err != nil {
			return nil, fmt.Errorf("scan trend point: %w", err)
		}
		p.Timestamp = time.UnixMicro(ts).UTC()
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend: %w", err)
	}
	return points, nil
}

// Prune deletes points older than before and reports how many went.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trend WHERE ts < ?`, before.UnixMicro())
	if err != nil {
		return 0, fmt.Errorf("prune trend: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Len counts stored points.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trend`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trend: %w", err)
	}
	return n, nil
}

// Sampler returns a readings sink that records at most one point per
// interval and drops points older than retention. Retention <= 0 keeps
// everything.
func (s *Store) Sampler(interval, retention time.Duration) func(models.Readings) {
	return func(r models.Readings) {
		s.mu.Lock()
		if !s.last.IsZero() && r.Timestamp.Sub(s.last) < interval {
			s.mu.Unlock()
			return
		}
		s.last = r.Timestamp
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.Record(ctx, r); err != nil {
			s.logger.Warn("trend point dropped", zap.Error(err))
			return
		}
		if retention > 0 {
			if n, err := s.Prune(ctx, r.Timestamp.Add(-retention)); err != nil {
				s.logger.Warn("trend prune failed", zap.Error(err))
			} else if n > 0 {
				s.logger.Debug("trend pruned", zap.Int64("rows", n))
			}
		}
	}
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close trend store: %w", err)
	}
	return nil
}
