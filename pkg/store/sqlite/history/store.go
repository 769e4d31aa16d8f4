package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/cost-monitor/pkg/models/store"
	"github.com/de-tools/cost-monitor/pkg/store/sqlite"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("run not found")

const DefaultListLimit = 20

// fixed width keeps lexical order equal to time order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store records daily checks and monthly reports.
type Store interface {
	AddRun(ctx context.Context, run store.Run) (int64, error)
	ListRuns(ctx context.Context, kind string, limit int) ([]store.Run, error)
	GetRun(ctx context.Context, id int64) (*store.Run, error)
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{db: db}, nil
}

func (s *defaultStore) AddRun(ctx context.Context, run store.Run) (int64, error) {
	var id int64
	err := sqlite.InTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO runs (kind, period_start, period_end, total_cost, threshold, exceeded, currency, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.Kind,
			formatTime(run.PeriodStart),
			formatTime(run.PeriodEnd),
			run.TotalCost,
			run.Threshold,
			boolToInt(run.Exceeded),
			run.Currency,
			formatTime(run.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read run id: %w", err)
		}

		for _, owner := range run.Owners {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO run_owners (run_id, owner, total_cost, resource_count)
				VALUES (?, ?, ?, ?)`,
				id, owner.Owner, owner.TotalCost, owner.ResourceCount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert owner %s: %w", owner.Owner, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *defaultStore) ListRuns(ctx context.Context, kind string, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	runs, err := s.queryRuns(ctx, `
		SELECT id, kind, period_start, period_end, total_cost, threshold, exceeded, currency, created_at
		FROM runs
		WHERE ? = '' OR kind = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		kind, kind, limit,
	)
	if err != nil {
		return nil, err
	}

	for i := range runs {
		owners, err := s.loadOwners(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Owners = owners
	}
	return runs, nil
}

func (s *defaultStore) GetRun(ctx context.Context, id int64) (*store.Run, error) {
	runs, err := s.queryRuns(ctx, `
		SELECT id, kind, period_start, period_end, total_cost, threshold, exceeded, currency, created_at
		FROM runs
		WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	run := runs[0]
	run.Owners, err = s.loadOwners(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// queryRuns reads every matching run before returning so that the single connection is free again.
func (s *defaultStore) queryRuns(ctx context.Context, query string, args ...any) ([]store.Run, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close runs query rows")
		}
	}(rows)

	runs := []store.Run{}
	for rows.Next() {
		var (
			run                 store.Run
			start, end, created string
			exceeded            int
		)
		if err := rows.Scan(
			&run.ID, &run.Kind, &start, &end,
			&run.TotalCost, &run.Threshold, &exceeded, &run.Currency, &created,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if run.PeriodStart, err = parseTime(start); err != nil {
			return nil, err
		}
		if run.PeriodEnd, err = parseTime(end); err != nil {
			return nil, err
		}
		if run.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		run.Exceeded = exceeded != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

func (s *defaultStore) loadOwners(ctx context.Context, runID int64) ([]store.RunOwner, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, `
		SELECT owner, total_cost, resource_count
		FROM run_owners
		WHERE run_id = ?
		ORDER BY total_cost DESC, owner`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query run owners: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close run owners query rows")
		}
	}(rows)

	var owners []store.RunOwner
	for rows.Next() {
		var owner store.RunOwner
		if err := rows.Scan(&owner.Owner, &owner.TotalCost, &owner.ResourceCount); err != nil {
			return nil, fmt.Errorf("failed to scan run owner: %w", err)
		}
		owners = append(owners, owner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read run owners: %w", err)
	}
	return owners, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
