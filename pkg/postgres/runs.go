package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftguard/shiftguard/pkg/core/model"
	"github.com/shiftguard/shiftguard/pkg/core/services"
)

// InsertRun records a generation run with its assignments and warnings in a
// single transaction.
func (db *DB) InsertRun(ctx context.Context, run *services.Run) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO schedule_run (id, created_at, horizon_start, horizon_end, soft_cost)
		VALUES ($1, $2, $3, $4, $5)
	`, run.ID, run.CreatedAt, run.HorizonStart, run.HorizonEnd, run.SoftCost)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if len(run.Schedule.Assignments) > 0 {
		rows := make([][]any, 0, len(run.Schedule.Assignments))
		for _, a := range run.Schedule.Assignments {
			rows = append(rows, []any{run.ID, a.Date, a.ShiftTypeID, a.StaffID})
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"run_assignment"},
			[]string{"run_id", "shift_date", "shift_type", "staff_id"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to insert assignments: %w", err)
		}
	}

	for _, w := range run.Warnings {
		_, err = tx.Exec(ctx, `
			INSERT INTO run_warning (run_id, severity, category, shift_date, shift_type, staff_id, deficit, message)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, run.ID, w.Severity.String(), string(w.Category), w.Date, w.ShiftTypeID, w.StaffID, w.Deficit, w.Message)
		if err != nil {
			return fmt.Errorf("failed to insert warning: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// RunSummary is one row of the run history listing.
type RunSummary struct {
	ID            string
	CreatedAt     time.Time
	HorizonStart  string
	HorizonEnd    string
	SoftCost      float64
	Assignments   int
	Warnings      int
	CriticalCount int
}

// ListRuns retrieves run summaries, most recent first.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx, `
		SELECT r.id, r.created_at, r.horizon_start, r.horizon_end, r.soft_cost,
			(SELECT COUNT(*) FROM run_assignment a WHERE a.run_id = r.id),
			(SELECT COUNT(*) FROM run_warning w WHERE w.run_id = r.id),
			(SELECT COUNT(*) FROM run_warning w WHERE w.run_id = r.id AND w.severity = $1)
		FROM schedule_run r
		ORDER BY r.created_at DESC
		LIMIT $2
	`, model.SeverityCritical.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var start, end time.Time
		if err := rows.Scan(&r.ID, &r.CreatedAt, &start, &end, &r.SoftCost,
			&r.Assignments, &r.Warnings, &r.CriticalCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.HorizonStart = start.Format(model.DateLayout)
		r.HorizonEnd = end.Format(model.DateLayout)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}
