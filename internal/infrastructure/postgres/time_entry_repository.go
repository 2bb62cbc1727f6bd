package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
	"github.com/faktura-pro/faktura-api/internal/domain/repository"
)

var _ repository.TimeEntryRepository = (*TimeEntryRepo)(nil)

// TimeEntryRepo implements the TimeEntryRepository port on PostgreSQL.
type TimeEntryRepo struct {
	pool *pgxpool.Pool
}

// NewTimeEntryRepository builds the persistence adapter for time entries.
func NewTimeEntryRepository(pool *pgxpool.Pool) *TimeEntryRepo {
	return &TimeEntryRepo{pool: pool}
}

// ListByYear returns all time entries dated within the given year.
func (r *TimeEntryRepo) ListByYear(ctx context.Context, year int) ([]entity.TimeEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, date, hours, hourly_rate, COALESCE(note, '')
		FROM time_entries
		WHERE date >= make_date($1, 1, 1) AND date < make_date($1 + 1, 1, 1)
		ORDER BY date`, year)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	var list []entity.TimeEntry
	for rows.Next() {
		var e entity.TimeEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Hours, &e.HourlyRate, &e.Note); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
