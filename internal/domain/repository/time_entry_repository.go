package repository

import (
	"context"

	"github.com/faktura-pro/faktura-api/internal/domain/entity"
)

// TimeEntryRepository is the persistence port for tracked work time, the
// second signal of the refined revenue projection.
type TimeEntryRepository interface {
	// ListByYear returns all entries dated in the given calendar year.
	ListByYear(ctx context.Context, year int) ([]entity.TimeEntry, error)
}
