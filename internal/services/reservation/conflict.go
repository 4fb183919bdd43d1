package reservation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
)

type ReservationProvider interface {
	Reservations(ctx context.Context, filter storage.ReservationFilter) ([]models.Reservation, error)
}

// ConflictDetector finds the blocking reservation for a candidate range, if
// any. Only pending and approved reservations block; rejected and cancelled
// ones free their slot immediately. It is a pure read: the storage layer
// re-runs the same check inside the creating transaction, so a concurrent
// creation between detect and commit cannot slip through.
type ConflictDetector struct {
	provider ReservationProvider
}

func NewConflictDetector(provider ReservationProvider) *ConflictDetector {
	return &ConflictDetector{provider: provider}
}

// FindConflict scans every pending/approved reservation for the lab and
// returns the first one overlapping candidate, or nil. excludeID skips the
// reservation being edited; pass uuid.Nil for creation.
func (d *ConflictDetector) FindConflict(ctx context.Context, labID uuid.UUID, candidate models.TimeRange, excludeID uuid.UUID) (*models.Reservation, error) {
	const op = "reservation.FindConflict"

	filter := storage.ReservationFilter{
		LabID:    &labID,
		Statuses: models.BlockingStatuses,
	}

	existing, err := d.provider.Reservations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range existing {
		if existing[i].ID == excludeID {
			continue
		}
		if existing[i].Range.Overlaps(candidate) {
			return &existing[i], nil
		}
	}

	return nil, nil
}
