package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/converter"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	storageModel "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/model"
)

const eventReservePeriod = time.Minute

// NewEvents claims a batch of unpublished outbox events. Claimed rows are
// reserved for eventReservePeriod so a crashed sender's batch becomes
// claimable again; SKIP LOCKED keeps concurrent senders from blocking each
// other.
func (s *Storage) NewEvents(ctx context.Context, limit int) ([]models.Event, error) {
	const op = "storage.postgres.NewEvents"

	query := `UPDATE events SET reserved_to=@reservedTo
	WHERE id IN (
		SELECT id FROM events
		WHERE status='new' AND (reserved_to IS NULL OR reserved_to<@now)
		ORDER BY created_at
		LIMIT @limit
		FOR UPDATE SKIP LOCKED
	)
	RETURNING id,event_type,payload,status,created_at,reserved_to`

	now := time.Now().UTC()
	args := pgx.NamedArgs{
		"now":        now,
		"reservedTo": now.Add(eventReservePeriod),
		"limit":      limit,
	}

	rows, err := s.dbpool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, retryable(err))
	}
	defer rows.Close()

	var events []storageModel.Event
	for rows.Next() {
		var e storageModel.Event
		if err := rows.Scan(&e.ID, &e.Type, &e.Payload, &e.Status, &e.CreatedAt, &e.ReservedTo); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToEventsFromStorage(events), nil
}

func (s *Storage) SetEventDone(ctx context.Context, eventID uuid.UUID) (models.Event, error) {
	const op = "storage.postgres.SetEventDone"

	query := "UPDATE events SET status='done' WHERE id=$1 RETURNING id,event_type,payload,status,created_at,reserved_to"

	var e storageModel.Event
	err := s.dbpool.QueryRow(ctx, query, eventID).Scan(&e.ID, &e.Type, &e.Payload, &e.Status, &e.CreatedAt, &e.ReservedTo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Event{}, fmt.Errorf("%s: event %s not found", op, eventID)
		}
		return models.Event{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToEventFromStorage(e), nil
}
