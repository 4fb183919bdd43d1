package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

type Storage struct {
	dbpool *pgxpool.Pool
}

func New(ctx context.Context, dbAddr string) (*Storage, error) {
	const op = "storage.postgres.New"

	dbpool, err := pgxpool.New(ctx, dbAddr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{dbpool: dbpool}, nil
}

func (s *Storage) ClosePool() {
	s.dbpool.Close()
}

// retryable maps transient backend failures to storage.ErrUnavailable so
// callers can tell them apart from business outcomes. Serialization and
// deadlock aborts are transient: the transaction never committed and may be
// retried by the caller.
func retryable(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return storage.ErrUnavailable
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return storage.ErrUnavailable
	}

	return err
}

func isUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// insertEvent appends an outbox record inside the caller's transaction, so
// the event exists iff the state change committed.
func insertEvent(ctx context.Context, tx pgx.Tx, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	query := "INSERT INTO events(id,event_type,payload,status) VALUES(@eventId,@eventType,@payload,'new')"
	args := pgx.NamedArgs{
		"eventId":   uuid.New(),
		"eventType": eventType,
		"payload":   string(data),
	}

	_, err = tx.Exec(ctx, query, args)

	return err
}
