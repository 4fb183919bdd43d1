package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/converter"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
	storageModel "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/model"
)

const reservationColumns = "id,instructor_id,lab_id,course_code,course_name,section,student_count," +
	"start_time,end_time,duration_minutes,status,purpose,admin_notes,rejection_reason,created_at,updated_at"

func scanReservation(row pgx.Row) (storageModel.Reservation, error) {
	var r storageModel.Reservation
	err := row.Scan(
		&r.ID, &r.InstructorID, &r.LabID,
		&r.CourseCode, &r.CourseName, &r.Section, &r.StudentCount,
		&r.StartTime, &r.EndTime, &r.DurationMinutes,
		&r.Status, &r.Purpose, &r.AdminNotes, &r.RejectionReason,
		&r.CreatedAt, &r.UpdatedAt,
	)

	return r, err
}

func statusStrings(statuses []models.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}

	return out
}

type reservationEventPayload struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	LabID         uuid.UUID `json:"lab_id"`
	InstructorID  uuid.UUID `json:"instructor_id"`
	Status        string    `json:"status"`
}

func eventTypeForStatus(status models.ReservationStatus) string {
	switch status {
	case models.StatusApproved:
		return models.EventReservationApproved
	case models.StatusRejected:
		return models.EventReservationRejected
	case models.StatusCancelled:
		return models.EventReservationCancelled
	default:
		return models.EventReservationRequested
	}
}

// CreateReservation inserts a pending reservation after rechecking the lab's
// timeline inside the transaction. The lab row is locked first, so two
// concurrent creations for the same lab serialize and at most one of an
// overlapping pair commits.
func (s *Storage) CreateReservation(ctx context.Context, r models.Reservation) (models.Reservation, error) {
	const op = "storage.postgres.CreateReservation"

	tx, err := s.dbpool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, retryable(err))
	}
	defer tx.Rollback(ctx)

	var labActive bool
	err = tx.QueryRow(ctx, "SELECT is_active FROM labs WHERE id=$1 FOR UPDATE", r.LabID).Scan(&labActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrLabNotFound)
		}
		return models.Reservation{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	if !labActive {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrLabNotFound)
	}

	overlapQuery := "SELECT id FROM reservations WHERE lab_id=@labId AND status=ANY(@statuses) " +
		"AND start_time<@endTime AND end_time>@startTime LIMIT 1"
	overlapArgs := pgx.NamedArgs{
		"labId":     r.LabID,
		"statuses":  statusStrings(models.BlockingStatuses),
		"startTime": r.Range.Start,
		"endTime":   r.Range.End,
	}

	var conflictID uuid.UUID
	err = tx.QueryRow(ctx, overlapQuery, overlapArgs).Scan(&conflictID)
	if err == nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrOverlap)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	row := converter.ToStorageFromReservation(r)
	insertQuery := "INSERT INTO reservations(" + reservationColumns + ") VALUES(" +
		"@id,@instructorId,@labId,@courseCode,@courseName,@section,@studentCount," +
		"@startTime,@endTime,@durationMinutes,@status,@purpose,@adminNotes,@rejectionReason,@createdAt,@updatedAt)"
	insertArgs := pgx.NamedArgs{
		"id":              row.ID,
		"instructorId":    row.InstructorID,
		"labId":           row.LabID,
		"courseCode":      row.CourseCode,
		"courseName":      row.CourseName,
		"section":         row.Section,
		"studentCount":    row.StudentCount,
		"startTime":       row.StartTime,
		"endTime":         row.EndTime,
		"durationMinutes": row.DurationMinutes,
		"status":          row.Status,
		"purpose":         row.Purpose,
		"adminNotes":      row.AdminNotes,
		"rejectionReason": row.RejectionReason,
		"createdAt":       row.CreatedAt,
		"updatedAt":       row.UpdatedAt,
	}

	if _, err := tx.Exec(ctx, insertQuery, insertArgs); err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	payload := reservationEventPayload{
		ReservationID: r.ID,
		LabID:         r.LabID,
		InstructorID:  r.InstructorID,
		Status:        string(r.Status),
	}
	if err := insertEvent(ctx, tx, models.EventReservationRequested, payload); err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return r, nil
}

func (s *Storage) Reservation(ctx context.Context, id uuid.UUID) (models.Reservation, error) {
	const op = "storage.postgres.Reservation"

	query := "SELECT " + reservationColumns + " FROM reservations WHERE id=$1"
	row, err := scanReservation(s.dbpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrReservationNotFound)
		}
		return models.Reservation{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToReservationFromStorage(row), nil
}

// UpdateReservationStatus is a compare-and-swap transition: the row is
// updated only while its current status is one of upd.Expected. A miss is
// ErrStatusMismatch if the reservation exists, ErrReservationNotFound
// otherwise.
func (s *Storage) UpdateReservationStatus(ctx context.Context, id uuid.UUID, upd storage.StatusUpdate) (models.Reservation, error) {
	const op = "storage.postgres.UpdateReservationStatus"

	tx, err := s.dbpool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, retryable(err))
	}
	defer tx.Rollback(ctx)

	query := "UPDATE reservations SET status=@newStatus," +
		"admin_notes=COALESCE(@adminNotes,admin_notes)," +
		"rejection_reason=COALESCE(@rejectionReason,rejection_reason)," +
		"updated_at=now() " +
		"WHERE id=@id AND status=ANY(@expected) RETURNING " + reservationColumns
	args := pgx.NamedArgs{
		"id":              id,
		"newStatus":       string(upd.New),
		"adminNotes":      upd.AdminNotes,
		"rejectionReason": upd.RejectionReason,
		"expected":        statusStrings(upd.Expected),
	}

	row, err := scanReservation(tx.QueryRow(ctx, query, args))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM reservations WHERE id=$1)", id).Scan(&exists); err != nil {
				return models.Reservation{}, fmt.Errorf("%s: %w", op, retryable(err))
			}
			if exists {
				return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrStatusMismatch)
			}
			return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrReservationNotFound)
		}
		return models.Reservation{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	payload := reservationEventPayload{
		ReservationID: row.ID,
		LabID:         row.LabID,
		InstructorID:  row.InstructorID,
		Status:        row.Status,
	}
	if err := insertEvent(ctx, tx, eventTypeForStatus(upd.New), payload); err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToReservationFromStorage(row), nil
}

func reservationWhere(filter storage.ReservationFilter, args pgx.NamedArgs) string {
	where := ""
	and := func(clause string) {
		if where == "" {
			where = " WHERE " + clause
			return
		}
		where += " AND " + clause
	}

	if filter.LabID != nil {
		args["labId"] = *filter.LabID
		and("lab_id=@labId")
	}
	if filter.InstructorID != nil {
		args["instructorId"] = *filter.InstructorID
		and("instructor_id=@instructorId")
	}
	if len(filter.Statuses) > 0 {
		args["statuses"] = statusStrings(filter.Statuses)
		and("status=ANY(@statuses)")
	}
	if filter.StartFrom != nil {
		args["startFrom"] = *filter.StartFrom
		and("start_time>=@startFrom")
	}
	if filter.StartTo != nil {
		args["startTo"] = *filter.StartTo
		and("start_time<@startTo")
	}

	return where
}

func (s *Storage) Reservations(ctx context.Context, filter storage.ReservationFilter) ([]models.Reservation, error) {
	const op = "storage.postgres.Reservations"

	args := pgx.NamedArgs{}
	query := "SELECT " + reservationColumns + " FROM reservations" + reservationWhere(filter, args) +
		" ORDER BY start_time"

	rows, err := s.dbpool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, retryable(err))
	}
	defer rows.Close()

	var reservations []storageModel.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToReservationsFromStorage(reservations), nil
}

func (s *Storage) CountReservations(ctx context.Context, filter storage.ReservationFilter) (int, error) {
	const op = "storage.postgres.CountReservations"

	args := pgx.NamedArgs{}
	query := "SELECT COUNT(*) FROM reservations" + reservationWhere(filter, args)

	var count int
	if err := s.dbpool.QueryRow(ctx, query, args).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return count, nil
}
