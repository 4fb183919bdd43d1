package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/access"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/logger/sl"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
)

var (
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("time slot conflict with existing reservation")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotFound           = errors.New("reservation not found")
	ErrLabNotFound        = errors.New("lab not found")
	ErrLabInactive        = errors.New("lab is not active")
	ErrReasonRequired     = errors.New("rejection reason is required")
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

type ReservationStore interface {
	ReservationProvider
	CreateReservation(ctx context.Context, r models.Reservation) (models.Reservation, error)
	Reservation(ctx context.Context, id uuid.UUID) (models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, upd storage.StatusUpdate) (models.Reservation, error)
}

type LabProvider interface {
	Lab(ctx context.Context, labID uuid.UUID) (models.Lab, error)
}

type Service struct {
	log            *slog.Logger
	store          ReservationStore
	labs           LabProvider
	detector       *ConflictDetector
	conflictsTotal prometheus.Counter
}

// New returns a new instance of the reservation service
func New(log *slog.Logger, store ReservationStore, labs LabProvider, conflictsTotal prometheus.Counter) *Service {
	return &Service{
		log:            log,
		store:          store,
		labs:           labs,
		detector:       NewConflictDetector(store),
		conflictsTotal: conflictsTotal,
	}
}

type CreateInput struct {
	LabID        uuid.UUID
	CourseCode   string
	CourseName   string
	Section      string
	StudentCount int
	Start        time.Time
	End          time.Time
	Purpose      string
}

// Create validates and persists a pending reservation request. Validation
// runs before any store interaction; authorization short-circuits before
// conflict checking. The pre-check surfaces the conflicting reservation,
// the store recheck keeps concurrent creations out.
func (s *Service) Create(ctx context.Context, identity models.Identity, input CreateInput) (models.Reservation, error) {
	const op = "reservation.Create"
	log := s.log.With(slog.String("op", op), sl.UID(identity.ID.String()))

	if !access.CanPerform(identity.Role, access.ActionCreateReservation, false) {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	rng, err := models.NewTimeRange(input.Start, input.End)
	if err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}

	r, err := models.NewReservation(
		identity.ID, input.LabID,
		input.CourseCode, input.CourseName, input.Section,
		input.StudentCount, rng, input.Purpose,
	)
	if err != nil {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, err)
	}

	lab, err := s.labs.Lab(ctx, input.LabID)
	if err != nil {
		return models.Reservation{}, s.mapStoreErr(op, err)
	}
	if !lab.IsActive {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, ErrLabInactive)
	}

	conflict, err := s.detector.FindConflict(ctx, input.LabID, rng, uuid.Nil)
	if err != nil {
		return models.Reservation{}, s.mapStoreErr(op, err)
	}
	if conflict != nil {
		s.conflictsTotal.Inc()
		log.Info("reservation conflict",
			slog.String("labId", input.LabID.String()),
			slog.String("conflictingId", conflict.ID.String()))
		return models.Reservation{}, fmt.Errorf("%s: %w", op, ErrConflict)
	}

	created, err := s.store.CreateReservation(ctx, r)
	if err != nil {
		if errors.Is(err, storage.ErrOverlap) {
			s.conflictsTotal.Inc()
		}
		return models.Reservation{}, s.mapStoreErr(op, err)
	}

	log.Info("reservation requested",
		slog.String("reservationId", created.ID.String()),
		slog.String("labId", created.LabID.String()),
		slog.String("course", created.CourseCode))

	return created, nil
}

// Approve transitions pending -> approved. Admin only.
func (s *Service) Approve(ctx context.Context, identity models.Identity, id uuid.UUID, adminNotes string) (models.Reservation, error) {
	const op = "reservation.Approve"
	log := s.log.With(slog.String("op", op), sl.UID(identity.ID.String()))

	if !access.CanPerform(identity.Role, access.ActionApproveReservation, false) {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	upd := storage.StatusUpdate{
		Expected:   []models.ReservationStatus{models.StatusPending},
		New:        models.StatusApproved,
		AdminNotes: &adminNotes,
	}

	approved, err := s.store.UpdateReservationStatus(ctx, id, upd)
	if err != nil {
		return models.Reservation{}, s.mapStoreErr(op, err)
	}

	log.Info("reservation approved", slog.String("reservationId", id.String()))

	return approved, nil
}

// Reject transitions pending -> rejected. Admin only, reason required.
func (s *Service) Reject(ctx context.Context, identity models.Identity, id uuid.UUID, reason string) (models.Reservation, error) {
	const op = "reservation.Reject"
	log := s.log.With(slog.String("op", op), sl.UID(identity.ID.String()))

	if !access.CanPerform(identity.Role, access.ActionRejectReservation, false) {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if strings.TrimSpace(reason) == "" {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, ErrReasonRequired)
	}

	upd := storage.StatusUpdate{
		Expected:        []models.ReservationStatus{models.StatusPending},
		New:             models.StatusRejected,
		RejectionReason: &reason,
	}

	rejected, err := s.store.UpdateReservationStatus(ctx, id, upd)
	if err != nil {
		return models.Reservation{}, s.mapStoreErr(op, err)
	}

	log.Info("reservation rejected", slog.String("reservationId", id.String()))

	return rejected, nil
}

// Cancel transitions pending or approved -> cancelled. Allowed for the
// owning instructor and for admins. Cancellation is a status change, never
// a removal.
func (s *Service) Cancel(ctx context.Context, identity models.Identity, id uuid.UUID) (models.Reservation, error) {
	const op = "reservation.Cancel"
	log := s.log.With(slog.String("op", op), sl.UID(identity.ID.String()))

	r, err := s.store.Reservation(ctx, id)
	if err != nil {
		return models.Reservation{}, s.mapStoreErr(op, err)
	}

	owner := r.InstructorID == identity.ID
	if !access.CanPerform(identity.Role, access.ActionCancelReservation, owner) {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	upd := storage.StatusUpdate{
		Expected: []models.ReservationStatus{models.StatusPending, models.StatusApproved},
		New:      models.StatusCancelled,
	}

	cancelled, err := s.store.UpdateReservationStatus(ctx, id, upd)
	if err != nil {
		return models.Reservation{}, s.mapStoreErr(op, err)
	}

	log.Info("reservation cancelled", slog.String("reservationId", id.String()))

	return cancelled, nil
}

// ListFor returns the reservations visible to the caller: admins see all,
// instructors their own, students only approved ones.
func (s *Service) ListFor(ctx context.Context, identity models.Identity) ([]models.Reservation, error) {
	const op = "reservation.ListFor"

	if !access.CanPerform(identity.Role, access.ActionViewReservations, false) {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	var filter storage.ReservationFilter
	switch identity.Role {
	case models.RoleAdmin:
		// no filter
	case models.RoleInstructor:
		instructorID := identity.ID
		filter.InstructorID = &instructorID
	case models.RoleStudent:
		filter.Statuses = []models.ReservationStatus{models.StatusApproved}
	default:
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	reservations, err := s.store.Reservations(ctx, filter)
	if err != nil {
		return nil, s.mapStoreErr(op, err)
	}

	return reservations, nil
}

func (s *Service) mapStoreErr(op string, err error) error {
	log := s.log.With(slog.String("op", op))

	switch {
	case errors.Is(err, storage.ErrOverlap):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case errors.Is(err, storage.ErrStatusMismatch):
		return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	case errors.Is(err, storage.ErrReservationNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrLabNotFound):
		return fmt.Errorf("%s: %w", op, ErrLabNotFound)
	case errors.Is(err, storage.ErrUnavailable):
		log.Warn("storage unavailable", sl.Err(err))
		return fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
	default:
		log.Error("storage failure", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
}
