package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/access"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
)

var (
	ErrForbidden          = errors.New("forbidden")
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

type ScheduleStore interface {
	Reservations(ctx context.Context, filter storage.ReservationFilter) ([]models.Reservation, error)
	CountReservations(ctx context.Context, filter storage.ReservationFilter) (int, error)
	CountActiveLabs(ctx context.Context) (int, error)
}

// DirectoryProvider resolves display names at the query boundary. The
// reservation entity itself carries ids only.
type DirectoryProvider interface {
	User(ctx context.Context, userID uuid.UUID) (models.User, error)
	Lab(ctx context.Context, labID uuid.UUID) (models.Lab, error)
}

type Service struct {
	log       *slog.Logger
	store     ScheduleStore
	directory DirectoryProvider
}

func New(log *slog.Logger, store ScheduleStore, directory DirectoryProvider) *Service {
	return &Service{log: log, store: store, directory: directory}
}

// ScheduleFor returns approved reservations, optionally narrowed to one lab
// and to the UTC calendar day [date 00:00, date+1 00:00). The schedule is a
// public read path.
func (s *Service) ScheduleFor(ctx context.Context, labID *uuid.UUID, date *time.Time) ([]models.ReservationView, error) {
	const op = "schedule.ScheduleFor"

	filter := storage.ReservationFilter{
		Statuses: []models.ReservationStatus{models.StatusApproved},
		LabID:    labID,
	}
	if date != nil {
		dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.AddDate(0, 0, 1)
		filter.StartFrom = &dayStart
		filter.StartTo = &dayEnd
	}

	reservations, err := s.store.Reservations(ctx, filter)
	if err != nil {
		return nil, s.mapStoreErr(op, err)
	}

	return s.resolveViews(ctx, reservations), nil
}

// resolveViews attaches instructor and lab names with one lookup per
// distinct id, no per-row traversal.
func (s *Service) resolveViews(ctx context.Context, reservations []models.Reservation) []models.ReservationView {
	instructorNames := make(map[uuid.UUID]string)
	labNames := make(map[uuid.UUID]string)

	views := make([]models.ReservationView, len(reservations))
	for i, r := range reservations {
		instructorName, ok := instructorNames[r.InstructorID]
		if !ok {
			instructorName = "Unknown"
			if user, err := s.directory.User(ctx, r.InstructorID); err == nil {
				instructorName = user.FullName()
			}
			instructorNames[r.InstructorID] = instructorName
		}

		labName, ok := labNames[r.LabID]
		if !ok {
			labName = "Unknown"
			if lab, err := s.directory.Lab(ctx, r.LabID); err == nil {
				labName = lab.Name
			}
			labNames[r.LabID] = labName
		}

		views[i] = models.ReservationView{
			Reservation:    r,
			InstructorName: instructorName,
			LabName:        labName,
		}
	}

	return views
}

func (s *Service) AdminStats(ctx context.Context) (models.AdminStats, error) {
	const op = "schedule.AdminStats"

	var stats models.AdminStats
	var err error

	if stats.TotalLabs, err = s.store.CountActiveLabs(ctx); err != nil {
		return models.AdminStats{}, s.mapStoreErr(op, err)
	}
	if stats.TotalReservations, err = s.store.CountReservations(ctx, storage.ReservationFilter{}); err != nil {
		return models.AdminStats{}, s.mapStoreErr(op, err)
	}
	if stats.PendingRequests, err = s.countByStatus(ctx, models.StatusPending); err != nil {
		return models.AdminStats{}, s.mapStoreErr(op, err)
	}
	if stats.ApprovedReservations, err = s.countByStatus(ctx, models.StatusApproved); err != nil {
		return models.AdminStats{}, s.mapStoreErr(op, err)
	}

	return stats, nil
}

func (s *Service) InstructorStats(ctx context.Context, instructorID uuid.UUID, now time.Time) (models.InstructorStats, error) {
	const op = "schedule.InstructorStats"

	var stats models.InstructorStats
	var err error

	own := storage.ReservationFilter{InstructorID: &instructorID}
	if stats.MyReservations, err = s.store.CountReservations(ctx, own); err != nil {
		return models.InstructorStats{}, s.mapStoreErr(op, err)
	}

	upcoming := storage.ReservationFilter{
		InstructorID: &instructorID,
		Statuses:     []models.ReservationStatus{models.StatusApproved},
		StartFrom:    &now,
	}
	if stats.UpcomingSessions, err = s.store.CountReservations(ctx, upcoming); err != nil {
		return models.InstructorStats{}, s.mapStoreErr(op, err)
	}

	pending := storage.ReservationFilter{
		InstructorID: &instructorID,
		Statuses:     []models.ReservationStatus{models.StatusPending},
	}
	if stats.PendingRequests, err = s.store.CountReservations(ctx, pending); err != nil {
		return models.InstructorStats{}, s.mapStoreErr(op, err)
	}

	return stats, nil
}

func (s *Service) StudentStats(ctx context.Context) (models.StudentStats, error) {
	const op = "schedule.StudentStats"

	var stats models.StudentStats
	var err error

	if stats.AvailableLabs, err = s.store.CountActiveLabs(ctx); err != nil {
		return models.StudentStats{}, s.mapStoreErr(op, err)
	}
	if stats.ScheduledSessions, err = s.countByStatus(ctx, models.StatusApproved); err != nil {
		return models.StudentStats{}, s.mapStoreErr(op, err)
	}

	return stats, nil
}

// StatsFor dispatches on the caller's role; the switch is exhaustive over
// the closed enum.
func (s *Service) StatsFor(ctx context.Context, identity models.Identity) (any, error) {
	const op = "schedule.StatsFor"

	if !access.CanPerform(identity.Role, access.ActionViewStats, false) {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	switch identity.Role {
	case models.RoleAdmin:
		return s.AdminStats(ctx)
	case models.RoleInstructor:
		return s.InstructorStats(ctx, identity.ID, time.Now().UTC())
	case models.RoleStudent:
		return s.StudentStats(ctx)
	default:
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
}

func (s *Service) countByStatus(ctx context.Context, status models.ReservationStatus) (int, error) {
	return s.store.CountReservations(ctx, storage.ReservationFilter{
		Statuses: []models.ReservationStatus{status},
	})
}

func (s *Service) mapStoreErr(op string, err error) error {
	if errors.Is(err, storage.ErrUnavailable) {
		return fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
	}

	return fmt.Errorf("%s: %w", op, err)
}
