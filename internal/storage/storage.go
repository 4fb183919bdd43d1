package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
)

var (
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrLabExists           = errors.New("lab already exists")
	ErrLabNotFound         = errors.New("lab not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrTaskNotFound        = errors.New("task not found")
	// ErrOverlap: the in-transaction recheck found a pending or approved
	// reservation occupying the candidate range.
	ErrOverlap = errors.New("reservation overlaps an existing one")
	// ErrStatusMismatch: compare-and-swap on status found an unexpected
	// current status (lost to a concurrent transition).
	ErrStatusMismatch = errors.New("reservation status changed concurrently")
	ErrFailedLoginNotFound = errors.New("failed login record not found")
	// ErrUnavailable is transient; callers may retry with backoff.
	ErrUnavailable = errors.New("storage unavailable")
)

// ReservationFilter narrows reservation reads. Nil fields are not applied.
type ReservationFilter struct {
	LabID        *uuid.UUID
	InstructorID *uuid.UUID
	Statuses     []models.ReservationStatus
	// StartFrom/StartTo bound start_time as [StartFrom, StartTo).
	StartFrom *time.Time
	StartTo   *time.Time
}

// StatusUpdate is the compare-and-swap payload for a lifecycle transition.
type StatusUpdate struct {
	Expected        []models.ReservationStatus
	New             models.ReservationStatus
	AdminNotes      *string
	RejectionReason *string
}

// TaskFilter narrows per-user task listings.
type TaskFilter struct {
	Status   *models.TaskStatus
	Priority *models.TaskPriority
	Page     int
	PerPage  int
}
