package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCourseCodeRequired = errors.New("course code is required")
	ErrCourseNameRequired = errors.New("course name is required")
	ErrSectionRequired    = errors.New("section is required")
	ErrNegativeStudents   = errors.New("student count must be non-negative")
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusApproved  ReservationStatus = "approved"
	StatusRejected  ReservationStatus = "rejected"
	StatusCancelled ReservationStatus = "cancelled"
)

// BlockingStatuses are the statuses that occupy a lab's timeline. Rejected
// and cancelled reservations free their slot immediately.
var BlockingStatuses = []ReservationStatus{StatusPending, StatusApproved}

type Reservation struct {
	ID              uuid.UUID
	InstructorID    uuid.UUID
	LabID           uuid.UUID
	CourseCode      string
	CourseName      string
	Section         string
	StudentCount    int
	Range           TimeRange
	DurationMinutes int
	Status          ReservationStatus
	Purpose         string
	AdminNotes      string
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewReservation builds a pending reservation request. DurationMinutes is
// stored redundantly for display and always equals the derived value.
func NewReservation(instructorID, labID uuid.UUID, courseCode, courseName, section string, studentCount int, rng TimeRange, purpose string) (Reservation, error) {
	if courseCode == "" {
		return Reservation{}, ErrCourseCodeRequired
	}
	if courseName == "" {
		return Reservation{}, ErrCourseNameRequired
	}
	if section == "" {
		return Reservation{}, ErrSectionRequired
	}
	if studentCount < 0 {
		return Reservation{}, ErrNegativeStudents
	}

	now := time.Now().UTC()

	return Reservation{
		ID:              uuid.New(),
		InstructorID:    instructorID,
		LabID:           labID,
		CourseCode:      courseCode,
		CourseName:      courseName,
		Section:         section,
		StudentCount:    studentCount,
		Range:           rng,
		DurationMinutes: rng.DurationMinutes(),
		Status:          StatusPending,
		Purpose:         purpose,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ReservationView is the read-side shape: display names are resolved by
// explicit lookups at the query boundary, the entity itself holds ids only.
type ReservationView struct {
	Reservation
	InstructorName string
	LabName        string
}
