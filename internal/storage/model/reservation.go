package model

import (
	"time"

	"github.com/google/uuid"
)

type Reservation struct {
	ID              uuid.UUID `db:"id"`
	InstructorID    uuid.UUID `db:"instructor_id"`
	LabID           uuid.UUID `db:"lab_id"`
	CourseCode      string    `db:"course_code"`
	CourseName      string    `db:"course_name"`
	Section         string    `db:"section"`
	StudentCount    int       `db:"student_count"`
	StartTime       time.Time `db:"start_time"`
	EndTime         time.Time `db:"end_time"`
	DurationMinutes int       `db:"duration_minutes"`
	Status          string    `db:"status"`
	Purpose         string    `db:"purpose"`
	AdminNotes      string    `db:"admin_notes"`
	RejectionReason string    `db:"rejection_reason"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
