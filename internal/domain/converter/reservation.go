package converter

import (
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	storageModel "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/model"
)

func ToReservationFromStorage(r storageModel.Reservation) models.Reservation {
	return models.Reservation{
		ID:              r.ID,
		InstructorID:    r.InstructorID,
		LabID:           r.LabID,
		CourseCode:      r.CourseCode,
		CourseName:      r.CourseName,
		Section:         r.Section,
		StudentCount:    r.StudentCount,
		Range:           models.TimeRange{Start: r.StartTime, End: r.EndTime},
		DurationMinutes: r.DurationMinutes,
		Status:          models.ReservationStatus(r.Status),
		Purpose:         r.Purpose,
		AdminNotes:      r.AdminNotes,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func ToReservationsFromStorage(storageReservations []storageModel.Reservation) []models.Reservation {
	reservations := make([]models.Reservation, len(storageReservations))
	for i, r := range storageReservations {
		reservations[i] = ToReservationFromStorage(r)
	}

	return reservations
}

func ToStorageFromReservation(r models.Reservation) storageModel.Reservation {
	return storageModel.Reservation{
		ID:              r.ID,
		InstructorID:    r.InstructorID,
		LabID:           r.LabID,
		CourseCode:      r.CourseCode,
		CourseName:      r.CourseName,
		Section:         r.Section,
		StudentCount:    r.StudentCount,
		StartTime:       r.Range.Start,
		EndTime:         r.Range.End,
		DurationMinutes: r.DurationMinutes,
		Status:          string(r.Status),
		Purpose:         r.Purpose,
		AdminNotes:      r.AdminNotes,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
