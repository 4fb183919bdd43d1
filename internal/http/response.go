package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/logger/sl"
	authservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/auth"
	labservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/lab"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/reservation"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/schedule"
	taskservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/task"
)

func respond(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// bindError shapes request binding failures. Field-level validator errors
// become a single readable message.
func bindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fieldErr := validationErrs[0]
		fail(c, http.StatusBadRequest, fieldErr.Field()+" is invalid ("+fieldErr.Tag()+")")
		return
	}

	fail(c, http.StatusBadRequest, "invalid request body")
}

// mapServiceErr translates the service error taxonomy to HTTP statuses.
// Conflicts and forbidden transitions are expected business outcomes and
// must stay distinguishable from transient storage failures.
func mapServiceErr(c *gin.Context, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, reservation.ErrForbidden),
		errors.Is(err, schedule.ErrForbidden),
		errors.Is(err, labservice.ErrForbidden):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, reservation.ErrConflict):
		fail(c, http.StatusConflict, "time slot conflict with existing reservation")
	case errors.Is(err, reservation.ErrInvalidTransition):
		fail(c, http.StatusConflict, "reservation is not in a state that allows this action")
	case errors.Is(err, reservation.ErrNotFound):
		fail(c, http.StatusNotFound, ErrReservationNotFound)
	case errors.Is(err, reservation.ErrLabNotFound):
		fail(c, http.StatusNotFound, ErrLabNotFound)
	case errors.Is(err, labservice.ErrLabExists):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, labservice.ErrNameRequired),
		errors.Is(err, reservation.ErrLabInactive),
		errors.Is(err, reservation.ErrReasonRequired),
		errors.Is(err, models.ErrInvalidRange),
		errors.Is(err, models.ErrCourseCodeRequired),
		errors.Is(err, models.ErrCourseNameRequired),
		errors.Is(err, models.ErrSectionRequired),
		errors.Is(err, models.ErrNegativeStudents),
		errors.Is(err, taskservice.ErrTitleRequired),
		errors.Is(err, taskservice.ErrInvalidStatus),
		errors.Is(err, taskservice.ErrInvalidPriority),
		errors.Is(err, authservice.ErrWeakPassword),
		errors.Is(err, authservice.ErrInvalidRole):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, taskservice.ErrNotFound):
		fail(c, http.StatusNotFound, ErrTaskNotFound)
	case errors.Is(err, authservice.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrUserNotFound)
	case errors.Is(err, authservice.ErrUserExists):
		fail(c, http.StatusConflict, "username or email already exists")
	case errors.Is(err, authservice.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrInvalidCredentials)
	case errors.Is(err, authservice.ErrAccountIsLocked):
		fail(c, http.StatusUnauthorized, ErrAccountLocked)
	case errors.Is(err, authservice.ErrAccountDeactivated):
		fail(c, http.StatusUnauthorized, ErrAccountDeactivated)
	case errors.Is(err, reservation.ErrStorageUnavailable),
		errors.Is(err, schedule.ErrStorageUnavailable),
		errors.Is(err, labservice.ErrStorageUnavailable),
		errors.Is(err, taskservice.ErrStorageUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrStorageUnavailable)
	default:
		log.Error("unhandled service error", sl.Err(err))
		fail(c, http.StatusInternalServerError, ErrInternal)
	}
}

func userJSON(u models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"full_name":  u.FullName(),
		"role":       u.Role,
		"is_active":  u.IsActive,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func labJSON(l models.Lab) gin.H {
	return gin.H{
		"id":          l.ID,
		"name":        l.Name,
		"location":    l.Location,
		"capacity":    l.Capacity,
		"equipment":   l.Equipment,
		"description": l.Description,
		"is_active":   l.IsActive,
		"admin_id":    l.AdminID,
		"created_at":  l.CreatedAt,
		"updated_at":  l.UpdatedAt,
	}
}

func reservationJSON(r models.Reservation) gin.H {
	return gin.H{
		"id":               r.ID,
		"instructor_id":    r.InstructorID,
		"lab_id":           r.LabID,
		"course_code":      r.CourseCode,
		"course_name":      r.CourseName,
		"section":          r.Section,
		"student_count":    r.StudentCount,
		"start_time":       r.Range.Start,
		"end_time":         r.Range.End,
		"duration_minutes": r.DurationMinutes,
		"status":           r.Status,
		"purpose":          r.Purpose,
		"admin_notes":      r.AdminNotes,
		"rejection_reason": r.RejectionReason,
		"created_at":       r.CreatedAt,
		"updated_at":       r.UpdatedAt,
	}
}

func reservationViewJSON(v models.ReservationView) gin.H {
	body := reservationJSON(v.Reservation)
	body["instructor_name"] = v.InstructorName
	body["lab_name"] = v.LabName

	return body
}

func taskJSON(t models.Task) gin.H {
	return gin.H{
		"id":           t.ID,
		"user_id":      t.UserID,
		"title":        t.Title,
		"description":  t.Description,
		"status":       t.Status,
		"priority":     t.Priority,
		"due_date":     t.DueDate,
		"completed_at": t.CompletedAt,
		"created_at":   t.CreatedAt,
		"updated_at":   t.UpdatedAt,
	}
}
