package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/reservation"
)

type reservationHandler struct {
	log          *slog.Logger
	reservations *reservation.Service
}

type createReservationRequest struct {
	LabID        uuid.UUID `json:"lab_id" binding:"required"`
	CourseCode   string    `json:"course_code" binding:"required"`
	CourseName   string    `json:"course_name" binding:"required"`
	Section      string    `json:"section" binding:"required"`
	StudentCount int       `json:"student_count" binding:"omitempty,min=0"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
	Purpose      string    `json:"purpose"`
}

func (h *reservationHandler) create(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	created, err := h.reservations.Create(c.Request.Context(), identity, reservation.CreateInput{
		LabID:        req.LabID,
		CourseCode:   req.CourseCode,
		CourseName:   req.CourseName,
		Section:      req.Section,
		StudentCount: req.StudentCount,
		Start:        req.StartTime,
		End:          req.EndTime,
		Purpose:      req.Purpose,
	})
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"message":     "reservation requested",
		"reservation": reservationJSON(created),
	})
}

func (h *reservationHandler) list(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	reservations, err := h.reservations.ListFor(c.Request.Context(), identity)
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	out := make([]gin.H, len(reservations))
	for i, r := range reservations {
		out[i] = reservationJSON(r)
	}

	respond(c, http.StatusOK, gin.H{"reservations": out})
}

type approveRequest struct {
	AdminNotes string `json:"admin_notes"`
}

func (h *reservationHandler) approve(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var req approveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	approved, err := h.reservations.Approve(c.Request.Context(), identity, id, req.AdminNotes)
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message":     "reservation approved",
		"reservation": reservationJSON(approved),
	})
}

type rejectRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

func (h *reservationHandler) reject(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "rejection_reason is required")
		return
	}

	rejected, err := h.reservations.Reject(c.Request.Context(), identity, id, req.RejectionReason)
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message":     "reservation rejected",
		"reservation": reservationJSON(rejected),
	})
}

func (h *reservationHandler) cancel(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid reservation id")
		return
	}

	cancelled, err := h.reservations.Cancel(c.Request.Context(), identity, id)
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message":     "reservation cancelled",
		"reservation": reservationJSON(cancelled),
	})
}
