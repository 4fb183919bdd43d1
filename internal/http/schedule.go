package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/schedule"
)

type scheduleHandler struct {
	log      *slog.Logger
	schedule *schedule.Service
}

// view serves the public schedule. lab_id and date (YYYY-MM-DD, UTC day)
// narrow the result; both are optional.
func (h *scheduleHandler) view(c *gin.Context) {
	var labID *uuid.UUID
	if raw := c.Query("lab_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid lab_id")
			return
		}
		labID = &parsed
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = &parsed
	}

	views, err := h.schedule.ScheduleFor(c.Request.Context(), labID, date)
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	out := make([]gin.H, len(views))
	for i, v := range views {
		out[i] = reservationViewJSON(v)
	}

	respond(c, http.StatusOK, gin.H{"schedule": out})
}

func (h *scheduleHandler) stats(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	stats, err := h.schedule.StatsFor(c.Request.Context(), identity)
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"stats": stats})
}
