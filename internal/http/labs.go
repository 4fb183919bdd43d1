package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	labservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/lab"
)

type labHandler struct {
	log  *slog.Logger
	labs *labservice.Service
}

type createLabRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity" binding:"omitempty,min=1"`
	Equipment   string `json:"equipment"`
	Description string `json:"description"`
}

func (h *labHandler) create(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	var req createLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	lab, err := h.labs.Create(c.Request.Context(), identity, labservice.CreateInput{
		Name:        req.Name,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Equipment:   req.Equipment,
		Description: req.Description,
	})
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"message": "lab created",
		"lab":     labJSON(lab),
	})
}

func (h *labHandler) list(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	labs, err := h.labs.List(c.Request.Context(), identity)
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	out := make([]gin.H, len(labs))
	for i, lab := range labs {
		out[i] = labJSON(lab)
	}

	respond(c, http.StatusOK, gin.H{"labs": out})
}
