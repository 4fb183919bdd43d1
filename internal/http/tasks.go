package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	taskservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/task"
)

type taskHandler struct {
	log   *slog.Logger
	tasks *taskservice.Service
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *taskHandler) create(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), identity.ID, taskservice.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"message": "task created",
		"task":    taskJSON(task),
	})
}

func (h *taskHandler) list(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	tasks, pagination, err := h.tasks.List(c.Request.Context(), identity.ID, taskservice.ListInput{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	out := make([]gin.H, len(tasks))
	for i, t := range tasks {
		out[i] = taskJSON(t)
	}

	respond(c, http.StatusOK, gin.H{
		"tasks":      out,
		"pagination": pagination,
	})
}

func (h *taskHandler) get(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), identity.ID, id)
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"task": taskJSON(task)})
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *taskHandler) update(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid task id")
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), identity.ID, id, taskservice.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message": "task updated",
		"task":    taskJSON(task),
	})
}

func (h *taskHandler) delete(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), identity.ID, id); err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": "task deleted"})
}

func (h *taskHandler) stats(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	stats, err := h.tasks.Stats(c.Request.Context(), identity.ID)
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"stats": stats})
}
