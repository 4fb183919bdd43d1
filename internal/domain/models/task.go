package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownTaskStatus   = errors.New("unknown task status")
	ErrUnknownTaskPriority = errors.New("unknown task priority")
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return TaskStatus(s), nil
	default:
		return "", ErrUnknownTaskStatus
	}
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func ParseTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return TaskPriority(s), nil
	default:
		return "", ErrUnknownTaskPriority
	}
}

type Task struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskStats struct {
	Total      int                  `json:"total_tasks"`
	Completed  int                  `json:"completed_tasks"`
	Pending    int                  `json:"pending_tasks"`
	InProgress int                  `json:"in_progress_tasks"`
	Overdue    int                  `json:"overdue_tasks"`
	ByPriority map[TaskPriority]int `json:"by_priority"`
}
