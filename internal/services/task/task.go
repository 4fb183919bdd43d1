package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/logger/sl"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
)

var (
	ErrNotFound           = errors.New("task not found")
	ErrTitleRequired      = errors.New("task title is required")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrInvalidPriority    = errors.New("invalid task priority")
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

const (
	defaultPerPage = 10
	maxPerPage     = 50
)

type TaskStore interface {
	SaveTask(ctx context.Context, task models.Task) (models.Task, error)
	Task(ctx context.Context, taskID, userID uuid.UUID) (models.Task, error)
	Tasks(ctx context.Context, userID uuid.UUID, filter storage.TaskFilter) ([]models.Task, int, error)
	UpdateTask(ctx context.Context, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error
	TaskStats(ctx context.Context, userID uuid.UUID, now time.Time) (models.TaskStats, error)
}

type Service struct {
	log   *slog.Logger
	store TaskStore
}

func New(log *slog.Logger, store TaskStore) *Service {
	return &Service{log: log, store: store}
}

type CreateInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (models.Task, error) {
	const op = "task.Create"
	log := s.log.With(slog.String("op", op), sl.UID(userID.String()))

	if strings.TrimSpace(input.Title) == "" {
		return models.Task{}, fmt.Errorf("%s: %w", op, ErrTitleRequired)
	}

	priority := models.PriorityMedium
	if input.Priority != "" {
		parsed, err := models.ParseTaskPriority(input.Priority)
		if err != nil {
			return models.Task{}, fmt.Errorf("%s: %w", op, ErrInvalidPriority)
		}
		priority = parsed
	}

	now := time.Now().UTC()
	task := models.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskPending,
		Priority:    priority,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	saved, err := s.store.SaveTask(ctx, task)
	if err != nil {
		log.Error("failed to save task", sl.Err(err))
		return models.Task{}, s.mapStoreErr(op, err)
	}

	return saved, nil
}

type ListInput struct {
	Status   string
	Priority string
	Page     int
	PerPage  int
}

type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, input ListInput) ([]models.Task, Pagination, error) {
	const op = "task.List"

	filter := storage.TaskFilter{
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = defaultPerPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}

	if input.Status != "" {
		status, err := models.ParseTaskStatus(input.Status)
		if err != nil {
			return nil, Pagination{}, fmt.Errorf("%s: %w", op, ErrInvalidStatus)
		}
		filter.Status = &status
	}
	if input.Priority != "" {
		priority, err := models.ParseTaskPriority(input.Priority)
		if err != nil {
			return nil, Pagination{}, fmt.Errorf("%s: %w", op, ErrInvalidPriority)
		}
		filter.Priority = &priority
	}

	tasks, total, err := s.store.Tasks(ctx, userID, filter)
	if err != nil {
		return nil, Pagination{}, s.mapStoreErr(op, err)
	}

	pages := (total + filter.PerPage - 1) / filter.PerPage
	pagination := Pagination{
		Page:    filter.Page,
		PerPage: filter.PerPage,
		Total:   total,
		Pages:   pages,
	}

	return tasks, pagination, nil
}

func (s *Service) Get(ctx context.Context, userID, taskID uuid.UUID) (models.Task, error) {
	const op = "task.Get"

	task, err := s.store.Task(ctx, taskID, userID)
	if err != nil {
		return models.Task{}, s.mapStoreErr(op, err)
	}

	return task, nil
}

type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
}

func (s *Service) Update(ctx context.Context, userID, taskID uuid.UUID, input UpdateInput) (models.Task, error) {
	const op = "task.Update"

	task, err := s.store.Task(ctx, taskID, userID)
	if err != nil {
		return models.Task{}, s.mapStoreErr(op, err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return models.Task{}, fmt.Errorf("%s: %w", op, ErrTitleRequired)
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		priority, err := models.ParseTaskPriority(*input.Priority)
		if err != nil {
			return models.Task{}, fmt.Errorf("%s: %w", op, ErrInvalidPriority)
		}
		task.Priority = priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Status != nil {
		status, err := models.ParseTaskStatus(*input.Status)
		if err != nil {
			return models.Task{}, fmt.Errorf("%s: %w", op, ErrInvalidStatus)
		}
		task.Status = status

		if status == models.TaskCompleted {
			now := time.Now().UTC()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	task.UpdatedAt = time.Now().UTC()

	updated, err := s.store.UpdateTask(ctx, task)
	if err != nil {
		return models.Task{}, s.mapStoreErr(op, err)
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	const op = "task.Delete"

	if err := s.store.DeleteTask(ctx, taskID, userID); err != nil {
		return s.mapStoreErr(op, err)
	}

	return nil
}

func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (models.TaskStats, error) {
	const op = "task.Stats"

	stats, err := s.store.TaskStats(ctx, userID, time.Now().UTC())
	if err != nil {
		return models.TaskStats{}, s.mapStoreErr(op, err)
	}

	return stats, nil
}

func (s *Service) mapStoreErr(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrTaskNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrUnavailable):
		return fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
