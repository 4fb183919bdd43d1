package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/converter"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
	storageModel "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/model"
)

const taskColumns = "id,user_id,title,description,status,priority,due_date,completed_at,created_at,updated_at"

func scanTask(row pgx.Row) (storageModel.Task, error) {
	var t storageModel.Task
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.DueDate, &t.CompletedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)

	return t, err
}

func (s *Storage) SaveTask(ctx context.Context, task models.Task) (models.Task, error) {
	const op = "storage.postgres.SaveTask"

	query := "INSERT INTO tasks(" + taskColumns + ") VALUES(" +
		"@id,@userId,@title,@description,@status,@priority,@dueDate,@completedAt,@createdAt,@updatedAt) " +
		"RETURNING " + taskColumns
	args := pgx.NamedArgs{
		"id":          task.ID,
		"userId":      task.UserID,
		"title":       task.Title,
		"description": task.Description,
		"status":      string(task.Status),
		"priority":    string(task.Priority),
		"dueDate":     task.DueDate,
		"completedAt": task.CompletedAt,
		"createdAt":   task.CreatedAt,
		"updatedAt":   task.UpdatedAt,
	}

	row, err := scanTask(s.dbpool.QueryRow(ctx, query, args))
	if err != nil {
		return models.Task{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToTaskFromStorage(row), nil
}

// Task returns a task only when it belongs to userID; foreign ids read as
// not found.
func (s *Storage) Task(ctx context.Context, taskID, userID uuid.UUID) (models.Task, error) {
	const op = "storage.postgres.Task"

	query := "SELECT " + taskColumns + " FROM tasks WHERE id=$1 AND user_id=$2"
	row, err := scanTask(s.dbpool.QueryRow(ctx, query, taskID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Task{}, fmt.Errorf("%s: %w", op, storage.ErrTaskNotFound)
		}
		return models.Task{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToTaskFromStorage(row), nil
}

func (s *Storage) Tasks(ctx context.Context, userID uuid.UUID, filter storage.TaskFilter) ([]models.Task, int, error) {
	const op = "storage.postgres.Tasks"

	args := pgx.NamedArgs{"userId": userID}
	where := " WHERE user_id=@userId"
	if filter.Status != nil {
		args["status"] = string(*filter.Status)
		where += " AND status=@status"
	}
	if filter.Priority != nil {
		args["priority"] = string(*filter.Priority)
		where += " AND priority=@priority"
	}

	var total int
	if err := s.dbpool.QueryRow(ctx, "SELECT COUNT(*) FROM tasks"+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, retryable(err))
	}

	args["limit"] = filter.PerPage
	args["offset"] = (filter.Page - 1) * filter.PerPage
	query := "SELECT " + taskColumns + " FROM tasks" + where +
		" ORDER BY created_at DESC LIMIT @limit OFFSET @offset"

	rows, err := s.dbpool.Query(ctx, query, args)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, retryable(err))
	}
	defer rows.Close()

	var tasks []storageModel.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToTasksFromStorage(tasks), total, nil
}

func (s *Storage) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	const op = "storage.postgres.UpdateTask"

	query := "UPDATE tasks SET title=@title,description=@description,status=@status," +
		"priority=@priority,due_date=@dueDate,completed_at=@completedAt,updated_at=@updatedAt " +
		"WHERE id=@id AND user_id=@userId RETURNING " + taskColumns
	args := pgx.NamedArgs{
		"id":          task.ID,
		"userId":      task.UserID,
		"title":       task.Title,
		"description": task.Description,
		"status":      string(task.Status),
		"priority":    string(task.Priority),
		"dueDate":     task.DueDate,
		"completedAt": task.CompletedAt,
		"updatedAt":   task.UpdatedAt,
	}

	row, err := scanTask(s.dbpool.QueryRow(ctx, query, args))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Task{}, fmt.Errorf("%s: %w", op, storage.ErrTaskNotFound)
		}
		return models.Task{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToTaskFromStorage(row), nil
}

func (s *Storage) DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error {
	const op = "storage.postgres.DeleteTask"

	tag, err := s.dbpool.Exec(ctx, "DELETE FROM tasks WHERE id=$1 AND user_id=$2", taskID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, retryable(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrTaskNotFound)
	}

	return nil
}

func (s *Storage) TaskStats(ctx context.Context, userID uuid.UUID, now time.Time) (models.TaskStats, error) {
	const op = "storage.postgres.TaskStats"

	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status='completed'),
		COUNT(*) FILTER (WHERE status='pending'),
		COUNT(*) FILTER (WHERE status='in_progress'),
		COUNT(*) FILTER (WHERE due_date IS NOT NULL AND due_date<$2 AND status NOT IN ('completed','cancelled'))
	FROM tasks WHERE user_id=$1`

	var stats models.TaskStats
	err := s.dbpool.QueryRow(ctx, query, userID, now).Scan(
		&stats.Total, &stats.Completed, &stats.Pending, &stats.InProgress, &stats.Overdue,
	)
	if err != nil {
		return models.TaskStats{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	rows, err := s.dbpool.Query(ctx, "SELECT priority,COUNT(*) FROM tasks WHERE user_id=$1 GROUP BY priority", userID)
	if err != nil {
		return models.TaskStats{}, fmt.Errorf("%s: %w", op, retryable(err))
	}
	defer rows.Close()

	stats.ByPriority = make(map[models.TaskPriority]int)
	for rows.Next() {
		var priority string
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			return models.TaskStats{}, fmt.Errorf("%s: %w", op, err)
		}
		stats.ByPriority[models.TaskPriority(priority)] = count
	}
	if err := rows.Err(); err != nil {
		return models.TaskStats{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return stats, nil
}
