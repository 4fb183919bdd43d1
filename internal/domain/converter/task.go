package converter

import (
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	storageModel "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/model"
)

func ToTaskFromStorage(t storageModel.Task) models.Task {
	task := models.Task{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      models.TaskStatus(t.Status),
		Priority:    models.TaskPriority(t.Priority),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	if t.DueDate.Valid {
		due := t.DueDate.Time
		task.DueDate = &due
	}
	if t.CompletedAt.Valid {
		completed := t.CompletedAt.Time
		task.CompletedAt = &completed
	}

	return task
}

func ToTasksFromStorage(storageTasks []storageModel.Task) []models.Task {
	tasks := make([]models.Task, len(storageTasks))
	for i, t := range storageTasks {
		tasks[i] = ToTaskFromStorage(t)
	}

	return tasks
}
