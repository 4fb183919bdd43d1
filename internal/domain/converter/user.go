package converter

import (
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	storageModel "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/model"
)

func ToUserFromStorage(storageUser storageModel.User) models.User {
	return models.User{
		ID:        storageUser.ID,
		Username:  storageUser.Username,
		Email:     storageUser.Email,
		PassHash:  storageUser.PassHash,
		FirstName: storageUser.FirstName,
		LastName:  storageUser.LastName,
		Role:      models.Role(storageUser.Role),
		IsActive:  storageUser.IsActive,
		CreatedAt: storageUser.CreatedAt,
		UpdatedAt: storageUser.UpdatedAt,
	}
}

func ToUserEventFromStorage(storageUser storageModel.User) models.UserEvent {
	return models.UserEvent{
		ID:       storageUser.ID,
		Username: storageUser.Username,
		Email:    storageUser.Email,
		Role:     models.Role(storageUser.Role),
	}
}
