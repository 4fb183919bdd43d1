package converter

import (
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	storageModel "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/model"
)

func ToLabFromStorage(storageLab storageModel.Lab) models.Lab {
	return models.Lab{
		ID:          storageLab.ID,
		Name:        storageLab.Name,
		Location:    storageLab.Location,
		Capacity:    storageLab.Capacity,
		Equipment:   storageLab.Equipment,
		Description: storageLab.Description,
		IsActive:    storageLab.IsActive,
		AdminID:     storageLab.AdminID,
		CreatedAt:   storageLab.CreatedAt,
		UpdatedAt:   storageLab.UpdatedAt,
	}
}

func ToLabsFromStorage(storageLabs []storageModel.Lab) []models.Lab {
	labs := make([]models.Lab, len(storageLabs))
	for i, lab := range storageLabs {
		labs[i] = ToLabFromStorage(lab)
	}

	return labs
}
