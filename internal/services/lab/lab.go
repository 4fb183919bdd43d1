package lab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/access"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/logger/sl"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
)

var (
	ErrForbidden          = errors.New("forbidden")
	ErrLabExists          = errors.New("lab already exists")
	ErrNameRequired       = errors.New("lab name is required")
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)

const defaultCapacity = 30

type LabStore interface {
	SaveLab(ctx context.Context, lab models.Lab) (models.Lab, error)
	ActiveLabs(ctx context.Context) ([]models.Lab, error)
}

type Service struct {
	log   *slog.Logger
	store LabStore
}

func New(log *slog.Logger, store LabStore) *Service {
	return &Service{log: log, store: store}
}

type CreateInput struct {
	Name        string
	Location    string
	Capacity    int
	Equipment   string
	Description string
}

func (s *Service) Create(ctx context.Context, identity models.Identity, input CreateInput) (models.Lab, error) {
	const op = "lab.Create"
	log := s.log.With(slog.String("op", op), sl.UID(identity.ID.String()))

	if !access.CanPerform(identity.Role, access.ActionCreateLab, false) {
		return models.Lab{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Lab{}, fmt.Errorf("%s: %w", op, ErrNameRequired)
	}

	capacity := input.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	now := time.Now().UTC()
	lab := models.Lab{
		ID:          uuid.New(),
		Name:        name,
		Location:    input.Location,
		Capacity:    capacity,
		Equipment:   input.Equipment,
		Description: input.Description,
		IsActive:    true,
		AdminID:     identity.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	saved, err := s.store.SaveLab(ctx, lab)
	if err != nil {
		if errors.Is(err, storage.ErrLabExists) {
			return models.Lab{}, fmt.Errorf("%s: %w", op, ErrLabExists)
		}
		if errors.Is(err, storage.ErrUnavailable) {
			return models.Lab{}, fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
		}

		log.Error("failed to save lab", sl.Err(err))
		return models.Lab{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("lab created", slog.String("labId", saved.ID.String()), slog.String("name", saved.Name))

	return saved, nil
}

func (s *Service) List(ctx context.Context, identity models.Identity) ([]models.Lab, error) {
	const op = "lab.List"

	if !access.CanPerform(identity.Role, access.ActionListLabs, false) {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	labs, err := s.store.ActiveLabs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			return nil, fmt.Errorf("%s: %w", op, ErrStorageUnavailable)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return labs, nil
}
