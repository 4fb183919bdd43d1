package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/converter"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
	storageModel "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/model"
)

const labColumns = "id,name,location,capacity,equipment,description,is_active,admin_id,created_at,updated_at"

func scanLab(row pgx.Row) (storageModel.Lab, error) {
	var l storageModel.Lab
	err := row.Scan(
		&l.ID, &l.Name, &l.Location, &l.Capacity,
		&l.Equipment, &l.Description, &l.IsActive, &l.AdminID,
		&l.CreatedAt, &l.UpdatedAt,
	)

	return l, err
}

func (s *Storage) SaveLab(ctx context.Context, lab models.Lab) (models.Lab, error) {
	const op = "storage.postgres.SaveLab"

	query := "INSERT INTO labs(" + labColumns + ") VALUES(" +
		"@id,@name,@location,@capacity,@equipment,@description,@isActive,@adminId,@createdAt,@updatedAt) " +
		"RETURNING " + labColumns
	args := pgx.NamedArgs{
		"id":          lab.ID,
		"name":        lab.Name,
		"location":    lab.Location,
		"capacity":    lab.Capacity,
		"equipment":   lab.Equipment,
		"description": lab.Description,
		"isActive":    lab.IsActive,
		"adminId":     lab.AdminID,
		"createdAt":   lab.CreatedAt,
		"updatedAt":   lab.UpdatedAt,
	}

	row, err := scanLab(s.dbpool.QueryRow(ctx, query, args))
	if err != nil {
		if isUnique(err) {
			return models.Lab{}, fmt.Errorf("%s: %w", op, storage.ErrLabExists)
		}
		return models.Lab{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToLabFromStorage(row), nil
}

func (s *Storage) Lab(ctx context.Context, labID uuid.UUID) (models.Lab, error) {
	const op = "storage.postgres.Lab"

	query := "SELECT " + labColumns + " FROM labs WHERE id=$1"
	row, err := scanLab(s.dbpool.QueryRow(ctx, query, labID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Lab{}, fmt.Errorf("%s: %w", op, storage.ErrLabNotFound)
		}
		return models.Lab{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToLabFromStorage(row), nil
}

func (s *Storage) ActiveLabs(ctx context.Context) ([]models.Lab, error) {
	const op = "storage.postgres.ActiveLabs"

	query := "SELECT " + labColumns + " FROM labs WHERE is_active ORDER BY name"
	rows, err := s.dbpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, retryable(err))
	}
	defer rows.Close()

	var labs []storageModel.Lab
	for rows.Next() {
		lab, err := scanLab(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		labs = append(labs, lab)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToLabsFromStorage(labs), nil
}

func (s *Storage) CountActiveLabs(ctx context.Context) (int, error) {
	const op = "storage.postgres.CountActiveLabs"

	var count int
	if err := s.dbpool.QueryRow(ctx, "SELECT COUNT(*) FROM labs WHERE is_active").Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return count, nil
}
