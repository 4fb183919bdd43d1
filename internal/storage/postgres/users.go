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

const userColumns = "id,username,email,pass_hash,first_name,last_name,role,is_active,created_at,updated_at"

func scanUser(row pgx.Row) (storageModel.User, error) {
	var u storageModel.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PassHash,
		&u.FirstName, &u.LastName, &u.Role, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
	)

	return u, err
}

type userEventPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func (s *Storage) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "storage.postgres.SaveUser"

	tx, err := s.dbpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, retryable(err))
	}
	defer tx.Rollback(ctx)

	query := "INSERT INTO users(" + userColumns + ") VALUES(" +
		"@id,@username,@email,@passHash,@firstName,@lastName,@role,@isActive,@createdAt,@updatedAt) " +
		"RETURNING " + userColumns
	args := pgx.NamedArgs{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"passHash":  user.PassHash,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"role":      string(user.Role),
		"isActive":  user.IsActive,
		"createdAt": user.CreatedAt,
		"updatedAt": user.UpdatedAt,
	}

	row, err := scanUser(tx.QueryRow(ctx, query, args))
	if err != nil {
		if isUnique(err) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	payload := userEventPayload{
		UserID:   row.ID,
		Username: row.Username,
		Email:    row.Email,
		Role:     row.Role,
	}
	if err := insertEvent(ctx, tx, models.EventUserRegistered, payload); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToUserFromStorage(row), nil
}

// UserByLogin resolves a user by username or email.
func (s *Storage) UserByLogin(ctx context.Context, login string) (models.User, error) {
	const op = "storage.postgres.UserByLogin"

	query := "SELECT " + userColumns + " FROM users WHERE username=$1 OR email=$1"
	row, err := scanUser(s.dbpool.QueryRow(ctx, query, login))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToUserFromStorage(row), nil
}

func (s *Storage) User(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "storage.postgres.User"

	query := "SELECT " + userColumns + " FROM users WHERE id=$1"
	row, err := scanUser(s.dbpool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, retryable(err))
	}

	return converter.ToUserFromStorage(row), nil
}
