package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
)

// Storage tracks failed login attempts per user. Records expire with the
// TTL, so an abandoned streak clears itself.
type Storage struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr string, ttl time.Duration) *Storage {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &Storage{client: client, ttl: ttl}
}

func attemptsKey(userID string) string {
	return fmt.Sprintf("failedLogin:%s", userID)
}

func (s *Storage) FailedLoginAttempts(ctx context.Context, userID string) (models.FailedLogin, error) {
	const op = "storage.redis.FailedLoginAttempts"

	data, err := s.client.Get(ctx, attemptsKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return models.FailedLogin{}, fmt.Errorf("%s: %w", op, storage.ErrFailedLoginNotFound)
		}
		return models.FailedLogin{}, fmt.Errorf("%s: %w", op, err)
	}

	var failedLogin models.FailedLogin
	if err := json.Unmarshal([]byte(data), &failedLogin); err != nil {
		return models.FailedLogin{}, fmt.Errorf("%s: %w", op, err)
	}

	return failedLogin, nil
}

func (s *Storage) SaveFailedLoginAttempts(ctx context.Context, userID string, failedLogin models.FailedLogin) error {
	const op = "storage.redis.SaveFailedLoginAttempts"

	data, err := json.Marshal(failedLogin)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.Set(ctx, attemptsKey(userID), string(data), s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) RemoveFailedLoginAttempts(ctx context.Context, userID string) error {
	const op = "storage.redis.RemoveFailedLoginAttempts"

	if err := s.client.Del(ctx, attemptsKey(userID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Stop() error {
	const op = "storage.redis.Stop"

	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
