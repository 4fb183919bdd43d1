package models

import (
	"time"

	"github.com/google/uuid"
)

type Lab struct {
	ID          uuid.UUID
	Name        string
	Location    string
	Capacity    int
	Equipment   string
	Description string
	IsActive    bool
	AdminID     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
