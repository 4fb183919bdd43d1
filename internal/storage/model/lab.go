package model

import (
	"time"

	"github.com/google/uuid"
)

type Lab struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Location    string    `db:"location"`
	Capacity    int       `db:"capacity"`
	Equipment   string    `db:"equipment"`
	Description string    `db:"description"`
	IsActive    bool      `db:"is_active"`
	AdminID     uuid.UUID `db:"admin_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
