package lab_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	labservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/lab"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/memory"
)

func newService() *labservice.Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return labservice.New(log, memory.New())
}

func TestCreate_AdminOnly(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	admin := models.Identity{ID: uuid.New(), Role: models.RoleAdmin}
	instructor := models.Identity{ID: uuid.New(), Role: models.RoleInstructor}

	_, err := svc.Create(ctx, instructor, labservice.CreateInput{Name: "IT Lab 1"})
	assert.ErrorIs(t, err, labservice.ErrForbidden)

	lab, err := svc.Create(ctx, admin, labservice.CreateInput{Name: "IT Lab 1"})
	require.NoError(t, err)
	assert.True(t, lab.IsActive)
	assert.Equal(t, admin.ID, lab.AdminID)
	assert.Equal(t, 30, lab.Capacity)
}

func TestCreate_NameRequired(t *testing.T) {
	svc := newService()

	admin := models.Identity{ID: uuid.New(), Role: models.RoleAdmin}
	_, err := svc.Create(context.Background(), admin, labservice.CreateInput{Name: "  "})
	assert.ErrorIs(t, err, labservice.ErrNameRequired)
}

func TestCreate_DuplicateName(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	admin := models.Identity{ID: uuid.New(), Role: models.RoleAdmin}
	_, err := svc.Create(ctx, admin, labservice.CreateInput{Name: "IT Lab 1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, admin, labservice.CreateInput{Name: "IT Lab 1"})
	assert.ErrorIs(t, err, labservice.ErrLabExists)
}

func TestList(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	admin := models.Identity{ID: uuid.New(), Role: models.RoleAdmin}
	student := models.Identity{ID: uuid.New(), Role: models.RoleStudent}

	_, err := svc.Create(ctx, admin, labservice.CreateInput{Name: "IT Lab 1"})
	require.NoError(t, err)

	labs, err := svc.List(ctx, student)
	require.NoError(t, err)
	assert.Len(t, labs, 1)
}
