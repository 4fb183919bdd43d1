package schedule_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/schedule"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/memory"
)

func storageStatusUpdate(status models.ReservationStatus) storage.StatusUpdate {
	return storage.StatusUpdate{
		Expected: []models.ReservationStatus{models.StatusPending},
		New:      status,
	}
}

type fixture struct {
	svc        *schedule.Service
	store      *memory.Storage
	lab        models.Lab
	instructor models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	store := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	instructor, err := store.SaveUser(ctx, models.User{
		ID:        uuid.New(),
		Username:  gofakeit.Username(),
		Email:     gofakeit.Email(),
		FirstName: "Maria",
		LastName:  "Santos",
		Role:      models.RoleInstructor,
		IsActive:  true,
	})
	require.NoError(t, err)

	lab, err := store.SaveLab(ctx, models.Lab{
		ID:       uuid.New(),
		Name:     "Computer Lab 1",
		Capacity: 40,
		IsActive: true,
		AdminID:  uuid.New(),
	})
	require.NoError(t, err)

	return &fixture{
		svc:        schedule.New(log, store, store),
		store:      store,
		lab:        lab,
		instructor: instructor,
	}
}

func (f *fixture) seedReservation(t *testing.T, start time.Time, status models.ReservationStatus) models.Reservation {
	t.Helper()

	ctx := context.Background()

	rng, err := models.NewTimeRange(start, start.Add(time.Hour))
	require.NoError(t, err)

	r, err := models.NewReservation(f.instructor.ID, f.lab.ID, "CS101", "Intro to Computing", "A", 25, rng, "")
	require.NoError(t, err)

	created, err := f.store.CreateReservation(ctx, r)
	require.NoError(t, err)

	if status != models.StatusPending {
		created, err = f.store.UpdateReservationStatus(ctx, created.ID, storageStatusUpdate(status))
		require.NoError(t, err)
	}

	return created
}

func TestScheduleFor_ApprovedOnly(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	f.seedReservation(t, day.Add(9*time.Hour), models.StatusApproved)
	f.seedReservation(t, day.Add(11*time.Hour), models.StatusPending)

	views, err := f.svc.ScheduleFor(context.Background(), nil, nil)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, models.StatusApproved, views[0].Status)
	assert.Equal(t, "Maria Santos", views[0].InstructorName)
	assert.Equal(t, "Computer Lab 1", views[0].LabName)
}

func TestScheduleFor_DayWindow(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	f.seedReservation(t, day.Add(9*time.Hour), models.StatusApproved)
	f.seedReservation(t, day.AddDate(0, 0, 1).Add(9*time.Hour), models.StatusApproved)

	views, err := f.svc.ScheduleFor(context.Background(), nil, &day)
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.True(t, views[0].Range.Start.Equal(day.Add(9*time.Hour)))
}

func TestScheduleFor_LabFilter(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	f.seedReservation(t, day.Add(9*time.Hour), models.StatusApproved)

	otherLab := uuid.New()
	views, err := f.svc.ScheduleFor(context.Background(), &otherLab, nil)
	require.NoError(t, err)
	assert.Empty(t, views)

	views, err = f.svc.ScheduleFor(context.Background(), &f.lab.ID, nil)
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestStatsFor_Admin(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	f.seedReservation(t, day.Add(9*time.Hour), models.StatusApproved)
	f.seedReservation(t, day.Add(11*time.Hour), models.StatusPending)
	f.seedReservation(t, day.Add(13*time.Hour), models.StatusRejected)

	stats, err := f.svc.StatsFor(context.Background(), models.Identity{ID: uuid.New(), Role: models.RoleAdmin})
	require.NoError(t, err)

	adminStats, ok := stats.(models.AdminStats)
	require.True(t, ok)
	assert.Equal(t, 1, adminStats.TotalLabs)
	assert.Equal(t, 3, adminStats.TotalReservations)
	assert.Equal(t, 1, adminStats.PendingRequests)
	assert.Equal(t, 1, adminStats.ApprovedReservations)
}

func TestStatsFor_Instructor(t *testing.T) {
	f := newFixture(t)
	future := time.Now().UTC().Add(24 * time.Hour)

	f.seedReservation(t, future, models.StatusApproved)
	f.seedReservation(t, future.Add(2*time.Hour), models.StatusPending)

	stats, err := f.svc.StatsFor(context.Background(), models.Identity{ID: f.instructor.ID, Role: models.RoleInstructor})
	require.NoError(t, err)

	instructorStats, ok := stats.(models.InstructorStats)
	require.True(t, ok)
	assert.Equal(t, 2, instructorStats.MyReservations)
	assert.Equal(t, 1, instructorStats.UpcomingSessions)
	assert.Equal(t, 1, instructorStats.PendingRequests)
}

func TestStatsFor_Student(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	f.seedReservation(t, day.Add(9*time.Hour), models.StatusApproved)

	stats, err := f.svc.StatsFor(context.Background(), models.Identity{ID: uuid.New(), Role: models.RoleStudent})
	require.NoError(t, err)

	studentStats, ok := stats.(models.StudentStats)
	require.True(t, ok)
	assert.Equal(t, 1, studentStats.AvailableLabs)
	assert.Equal(t, 1, studentStats.ScheduledSessions)
}
