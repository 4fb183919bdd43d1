// Package memory is the demo/throwaway storage configuration: all state
// lives in process memory with an explicit lifecycle and is lost on
// shutdown. It also serves as the storage double in service tests. The
// production configuration uses the postgres storage instead.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
)

type outboxEvent struct {
	event      models.Event
	done       bool
	createdAt  time.Time
	reservedTo time.Time
}

type Storage struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]models.User
	labs         map[uuid.UUID]models.Lab
	reservations map[uuid.UUID]models.Reservation
	tasks        map[uuid.UUID]models.Task
	events       []*outboxEvent

	// labLocks serializes the check-then-insert critical section per lab,
	// mirroring the production store's row lock.
	labMu    sync.Mutex
	labLocks map[uuid.UUID]*sync.Mutex
}

func New() *Storage {
	return &Storage{
		users:        make(map[uuid.UUID]models.User),
		labs:         make(map[uuid.UUID]models.Lab),
		reservations: make(map[uuid.UUID]models.Reservation),
		tasks:        make(map[uuid.UUID]models.Task),
		labLocks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Storage) labLock(labID uuid.UUID) *sync.Mutex {
	s.labMu.Lock()
	defer s.labMu.Unlock()

	lock, ok := s.labLocks[labID]
	if !ok {
		lock = &sync.Mutex{}
		s.labLocks[labID] = lock
	}

	return lock
}

func (s *Storage) appendEvent(eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	s.events = append(s.events, &outboxEvent{
		event: models.Event{
			ID:      uuid.New(),
			Type:    eventType,
			Payload: string(data),
		},
		createdAt: time.Now().UTC(),
	})
}

// --- users ---

func (s *Storage) SaveUser(_ context.Context, user models.User) (models.User, error) {
	const op = "storage.memory.SaveUser"

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
	}

	s.users[user.ID] = user
	s.appendEvent(models.EventUserRegistered, map[string]string{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
		"role":     string(user.Role),
	})

	return user, nil
}

func (s *Storage) UserByLogin(_ context.Context, login string) (models.User, error) {
	const op = "storage.memory.UserByLogin"

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == login || user.Email == login {
			return user, nil
		}
	}

	return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
}

func (s *Storage) User(_ context.Context, userID uuid.UUID) (models.User, error) {
	const op = "storage.memory.User"

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return user, nil
}

// --- labs ---

func (s *Storage) SaveLab(_ context.Context, lab models.Lab) (models.Lab, error) {
	const op = "storage.memory.SaveLab"

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.labs {
		if existing.Name == lab.Name {
			return models.Lab{}, fmt.Errorf("%s: %w", op, storage.ErrLabExists)
		}
	}

	s.labs[lab.ID] = lab

	return lab, nil
}

func (s *Storage) Lab(_ context.Context, labID uuid.UUID) (models.Lab, error) {
	const op = "storage.memory.Lab"

	s.mu.RLock()
	defer s.mu.RUnlock()

	lab, ok := s.labs[labID]
	if !ok {
		return models.Lab{}, fmt.Errorf("%s: %w", op, storage.ErrLabNotFound)
	}

	return lab, nil
}

func (s *Storage) ActiveLabs(_ context.Context) ([]models.Lab, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var labs []models.Lab
	for _, lab := range s.labs {
		if lab.IsActive {
			labs = append(labs, lab)
		}
	}
	sort.Slice(labs, func(i, j int) bool { return labs[i].Name < labs[j].Name })

	return labs, nil
}

func (s *Storage) CountActiveLabs(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, lab := range s.labs {
		if lab.IsActive {
			count++
		}
	}

	return count, nil
}

// --- reservations ---

func matchesFilter(r models.Reservation, filter storage.ReservationFilter) bool {
	if filter.LabID != nil && r.LabID != *filter.LabID {
		return false
	}
	if filter.InstructorID != nil && r.InstructorID != *filter.InstructorID {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if r.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.StartFrom != nil && r.Range.Start.Before(*filter.StartFrom) {
		return false
	}
	if filter.StartTo != nil && !r.Range.Start.Before(*filter.StartTo) {
		return false
	}

	return true
}

// CreateReservation rechecks the lab's timeline and inserts while holding
// the lab's lock, so concurrent overlapping creations cannot both succeed.
func (s *Storage) CreateReservation(_ context.Context, r models.Reservation) (models.Reservation, error) {
	const op = "storage.memory.CreateReservation"

	labLock := s.labLock(r.LabID)
	labLock.Lock()
	defer labLock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	lab, ok := s.labs[r.LabID]
	if !ok || !lab.IsActive {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrLabNotFound)
	}

	for _, existing := range s.reservations {
		if existing.LabID != r.LabID {
			continue
		}
		if existing.Status != models.StatusPending && existing.Status != models.StatusApproved {
			continue
		}
		if existing.Range.Overlaps(r.Range) {
			return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrOverlap)
		}
	}

	s.reservations[r.ID] = r
	s.appendEvent(models.EventReservationRequested, map[string]string{
		"reservation_id": r.ID.String(),
		"lab_id":         r.LabID.String(),
		"instructor_id":  r.InstructorID.String(),
		"status":         string(r.Status),
	})

	return r, nil
}

func (s *Storage) Reservation(_ context.Context, id uuid.UUID) (models.Reservation, error) {
	const op = "storage.memory.Reservation"

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reservations[id]
	if !ok {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrReservationNotFound)
	}

	return r, nil
}

func (s *Storage) UpdateReservationStatus(_ context.Context, id uuid.UUID, upd storage.StatusUpdate) (models.Reservation, error) {
	const op = "storage.memory.UpdateReservationStatus"

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reservations[id]
	if !ok {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrReservationNotFound)
	}

	expected := false
	for _, status := range upd.Expected {
		if r.Status == status {
			expected = true
			break
		}
	}
	if !expected {
		return models.Reservation{}, fmt.Errorf("%s: %w", op, storage.ErrStatusMismatch)
	}

	r.Status = upd.New
	if upd.AdminNotes != nil {
		r.AdminNotes = *upd.AdminNotes
	}
	if upd.RejectionReason != nil {
		r.RejectionReason = *upd.RejectionReason
	}
	r.UpdatedAt = time.Now().UTC()
	s.reservations[id] = r

	eventType := models.EventReservationRequested
	switch upd.New {
	case models.StatusApproved:
		eventType = models.EventReservationApproved
	case models.StatusRejected:
		eventType = models.EventReservationRejected
	case models.StatusCancelled:
		eventType = models.EventReservationCancelled
	}
	s.appendEvent(eventType, map[string]string{
		"reservation_id": r.ID.String(),
		"lab_id":         r.LabID.String(),
		"instructor_id":  r.InstructorID.String(),
		"status":         string(r.Status),
	})

	return r, nil
}

func (s *Storage) Reservations(_ context.Context, filter storage.ReservationFilter) ([]models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reservations []models.Reservation
	for _, r := range s.reservations {
		if matchesFilter(r, filter) {
			reservations = append(reservations, r)
		}
	}
	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].Range.Start.Before(reservations[j].Range.Start)
	})

	return reservations, nil
}

func (s *Storage) CountReservations(_ context.Context, filter storage.ReservationFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, r := range s.reservations {
		if matchesFilter(r, filter) {
			count++
		}
	}

	return count, nil
}

// --- tasks ---

func (s *Storage) SaveTask(_ context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID] = task

	return task, nil
}

func (s *Storage) Task(_ context.Context, taskID, userID uuid.UUID) (models.Task, error) {
	const op = "storage.memory.Task"

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return models.Task{}, fmt.Errorf("%s: %w", op, storage.ErrTaskNotFound)
	}

	return task, nil
}

func (s *Storage) Tasks(_ context.Context, userID uuid.UUID, filter storage.TaskFilter) ([]models.Task, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []models.Task
	for _, task := range s.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })

	total := len(tasks)
	offset := (filter.Page - 1) * filter.PerPage
	if offset >= total {
		return nil, total, nil
	}
	end := offset + filter.PerPage
	if end > total {
		end = total
	}

	return tasks[offset:end], total, nil
}

func (s *Storage) UpdateTask(_ context.Context, task models.Task) (models.Task, error) {
	const op = "storage.memory.UpdateTask"

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return models.Task{}, fmt.Errorf("%s: %w", op, storage.ErrTaskNotFound)
	}

	s.tasks[task.ID] = task

	return task, nil
}

func (s *Storage) DeleteTask(_ context.Context, taskID, userID uuid.UUID) error {
	const op = "storage.memory.DeleteTask"

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok || task.UserID != userID {
		return fmt.Errorf("%s: %w", op, storage.ErrTaskNotFound)
	}

	delete(s.tasks, taskID)

	return nil
}

func (s *Storage) TaskStats(_ context.Context, userID uuid.UUID, now time.Time) (models.TaskStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.TaskStats{ByPriority: make(map[models.TaskPriority]int)}
	for _, task := range s.tasks {
		if task.UserID != userID {
			continue
		}
		stats.Total++
		stats.ByPriority[task.Priority]++
		switch task.Status {
		case models.TaskCompleted:
			stats.Completed++
		case models.TaskPending:
			stats.Pending++
		case models.TaskInProgress:
			stats.InProgress++
		}
		if task.DueDate != nil && task.DueDate.Before(now) &&
			task.Status != models.TaskCompleted && task.Status != models.TaskCancelled {
			stats.Overdue++
		}
	}

	return stats, nil
}

// --- outbox ---

func (s *Storage) NewEvents(_ context.Context, limit int) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	var events []models.Event
	for _, e := range s.events {
		if len(events) == limit {
			break
		}
		if e.done || e.reservedTo.After(now) {
			continue
		}
		e.reservedTo = now.Add(time.Minute)
		events = append(events, e.event)
	}

	return events, nil
}

func (s *Storage) SetEventDone(_ context.Context, eventID uuid.UUID) (models.Event, error) {
	const op = "storage.memory.SetEventDone"

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.events {
		if e.event.ID == eventID {
			e.done = true
			return e.event, nil
		}
	}

	return models.Event{}, fmt.Errorf("%s: event %s not found", op, eventID)
}
