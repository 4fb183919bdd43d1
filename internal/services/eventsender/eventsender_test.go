package eventsender_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/eventsender"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/memory"
)

type capturingPublisher struct {
	mu        sync.Mutex
	published [][]byte
}

func (p *capturingPublisher) Publish(_ context.Context, _, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, data)
	return nil
}

func (p *capturingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func TestSender_DrainsOutbox(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// registering a user enqueues an outbox event
	_, err := store.SaveUser(ctx, models.User{
		ID:       uuid.New(),
		Username: "prof_cruz",
		Email:    "prof_cruz@example.edu",
		Role:     models.RoleInstructor,
		IsActive: true,
	})
	require.NoError(t, err)

	publisher := &capturingPublisher{}
	sender := eventsender.NewSender(log, publisher, store)

	go sender.StartProducing(ctx, 10, 10*time.Millisecond)
	defer sender.StopSending()

	require.Eventually(t, func() bool {
		return publisher.count() == 1
	}, time.Second, 10*time.Millisecond)

	// published events are marked done and not claimed again
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, publisher.count())

	events, err := store.NewEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
