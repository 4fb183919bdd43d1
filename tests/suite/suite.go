// Package suite wires a full application stack on the in-memory store for
// end-to-end HTTP tests.
package suite

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	transport "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/http"
	jwtlib "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/jwt"
	authservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/auth"
	labservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/lab"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/reservation"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/schedule"
	taskservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/task"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/memory"
)

const tokenSecret = "test_secret"

type Suite struct {
	T      *testing.T
	Server *httptest.Server
	Store  *memory.Storage
}

type failedLoginMap struct {
	mu       sync.Mutex
	attempts map[string]models.FailedLogin
}

func (f *failedLoginMap) FailedLoginAttempts(_ context.Context, userID string) (models.FailedLogin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fl, ok := f.attempts[userID]
	if !ok {
		return models.FailedLogin{}, storage.ErrFailedLoginNotFound
	}

	return fl, nil
}

func (f *failedLoginMap) SaveFailedLoginAttempts(_ context.Context, userID string, fl models.FailedLogin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[userID] = fl
	return nil
}

func (f *failedLoginMap) RemoveFailedLoginAttempts(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.attempts, userID)
	return nil
}

func New(t *testing.T) *Suite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()

	tokens := jwtlib.NewManager(tokenSecret, time.Hour, 24*time.Hour)
	failedLogins := &failedLoginMap{attempts: make(map[string]models.FailedLogin)}
	failedLoginsCounter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_failed_logins_total"}, []string{"username"})
	conflictsTotal := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_conflicts_total"})
	panicsTotal := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_panics_total"})

	router := transport.NewRouter(transport.Options{
		Log:          log,
		Tokens:       tokens,
		Users:        store,
		Auth:         authservice.New(log, store, store, failedLogins, tokens, failedLoginsCounter),
		Labs:         labservice.New(log, store),
		Reservations: reservation.New(log, store, store, conflictsTotal),
		Schedule:     schedule.New(log, store, store),
		Tasks:        taskservice.New(log, store),
		PanicsTotal:  panicsTotal,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &Suite{T: t, Server: server, Store: store}
}

// Do performs a JSON request and decodes the envelope into a generic map.
func (s *Suite) Do(method, path, token string, body any) (int, map[string]any) {
	s.T.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.T, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.Server.URL+path, reader)
	require.NoError(s.T, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Server.Client().Do(req)
	require.NoError(s.T, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(s.T, json.NewDecoder(resp.Body).Decode(&decoded))

	return resp.StatusCode, decoded
}

// RegisterAndLogin creates a user with the given role and returns an access
// token for it.
func (s *Suite) RegisterAndLogin(username, role string) string {
	s.T.Helper()

	status, _ := s.Do(http.MethodPost, "/auth/register", "", map[string]any{
		"username":   username,
		"email":      username + "@example.edu",
		"password":   "Str0ngPass",
		"first_name": "Test",
		"last_name":  "User",
		"role":       role,
	})
	require.Equal(s.T, http.StatusCreated, status)

	status, body := s.Do(http.MethodPost, "/auth/login", "", map[string]any{
		"login":    username,
		"password": "Str0ngPass",
	})
	require.Equal(s.T, http.StatusOK, status)

	token, ok := body["access_token"].(string)
	require.True(s.T, ok)

	return token
}
