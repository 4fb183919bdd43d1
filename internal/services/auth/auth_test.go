package auth_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	jwtlib "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/jwt"
	authservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/auth"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/memory"
)

const testSecret = "test_secret"

// failedLoginMap is an in-memory stand-in for the redis attempt store.
type failedLoginMap struct {
	mu       sync.Mutex
	attempts map[string]models.FailedLogin
}

func newFailedLoginMap() *failedLoginMap {
	return &failedLoginMap{attempts: make(map[string]models.FailedLogin)}
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

func newAuth(t *testing.T) (*authservice.Auth, *jwtlib.Manager) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	tokens := jwtlib.NewManager(testSecret, time.Hour, 24*time.Hour)
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_failed_logins_total"}, []string{"username"})

	return authservice.New(log, store, store, newFailedLoginMap(), tokens, counter), tokens
}

func registerInput() authservice.RegisterInput {
	return authservice.RegisterInput{
		Username:  fmt.Sprintf("user_%s", gofakeit.LetterN(8)),
		Email:     gofakeit.Email(),
		Password:  "Str0ngPass",
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Role:      "instructor",
	}
}

func TestRegister_HappyPath(t *testing.T) {
	auth, _ := newAuth(t)

	input := registerInput()
	user, err := auth.Register(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, models.RoleInstructor, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, input.Password, string(user.PassHash))
}

func TestRegister_DefaultRoleStudent(t *testing.T) {
	auth, _ := newAuth(t)

	input := registerInput()
	input.Role = ""
	user, err := auth.Register(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, models.RoleStudent, user.Role)
}

func TestRegister_InvalidRole(t *testing.T) {
	auth, _ := newAuth(t)

	input := registerInput()
	input.Role = "superuser"
	_, err := auth.Register(context.Background(), input)
	assert.ErrorIs(t, err, authservice.ErrInvalidRole)
}

func TestRegister_WeakPasswords(t *testing.T) {
	auth, _ := newAuth(t)

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		input := registerInput()
		input.Password = password

		_, err := auth.Register(context.Background(), input)
		assert.ErrorIs(t, err, authservice.ErrWeakPassword, "password %q", password)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	input := registerInput()
	_, err := auth.Register(ctx, input)
	require.NoError(t, err)

	_, err = auth.Register(ctx, input)
	assert.ErrorIs(t, err, authservice.ErrUserExists)
}

func TestLogin_HappyPath(t *testing.T) {
	auth, tokens := newAuth(t)
	ctx := context.Background()

	input := registerInput()
	registered, err := auth.Register(ctx, input)
	require.NoError(t, err)

	pair, user, err := auth.Login(ctx, input.Username, input.Password)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// access token identifies the user
	uid, err := tokens.Parse(pair.AccessToken, jwtlib.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, uid)

	// login by email works too
	_, _, err = auth.Login(ctx, input.Email, input.Password)
	assert.NoError(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	input := registerInput()
	_, err := auth.Register(ctx, input)
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, input.Username, "Wr0ngPassword")
	assert.ErrorIs(t, err, authservice.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	auth, _ := newAuth(t)

	_, _, err := auth.Login(context.Background(), "nobody", "Whatever1x")
	assert.ErrorIs(t, err, authservice.ErrInvalidCredentials)
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	input := registerInput()
	_, err := auth.Register(ctx, input)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, _, err = auth.Login(ctx, input.Username, "Wr0ngPassword")
		require.ErrorIs(t, err, authservice.ErrInvalidCredentials)
	}

	// even the right password is refused while locked
	_, _, err = auth.Login(ctx, input.Username, input.Password)
	assert.ErrorIs(t, err, authservice.ErrAccountIsLocked)
}

func TestRefresh_HappyPath(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	input := registerInput()
	registered, err := auth.Register(ctx, input)
	require.NoError(t, err)

	pair, _, err := auth.Login(ctx, input.Username, input.Password)
	require.NoError(t, err)

	fresh, user, err := auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, fresh.AccessToken)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	input := registerInput()
	_, err := auth.Register(ctx, input)
	require.NoError(t, err)

	pair, _, err := auth.Login(ctx, input.Username, input.Password)
	require.NoError(t, err)

	_, _, err = auth.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, authservice.ErrInvalidCredentials)
}

func TestProfile(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	input := registerInput()
	registered, err := auth.Register(ctx, input)
	require.NoError(t, err)

	user, err := auth.Profile(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Username, user.Username)
}
