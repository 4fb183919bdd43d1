package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	jwtlib "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/jwt"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/logger/sl"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrAccountIsLocked    = errors.New("account is temporarily locked")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrInvalidRole        = errors.New("invalid user role")
)

const (
	maxFailedLogins = 5
	lockDuration    = 15 * time.Minute
)

type UserSaver interface {
	SaveUser(ctx context.Context, user models.User) (models.User, error)
}

type UserProvider interface {
	UserByLogin(ctx context.Context, login string) (models.User, error)
	User(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type FailedLoginStore interface {
	FailedLoginAttempts(ctx context.Context, userID string) (models.FailedLogin, error)
	SaveFailedLoginAttempts(ctx context.Context, userID string, failedLogin models.FailedLogin) error
	RemoveFailedLoginAttempts(ctx context.Context, userID string) error
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Auth struct {
	log                 *slog.Logger
	userSaver           UserSaver
	userProvider        UserProvider
	failedLogins        FailedLoginStore
	tokens              *jwtlib.Manager
	failedLoginsCounter *prometheus.CounterVec
}

// New returns a new instance of the Auth service
func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	failedLogins FailedLoginStore,
	tokens *jwtlib.Manager,
	failedLoginsCounter *prometheus.CounterVec,
) *Auth {
	return &Auth{
		log:                 log,
		userSaver:           userSaver,
		userProvider:        userProvider,
		failedLogins:        failedLogins,
		tokens:              tokens,
		failedLoginsCounter: failedLoginsCounter,
	}
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

func (a *Auth) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	const op = "auth.Register"
	log := a.log.With(slog.String("op", op))
	log.Info("registering new user")

	if err := validatePassword(input.Password); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	role := models.RoleStudent
	if input.Role != "" {
		parsed, err := models.ParseRole(input.Role)
		if err != nil {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidRole)
		}
		role = parsed
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(input.Username),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		PassHash:  passHash,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, err := a.userSaver.SaveUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user exists", sl.Err(err))
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
		}

		log.Error("failed to save user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", sl.UID(saved.ID.String()))

	return saved, nil
}

// Login authenticates by username or email. Repeated failures lock the
// account for lockDuration; the lockout store is best effort and never
// blocks a login on its own failure.
func (a *Auth) Login(ctx context.Context, login, password string) (TokenPair, models.User, error) {
	const op = "auth.Login"
	log := a.log.With(slog.String("op", op))
	log.Info("login user")

	user, err := a.userProvider.UserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))
			return TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		log.Error("failed to get user", sl.Err(err))
		return TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if a.isLocked(ctx, user.ID) {
		log.Warn("account is locked", sl.UID(user.ID.String()))
		return TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrAccountIsLocked)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		a.registerFailedAttempt(ctx, user)
		return TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if !user.IsActive {
		return TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrAccountDeactivated)
	}

	if err := a.failedLogins.RemoveFailedLoginAttempts(ctx, user.ID.String()); err != nil {
		log.Warn("failed to clear failed login attempts", sl.Err(err))
	}

	pair, err := a.newTokenPair(&user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))
		return TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user, nil
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, models.User, error) {
	const op = "auth.Refresh"
	log := a.log.With(slog.String("op", op))

	userID, err := a.tokens.Parse(refreshToken, jwtlib.TypeRefresh)
	if err != nil {
		log.Warn("invalid refresh token", sl.Err(err))
		return TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := a.userProvider.User(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		log.Error("failed to get user", sl.Err(err))
		return TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if !user.IsActive {
		return TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrAccountDeactivated)
	}

	pair, err := a.newTokenPair(&user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))
		return TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user, nil
}

func (a *Auth) Profile(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "auth.Profile"

	user, err := a.userProvider.User(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (a *Auth) newTokenPair(user *models.User) (TokenPair, error) {
	access, err := a.tokens.NewToken(user, jwtlib.TypeAccess)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := a.tokens.NewToken(user, jwtlib.TypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (a *Auth) isLocked(ctx context.Context, userID uuid.UUID) bool {
	failedLogin, err := a.failedLogins.FailedLoginAttempts(ctx, userID.String())
	if err != nil {
		if !errors.Is(err, storage.ErrFailedLoginNotFound) {
			a.log.Warn("failed to read failed login attempts", sl.Err(err))
		}
		return false
	}

	return failedLogin.LockedUntil.After(time.Now().UTC())
}

func (a *Auth) registerFailedAttempt(ctx context.Context, user models.User) {
	const op = "auth.registerFailedAttempt"
	log := a.log.With(slog.String("op", op), sl.UID(user.ID.String()))

	a.failedLoginsCounter.WithLabelValues(user.Username).Inc()

	now := time.Now().UTC()

	failedLogin, err := a.failedLogins.FailedLoginAttempts(ctx, user.ID.String())
	if err != nil {
		failedLogin = models.FailedLogin{FirstFail: now}
	}

	failedLogin.Attempts++
	if failedLogin.Attempts >= maxFailedLogins {
		failedLogin.LockedUntil = now.Add(lockDuration)
		log.Warn("account locked after repeated failures", slog.Int("attempts", failedLogin.Attempts))
	}

	if err := a.failedLogins.SaveFailedLoginAttempts(ctx, user.ID.String(), failedLogin); err != nil {
		log.Warn("failed to save failed login attempts", sl.Err(err))
	}
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: must be at least 8 characters long", ErrWeakPassword)
	}

	var hasDigit, hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}

	if !hasDigit {
		return fmt.Errorf("%w: must contain at least one digit", ErrWeakPassword)
	}
	if !hasUpper {
		return fmt.Errorf("%w: must contain at least one uppercase letter", ErrWeakPassword)
	}
	if !hasLower {
		return fmt.Errorf("%w: must contain at least one lowercase letter", ErrWeakPassword)
	}

	return nil
}
