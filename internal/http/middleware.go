package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	jwtlib "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/jwt"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/logger/sl"
)

const identityKey = "identity"

// UserProvider loads the authenticated user. The role attached to the
// request always comes from storage, not from token claims.
type UserProvider interface {
	User(ctx context.Context, userID uuid.UUID) (models.User, error)
}

func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

func Recovery(log *slog.Logger, panicsTotal prometheus.Counter) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				panicsTotal.Inc()
				log.Error("panic recovered",
					slog.Any("panic", rec),
					slog.String("path", c.Request.URL.Path),
				)
				fail(c, http.StatusInternalServerError, ErrInternal)
				c.Abort()
			}
		}()

		c.Next()
	}
}

// Authenticate verifies the bearer access token and resolves the caller's
// identity from the user store. Deactivated accounts are rejected even
// when their token is still valid.
func Authenticate(log *slog.Logger, tokens *jwtlib.Manager, users UserProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			fail(c, http.StatusUnauthorized, ErrAuthRequired)
			c.Abort()
			return
		}

		userID, err := tokens.Parse(token, jwtlib.TypeAccess)
		if err != nil {
			fail(c, http.StatusUnauthorized, ErrInvalidToken)
			c.Abort()
			return
		}

		user, err := users.User(c.Request.Context(), userID)
		if err != nil {
			log.Warn("token user not found", sl.UID(userID.String()), sl.Err(err))
			fail(c, http.StatusUnauthorized, ErrInvalidToken)
			c.Abort()
			return
		}
		if !user.IsActive {
			fail(c, http.StatusUnauthorized, ErrAccountDeactivated)
			c.Abort()
			return
		}

		c.Set(identityKey, models.Identity{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

func identityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}

	identity, ok := v.(models.Identity)

	return identity, ok
}
