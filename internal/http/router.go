package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	jwtlib "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/jwt"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/auth"
	labservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/lab"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/reservation"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/schedule"
	taskservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/task"
)

type Options struct {
	Log          *slog.Logger
	Tokens       *jwtlib.Manager
	Users        UserProvider
	Auth         *auth.Auth
	Labs         *labservice.Service
	Reservations *reservation.Service
	Schedule     *schedule.Service
	Tasks        *taskservice.Service
	PanicsTotal  prometheus.Counter

	// Metrics, when set, observes every request. Wired from the metrics
	// app so the router stays registry-agnostic.
	Metrics gin.HandlerFunc
}

// NewRouter assembles the HTTP surface. The schedule itself is public,
// everything else under /api requires a valid access token.
func NewRouter(opts Options) *gin.Engine {
	engine := gin.New()
	engine.Use(RequestLogger(opts.Log))
	engine.Use(Recovery(opts.Log, opts.PanicsTotal))
	if opts.Metrics != nil {
		engine.Use(opts.Metrics)
	}

	authH := &authHandler{log: opts.Log, auth: opts.Auth}
	labH := &labHandler{log: opts.Log, labs: opts.Labs}
	reservationH := &reservationHandler{log: opts.Log, reservations: opts.Reservations}
	scheduleH := &scheduleHandler{log: opts.Log, schedule: opts.Schedule}
	taskH := &taskHandler{log: opts.Log, tasks: opts.Tasks}

	authGroup := engine.Group("/auth")
	{
		authGroup.POST("/register", authH.register)
		authGroup.POST("/login", authH.login)
		authGroup.POST("/refresh", authH.refresh)
		authGroup.POST("/logout", authH.logout)
	}

	engine.GET("/api/schedule", scheduleH.view)
	engine.GET("/api/health", func(c *gin.Context) {
		respond(c, http.StatusOK, gin.H{"status": "healthy"})
	})

	api := engine.Group("/api")
	api.Use(Authenticate(opts.Log, opts.Tokens, opts.Users))
	{
		api.GET("/profile", authH.profile)

		api.GET("/labs", labH.list)
		api.POST("/labs", labH.create)

		api.GET("/reservations", reservationH.list)
		api.POST("/reservations", reservationH.create)
		api.POST("/reservations/:id/approve", reservationH.approve)
		api.POST("/reservations/:id/reject", reservationH.reject)
		api.POST("/reservations/:id/cancel", reservationH.cancel)

		api.GET("/stats", scheduleH.stats)

		api.GET("/tasks", taskH.list)
		api.POST("/tasks", taskH.create)
		api.GET("/tasks/stats", taskH.stats)
		api.GET("/tasks/:id", taskH.get)
		api.PUT("/tasks/:id", taskH.update)
		api.DELETE("/tasks/:id", taskH.delete)
	}

	return engine
}
