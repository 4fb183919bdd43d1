package prometheusapp

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/logger/sl"
)

type App struct {
	log    *slog.Logger
	port   int
	reg    *prometheus.Registry
	server *http.Server

	requestDuration     *prometheus.HistogramVec
	PanicsTotal         prometheus.Counter
	FailedLoginsCounter *prometheus.CounterVec
	ConflictsTotal      prometheus.Counter
}

func New(log *slog.Logger, port int) *App {
	reg := prometheus.NewRegistry()

	requestDuration := promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request handling time.",
		Buckets: []float64{0.001, 0.01, 0.1, 0.3, 0.6, 1, 3, 6, 9, 20, 30, 60, 90, 120},
	}, []string{"method", "path", "status"})

	panicsTotal := promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "http_req_panics_recovered_total",
		Help: "Total number of HTTP requests recovered from internal panic.",
	})

	failedLogins := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "failed_login_attempts_total",
		Help: "Total number of failed login attempts.",
	}, []string{"username"})

	conflictsTotal := promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "reservation_conflicts_total",
		Help: "Total number of reservation requests refused due to a time slot conflict.",
	})

	return &App{
		log:                 log,
		port:                port,
		reg:                 reg,
		requestDuration:     requestDuration,
		PanicsTotal:         panicsTotal,
		FailedLoginsCounter: failedLogins,
		ConflictsTotal:      conflictsTotal,
	}
}

// HTTPMetrics observes every request. The route template is used as the
// path label so parameterized routes do not explode cardinality.
func (a *App) HTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		a.requestDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

func (a *App) MustRun() {
	err := a.Run()
	if errors.Is(err, http.ErrServerClosed) {
		a.log.Info("prometheus server closed")
	} else if err != nil {
		a.log.Error("failed to start prometheus server", sl.Err(err))
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "prometheusapp.Run"
	log := a.log.With(slog.String("op", op), slog.Int("port", a.port))

	log.Info("exposing Prometheus metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		a.reg,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	))

	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: mux,
	}

	return a.server.ListenAndServe()
}

func (a *App) Stop() {
	if a.server != nil {
		_ = a.server.Close()
	}
}
