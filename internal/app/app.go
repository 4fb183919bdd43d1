package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	httpapp "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/app/httpserver"
	prometheusapp "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/app/prometheus"
	storageapp "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/app/storage"
	redisapp "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/app/storage/redis"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/config"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/domain/models"
	transport "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/http"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/kafka"
	jwtlib "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/lib/jwt"
	authservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/auth"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/eventsender"
	labservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/lab"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/reservation"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/schedule"
	taskservice "github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/task"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage"
	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/memory"
)

const (
	eventsLimit       = 100
	producingInterval = time.Second
)

// Store is the full persistence surface the application wires. Both the
// postgres and the in-memory implementations satisfy it.
type Store interface {
	SaveUser(ctx context.Context, user models.User) (models.User, error)
	UserByLogin(ctx context.Context, login string) (models.User, error)
	User(ctx context.Context, userID uuid.UUID) (models.User, error)

	SaveLab(ctx context.Context, lab models.Lab) (models.Lab, error)
	Lab(ctx context.Context, labID uuid.UUID) (models.Lab, error)
	ActiveLabs(ctx context.Context) ([]models.Lab, error)
	CountActiveLabs(ctx context.Context) (int, error)

	CreateReservation(ctx context.Context, r models.Reservation) (models.Reservation, error)
	Reservation(ctx context.Context, id uuid.UUID) (models.Reservation, error)
	Reservations(ctx context.Context, filter storage.ReservationFilter) ([]models.Reservation, error)
	CountReservations(ctx context.Context, filter storage.ReservationFilter) (int, error)
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, upd storage.StatusUpdate) (models.Reservation, error)

	SaveTask(ctx context.Context, task models.Task) (models.Task, error)
	Task(ctx context.Context, taskID, userID uuid.UUID) (models.Task, error)
	Tasks(ctx context.Context, userID uuid.UUID, filter storage.TaskFilter) ([]models.Task, int, error)
	UpdateTask(ctx context.Context, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error
	TaskStats(ctx context.Context, userID uuid.UUID, now time.Time) (models.TaskStats, error)

	NewEvents(ctx context.Context, limit int) ([]models.Event, error)
	SetEventDone(ctx context.Context, eventID uuid.UUID) (models.Event, error)
}

type App struct {
	httpServer   *httpapp.App
	metrics      *prometheusapp.App
	storage      *storageapp.App
	redisStorage *redisapp.App
	eventSender  *eventsender.Sender
}

func New(log *slog.Logger, cfg *config.Config) *App {
	metrics := prometheusapp.New(log, cfg.Metrics.Port)
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)

	var store Store
	var storageApp *storageapp.App
	if cfg.Storage.Addr != "" {
		storageApp = storageapp.MustCreateApp(context.Background(), cfg.Storage.Addr, log)
		store = storageApp.Storage
	} else {
		log.Warn("no storage address configured, using in-memory store")
		store = memory.New()
	}

	redisApp := redisapp.New(log, cfg.Redis.Addr, cfg.Redis.TTL)

	eventSender := eventsender.NewSender(log, kafkaProducer, store)

	tokens := jwtlib.NewManager(cfg.Tokens.Secret, cfg.Tokens.AccessTTL, cfg.Tokens.RefreshTTL)

	authService := authservice.New(log, store, store, redisApp.Storage, tokens, metrics.FailedLoginsCounter)
	labService := labservice.New(log, store)
	reservationService := reservation.New(log, store, store, metrics.ConflictsTotal)
	scheduleService := schedule.New(log, store, store)
	taskService := taskservice.New(log, store)

	router := transport.NewRouter(transport.Options{
		Log:          log,
		Tokens:       tokens,
		Users:        store,
		Auth:         authService,
		Labs:         labService,
		Reservations: reservationService,
		Schedule:     scheduleService,
		Tasks:        taskService,
		PanicsTotal:  metrics.PanicsTotal,
		Metrics:      metrics.HTTPMetrics(),
	})

	httpServer := httpapp.New(httpapp.AppOpts{
		Log:     log,
		Port:    cfg.HTTP.Port,
		Timeout: cfg.HTTP.Timeout,
	}, router)

	return &App{
		httpServer:   httpServer,
		metrics:      metrics,
		storage:      storageApp,
		redisStorage: redisApp,
		eventSender:  eventSender,
	}
}

func (a *App) MustRun() {
	go a.httpServer.MustRun()
	go a.metrics.MustRun()
	go a.eventSender.StartProducing(context.Background(), eventsLimit, producingInterval)
}

func (a *App) Stop() error {
	a.httpServer.Stop()
	a.metrics.Stop()
	a.eventSender.StopSending()
	if a.storage != nil {
		a.storage.Stop()
	}
	return a.redisStorage.Stop()
}
