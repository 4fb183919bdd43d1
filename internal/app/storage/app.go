package storageapp

import (
	"context"
	"log/slog"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/storage/postgres"
)

type App struct {
	Storage *postgres.Storage
	log     *slog.Logger
	dbAddr  string
}

func MustCreateApp(ctx context.Context, dbAddr string, log *slog.Logger) *App {
	pg, err := postgres.New(ctx, dbAddr)
	if err != nil {
		panic(err)
	}

	return &App{
		log:     log,
		Storage: pg,
		dbAddr:  dbAddr,
	}
}

func (a *App) Stop() {
	const op = "storageapp.Stop"
	a.log.With(slog.String("op", op)).Info("stopping storage app")
	a.Storage.ClosePool()
}
