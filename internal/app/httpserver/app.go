package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type AppOpts struct {
	Log     *slog.Logger
	Port    int
	Timeout time.Duration
}

type App struct {
	AppOpts
	server *http.Server
}

func New(opts AppOpts, handler *gin.Engine) *App {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      handler,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
	}

	return &App{AppOpts: opts, server: server}
}

// MustRun runs the HTTP server and panics if it fails to start
func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "httpapp.Run"
	log := a.Log.With(slog.String("op", op), slog.Int("port", a.Port))

	log.Info("HTTP server is running", slog.String("addr", a.server.Addr))

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Stop() {
	const op = "httpapp.Stop"

	a.Log.With(slog.String("op", op), slog.Int("port", a.Port)).
		Info("stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.Log.Error("failed to shut down HTTP server gracefully", slog.String("op", op))
	}
}
