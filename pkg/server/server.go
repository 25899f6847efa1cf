// Package server wires the HTTP API: routing, middleware and graceful
// shutdown.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/costwatch/costwatch/pkg/handlers/costs"
	costwatchmiddleware "github.com/costwatch/costwatch/pkg/server/middleware"
	"github.com/costwatch/costwatch/pkg/store/costdb/monthly"
	"github.com/costwatch/costwatch/pkg/store/costdb/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Snapshots snapshot.Store
	Monthly   monthly.Store
	Scanner   handlers.Scanner
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(logger *zerolog.Logger, config Config) *chi.Mux {
	costsHandler := handlers.NewHandler(
		config.Dependencies.Snapshots,
		config.Dependencies.Monthly,
		config.Dependencies.Scanner,
	)

	router := chi.NewRouter()

	router.Use(costwatchmiddleware.Logger(logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/costs/current", costsHandler.GetCurrentCosts)
		r.Get("/costs/history", costsHandler.GetCostHistory)
		r.Get("/costs/monthly", costsHandler.GetMonthlySummaries)
		r.Get("/costs/month", costsHandler.GetCurrentMonth)
		r.Get("/services/{kind}", costsHandler.GetKindResources)
		r.Post("/scan", costsHandler.TriggerScan)
		r.Get("/scan/status", costsHandler.GetScanStatus)
	})
	router.Handle("/metrics", promhttp.Handler())

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(&logger, config)

	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	return &WebAPI{
		router:          router,
		logger:          &logger,
		shutdownTimeout: config.ShutdownTimeout,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
