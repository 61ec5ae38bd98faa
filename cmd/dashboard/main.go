package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/adapters/backend"
	"github.com/SentryPrime1/sentryprime-dashboard/internal/adapters/httpapi"
	"github.com/SentryPrime1/sentryprime-dashboard/internal/config"
	"github.com/SentryPrime1/sentryprime-dashboard/internal/services/session"
	"github.com/SentryPrime1/sentryprime-dashboard/internal/services/websites"
	"github.com/SentryPrime1/sentryprime-dashboard/internal/workers/scanpoller"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("config")
	}
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	client := backend.New(cfg.BackendURL)
	sessions := session.NewRegistry(cfg.SessionKey, time.Duration(cfg.SessionTTLMin)*time.Minute)
	sites := websites.New(client)

	progress := scanpoller.NewStore()
	events := httpapi.NewEvents()
	poller := scanpoller.New(scanpoller.Config{
		Scans:          client,
		Sink:           progress,
		OnCompleted:    events.ScanCompleted,
		RefreshCatalog: events.CatalogChanged,
	})

	srv := httpapi.New(httpapi.Deps{
		Auth:     client,
		Scans:    client,
		AI:       client,
		Sites:    sites,
		Sessions: sessions,
		Poller:   poller,
		Progress: progress,
		Events:   events,
	})

	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.Info().Str("addr", cfg.ListenAddr).Str("backend", cfg.BackendURL).Msg("dashboard listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
		// Stop poll loops only after the API stops serving progress reads.
		poller.Close()
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server error")
	}
}
