package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appadmin "marketplace-ledger/internal/app/admin"
	"marketplace-ledger/internal/app/catalog"
	"marketplace-ledger/internal/config"
	"marketplace-ledger/internal/ledger"
	"marketplace-ledger/internal/logging"
	"marketplace-ledger/internal/store"
	httptransport "marketplace-ledger/internal/transport/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	st, err := store.New(cfg.Server.PostgresDSN, cfg.Server.LockTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if cfg.Server.AutoMigrate {
		if err := st.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("migrate failed")
		}
	}

	var (
		ledgerMetrics *ledger.Metrics
		httpMetrics   *httptransport.HTTPMetrics
	)
	if cfg.Server.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		ledgerMetrics = ledger.NewMetrics(reg)
		httpMetrics = httptransport.NewHTTPMetrics(reg)
	}

	r := httptransport.NewRouter(httptransport.Services{
		DB:       st,
		Profiles: st,
		Ledger:   ledger.New(st, ledgerMetrics),
		Catalog:  catalog.NewService(st),
		Admin:    appadmin.NewService(st),
		Metrics:  httpMetrics,
	}, cfg.Server)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}
