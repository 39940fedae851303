package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/slog"

	"storesync/internal/app/server/api"
	"storesync/internal/app/server/config"
	"storesync/internal/domain/rule"
	"storesync/internal/infrastructure/storage/postgres"
	"storesync/internal/utils/logger"
	"storesync/internal/utils/metrics"
)

func main() {
	conf := config.MustLoad()
	log := logger.New(conf.Env)

	if err := run(conf, log); err != nil {
		log.Error("server terminated", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(conf *config.Config, log *slog.Logger) error {
	storage, err := postgres.New(conf)
	if err != nil {
		return err
	}
	defer storage.Close()

	rules := rule.NewStore(postgres.NewRuleRepository(storage.Pool(), log), log)
	if err := rules.Load(context.Background()); err != nil {
		return err
	}

	engine := metrics.New(prometheus.DefaultRegisterer)

	mux := api.New(storage, rules, engine, log)
	srv := &http.Server{
		Addr:    conf.Server.RunAddress,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", conf.Server.RunAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
