package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assistec/internal/config"
	"assistec/internal/infra"
	"assistec/internal/repository"
	"assistec/internal/router"
	"assistec/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title AssisTec API
// @version 1.0
// @description Back office para assistências técnicas: caixa, vendas, ordens de serviço e notificações.
// @BasePath /v1
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao carregar configuração")
	}
	if cfg.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao conectar no banco")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("erro ao conectar no redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async notification pipeline
	waClient := infra.NewWhatsAppClient(cfg.WhatsAppGatewayURL, cfg.WhatsAppToken)
	waCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	notificacaoRepo := repository.NewNotificacaoRepository(db)
	ordemRepo := repository.NewOrdemRepository(db)
	empresaRepo := repository.NewEmpresaRepository(db)

	handlers := worker.Handlers{
		Notificacao: worker.NewNotificacaoWorker(
			notificacaoRepo, ordemRepo, empresaRepo,
			waClient, waCB, dispatcher, rdb, cfg.PDFStoragePath,
		),
		Email: worker.NewEmailWorker(mailer, notificacaoRepo),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		NotificacaoRepo: notificacaoRepo,
		Dispatcher:      dispatcher,
		CB:              waCB,
	})

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("servidor iniciado")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("erro no servidor HTTP")
		}
	}()

	// Graceful shutdown: stop accepting requests, drain in-flight ones,
	// then cancel the worker context.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("desligando servidor...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("erro no shutdown do servidor")
	}
	cancel()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	rdb.Close()

	log.Info().Msg("servidor finalizado")
}
