package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"aichat-backend/internal/completion"
	"aichat-backend/internal/config"
	"aichat-backend/internal/database"
	"aichat-backend/internal/handler"
	"aichat-backend/internal/logger"
	"aichat-backend/internal/middleware"
	"aichat-backend/internal/repository"
	"aichat-backend/internal/service"
	"aichat-backend/internal/websocket"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.Env, cfg.LogLevel)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DatabaseURL, database.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	if cfg.CompletionAPIKey == "" {
		log.Warn().Msg("OPENROUTER_KEY is empty, auto-replies will use the fallback text")
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	accountRepo := repository.NewAccountRepository(db)
	contactRepo := repository.NewContactRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	accountService := service.NewAccountService(accountRepo, cfg)
	contactService := service.NewContactService(contactRepo, hub)
	messageService := service.NewMessageService(messageRepo, completion.NewClient(cfg), hub, cfg.CompletionTimeout)

	mw := middleware.NewMiddleware(cfg)
	defer mw.Stop()

	router := handler.NewRouter(cfg, mw, handler.Handlers{
		Account: handler.NewAccountHandler(accountService),
		Contact: handler.NewContactHandler(contactService),
		Message: handler.NewMessageHandler(messageService),
		Ws:      handler.NewWsHandler(hub, contactService, cfg),
		Health:  handler.NewHealthHandler(db),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("prefix", cfg.APIPrefix).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		log.Error().Err(err).Msg("server run")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
		return
	}
	log.Info().Msg("server stopped")
}
