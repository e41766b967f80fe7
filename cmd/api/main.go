package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/chatbot-widget/backend/internal/app"
	"github.com/zhouzirui/chatbot-widget/backend/internal/config"
	"github.com/zhouzirui/chatbot-widget/backend/internal/handler"
	"github.com/zhouzirui/chatbot-widget/backend/internal/handler/stream"
	"github.com/zhouzirui/chatbot-widget/backend/internal/handler/ws"
	"github.com/zhouzirui/chatbot-widget/backend/internal/logging"
	"github.com/zhouzirui/chatbot-widget/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := logging.Setup(cfg.Log, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}
	if envErr != nil {
		log.Debug().Err(envErr).Msg("no .env file, using process environment only")
	}

	hub := ws.NewHub()
	sse := stream.New()

	widget, err := app.New(ctx, cfg, chat.Views(hub.View(), sse.View()))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise chat widget")
	}
	hub.Attach(widget.Controller)
	sse.Attach(widget.Controller)

	router := handler.NewRouter(handler.Deps{
		Conversation: widget.Controller,
		Personas:     widget.Personas,
		PersonaID:    widget.Persona.ID,
		Hub:          hub,
		Stream:       sse,
		Title:        widget.Persona.Name,
	})

	startServer(ctx, cfg.Server, router)

	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := widget.Controller.Wait(drainCtx); err != nil {
		log.Warn().Err(err).Msg("pending reply did not finish before shutdown")
	}
	hub.Close()
	log.Info().Msg("chat widget stopped")
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("chat widget listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
