package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/chatbot-widget/backend/internal/app"
	"github.com/zhouzirui/chatbot-widget/backend/internal/config"
	"github.com/zhouzirui/chatbot-widget/backend/internal/logging"
	"github.com/zhouzirui/chatbot-widget/backend/internal/model/persona"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	// Keep log lines from interleaving with the conversation.
	cfg.Log.Level = "error"
	if err := logging.Setup(cfg.Log, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "failed to configure logging: %v\n", err)
		os.Exit(1)
	}

	botName := cfg.Reply.PersonaID
	if p, ok := persona.NewMemoryStore(persona.Seed()).FindByID(cfg.Reply.PersonaID); ok {
		botName = p.Name
	}

	ctx := context.Background()
	widget, err := app.New(ctx, cfg, newTerminalView(os.Stdout, botName))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise chat widget")
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Error().Err(err).Msg("read input")
			break
		}

		switch strings.TrimSpace(input) {
		case "/quit", "/exit":
			return
		case "":
			continue
		}

		line.AppendHistory(input)
		if widget.Controller.Submit(ctx, input) {
			if err := widget.Controller.Wait(ctx); err != nil {
				log.Error().Err(err).Msg("wait for reply")
			}
		}
	}
}
