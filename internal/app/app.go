// Package app assembles the widget controller from configuration. Both the
// HTTP server and the terminal client use it.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/chatbot-widget/backend/internal/config"
	"github.com/zhouzirui/chatbot-widget/backend/internal/model/persona"
	"github.com/zhouzirui/chatbot-widget/backend/internal/service/ai"
	"github.com/zhouzirui/chatbot-widget/backend/internal/service/chat"
	"github.com/zhouzirui/chatbot-widget/backend/internal/service/reply"
)

// Widget is a started controller and the persona it speaks as.
type Widget struct {
	Controller *chat.Controller
	Persona    persona.Persona
	Personas   persona.Store
}

// New builds the reply source selected by cfg, wires it to view and posts the
// welcome message. A missing view is fatal.
func New(ctx context.Context, cfg *config.Config, view chat.View) (*Widget, error) {
	store := persona.NewMemoryStore(persona.Seed())
	p, err := persona.Resolve(store, cfg.Reply.PersonaID)
	if err != nil {
		return nil, err
	}

	source, llm, err := newSource(ctx, cfg, p)
	if err != nil {
		return nil, err
	}

	ctrl, err := chat.NewController(view, source, chat.WithWelcome(p.OpeningLine))
	if err != nil {
		return nil, fmt.Errorf("initialise widget: %w", err)
	}
	if llm != nil {
		llm.SetHistory(ctrl.Transcript)
	}
	ctrl.Start()

	return &Widget{Controller: ctrl, Persona: p, Personas: store}, nil
}

func newSource(ctx context.Context, cfg *config.Config, p persona.Persona) (reply.Source, *ai.Service, error) {
	seed := time.Now().UnixNano()
	if cfg.Reply.Seed != nil {
		seed = *cfg.Reply.Seed
	}
	rng := reply.NewLockedRand(seed)

	if cfg.Reply.Backend == config.BackendArk {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("create chat model: %w", err)
		}
		llm, err := ai.NewService(ctx, chatModel, p)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("model", cfg.AI.Model).Msg("[app] using ark reply backend")
		return llm, llm, nil
	}

	latency, err := reply.NewUniform(cfg.Reply.MinDelay, cfg.Reply.MaxDelay, rng)
	if err != nil {
		return nil, nil, err
	}
	log.Info().
		Dur("minDelay", cfg.Reply.MinDelay).
		Dur("maxDelay", cfg.Reply.MaxDelay).
		Msg("[app] using keyword reply backend")
	return reply.Delayed(reply.NewKeyword(nil, reply.WithRand(rng)), latency), nil, nil
}
