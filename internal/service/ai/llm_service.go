package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/chatbot-widget/backend/internal/model/chat"
	"github.com/zhouzirui/chatbot-widget/backend/internal/model/persona"
	"github.com/zhouzirui/chatbot-widget/backend/internal/service/reply"
)

const historyLimit = 10

// Service answers widget messages with a chat model. It implements
// reply.Source.
type Service struct {
	persona persona.Persona
	chain   compose.Runnable[map[string]any, *schema.Message]
	history func() []chat.Message
}

var _ reply.Source = (*Service)(nil)

// NewService compiles the prompt chain around chatModel.
func NewService(ctx context.Context, chatModel model.BaseChatModel, p persona.Persona) (*Service, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{persona: p, chain: runnable}, nil
}

// SetHistory installs the transcript provider used as conversation context.
// It is usually the controller's Transcript method.
func (s *Service) SetHistory(fn func() []chat.Message) {
	s.history = fn
}

// Reply runs the chain for text.
func (s *Service) Reply(ctx context.Context, text string) (string, error) {
	var messages []chat.Message
	if s.history != nil {
		messages = s.history()
	}

	response, err := s.chain.Invoke(ctx, map[string]any{
		"system":  BuildSystemPrompt(s.persona),
		"history": buildHistoryMessages(messages, text),
		"query":   text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	content := strings.TrimSpace(response.Content)
	if content == "" {
		return "", reply.ErrEmptyReply
	}

	log.Debug().Str("persona", s.persona.ID).Int("length", len(content)).Msg("[ai] generated reply")
	return content, nil
}

// buildHistoryMessages converts the tail of the transcript into model
// messages. The trailing user message is dropped when it is the query itself,
// since the controller logs it before asking for a reply.
func buildHistoryMessages(messages []chat.Message, query string) []*schema.Message {
	if n := len(messages); n > 0 {
		last := messages[n-1]
		if last.Sender == chat.SenderUser && last.Text == query {
			messages = messages[:n-1]
		}
	}
	if len(messages) == 0 {
		return nil
	}

	start := 0
	if len(messages) > historyLimit {
		start = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-start)
	for _, msg := range messages[start:] {
		switch msg.Sender {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(msg.Text))
		case chat.SenderBot:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}
	return history
}
