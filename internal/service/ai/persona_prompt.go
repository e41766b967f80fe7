package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/chatbot-widget/backend/internal/model/persona"
)

// BuildSystemPrompt renders the system prompt that keeps the model in the
// persona's voice.
func BuildSystemPrompt(p persona.Persona) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a %s embedded in a website chat widget.\n", p.Name, p.Title)
	if p.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s.\n", p.Tone)
	}
	if p.PromptHint != "" {
		b.WriteString(p.PromptHint)
		b.WriteString("\n")
	}
	b.WriteString("Reply in plain text only, no markdown, and keep answers short enough for a chat bubble.")
	return b.String()
}
