package persona

// DefaultID names the persona used when none is configured.
const DefaultID = "assistant"

// Persona describes the bot the widget speaks as.
type Persona struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Tone        string `json:"tone"`
	PromptHint  string `json:"promptHint"`
	OpeningLine string `json:"openingLine"`
}

// Seed provides the built-in personas.
func Seed() []Persona {
	return []Persona{
		{
			ID:          DefaultID,
			Name:        "Chatbot Assistant",
			Title:       "friendly helper",
			Tone:        "warm, concise, upbeat",
			PromptHint:  "Answer briefly and invite the user to keep the conversation going.",
			OpeningLine: "Hello! I'm your chatbot assistant. How can I help you today?",
		},
		{
			ID:          "concierge",
			Name:        "Concierge",
			Title:       "site concierge",
			Tone:        "polite, formal, precise",
			PromptHint:  "Point visitors to the right place and keep replies under three sentences.",
			OpeningLine: "Good day! I'm the site concierge. What can I help you find?",
		},
	}
}
