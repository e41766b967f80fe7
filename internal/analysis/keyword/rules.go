package keyword

import (
	"fmt"
	"time"
)

// Rule names, in matching priority order.
const (
	Greeting  = "greeting"
	HowAreYou = "how-are-you"
	Help      = "help"
	Identity  = "identity"
	Thanks    = "thanks"
	Farewell  = "farewell"
	Weather   = "weather"
	Clock     = "time"
)

// Rule maps a set of trigger substrings to a reply. Exactly one of Responses
// or Dynamic is set.
type Rule struct {
	Name      string
	Triggers  []string
	Responses []string
	Dynamic   func(now time.Time) string
}

// DefaultRules is the built-in rule table. Order is priority: the first rule
// with a matching trigger wins.
var DefaultRules = []Rule{
	{
		Name:     Greeting,
		Triggers: []string{"hello", "hi", "hey"},
		Responses: []string{
			"Hello! How can I help you today?",
			"Hi there! What can I do for you?",
			"Hey! I'm here to assist you.",
			"Hello! Nice to meet you!",
		},
	},
	{
		Name:     HowAreYou,
		Triggers: []string{"how are you", "how do you do"},
		Responses: []string{
			"I'm doing great, thank you for asking! How are you?",
			"I'm functioning perfectly! How can I help you today?",
			"I'm doing well! What would you like to chat about?",
		},
	},
	{
		Name:     Help,
		Triggers: []string{"help", "assist"},
		Responses: []string{
			"I'm here to help! You can ask me questions, have a conversation, or request assistance with various topics. What do you need help with?",
		},
	},
	{
		Name:     Identity,
		Triggers: []string{"your name", "who are you"},
		Responses: []string{
			"I'm your friendly chatbot assistant! I'm here to help answer questions and have conversations with you.",
		},
	},
	{
		Name:     Thanks,
		Triggers: []string{"thank", "thanks"},
		Responses: []string{
			"You're welcome! Happy to help!",
			"No problem! Anything else I can do for you?",
			"Glad I could help! Is there anything else you need?",
		},
	},
	{
		Name:     Farewell,
		Triggers: []string{"bye", "goodbye", "see you"},
		Responses: []string{
			"Goodbye! Have a great day!",
			"See you later! Take care!",
			"Bye! Feel free to come back anytime!",
		},
	},
	{
		Name:     Weather,
		Triggers: []string{"weather"},
		Responses: []string{
			"I don't have access to real-time weather data, but you can check your local weather app or website for current conditions!",
		},
	},
	{
		Name:     Clock,
		Triggers: []string{"time", "date"},
		Dynamic:  TimeReply,
	},
}

// FallbackResponses is used when no rule matches.
var FallbackResponses = []string{
	"That's interesting! Can you tell me more about that?",
	"I understand what you're saying. What would you like to know more about?",
	"Thanks for sharing that with me! How can I help you further?",
	"I see! Is there something specific you'd like help with?",
	"That's a great point! What else would you like to discuss?",
	"I'm here to help! Could you provide more details about what you need?",
}

// TimeReply renders the clock and calendar date of now.
func TimeReply(now time.Time) string {
	return fmt.Sprintf("Current time is %s and today's date is %s.",
		now.Format("3:04:05 PM"), now.Format("1/2/2006"))
}
