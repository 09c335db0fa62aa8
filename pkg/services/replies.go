package services

import "github.com/ekaya-inc/ekaya-eventbot/pkg/apperrors"

// Replies holds every fixed text the pipeline can send. Only these strings,
// never an error message, reach the user on the failure paths.
type Replies struct {
	Greeting      string `yaml:"greeting"`
	Farewell      string `yaml:"farewell"`
	Clarification string `yaml:"clarification"`
	NoResults     string `yaml:"no_results"`
	Apology       string `yaml:"apology"`
}

// DefaultReplies returns the stock English replies.
func DefaultReplies() Replies {
	return Replies{
		Greeting:      "👋 Hello! I'm your event assistant. Ask me things like 'Events in June', 'Concerts in Malta', or 'What's happening next weekend?'",
		Farewell:      "👋 Thank you! Have a great day. I'm here if you need help with events later!",
		Clarification: "❓ Sorry, I couldn't understand your request. Try asking about events by date, location, or category.",
		NoResults:     "❌ No matching event details found. Try using different keywords, dates, or categories.",
		Apology:       "⚠️ Something went wrong. Please try again or ask in a different way.",
	}
}

// WithDefaults fills any empty field from DefaultReplies.
func (r Replies) WithDefaults() Replies {
	def := DefaultReplies()
	if r.Greeting == "" {
		r.Greeting = def.Greeting
	}
	if r.Farewell == "" {
		r.Farewell = def.Farewell
	}
	if r.Clarification == "" {
		r.Clarification = def.Clarification
	}
	if r.NoResults == "" {
		r.NoResults = def.NoResults
	}
	if r.Apology == "" {
		r.Apology = def.Apology
	}
	return r
}

// ForKind maps a failure category to its reply. Unclassified failures get
// the apology.
func (r Replies) ForKind(kind apperrors.Kind) string {
	if kind == apperrors.KindNotAQuery {
		return r.Clarification
	}
	return r.Apology
}
