package models

import (
	"strings"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/schema"
)

// Utterance is one inbound chat message. An empty Message is answered with
// the clarification reply.
type Utterance struct {
	SenderID string `json:"sender_id" validate:"required,notblank"`
	Message  string `json:"message"`
}

// Button is a quick-reply option. Payload is sent back as the next message.
type Button struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// BotResponse is the only shape ever returned to a chat client.
type BotResponse struct {
	RecipientID string   `json:"recipient_id"`
	Text        string   `json:"text"`
	Buttons     []Button `json:"buttons,omitempty"`
}

// NewBotResponse creates a response addressed to recipient. The buttons are copied.
func NewBotResponse(recipient, text string, buttons ...Button) BotResponse {
	resp := BotResponse{RecipientID: recipient, Text: text}
	if len(buttons) > 0 {
		resp.Buttons = append([]Button(nil), buttons...)
	}
	return resp
}

// CategoryButtons builds one quick reply per category, in contract order.
func CategoryButtons(categories []schema.Category, noun string) []Button {
	if len(categories) == 0 {
		return nil
	}
	plural := noun + "s"
	buttons := make([]Button, 0, len(categories))
	for _, cat := range categories {
		label := strings.TrimSpace(cat.Label)
		if label == "" {
			continue
		}
		buttons = append(buttons, Button{
			Title:   strings.ToUpper(label[:1]) + label[1:] + " " + plural,
			Payload: strings.ToLower(label) + " " + plural,
		})
	}
	return buttons
}
