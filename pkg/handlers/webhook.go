package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/models"
)

// maxWebhookBodyBytes bounds inbound chat messages.
const maxWebhookBodyBytes = 64 << 10

// Responder answers one utterance. Implemented by services.Pipeline.
type Responder interface {
	Handle(ctx context.Context, u models.Utterance) models.BotResponse
}

// ChatHandler serves the chat webhook.
type ChatHandler struct {
	responder Responder
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(responder Responder, logger *zap.Logger) *ChatHandler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	mustRegisterValidation(validate, "notblank", validators.NotBlank)
	return &ChatHandler{
		responder: responder,
		validate:  validate,
		logger:    logger,
	}
}

// mustRegisterValidation panics if tag cannot be registered. An unregistered
// tag would fail every request at Struct, so this is a wiring error.
func mustRegisterValidation(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("handlers: register %q validation: %v", tag, err))
	}
}

// RegisterRoutes registers the webhook route.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/webhook", h.Webhook)
}

// Webhook handles POST /api/webhook. Pipeline failures are part of the reply
// text; only malformed requests produce a non-200 status. A blank message
// still gets a reply (the clarification) as long as the sender is known.
func (h *ChatHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var u models.Utterance
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err := dec.Decode(&u); err != nil {
		h.logger.Debug("Invalid webhook body", zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = ErrorResponse(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body too large")
			return
		}
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_json", "Request body must be a JSON object")
		return
	}

	if err := h.validate.Struct(u); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return
	}

	resp := h.responder.Handle(r.Context(), u)

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode webhook response", zap.Error(err))
	}
}

// validationMessage names the offending JSON fields without echoing values.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, jsonFieldName(fe.Field()))
	}
	return "missing or blank fields: " + strings.Join(fields, ", ")
}

func jsonFieldName(field string) string {
	switch field {
	case "SenderID":
		return "sender_id"
	default:
		return strings.ToLower(field)
	}
}
