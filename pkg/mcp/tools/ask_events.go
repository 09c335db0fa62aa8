package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/models"
)

// MCPSenderID identifies utterances arriving through the MCP tool.
const MCPSenderID = "mcp"

// Responder answers one utterance.
type Responder interface {
	Handle(ctx context.Context, u models.Utterance) models.BotResponse
}

// RegisterAskEventsTool adds the ask_events tool, which runs a question
// through the chat pipeline and returns the reply text.
func RegisterAskEventsTool(s *server.MCPServer, responder Responder, logger *zap.Logger) {
	tool := mcp.NewTool(
		"ask_events",
		mcp.WithDescription("Answer a natural-language question about upcoming events, e.g. 'concerts in June' or 'food events this weekend'."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString(
			"question",
			mcp.Required(),
			mcp.Description("The question about events, in plain language"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil || strings.TrimSpace(question) == "" {
			return NewErrorResult("invalid_parameters", "question is required"), nil
		}

		resp := responder.Handle(ctx, models.Utterance{SenderID: MCPSenderID, Message: question})
		logger.Debug("ask_events answered", zap.Int("reply_length", len(resp.Text)))

		return mcp.NewToolResultText(resp.Text), nil
	})
}
