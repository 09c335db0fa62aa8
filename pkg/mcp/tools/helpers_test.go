package tools

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/models"
)

type toolCallResponse struct {
	Result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
}

func callTool(t *testing.T, s *server.MCPServer, request string) toolCallResponse {
	t.Helper()
	result := s.HandleMessage(context.Background(), []byte(request))

	resultBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}
	var response toolCallResponse
	if err := json.Unmarshal(resultBytes, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(response.Result.Content) == 0 {
		t.Fatalf("expected content in response: %s", resultBytes)
	}
	return response
}

type recordingResponder struct {
	mu    sync.Mutex
	reply string
	seen  []models.Utterance
}

func (r *recordingResponder) Handle(_ context.Context, u models.Utterance) models.BotResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, u)
	return models.NewBotResponse(u.SenderID, r.reply)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
