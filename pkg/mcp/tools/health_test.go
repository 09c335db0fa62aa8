package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/server"
)

func TestRegisterHealthTool(t *testing.T) {
	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))

	RegisterHealthTool(mcpServer, "test-version", stubPinger{})

	result := mcpServer.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))

	resultBytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var response struct {
		Result struct {
			Tools []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(resultBytes, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	found := false
	for _, tool := range response.Result.Tools {
		if tool.Name == "health" {
			found = true
			if tool.Description != "Returns server health status and version" {
				t.Errorf("unexpected description: %s", tool.Description)
			}
			break
		}
	}
	if !found {
		t.Error("health tool not found in tools/list response")
	}
}

func TestHealthTool_Execute(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		status   string
		database string
	}{
		{name: "reachable", status: "healthy", database: "connected"},
		{name: "unreachable", pingErr: errors.New("connection refused"), status: "unhealthy", database: "disconnected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
			RegisterHealthTool(mcpServer, "1.2.3", stubPinger{err: tt.pingErr})

			response := callTool(t, mcpServer, `{"jsonrpc":"2.0","method":"tools/call","params":{"name":"health"},"id":1}`)

			content := response.Result.Content[0]
			if content.Type != "text" {
				t.Errorf("expected content type 'text', got '%s'", content.Type)
			}

			var health healthResult
			if err := json.Unmarshal([]byte(content.Text), &health); err != nil {
				t.Fatalf("failed to unmarshal health result: %v", err)
			}
			if health.Status != tt.status {
				t.Errorf("expected status %q, got %q", tt.status, health.Status)
			}
			if health.Database != tt.database {
				t.Errorf("expected database %q, got %q", tt.database, health.Database)
			}
			if health.Version != "1.2.3" {
				t.Errorf("expected version '1.2.3', got '%s'", health.Version)
			}
		})
	}
}

func TestHealthTool_VersionWithSpecialChars(t *testing.T) {
	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	versionWithQuotes := `1.0.0-beta"test`
	RegisterHealthTool(mcpServer, versionWithQuotes, stubPinger{})

	response := callTool(t, mcpServer, `{"jsonrpc":"2.0","method":"tools/call","params":{"name":"health"},"id":1}`)

	var health healthResult
	if err := json.Unmarshal([]byte(response.Result.Content[0].Text), &health); err != nil {
		t.Fatalf("failed to unmarshal health result with special chars: %v", err)
	}
	if health.Version != versionWithQuotes {
		t.Errorf("expected version %q, got %q", versionWithQuotes, health.Version)
	}
}
