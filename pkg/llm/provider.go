// Package llm abstracts the language model backends the sub-agents call.
// Tool definitions use the MCP schema so the same declarations serve the
// in-process agents and the external tools service.
package llm

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

type Provider interface {
	SendMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error)
	SendMessageWithTools(ctx context.Context, req MessageRequest, tools []mcp.Tool) (*MessageResponse, error)
	GetName() string
	ValidateConfig(config ProviderConfig) error
}

type MessageRequest struct {
	Messages     []Message
	SystemPrompt string
	MaxTokens    int
	Model        string
	// Temperature of 0 means provider default. The agents run low
	// temperatures for consistent tool use and formatting.
	Temperature float32
}

type MessageResponse struct {
	Content      string
	ToolCalls    []ToolCall
	Usage        Usage
	FinishReason string
}

type ProviderConfig struct {
	Type   string // "gemini", "anthropic", "openai"
	APIKey string
	// BaseURL points at a self-hosted or proxy endpoint where supported.
	BaseURL string
	Model   string
}

type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
