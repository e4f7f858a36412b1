package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/supportpilot/supportpilot/pkg/llm"
)

type AnthropicProvider struct {
	client anthropic.Client
	config llm.ProviderConfig
}

func NewAnthropicProvider(config llm.ProviderConfig) *AnthropicProvider {
	client := anthropic.NewClient(option.WithAPIKey(config.APIKey))
	return &AnthropicProvider{
		client: client,
		config: config,
	}
}

func (p *AnthropicProvider) SendMessage(ctx context.Context, req llm.MessageRequest) (*llm.MessageResponse, error) {
	anthropicReq := p.buildRequest(req)

	resp, err := p.client.Messages.New(ctx, anthropicReq)
	if err != nil {
		return nil, fmt.Errorf("making Anthropic API call: %w", err)
	}
	return convertFromAnthropicResponse(resp), nil
}

func (p *AnthropicProvider) SendMessageWithTools(ctx context.Context, req llm.MessageRequest, tools []mcp.Tool) (*llm.MessageResponse, error) {
	anthropicReq := p.buildRequest(req)
	anthropicReq.Tools = convertMCPToAnthropicTools(tools)

	resp, err := p.client.Messages.New(ctx, anthropicReq)
	if err != nil {
		return nil, fmt.Errorf("making Anthropic API call: %w", err)
	}
	return convertFromAnthropicResponse(resp), nil
}

func (p *AnthropicProvider) buildRequest(req llm.MessageRequest) anthropic.MessageNewParams {
	model := anthropic.ModelClaude3_5SonnetLatest
	if req.Model != "" {
		model = anthropic.Model(req.Model)
	} else if p.config.Model != "" {
		model = anthropic.Model(p.config.Model)
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	anthropicReq := anthropic.MessageNewParams{
		Model:     model,
		Messages:  convertToAnthropicMessages(req.Messages),
		MaxTokens: maxTokens,
	}

	if req.Temperature > 0 {
		anthropicReq.Temperature = anthropic.Float(float64(req.Temperature))
	}

	if systemPrompt := strings.TrimSpace(req.SystemPrompt); systemPrompt != "" {
		anthropicReq.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	return anthropicReq
}

func (p *AnthropicProvider) GetName() string {
	return "anthropic"
}

func (p *AnthropicProvider) ValidateConfig(config llm.ProviderConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("API key is required for Anthropic provider")
	}
	if !strings.HasPrefix(config.APIKey, "sk-ant-") {
		return fmt.Errorf("invalid Anthropic API key format - should start with 'sk-ant-'")
	}
	return nil
}

func convertToAnthropicMessages(messages []llm.Message) []anthropic.MessageParam {
	var anthropicMessages []anthropic.MessageParam

	for _, msg := range messages {
		// Trim whitespace to avoid Anthropic API errors
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}

		switch msg.Role {
		case "user":
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(content)))
		case "assistant":
			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(content)))
			// System messages are handled separately in the Anthropic API.
		}
	}

	return anthropicMessages
}

func convertFromAnthropicResponse(resp *anthropic.Message) *llm.MessageResponse {
	var content string
	var toolCalls []llm.ToolCall

	for _, block := range resp.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			content += b.Text

		case anthropic.ToolUseBlock:
			toolCall := llm.ToolCall{
				ID:   b.ID,
				Name: b.Name,
				Args: make(map[string]any),
			}
			if b.Input != nil {
				var args map[string]any
				if err := json.Unmarshal(b.Input, &args); err == nil {
					toolCall.Args = args
				}
			}
			toolCalls = append(toolCalls, toolCall)
		}
	}

	usage := llm.Usage{
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
		TotalTokens:  int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
	}

	return &llm.MessageResponse{
		Content:      content,
		ToolCalls:    toolCalls,
		Usage:        usage,
		FinishReason: string(resp.StopReason),
	}
}

func convertMCPToAnthropicTools(mcpTools []mcp.Tool) []anthropic.ToolUnionParam {
	var anthropicTools []anthropic.ToolUnionParam

	for _, mcpTool := range mcpTools {
		anthropicTool := anthropic.ToolParam{
			Name:        mcpTool.Name,
			Description: anthropic.String(mcpTool.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type:       "object",
				Properties: map[string]any{},
				Required:   []string{},
			},
		}

		if mcpTool.InputSchema.Type != "" {
			if mcpTool.InputSchema.Properties != nil {
				anthropicTool.InputSchema.Properties = mcpTool.InputSchema.Properties
			}
			if mcpTool.InputSchema.Required != nil {
				anthropicTool.InputSchema.Required = mcpTool.InputSchema.Required
			}
		}

		anthropicTools = append(anthropicTools, anthropic.ToolUnionParam{OfTool: &anthropicTool})
	}

	return anthropicTools
}
