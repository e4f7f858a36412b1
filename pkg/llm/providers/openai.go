package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sashabaranov/go-openai"

	"github.com/supportpilot/supportpilot/pkg/llm"
)

type OpenAIProvider struct {
	client *openai.Client
	config llm.ProviderConfig
}

func NewOpenAIProvider(config llm.ProviderConfig) *OpenAIProvider {
	client := openai.NewClient(config.APIKey)
	if config.BaseURL != "" {
		cfg := openai.DefaultConfig(config.APIKey)
		cfg.BaseURL = config.BaseURL
		client = openai.NewClientWithConfig(cfg)
	}

	return &OpenAIProvider{
		client: client,
		config: config,
	}
}

func (p *OpenAIProvider) SendMessage(ctx context.Context, req llm.MessageRequest) (*llm.MessageResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("making openai API call: %w", err)
	}
	return convertFromOpenAIResponse(resp), nil
}

func (p *OpenAIProvider) SendMessageWithTools(ctx context.Context, req llm.MessageRequest, tools []mcp.Tool) (*llm.MessageResponse, error) {
	openaiReq := p.buildRequest(req)
	openaiReq.Tools = convertMCPToOpenAITools(tools)

	resp, err := p.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		return nil, fmt.Errorf("making openai API call: %w", err)
	}
	return convertFromOpenAIResponse(resp), nil
}

func (p *OpenAIProvider) buildRequest(req llm.MessageRequest) openai.ChatCompletionRequest {
	openaiMessages := convertToOpenAIMessages(req.Messages)

	if req.SystemPrompt != "" {
		systemMsg := openai.ChatCompletionMessage{
			Role:    "system",
			Content: req.SystemPrompt,
		}
		openaiMessages = append([]openai.ChatCompletionMessage{systemMsg}, openaiMessages...)
	}

	model := "gpt-4o"
	if req.Model != "" {
		model = req.Model
	} else if p.config.Model != "" {
		model = p.config.Model
	}

	openaiReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    openaiMessages,
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		openaiReq.MaxTokens = req.MaxTokens
	}
	return openaiReq
}

func (p *OpenAIProvider) GetName() string {
	return "openai"
}

func (p *OpenAIProvider) ValidateConfig(config llm.ProviderConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("API key is required for OpenAI provider")
	}
	if !strings.HasPrefix(config.APIKey, "sk-") {
		return fmt.Errorf("invalid OpenAI API key format - should start with 'sk-'")
	}
	return nil
}

func convertToOpenAIMessages(messages []llm.Message) []openai.ChatCompletionMessage {
	var openaiMessages []openai.ChatCompletionMessage

	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	return openaiMessages
}

func convertFromOpenAIResponse(resp openai.ChatCompletionResponse) *llm.MessageResponse {
	var content string
	var toolCalls []llm.ToolCall
	var finishReason string

	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		content = choice.Message.Content
		finishReason = string(choice.FinishReason)

		for _, tc := range choice.Message.ToolCalls {
			toolCall := llm.ToolCall{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: make(map[string]any),
			}
			if tc.Function.Arguments != "" {
				var args map[string]any
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err == nil {
					toolCall.Args = args
				}
			}
			toolCalls = append(toolCalls, toolCall)
		}
	}

	usage := llm.Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}

	return &llm.MessageResponse{
		Content:      content,
		ToolCalls:    toolCalls,
		Usage:        usage,
		FinishReason: finishReason,
	}
}

func convertMCPToOpenAITools(mcpTools []mcp.Tool) []openai.Tool {
	var openaiTools []openai.Tool

	for _, mcpTool := range mcpTools {
		openaiTool := openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        mcpTool.Name,
				Description: mcpTool.Description,
				Parameters:  make(map[string]any),
			},
		}

		if mcpTool.InputSchema.Type != "" {
			params := map[string]any{
				"type": mcpTool.InputSchema.Type,
			}
			if mcpTool.InputSchema.Properties != nil {
				params["properties"] = mcpTool.InputSchema.Properties
			}
			if mcpTool.InputSchema.Required != nil {
				params["required"] = mcpTool.InputSchema.Required
			}
			openaiTool.Function.Parameters = params
		}

		openaiTools = append(openaiTools, openaiTool)
	}

	return openaiTools
}
