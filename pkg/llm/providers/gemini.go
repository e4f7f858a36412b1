package providers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"google.golang.org/genai"

	"github.com/supportpilot/supportpilot/pkg/llm"
)

type GeminiProvider struct {
	client *genai.Client
	config llm.ProviderConfig
}

func NewGeminiProvider(config llm.ProviderConfig) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

func (p *GeminiProvider) SendMessage(ctx context.Context, req llm.MessageRequest) (*llm.MessageResponse, error) {
	return p.generate(ctx, req, nil)
}

func (p *GeminiProvider) SendMessageWithTools(ctx context.Context, req llm.MessageRequest, tools []mcp.Tool) (*llm.MessageResponse, error) {
	return p.generate(ctx, req, convertMCPToGeminiTools(tools))
}

func (p *GeminiProvider) generate(ctx context.Context, req llm.MessageRequest, tools []*genai.Tool) (*llm.MessageResponse, error) {
	model := "gemini-2.0-flash"
	if req.Model != "" {
		model = req.Model
	} else if p.config.Model != "" {
		model = p.config.Model
	}

	genConfig := &genai.GenerateContentConfig{}
	if req.SystemPrompt != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.Temperature > 0 {
		genConfig.Temperature = genai.Ptr(req.Temperature)
	}
	if req.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(req.MaxTokens)
	}
	if len(tools) > 0 {
		genConfig.Tools = tools
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, convertToGeminiContents(req.Messages), genConfig)
	if err != nil {
		return nil, fmt.Errorf("making Gemini API call: %w", err)
	}

	return convertFromGeminiResponse(resp), nil
}

func (p *GeminiProvider) GetName() string {
	return "gemini"
}

func (p *GeminiProvider) ValidateConfig(config llm.ProviderConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("API key is required for Gemini provider")
	}
	return nil
}

func convertToGeminiContents(messages []llm.Message) []*genai.Content {
	var contents []*genai.Content

	for _, msg := range messages {
		role := genai.Role(genai.RoleUser)
		if msg.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}

	return contents
}

func convertFromGeminiResponse(resp *genai.GenerateContentResponse) *llm.MessageResponse {
	out := &llm.MessageResponse{}

	if resp.UsageMetadata != nil {
		out.Usage = llm.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return out
	}

	candidate := resp.Candidates[0]
	out.FinishReason = string(candidate.FinishReason)

	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			out.Content += part.Text
		}
		if part.FunctionCall != nil {
			out.ToolCalls = append(out.ToolCalls, llm.ToolCall{
				ID:   part.FunctionCall.ID,
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		}
	}

	return out
}

func convertMCPToGeminiTools(mcpTools []mcp.Tool) []*genai.Tool {
	var declarations []*genai.FunctionDeclaration

	for _, mcpTool := range mcpTools {
		decl := &genai.FunctionDeclaration{
			Name:        mcpTool.Name,
			Description: mcpTool.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		}

		for name, raw := range mcpTool.InputSchema.Properties {
			prop, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			schema := &genai.Schema{Type: geminiType(prop)}
			if desc, ok := prop["description"].(string); ok {
				schema.Description = desc
			}
			decl.Parameters.Properties[name] = schema
		}
		decl.Parameters.Required = mcpTool.InputSchema.Required

		declarations = append(declarations, decl)
	}

	if len(declarations) == 0 {
		return nil
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

func geminiType(prop map[string]any) genai.Type {
	t, _ := prop["type"].(string)
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
