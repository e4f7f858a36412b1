package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/supportpilot/supportpilot/pkg/kb"
	"github.com/supportpilot/supportpilot/pkg/llm"
)

const knowledgeSystemPrompt = `You are a Level 1 IT Support Specialist.

Your ONLY job is to search the knowledge base and provide solutions to technical problems.

WORKFLOW:
1. Use search_knowledge_base tool with the user's problem description
2. If solution found: Format it clearly with numbered steps
3. If NOT found: Return exactly "KB_NOT_FOUND" (no other text)

RULES:
- Always use the search_knowledge_base tool first
- Present solutions in clear, numbered steps
- Be professional but friendly
- If no solution exists, return only "KB_NOT_FOUND"
- Do NOT make up solutions - only use KB content`

// KnowledgeAgent attempts L1 resolution: it hands the problem to the model
// with a single knowledge base search tool, executes the search locally, and
// returns the model's presentation of the matching article.
type KnowledgeAgent struct {
	provider llm.Provider
	kb       *kb.Store
	tool     mcp.Tool
	logger   *zap.Logger
}

func NewKnowledgeAgent(provider llm.Provider, store *kb.Store, logger *zap.Logger) *KnowledgeAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KnowledgeAgent{
		provider: provider,
		kb:       store,
		tool: mcp.NewTool("search_knowledge_base",
			mcp.WithDescription("Search the IT support knowledge base for solutions to technical problems. Returns step-by-step solutions if found, or indicates no solution available."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("User's problem description"),
			),
		),
		logger: logger,
	}
}

// Resolve runs one model round with the search tool. A knowledge base miss is
// reported as Found=false with a nil error; errors mean the model call itself
// failed.
func (a *KnowledgeAgent) Resolve(ctx context.Context, problem, traceID string) (*KnowledgeResult, error) {
	a.logger.Info("knowledge_agent_resolving",
		zap.String("trace_id", traceID),
		zap.String("problem_preview", preview(problem)))

	resp, err := a.provider.SendMessageWithTools(ctx, llm.MessageRequest{
		Messages:     []llm.Message{{Role: "user", Content: problem}},
		SystemPrompt: knowledgeSystemPrompt,
		Temperature:  0.3,
	}, []mcp.Tool{a.tool})
	if err != nil {
		return nil, fmt.Errorf("knowledge agent model call: %w", err)
	}

	var matched []kb.Article
	for _, call := range resp.ToolCalls {
		if call.Name != "search_knowledge_base" {
			continue
		}
		query, _ := call.Args["query"].(string)
		if query == "" {
			query = problem
		}
		a.logger.Info("knowledge_agent_tool_call",
			zap.String("trace_id", traceID),
			zap.String("query", preview(query)))

		articles, err := a.kb.Search(query)
		if errors.Is(err, kb.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("knowledge base search: %w", err)
		}
		matched = append(matched, articles...)
	}

	// No tool call at all still counts as an attempt; retry the search with
	// the raw problem text so a reluctant model cannot skip the lookup.
	if len(resp.ToolCalls) == 0 {
		if articles, err := a.kb.Search(problem); err == nil {
			matched = articles
		}
	}

	text := strings.TrimSpace(resp.Content)

	if len(matched) == 0 {
		a.logger.Info("knowledge_agent_completed",
			zap.String("trace_id", traceID),
			zap.Bool("found", false))
		return &KnowledgeResult{Found: false, Response: "KB_NOT_FOUND"}, nil
	}

	result := &KnowledgeResult{
		Found:     true,
		ArticleID: matched[0].ID,
		Response:  text,
	}
	if result.Response == "" || strings.Contains(result.Response, "KB_NOT_FOUND") {
		result.Response = "I found a solution for your problem:\n\n" + kb.FormatResults(matched) +
			"\n\nLet me know if this resolves your issue!"
	}

	a.logger.Info("knowledge_agent_completed",
		zap.String("trace_id", traceID),
		zap.Bool("found", true),
		zap.Int("article_id", result.ArticleID))
	return result, nil
}

func preview(s string) string {
	if len(s) > 100 {
		return s[:100]
	}
	return s
}
