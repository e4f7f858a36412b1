package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/supportpilot/supportpilot/pkg/identity"
	"github.com/supportpilot/supportpilot/pkg/llm"
	"github.com/supportpilot/supportpilot/pkg/tickets"
)

const querySystemPrompt = `You are a Ticket Status Specialist.

Your job is to retrieve and present ticket information clearly to users.

WORKFLOW:
1. Use get_ticket_status tool with the user_id provided
2. Format the results in a clear, user-friendly way
3. Explain what each status means

RULES:
- Present tickets in a clean, organized format
- Use status indicators (🔴 Open, 🟡 In Progress, 🟢 Closed)
- Show most recent tickets first
- Explain status meanings briefly
- If no tickets, be helpful and offer assistance`

// QueryAgent answers "where are my tickets" turns. The listing runs locally
// under the requesting user's own identity, so it can only ever see that
// user's tickets.
type QueryAgent struct {
	provider llm.Provider
	tickets  *tickets.Store
	tool     mcp.Tool
	logger   *zap.Logger
}

func NewQueryAgent(provider llm.Provider, store *tickets.Store, logger *zap.Logger) *QueryAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryAgent{
		provider: provider,
		tickets:  store,
		tool: mcp.NewTool("get_ticket_status",
			mcp.WithDescription("Retrieve all support tickets for a specific user. Returns ticket details including status, description, and timestamps."),
			mcp.WithString("user_id",
				mcp.Required(),
				mcp.Description("User identifier to query tickets for"),
			),
		),
		logger: logger,
	}
}

// QueryTickets lists userID's tickets and asks the model to present them,
// falling back to a deterministic rendering when the model returns no text.
func (a *QueryAgent) QueryTickets(ctx context.Context, userID, traceID string) (*QueryResult, error) {
	a.logger.Info("query_agent_querying",
		zap.String("trace_id", traceID),
		zap.String("user_id", userID))

	message := fmt.Sprintf("User ID: %s\n\nPlease retrieve and present this user's support tickets.", userID)

	resp, err := a.provider.SendMessageWithTools(ctx, llm.MessageRequest{
		Messages:     []llm.Message{{Role: "user", Content: message}},
		SystemPrompt: querySystemPrompt,
		Temperature:  0.3,
	}, []mcp.Tool{a.tool})
	if err != nil {
		return nil, fmt.Errorf("query agent model call: %w", err)
	}

	requester := identity.User{ID: userID, Role: identity.RoleEndUser}
	list, err := a.tickets.List(ctx, requester)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}

	result := &QueryResult{
		Count:    len(list),
		Response: strings.TrimSpace(resp.Content),
	}
	if result.Response == "" {
		result.Response = formatTickets(list)
	}

	a.logger.Info("query_agent_completed",
		zap.String("trace_id", traceID),
		zap.Int("ticket_count", result.Count))
	return result, nil
}

func formatTickets(list []tickets.Ticket) string {
	if len(list) == 0 {
		return "You don't have any support tickets at the moment.\n\n" +
			"If you're experiencing any IT issues, I'm here to help! Just describe the problem."
	}

	out := []string{fmt.Sprintf("You have %d ticket(s):\n", len(list))}
	for _, t := range list {
		out = append(out,
			fmt.Sprintf("%s %s - %s", statusEmoji(t.Status), t.ID, t.Status),
			fmt.Sprintf("   Issue: %s", t.Description),
			fmt.Sprintf("   Created: %s", t.CreatedAt.Format("Jan 2, 2006")),
			"")
	}
	return strings.Join(out, "\n")
}

func statusEmoji(s tickets.Status) string {
	switch s {
	case tickets.StatusOpen:
		return "🔴"
	case tickets.StatusInProgress:
		return "🟡"
	default:
		return "🟢"
	}
}
