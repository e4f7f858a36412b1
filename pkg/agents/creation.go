package agents

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/supportpilot/supportpilot/pkg/llm"
	"github.com/supportpilot/supportpilot/pkg/tickets"
)

const creationSystemPrompt = `You are a Support Ticket Specialist.

Your job is to create well-formatted support tickets for L2 escalation.

WORKFLOW:
1. Analyze the problem description provided
2. Determine appropriate priority (Low/Normal/High) based on:
   - Low: Minor issues, no work stoppage
   - Normal: Regular issues affecting productivity
   - High: Critical issues blocking work completely
3. Use create_support_ticket tool with:
   - description (clear summary including context)
   - priority (your assessment)
4. Confirm ticket creation to user professionally

RULES:
- Always assess priority appropriately
- Include context in description (what was already tried if mentioned)
- Be reassuring and professional
- Provide clear expectations about response time`

// responseTimes maps priority to the follow-up window promised to the user.
var responseTimes = map[tickets.Priority]string{
	tickets.PriorityLow:    "2 business days",
	tickets.PriorityNormal: "1 business day",
	tickets.PriorityHigh:   "4 business hours",
}

// CreationAgent escalates problems to L2: the model assesses priority and
// phrases the confirmation, while the ticket insert itself runs locally.
type CreationAgent struct {
	provider llm.Provider
	tickets  *tickets.Store
	tool     mcp.Tool
	logger   *zap.Logger
}

func NewCreationAgent(provider llm.Provider, store *tickets.Store, logger *zap.Logger) *CreationAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreationAgent{
		provider: provider,
		tickets:  store,
		tool: mcp.NewTool("create_support_ticket",
			mcp.WithDescription("Create a support ticket for L2 escalation. Use this to escalate issues that cannot be resolved via knowledge base."),
			mcp.WithString("description",
				mcp.Required(),
				mcp.Description("Detailed problem description"),
			),
			mcp.WithString("priority",
				mcp.Description("Priority: Low, Normal, or High"),
				mcp.Enum("Low", "Normal", "High"),
			),
		),
		logger: logger,
	}
}

// CreateTicket files one ticket for userID. escalationContext, when set,
// explains why the orchestrator escalated and is appended to the problem so
// the L2 team sees what was already tried.
func (a *CreationAgent) CreateTicket(ctx context.Context, userID, problem, traceID, escalationContext string) (*CreationResult, error) {
	a.logger.Info("creation_agent_creating_ticket",
		zap.String("trace_id", traceID),
		zap.String("user_id", userID),
		zap.String("problem_preview", preview(problem)))

	fullProblem := problem
	if escalationContext != "" {
		fullProblem = fmt.Sprintf("%s\n\nContext: %s", problem, escalationContext)
	}

	message := fmt.Sprintf("User ID: %s\n\nProblem Description:\n%s\n\nPlease create an appropriate support ticket for this user.",
		userID, fullProblem)

	resp, err := a.provider.SendMessageWithTools(ctx, llm.MessageRequest{
		Messages:     []llm.Message{{Role: "user", Content: message}},
		SystemPrompt: creationSystemPrompt,
		Temperature:  0.5,
	}, []mcp.Tool{a.tool})
	if err != nil {
		return nil, fmt.Errorf("creation agent model call: %w", err)
	}

	description := fullProblem
	priority := tickets.PriorityNormal
	for _, call := range resp.ToolCalls {
		if call.Name != "create_support_ticket" {
			continue
		}
		if d, _ := call.Args["description"].(string); d != "" {
			description = d
		}
		if p, _ := call.Args["priority"].(string); p != "" {
			if parsed, err := tickets.ParsePriority(p); err == nil {
				priority = parsed
			}
		}
		break
	}

	ticketID, err := a.tickets.Create(ctx, userID, description, priority)
	if err != nil {
		return nil, fmt.Errorf("filing ticket: %w", err)
	}

	result := &CreationResult{
		Created:  true,
		TicketID: ticketID,
		Response: resp.Content,
	}
	if result.Response == "" {
		result.Response = fmt.Sprintf(
			"Support ticket %s has been created successfully. L2 support will contact you within %s.",
			ticketID, responseTimes[priority])
	}

	a.logger.Info("creation_agent_completed",
		zap.String("trace_id", traceID),
		zap.String("ticket_id", ticketID.String()),
		zap.String("priority", string(priority)))
	return result, nil
}
