// The tools service exposes the knowledge base and ticket store as MCP tools
// over StreamableHTTP, so external agent hosts can drive the same data layer
// the built-in agents use.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/supportpilot/supportpilot/pkg/config"
	"github.com/supportpilot/supportpilot/pkg/db"
	"github.com/supportpilot/supportpilot/pkg/identity"
	"github.com/supportpilot/supportpilot/pkg/kb"
	"github.com/supportpilot/supportpilot/pkg/tickets"
)

type toolsService struct {
	kb      *kb.Store
	tickets *tickets.Store
}

func main() {
	cfg, err := config.Load("supportpilot.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Migrate(sqlDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	kbStore, err := kb.Load(cfg.KBPath, nil)
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}

	svc := &toolsService{
		kb:      kbStore,
		tickets: tickets.NewStore(sqlDB, nil),
	}

	s := server.NewMCPServer("SupportPilot Tools Service", "1.0.0",
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("search_knowledge_base",
			mcp.WithDescription("Search the IT support knowledge base for solutions to technical problems"),
			mcp.WithString("query", mcp.Required(), mcp.Description("User's problem description")),
		),
		svc.handleSearchKnowledgeBase,
	)

	s.AddTool(
		mcp.NewTool("create_ticket",
			mcp.WithDescription("Create a support ticket for L2 escalation"),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("User the ticket is filed for")),
			mcp.WithString("description", mcp.Required(), mcp.Description("Detailed problem description")),
			mcp.WithString("priority", mcp.Description("Priority: Low, Normal, or High. Defaults to Normal")),
		),
		svc.handleCreateTicket,
	)

	s.AddTool(
		mcp.NewTool("get_ticket",
			mcp.WithDescription("Get one support ticket by id"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Ticket id, e.g. TICKET-0042")),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Requesting user")),
			mcp.WithString("role", mcp.Description("Requesting user's role. Defaults to end_user")),
		),
		svc.handleGetTicket,
	)

	s.AddTool(
		mcp.NewTool("list_tickets",
			mcp.WithDescription("List support tickets visible to the requesting user, newest first"),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Requesting user")),
			mcp.WithString("role", mcp.Description("Requesting user's role. Defaults to end_user")),
		),
		svc.handleListTickets,
	)

	s.AddTool(
		mcp.NewTool("update_ticket_status",
			mcp.WithDescription("Update a ticket's status. Service desk agents only"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Ticket id to update")),
			mcp.WithString("status", mcp.Required(), mcp.Description("New status: Open, In Progress, or Closed")),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Requesting user")),
			mcp.WithString("role", mcp.Description("Requesting user's role. Defaults to end_user")),
		),
		svc.handleUpdateTicketStatus,
	)

	fmt.Println("=== SupportPilot Tools Service Capabilities ===")
	fmt.Println("Tools:")
	fmt.Println("  - search_knowledge_base: Search the IT support knowledge base")
	fmt.Println("  - create_ticket: Create a support ticket for L2 escalation")
	fmt.Println("  - get_ticket: Get one support ticket by id")
	fmt.Println("  - list_tickets: List tickets visible to the requesting user")
	fmt.Println("  - update_ticket_status: Update a ticket's status")
	fmt.Println("===================================")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8087"
	}
	log.Printf("Starting SupportPilot Tools Service on :%s", port)
	httpServer := server.NewStreamableHTTPServer(s)
	if err := httpServer.Start(":" + port); err != nil {
		log.Fatal(err)
	}
}

func (svc *toolsService) handleSearchKnowledgeBase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	articles, err := svc.kb.Search(query)
	if err == kb.ErrNotFound {
		return mcp.NewToolResultText(`{"found":false,"articles":[]}`), nil
	}
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return jsonResult(map[string]any{
		"found":    true,
		"articles": articles,
	})
}

func (svc *toolsService) handleCreateTicket(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := req.GetString("user_id", "")
	description := req.GetString("description", "")
	if userID == "" || description == "" {
		return nil, fmt.Errorf("user_id and description are required")
	}

	priority, err := tickets.ParsePriority(req.GetString("priority", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := svc.tickets.Create(ctx, userID, description, priority)
	if err != nil {
		if tickets.IsValidation(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("creating ticket: %w", err)
	}

	return jsonResult(map[string]any{
		"success":   true,
		"ticket_id": id.String(),
	})
}

func (svc *toolsService) handleGetTicket(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, requester, err := ticketRequest(req)
	if err != nil {
		return nil, err
	}

	t, err := svc.tickets.GetByID(ctx, id, requester)
	if err != nil {
		if err == tickets.ErrNotFound {
			return mcp.NewToolResultError(fmt.Sprintf("ticket %s not found", id)), nil
		}
		if tickets.IsPermission(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	return jsonResult(t)
}

func (svc *toolsService) handleListTickets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requester, err := requesterFrom(req)
	if err != nil {
		return nil, err
	}

	list, err := svc.tickets.List(ctx, requester)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	if list == nil {
		list = []tickets.Ticket{}
	}
	return jsonResult(map[string]any{
		"count":   len(list),
		"tickets": list,
	})
}

func (svc *toolsService) handleUpdateTicketStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, requester, err := ticketRequest(req)
	if err != nil {
		return nil, err
	}
	status := req.GetString("status", "")
	if status == "" {
		return nil, fmt.Errorf("status is required")
	}

	t, err := svc.tickets.UpdateStatus(ctx, id, status, requester)
	if err != nil {
		if err == tickets.ErrNotFound {
			return mcp.NewToolResultError(fmt.Sprintf("ticket %s not found", id)), nil
		}
		if tickets.IsPermission(err) || tickets.IsValidation(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("updating ticket: %w", err)
	}
	return jsonResult(t)
}

func ticketRequest(req mcp.CallToolRequest) (tickets.ID, identity.User, error) {
	raw := req.GetString("id", "")
	if raw == "" {
		return 0, identity.User{}, fmt.Errorf("ticket id is required")
	}
	id, err := tickets.ParseID(raw)
	if err != nil {
		return 0, identity.User{}, err
	}
	requester, err := requesterFrom(req)
	if err != nil {
		return 0, identity.User{}, err
	}
	return id, requester, nil
}

func requesterFrom(req mcp.CallToolRequest) (identity.User, error) {
	return identity.NewUser(req.GetString("user_id", ""), req.GetString("role", ""))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
