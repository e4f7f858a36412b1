package agents

import (
	"context"

	"github.com/supportpilot/supportpilot/pkg/tickets"
)

// KnowledgeResult is the outcome of a knowledge base resolution attempt.
// Found is false on a clean miss; that is routing input, not an error.
type KnowledgeResult struct {
	Found     bool
	Response  string
	ArticleID int
}

// CreationResult is the outcome of a ticket escalation.
type CreationResult struct {
	Created  bool
	TicketID tickets.ID
	Response string
}

// QueryResult is the outcome of a ticket status lookup.
type QueryResult struct {
	Count    int
	Response string
}

// KnowledgeResolver attempts L1 resolution against the knowledge base.
type KnowledgeResolver interface {
	Resolve(ctx context.Context, problem, traceID string) (*KnowledgeResult, error)
}

// TicketCreator escalates a problem to L2 by filing a ticket. An empty
// escalationContext means the user asked for a ticket directly.
type TicketCreator interface {
	CreateTicket(ctx context.Context, userID, problem, traceID, escalationContext string) (*CreationResult, error)
}

// StatusQuerier reports the requesting user's tickets.
type StatusQuerier interface {
	QueryTickets(ctx context.Context, userID, traceID string) (*QueryResult, error)
}
