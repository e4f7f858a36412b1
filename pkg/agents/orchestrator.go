package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/supportpilot/supportpilot/pkg/metrics"
	"github.com/supportpilot/supportpilot/pkg/session"
	"github.com/supportpilot/supportpilot/pkg/trace"
)

// apologyResponse is the only thing a user sees when a collaborator fails.
// Internal detail stays in the logs.
const apologyResponse = "I apologize, but I encountered an error. Please try again."

// Orchestrator routes each user turn to one of the specialized agents based
// on intent classification and session state, and owns the escalation and
// metrics bookkeeping around those calls.
type Orchestrator struct {
	knowledge KnowledgeResolver
	creation  TicketCreator
	query     StatusQuerier
	sessions  *session.Store
	metrics   *metrics.Collector
	logger    *zap.Logger
}

func NewOrchestrator(
	knowledge KnowledgeResolver,
	creation TicketCreator,
	query StatusQuerier,
	sessions *session.Store,
	collector *metrics.Collector,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		knowledge: knowledge,
		creation:  creation,
		query:     query,
		sessions:  sessions,
		metrics:   collector,
		logger:    logger,
	}
}

// ProcessMessage handles one conversational turn for userID and always
// returns something presentable; collaborator failures degrade to an apology.
func (o *Orchestrator) ProcessMessage(ctx context.Context, userID, message string) (response string) {
	meta := o.sessions.GetOrCreate(userID)
	tr := trace.New(o.logger, userID)
	tr.LogAgent("orchestrator")

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("orchestrator_panic",
				zap.Any("panic", r),
				zap.String("trace_id", tr.ID))
			response = apologyResponse
		}
	}()

	intent := ClassifyIntent(message, meta)
	meta.SetIntent(string(intent))
	tr.LogDecision(
		fmt.Sprintf("Classified intent as %s", intent),
		fmt.Sprintf("Based on message analysis (kb_attempted=%t)", meta.KBAttempted),
		zap.String("message_preview", preview(message)))

	signal, dissatisfied := DetectDissatisfaction(message)
	if dissatisfied {
		meta.IncrementNegativeSignals()
		o.logger.Info("negative_signal_detected",
			zap.String("trace_id", tr.ID),
			zap.String("signal", signal),
			zap.String("message_preview", preview(message)))
		tr.LogDecision("Negative signal detected", "User expressed dissatisfaction",
			zap.Int("count", meta.NegativeSignals))
	}

	var err error
	switch intent {
	case IntentResolveKB:
		response, err = o.resolveViaKB(ctx, meta, message, tr, userID)
	case IntentCreateTicket:
		escalationContext := ""
		if meta.KBAttempted && dissatisfied {
			escalationContext = "Knowledge base solution was attempted but unsuccessful"
		}
		response, err = o.escalate(ctx, meta, message, tr, userID, escalationContext)
	case IntentCheckStatus:
		response, err = o.checkStatus(ctx, tr, userID)
	default:
		response = "I'm not sure how to help with that. Could you rephrase?"
	}
	if err != nil {
		o.logger.Error("orchestrator_error",
			zap.Error(err),
			zap.String("trace_id", tr.ID),
			zap.String("intent", string(intent)))
		return apologyResponse
	}

	level, outcome := 1, "L1_ATTEMPTED"
	if meta.Escalated {
		level, outcome = 2, "L2_ESCALATED"
	}
	o.metrics.RecordResolution(level, meta.NegativeSignals > 0)
	tr.Finalize(outcome, level)

	return response
}

// resolveViaKB tries L1 resolution and falls through to ticket creation on a
// knowledge base miss.
func (o *Orchestrator) resolveViaKB(ctx context.Context, meta *session.Metadata, message string, tr *trace.Trace, userID string) (string, error) {
	tr.LogDecision("Delegate to Knowledge Agent", "Attempting L1 resolution")
	tr.LogAgent("knowledge")

	result, err := o.knowledge.Resolve(ctx, message, tr.ID)
	meta.MarkKBAttempted()
	if err != nil {
		return "", err
	}

	if result.Found {
		tr.LogDecision("L1 Resolution Successful",
			fmt.Sprintf("KB article: %d", result.ArticleID))
		return result.Response, nil
	}

	tr.LogDecision("Auto-escalate to L2", "No KB solution found")
	return o.escalate(ctx, meta, message, tr, userID, "Knowledge base has no matching solution")
}

func (o *Orchestrator) escalate(ctx context.Context, meta *session.Metadata, message string, tr *trace.Trace, userID, escalationContext string) (string, error) {
	tr.LogDecision("Delegate to Creation Agent", "Escalating to L2")
	tr.LogAgent("creation")

	// File the original problem, not the complaint that triggered escalation.
	meta.SetCurrentProblem(message)

	result, err := o.creation.CreateTicket(ctx, userID, meta.CurrentProblem, tr.ID, escalationContext)
	if err != nil {
		return "", err
	}

	if result.Created {
		meta.MarkEscalated()
		tr.LogDecision("L2 Escalation Complete",
			fmt.Sprintf("Ticket: %s", result.TicketID))
	}
	return result.Response, nil
}

func (o *Orchestrator) checkStatus(ctx context.Context, tr *trace.Trace, userID string) (string, error) {
	tr.LogDecision("Delegate to Query Agent", "User requesting ticket status")
	tr.LogAgent("query")

	result, err := o.query.QueryTickets(ctx, userID, tr.ID)
	if err != nil {
		return "", err
	}
	return result.Response, nil
}
