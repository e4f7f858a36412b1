// Package trace threads a correlation id through one conversational turn and
// records the agent flow and decision points for that turn.
package trace

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Trace struct {
	ID        string
	UserID    string
	StartedAt time.Time

	agentFlow []string
	decisions int
	logger    *zap.Logger
}

// New creates a trace with a fresh correlation id.
func New(logger *zap.Logger, userID string) *Trace {
	t := &Trace{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: time.Now(),
		logger:    logger,
	}
	t.logger.Info("trace_created",
		zap.String("trace_id", t.ID),
		zap.String("user_id", userID))
	return t
}

// LogAgent records that an agent was invoked for this turn.
func (t *Trace) LogAgent(name string) {
	t.agentFlow = append(t.agentFlow, name)
	t.logger.Info("agent_invoked",
		zap.String("trace_id", t.ID),
		zap.String("agent", name),
		zap.Int("flow_position", len(t.agentFlow)))
}

// LogDecision records a routing or escalation decision with its reason.
func (t *Trace) LogDecision(decision, reason string, fields ...zap.Field) {
	t.decisions++
	all := append([]zap.Field{
		zap.String("trace_id", t.ID),
		zap.String("decision", decision),
		zap.String("reason", reason),
	}, fields...)
	t.logger.Info("decision_made", all...)
}

// Finalize closes the trace with the turn outcome and resolution level.
func (t *Trace) Finalize(outcome string, resolutionLevel int) {
	t.logger.Info("trace_completed",
		zap.String("trace_id", t.ID),
		zap.String("outcome", outcome),
		zap.Int("resolution_level", resolutionLevel),
		zap.Duration("response_time", time.Since(t.StartedAt)),
		zap.Strings("agent_flow", t.agentFlow),
		zap.Int("decision_count", t.decisions))
}

// AgentFlow returns the agents invoked so far, in order.
func (t *Trace) AgentFlow() []string {
	return t.agentFlow
}
