// Package session tracks per-conversation business state: whether the
// knowledge base was tried, whether the problem escalated to a ticket, and
// how often the user signalled dissatisfaction.
package session

import "time"

// Metadata is the per-user conversation state the orchestrator consults when
// routing. One record exists per active user conversation. Turns for a single
// user are processed sequentially, so mutators are not locked; the Store
// guards its map for cross-user concurrency.
type Metadata struct {
	TraceID         string    `json:"trace_id"`
	KBAttempted     bool      `json:"kb_attempted"`
	Escalated       bool      `json:"escalated"`
	CurrentProblem  string    `json:"current_problem"`
	LastIntent      string    `json:"last_intent"`
	NegativeSignals int       `json:"negative_signals_count"`
	CreatedAt       time.Time `json:"created_at"`
	LastUpdated     time.Time `json:"last_updated"`
}

func newMetadata(traceID string) *Metadata {
	now := time.Now()
	return &Metadata{
		TraceID:     traceID,
		CreatedAt:   now,
		LastUpdated: now,
	}
}

func (m *Metadata) touch() {
	m.LastUpdated = time.Now()
}

// MarkKBAttempted records that the knowledge agent has been invoked.
// Never reset within a conversation.
func (m *Metadata) MarkKBAttempted() {
	m.KBAttempted = true
	m.touch()
}

// MarkEscalated records that a ticket has been created for this problem.
func (m *Metadata) MarkEscalated() {
	m.Escalated = true
	m.touch()
}

// IncrementNegativeSignals bumps the dissatisfaction counter.
func (m *Metadata) IncrementNegativeSignals() {
	m.NegativeSignals++
	m.touch()
}

// SetCurrentProblem records the active problem. Set-once: later calls with a
// different text are no-ops so escalation always files the original problem.
func (m *Metadata) SetCurrentProblem(problem string) {
	if m.CurrentProblem != "" {
		return
	}
	m.CurrentProblem = problem
	m.touch()
}

// SetIntent records the most recent intent classification for audit.
func (m *Metadata) SetIntent(intent string) {
	m.LastIntent = intent
	m.touch()
}
