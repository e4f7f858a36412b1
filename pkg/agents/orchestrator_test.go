package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supportpilot/supportpilot/pkg/metrics"
	"github.com/supportpilot/supportpilot/pkg/session"
)

type fakeResolver struct {
	result *KnowledgeResult
	err    error
	calls  int
}

func (f *fakeResolver) Resolve(ctx context.Context, problem, traceID string) (*KnowledgeResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeCreator struct {
	result      *CreationResult
	err         error
	calls       int
	lastProblem string
	lastContext string
}

func (f *fakeCreator) CreateTicket(ctx context.Context, userID, problem, traceID, escalationContext string) (*CreationResult, error) {
	f.calls++
	f.lastProblem = problem
	f.lastContext = escalationContext
	return f.result, f.err
}

type fakeQuerier struct {
	result *QueryResult
	err    error
	calls  int
}

func (f *fakeQuerier) QueryTickets(ctx context.Context, userID, traceID string) (*QueryResult, error) {
	f.calls++
	return f.result, f.err
}

type orchestratorFixture struct {
	orch      *Orchestrator
	resolver  *fakeResolver
	creator   *fakeCreator
	querier   *fakeQuerier
	sessions  *session.Store
	collector *metrics.Collector
}

func newFixture() *orchestratorFixture {
	f := &orchestratorFixture{
		resolver:  &fakeResolver{result: &KnowledgeResult{Found: true, Response: "Restart the router.", ArticleID: 101}},
		creator:   &fakeCreator{result: &CreationResult{Created: true, TicketID: 7, Response: "Ticket TICKET-0007 created."}},
		querier:   &fakeQuerier{result: &QueryResult{Count: 1, Response: "You have 1 ticket(s)."}},
		sessions:  session.NewStore(zap.NewNop()),
		collector: metrics.NewCollector(),
	}
	f.orch = NewOrchestrator(f.resolver, f.creator, f.querier, f.sessions, f.collector, zap.NewNop())
	return f
}

func TestProcessMessageResolvesViaKnowledgeBase(t *testing.T) {
	f := newFixture()

	resp := f.orch.ProcessMessage(context.Background(), "alice", "my vpn is not connecting")

	assert.Equal(t, "Restart the router.", resp)
	assert.Equal(t, 1, f.resolver.calls)
	assert.Zero(t, f.creator.calls)

	meta, ok := f.sessions.Get("alice")
	require.True(t, ok)
	assert.True(t, meta.KBAttempted)
	assert.False(t, meta.Escalated)

	snap := f.collector.Snapshot()
	assert.Equal(t, 1, snap.TotalRequests)
	assert.Equal(t, 1, snap.L1Resolutions)
	assert.Zero(t, snap.L2Escalations)
}

func TestProcessMessageAutoEscalatesOnKBMiss(t *testing.T) {
	f := newFixture()
	f.resolver.result = &KnowledgeResult{Found: false, Response: "KB_NOT_FOUND"}

	resp := f.orch.ProcessMessage(context.Background(), "alice", "my quantum flux capacitor exploded")

	assert.Equal(t, "Ticket TICKET-0007 created.", resp)
	assert.Equal(t, 1, f.resolver.calls)
	assert.Equal(t, 1, f.creator.calls)
	assert.Equal(t, "Knowledge base has no matching solution", f.creator.lastContext)

	meta, _ := f.sessions.Get("alice")
	assert.True(t, meta.KBAttempted)
	assert.True(t, meta.Escalated)

	snap := f.collector.Snapshot()
	assert.Equal(t, 1, snap.L2Escalations)
}

func TestProcessMessageEscalatesOnDissatisfaction(t *testing.T) {
	f := newFixture()

	// First turn: KB answers.
	f.orch.ProcessMessage(context.Background(), "alice", "my vpn is not connecting")
	// Second turn: the solution did not help.
	resp := f.orch.ProcessMessage(context.Background(), "alice", "that didn't work, still broken")

	assert.Equal(t, "Ticket TICKET-0007 created.", resp)
	assert.Equal(t, 1, f.resolver.calls)
	assert.Equal(t, 1, f.creator.calls)
	assert.Equal(t, "Knowledge base solution was attempted but unsuccessful", f.creator.lastContext)

	meta, _ := f.sessions.Get("alice")
	assert.True(t, meta.Escalated)
	assert.Equal(t, 1, meta.NegativeSignals)

	snap := f.collector.Snapshot()
	assert.Equal(t, 2, snap.TotalRequests)
	assert.Equal(t, 1, snap.L1Resolutions)
	assert.Equal(t, 1, snap.L2Escalations)
	assert.Equal(t, 1, snap.NegativeSignals)
}

func TestProcessMessageExplicitTicketRequest(t *testing.T) {
	f := newFixture()

	resp := f.orch.ProcessMessage(context.Background(), "bob", "please create ticket for my broken monitor")

	assert.Equal(t, "Ticket TICKET-0007 created.", resp)
	assert.Zero(t, f.resolver.calls)
	assert.Equal(t, 1, f.creator.calls)
	// Direct request carries no escalation context.
	assert.Empty(t, f.creator.lastContext)
}

func TestProcessMessageStatusQuery(t *testing.T) {
	f := newFixture()

	resp := f.orch.ProcessMessage(context.Background(), "bob", "what are my tickets?")

	assert.Equal(t, "You have 1 ticket(s).", resp)
	assert.Equal(t, 1, f.querier.calls)
	assert.Zero(t, f.resolver.calls)
	assert.Zero(t, f.creator.calls)
}

func TestProcessMessageCollaboratorFailureApologizes(t *testing.T) {
	f := newFixture()
	f.resolver.result = nil
	f.resolver.err = errors.New("model unavailable")

	resp := f.orch.ProcessMessage(context.Background(), "alice", "my vpn is not connecting")

	assert.Equal(t, apologyResponse, resp)
	// A failed turn is not counted as resolved.
	assert.Zero(t, f.collector.Snapshot().TotalRequests)
}

func TestProcessMessageCurrentProblemSetOnce(t *testing.T) {
	f := newFixture()
	f.creator.err = errors.New("db down")
	f.creator.result = nil

	f.orch.ProcessMessage(context.Background(), "alice", "create ticket for vpn issue")
	meta, _ := f.sessions.Get("alice")
	assert.Equal(t, "create ticket for vpn issue", meta.CurrentProblem)

	f.creator.err = nil
	f.creator.result = &CreationResult{Created: true, TicketID: 9, Response: "done"}
	f.orch.ProcessMessage(context.Background(), "alice", "escalate it now")

	// Retry files the original problem text.
	assert.Equal(t, "create ticket for vpn issue", f.creator.lastProblem)
}

func TestProcessMessageSeparateUsersSeparateSessions(t *testing.T) {
	f := newFixture()

	f.orch.ProcessMessage(context.Background(), "alice", "my vpn is not connecting")
	f.orch.ProcessMessage(context.Background(), "bob", "that didn't work")

	// Bob never tried the KB, so his complaint routes to the KB, not a ticket.
	assert.Equal(t, 2, f.resolver.calls)
	assert.Zero(t, f.creator.calls)

	aliceMeta, _ := f.sessions.Get("alice")
	bobMeta, _ := f.sessions.Get("bob")
	assert.Zero(t, aliceMeta.NegativeSignals)
	assert.Equal(t, 1, bobMeta.NegativeSignals)
}
