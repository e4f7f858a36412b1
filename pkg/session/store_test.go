package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetOrCreate(t *testing.T) {
	s := NewStore(zap.NewNop())

	m := s.GetOrCreate("alice")
	require.NotNil(t, m)
	assert.NotEmpty(t, m.TraceID)
	assert.False(t, m.KBAttempted)
	assert.False(t, m.Escalated)
	assert.Zero(t, m.NegativeSignals)

	// Same user gets the same record back.
	again := s.GetOrCreate("alice")
	assert.Same(t, m, again)
	assert.Equal(t, 1, s.Len())
}

func TestGetWithoutCreate(t *testing.T) {
	s := NewStore(zap.NewNop())

	_, ok := s.Get("nobody")
	assert.False(t, ok)

	s.GetOrCreate("alice")
	m, ok := s.Get("alice")
	assert.True(t, ok)
	assert.NotNil(t, m)
}

func TestResetStartsFreshConversation(t *testing.T) {
	s := NewStore(zap.NewNop())

	m := s.GetOrCreate("alice")
	m.MarkKBAttempted()
	m.MarkEscalated()

	s.Reset("alice")
	_, ok := s.Get("alice")
	assert.False(t, ok)

	fresh := s.GetOrCreate("alice")
	assert.NotSame(t, m, fresh)
	assert.False(t, fresh.KBAttempted)
	assert.NotEqual(t, m.TraceID, fresh.TraceID)
}

func TestResetUnknownUserIsNoop(t *testing.T) {
	s := NewStore(zap.NewNop())
	s.Reset("nobody")
	assert.Zero(t, s.Len())
}

func TestMetadataMutatorsTouchLastUpdated(t *testing.T) {
	m := newMetadata("trace-1")
	before := m.LastUpdated

	time.Sleep(time.Millisecond)
	m.MarkKBAttempted()
	assert.True(t, m.KBAttempted)
	assert.True(t, m.LastUpdated.After(before))

	before = m.LastUpdated
	time.Sleep(time.Millisecond)
	m.IncrementNegativeSignals()
	m.IncrementNegativeSignals()
	assert.Equal(t, 2, m.NegativeSignals)
	assert.True(t, m.LastUpdated.After(before))
}

func TestSetCurrentProblemIsSetOnce(t *testing.T) {
	m := newMetadata("trace-1")

	m.SetCurrentProblem("vpn is down")
	m.SetCurrentProblem("printer is jammed")

	assert.Equal(t, "vpn is down", m.CurrentProblem)
}

func TestSetIntentOverwrites(t *testing.T) {
	m := newMetadata("trace-1")

	m.SetIntent("resolve_via_knowledge_base")
	m.SetIntent("create_ticket")

	assert.Equal(t, "create_ticket", m.LastIntent)
}

func TestGetOrCreateConcurrent(t *testing.T) {
	s := NewStore(zap.NewNop())

	var wg sync.WaitGroup
	results := make([]*Metadata, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.GetOrCreate("alice")
		}(i)
	}
	wg.Wait()

	for _, m := range results[1:] {
		assert.Same(t, results[0], m)
	}
	assert.Equal(t, 1, s.Len())
}
