package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store holds one active Metadata record per user. It is created at process
// start and injected into the orchestrator; there is no package-level state.
type Store struct {
	mu     sync.RWMutex
	byUser map[string]*Metadata
	logger *zap.Logger
}

func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		byUser: make(map[string]*Metadata),
		logger: logger,
	}
}

// GetOrCreate returns the user's metadata, lazily creating it on the first
// message with a fresh conversation trace id.
func (s *Store) GetOrCreate(userID string) *Metadata {
	s.mu.RLock()
	m, ok := s.byUser[userID]
	s.mu.RUnlock()
	if ok {
		return m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.byUser[userID]; ok {
		return m
	}
	m = newMetadata(uuid.NewString())
	s.byUser[userID] = m
	s.logger.Info("session_metadata_created",
		zap.String("user_id", userID),
		zap.String("trace_id", m.TraceID))
	return m
}

// Get returns the user's metadata without creating it.
func (s *Store) Get(userID string) (*Metadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byUser[userID]
	return m, ok
}

// Reset drops one user's conversation state. The next message starts a fresh
// conversation with a new trace id.
func (s *Store) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUser[userID]; ok {
		delete(s.byUser, userID)
		s.logger.Info("session_metadata_reset", zap.String("user_id", userID))
	}
}

// Len reports the number of active conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUser)
}
