package tickets_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supportpilot/supportpilot/pkg/db"
	"github.com/supportpilot/supportpilot/pkg/identity"
	"github.com/supportpilot/supportpilot/pkg/tickets"
)

var (
	alice = identity.User{ID: "alice", Role: identity.RoleEndUser}
	bob   = identity.User{ID: "bob", Role: identity.RoleEndUser}
	agent = identity.User{ID: "desk_1", Role: identity.RoleServiceDesk}
)

func newStore(t *testing.T) *tickets.Store {
	t.Helper()
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "tickets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(sqlDB))
	return tickets.NewStore(sqlDB, zap.NewNop())
}

func TestCreateAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "alice", "VPN keeps dropping", tickets.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, tickets.ID(1), id)

	got, err := s.GetByID(ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.OwnerID)
	assert.Equal(t, "VPN keeps dropping", got.Description)
	assert.Equal(t, tickets.PriorityHigh, got.Priority)
	assert.Equal(t, tickets.StatusOpen, got.Status)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestCreateDefaultsPriority(t *testing.T) {
	s := newStore(t)

	id, err := s.Create(context.Background(), "alice", "monitor flickers", "")
	require.NoError(t, err)

	got, err := s.GetByID(context.Background(), id, alice)
	require.NoError(t, err)
	assert.Equal(t, tickets.PriorityNormal, got.Priority)
}

func TestCreateRejectsEmptyDescription(t *testing.T) {
	s := newStore(t)

	_, err := s.Create(context.Background(), "alice", "   ", tickets.PriorityNormal)
	require.Error(t, err)
	assert.True(t, tickets.IsValidation(err))
}

func TestGetByIDNotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.GetByID(context.Background(), 99, alice)
	assert.ErrorIs(t, err, tickets.ErrNotFound)
}

func TestGetByIDOwnershipEnforced(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "alice", "VPN keeps dropping", tickets.PriorityNormal)
	require.NoError(t, err)

	_, err = s.GetByID(ctx, id, bob)
	require.Error(t, err)
	assert.True(t, tickets.IsPermission(err))
	assert.Contains(t, err.Error(), "only view your own tickets")

	// Service desk reads anything.
	got, err := s.GetByID(ctx, id, agent)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.OwnerID)
}

func TestListScopedByRole(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "alice", "first", tickets.PriorityNormal)
	require.NoError(t, err)
	_, err = s.Create(ctx, "bob", "second", tickets.PriorityNormal)
	require.NoError(t, err)
	_, err = s.Create(ctx, "alice", "third", tickets.PriorityNormal)
	require.NoError(t, err)

	mine, err := s.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// Newest first.
	assert.Equal(t, "third", mine[0].Description)
	assert.Equal(t, "first", mine[1].Description)

	all, err := s.List(ctx, agent)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListEmpty(t *testing.T) {
	s := newStore(t)

	got, err := s.List(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpdateStatus(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "alice", "VPN keeps dropping", tickets.PriorityNormal)
	require.NoError(t, err)

	updated, err := s.UpdateStatus(ctx, id, "in progress", agent)
	require.NoError(t, err)
	assert.Equal(t, tickets.StatusInProgress, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
}

func TestUpdateStatusRequiresServiceDesk(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "alice", "VPN keeps dropping", tickets.PriorityNormal)
	require.NoError(t, err)

	// Even the owner cannot change status.
	_, err = s.UpdateStatus(ctx, id, "Closed", alice)
	require.Error(t, err)
	assert.True(t, tickets.IsPermission(err))
	assert.Contains(t, err.Error(), "Only service desk agents can modify tickets")

	got, err := s.GetByID(ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, tickets.StatusOpen, got.Status)
}

func TestUpdateStatusValidatesValue(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "alice", "VPN keeps dropping", tickets.PriorityNormal)
	require.NoError(t, err)

	_, err = s.UpdateStatus(ctx, id, "Resolved", agent)
	require.Error(t, err)
	assert.True(t, tickets.IsValidation(err))
}

func TestUpdateStatusNotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.UpdateStatus(context.Background(), 404, "Closed", agent)
	assert.ErrorIs(t, err, tickets.ErrNotFound)
}
