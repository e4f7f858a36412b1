package tickets

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/supportpilot/supportpilot/pkg/identity"
)

// timeLayout is how timestamps are stored in SQLite. RFC3339 sorts
// lexicographically, so ORDER BY created_at stays chronological.
const timeLayout = time.RFC3339Nano

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewStore(sqlDB *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: sqlDB, logger: logger}
}

// Create inserts a new ticket owned by ownerID. Priority defaults to Normal
// when empty; status always starts Open.
func (s *Store) Create(ctx context.Context, ownerID, description string, priority Priority) (ID, error) {
	if strings.TrimSpace(description) == "" {
		return 0, &ValidationError{Reason: "Ticket description must not be empty."}
	}
	if priority == "" {
		priority = PriorityNormal
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tickets (owner_id, description, priority, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ownerID, description, string(priority), string(StatusOpen),
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("inserting ticket: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading new ticket id: %w", err)
	}

	id := ID(rowID)
	s.logger.Info("ticket_created",
		zap.String("ticket_id", id.String()),
		zap.String("owner_id", ownerID),
		zap.String("priority", string(priority)))
	return id, nil
}

// GetByID returns one ticket. End users may only read their own tickets;
// the service desk role may read any ticket.
func (s *Store) GetByID(ctx context.Context, id ID, requester identity.User) (*Ticket, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, description, priority, status, created_at, updated_at
		FROM tickets WHERE id = ?`, int64(id))

	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying ticket %s: %w", id, err)
	}

	if !requester.Role.Privileged() && t.OwnerID != requester.ID {
		s.logger.Warn("ticket_access_denied",
			zap.String("ticket_id", id.String()),
			zap.String("requester", requester.ID),
			zap.String("owner", t.OwnerID))
		return nil, &PermissionError{
			Reason: "You do not have permission to view this ticket. You can only view your own tickets.",
		}
	}
	return t, nil
}

// List returns tickets newest first. End users see only their own tickets;
// the service desk role sees every ticket.
func (s *Store) List(ctx context.Context, requester identity.User) ([]Ticket, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if requester.Role.Privileged() {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, owner_id, description, priority, status, created_at, updated_at
			FROM tickets ORDER BY created_at DESC, id DESC`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, owner_id, description, priority, status, created_at, updated_at
			FROM tickets WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
			requester.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	defer rows.Close()

	var out []Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ticket row: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tickets: %w", err)
	}
	return out, nil
}

// UpdateStatus transitions a ticket to newStatus. Only the service desk role
// may perform this; any casing of a canonical status is accepted. The
// transition itself is unconstrained. updated_at is always refreshed.
func (s *Store) UpdateStatus(ctx context.Context, id ID, newStatus string, requester identity.User) (*Ticket, error) {
	if !requester.Role.Privileged() {
		s.logger.Warn("ticket_update_denied",
			zap.String("ticket_id", id.String()),
			zap.String("requester", requester.ID),
			zap.String("role", string(requester.Role)))
		return nil, &PermissionError{
			Reason: "You do not have permission to update ticket status. Only service desk agents can modify tickets.",
		}
	}

	status, err := ParseStatus(newStatus)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE tickets SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now.Format(timeLayout), int64(id))
	if err != nil {
		return nil, fmt.Errorf("updating ticket %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking ticket update %s: %w", id, err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	s.logger.Info("ticket_status_updated",
		zap.String("ticket_id", id.String()),
		zap.String("new_status", string(status)),
		zap.String("updated_by", requester.ID))
	return s.GetByID(ctx, id, requester)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*Ticket, error) {
	var (
		t                  Ticket
		priority, status   string
		createdAt, updated string
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Description, &priority, &status, &createdAt, &updated); err != nil {
		return nil, err
	}
	t.Priority = Priority(priority)
	t.Status = Status(status)

	var err error
	if t.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	if t.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at %q: %w", updated, err)
	}
	return &t, nil
}
