// Package tickets is the relational ticket store: CRUD plus role-based access
// control. RBAC is enforced inside each store operation so no caller can
// pre-filter its way around it.
package tickets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is a ticket identifier. It carries the numeric storage value and its
// user-facing rendering; nothing in the system parses ticket numbers back out
// of display strings.
type ID int64

// String renders the identifier the way users see it.
func (id ID) String() string {
	return fmt.Sprintf("TICKET-%04d", int64(id))
}

// ParseID accepts "TICKET-0042", "TICKET-42", or a bare number.
func ParseID(s string) (ID, error) {
	trimmed := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "TICKET-")
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid ticket id %q", s)
	}
	return ID(n), nil
}

type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusClosed     Status = "Closed"
)

// Statuses lists the canonical status values in workflow order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed}

// ParseStatus normalizes any casing of a canonical status name. The error
// message names the accepted set so it can be surfaced to the user verbatim.
func ParseStatus(s string) (Status, error) {
	for _, valid := range Statuses {
		if strings.EqualFold(s, string(valid)) {
			return valid, nil
		}
	}
	names := make([]string, len(Statuses))
	for i, v := range Statuses {
		names[i] = string(v)
	}
	return "", &ValidationError{
		Reason: fmt.Sprintf("Invalid status %q. Allowed statuses are: %s.", s, strings.Join(names, ", ")),
	}
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

// ParsePriority normalizes a priority name. An empty string resolves to the
// default, Normal.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityNormal, nil
	}
	for _, valid := range []Priority{PriorityLow, PriorityNormal, PriorityHigh} {
		if strings.EqualFold(s, string(valid)) {
			return valid, nil
		}
	}
	return "", &ValidationError{
		Reason: fmt.Sprintf("Invalid priority %q. Allowed priorities are: Low, Normal, High.", s),
	}
}

type Ticket struct {
	ID          ID        `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrNotFound reports a ticket id miss. An expected outcome, not a failure.
var ErrNotFound = errors.New("ticket not found")

// PermissionError reports an RBAC violation. Its message is surfaced to the
// user verbatim and must never be downgraded to a generic error.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string { return e.Reason }

// ValidationError reports rejected input; the message names the accepted
// values so the user can correct the request.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// IsPermission reports whether err is an RBAC violation.
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
