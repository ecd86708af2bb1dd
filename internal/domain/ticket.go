package domain

import (
	"strings"
	"time"
)

// Ticket statuses.
const (
	TicketOpen       = "Open"
	TicketInProgress = "In Progress"
	TicketClosed     = "Closed"
)

// Ticket priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Ticket is a support request owned by the user who raised it.
type Ticket struct {
	ID          string
	OwnerID     string
	OwnerName   string // filled on read
	Subject     string
	Description string
	Status      string
	Priority    string
	Responses   []TicketResponse
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Ticket) ResourceID() string    { return t.ID }
func (t *Ticket) ResourceOwner() string { return t.OwnerID }

// TicketResponse is a message appended to a ticket thread.
type TicketResponse struct {
	ID        string
	TicketID  string
	Responder string
	Message   string
	CreatedAt time.Time
}

// TicketInput holds fields for raising a ticket.
type TicketInput struct {
	Subject     string
	Description string
	Priority    string
}

// Validate checks the request and applies the default priority.
func (r *TicketInput) Validate() error {
	if err := requireAll("subject", r.Subject, "description", r.Description); err != nil {
		return err
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	return oneOf("priority", r.Priority, PriorityLow, PriorityMedium, PriorityHigh)
}

// TicketUpdate is a partial update; nil fields are left unchanged.
type TicketUpdate struct {
	Subject     *string
	Description *string
	Priority    *string
	Status      *string
}

// Apply applies non-nil fields to t and re-validates the result.
func (r *TicketUpdate) Apply(t *Ticket) error {
	setString(&t.Subject, r.Subject)
	setString(&t.Description, r.Description)
	setString(&t.Priority, r.Priority)
	setString(&t.Status, r.Status)
	if err := requireAll("subject", t.Subject, "description", t.Description); err != nil {
		return err
	}
	if err := oneOf("priority", t.Priority, PriorityLow, PriorityMedium, PriorityHigh); err != nil {
		return err
	}
	return oneOf("status", t.Status, TicketOpen, TicketInProgress, TicketClosed)
}

// ValidateResponseMessage checks a ticket response body.
func ValidateResponseMessage(msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", ErrValidation("message is required")
	}
	return msg, nil
}
