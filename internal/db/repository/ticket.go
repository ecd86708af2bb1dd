package repository

import (
	"context"
	"database/sql"

	internaldb "icare/internal/db"
	"icare/internal/domain"
)

const ticketSelect = `SELECT t.id, t.owner_id, COALESCE(u.name, ''), t.subject, t.description,
	t.status, t.priority, t.created_at, t.updated_at
	FROM tickets t LEFT JOIN users u ON u.id = t.owner_id`

// TicketRepo stores support tickets and their response threads.
type TicketRepo struct {
	pool *internaldb.Pool
}

func NewTicketRepo(pool *internaldb.Pool) *TicketRepo {
	return &TicketRepo{pool: pool}
}

func scanTicket(s scanner) (domain.Ticket, error) {
	var t domain.Ticket
	err := s.Scan(&t.ID, &t.OwnerID, &t.OwnerName, &t.Subject, &t.Description,
		&t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *TicketRepo) Create(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	id := domain.NewID()
	ts := now()
	status := t.Status
	if status == "" {
		status = domain.TicketOpen
	}
	_, err := r.pool.Write.ExecContext(ctx,
		`INSERT INTO tickets (id, owner_id, subject, description, status, priority, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.OwnerID, t.Subject, t.Description, status, t.Priority, ts, ts)
	if err != nil {
		return nil, mapDBError(err, "Ticket")
	}
	return r.get(ctx, r.pool.Write, id)
}

func (r *TicketRepo) get(ctx context.Context, db *sql.DB, id string) (*domain.Ticket, error) {
	t, err := scanTicket(db.QueryRowContext(ctx, ticketSelect+` WHERE t.id = ?`, id))
	if err != nil {
		return nil, mapDBError(err, "Ticket")
	}
	t.Responses, err = r.responses(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepo) responses(ctx context.Context, db *sql.DB, ticketID string) ([]domain.TicketResponse, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, ticket_id, responder, message, created_at FROM ticket_responses
		 WHERE ticket_id = ? ORDER BY id`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.TicketResponse, 0)
	for rows.Next() {
		var tr domain.TicketResponse
		if err := rows.Scan(&tr.ID, &tr.TicketID, &tr.Responder, &tr.Message, &tr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

func (r *TicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.get(ctx, r.pool.Read, id)
}

func (r *TicketRepo) List(ctx context.Context, scope domain.Scope, page domain.PageRequest) ([]domain.Ticket, int64, error) {
	where, args := scopeClause(scope, "t.owner_id")
	tickets, total, err := listPage(ctx, r.pool.Read,
		`SELECT COUNT(*) FROM tickets t`+where,
		ticketSelect+where+` ORDER BY t.id DESC LIMIT ? OFFSET ?`,
		args, page, scanTicket)
	if err != nil {
		return nil, 0, err
	}
	for i := range tickets {
		if tickets[i].Responses, err = r.responses(ctx, r.pool.Read, tickets[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return tickets, total, nil
}

func (r *TicketRepo) Update(ctx context.Context, t *domain.Ticket) (*domain.Ticket, error) {
	res, err := r.pool.Write.ExecContext(ctx,
		`UPDATE tickets SET subject = ?, description = ?, status = ?, priority = ?, updated_at = ? WHERE id = ?`,
		t.Subject, t.Description, t.Status, t.Priority, now(), t.ID)
	if err != nil {
		return nil, mapDBError(err, "Ticket")
	}
	if err := checkUpdated(res, "Ticket"); err != nil {
		return nil, err
	}
	return r.get(ctx, r.pool.Write, t.ID)
}

func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.pool.Write, "tickets", id, "Ticket")
}

// AddResponse appends a message to a ticket thread and bumps the ticket's
// updated_at.
func (r *TicketRepo) AddResponse(ctx context.Context, tr *domain.TicketResponse) (*domain.TicketResponse, error) {
	out := *tr
	out.ID = domain.NewID()
	out.CreatedAt = now()

	tx, err := r.pool.Write.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `UPDATE tickets SET updated_at = ? WHERE id = ?`, out.CreatedAt, out.TicketID)
	if err != nil {
		return nil, err
	}
	if err := checkUpdated(res, "Ticket"); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ticket_responses (id, ticket_id, responder, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		out.ID, out.TicketID, out.Responder, out.Message, out.CreatedAt); err != nil {
		return nil, mapDBError(err, "Ticket response")
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &out, nil
}
