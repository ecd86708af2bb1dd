package api

import (
	"net/http"
	"time"

	"icare/internal/domain"
)

type ticketResponseDTO struct {
	ID        string    `json:"id"`
	Responder string    `json:"responder"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type ticketDTO struct {
	ID          string              `json:"id"`
	User        string              `json:"user"`
	UserName    string              `json:"user_name,omitempty"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	Priority    string              `json:"priority"`
	Responses   []ticketResponseDTO `json:"responses"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func ticketToAPI(t *domain.Ticket) ticketDTO {
	return ticketDTO{
		ID:          t.ID,
		User:        t.OwnerID,
		UserName:    t.OwnerName,
		Subject:     t.Subject,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Responses: mapSlice(t.Responses, func(r *domain.TicketResponse) ticketResponseDTO {
			return ticketResponseDTO{ID: r.ID, Responder: r.Responder, Message: r.Message, CreatedAt: r.CreatedAt}
		}),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type ticketBody struct {
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

type ticketResponseBody struct {
	Message string `json:"message"`
}

// ListTickets implements GET /tickets and GET /tickets/mine.
func (h *APIHandler) ListTickets(mine bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromRequest(r)
		items, total, err := h.svc.Tickets.List(r.Context(), mine, page)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeList(w, "tickets", mapSlice(items, ticketToAPI), page, total)
	}
}

// GetTicket implements GET /tickets/{id}.
func (h *APIHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Tickets.Get(r.Context(), idParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Ticket", "ticket", ticketToAPI(t))
}

// CreateTicket implements POST /tickets.
func (h *APIHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var body ticketBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.svc.Tickets.Create(r.Context(), domain.TicketInput{
		Subject: deref(body.Subject), Description: deref(body.Description), Priority: deref(body.Priority),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusCreated, "Ticket Created", "ticket", ticketToAPI(t))
}

// UpdateTicket implements PUT /tickets/{id}.
func (h *APIHandler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	var body ticketBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.svc.Tickets.Update(r.Context(), idParam(r), domain.TicketUpdate{
		Subject: body.Subject, Description: body.Description, Priority: body.Priority, Status: body.Status,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusOK, "Ticket Updated", "ticket", ticketToAPI(t))
}

// DeleteTicket implements DELETE /tickets/{id}.
func (h *APIHandler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tickets.Delete(r.Context(), idParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "Ticket Deleted")
}

// RespondTicket implements POST /tickets/{id}/responses.
func (h *APIHandler) RespondTicket(w http.ResponseWriter, r *http.Request) {
	var body ticketResponseBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.svc.Tickets.Respond(r.Context(), idParam(r), body.Message)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeResource(w, http.StatusCreated, "Response added.", "ticket", ticketToAPI(t))
}
