package api

import (
	"net/http"
	"time"

	"icare/internal/domain"
)

type auditEntryDTO struct {
	ID           string    `json:"id"`
	PrincipalID  string    `json:"principal_id"`
	Action       string    `json:"action"`
	ResourceKind string    `json:"resource_kind"`
	ResourceID   string    `json:"resource_id,omitempty"`
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func auditEntryToAPI(e *domain.AuditEntry) auditEntryDTO {
	return auditEntryDTO{
		ID:           e.ID,
		PrincipalID:  e.PrincipalID,
		Action:       e.Action,
		ResourceKind: e.ResourceKind,
		ResourceID:   e.ResourceID,
		Status:       e.Status,
		Message:      e.Message,
		CreatedAt:    e.CreatedAt,
	}
}

func queryParam(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

// ListAuditLogs implements GET /audit.
func (h *APIHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	filter := domain.AuditFilter{
		PrincipalID:  queryParam(r, "principal_id"),
		ResourceKind: queryParam(r, "resource_kind"),
		Status:       queryParam(r, "status"),
		Page:         pageFromRequest(r),
	}
	entries, total, err := h.svc.Audit.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, "entries", mapSlice(entries, auditEntryToAPI), filter.Page, total)
}
