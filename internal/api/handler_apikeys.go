package api

import (
	"net/http"
	"time"

	"icare/internal/domain"
)

type apiKeyDTO struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Name      string     `json:"name"`
	KeyPrefix string     `json:"key_prefix"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func apiKeyToAPI(k *domain.APIKey) apiKeyDTO {
	return apiKeyDTO{
		ID:        k.ID,
		OwnerID:   k.OwnerID,
		Name:      k.Name,
		KeyPrefix: k.KeyPrefix,
		ExpiresAt: k.ExpiresAt,
		CreatedAt: k.CreatedAt,
	}
}

type createAPIKeyBody struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// CreateAPIKey implements POST /api-keys. The raw key appears only in this
// response.
func (h *APIHandler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var body createAPIKeyBody
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	raw, key, err := h.svc.APIKeys.Create(r.Context(), domain.CreateAPIKeyRequest{
		Name: body.Name, ExpiresAt: body.ExpiresAt,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "API Key Created",
		"key":     raw,
		"api_key": apiKeyToAPI(key),
	})
}

// ListAPIKeys implements GET /api-keys. Administrators may pass all=true to
// see every key.
func (h *APIHandler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	mine := r.URL.Query().Get("all") != "true"
	keys, total, err := h.svc.APIKeys.List(r.Context(), mine, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeList(w, "api_keys", mapSlice(keys, apiKeyToAPI), page, total)
}

// DeleteAPIKey implements DELETE /api-keys/{id}.
func (h *APIHandler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.APIKeys.Delete(r.Context(), idParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, "API Key Deleted")
}

// CleanupAPIKeys implements POST /api-keys/cleanup.
func (h *APIHandler) CleanupAPIKeys(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.APIKeys.CleanupExpired(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Expired API Keys Deleted", "deleted": n})
}
