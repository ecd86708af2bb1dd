package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"icare/internal/domain"
)

// maxBodyBytes caps request bodies read by decodeJSON.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResource renders {"message": message, key: v}.
func writeResource(w http.ResponseWriter, status int, message, key string, v any) {
	writeJSON(w, status, map[string]any{"message": message, key: v})
}

func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// writeList renders {key: items, "next_page_token": ...}. The token is
// omitted on the last page.
func writeList[T any](w http.ResponseWriter, key string, items []T, page domain.PageRequest, total int64) {
	if items == nil {
		items = []T{}
	}
	body := map[string]any{key: items}
	if next := page.NextPageToken(total); next != "" {
		body["next_page_token"] = next
	}
	writeJSON(w, http.StatusOK, body)
}

// decodeJSON reads the request body into dst. A missing or malformed body is
// a ValidationError.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return domain.ErrValidation("request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ErrValidation("request body is required")
		}
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}

func pageFromRequest(r *http.Request) domain.PageRequest {
	q := r.URL.Query()
	return domain.ParsePageRequest(q.Get("max_results"), q.Get("page_token"))
}

func idParam(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func mapSlice[T, U any](in []T, fn func(*T) U) []U {
	out := make([]U, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}
