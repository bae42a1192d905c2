package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"

	"siar/internal/auth"
	"siar/internal/models"
	"siar/internal/portal"

	"github.com/go-chi/chi/v5"
)

const maxJSONBody = 1 << 20

// actor builds the service caller from the claims the guard attached.
func actor(r *http.Request) portal.Actor {
	c, _ := auth.FromContext(r.Context())
	return portal.Actor{ID: c.UserID, Role: models.Role(c.Role), IP: ClientIP(r)}
}

// ClientIP reads RemoteAddr, which middleware.RealIP has already rewritten.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &portal.ValidationError{Field: "body", Message: "Request body kosong"}
		}
		return &portal.ValidationError{Field: "body", Message: "Request body tidak valid"}
	}
	return nil
}

func idParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, &portal.ValidationError{Field: name, Message: "ID tidak valid"}
	}
	return uint(n), nil
}
