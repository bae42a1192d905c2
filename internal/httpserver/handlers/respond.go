package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"siar/internal/portal"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, v interface{}) {
	respondStatus(w, http.StatusOK, v)
}

func respondStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondStatus(w, status, map[string]string{"error": msg})
}

// respondError maps service errors onto status codes. Unexpected errors are
// logged and reported with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, lg *zap.SugaredLogger, err error) {
	var (
		verr *portal.ValidationError
		cerr *portal.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		respondMessage(w, http.StatusBadRequest, verr.Message)
	case errors.As(err, &cerr):
		respondMessage(w, http.StatusConflict, cerr.Message)
	case errors.Is(err, portal.ErrValidation):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, portal.ErrUnauthorized):
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, portal.ErrForbidden):
		respondMessage(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, portal.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, portal.ErrConflict):
		respondMessage(w, http.StatusConflict, "Conflict")
	case errors.Is(err, portal.ErrTooLarge):
		respondMessage(w, http.StatusRequestEntityTooLarge, "File terlalu besar")
	default:
		lg.Errorw("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
