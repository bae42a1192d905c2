package handlers

import (
	"net/http"

	"siar/internal/portal"

	"go.uber.org/zap"
)

func ListEvents(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListEvents(r.Context(), actor(r))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, events)
	}
}

func CreateEvent(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req portal.EventInput
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, lg, err)
			return
		}
		ev, err := svc.CreateEvent(r.Context(), actor(r), req)
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, ev)
	}
}

func DeleteEvent(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		if err := svc.DeleteEvent(r.Context(), actor(r), id); err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, map[string]any{"success": true})
	}
}
