package handlers

import (
	"net/http"

	"siar/internal/portal"

	"go.uber.org/zap"
)

func ListNotifications(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ns, err := svc.ListNotifications(r.Context(), actor(r))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, ns)
	}
}

func MarkNotificationRead(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		n, err := svc.MarkNotificationRead(r.Context(), actor(r), id)
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, n)
	}
}

func MarkAllNotificationsRead(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.MarkAllNotificationsRead(r.Context(), actor(r))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, map[string]any{"success": true, "updated": n})
	}
}
