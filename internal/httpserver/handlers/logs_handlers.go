package handlers

import (
	"net/http"

	"siar/internal/portal"

	"go.uber.org/zap"
)

// ListLogs returns the latest audit entries; ?type= narrows to one log type.
func ListLogs(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := svc.ListLogs(r.Context(), actor(r), r.URL.Query().Get("type"))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, logs)
	}
}

func DashboardStats(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.DashboardStats(r.Context(), actor(r))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, st)
	}
}
