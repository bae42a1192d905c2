package handlers

import (
	"net/http"

	"siar/internal/portal"

	"go.uber.org/zap"
)

func ListMaintenance(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issues, err := svc.ListMaintenance(r.Context(), actor(r))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, issues)
	}
}

func GetMaintenance(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		issue, err := svc.GetMaintenance(r.Context(), actor(r), id)
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, issue)
	}
}

func CreateMaintenance(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req portal.MaintenanceInput
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, lg, err)
			return
		}
		issue, err := svc.CreateMaintenance(r.Context(), actor(r), req)
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, issue)
	}
}

func UpdateMaintenance(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		var req portal.MaintenanceUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, lg, err)
			return
		}
		issue, err := svc.UpdateMaintenance(r.Context(), actor(r), id, req)
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, issue)
	}
}

func DeleteMaintenance(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		if err := svc.DeleteMaintenance(r.Context(), actor(r), id); err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, map[string]any{"success": true})
	}
}
