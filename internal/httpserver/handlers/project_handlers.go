package handlers

import (
	"net/http"

	"siar/internal/portal"

	"go.uber.org/zap"
)

func ListProjects(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListProjects(r.Context(), actor(r))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, items)
	}
}

func GetProject(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		item, err := svc.GetProject(r.Context(), actor(r), id)
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, item)
	}
}

func CreateProject(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req portal.ProjectInput
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, lg, err)
			return
		}
		item, err := svc.CreateProject(r.Context(), actor(r), req)
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, item)
	}
}

func UpdateProject(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		var req portal.ProjectUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, lg, err)
			return
		}
		item, err := svc.UpdateProject(r.Context(), actor(r), id, req)
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, item)
	}
}

func DeleteProject(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		if err := svc.DeleteProject(r.Context(), actor(r), id); err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, map[string]any{"success": true})
	}
}
