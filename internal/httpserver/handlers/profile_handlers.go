package handlers

import (
	"net/http"

	"siar/internal/portal"

	"go.uber.org/zap"
)

func GetProfile(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Profile(r.Context(), actor(r))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, u)
	}
}

func UpdateProfile(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req portal.ProfileUpdate
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, lg, err)
			return
		}
		u, err := svc.UpdateProfile(r.Context(), actor(r), req)
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, u)
	}
}

func ChangePassword(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req portal.PasswordChange
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, lg, err)
			return
		}
		if err := svc.ChangePassword(r.Context(), actor(r), req); err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, map[string]any{"success": true})
	}
}
