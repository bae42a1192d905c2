package handlers

import (
	"net/http"
	"time"

	"siar/internal/auth"
	"siar/internal/models"
	"siar/internal/portal"

	"go.uber.org/zap"
)

// CookieConfig names the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

type sessionUser struct {
	ID      uint        `json:"id"`
	Email   string      `json:"email"`
	Name    string      `json:"name"`
	Role    models.Role `json:"role"`
	Divisi  string      `json:"divisi"`
	Cabang  string      `json:"cabang"`
	NomorID string      `json:"nomor_id"`
}

func newSessionUser(u *models.User) sessionUser {
	return sessionUser{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.NamaLengkap,
		Role:    u.Role,
		Divisi:  u.Divisi,
		Cabang:  u.Cabang,
		NomorID: u.NomorID,
	}
}

func Register(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req portal.RegisterInput
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, lg, err)
			return
		}
		u, err := svc.Register(r.Context(), req, ClientIP(r))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, map[string]any{
			"message": "Registrasi berhasil",
			"user": map[string]any{
				"id":           u.ID,
				"email":        u.Email,
				"nama_lengkap": u.NamaLengkap,
			},
		})
	}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(svc *portal.Service, sessions *auth.Sessions, cookie CookieConfig, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, lg, err)
			return
		}
		u, err := svc.Authenticate(r.Context(), req.Email, req.Password, ClientIP(r))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		iss, err := sessions.Issue(r.Context(), *u)
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		auth.SetSessionCookie(w, cookie.Name, iss, cookie.Secure)
		respondJSON(w, map[string]any{
			"user":    newSessionUser(u),
			"token":   iss.Token,
			"expires": iss.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}
}

func Logout(svc *portal.Service, sessions *auth.Sessions, cookie CookieConfig, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if raw := auth.TokenFromRequest(r, cookie.Name); raw != "" {
			if c, _, err := sessions.Resolve(r.Context(), raw); err == nil {
				if err := sessions.Revoke(r.Context(), c.JTI()); err != nil {
					lg.Warnw("session revoke failed", "user_id", c.UserID, "error", err)
				}
				svc.RecordLogout(r.Context(), portal.Actor{ID: c.UserID, Role: models.Role(c.Role), IP: ClientIP(r)})
			}
		}
		auth.ClearSessionCookie(w, cookie.Name, cookie.Secure)
		respondJSON(w, map[string]any{"success": true})
	}
}

// Session reports the current session user, or an empty object when signed out.
func Session(svc *portal.Service, sessions *auth.Sessions, cookie CookieConfig, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := auth.TokenFromRequest(r, cookie.Name)
		if raw == "" {
			respondJSON(w, map[string]any{})
			return
		}
		c, refreshed, err := sessions.Resolve(r.Context(), raw)
		if err != nil {
			respondJSON(w, map[string]any{})
			return
		}
		if refreshed != nil {
			auth.SetSessionCookie(w, cookie.Name, *refreshed, cookie.Secure)
		}
		u, err := svc.Profile(r.Context(), portal.Actor{ID: c.UserID, Role: models.Role(c.Role)})
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		exp := time.Time{}
		if c.ExpiresAt != nil {
			exp = c.ExpiresAt.Time
		}
		if refreshed != nil {
			exp = refreshed.ExpiresAt
		}
		respondJSON(w, map[string]any{
			"user":    newSessionUser(u),
			"expires": exp.UTC().Format(time.RFC3339),
		})
	}
}

// Options lists the divisions and branches for the registration form.
func Options(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := svc.ReferenceData(r.Context())
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, ref)
	}
}
