package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// GuardConfig describes which paths are public and which are reserved for IT.
type GuardConfig struct {
	CookieName   string
	CookieSecure bool
	// Public paths match exactly or as a "/"-separated prefix.
	Public []string
	// ITOnly paths match as plain prefixes.
	ITOnly    []string
	LoginPath string
	HomePath  string
}

func DefaultGuardConfig(cookieName string, secure bool) GuardConfig {
	return GuardConfig{
		CookieName:   cookieName,
		CookieSecure: secure,
		Public:       []string{"/", "/auth/login", "/auth/register", "/api/auth"},
		ITOnly:       []string{"/dashboard/logs", "/api/logs"},
		LoginPath:    "/auth/login",
		HomePath:     "/dashboard",
	}
}

// Guard rejects unauthenticated access to non-public paths. API requests get JSON
// 401/403 responses; page requests are redirected.
func Guard(sessions *Sessions, cfg GuardConfig, lg *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if cfg.isPublic(path) {
				next.ServeHTTP(w, r)
				return
			}
			api := isAPI(path)

			raw := TokenFromRequest(r, cfg.CookieName)
			if raw == "" {
				deny(w, r, cfg, api)
				return
			}
			claims, refreshed, err := sessions.Resolve(r.Context(), raw)
			if err != nil {
				if !errors.Is(err, ErrInvalidToken) && !errors.Is(err, ErrSessionRevoked) {
					lg.Warnw("session lookup failed", "error", err)
				}
				deny(w, r, cfg, api)
				return
			}
			if refreshed != nil {
				SetSessionCookie(w, cfg.CookieName, *refreshed, cfg.CookieSecure)
			}

			if cfg.isITOnly(path) && !claims.IsIT() {
				if api {
					writeError(w, http.StatusForbidden, "Forbidden")
					return
				}
				http.Redirect(w, r, cfg.HomePath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole rejects authenticated callers lacking role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := FromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if c.Role != role {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, cfg GuardConfig, api bool) {
	if api {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	q := url.Values{"callbackUrl": {r.URL.RequestURI()}}
	http.Redirect(w, r, cfg.LoginPath+"?"+q.Encode(), http.StatusFound)
}

func (cfg GuardConfig) isPublic(path string) bool {
	for _, p := range cfg.Public {
		if path == p {
			return true
		}
		if p != "/" && strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func (cfg GuardConfig) isITOnly(path string) bool {
	for _, p := range cfg.ITOnly {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isAPI(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
