package httpserver

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"siar/internal/auth"
	"siar/internal/config"
	"siar/internal/httpserver/handlers"
	"siar/internal/models"
	"siar/internal/portal"
	"siar/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Logger   *zap.SugaredLogger
	Service  *portal.Service
	Sessions *auth.Sessions
	Files    *storage.Local
}

// NewDeps builds the default service graph from configuration.
func NewDeps(cfg *config.Config, db *gorm.DB, lg *zap.SugaredLogger) Deps {
	files := storage.NewLocal(cfg.Upload.Dir, cfg.Upload.PublicPrefix, cfg.Upload.MaxBytes)
	signer := auth.NewSigner(cfg.Auth.Secret, cfg.Auth.SessionTTL)
	return Deps{
		Config:   cfg,
		DB:       db,
		Logger:   lg,
		Service:  portal.New(db, lg, files),
		Sessions: auth.NewSessions(db, signer, cfg.Auth.RefreshAfter),
		Files:    files,
	}
}

func NewRouter(d Deps) http.Handler {
	cfg, lg, svc := d.Config, d.Logger, d.Service
	metrics := NewMetrics()
	limiter := newIPLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	cookie := handlers.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure}

	guardCfg := auth.DefaultGuardConfig(cfg.Auth.CookieName, cfg.Auth.CookieSecure)
	guardCfg.Public = append(guardCfg.Public, "/healthz", "/metrics")
	if cfg.Web.Dir != "" {
		guardCfg.Public = append(guardCfg.Public, "/assets", "/favicon.ico")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, accessLog(lg), middleware.Recoverer, metrics.Instrument)
	r.Use(auth.Guard(d.Sessions, guardCfg, lg))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(a chi.Router) {
			a.With(limiter.Middleware).Post("/register", handlers.Register(svc, lg))
			a.With(limiter.Middleware).Post("/login", handlers.Login(svc, d.Sessions, cookie, lg))
			a.Post("/logout", handlers.Logout(svc, d.Sessions, cookie, lg))
			a.Get("/session", handlers.Session(svc, d.Sessions, cookie, lg))
			a.Get("/options", handlers.Options(svc, lg))
		})

		api.Get("/maintenance", handlers.ListMaintenance(svc, lg))
		api.Post("/maintenance", handlers.CreateMaintenance(svc, lg))
		api.Get("/maintenance/{id}", handlers.GetMaintenance(svc, lg))
		api.Patch("/maintenance/{id}", handlers.UpdateMaintenance(svc, lg))
		api.Delete("/maintenance/{id}", handlers.DeleteMaintenance(svc, lg))

		api.Get("/projects", handlers.ListProjects(svc, lg))
		api.Post("/projects", handlers.CreateProject(svc, lg))
		api.Get("/projects/{id}", handlers.GetProject(svc, lg))
		api.Patch("/projects/{id}", handlers.UpdateProject(svc, lg))
		api.Delete("/projects/{id}", handlers.DeleteProject(svc, lg))

		api.Get("/events", handlers.ListEvents(svc, lg))
		api.Post("/events", handlers.CreateEvent(svc, lg))
		api.Delete("/events/{id}", handlers.DeleteEvent(svc, lg))

		api.Get("/chat", handlers.Chat(svc, lg))
		api.Post("/chat", handlers.SendMessage(svc, lg))

		api.Get("/notifications", handlers.ListNotifications(svc, lg))
		api.Post("/notifications", handlers.MarkAllNotificationsRead(svc, lg))
		api.Post("/notifications/mark-all-read", handlers.MarkAllNotificationsRead(svc, lg))
		api.Patch("/notifications/{id}", handlers.MarkNotificationRead(svc, lg))

		api.Get("/profile", handlers.GetProfile(svc, lg))
		api.Patch("/profile", handlers.UpdateProfile(svc, lg))
		api.Post("/profile/password", handlers.ChangePassword(svc, lg))

		api.Get("/upload", handlers.ListFiles(svc, lg))
		api.Post("/upload", handlers.Upload(svc, cfg.Upload.MaxBytes, lg))

		api.Get("/dashboard/stats", handlers.DashboardStats(svc, lg))

		api.Group(func(it chi.Router) {
			it.Use(auth.RequireRole(string(models.RoleIT)))
			it.Get("/logs", handlers.ListLogs(svc, lg))
		})

		api.NotFound(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Not found"}` + "\n"))
		})
	})

	if d.Files != nil {
		r.Mount(d.Files.Prefix, d.Files.Handler())
	}
	if cfg.Web.Dir != "" {
		r.NotFound(spaHandler(cfg.Web.Dir))
	}
	return r
}

// spaHandler serves files from dir and falls back to index.html for client routes.
func spaHandler(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + r.URL.Path)
		if p != "/" && !strings.HasSuffix(p, "/") {
			if st, err := os.Stat(filepath.Join(dir, filepath.FromSlash(p))); err == nil && !st.IsDir() {
				fs.ServeHTTP(w, r)
				return
			}
		}
		http.ServeFile(w, r, index)
	}
}
