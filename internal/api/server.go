package api

import (
	"log/slog"
	"net/http"

	"github.com/dreamkkun/retention/internal/access"
	"github.com/dreamkkun/retention/internal/config"
	"github.com/dreamkkun/retention/internal/policy"
	"github.com/dreamkkun/retention/internal/store"
	"github.com/dreamkkun/retention/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API for the retention policy board.
type Server struct {
	router    chi.Router
	assembler *policy.Assembler
	st        *store.Store
	users     *users.Service
	sessions  *access.Sessions
	allow     *access.Allowlist
	limiter   *access.Limiter
	accessLog *access.Log
	log       *slog.Logger
	cfg       config.Config
}

// Deps collects everything the server routes to.
type Deps struct {
	Assembler *policy.Assembler
	Store     *store.Store
	Users     *users.Service
	Sessions  *access.Sessions
	Allowlist *access.Allowlist
	Limiter   *access.Limiter
	AccessLog *access.Log
}

// NewServer creates and configures the HTTP server.
func NewServer(d Deps, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		assembler: d.Assembler,
		st:        d.Store,
		users:     d.Users,
		sessions:  d.Sessions,
		allow:     d.Allowlist,
		limiter:   d.Limiter,
		accessLog: d.AccessLog,
		log:       log,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(AllowlistMiddleware(s.allow, s.log))
	r.Use(RequestLogger(s.log, s.accessLog))
	r.Use(CORS(s.cfg.CORSOrigin))

	// Public endpoints.
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/policies", s.handleGetPolicies)
	r.Post("/api/admin/login", s.handleAdminLogin)
	r.Post("/api/users/register", s.handleRegister)
	r.Get("/api/images", s.handleListImages)
	r.Get("/api/images/{file}", s.handleServeImage)

	// Admin endpoints.
	r.Group(func(r chi.Router) {
		r.Use(SessionAuth(s.sessions, users.RoleAdmin))

		r.Post("/api/upload-excel", s.handleUploadExcel)
		r.Post("/api/admin/logout", s.handleAdminLogout)

		r.Get("/api/users/list", s.handleListUsers)
		r.Post("/api/users/approve/{id}", s.handleApproveUser)
		r.Post("/api/users/reject/{id}", s.handleRejectUser)
		r.Delete("/api/users/delete/{id}", s.handleDeleteUser)
		r.Post("/api/users/change-role/{id}", s.handleChangeRole)

		r.Post("/api/images/upload", s.handleUploadImage)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
