// Package server assembles services, handlers and middleware into the HTTP handler.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"allmanager/internal/auth"
	"allmanager/internal/handler"
	"allmanager/internal/httputil"
	"allmanager/internal/middleware"
	"allmanager/internal/service/account"
	"allmanager/internal/service/workspace"
)

// Config carries everything NewRouter needs.
type Config struct {
	Stores  Stores
	Hasher  *auth.PasswordHasher
	Tokens  *auth.TokenManager
	Limiter auth.LoginLimiter

	CORSOrigins    []string
	SecureCookies  bool // force Secure cookies regardless of scheme
	TrustProxy     bool
	RateLimitRPS   float64
	RateLimitBurst int

	Logger *slog.Logger
}

// NewRouter builds the API handler.
// Order: CORS → Recovery → RequestLogger → SecurityHeaders → Throttle → Authenticate → CSRFGuard → Routes
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	s := cfg.Stores

	// Services
	authService := account.NewAuthService(s.Users, cfg.Hasher, cfg.Tokens, cfg.Limiter, logger)
	userService := account.NewUserService(s.Users, s.Tx, cfg.Hasher, logger)
	projectService := workspace.NewProjectService(s.Projects, logger)
	taskService := workspace.NewTaskService(s.Tasks, s.Projects, logger)
	leadService := workspace.NewLeadService(s.Leads, logger)
	noteService := workspace.NewNoteService(s.Notes, logger)
	requirementService := workspace.NewRequirementService(s.Requirements, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Tokens.TTL(), cfg.SecureCookies, cfg.TrustProxy, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	projectHandler := handler.NewProjectHandler(projectService, taskService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	leadHandler := handler.NewLeadHandler(leadService, logger)
	noteHandler := handler.NewNoteHandler(noteService, logger)
	requirementHandler := handler.NewRequirementHandler(requirementService, logger)
	healthHandler := handler.NewHealthHandler(s.Health, logger)

	mux := http.NewServeMux()
	authed, admin := middleware.RequireAuth, middleware.RequireAdmin

	mux.HandleFunc("GET /health", healthHandler.HealthCheck)

	// Auth routes
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/session", authed(authHandler.Session))

	// User routes
	mux.HandleFunc("GET /api/users", admin(userHandler.ListUsers))
	mux.HandleFunc("POST /api/users", admin(userHandler.CreateUser))
	mux.HandleFunc("GET /api/users/{id}", admin(userHandler.GetUser))
	mux.HandleFunc("PUT /api/users/{id}", admin(userHandler.UpdateUser))
	mux.HandleFunc("PATCH /api/users/{id}", admin(userHandler.UpdateUser))
	mux.HandleFunc("DELETE /api/users/{id}", admin(userHandler.DeleteUser))

	// Project routes
	mux.HandleFunc("GET /api/projects", authed(projectHandler.ListProjects))
	mux.HandleFunc("POST /api/projects", authed(projectHandler.CreateProject))
	mux.HandleFunc("GET /api/projects/{id}", authed(projectHandler.GetProject))
	mux.HandleFunc("PUT /api/projects/{id}", authed(projectHandler.UpdateProject))
	mux.HandleFunc("PATCH /api/projects/{id}", authed(projectHandler.UpdateProject))
	mux.HandleFunc("DELETE /api/projects/{id}", authed(projectHandler.DeleteProject))
	mux.HandleFunc("GET /api/projects/{id}/tasks", authed(projectHandler.ListProjectTasks))

	// Task routes
	mux.HandleFunc("GET /api/tasks", authed(taskHandler.ListTasks))
	mux.HandleFunc("POST /api/tasks", admin(taskHandler.CreateTask))
	mux.HandleFunc("GET /api/tasks/{id}", authed(taskHandler.GetTask))
	mux.HandleFunc("PUT /api/tasks/{id}", admin(taskHandler.UpdateTask))
	mux.HandleFunc("PATCH /api/tasks/{id}", admin(taskHandler.UpdateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", admin(taskHandler.DeleteTask))

	// Lead routes
	mux.HandleFunc("GET /api/leads", authed(leadHandler.ListLeads))
	mux.HandleFunc("POST /api/leads", authed(leadHandler.CreateLead))
	mux.HandleFunc("GET /api/leads/{id}", authed(leadHandler.GetLead))
	mux.HandleFunc("PUT /api/leads/{id}", authed(leadHandler.UpdateLead))
	mux.HandleFunc("PATCH /api/leads/{id}", authed(leadHandler.UpdateLead))
	mux.HandleFunc("DELETE /api/leads/{id}", authed(leadHandler.DeleteLead))

	// Note routes
	mux.HandleFunc("GET /api/notes", admin(noteHandler.ListNotes))
	mux.HandleFunc("POST /api/notes", admin(noteHandler.CreateNote))
	mux.HandleFunc("GET /api/notes/{id}", admin(noteHandler.GetNote))
	mux.HandleFunc("PUT /api/notes/{id}", admin(noteHandler.UpdateNote))
	mux.HandleFunc("PATCH /api/notes/{id}", admin(noteHandler.UpdateNote))
	mux.HandleFunc("DELETE /api/notes/{id}", admin(noteHandler.DeleteNote))

	// Requirement routes
	mux.HandleFunc("GET /api/requirements", admin(requirementHandler.ListRequirements))
	mux.HandleFunc("POST /api/requirements", admin(requirementHandler.CreateRequirement))
	mux.HandleFunc("GET /api/requirements/{id}", admin(requirementHandler.GetRequirement))
	mux.HandleFunc("PUT /api/requirements/{id}", admin(requirementHandler.UpdateRequirement))
	mux.HandleFunc("PATCH /api/requirements/{id}", admin(requirementHandler.UpdateRequirement))
	mux.HandleFunc("DELETE /api/requirements/{id}", admin(requirementHandler.DeleteRequirement))

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondError(w, http.StatusNotFound, "Not found")
	})

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	h = middleware.CSRFGuard(logger)(h)
	h = middleware.Authenticate(cfg.Tokens, logger)(h)
	h = middleware.NewThrottle(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxy, logger).Middleware(h)
	h = middleware.SecurityHeaders(cfg.TrustProxy)(h)
	h = middleware.RequestLogger(logger, cfg.TrustProxy)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to answer OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", auth.CSRFHeader, middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	})
	return corsHandler.Handler(h)
}
