package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmdiary/api/internal/auth"
	"github.com/farmdiary/api/internal/domain"
	"github.com/farmdiary/api/internal/service"
	"github.com/farmdiary/api/pkg/health"
	"github.com/farmdiary/api/pkg/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	UserService    *service.UserService
	TokenService   *service.TokenService
	DiaryService   *service.DiaryService
	CommentService *service.CommentService
	Codec          *auth.Codec
	LoadPrincipal  PrincipalLoader
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	CORS           CORSConfig
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware. Authenticate runs on every request but never
	// rejects one; protected routes add RequireAuth/RequireRole below.
	r.Use(CORS(deps.CORS))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.PrometheusMetrics("farmdiary"))
	r.Use(Authenticate(deps.Codec, deps.LoadPrincipal, deps.Logger))

	// Health check endpoints
	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(deps.UserService, deps.TokenService, deps.Logger)
	userHandler := NewUserHandler(deps.UserService)
	diaryHandler := NewDiaryHandler(deps.DiaryService, deps.Logger)
	commentHandler := NewCommentHandler(deps.CommentService, deps.Logger)

	// Auth endpoints (public)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
		r.Post("/accesstoken", authHandler.AccessToken)

		r.With(RequireAuth).Post("/logout", authHandler.Logout)
	})

	// User profile endpoints (auth required)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(RequireAuth)

		r.Get("/me", userHandler.GetProfile)
	})

	// Diary endpoints. Reads are public; writes need the user role.
	r.Route("/api/v1/diaries", func(r chi.Router) {
		r.Get("/", diaryHandler.List)
		r.Get("/{id}", diaryHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(RequireRole(domain.RoleUser))

			r.Post("/", diaryHandler.Create)
			r.Patch("/{id}", diaryHandler.Update)
			r.Delete("/{id}", diaryHandler.Delete)
		})

		// Comments live under their diary.
		r.Route("/{diaryId}/comments", func(r chi.Router) {
			r.Get("/", commentHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(ContentTypeJSON)
				r.Use(RequireRole(domain.RoleUser))

				r.Post("/", commentHandler.Create)
				r.Put("/{commentId}", commentHandler.Update)
				r.Delete("/{commentId}", commentHandler.Delete)
			})
		})
	})

	return r
}
