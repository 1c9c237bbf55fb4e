package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/devconnect-app/devconnect-be/internal/api/handlers"
	"github.com/devconnect-app/devconnect-be/internal/auth"
	"github.com/devconnect-app/devconnect-be/internal/github"
	"github.com/devconnect-app/devconnect-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokens *auth.TokenService,
	userService services.UserServiceProvider,
	profileService services.ProfileServiceProvider,
	githubService *github.Service,
	clientOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the browser client
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{clientOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", auth.TokenHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	profileHandler := handlers.NewProfileHandler(profileService)
	githubHandler := handlers.NewGithubHandler(githubService)

	requireAuth := tokens.Middleware()

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Registration and login
		r.Post("/users", userHandler.Register)
		r.Post("/auth", userHandler.Login)

		// Session restore: who does this token belong to
		r.With(requireAuth).Get("/auth", userHandler.GetMe)

		r.Route("/profile", func(r chi.Router) {
			// Public directory endpoints
			r.Get("/", profileHandler.GetAll)
			r.Get("/user/{id}", profileHandler.GetByUserID)
			r.Get("/github/{username}", githubHandler.Repos)

			// Owner-only endpoints
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", profileHandler.GetMine)
				r.Post("/", profileHandler.Upsert)
				r.Delete("/", profileHandler.DeleteAccount)
				r.Put("/experience", profileHandler.AddExperience)
				r.Delete("/experience/{id}", profileHandler.RemoveExperience)
				r.Put("/education", profileHandler.AddEducation)
				r.Delete("/education/{id}", profileHandler.RemoveEducation)
			})
		})
	})

	return r
}
