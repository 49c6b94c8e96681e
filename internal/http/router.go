package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"customer-accounts/internal/auth"
	"customer-accounts/internal/config"
	"customer-accounts/internal/customer"
	"customer-accounts/internal/httputil"
	"customer-accounts/internal/logging"
	"customer-accounts/internal/version"
)

// NewRouter creates and configures the HTTP router. Every account route sits
// behind the client-version gate; the protected ones additionally behind the
// session middleware.
func NewRouter(
	cfg *config.Config,
	logger *logging.Logger,
	gate *version.Gate,
	authHandler *auth.Handler,
	authMiddleware *auth.Middleware,
	customerHandler *customer.Handler,
) *chi.Mux {
	r := chi.NewRouter()

	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", version.HeaderName},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/health", handleHealth)

	// Swagger UI only exists in development builds
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Use(gate.Require)
		r.Post("/recover-password", authHandler.RecoverPassword)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/reset-password", authHandler.ResetPassword)
		})
	})

	r.Route("/customers", func(r chi.Router) {
		r.Use(gate.Require)
		r.Use(authMiddleware.RequireAuth)
		r.Get("/me", customerHandler.Me)
		r.Put("/me/edit-data", customerHandler.EditData)
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
