package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	conciergeHandler "github.com/edallison777/vitracka-sub001/internal/handler/concierge"
	profileHandler "github.com/edallison777/vitracka-sub001/internal/handler/profile"
	middlewarePkg "github.com/edallison777/vitracka-sub001/internal/middleware"
	conciergeService "github.com/edallison777/vitracka-sub001/internal/service/concierge"
	"github.com/edallison777/vitracka-sub001/internal/store"
	"github.com/edallison777/vitracka-sub001/pkg/utils"

	"go.uber.org/zap"
)

// Version reported by the health endpoint.
const Version = "0.1.0"

// NewRouter wires HTTP routes to core services.
func NewRouter(orchestrator *conciergeService.Orchestrator, repo store.Repository, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		status := "healthy"
		code := http.StatusOK
		if err := repo.Ping(req.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		utils.RespondJSON(w, code, map[string]string{
			"status":  status,
			"service": "vitracka-core",
			"version": Version,
		})
	})

	r.Route("/api", func(api chi.Router) {
		conciergeHandler.New(orchestrator, logger).RegisterRoutes(api)
		profileHandler.New(repo, logger).RegisterRoutes(api)
	})

	return r
}
