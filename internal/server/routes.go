package server

import (
	"log/slog"
	"net/http"

	"starships-server/internal/middleware"
	serverHandlers "starships-server/internal/server/handlers"
	"starships-server/internal/shared/database"
	"starships-server/internal/starship"
	starshipHandlers "starships-server/internal/starship/handlers"
	"starships-server/internal/starshipclass"
	classHandlers "starships-server/internal/starshipclass/handlers"
)

type Routes struct {
	db              *database.DB
	classService    *starshipclass.Service
	starshipService *starship.Service
	authenticator   *middleware.Authenticator
	logger          *slog.Logger
}

func NewRoutes(db *database.DB, classService *starshipclass.Service, starshipService *starship.Service, authenticator *middleware.Authenticator, logger *slog.Logger) *Routes {
	return &Routes{
		db:              db,
		classService:    classService,
		starshipService: starshipService,
		authenticator:   authenticator,
		logger:          logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", serverHandlers.Root)
	mux.Handle("GET /api/server/health", serverHandlers.NewHealthHandler(r.db, r.logger))

	classHandlers.NewStarshipClassHandler(r.classService, r.logger).Register(mux, r.authenticator.RequireAdmin)
	starshipHandlers.NewStarshipHandler(r.starshipService, r.logger).Register(mux, r.authenticator.RequireAdmin)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/", "/api/server/health"},
		"resource_endpoints", []string{"/api/starship-class", "/api/starship"},
		"writes_authenticated", r.authenticator.Enabled(),
	)

	return mux
}
