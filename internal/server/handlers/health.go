package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"starships-server/internal/shared/database"
	"starships-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

type HealthHandler struct {
	db     *database.DB
	logger *slog.Logger
}

func NewHealthHandler(db *database.DB, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "disconnected"
	if err := h.db.PingContext(ctx); err == nil {
		dbStatus = "connected"
	} else {
		h.logger.Warn("Database ping failed", "handler", "health", "error", err)
	}

	response.Success(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
	})
}

// Root answers GET / so deployments can probe the process without touching the database.
func Root(w http.ResponseWriter, r *http.Request) {
	response.Message(w, http.StatusOK, "The application is working.")
}
