package handlers

import (
	"log/slog"
	"net/http"

	"starships-server/internal/shared/request"
	"starships-server/internal/shared/response"
	"starships-server/internal/starshipclass"
)

type StarshipClassHandler struct {
	service *starshipclass.Service
	logger  *slog.Logger
}

func NewStarshipClassHandler(service *starshipclass.Service, logger *slog.Logger) *StarshipClassHandler {
	return &StarshipClassHandler{
		service: service,
		logger:  logger,
	}
}

// Create handles POST /api/starship-class
func (h *StarshipClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "create_starship_class")

	var in starshipclass.Input
	body, err := request.Decode(r, &in, starshipclass.Fields...)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if err := body.RejectNull(); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	class, err := h.service.Create(r.Context(), in)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, class)
}

// List handles GET /api/starship-class, narrowed to one class by ?name=
func (h *StarshipClassHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "list_starship_classes")

	if name := r.URL.Query().Get("name"); name != "" {
		class, err := h.service.GetByName(r.Context(), name)
		if err != nil {
			response.Error(w, r, logger, err)
			return
		}
		response.Success(w, http.StatusOK, class)
		return
	}

	classes, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, classes)
}

// GetByID handles GET /api/starship-class/{id}
func (h *StarshipClassHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_starship_class")

	id, err := request.PathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	class, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, class)
}

// GetFuelCapacity handles GET /api/starship-class/{id}/fuel-capacity
func (h *StarshipClassHandler) GetFuelCapacity(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_starship_class_fuel_capacity")

	id, err := request.PathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	capacity, err := h.service.GetFuelCapacity(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, capacity)
}

// GetCapacity handles GET /api/starship-class/{id}/capacity, the contract used by remote capacity lookups
func (h *StarshipClassHandler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_starship_class_capacity")

	id, err := request.PathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	capacity, err := h.service.GetCapacity(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, capacity)
}

// Update handles PUT /api/starship-class/{id}
func (h *StarshipClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "update_starship_class")

	id, err := request.PathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var in starshipclass.Input
	body, err := request.Decode(r, &in, starshipclass.Fields...)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if err := body.RejectNull(); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	class, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, class)
}

// Delete handles DELETE /api/starship-class/{id}
func (h *StarshipClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "delete_starship_class")

	id, err := request.PathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if !deleted {
		response.Message(w, http.StatusNotFound, "cannot delete starship class: not found")
		return
	}

	response.Message(w, http.StatusOK, "Starship class deleted successfully")
}

// Register attaches the class routes to mux.
func (h *StarshipClassHandler) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	mux.Handle("POST /api/starship-class", guard(http.HandlerFunc(h.Create)))
	mux.HandleFunc("GET /api/starship-class", h.List)
	mux.HandleFunc("GET /api/starship-class/{id}", h.GetByID)
	mux.HandleFunc("GET /api/starship-class/{id}/fuel-capacity", h.GetFuelCapacity)
	mux.HandleFunc("GET /api/starship-class/{id}/capacity", h.GetCapacity)
	mux.Handle("PUT /api/starship-class/{id}", guard(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/starship-class/{id}", guard(http.HandlerFunc(h.Delete)))
}
