package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"starships-server/internal/shared/errors"
	"starships-server/internal/shared/request"
	"starships-server/internal/shared/response"
	"starships-server/internal/starship"
)

type StarshipHandler struct {
	service *starship.Service
	logger  *slog.Logger
}

func NewStarshipHandler(service *starship.Service, logger *slog.Logger) *StarshipHandler {
	return &StarshipHandler{
		service: service,
		logger:  logger,
	}
}

// Create handles POST /api/starship
func (h *StarshipHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "create_starship")

	var in starship.Input
	body, err := request.Decode(r, &in, starship.Fields...)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if err := body.RejectNull(); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

// List handles GET /api/starship
func (h *StarshipHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "list_starships")

	starships, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, starships)
}

// Get handles GET /api/starship/{id}. Numeric identifiers are surrogate ids, anything else
// is treated as a public id.
func (h *StarshipHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_starship")

	identifier := r.PathValue("id")

	var found *starship.Starship
	var err error
	if id, convErr := strconv.Atoi(identifier); convErr == nil {
		if id <= 0 {
			response.Error(w, r, logger, errors.Validationf("invalid id %q", identifier))
			return
		}
		found, err = h.service.GetByID(r.Context(), id)
	} else if starship.IsPublicID(identifier) {
		found, err = h.service.GetByPublicID(r.Context(), identifier)
	} else {
		err = errors.Validationf("%q is neither a starship id nor a public id", identifier)
	}
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, found)
}

// GetByName handles GET /api/starship/name/{name}
func (h *StarshipHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_starship_by_name")

	found, err := h.service.GetByName(r.Context(), r.PathValue("name"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, found)
}

// ListByClass handles GET /api/starship/class/{classId}
func (h *StarshipHandler) ListByClass(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "list_starships_by_class")

	classID, err := request.PathID(r, "classId")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	starships, err := h.service.ListByClass(r.Context(), classID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, starships)
}

// Update handles PUT /api/starship/{id}
func (h *StarshipHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "update_starship")

	id, err := request.PathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var in starship.Input
	body, err := request.Decode(r, &in, starship.Fields...)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if err := body.RejectNull(); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// UpdateFuelLeft handles PUT /api/starship/{id}/fuel-left
func (h *StarshipHandler) UpdateFuelLeft(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "update_starship_fuel_left")

	id, err := request.PathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var in starship.FuelInput
	if _, err := request.Decode(r, &in, starship.FuelFields...); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	updated, err := h.service.UpdateFuelLeft(r.Context(), id, in)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// UpdateHullPoints handles PUT /api/starship/{id}/hull-points
func (h *StarshipHandler) UpdateHullPoints(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "update_starship_hull_points")

	id, err := request.PathID(r, "id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	var in starship.HullInput
	if _, err := request.Decode(r, &in, starship.HullFields...); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	updated, err := h.service.UpdateHullPoints(r.Context(), id, in)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/starship/{id}
func (h *StarshipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "delete_starship")

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
		response.Message(w, http.StatusNotFound, "cannot delete starship with id="+strconv.Itoa(id)+": not found")
		return
	}

	response.Message(w, http.StatusOK, "Starship deleted successfully")
}

// Register attaches the starship routes to mux. Writes pass through guard.
func (h *StarshipHandler) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	mux.Handle("POST /api/starship", guard(http.HandlerFunc(h.Create)))
	mux.HandleFunc("GET /api/starship", h.List)
	mux.HandleFunc("GET /api/starship/{id}", h.Get)
	mux.HandleFunc("GET /api/starship/name/{name}", h.GetByName)
	mux.HandleFunc("GET /api/starship/class/{classId}", h.ListByClass)
	mux.Handle("PUT /api/starship/{id}", guard(http.HandlerFunc(h.Update)))
	mux.Handle("PUT /api/starship/{id}/fuel-left", guard(http.HandlerFunc(h.UpdateFuelLeft)))
	mux.Handle("PUT /api/starship/{id}/hull-points", guard(http.HandlerFunc(h.UpdateHullPoints)))
	mux.Handle("DELETE /api/starship/{id}", guard(http.HandlerFunc(h.Delete)))
}
