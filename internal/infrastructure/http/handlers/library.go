package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mealmatch/planner/internal/ports/inbound"
	"go.uber.org/zap"
)

// LibraryHandlers serves the saved recipe log
type LibraryHandlers struct {
	library   inbound.LibraryService
	validator *Validator
	logger    *zap.Logger
}

// NewLibraryHandlers creates library handlers
func NewLibraryHandlers(library inbound.LibraryService, validator *Validator, logger *zap.Logger) *LibraryHandlers {
	return &LibraryHandlers{
		library:   library,
		validator: validator,
		logger:    logger.Named("library-handlers"),
	}
}

// Routes mounts the saved recipe endpoints on r
func (h *LibraryHandlers) Routes(r chi.Router) {
	r.Route("/saved", func(r chi.Router) {
		r.Get("/", h.ListSaved)
		r.Post("/", h.SaveRecipe)
		r.Get("/{id}", h.GetSaved)
		r.Delete("/{id}", h.RemoveSaved)
	})
}

// ListSaved handles GET /saved
func (h *LibraryHandlers) ListSaved(w http.ResponseWriter, r *http.Request) {
	entries, err := h.library.ListSaved(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, entries)
}

// SaveRecipe handles POST /saved
func (h *LibraryHandlers) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	var req SaveRecipeRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	entry, err := h.library.SaveRecipe(r.Context(), req.ToRecipe())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Location", r.URL.Path+"/"+strconv.FormatInt(entry.ID, 10))
	writeData(w, h.logger, http.StatusCreated, entry)
}

// GetSaved handles GET /saved/{id}
func (h *LibraryHandlers) GetSaved(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	entry, err := h.library.GetSaved(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, entry)
}

// RemoveSaved handles DELETE /saved/{id}
func (h *LibraryHandlers) RemoveSaved(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.library.RemoveSaved(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
