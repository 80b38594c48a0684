package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/ports/inbound"
	"github.com/mealmatch/planner/pkg/errors"
	"go.uber.org/zap"
)

// DefaultMaxUploadBytes bounds photo uploads when nothing is configured
const DefaultMaxUploadBytes = 10 << 20

// PlannerHandlers serves ingredient lookup, selection editing and recipe generation
type PlannerHandlers struct {
	planner        inbound.PlannerService
	validator      *Validator
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewPlannerHandlers creates planner handlers
func NewPlannerHandlers(planner inbound.PlannerService, validator *Validator, maxUploadBytes int64, logger *zap.Logger) *PlannerHandlers {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &PlannerHandlers{
		planner:        planner,
		validator:      validator,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.Named("planner-handlers"),
	}
}

// Routes mounts the planner endpoints on r
func (h *PlannerHandlers) Routes(r chi.Router) {
	r.Get("/ingredients", h.SuggestIngredients)
	r.Get("/ingredients/{name}", h.DescribeIngredient)

	r.Post("/sessions", h.StartSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/ingredients", h.AddIngredient)
		r.Put("/ingredients/{index}", h.UpdateIngredient)
		r.Delete("/ingredients/{index}", h.RemoveIngredient)
		r.Post("/recognize", h.RecognizePhoto)
		r.Post("/recipes/catalog", h.FindCatalogRecipes)
		r.Post("/recipes/synthesized", h.SynthesizeRecipes)
	})
}

// SuggestIngredients handles GET /ingredients?q=&limit=
func (h *PlannerHandlers) SuggestIngredients(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, h.logger, errors.NewAppError(errors.CodeBadRequest, "Invalid limit", raw))
			return
		}
		limit = n
	}

	suggestions, err := h.planner.SuggestIngredients(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, suggestions)
}

// DescribeIngredient handles GET /ingredients/{name}
func (h *PlannerHandlers) DescribeIngredient(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, h.logger, errors.NewBadRequestError("Invalid ingredient name"))
		return
	}

	ingredient, err := h.planner.DescribeIngredient(r.Context(), name)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, ingredient)
}

// StartSession handles POST /sessions
func (h *PlannerHandlers) StartSession(w http.ResponseWriter, r *http.Request) {
	selection, err := h.planner.StartSession(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Location", r.URL.Path+"/"+selection.ID.String())
	writeData(w, h.logger, http.StatusCreated, selection)
}

// GetSession handles GET /sessions/{sessionID}
func (h *PlannerHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	selection, err := h.planner.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, selection)
}

// AddIngredient handles POST /sessions/{sessionID}/ingredients
func (h *PlannerHandlers) AddIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req AddIngredientRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	selection, err := h.planner.AddIngredient(r.Context(), inbound.AddIngredientCommand{
		SessionID: id,
		Name:      req.Name,
		Quantity:  req.Quantity,
		Unit:      recipe.Unit(req.Unit),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, h.logger, http.StatusCreated, selection)
}

// UpdateIngredient handles PUT /sessions/{sessionID}/ingredients/{index}
func (h *PlannerHandlers) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	index, err := intParam(r, "index")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req UpdateIngredientRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	selection, err := h.planner.UpdateIngredient(r.Context(), inbound.UpdateIngredientCommand{
		SessionID: id,
		Index:     int(index),
		Quantity:  req.Quantity,
		Unit:      recipe.Unit(req.Unit),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, selection)
}

// RemoveIngredient handles DELETE /sessions/{sessionID}/ingredients/{index}
func (h *PlannerHandlers) RemoveIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	index, err := intParam(r, "index")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	selection, err := h.planner.RemoveIngredient(r.Context(), id, int(index))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, selection)
}

// RecognizePhoto handles POST /sessions/{sessionID}/recognize with a
// multipart "photo" field
func (h *PlannerHandlers) RecognizePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	cmd := inbound.RecognizePhotoCommand{SessionID: id}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			writeError(w, r, h.logger, errors.NewAppError(errors.CodeBadRequest, "Failed to read photo", readErr.Error()))
			return
		}
		cmd.Filename = header.Filename
		cmd.ContentType = header.Header.Get("Content-Type")
		cmd.Data = data
	case stderrors.Is(err, http.ErrMissingFile), stderrors.Is(err, http.ErrNotMultipart):
		// the planner reports the missing photo
	default:
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			writeError(w, r, h.logger, errors.NewAppError(errors.CodeBadRequest, "Photo too large", strconv.FormatInt(maxErr.Limit, 10)+" bytes max"))
			return
		}
		writeError(w, r, h.logger, errors.NewAppError(errors.CodeBadRequest, "Malformed upload", err.Error()))
		return
	}

	result, err := h.planner.RecognizeFromPhoto(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, result)
}

// FindCatalogRecipes handles POST /sessions/{sessionID}/recipes/catalog
func (h *PlannerHandlers) FindCatalogRecipes(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.planner.FindCatalogRecipes)
}

// SynthesizeRecipes handles POST /sessions/{sessionID}/recipes/synthesized
func (h *PlannerHandlers) SynthesizeRecipes(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.planner.SynthesizeRecipes)
}

type generator func(ctx context.Context, sessionID uuid.UUID, filters recipe.Filters) ([]recipe.Recipe, error)

func (h *PlannerHandlers) generate(w http.ResponseWriter, r *http.Request, run generator) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	// An empty body means no filters.
	var req FiltersRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil && !stderrors.Is(err, errEmptyBody) {
		writeError(w, r, h.logger, err)
		return
	}

	recipes, err := run(r.Context(), id, req.ToFilters())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, recipes)
}
