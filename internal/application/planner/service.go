// Package planner provides the application layer for meal planning.
// It implements the use cases defined in the inbound ports on top of the
// pure functions of the recipe domain.
package planner

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/mealmatch/planner/internal/domain/recipe"
	"github.com/mealmatch/planner/internal/domain/session"
	"github.com/mealmatch/planner/internal/domain/shared"
	"github.com/mealmatch/planner/internal/ports/inbound"
	"github.com/mealmatch/planner/internal/ports/outbound"
	"github.com/mealmatch/planner/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/mealmatch/planner/internal/application/planner"

// Service implements the planner use cases
type Service struct {
	catalogs   outbound.CatalogProvider
	sessions   outbound.SessionRepository
	recognizer outbound.IngredientRecognizer
	events     outbound.MessageBus
	tracer     trace.Tracer
	logger     *zap.Logger

	// locks serializes edits to the same session
	locks *sessionLocks
}

// NewService creates a new planner service
func NewService(
	catalogs outbound.CatalogProvider,
	sessions outbound.SessionRepository,
	recognizer outbound.IngredientRecognizer,
	events outbound.MessageBus,
	logger *zap.Logger,
) inbound.PlannerService {
	return &Service{
		catalogs:   catalogs,
		sessions:   sessions,
		recognizer: recognizer,
		events:     events,
		tracer:     otel.Tracer(tracerName),
		logger:     logger.Named("planner-service"),
		locks:      newSessionLocks(),
	}
}

// SuggestIngredients returns autocomplete hits for query
func (s *Service) SuggestIngredients(ctx context.Context, query string, limit int) ([]inbound.IngredientSuggestionDTO, error) {
	catalog := s.catalogs.Current()
	names := catalog.Suggest(query, limit)

	out := make([]inbound.IngredientSuggestionDTO, 0, len(names))
	for _, name := range names {
		info, _ := catalog.Lookup(name)
		out = append(out, inbound.IngredientSuggestionDTO{
			Name:    name,
			Kcal:    info.KcalPer100g,
			Protein: info.ProteinPer100g,
			Carb:    info.CarbPer100g,
			Fat:     info.FatPer100g,
		})
	}
	return out, nil
}

// DescribeIngredient returns the facts, units and entry hint of one ingredient
func (s *Service) DescribeIngredient(ctx context.Context, name string) (*inbound.IngredientDTO, error) {
	info, ok := s.catalogs.Current().Lookup(name)
	if !ok {
		return nil, errors.NewIngredientNotFoundError(name)
	}
	return &inbound.IngredientDTO{
		Name:  name,
		Info:  info,
		Type:  info.EffectiveType(),
		Units: recipe.AvailableUnits(info),
		Hint:  recipe.QuantityHint(info),
	}, nil
}

// StartSession creates an empty selection
func (s *Service) StartSession(ctx context.Context) (*inbound.SelectionDTO, error) {
	selection := session.New()
	if err := s.sessions.Save(ctx, selection); err != nil {
		return nil, errors.NewStorageError("create session", err)
	}

	s.logger.Info("Session started", zap.String("session_id", selection.ID.String()))
	return s.selectionToDTO(selection), nil
}

// GetSession returns a selection with its running totals
func (s *Service) GetSession(ctx context.Context, sessionID uuid.UUID) (*inbound.SelectionDTO, error) {
	selection, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.selectionToDTO(selection), nil
}

// AddIngredient validates and appends an ingredient. Invalid input leaves
// the selection untouched.
func (s *Service) AddIngredient(ctx context.Context, cmd inbound.AddIngredientCommand) (*inbound.SelectionDTO, error) {
	unlock := s.locks.lock(cmd.SessionID)
	defer unlock()

	selection, err := s.loadSession(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	item, err := session.NewItem(s.catalogs.Current(), cmd.Name, cmd.Quantity, cmd.Unit)
	if err != nil {
		return nil, mapItemError(err, cmd.Name, cmd.Quantity, cmd.Unit)
	}

	selection.Add(item)
	if err := s.saveSession(ctx, selection); err != nil {
		return nil, err
	}

	s.logger.Info("Ingredient added",
		zap.String("session_id", selection.ID.String()),
		zap.String("ingredient", item.Name),
		zap.Float64("grams", item.Grams),
	)
	return s.selectionToDTO(selection), nil
}

// UpdateIngredient re-enters the quantity of the item at cmd.Index
func (s *Service) UpdateIngredient(ctx context.Context, cmd inbound.UpdateIngredientCommand) (*inbound.SelectionDTO, error) {
	unlock := s.locks.lock(cmd.SessionID)
	defer unlock()

	selection, err := s.loadSession(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	current, err := selection.At(cmd.Index)
	if err != nil {
		return nil, errors.NewSelectionIndexError(cmd.Index)
	}

	item, err := session.NewItem(s.catalogs.Current(), current.Name, cmd.Quantity, cmd.Unit)
	if err != nil {
		return nil, mapItemError(err, current.Name, cmd.Quantity, cmd.Unit)
	}

	if err := selection.Replace(cmd.Index, item); err != nil {
		return nil, errors.NewSelectionIndexError(cmd.Index)
	}
	if err := s.saveSession(ctx, selection); err != nil {
		return nil, err
	}
	return s.selectionToDTO(selection), nil
}

// RemoveIngredient drops the item at index
func (s *Service) RemoveIngredient(ctx context.Context, sessionID uuid.UUID, index int) (*inbound.SelectionDTO, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	selection, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := selection.Remove(index); err != nil {
		return nil, errors.NewSelectionIndexError(index)
	}
	if err := s.saveSession(ctx, selection); err != nil {
		return nil, err
	}
	return s.selectionToDTO(selection), nil
}

// RecognizeFromPhoto adds every recognized ingredient at 100 g
func (s *Service) RecognizeFromPhoto(ctx context.Context, cmd inbound.RecognizePhotoCommand) (*inbound.RecognitionDTO, error) {
	if len(cmd.Data) == 0 {
		return nil, errors.NewPhotoRequiredError()
	}

	unlock := s.locks.lock(cmd.SessionID)
	defer unlock()

	selection, err := s.loadSession(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	catalog := s.catalogs.Current()
	names, err := s.recognizer.Recognize(ctx, outbound.Photo{
		Filename:    cmd.Filename,
		ContentType: cmd.ContentType,
		Data:        cmd.Data,
	}, catalog)
	if err != nil {
		return nil, errors.Wrap(err, "failed to recognize ingredients")
	}
	if len(names) == 0 {
		return nil, errors.NewNothingRecognizedError()
	}

	items := make([]recipe.SelectedIngredient, 0, len(names))
	for _, name := range names {
		if !catalog.Has(name) {
			continue
		}
		// Recognized items are recorded by weight whatever their type.
		items = append(items, recipe.SelectedIngredient{
			Name:            name,
			Grams:           recognizedGrams,
			DisplayQuantity: recognizedGrams,
			DisplayUnit:     recipe.UnitGram,
		})
	}
	if len(items) == 0 {
		return nil, errors.NewNothingRecognizedError()
	}

	selection.Add(items...)
	if err := s.saveSession(ctx, selection); err != nil {
		return nil, err
	}

	s.logger.Info("Ingredients recognized from photo",
		zap.String("session_id", selection.ID.String()),
		zap.Strings("ingredients", names),
	)
	return &inbound.RecognitionDTO{
		Recognized: names,
		Selection:  s.selectionToDTO(selection),
	}, nil
}

// FindCatalogRecipes returns catalog recipes that only use selected
// ingredients and satisfy filters
func (s *Service) FindCatalogRecipes(ctx context.Context, sessionID uuid.UUID, filters recipe.Filters) ([]recipe.Recipe, error) {
	ctx, span := s.tracer.Start(ctx, "planner.FindCatalogRecipes")
	defer span.End()

	selection, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if selection.IsEmpty() {
		return nil, errors.NewEmptySelectionError()
	}

	catalog := s.catalogs.Current()
	matched := recipe.FindReal(catalog, selection.Names(), filters)

	span.SetAttributes(
		attribute.Int("planner.catalog_recipes", catalog.RecipeCount()),
		attribute.Int("planner.matched", len(matched)),
	)
	s.publish(ctx, recipe.RecipesGeneratedEvent{
		Provenance:  recipe.ProvenanceReal,
		Candidates:  catalog.RecipeCount(),
		Matched:     len(matched),
		GeneratedAt: time.Now(),
	})
	return matched, nil
}

// SynthesizeRecipes builds the three candidates from the selection and
// keeps those that satisfy filters
func (s *Service) SynthesizeRecipes(ctx context.Context, sessionID uuid.UUID, filters recipe.Filters) ([]recipe.Recipe, error) {
	ctx, span := s.tracer.Start(ctx, "planner.SynthesizeRecipes")
	defer span.End()

	selection, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if selection.IsEmpty() {
		return nil, errors.NewEmptySelectionError()
	}

	candidates := recipe.Synthesize(s.catalogs.Current(), selection.Snapshot(), filters)
	matched := recipe.Filter(candidates, filters)

	span.SetAttributes(
		attribute.Int("planner.candidates", len(candidates)),
		attribute.Int("planner.matched", len(matched)),
	)
	s.logger.Debug("Recipes synthesized",
		zap.String("session_id", sessionID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("matched", len(matched)),
	)
	s.publish(ctx, recipe.RecipesGeneratedEvent{
		Provenance:  recipe.ProvenanceSynthesized,
		Candidates:  len(candidates),
		Matched:     len(matched),
		GeneratedAt: time.Now(),
	})
	return matched, nil
}

// recognizedGrams is the quantity assumed for photo-detected ingredients
const recognizedGrams = 100

func (s *Service) loadSession(ctx context.Context, id uuid.UUID) (*session.Selection, error) {
	selection, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, session.ErrSessionNotFound) {
			return nil, errors.NewSessionNotFoundError(id.String())
		}
		return nil, errors.NewStorageError("load session", err)
	}
	return selection, nil
}

func (s *Service) saveSession(ctx context.Context, selection *session.Selection) error {
	if err := s.sessions.Save(ctx, selection); err != nil {
		return errors.NewStorageError("save session", err)
	}
	for _, event := range selection.Events() {
		s.publish(ctx, event)
	}
	return nil
}

// publish is best effort; a failed publication never fails the command
func (s *Service) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to encode event", zap.String("event", event.EventName()), zap.Error(err))
		return
	}
	msg := outbound.Message{
		ID:        uuid.NewString(),
		Type:      event.EventName(),
		Payload:   payload,
		Timestamp: event.OccurredAt(),
	}
	if err := s.events.Publish(ctx, event.EventName(), msg); err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("event", event.EventName()),
			zap.Error(err),
		)
	}
}

func (s *Service) selectionToDTO(selection *session.Selection) *inbound.SelectionDTO {
	catalog := s.catalogs.Current()
	items := make([]inbound.SelectionItemDTO, 0, len(selection.Items))
	for i, item := range selection.Items {
		dto := inbound.SelectionItemDTO{
			Index:           i,
			Name:            item.Name,
			Grams:           item.Grams,
			DisplayQuantity: item.DisplayQuantity,
			DisplayUnit:     item.DisplayUnit,
		}
		if dto.DisplayUnit == "" {
			dto.DisplayQuantity = item.Grams
			dto.DisplayUnit = recipe.UnitGram
		}
		if info, ok := catalog.Lookup(item.Name); ok {
			dto.Nutrition = recipe.ItemNutrition(info, item.Grams)
		}
		items = append(items, dto)
	}

	return &inbound.SelectionDTO{
		ID:        selection.ID,
		Items:     items,
		Totals:    recipe.Aggregate(catalog, selection.Items),
		DietTags:  recipe.DeriveDietTags(catalog, selection.Items),
		UpdatedAt: selection.UpdatedAt,
	}
}

func mapItemError(err error, name string, quantity float64, unit recipe.Unit) error {
	switch {
	case stderrors.Is(err, recipe.ErrUnknownIngredient):
		return errors.NewIngredientNotFoundError(name)
	case stderrors.Is(err, recipe.ErrInvalidQuantity):
		return errors.NewInvalidQuantityError(quantity)
	case stderrors.Is(err, recipe.ErrUnsupportedUnit):
		return errors.NewUnsupportedUnitError(name, string(unit))
	default:
		return errors.Wrap(err, "failed to build selection item")
	}
}
