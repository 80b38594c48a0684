package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mealmatch/planner/internal/application/library"
	"github.com/mealmatch/planner/internal/application/planner"
	"github.com/mealmatch/planner/internal/infrastructure/http/handlers"
	"github.com/mealmatch/planner/internal/infrastructure/recognition"
	"github.com/mealmatch/planner/pkg/errors"
	"github.com/mealmatch/planner/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type selectionBody struct {
	ID    string `json:"id"`
	Items []struct {
		Index int     `json:"index"`
		Name  string  `json:"name"`
		Grams float64 `json:"grams"`
	} `json:"items"`
	Totals struct {
		Kcal    float64 `json:"kcal"`
		Protein float64 `json:"protein"`
	} `json:"totals"`
	DietTags []string `json:"diet_tags"`
}

// HandlersTestSuite drives the API through a chi router backed by real services
type HandlersTestSuite struct {
	suite.Suite
	router http.Handler
	store  *testutils.InMemoryKeyValueStore
}

func (suite *HandlersTestSuite) SetupTest() {
	logger := zap.NewNop()
	catalogs := testutils.StaticCatalogProvider{Catalog: testutils.FixtureCatalog()}
	suite.store = testutils.NewInMemoryKeyValueStore()

	plannerService := planner.NewService(
		catalogs,
		testutils.NewInMemorySessionRepository(),
		recognition.NewStaticRecognizer(recognition.DefaultCandidates, recognition.DefaultMaxResults, logger),
		nil,
		logger,
	)
	libraryService := library.NewService(suite.store, "", logger)

	validator := handlers.NewValidator()
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Route("/api/v1", func(r chi.Router) {
		handlers.NewPlannerHandlers(plannerService, validator, 1<<16, logger).Routes(r)
		handlers.NewLibraryHandlers(libraryService, validator, logger).Routes(r)
	})
	suite.router = r
}

func (suite *HandlersTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *HandlersTestSuite) decode(rec *httptest.ResponseRecorder, dst interface{}) {
	var env envelope
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.True(suite.T(), env.Success)
	require.NoError(suite.T(), json.Unmarshal(env.Data, dst))
}

func (suite *HandlersTestSuite) errorCode(rec *httptest.ResponseRecorder) errors.ErrorCode {
	var body errors.ErrorResponse
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error.Code
}

func (suite *HandlersTestSuite) startSession() string {
	rec := suite.do(http.MethodPost, "/api/v1/sessions", "")
	require.Equal(suite.T(), http.StatusCreated, rec.Code)

	var selection selectionBody
	suite.decode(rec, &selection)
	assert.Equal(suite.T(), "/api/v1/sessions/"+selection.ID, rec.Header().Get("Location"))
	return selection.ID
}

func (suite *HandlersTestSuite) TestSuggestIngredients() {
	rec := suite.do(http.MethodGet, "/api/v1/ingredients?q=CHICK", "")

	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var hits []struct {
		Name string  `json:"name"`
		Kcal float64 `json:"kcal"`
	}
	suite.decode(rec, &hits)
	require.Len(suite.T(), hits, 1)
	assert.Equal(suite.T(), "Chicken breast", hits[0].Name)
	assert.Equal(suite.T(), 165.0, hits[0].Kcal)

	bad := suite.do(http.MethodGet, "/api/v1/ingredients?q=a&limit=x", "")
	assert.Equal(suite.T(), http.StatusBadRequest, bad.Code)
}

func (suite *HandlersTestSuite) TestDescribeIngredient() {
	rec := suite.do(http.MethodGet, "/api/v1/ingredients/Olive%20oil", "")

	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var ingredient struct {
		Type  string   `json:"type"`
		Units []string `json:"units"`
	}
	suite.decode(rec, &ingredient)
	assert.Equal(suite.T(), "liquid", ingredient.Type)
	assert.Contains(suite.T(), ingredient.Units, "tablespoon")

	missing := suite.do(http.MethodGet, "/api/v1/ingredients/Unicorn", "")
	assert.Equal(suite.T(), http.StatusNotFound, missing.Code)
	assert.Equal(suite.T(), errors.CodeIngredientNotFound, suite.errorCode(missing))
}

func (suite *HandlersTestSuite) TestSelectionLifecycle() {
	id := suite.startSession()
	base := "/api/v1/sessions/" + id

	// Arrange
	rec := suite.do(http.MethodPost, base+"/ingredients", `{"name":"Chicken breast","quantity":200,"unit":"g"}`)
	require.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())

	// Act
	rec = suite.do(http.MethodPost, base+"/ingredients", `{"name":"Egg","quantity":2}`)
	require.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())

	// Assert
	var selection selectionBody
	suite.decode(rec, &selection)
	require.Len(suite.T(), selection.Items, 2)
	assert.Equal(suite.T(), 120.0, selection.Items[1].Grams)
	assert.InDelta(suite.T(), 330+186, selection.Totals.Kcal, 0.001)
	assert.Equal(suite.T(), []string{"omnivore"}, selection.DietTags)

	rec = suite.do(http.MethodPut, base+"/ingredients/0", `{"quantity":100,"unit":"g"}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	suite.decode(rec, &selection)
	assert.Equal(suite.T(), 100.0, selection.Items[0].Grams)

	rec = suite.do(http.MethodDelete, base+"/ingredients/0", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	suite.decode(rec, &selection)
	require.Len(suite.T(), selection.Items, 1)
	assert.Equal(suite.T(), "Egg", selection.Items[0].Name)
	assert.Equal(suite.T(), []string{"vegetarian", "omnivore"}, selection.DietTags)

	rec = suite.do(http.MethodGet, base, "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *HandlersTestSuite) TestAddIngredientErrors() {
	base := "/api/v1/sessions/" + suite.startSession()

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.ErrorCode
	}{
		{"unknown ingredient", `{"name":"Unicorn","quantity":1}`, http.StatusNotFound, errors.CodeIngredientNotFound},
		{"zero quantity", `{"name":"Tofu","quantity":0}`, http.StatusBadRequest, errors.CodeInvalidQuantity},
		{"negative quantity", `{"name":"Tofu","quantity":-5}`, http.StatusBadRequest, errors.CodeInvalidQuantity},
		{"unsupported unit", `{"name":"Tofu","quantity":1,"unit":"tablespoon"}`, http.StatusBadRequest, errors.CodeUnsupportedUnit},
		{"missing name", `{"quantity":1}`, http.StatusBadRequest, errors.CodeValidationFailed},
		{"blank name", `{"name":"   ","quantity":1}`, http.StatusBadRequest, errors.CodeValidationFailed},
		{"unknown field", `{"name":"Tofu","quantity":1,"extra":true}`, http.StatusBadRequest, errors.CodeBadRequest},
		{"malformed", `{"name":`, http.StatusBadRequest, errors.CodeBadRequest},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			rec := suite.do(http.MethodPost, base+"/ingredients", tt.body)

			assert.Equal(suite.T(), tt.status, rec.Code, rec.Body.String())
			assert.Equal(suite.T(), tt.code, suite.errorCode(rec))
		})
	}

	rec := suite.do(http.MethodGet, base, "")
	var selection selectionBody
	suite.decode(rec, &selection)
	assert.Empty(suite.T(), selection.Items)
}

func (suite *HandlersTestSuite) TestUnknownSession() {
	rec := suite.do(http.MethodGet, "/api/v1/sessions/not-a-uuid", "")
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Equal(suite.T(), errors.CodeSessionNotFound, suite.errorCode(rec))

	rec = suite.do(http.MethodGet, "/api/v1/sessions/0b9a3d7c-58e4-4a4e-9d43-2f1f3c3b7a11", "")
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *HandlersTestSuite) TestRecognizePhoto() {
	base := "/api/v1/sessions/" + suite.startSession()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("photo", "fridge.jpg")
	require.NoError(suite.T(), err)
	_, _ = part.Write([]byte("\xff\xd8\xff\xe0 jpeg bytes"))
	require.NoError(suite.T(), form.Close())

	req := httptest.NewRequest(http.MethodPost, base+"/recognize", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)

	require.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	var result struct {
		Recognized []string      `json:"recognized"`
		Selection  selectionBody `json:"selection"`
	}
	suite.decode(rec, &result)
	assert.NotEmpty(suite.T(), result.Recognized)
	for _, item := range result.Selection.Items {
		assert.Equal(suite.T(), 100.0, item.Grams)
	}

	missing := suite.do(http.MethodPost, base+"/recognize", "")
	assert.Equal(suite.T(), http.StatusBadRequest, missing.Code)
	assert.Equal(suite.T(), errors.CodePhotoRequired, suite.errorCode(missing))
}

func (suite *HandlersTestSuite) TestGenerateRecipes() {
	base := "/api/v1/sessions/" + suite.startSession()

	empty := suite.do(http.MethodPost, base+"/recipes/synthesized", "")
	assert.Equal(suite.T(), http.StatusBadRequest, empty.Code)
	assert.Equal(suite.T(), errors.CodeEmptySelection, suite.errorCode(empty))

	for _, body := range []string{
		`{"name":"Durum wheat pasta","quantity":100}`,
		`{"name":"Zucchini","quantity":150}`,
		`{"name":"Olive oil","quantity":10,"unit":"g"}`,
	} {
		require.Equal(suite.T(), http.StatusCreated, suite.do(http.MethodPost, base+"/ingredients", body).Code)
	}

	rec := suite.do(http.MethodPost, base+"/recipes/catalog", `{"diet":"vegan"}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	var fromCatalog []struct {
		Title string `json:"title"`
	}
	suite.decode(rec, &fromCatalog)
	require.Len(suite.T(), fromCatalog, 1)
	assert.Equal(suite.T(), "Pasta with zucchini", fromCatalog[0].Title)

	rec = suite.do(http.MethodPost, base+"/recipes/synthesized", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	var synthesized []struct {
		Provenance string `json:"provenance"`
	}
	suite.decode(rec, &synthesized)
	require.Len(suite.T(), synthesized, 3)
	assert.Equal(suite.T(), "synthesized", synthesized[0].Provenance)

	rec = suite.do(http.MethodPost, base+"/recipes/synthesized", `{"kcal_max":200}`)
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	suite.decode(rec, &synthesized)
	assert.Empty(suite.T(), synthesized)

	invalid := suite.do(http.MethodPost, base+"/recipes/catalog", `{"diet":"carnivore"}`)
	assert.Equal(suite.T(), http.StatusBadRequest, invalid.Code)
	assert.Equal(suite.T(), errors.CodeValidationFailed, suite.errorCode(invalid))
}

func (suite *HandlersTestSuite) TestSavedRecipes() {
	recipe := `{"provenance":"synthesized","title":"Quick lunch bowl","ingredients":[{"name":"Tofu","grams":100}],` +
		`"totals":{"kcal":76,"protein":8,"carb":1.9,"fat":4.8,"cost":0.6},"time_minutes":15,"steps":["Mix."]}`

	first := suite.do(http.MethodPost, "/api/v1/saved", recipe)
	require.Equal(suite.T(), http.StatusCreated, first.Code, first.Body.String())
	second := suite.do(http.MethodPost, "/api/v1/saved", recipe)
	require.Equal(suite.T(), http.StatusCreated, second.Code)

	var a, b struct {
		ID int64 `json:"id"`
	}
	suite.decode(first, &a)
	suite.decode(second, &b)
	assert.NotEqual(suite.T(), a.ID, b.ID)

	rec := suite.do(http.MethodGet, "/api/v1/saved", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	var list []struct {
		ID int64 `json:"id"`
	}
	suite.decode(rec, &list)
	require.Len(suite.T(), list, 2)
	assert.Equal(suite.T(), b.ID, list[0].ID)

	rec = suite.do(http.MethodDelete, "/api/v1/saved/"+strconv.FormatInt(a.ID, 10), "")
	assert.Equal(suite.T(), http.StatusNoContent, rec.Code)

	rec = suite.do(http.MethodDelete, "/api/v1/saved/"+strconv.FormatInt(a.ID, 10), "")
	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
	assert.Equal(suite.T(), errors.CodeSavedRecipeNotFound, suite.errorCode(rec))

	rec = suite.do(http.MethodGet, "/api/v1/saved/"+strconv.FormatInt(b.ID, 10), "")
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.do(http.MethodGet, "/api/v1/saved/abc", "")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	rec = suite.do(http.MethodPost, "/api/v1/saved", `{"ingredients":[]}`)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	assert.Equal(suite.T(), errors.CodeValidationFailed, suite.errorCode(rec))
}

func (suite *HandlersTestSuite) TestSaveSynthesizedRecipeAsReturned() {
	base := "/api/v1/sessions/" + suite.startSession()
	require.Equal(suite.T(), http.StatusCreated, suite.do(http.MethodPost, base+"/ingredients", `{"name":"Egg","quantity":2}`).Code)

	rec := suite.do(http.MethodPost, base+"/recipes/synthesized", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	var recipes []json.RawMessage
	suite.decode(rec, &recipes)
	require.Len(suite.T(), recipes, 3)

	rec = suite.do(http.MethodPost, "/api/v1/saved", string(recipes[0]))
	require.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())

	var saved struct {
		Recipe struct {
			Provenance  string `json:"provenance"`
			Ingredients []struct {
				Name            string  `json:"name"`
				Grams           float64 `json:"grams"`
				DisplayQuantity float64 `json:"display_quantity"`
				DisplayUnit     string  `json:"display_unit"`
			} `json:"ingredients"`
		} `json:"recipe"`
	}
	suite.decode(rec, &saved)
	assert.Equal(suite.T(), "synthesized", saved.Recipe.Provenance)
	require.Len(suite.T(), saved.Recipe.Ingredients, 1)
	assert.Equal(suite.T(), "Egg", saved.Recipe.Ingredients[0].Name)
	assert.Equal(suite.T(), 2.0, saved.Recipe.Ingredients[0].DisplayQuantity)
	assert.Equal(suite.T(), "piece", saved.Recipe.Ingredients[0].DisplayUnit)

	rec = suite.do(http.MethodGet, "/api/v1/saved", "")
	require.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), `"display_unit":"piece"`)
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
