// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mealmatch/planner/pkg/errors"
	"go.uber.org/zap"
)

// maxJSONBody bounds decoded request bodies
const maxJSONBody = 1 << 20

var errEmptyBody = errors.NewBadRequestError("Request body is empty")

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

func writeData(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	writeJSON(w, logger, status, APIResponse{Success: true, Data: data})
}

// writeError renders err as an ErrorResponse. Errors that are not
// AppErrors are logged and reported as internal errors.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	requestID := chimiddleware.GetReqID(r.Context())

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.NewInternalError("An unexpected error occurred").WithCause(err)
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("request_id", requestID),
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
	}

	writeJSON(w, logger, appErr.StatusCode(), errors.ToErrorResponse(appErr, requestID))
}

// decodeJSON reads a single JSON document into dst and validates it
func decodeJSON(w http.ResponseWriter, r *http.Request, v *Validator, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return errors.NewAppError(errors.CodeBadRequest, "Malformed JSON body", err.Error())
	}
	return v.Struct(dst)
}

func sessionIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "sessionID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.NewSessionNotFoundError(raw)
	}
	return id, nil
}

func intParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.NewAppError(errors.CodeBadRequest, "Invalid "+name, raw)
	}
	return n, nil
}
