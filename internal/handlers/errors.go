package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// transactionBody identifies the offending allocation in a validation response.
type transactionBody struct {
	SourceType string `json:"sourceType"`
	SourceID   string `json:"sourceId"`
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error       string           `json:"error"`
	Rule        string           `json:"rule,omitempty"`
	Transaction *transactionBody `json:"transaction,omitempty"`
	Retryable   bool             `json:"retryable,omitempty"`
}

// respondError maps service errors to HTTP responses.
// Storage and unexpected errors are logged and hidden behind fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.Warn("Allocation rejected", slog.String("rule", string(verr.Rule)), slog.String("error", err.Error()))
		body := errorBody{Error: verr.Message, Rule: string(verr.Rule)}
		if verr.SourceType != "" || verr.SourceID != "" {
			body.Transaction = &transactionBody{SourceType: verr.SourceType, SourceID: verr.SourceID}
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, errorBody{Error: notFoundMessage(err)})
	case errors.Is(err, apperrors.ErrConcurrency):
		logger.Warn("Concurrent modification", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, errorBody{Error: apperrors.ErrConcurrency.Error(), Retryable: true})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, errorBody{Error: err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorBody{Error: fallback})
	}
}

func notFoundMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == http.StatusNotFound {
		return appErr.Message
	}
	return apperrors.ErrNotFound.Error()
}
