package http

import (
	"errors"
	"net/http"

	"github.com/NachoBarcelo/LibRo-backend/internal/catalog"
	"github.com/NachoBarcelo/LibRo-backend/internal/httpx"
	"github.com/NachoBarcelo/LibRo-backend/internal/platform/openlibrary"
	"github.com/NachoBarcelo/LibRo-backend/internal/usecase"
)

// writeError maps domain failures to protocol responses. Upstream catalog
// failures surface as gateway errors, never as internal ones.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrBookNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", "Book not found", nil)
	case errors.Is(err, usecase.ErrUserBookNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", "User book entry not found", nil)
	case errors.Is(err, usecase.ErrReviewNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", "Review not found", nil)
	case errors.Is(err, catalog.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", "No matching books found", nil)
	case errors.Is(err, usecase.ErrNoUpdateFields):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "At least one field is required", nil)
	case errors.Is(err, catalog.ErrInvalidQuery):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "Query is required", nil)
	case errors.Is(err, catalog.ErrInvalidWorkKey):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "Invalid Open Library work id", nil)
	case errors.Is(err, openlibrary.ErrTimeout):
		httpx.JSONError(w, http.StatusGatewayTimeout, "upstream_timeout", "Open Library request timeout", nil)
	default:
		var upstream *openlibrary.UpstreamError
		if errors.As(err, &upstream) {
			httpx.JSONError(w, http.StatusBadGateway, "upstream_error", "Open Library returned an error", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}

func writeValidationError(w http.ResponseWriter, errs []ValidationError) {
	details := make([]httpx.ErrorDetail, 0, len(errs))
	for _, e := range errs {
		details = append(details, httpx.ErrorDetail{Field: e.Field, Message: e.Message})
	}
	httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "Validation failed", details)
}
