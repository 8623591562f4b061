package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/NachoBarcelo/LibRo-backend/internal/entity"
	"github.com/NachoBarcelo/LibRo-backend/internal/httpx"
	"github.com/NachoBarcelo/LibRo-backend/internal/usecase"

	"github.com/google/uuid"
)

type UserBookHandler struct {
	userBooks *usecase.UserBookService
}

func NewUserBookHandler(userBooks *usecase.UserBookService) *UserBookHandler {
	return &UserBookHandler{userBooks: userBooks}
}

type upsertUserBookRequest struct {
	BookID string `json:"bookId" validate:"required,uuid"`
	Status string `json:"status" validate:"required,oneof=FAVORITE TO_READ READ"`
}

// Collection handles /user-books: POST upserts a shelf entry, GET lists
// entries optionally filtered by ?status=.
func (h *UserBookHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.upsert(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *UserBookHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertUserBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "Invalid JSON body", nil)
		return
	}
	if errs := ValidateStruct(req); errs != nil {
		writeValidationError(w, errs)
		return
	}

	ub, err := h.userBooks.Upsert(r.Context(), req.BookID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, ub)
}

func (h *UserBookHandler) list(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && status != entity.StatusFavorite && status != entity.StatusToRead && status != entity.StatusRead {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "status must be one of: FAVORITE TO_READ READ", nil)
		return
	}

	items, err := h.userBooks.List(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, items)
}

// Item handles DELETE /user-books/{id}.
func (h *UserBookHandler) Item(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/user-books/")
	if _, err := uuid.Parse(id); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "Invalid user book id", nil)
		return
	}

	if err := h.userBooks.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
