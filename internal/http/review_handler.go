package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/NachoBarcelo/LibRo-backend/internal/httpx"
	"github.com/NachoBarcelo/LibRo-backend/internal/usecase"

	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviews *usecase.ReviewService
}

func NewReviewHandler(reviews *usecase.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type createReviewRequest struct {
	BookID  string `json:"bookId" validate:"required,uuid"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

type updateReviewRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1"`
	Content *string `json:"content" validate:"omitempty,min=1"`
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

// Collection handles /reviews: POST creates, GET lists all.
func (h *ReviewHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *ReviewHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "Invalid JSON body", nil)
		return
	}
	if errs := ValidateStruct(req); errs != nil {
		writeValidationError(w, errs)
		return
	}

	review, err := h.reviews.Create(r.Context(), usecase.CreateReviewInput{
		BookID:  req.BookID,
		Title:   req.Title,
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccessCreated(w, true, review)
}

func (h *ReviewHandler) list(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, reviews)
}

// Item handles /reviews/{id} (GET, PUT, DELETE) and /reviews/book/{bookId}
// (GET) with net/http's ServeMux path parsing.
func (h *ReviewHandler) Item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/reviews/")

	if bookID, ok := strings.CutPrefix(rest, "book/"); ok {
		h.listByBook(w, r, bookID)
		return
	}

	if _, err := uuid.Parse(rest); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "Invalid review id", nil)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, rest)
	case http.MethodPut:
		h.update(w, r, rest)
	case http.MethodDelete:
		h.delete(w, r, rest)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *ReviewHandler) listByBook(w http.ResponseWriter, r *http.Request, bookID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, err := uuid.Parse(bookID); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "Invalid book id", nil)
		return
	}

	reviews, err := h.reviews.ListByBook(r.Context(), bookID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	review, err := h.reviews.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, review)
}

func (h *ReviewHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req updateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "Invalid JSON body", nil)
		return
	}
	if errs := ValidateStruct(req); errs != nil {
		writeValidationError(w, errs)
		return
	}

	input := usecase.UpdateReviewInput{Title: req.Title, Content: req.Content, Rating: req.Rating}
	review, err := h.reviews.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, review)
}

func (h *ReviewHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.reviews.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
