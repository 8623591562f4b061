package http

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/NachoBarcelo/LibRo-backend/internal/catalog"
	"github.com/NachoBarcelo/LibRo-backend/internal/httpx"
	"github.com/NachoBarcelo/LibRo-backend/internal/usecase"

	"github.com/google/uuid"
)

// EditionLister is the slice of the catalog resolver serving the editions
// endpoint.
type EditionLister interface {
	WorkEditions(ctx context.Context, workID string) ([]catalog.EditionItem, error)
}

type BookHandler struct {
	books    *usecase.BookService
	editions EditionLister
}

func NewBookHandler(books *usecase.BookService, editions EditionLister) *BookHandler {
	return &BookHandler{books: books, editions: editions}
}

type createBookRequest struct {
	ExternalID    string `json:"externalId" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	CoverImage    string `json:"coverImage" validate:"required,url"`
	PublishedYear *int   `json:"publishedYear" validate:"omitempty,gt=0"`
}

// Collection handles /books: POST creates a book if missing, GET lists all.
func (h *BookHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *BookHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "Invalid JSON body", nil)
		return
	}
	if errs := ValidateStruct(req); errs != nil {
		writeValidationError(w, errs)
		return
	}

	book, created, err := h.books.CreateIfMissing(r.Context(), usecase.CreateBookInput{
		ExternalID:    req.ExternalID,
		Title:         req.Title,
		Author:        req.Author,
		CoverImage:    req.CoverImage,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccessCreated(w, created, book)
}

func (h *BookHandler) list(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, books)
}

var workIDPathRe = regexp.MustCompile(`(?i)^(OL\d+W|/works/OL\d+W)$`)

// Item handles /books/{id} and /books/{workId}/editions with net/http's
// ServeMux path parsing.
func (h *BookHandler) Item(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/books/")
	if workID, ok := strings.CutSuffix(rest, "/editions"); ok {
		// The work id may arrive as a bare "OL...W" or as a full
		// "/works/OL...W" key whose leading slash the mux swallowed.
		if strings.HasPrefix(strings.ToLower(workID), "works/") {
			workID = "/" + workID
		}
		h.listEditions(w, r, workID)
		return
	}
	h.details(w, r, rest)
}

func (h *BookHandler) listEditions(w http.ResponseWriter, r *http.Request, workID string) {
	if !workIDPathRe.MatchString(workID) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "Invalid Open Library work id", nil)
		return
	}

	editions, err := h.editions.WorkEditions(r.Context(), workID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONRaw(w, http.StatusOK, editions)
}

func (h *BookHandler) details(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := uuid.Parse(id); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", "Invalid book id", nil)
		return
	}

	details, err := h.books.Details(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, http.StatusOK, details)
}
