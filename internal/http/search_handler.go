package http

import (
	"context"
	"net/http"

	"github.com/NachoBarcelo/LibRo-backend/internal/catalog"
	"github.com/NachoBarcelo/LibRo-backend/internal/httpx"
)

// SearchResolver is the slice of the catalog resolver serving the search
// endpoints.
type SearchResolver interface {
	SearchBooks(ctx context.Context, query string) ([]catalog.SearchItem, error)
	SearchBookDetail(ctx context.Context, query string) (catalog.SearchDetail, error)
}

type SearchHandler struct {
	resolver SearchResolver
}

func NewSearchHandler(resolver SearchResolver) *SearchHandler {
	return &SearchHandler{resolver: resolver}
}

// Search handles /api/books/search?query=. The response is a bare DTO list,
// the shape the frontend consumes directly.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	items, err := h.resolver.SearchBooks(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONRaw(w, http.StatusOK, items)
}

// SearchDetail handles /api/books/search/detail?query=.
func (h *SearchHandler) SearchDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	detail, err := h.resolver.SearchBookDetail(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONRaw(w, http.StatusOK, detail)
}
