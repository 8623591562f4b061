package usecase

import (
	"context"
	"errors"

	"github.com/NachoBarcelo/LibRo-backend/internal/catalog"
	"github.com/NachoBarcelo/LibRo-backend/internal/entity"

	"github.com/google/uuid"
)

// ErrBookNotFound is returned when a book id or external id matches nothing.
var ErrBookNotFound = errors.New("book not found")

// BookRepository defines the contract for book storage.
type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	List(ctx context.Context) ([]entity.Book, error)
	GetByID(ctx context.Context, id string) (entity.Book, error)
	GetByExternalID(ctx context.Context, externalID string) (entity.Book, error)
}

// ExternalResolver is the slice of the catalog resolver the book service
// uses: storage-time identifier resolution and best-effort enrichment.
type ExternalResolver interface {
	ResolveExternalID(ctx context.Context, externalID, title, author string) string
	BookDetails(ctx context.Context, externalID, title, author string) *catalog.WorkDetails
}

type CreateBookInput struct {
	ExternalID    string
	Title         string
	Author        string
	CoverImage    string
	PublishedYear *int
}

// BookDetails is a stored book plus its best-effort catalog enrichment.
// The stored row stays authoritative; CatalogAuthor and CatalogCover carry
// the catalog's view alongside it. All enrichment fields stay null (and
// Genres empty) when the catalog is unreachable or the identifier never
// resolves; that is the documented degraded view.
type BookDetails struct {
	entity.Book
	Synopsis      *string  `json:"synopsis"`
	Genres        []string `json:"genres"`
	CatalogAuthor *string  `json:"catalogAuthor"`
	CatalogCover  *string  `json:"catalogCover"`
}

type BookService struct {
	repo     BookRepository
	resolver ExternalResolver
}

func NewBookService(repo BookRepository, resolver ExternalResolver) *BookService {
	return &BookService{repo: repo, resolver: resolver}
}

// CreateIfMissing stores a book keyed by its resolved external id, returning
// the existing row untouched when one is already cataloged. Resolution is
// lenient: an identifier that cannot be mapped to a work key is stored as
// submitted.
func (s *BookService) CreateIfMissing(ctx context.Context, in CreateBookInput) (entity.Book, bool, error) {
	externalID := s.resolver.ResolveExternalID(ctx, in.ExternalID, in.Title, in.Author)

	existing, err := s.repo.GetByExternalID(ctx, externalID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrBookNotFound) {
		return entity.Book{}, false, err
	}

	book := entity.Book{
		ID:            uuid.NewString(),
		ExternalID:    externalID,
		Title:         in.Title,
		Author:        in.Author,
		CoverImage:    in.CoverImage,
		PublishedYear: in.PublishedYear,
	}
	if err := s.repo.Create(ctx, &book); err != nil {
		return entity.Book{}, false, err
	}
	return book, true, nil
}

// List returns all books, newest first.
func (s *BookService) List(ctx context.Context) ([]entity.Book, error) {
	return s.repo.List(ctx)
}

// Details returns a book with catalog enrichment attached. Enrichment
// failures never fail the call.
func (s *BookService) Details(ctx context.Context, id string) (BookDetails, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return BookDetails{}, err
	}

	details := BookDetails{
		Book:   book,
		Genres: []string{},
	}
	if enriched := s.resolver.BookDetails(ctx, book.ExternalID, book.Title, book.Author); enriched != nil {
		details.Synopsis = enriched.Synopsis
		details.Genres = enriched.Genres
		if enriched.Author != "" {
			details.CatalogAuthor = &enriched.Author
		}
		if enriched.CoverURL != "" {
			details.CatalogCover = &enriched.CoverURL
		}
	}
	return details, nil
}
