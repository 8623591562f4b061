package usecase

import (
	"context"
	"errors"

	"github.com/NachoBarcelo/LibRo-backend/internal/entity"

	"github.com/google/uuid"
)

// ErrUserBookNotFound is returned when a shelf entry id matches nothing.
var ErrUserBookNotFound = errors.New("user book entry not found")

// UserBookRepository defines the contract for shelf storage.
type UserBookRepository interface {
	Upsert(ctx context.Context, ub *entity.UserBook) (entity.UserBook, error)
	ListByStatus(ctx context.Context, status string) ([]entity.UserBook, error)
	GetByID(ctx context.Context, id string) (entity.UserBook, error)
	Delete(ctx context.Context, id string) error
}

type UserBookService struct {
	repo  UserBookRepository
	books BookRepository
}

func NewUserBookService(repo UserBookRepository, books BookRepository) *UserBookService {
	return &UserBookService{repo: repo, books: books}
}

// Upsert sets the reading status for a book, creating the shelf entry when
// none exists. There is at most one entry per book.
func (s *UserBookService) Upsert(ctx context.Context, bookID, status string) (entity.UserBook, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return entity.UserBook{}, err
	}

	ub := entity.UserBook{
		ID:     uuid.NewString(),
		BookID: bookID,
		Status: status,
	}
	return s.repo.Upsert(ctx, &ub)
}

// List returns shelf entries, optionally filtered by status, newest first.
func (s *UserBookService) List(ctx context.Context, status string) ([]entity.UserBook, error) {
	return s.repo.ListByStatus(ctx, status)
}

// Delete removes a shelf entry by its id.
func (s *UserBookService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
