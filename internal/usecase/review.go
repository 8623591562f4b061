package usecase

import (
	"context"
	"errors"

	"github.com/NachoBarcelo/LibRo-backend/internal/entity"

	"github.com/google/uuid"
)

// ErrReviewNotFound is returned when a review id matches nothing.
var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository defines the contract for review storage.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	List(ctx context.Context) ([]entity.Review, error)
	GetByID(ctx context.Context, id string) (entity.Review, error)
	ListByBook(ctx context.Context, bookID string) ([]entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id string) error
}

type CreateReviewInput struct {
	BookID  string
	Title   string
	Content string
	Rating  int
}

// UpdateReviewInput carries a partial update; nil fields are left untouched.
type UpdateReviewInput struct {
	Title   *string
	Content *string
	Rating  *int
}

type ReviewService struct {
	repo  ReviewRepository
	books BookRepository
}

func NewReviewService(repo ReviewRepository, books BookRepository) *ReviewService {
	return &ReviewService{repo: repo, books: books}
}

// Create stores a review for an existing book.
func (s *ReviewService) Create(ctx context.Context, in CreateReviewInput) (entity.Review, error) {
	book, err := s.books.GetByID(ctx, in.BookID)
	if err != nil {
		return entity.Review{}, err
	}

	review := entity.Review{
		ID:      uuid.NewString(),
		BookID:  in.BookID,
		Title:   in.Title,
		Content: in.Content,
		Rating:  in.Rating,
	}
	if err := s.repo.Create(ctx, &review); err != nil {
		return entity.Review{}, err
	}
	review.Book = &book
	return review, nil
}

// List returns all reviews, newest first.
func (s *ReviewService) List(ctx context.Context) ([]entity.Review, error) {
	return s.repo.List(ctx)
}

// GetByID returns a single review.
func (s *ReviewService) GetByID(ctx context.Context, id string) (entity.Review, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByBook returns a book's reviews, newest first.
func (s *ReviewService) ListByBook(ctx context.Context, bookID string) ([]entity.Review, error) {
	return s.repo.ListByBook(ctx, bookID)
}

// Update applies a partial update to an existing review. An update that
// carries no fields is rejected with ErrNoUpdateFields.
func (s *ReviewService) Update(ctx context.Context, id string, in UpdateReviewInput) (entity.Review, error) {
	if in.IsEmpty() {
		return entity.Review{}, ErrNoUpdateFields
	}

	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return entity.Review{}, err
	}

	if in.Title != nil {
		review.Title = *in.Title
	}
	if in.Content != nil {
		review.Content = *in.Content
	}
	if in.Rating != nil {
		review.Rating = *in.Rating
	}
	if err := s.repo.Update(ctx, &review); err != nil {
		return entity.Review{}, err
	}
	return review, nil
}

// Delete removes a review by its id.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ErrNoUpdateFields is returned when a partial update carries nothing.
var ErrNoUpdateFields = errors.New("at least one field is required")

// IsEmpty reports whether the update carries no fields.
func (in UpdateReviewInput) IsEmpty() bool {
	return in.Title == nil && in.Content == nil && in.Rating == nil
}
