package store

import (
	"context"
	"errors"

	"github.com/NachoBarcelo/LibRo-backend/internal/entity"
	"github.com/NachoBarcelo/LibRo-backend/internal/usecase"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewPG struct {
	db *pgxpool.Pool
}

func NewReviewPG(db *pgxpool.Pool) *ReviewPG {
	return &ReviewPG{db: db}
}

const reviewColumns = `
	r.id, r.book_id, r.title, r.content, r.rating, r.created_at, r.updated_at,
	b.id, b.external_id, b.title, b.author, b.cover_image, b.published_year, b.created_at, b.updated_at
`

func (r *ReviewPG) Create(ctx context.Context, review *entity.Review) error {
	query := `
	INSERT INTO reviews (id, book_id, title, content, rating)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		review.ID, review.BookID, review.Title, review.Content, review.Rating,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
}

func (r *ReviewPG) List(ctx context.Context) ([]entity.Review, error) {
	query := `
	SELECT ` + reviewColumns + `
	FROM reviews r
	JOIN books b ON b.id = r.book_id
	ORDER BY r.created_at DESC
	`
	return r.list(ctx, query)
}

func (r *ReviewPG) ListByBook(ctx context.Context, bookID string) ([]entity.Review, error) {
	query := `
	SELECT ` + reviewColumns + `
	FROM reviews r
	JOIN books b ON b.id = r.book_id
	WHERE r.book_id = $1
	ORDER BY r.created_at DESC
	`
	return r.list(ctx, query, bookID)
}

func (r *ReviewPG) GetByID(ctx context.Context, id string) (entity.Review, error) {
	query := `
	SELECT ` + reviewColumns + `
	FROM reviews r
	JOIN books b ON b.id = r.book_id
	WHERE r.id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *ReviewPG) Update(ctx context.Context, review *entity.Review) error {
	query := `
	UPDATE reviews
	SET title = $2, content = $3, rating = $4, updated_at = now()
	WHERE id = $1
	RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, review.ID, review.Title, review.Content, review.Rating).Scan(&review.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return usecase.ErrReviewNotFound
	}
	return err
}

func (r *ReviewPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewPG) list(ctx context.Context, query string, args ...any) ([]entity.Review, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []entity.Review
	for rows.Next() {
		review, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewPG) scanOne(row pgx.Row) (entity.Review, error) {
	var (
		review entity.Review
		b      entity.Book
	)
	err := row.Scan(
		&review.ID, &review.BookID, &review.Title, &review.Content, &review.Rating, &review.CreatedAt, &review.UpdatedAt,
		&b.ID, &b.ExternalID, &b.Title, &b.Author, &b.CoverImage, &b.PublishedYear, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Review{}, usecase.ErrReviewNotFound
	}
	if err != nil {
		return entity.Review{}, err
	}
	review.Book = &b
	return review, nil
}
