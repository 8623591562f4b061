package store

import (
	"context"
	"errors"

	"github.com/NachoBarcelo/LibRo-backend/internal/entity"
	"github.com/NachoBarcelo/LibRo-backend/internal/usecase"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookPG struct {
	db *pgxpool.Pool
}

func NewBookPG(db *pgxpool.Pool) *BookPG {
	return &BookPG{db: db}
}

func (r *BookPG) Create(ctx context.Context, book *entity.Book) error {
	query := `
	INSERT INTO books (id, external_id, title, author, cover_image, published_year)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		book.ID, book.ExternalID, book.Title, book.Author, book.CoverImage, book.PublishedYear,
	).Scan(&book.CreatedAt, &book.UpdatedAt)
}

func (r *BookPG) List(ctx context.Context) ([]entity.Book, error) {
	query := `
	SELECT id, external_id, title, author, cover_image, published_year, created_at, updated_at
	FROM books
	ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []entity.Book
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(&b.ID, &b.ExternalID, &b.Title, &b.Author, &b.CoverImage, &b.PublishedYear, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *BookPG) GetByID(ctx context.Context, id string) (entity.Book, error) {
	query := `
	SELECT id, external_id, title, author, cover_image, published_year, created_at, updated_at
	FROM books
	WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *BookPG) GetByExternalID(ctx context.Context, externalID string) (entity.Book, error) {
	query := `
	SELECT id, external_id, title, author, cover_image, published_year, created_at, updated_at
	FROM books
	WHERE external_id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, externalID))
}

func (r *BookPG) scanOne(row pgx.Row) (entity.Book, error) {
	var b entity.Book
	err := row.Scan(&b.ID, &b.ExternalID, &b.Title, &b.Author, &b.CoverImage, &b.PublishedYear, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Book{}, usecase.ErrBookNotFound
	}
	if err != nil {
		return entity.Book{}, err
	}
	return b, nil
}
