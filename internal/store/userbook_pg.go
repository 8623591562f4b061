package store

import (
	"context"
	"errors"

	"github.com/NachoBarcelo/LibRo-backend/internal/entity"
	"github.com/NachoBarcelo/LibRo-backend/internal/usecase"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserBookPG struct {
	db *pgxpool.Pool
}

func NewUserBookPG(db *pgxpool.Pool) *UserBookPG {
	return &UserBookPG{db: db}
}

const userBookColumns = `
	ub.id, ub.book_id, ub.status, ub.created_at, ub.updated_at,
	b.id, b.external_id, b.title, b.author, b.cover_image, b.published_year, b.created_at, b.updated_at
`

func (r *UserBookPG) Upsert(ctx context.Context, ub *entity.UserBook) (entity.UserBook, error) {
	query := `
	WITH upserted AS (
		INSERT INTO user_books (id, book_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (book_id) DO UPDATE SET status = EXCLUDED.status, updated_at = now()
		RETURNING id, book_id, status, created_at, updated_at
	)
	SELECT ` + userBookColumns + `
	FROM upserted ub
	JOIN books b ON b.id = ub.book_id
	`
	return r.scanOne(r.db.QueryRow(ctx, query, ub.ID, ub.BookID, ub.Status))
}

func (r *UserBookPG) ListByStatus(ctx context.Context, status string) ([]entity.UserBook, error) {
	query := `
	SELECT ` + userBookColumns + `
	FROM user_books ub
	JOIN books b ON b.id = ub.book_id
	WHERE ($1 = '' OR ub.status = $1)
	ORDER BY ub.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entity.UserBook
	for rows.Next() {
		item, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *UserBookPG) GetByID(ctx context.Context, id string) (entity.UserBook, error) {
	query := `
	SELECT ` + userBookColumns + `
	FROM user_books ub
	JOIN books b ON b.id = ub.book_id
	WHERE ub.id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *UserBookPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrUserBookNotFound
	}
	return nil
}

func (r *UserBookPG) scanOne(row pgx.Row) (entity.UserBook, error) {
	var (
		ub entity.UserBook
		b  entity.Book
	)
	err := row.Scan(
		&ub.ID, &ub.BookID, &ub.Status, &ub.CreatedAt, &ub.UpdatedAt,
		&b.ID, &b.ExternalID, &b.Title, &b.Author, &b.CoverImage, &b.PublishedYear, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.UserBook{}, usecase.ErrUserBookNotFound
	}
	if err != nil {
		return entity.UserBook{}, err
	}
	ub.Book = &b
	return ub, nil
}
