package entity

import "time"

// Reading statuses. The deployment is single-user, so a book appears on the
// shelf at most once.
const (
	StatusFavorite = "FAVORITE"
	StatusToRead   = "TO_READ"
	StatusRead     = "READ"
)

// UserBook is a shelf entry: one book with its reading status.
type UserBook struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Book      *Book     `json:"book,omitempty"`
}
