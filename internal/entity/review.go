package entity

import "time"

// Review is a written review of a cataloged book, rating 1..5.
type Review struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Book      *Book     `json:"book,omitempty"`
}
