package entity

import "time"

// Book is a cataloged book. ExternalID holds the Open Library identifier
// supplied at creation time, resolved to a canonical "/works/OL...W" key
// when possible; unresolved identifiers are stored as submitted.
type Book struct {
	ID            string    `json:"id"`
	ExternalID    string    `json:"externalId"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	CoverImage    string    `json:"coverImage"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
