package catalog

// Wire DTOs for the search endpoints. Field names are the Spanish ones the
// LibRo frontend consumes.

// SearchItem is one row of the search list response.
type SearchItem struct {
	Title      string  `json:"titulo"`
	Author     string  `json:"autor"`
	Image      *string `json:"imagen"`
	ExternalID *string `json:"externalId"`
}

// SearchDetail describes the preferred edition for a search query. All
// catalog-sourced fields are null in the degraded result.
type SearchDetail struct {
	Title     string  `json:"titulo"`
	Author    string  `json:"autor"`
	Language  string  `json:"idioma"`
	ISBN      *string `json:"isbn"`
	Year      *string `json:"anio"`
	Publisher *string `json:"editorial"`
	Image     *string `json:"imagen"`
}

// EditionItem is one row of a work's edition list response.
type EditionItem struct {
	EditionID *string `json:"edicionId"`
	Language  string  `json:"idioma"`
	ISBN      *string `json:"isbn"`
	Year      *string `json:"anio"`
	Publisher *string `json:"editorial"`
	Image     *string `json:"imagen"`
}

// WorkDetails is the best-effort enrichment attached to a stored book's
// detail view.
type WorkDetails struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	CoverURL string   `json:"coverUrl,omitempty"`
	Synopsis *string  `json:"synopsis"`
	Genres   []string `json:"genres"`
}
