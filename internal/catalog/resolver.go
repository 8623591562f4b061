package catalog

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/NachoBarcelo/LibRo-backend/internal/platform/openlibrary"
	"github.com/NachoBarcelo/LibRo-backend/internal/platform/ttlcache"
)

// ErrNotFound is returned when the catalog has no record for a query.
var ErrNotFound = errors.New("no matching catalog record")

// ErrInvalidQuery is returned for empty or blank search input.
var ErrInvalidQuery = errors.New("query is required")

// ErrInvalidWorkKey is returned when a work id cannot be normalized.
var ErrInvalidWorkKey = errors.New("invalid open library work id")

const (
	cacheTTL = 10 * time.Minute

	// Search list responses are capped like the original frontend expects.
	maxSearchResults = 20

	// Edition enumeration and preferred-edition selection read different
	// slices of a work's edition collection.
	editionListLimit      = 100
	editionSelectionLimit = 20

	maxGenres = 5
)

// OpenLibraryClient is the slice of the platform client the resolver needs.
type OpenLibraryClient interface {
	Search(ctx context.Context, query string) (*openlibrary.SearchResponse, error)
	SearchTitle(ctx context.Context, title string) (*openlibrary.SearchResponse, error)
	SearchByTitleAuthor(ctx context.Context, title, author string) ([]openlibrary.SearchDoc, error)
	GetWork(ctx context.Context, workKey string) (*openlibrary.Work, error)
	FetchAuthorName(ctx context.Context, authorKey string) string
	GetWorkEditions(ctx context.Context, workKey string, limit int) ([]openlibrary.Edition, error)
	GetEditionByID(ctx context.Context, editionID string) (*openlibrary.EditionDetails, error)
}

// Resolver orchestrates identifier normalization, fallback search, and
// edition selection against the Open Library catalog. The two caches are
// process-lifetime state owned by the resolver instance.
type Resolver struct {
	ol          OpenLibraryClient
	searchCache *ttlcache.Cache[[]SearchItem]
	detailCache *ttlcache.Cache[SearchDetail]
}

func NewResolver(ol OpenLibraryClient) *Resolver {
	return NewResolverWithClock(ol, time.Now)
}

// NewResolverWithClock injects the cache clock for tests.
func NewResolverWithClock(ol OpenLibraryClient, now func() time.Time) *Resolver {
	return &Resolver{
		ol:          ol,
		searchCache: ttlcache.NewWithClock[[]SearchItem](cacheTTL, now),
		detailCache: ttlcache.NewWithClock[SearchDetail](cacheTTL, now),
	}
}

// ResolveExternalID maps a submitted identifier to a canonical work key for
// storage. When the identifier does not normalize, a title/author search is
// tried; when that fails too, the original identifier is returned unchanged
// rather than failing book creation.
func (r *Resolver) ResolveExternalID(ctx context.Context, externalID, title, author string) string {
	if key, ok := openlibrary.NormalizeWorkKey(externalID); ok {
		return key
	}

	docs, err := r.ol.SearchByTitleAuthor(ctx, title, author)
	if err != nil {
		log.Printf("resolve external id: fallback search failed for %q: %v", title, err)
		return externalID
	}
	for _, doc := range docs {
		if key, ok := openlibrary.NormalizeWorkKey(doc.Key); ok {
			return key
		}
	}
	return externalID
}

// BookDetails enriches a stored book from the catalog. Every stage is best
// effort: a nil result means the book renders without enrichment, it is
// never an error.
func (r *Resolver) BookDetails(ctx context.Context, externalID, title, author string) *WorkDetails {
	if key, ok := openlibrary.NormalizeWorkKey(externalID); ok {
		return r.workDetails(ctx, key)
	}
	if id, ok := openlibrary.NormalizeEditionID(externalID); ok {
		return r.editionDetails(ctx, id)
	}

	docs, err := r.ol.SearchByTitleAuthor(ctx, title, author)
	if err != nil {
		log.Printf("book details: fallback search failed for %q: %v", title, err)
		return nil
	}
	for _, doc := range docs {
		if key, ok := openlibrary.NormalizeWorkKey(doc.Key); ok {
			return r.workDetails(ctx, key)
		}
	}
	return nil
}

func (r *Resolver) workDetails(ctx context.Context, workKey string) *WorkDetails {
	work, err := r.ol.GetWork(ctx, workKey)
	if err != nil {
		log.Printf("book details: fetching work %s failed: %v", workKey, err)
		return nil
	}

	details := &WorkDetails{
		Title:  work.Title,
		Genres: []string{},
	}
	if synopsis := work.DescriptionText(); synopsis != "" {
		details.Synopsis = &synopsis
	}
	for _, subject := range work.Subjects {
		if len(details.Genres) == maxGenres {
			break
		}
		if s := strings.TrimSpace(subject); s != "" {
			details.Genres = append(details.Genres, s)
		}
	}
	if len(work.Covers) > 0 && work.Covers[0] > 0 {
		details.CoverURL = openlibrary.CoverURLByID(work.Covers[0])
	}
	if len(work.Authors) > 0 {
		details.Author = r.ol.FetchAuthorName(ctx, work.Authors[0].Author.Key)
	}
	return details
}

func (r *Resolver) editionDetails(ctx context.Context, editionID string) *WorkDetails {
	ed, err := r.ol.GetEditionByID(ctx, editionID)
	if err != nil {
		log.Printf("book details: fetching edition %s failed: %v", editionID, err)
		return nil
	}
	return &WorkDetails{
		Title:    ed.Title,
		Author:   ed.AuthorName,
		CoverURL: ed.CoverURL,
		Genres:   []string{},
	}
}

// SearchBooks runs a cached free-text search and maps the docs into list
// DTOs. Docs without a usable title, author, or cover image are dropped.
func (r *Resolver) SearchBooks(ctx context.Context, query string) ([]SearchItem, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, ErrInvalidQuery
	}

	cacheKey := ttlcache.NormalizeKey(trimmed)
	if cached, ok := r.searchCache.Get(cacheKey); ok {
		return cached, nil
	}

	res, err := r.ol.Search(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	items := []SearchItem{}
	for _, doc := range res.Docs {
		if len(items) == maxSearchResults {
			break
		}
		if item, ok := mapSearchDoc(doc); ok {
			items = append(items, item)
		}
	}

	r.searchCache.Set(cacheKey, items)
	return items, nil
}

// SearchBookDetail runs a cached title search and describes the preferred
// edition of the first hit. No docs at all is NotFound; a hit without a work
// key or without editions degrades to a partial DTO with only title and
// author populated.
func (r *Resolver) SearchBookDetail(ctx context.Context, query string) (SearchDetail, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return SearchDetail{}, ErrInvalidQuery
	}

	cacheKey := ttlcache.NormalizeKey(trimmed)
	if cached, ok := r.detailCache.Get(cacheKey); ok {
		return cached, nil
	}

	res, err := r.ol.SearchTitle(ctx, trimmed)
	if err != nil {
		return SearchDetail{}, err
	}
	if len(res.Docs) == 0 {
		return SearchDetail{}, ErrNotFound
	}

	doc := res.Docs[0]
	detail := SearchDetail{
		Title:    strings.TrimSpace(doc.Title),
		Author:   joinAuthors(doc.AuthorNames),
		Language: openlibrary.LabelOther,
	}

	if workKey, ok := openlibrary.NormalizeWorkKey(doc.Key); ok {
		editions, err := r.ol.GetWorkEditions(ctx, workKey, editionSelectionLimit)
		if err != nil {
			log.Printf("search detail: fetching editions for %s failed: %v", workKey, err)
		}
		if ed := openlibrary.SelectPreferredEdition(editions); ed != nil {
			fillFromEdition(&detail, ed)
		}
	}

	r.detailCache.Set(cacheKey, detail)
	return detail, nil
}

// WorkEditions enumerates a work's editions as edition DTOs.
func (r *Resolver) WorkEditions(ctx context.Context, workID string) ([]EditionItem, error) {
	workKey, ok := openlibrary.NormalizeWorkKey(workID)
	if !ok {
		return nil, ErrInvalidWorkKey
	}

	editions, err := r.ol.GetWorkEditions(ctx, workKey, editionListLimit)
	if err != nil {
		return nil, err
	}

	items := make([]EditionItem, 0, len(editions))
	for i := range editions {
		items = append(items, mapEdition(&editions[i]))
	}
	return items, nil
}

func mapSearchDoc(doc openlibrary.SearchDoc) (SearchItem, bool) {
	title := strings.TrimSpace(doc.Title)
	author := joinAuthors(doc.AuthorNames)
	isbn := firstNonEmpty(doc.ISBN)

	olid := strings.TrimSpace(doc.CoverEditionKey)
	if olid == "" {
		olid = firstNonEmpty(doc.EditionKeys)
	}

	var image string
	switch {
	case isbn != "":
		image = openlibrary.CoverURLByISBN(isbn)
	case olid != "":
		image = openlibrary.CoverURLByOLID(olid)
	}

	if title == "" || author == "" || image == "" {
		return SearchItem{}, false
	}

	item := SearchItem{
		Title:  title,
		Author: author,
		Image:  &image,
	}
	if key, ok := openlibrary.NormalizeWorkKey(doc.Key); ok {
		item.ExternalID = &key
	}
	return item, true
}

func mapEdition(ed *openlibrary.Edition) EditionItem {
	item := EditionItem{
		Language: openlibrary.LanguageLabel(ed),
	}

	if id, ok := openlibrary.NormalizeEditionID(ed.Key); ok {
		item.EditionID = &id
	}
	if isbn := pickISBN(ed.ISBN13, ed.ISBN10); isbn != "" {
		item.ISBN = &isbn
	}
	if year := strings.TrimSpace(ed.PublishDate); year != "" {
		item.Year = &year
	}
	if len(ed.Publishers) > 0 {
		if publisher := strings.TrimSpace(ed.Publishers[0]); publisher != "" {
			item.Publisher = &publisher
		}
	}

	switch {
	case len(ed.Covers) > 0 && ed.Covers[0] > 0:
		image := openlibrary.CoverURLByID(ed.Covers[0])
		item.Image = &image
	case item.ISBN != nil:
		image := openlibrary.CoverURLByISBN(*item.ISBN)
		item.Image = &image
	case item.EditionID != nil:
		image := openlibrary.CoverURLByOLID(*item.EditionID)
		item.Image = &image
	}
	return item
}

func fillFromEdition(detail *SearchDetail, ed *openlibrary.Edition) {
	mapped := mapEdition(ed)
	detail.Language = mapped.Language
	detail.ISBN = mapped.ISBN
	detail.Year = mapped.Year
	detail.Publisher = mapped.Publisher
	detail.Image = mapped.Image
}

func pickISBN(isbn13, isbn10 []string) string {
	if isbn := firstNonEmpty(isbn13); isbn != "" {
		return isbn
	}
	return firstNonEmpty(isbn10)
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func joinAuthors(names []string) string {
	var kept []string
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, ", ")
}
