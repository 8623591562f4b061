package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/NachoBarcelo/LibRo-backend/internal/platform/openlibrary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOLClient struct {
	mock.Mock
}

func (m *mockOLClient) Search(ctx context.Context, query string) (*openlibrary.SearchResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.SearchResponse), args.Error(1)
}

func (m *mockOLClient) SearchTitle(ctx context.Context, title string) (*openlibrary.SearchResponse, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.SearchResponse), args.Error(1)
}

func (m *mockOLClient) SearchByTitleAuthor(ctx context.Context, title, author string) ([]openlibrary.SearchDoc, error) {
	args := m.Called(ctx, title, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]openlibrary.SearchDoc), args.Error(1)
}

func (m *mockOLClient) GetWork(ctx context.Context, workKey string) (*openlibrary.Work, error) {
	args := m.Called(ctx, workKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.Work), args.Error(1)
}

func (m *mockOLClient) FetchAuthorName(ctx context.Context, authorKey string) string {
	args := m.Called(ctx, authorKey)
	return args.String(0)
}

func (m *mockOLClient) GetWorkEditions(ctx context.Context, workKey string, limit int) ([]openlibrary.Edition, error) {
	args := m.Called(ctx, workKey, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]openlibrary.Edition), args.Error(1)
}

func (m *mockOLClient) GetEditionByID(ctx context.Context, editionID string) (*openlibrary.EditionDetails, error) {
	args := m.Called(ctx, editionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openlibrary.EditionDetails), args.Error(1)
}

func TestResolveExternalID_NormalizableSkipsNetwork(t *testing.T) {
	ol := new(mockOLClient)
	r := NewResolver(ol)

	got := r.ResolveExternalID(context.Background(), "OL82563W", "Harry Potter", "J. K. Rowling")
	assert.Equal(t, "/works/OL82563W", got)

	// No search call was made for a directly normalizable id.
	ol.AssertNotCalled(t, "SearchByTitleAuthor", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveExternalID_FallbackSearch(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("SearchByTitleAuthor", mock.Anything, "The Hobbit", "Tolkien").
		Return([]openlibrary.SearchDoc{
			{Key: "not-a-key", Title: "noise"},
			{Key: "/works/OL262758W", Title: "The Hobbit"},
		}, nil)
	r := NewResolver(ol)

	got := r.ResolveExternalID(context.Background(), "isbn:9780261102217", "The Hobbit", "Tolkien")
	assert.Equal(t, "/works/OL262758W", got)
	ol.AssertExpectations(t)
}

func TestResolveExternalID_UnresolvedKeepsOriginal(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("SearchByTitleAuthor", mock.Anything, "Obscure", "Nobody").
		Return([]openlibrary.SearchDoc{}, nil)
	r := NewResolver(ol)

	got := r.ResolveExternalID(context.Background(), "some-opaque-id", "Obscure", "Nobody")
	assert.Equal(t, "some-opaque-id", got)
}

func TestResolveExternalID_SearchFailureKeepsOriginal(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("SearchByTitleAuthor", mock.Anything, "Obscure", "Nobody").
		Return(nil, openlibrary.ErrTimeout)
	r := NewResolver(ol)

	got := r.ResolveExternalID(context.Background(), "some-opaque-id", "Obscure", "Nobody")
	assert.Equal(t, "some-opaque-id", got)
}

func TestBookDetails_WorkKeyPath(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("GetWork", mock.Anything, "/works/OL82563W").
		Return(&openlibrary.Work{
			Key:         "/works/OL82563W",
			Title:       "Harry Potter and the Philosopher's Stone",
			Description: []byte(`"A wizard boy."`),
			Subjects:    []string{"Fantasy", "Magic", " ", "Wizards", "School", "Friendship", "Owls"},
			Covers:      []int{10521270},
			Authors: []openlibrary.WorkAuthorRef{
				{Author: struct {
					Key string `json:"key"`
				}{Key: "/authors/OL23919A"}},
			},
		}, nil)
	ol.On("FetchAuthorName", mock.Anything, "/authors/OL23919A").Return("J. K. Rowling")
	r := NewResolver(ol)

	details := r.BookDetails(context.Background(), "/works/OL82563W", "", "")
	require.NotNil(t, details)
	assert.Equal(t, "Harry Potter and the Philosopher's Stone", details.Title)
	assert.Equal(t, "J. K. Rowling", details.Author)
	require.NotNil(t, details.Synopsis)
	assert.Equal(t, "A wizard boy.", *details.Synopsis)
	// Genres keep the first five non-blank subjects.
	assert.Equal(t, []string{"Fantasy", "Magic", "Wizards", "School", "Friendship"}, details.Genres)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/10521270-L.jpg", details.CoverURL)
}

func TestBookDetails_EditionIDPath(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("GetEditionByID", mock.Anything, "OL7353617M").
		Return(&openlibrary.EditionDetails{
			ID:         "OL7353617M",
			Title:      "The Hobbit",
			AuthorName: "J. R. R. Tolkien",
			CoverURL:   "https://covers.openlibrary.org/b/id/123-L.jpg",
		}, nil)
	r := NewResolver(ol)

	details := r.BookDetails(context.Background(), "OL7353617M", "", "")
	require.NotNil(t, details)
	assert.Equal(t, "The Hobbit", details.Title)
	assert.Equal(t, "J. R. R. Tolkien", details.Author)
	assert.Nil(t, details.Synopsis)
	assert.Empty(t, details.Genres)
}

func TestBookDetails_DegradesToNil(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("SearchByTitleAuthor", mock.Anything, "Obscure", "Nobody").
		Return(nil, openlibrary.ErrTimeout)
	r := NewResolver(ol)

	assert.Nil(t, r.BookDetails(context.Background(), "opaque", "Obscure", "Nobody"))
}

func TestBookDetails_WorkFetchFailureDegradesToNil(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("GetWork", mock.Anything, "/works/OL1W").
		Return(nil, &openlibrary.UpstreamError{StatusCodes: []int{502}})
	r := NewResolver(ol)

	assert.Nil(t, r.BookDetails(context.Background(), "/works/OL1W", "T", "A"))
}

func TestSearchBooks(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("Search", mock.Anything, "harry potter").
		Return(&openlibrary.SearchResponse{
			NumFound: 3,
			Docs: []openlibrary.SearchDoc{
				{Key: "/works/OL82563W", Title: "Harry Potter", AuthorNames: []string{"J. K. Rowling"}, ISBN: []string{"9780747532743"}},
				{Key: "/works/OL2W", Title: "No Cover", AuthorNames: []string{"Someone"}},
				{Key: "/works/OL3W", Title: "Covered", AuthorNames: []string{"Other"}, CoverEditionKey: "OL99M"},
			},
		}, nil).Once()
	r := NewResolver(ol)

	items, err := r.SearchBooks(context.Background(), "harry potter")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Harry Potter", items[0].Title)
	assert.Equal(t, "J. K. Rowling", items[0].Author)
	require.NotNil(t, items[0].Image)
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780747532743-L.jpg", *items[0].Image)
	require.NotNil(t, items[0].ExternalID)
	assert.Equal(t, "/works/OL82563W", *items[0].ExternalID)

	require.NotNil(t, items[1].Image)
	assert.Equal(t, "https://covers.openlibrary.org/b/olid/OL99M-L.jpg", *items[1].Image)
}

func TestSearchBooks_CachesNormalizedQuery(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("Search", mock.Anything, "harry potter").
		Return(&openlibrary.SearchResponse{Docs: []openlibrary.SearchDoc{}}, nil).Once()
	r := NewResolver(ol)

	_, err := r.SearchBooks(context.Background(), "harry potter")
	require.NoError(t, err)

	// Same query up to case and spacing hits the cache.
	_, err = r.SearchBooks(context.Background(), "  Harry   POTTER ")
	require.NoError(t, err)

	ol.AssertNumberOfCalls(t, "Search", 1)
}

func TestSearchBooks_CacheExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ol := new(mockOLClient)
	ol.On("Search", mock.Anything, "harry potter").
		Return(&openlibrary.SearchResponse{Docs: []openlibrary.SearchDoc{}}, nil).Twice()
	r := NewResolverWithClock(ol, func() time.Time { return now })

	_, err := r.SearchBooks(context.Background(), "harry potter")
	require.NoError(t, err)

	now = now.Add(11 * time.Minute)
	_, err = r.SearchBooks(context.Background(), "harry potter")
	require.NoError(t, err)

	ol.AssertNumberOfCalls(t, "Search", 2)
}

func TestSearchBooks_EmptyQuery(t *testing.T) {
	r := NewResolver(new(mockOLClient))

	_, err := r.SearchBooks(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestSearchBooks_CapsResults(t *testing.T) {
	docs := make([]openlibrary.SearchDoc, 0, 30)
	for i := 0; i < 30; i++ {
		docs = append(docs, openlibrary.SearchDoc{
			Key:         "/works/OL1W",
			Title:       "T",
			AuthorNames: []string{"A"},
			ISBN:        []string{"123"},
		})
	}
	ol := new(mockOLClient)
	ol.On("Search", mock.Anything, "t").
		Return(&openlibrary.SearchResponse{Docs: docs}, nil)
	r := NewResolver(ol)

	items, err := r.SearchBooks(context.Background(), "t")
	require.NoError(t, err)
	assert.Len(t, items, 20)
}

func TestSearchBookDetail(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("SearchTitle", mock.Anything, "el quijote").
		Return(&openlibrary.SearchResponse{
			Docs: []openlibrary.SearchDoc{
				{Key: "/works/OL59431W", Title: "Don Quijote", AuthorNames: []string{"Miguel de Cervantes"}},
			},
		}, nil)
	ol.On("GetWorkEditions", mock.Anything, "/works/OL59431W", 20).
		Return([]openlibrary.Edition{
			{
				Key:         "/books/OL1M",
				Languages:   []openlibrary.LanguageRef{{Key: "/languages/eng"}},
				ISBN13:      []string{"9780000000001"},
				PublishDate: "1999",
				Publishers:  []string{"Penguin"},
			},
			{
				Key:         "/books/OL2M",
				Languages:   []openlibrary.LanguageRef{{Key: "/languages/spa"}},
				ISBN13:      []string{"9788424116279"},
				PublishDate: "2004",
				Publishers:  []string{"Catedra"},
				Covers:      []int{555},
			},
		}, nil)
	r := NewResolver(ol)

	detail, err := r.SearchBookDetail(context.Background(), "el quijote")
	require.NoError(t, err)

	assert.Equal(t, "Don Quijote", detail.Title)
	assert.Equal(t, "Miguel de Cervantes", detail.Author)
	// The Spanish edition is preferred over the English one.
	assert.Equal(t, openlibrary.LabelSpanish, detail.Language)
	require.NotNil(t, detail.ISBN)
	assert.Equal(t, "9788424116279", *detail.ISBN)
	require.NotNil(t, detail.Year)
	assert.Equal(t, "2004", *detail.Year)
	require.NotNil(t, detail.Publisher)
	assert.Equal(t, "Catedra", *detail.Publisher)
	require.NotNil(t, detail.Image)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/555-L.jpg", *detail.Image)
}

func TestSearchBookDetail_NoDocs(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("SearchTitle", mock.Anything, "nothing").
		Return(&openlibrary.SearchResponse{Docs: []openlibrary.SearchDoc{}}, nil)
	r := NewResolver(ol)

	_, err := r.SearchBookDetail(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchBookDetail_EditionFailureDegrades(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("SearchTitle", mock.Anything, "partial").
		Return(&openlibrary.SearchResponse{
			Docs: []openlibrary.SearchDoc{
				{Key: "/works/OL5W", Title: "Partial", AuthorNames: []string{"Author"}},
			},
		}, nil)
	ol.On("GetWorkEditions", mock.Anything, "/works/OL5W", 20).
		Return(nil, openlibrary.ErrTimeout)
	r := NewResolver(ol)

	detail, err := r.SearchBookDetail(context.Background(), "partial")
	require.NoError(t, err)
	assert.Equal(t, "Partial", detail.Title)
	assert.Equal(t, "Author", detail.Author)
	assert.Equal(t, openlibrary.LabelOther, detail.Language)
	assert.Nil(t, detail.ISBN)
	assert.Nil(t, detail.Image)
}

func TestSearchBookDetail_Cached(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("SearchTitle", mock.Anything, "cached").
		Return(&openlibrary.SearchResponse{
			Docs: []openlibrary.SearchDoc{{Key: "no-key", Title: "Cached", AuthorNames: []string{"A"}}},
		}, nil).Once()
	r := NewResolver(ol)

	_, err := r.SearchBookDetail(context.Background(), "cached")
	require.NoError(t, err)
	_, err = r.SearchBookDetail(context.Background(), "CACHED")
	require.NoError(t, err)

	ol.AssertNumberOfCalls(t, "SearchTitle", 1)
}

func TestWorkEditions(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("GetWorkEditions", mock.Anything, "/works/OL82563W", 100).
		Return([]openlibrary.Edition{
			{
				Key:         "/books/OL1M",
				Languages:   []openlibrary.LanguageRef{{Key: "/languages/spa"}},
				ISBN10:      []string{"8478884459"},
				PublishDate: "1999",
				Publishers:  []string{"Salamandra"},
			},
			{Key: "not-an-edition-key"},
		}, nil)
	r := NewResolver(ol)

	items, err := r.WorkEditions(context.Background(), "OL82563W")
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NotNil(t, items[0].EditionID)
	assert.Equal(t, "OL1M", *items[0].EditionID)
	assert.Equal(t, openlibrary.LabelSpanish, items[0].Language)
	require.NotNil(t, items[0].ISBN)
	assert.Equal(t, "8478884459", *items[0].ISBN)
	require.NotNil(t, items[0].Image)
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/8478884459-L.jpg", *items[0].Image)

	// An entry without a parsable key still maps, just without id or image.
	assert.Nil(t, items[1].EditionID)
	assert.Equal(t, openlibrary.LabelOther, items[1].Language)
	assert.Nil(t, items[1].Image)
}

func TestWorkEditions_InvalidWorkID(t *testing.T) {
	r := NewResolver(new(mockOLClient))

	_, err := r.WorkEditions(context.Background(), "not-a-work")
	assert.ErrorIs(t, err, ErrInvalidWorkKey)
}

func TestWorkEditions_UpstreamErrorPropagates(t *testing.T) {
	ol := new(mockOLClient)
	ol.On("GetWorkEditions", mock.Anything, "/works/OL9W", 100).
		Return(nil, openlibrary.ErrTimeout)
	r := NewResolver(ol)

	_, err := r.WorkEditions(context.Background(), "/works/OL9W")
	assert.ErrorIs(t, err, openlibrary.ErrTimeout)
}
