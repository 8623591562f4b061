package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NachoBarcelo/LibRo-backend/internal/catalog"
	"github.com/NachoBarcelo/LibRo-backend/internal/entity"
	"github.com/NachoBarcelo/LibRo-backend/internal/store/mocks"
	"github.com/NachoBarcelo/LibRo-backend/internal/testutil"
	"github.com/NachoBarcelo/LibRo-backend/internal/usecase"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

// passthroughResolver resolves every identifier to itself and never enriches.
type passthroughResolver struct{}

func (passthroughResolver) ResolveExternalID(ctx context.Context, externalID, title, author string) string {
	return externalID
}

func (passthroughResolver) BookDetails(ctx context.Context, externalID, title, author string) *catalog.WorkDetails {
	return nil
}

type stubEditionLister struct {
	items []catalog.EditionItem
	err   error
}

func (s stubEditionLister) WorkEditions(ctx context.Context, workID string) ([]catalog.EditionItem, error) {
	return s.items, s.err
}

func newBookHandler(t *testing.T, editions EditionLister) (*BookHandler, *mocks.MockBookRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockRepo := mocks.NewMockBookRepository(ctrl)
	service := usecase.NewBookService(mockRepo, passthroughResolver{})
	return NewBookHandler(service, editions), mockRepo
}

func TestBookHandler_Create(t *testing.T) {
	validBody := map[string]interface{}{
		"externalId": "/works/OL82563W",
		"title":      "Harry Potter and the Philosopher's Stone",
		"author":     "J. K. Rowling",
		"coverImage": "https://covers.openlibrary.org/b/id/10521270-L.jpg",
	}

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(repo *mocks.MockBookRepository)
		expectedStatus int
	}{
		{
			name: "created",
			body: validBody,
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					GetByExternalID(gomock.Any(), "/works/OL82563W").
					Return(entity.Book{}, usecase.ErrBookNotFound)
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "already cataloged",
			body: validBody,
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					GetByExternalID(gomock.Any(), "/works/OL82563W").
					Return(testutil.TestBook, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "missing title",
			body: map[string]interface{}{
				"externalId": "/works/OL82563W",
				"author":     "J. K. Rowling",
				"coverImage": "https://covers.openlibrary.org/b/id/10521270-L.jpg",
			},
			setupMock:      func(repo *mocks.MockBookRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "cover image not a url",
			body: map[string]interface{}{
				"externalId": "/works/OL82563W",
				"title":      "Harry Potter",
				"author":     "J. K. Rowling",
				"coverImage": "not-a-url",
			},
			setupMock:      func(repo *mocks.MockBookRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "negative published year",
			body: map[string]interface{}{
				"externalId":    "/works/OL82563W",
				"title":         "Harry Potter",
				"author":        "J. K. Rowling",
				"coverImage":    "https://covers.openlibrary.org/b/id/10521270-L.jpg",
				"publishedYear": -3,
			},
			setupMock:      func(repo *mocks.MockBookRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "storage error",
			body: validBody,
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					GetByExternalID(gomock.Any(), "/works/OL82563W").
					Return(entity.Book{}, context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockRepo := newBookHandler(t, stubEditionLister{})
			tt.setupMock(mockRepo)

			w := httptest.NewRecorder()
			r := testutil.NewRequest(http.MethodPost, "/books", tt.body)

			handler.Collection(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestBookHandler_Create_InvalidJSON(t *testing.T) {
	handler, _ := newBookHandler(t, stubEditionLister{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/books", nil)

	handler.Collection(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookHandler_List(t *testing.T) {
	handler, mockRepo := newBookHandler(t, stubEditionLister{})
	mockRepo.EXPECT().
		List(gomock.Any()).
		Return([]entity.Book{testutil.TestBook}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/books", nil)

	handler.Collection(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := testutil.RecordHTTPResponse(w)
	assert.Equal(t, true, resp.Body["success"])
}

func TestBookHandler_Details(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(repo *mocks.MockBookRepository)
		expectedStatus int
	}{
		{
			name: "found",
			path: "/books/" + testutil.TestBook.ID,
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					GetByID(gomock.Any(), testutil.TestBook.ID).
					Return(testutil.TestBook, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			path: "/books/" + testutil.TestBook.ID,
			setupMock: func(repo *mocks.MockBookRepository) {
				repo.EXPECT().
					GetByID(gomock.Any(), testutil.TestBook.ID).
					Return(entity.Book{}, usecase.ErrBookNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid id",
			path:           "/books/not-a-uuid",
			setupMock:      func(repo *mocks.MockBookRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockRepo := newBookHandler(t, stubEditionLister{})
			tt.setupMock(mockRepo)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)

			handler.Item(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestBookHandler_Editions(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		lister         EditionLister
		expectedStatus int
	}{
		{
			name:           "bare work id",
			path:           "/books/OL82563W/editions",
			lister:         stubEditionLister{items: []catalog.EditionItem{{Language: "Otro"}}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "full work key without leading slash",
			path:           "/books/works/OL82563W/editions",
			lister:         stubEditionLister{items: []catalog.EditionItem{}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid work id",
			path:           "/books/banana/editions",
			lister:         stubEditionLister{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "resolver rejects id",
			path:           "/books/OL1W/editions",
			lister:         stubEditionLister{err: catalog.ErrInvalidWorkKey},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newBookHandler(t, tt.lister)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)

			handler.Item(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestBookHandler_MethodNotAllowed(t *testing.T) {
	handler, _ := newBookHandler(t, stubEditionLister{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/books", nil)
	handler.Collection(w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/books/"+testutil.TestBook.ID, nil)
	handler.Item(w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
