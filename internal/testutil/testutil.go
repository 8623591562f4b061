package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/NachoBarcelo/LibRo-backend/internal/entity"
)

// TestBook is a mock book for testing
var TestBook = entity.Book{
	ID:         "5f0c1c2a-9a51-4d6e-b3a1-1f2e3d4c5b6a",
	ExternalID: "/works/OL82563W",
	Title:      "Harry Potter and the Philosopher's Stone",
	Author:     "J. K. Rowling",
	CoverImage: "https://covers.openlibrary.org/b/id/10521270-L.jpg",
	CreatedAt:  time.Now(),
	UpdatedAt:  time.Now(),
}

// TestReview is a mock review for testing
var TestReview = entity.Review{
	ID:        "7a1b2c3d-4e5f-4a6b-8c9d-0e1f2a3b4c5d",
	BookID:    TestBook.ID,
	Title:     "A classic",
	Content:   "Re-read it after years and it still holds up.",
	Rating:    5,
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// AssertResponseCode checks if the response code matches expected
func AssertResponseCode(t interface {
	Errorf(format string, args ...any)
}, got, want int) {
	if got != want {
		t.Errorf("got status code %d, want %d", got, want)
	}
}

// AssertResponseBody checks if the response body contains expected field
func AssertResponseBody(t interface {
	Errorf(format string, args ...any)
}, body map[string]interface{}, key string, expectedValue interface{}) {
	value, ok := body[key]
	if !ok {
		t.Errorf("response body missing key %q", key)
		return
	}
	if value != expectedValue {
		t.Errorf("got %q for key %q, want %q", value, key, expectedValue)
	}
}
