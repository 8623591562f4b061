package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://openlibrary.org"
	defaultCoversURL = "https://covers.openlibrary.org"

	// Per-call wall-clock bound on every upstream request.
	requestTimeout = 6 * time.Second
)

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	timeout    time.Duration
}

func NewClient(userAgent string, rps int) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{},
		userAgent:  userAgent,
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		timeout:    requestTimeout,
	}
}

// SearchDoc matches a single doc from search.json.
type SearchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
	CoverEditionKey  string   `json:"cover_edition_key"`
	EditionKeys      []string `json:"edition_key"`
}

// SearchResponse matches search.json.
type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

// LanguageRef matches the {"key": "/languages/xxx"} references on editions.
type LanguageRef struct {
	Key string `json:"key"`
}

// Edition matches an entry of a work's editions.json collection.
type Edition struct {
	Key         string        `json:"key"`
	Title       string        `json:"title"`
	Languages   []LanguageRef `json:"languages"`
	ISBN13      []string      `json:"isbn_13"`
	ISBN10      []string      `json:"isbn_10"`
	PublishDate string        `json:"publish_date"`
	Publishers  []string      `json:"publishers"`
	Covers      []int         `json:"covers"`
}

type editionsResponse struct {
	Entries []Edition `json:"entries"`
}

// Work matches works/{key}.json. Description can be a plain string or a
// {"type": ..., "value": ...} object, hence the raw message.
type Work struct {
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	Description json.RawMessage `json:"description"`
	Subjects    []string        `json:"subjects"`
	Covers      []int           `json:"covers"`
	Authors     []WorkAuthorRef `json:"authors"`
}

type WorkAuthorRef struct {
	Author struct {
		Key string `json:"key"`
	} `json:"author"`
}

// DescriptionText unpacks the description regardless of shape.
func (w *Work) DescriptionText() string {
	if len(w.Description) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(w.Description, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(w.Description, &obj); err == nil {
		return strings.TrimSpace(obj.Value)
	}
	return ""
}

type authorResponse struct {
	Name         string `json:"name"`
	PersonalName string `json:"personal_name"`
}

// bibkeyRecord matches api/books?jscmd=data entries.
type bibkeyRecord struct {
	Title       string `json:"title"`
	PublishDate string `json:"publish_date"`
	Authors     []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Publishers []struct {
		Name string `json:"name"`
	} `json:"publishers"`
	Cover struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
	} `json:"cover"`
}

// EditionDetails merges the bibkey-lookup record and the raw edition
// document for a single edition id.
type EditionDetails struct {
	ID          string
	Title       string
	AuthorName  string
	Publisher   string
	PublishDate string
	CoverURL    string
	Languages   []LanguageRef
	ISBN13      []string
	ISBN10      []string
	Covers      []int
}

// Search queries the generic search endpoint with a free-text query.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	u := fmt.Sprintf("%s/search.json?q=%s", c.baseURL, url.QueryEscape(query))

	var res SearchResponse
	if _, err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SearchTitle queries the search endpoint by title only.
func (c *Client) SearchTitle(ctx context.Context, title string) (*SearchResponse, error) {
	u := fmt.Sprintf("%s/search.json?title=%s", c.baseURL, url.QueryEscape(title))

	var res SearchResponse
	if _, err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SearchByTitleAuthor runs the identifier-resolution fallback search: a
// title query, then a plain query on the title, then a plain query on
// title plus author. The first attempt returning any docs wins; attempts
// that fail upstream are skipped. An empty result is not an error here,
// callers treat it as "unresolved".
func (c *Client) SearchByTitleAuthor(ctx context.Context, title, author string) ([]SearchDoc, error) {
	trimmedTitle := strings.TrimSpace(title)
	trimmedAuthor := strings.TrimSpace(author)

	if trimmedTitle == "" {
		return nil, nil
	}

	candidates := []string{
		fmt.Sprintf("%s/search.json?title=%s", c.baseURL, url.QueryEscape(trimmedTitle)),
		fmt.Sprintf("%s/search.json?q=%s", c.baseURL, url.QueryEscape(trimmedTitle)),
		fmt.Sprintf("%s/search.json?q=%s", c.baseURL, url.QueryEscape(strings.TrimSpace(trimmedTitle+" "+trimmedAuthor))),
	}

	for _, endpoint := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var res SearchResponse
		if _, err := c.get(ctx, endpoint, &res); err != nil {
			continue
		}
		if len(res.Docs) > 0 {
			return res.Docs, nil
		}
	}
	return nil, nil
}

// GetWork fetches the work document for a canonical "/works/OL...W" key.
func (c *Client) GetWork(ctx context.Context, workKey string) (*Work, error) {
	u := fmt.Sprintf("%s%s.json", c.baseURL, workKey)

	var res Work
	if _, err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// FetchAuthorName resolves an author key ("/authors/OL...A" or bare) to a
// display name. Best effort: any failure yields an empty string.
func (c *Client) FetchAuthorName(ctx context.Context, authorKey string) string {
	key := strings.TrimPrefix(strings.TrimSpace(authorKey), "/authors/")
	if key == "" {
		return ""
	}
	u := fmt.Sprintf("%s/authors/%s.json", c.baseURL, url.PathEscape(key))

	var res authorResponse
	if _, err := c.get(ctx, u, &res); err != nil {
		return ""
	}
	if res.Name != "" {
		return res.Name
	}
	return res.PersonalName
}

// GetWorkEditions fetches the editions collection for a work, capped to the
// first limit entries.
func (c *Client) GetWorkEditions(ctx context.Context, workKey string, limit int) ([]Edition, error) {
	u := fmt.Sprintf("%s%s/editions.json?limit=%d", c.baseURL, workKey, limit)

	var res editionsResponse
	if _, err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	if len(res.Entries) > limit {
		res.Entries = res.Entries[:limit]
	}
	return res.Entries, nil
}

// GetEditionByID fetches the bibkey-lookup record and the raw edition
// document for an edition id in parallel and merges both. Both requests
// must succeed; a failure on either side fails the whole call with an
// UpstreamError carrying the status codes observed on both legs, the
// successful one included. Both legs run to completion so both codes are
// known.
func (c *Client) GetEditionByID(ctx context.Context, editionID string) (*EditionDetails, error) {
	bibkey := "OLID:" + editionID
	bibkeyURL := fmt.Sprintf("%s/api/books?bibkeys=%s&format=json&jscmd=data", c.baseURL, url.QueryEscape(bibkey))
	editionURL := fmt.Sprintf("%s/books/%s.json", c.baseURL, url.PathEscape(editionID))

	var (
		bibkeyRes  map[string]bibkeyRecord
		editionRes Edition
		statuses   [2][]int
	)

	fetch := func(slot int, u string, target interface{}) error {
		status, err := c.get(ctx, u, target)
		if status != 0 {
			statuses[slot] = []int{status}
		}
		return err
	}

	var g errgroup.Group
	g.Go(func() error { return fetch(0, bibkeyURL, &bibkeyRes) })
	g.Go(func() error { return fetch(1, editionURL, &editionRes) })

	if err := g.Wait(); err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) {
			return nil, &UpstreamError{
				URL:         ue.URL,
				StatusCodes: append(statuses[0], statuses[1]...),
				Err:         ue.Err,
			}
		}
		return nil, err
	}

	details := &EditionDetails{
		ID:          editionID,
		Title:       editionRes.Title,
		PublishDate: editionRes.PublishDate,
		Languages:   editionRes.Languages,
		ISBN13:      editionRes.ISBN13,
		ISBN10:      editionRes.ISBN10,
		Covers:      editionRes.Covers,
	}
	if len(editionRes.Publishers) > 0 {
		details.Publisher = editionRes.Publishers[0]
	}

	if rec, ok := bibkeyRes[bibkey]; ok {
		if rec.Title != "" {
			details.Title = rec.Title
		}
		if rec.PublishDate != "" {
			details.PublishDate = rec.PublishDate
		}
		if len(rec.Authors) > 0 {
			details.AuthorName = rec.Authors[0].Name
		}
		if details.Publisher == "" && len(rec.Publishers) > 0 {
			details.Publisher = rec.Publishers[0].Name
		}
		if rec.Cover.Large != "" {
			details.CoverURL = rec.Cover.Large
		} else if rec.Cover.Medium != "" {
			details.CoverURL = rec.Cover.Medium
		}
	}
	if details.CoverURL == "" && len(details.Covers) > 0 {
		details.CoverURL = CoverURLByID(details.Covers[0])
	}
	return details, nil
}

// CoverURLByID builds a cover image URL from a numeric cover id.
func CoverURLByID(coverID int) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", defaultCoversURL, coverID)
}

// CoverURLByISBN builds a cover image URL from an ISBN.
func CoverURLByISBN(isbn string) string {
	return fmt.Sprintf("%s/b/isbn/%s-L.jpg", defaultCoversURL, url.PathEscape(isbn))
}

// CoverURLByOLID builds a cover image URL from an edition id.
func CoverURLByOLID(olid string) string {
	return fmt.Sprintf("%s/b/olid/%s-L.jpg", defaultCoversURL, url.PathEscape(olid))
}

// get performs one rate-limited, deadline-bounded request. The returned
// status is 0 when no response was received.
func (c *Client) get(ctx context.Context, rawURL string, target interface{}) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return 0, ErrTimeout
		}
		return 0, &UpstreamError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, &UpstreamError{URL: rawURL, StatusCodes: []int{resp.StatusCode}}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return resp.StatusCode, &UpstreamError{URL: rawURL, Err: fmt.Errorf("decode response: %w", err)}
	}
	return resp.StatusCode, nil
}
